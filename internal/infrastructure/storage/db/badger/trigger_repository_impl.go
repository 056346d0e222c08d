package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type triggerRepositoryImpl struct {
	db *DbManager
}

func newTriggerRepositoryImpl(db *DbManager) domain.TriggerRepository {
	return triggerRepositoryImpl{db: db}
}

func (t triggerRepositoryImpl) AddPendingResolution(
	ctx context.Context, pending *domain.PendingResolution,
) error {
	existing, err := t.getPendingResolution(ctx, pending.OrderId)
	if err != nil {
		return err
	}
	if existing != nil && !existing.Consumed {
		return domain.ErrTriggerPending
	}

	if tx := txFromContext(ctx); tx != nil {
		return t.db.store.TxUpsert(tx, pending.OrderId, pending)
	}
	return t.db.store.Upsert(pending.OrderId, pending)
}

func (t triggerRepositoryImpl) GetPendingResolutionByOrder(
	ctx context.Context, orderId uint64,
) (*domain.PendingResolution, error) {
	pending, err := t.getPendingResolution(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if pending == nil || pending.Consumed {
		return nil, domain.ErrTriggerNotFound
	}
	return pending, nil
}

func (t triggerRepositoryImpl) ConsumePendingResolution(
	ctx context.Context, orderId uint64,
) error {
	pending, err := t.getPendingResolution(ctx, orderId)
	if err != nil {
		return err
	}
	if pending == nil {
		return domain.ErrTriggerNotFound
	}
	if pending.Consumed {
		return domain.ErrTriggerAlreadyConsumed
	}

	pending.Consumed = true
	if tx := txFromContext(ctx); tx != nil {
		return t.db.store.TxUpdate(tx, orderId, *pending)
	}
	return t.db.store.Update(orderId, *pending)
}

func (t triggerRepositoryImpl) getPendingResolution(
	ctx context.Context, orderId uint64,
) (*domain.PendingResolution, error) {
	var err error
	var pending domain.PendingResolution

	if tx := txFromContext(ctx); tx != nil {
		err = t.db.store.TxGet(tx, orderId, &pending)
	} else {
		err = t.db.store.Get(orderId, &pending)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pending, nil
}
