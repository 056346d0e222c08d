package inmemory

import (
	"context"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type triggerRepositoryImpl struct {
	store *storeState
}

func newTriggerRepositoryImpl(store *storeState) domain.TriggerRepository {
	return &triggerRepositoryImpl{store}
}

func (r *triggerRepositoryImpl) AddPendingResolution(
	_ context.Context, pending *domain.PendingResolution,
) error {
	if existing, ok := r.store.triggers[pending.OrderId]; ok && !existing.Consumed {
		return domain.ErrTriggerPending
	}
	r.store.triggers[pending.OrderId] = copyPendingResolution(pending)
	return nil
}

func (r *triggerRepositoryImpl) GetPendingResolutionByOrder(
	_ context.Context, orderId uint64,
) (*domain.PendingResolution, error) {
	pending, ok := r.store.triggers[orderId]
	if !ok || pending.Consumed {
		return nil, domain.ErrTriggerNotFound
	}
	return copyPendingResolution(pending), nil
}

func (r *triggerRepositoryImpl) ConsumePendingResolution(
	_ context.Context, orderId uint64,
) error {
	pending, ok := r.store.triggers[orderId]
	if !ok {
		return domain.ErrTriggerNotFound
	}
	if pending.Consumed {
		return domain.ErrTriggerAlreadyConsumed
	}
	pending.Consumed = true
	return nil
}
