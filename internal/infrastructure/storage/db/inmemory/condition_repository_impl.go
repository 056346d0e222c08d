package inmemory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type conditionRepositoryImpl struct {
	store *storeState
}

func newConditionRepositoryImpl(store *storeState) domain.ConditionRepository {
	return &conditionRepositoryImpl{store}
}

func (r *conditionRepositoryImpl) AddCondition(
	_ context.Context, condition *domain.Condition,
) error {
	if existing, ok := r.store.conditions[condition.Id]; ok {
		if existing.Oracle != condition.Oracle ||
			existing.QuestionId != condition.QuestionId ||
			existing.OutcomeSlotCount != condition.OutcomeSlotCount {
			return domain.ErrConditionAlreadyPrepared
		}
		return nil
	}
	r.store.conditions[condition.Id] = copyCondition(condition)
	return nil
}

func (r *conditionRepositoryImpl) GetCondition(
	_ context.Context, id common.Hash,
) (*domain.Condition, error) {
	condition, ok := r.store.conditions[id]
	if !ok {
		return nil, domain.ErrConditionNotFound
	}
	return copyCondition(condition), nil
}

func (r *conditionRepositoryImpl) UpdateCondition(
	ctx context.Context, id common.Hash,
	updateFn func(condition *domain.Condition) (*domain.Condition, error),
) error {
	current, ok := r.store.conditions[id]
	if !ok {
		return domain.ErrConditionNotFound
	}

	updated, err := updateFn(copyCondition(current))
	if err != nil {
		return err
	}

	r.store.conditions[id] = copyCondition(updated)
	return nil
}

type positionRepositoryImpl struct {
	store *storeState
}

func newPositionRepositoryImpl(store *storeState) domain.PositionRepository {
	return &positionRepositoryImpl{store}
}

func (r *positionRepositoryImpl) GetBalance(
	_ context.Context, owner common.Address, positionId common.Hash,
) (uint64, error) {
	return r.store.positions[positionKey(owner, positionId)], nil
}

func (r *positionRepositoryImpl) IncrementBalance(
	_ context.Context, owner common.Address, positionId common.Hash,
	amount uint64,
) error {
	r.store.positions[positionKey(owner, positionId)] += amount
	r.store.supplies[positionId] += amount
	return nil
}

func (r *positionRepositoryImpl) DecrementBalance(
	_ context.Context, owner common.Address, positionId common.Hash,
	amount uint64,
) error {
	key := positionKey(owner, positionId)
	balance := r.store.positions[key]
	if balance < amount {
		return domain.ErrInsufficientPositions
	}
	if balance == amount {
		delete(r.store.positions, key)
	} else {
		r.store.positions[key] = balance - amount
	}

	if supply := r.store.supplies[positionId]; supply <= amount {
		delete(r.store.supplies, positionId)
	} else {
		r.store.supplies[positionId] = supply - amount
	}
	return nil
}

func (r *positionRepositoryImpl) GetTotalSupply(
	_ context.Context, positionId common.Hash,
) (uint64, error) {
	return r.store.supplies[positionId], nil
}
