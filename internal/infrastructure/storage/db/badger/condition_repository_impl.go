package dbbadger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type conditionRepositoryImpl struct {
	db *DbManager
}

func newConditionRepositoryImpl(db *DbManager) domain.ConditionRepository {
	return conditionRepositoryImpl{db: db}
}

func (c conditionRepositoryImpl) AddCondition(
	ctx context.Context, condition *domain.Condition,
) error {
	existing, err := c.getCondition(ctx, condition.Id)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Oracle == condition.Oracle &&
			existing.QuestionId == condition.QuestionId &&
			existing.OutcomeSlotCount == condition.OutcomeSlotCount {
			return nil
		}
		return domain.ErrConditionAlreadyPrepared
	}

	if tx := txFromContext(ctx); tx != nil {
		return c.db.store.TxInsert(tx, condition.Id.Hex(), condition)
	}
	return c.db.store.Insert(condition.Id.Hex(), condition)
}

func (c conditionRepositoryImpl) GetCondition(
	ctx context.Context, id common.Hash,
) (*domain.Condition, error) {
	condition, err := c.getCondition(ctx, id)
	if err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, domain.ErrConditionNotFound
	}
	return condition, nil
}

func (c conditionRepositoryImpl) UpdateCondition(
	ctx context.Context, id common.Hash,
	updateFn func(condition *domain.Condition) (*domain.Condition, error),
) error {
	currentCondition, err := c.GetCondition(ctx, id)
	if err != nil {
		return err
	}

	updatedCondition, err := updateFn(currentCondition)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return c.db.store.TxUpdate(tx, id.Hex(), *updatedCondition)
	}
	return c.db.store.Update(id.Hex(), *updatedCondition)
}

func (c conditionRepositoryImpl) getCondition(
	ctx context.Context, id common.Hash,
) (*domain.Condition, error) {
	var err error
	var condition domain.Condition

	if tx := txFromContext(ctx); tx != nil {
		err = c.db.store.TxGet(tx, id.Hex(), &condition)
	} else {
		err = c.db.store.Get(id.Hex(), &condition)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &condition, nil
}

// positionBalance is the stored representation of the conditional tokens an
// address holds for one position id.
type positionBalance struct {
	Balance uint64
}

// positionSupply aggregates the outstanding amount of one position id across
// all owners, keyed by the position id itself.
type positionSupply struct {
	Supply uint64
}

type positionRepositoryImpl struct {
	db *DbManager
}

func newPositionRepositoryImpl(db *DbManager) domain.PositionRepository {
	return positionRepositoryImpl{db: db}
}

func positionKey(owner common.Address, positionId common.Hash) string {
	return owner.Hex() + "/" + positionId.Hex()
}

func (p positionRepositoryImpl) GetBalance(
	ctx context.Context, owner common.Address, positionId common.Hash,
) (uint64, error) {
	return p.getBalance(ctx, positionKey(owner, positionId))
}

func (p positionRepositoryImpl) IncrementBalance(
	ctx context.Context, owner common.Address, positionId common.Hash,
	amount uint64,
) error {
	key := positionKey(owner, positionId)
	balance, err := p.getBalance(ctx, key)
	if err != nil {
		return err
	}
	if err := p.setBalance(ctx, key, balance+amount); err != nil {
		return err
	}

	supply, err := p.GetTotalSupply(ctx, positionId)
	if err != nil {
		return err
	}
	return p.setSupply(ctx, positionId, supply+amount)
}

func (p positionRepositoryImpl) DecrementBalance(
	ctx context.Context, owner common.Address, positionId common.Hash,
	amount uint64,
) error {
	key := positionKey(owner, positionId)
	balance, err := p.getBalance(ctx, key)
	if err != nil {
		return err
	}
	if balance < amount {
		return domain.ErrInsufficientPositions
	}
	if err := p.setBalance(ctx, key, balance-amount); err != nil {
		return err
	}

	supply, err := p.GetTotalSupply(ctx, positionId)
	if err != nil {
		return err
	}
	if supply < amount {
		supply = amount
	}
	return p.setSupply(ctx, positionId, supply-amount)
}

func (p positionRepositoryImpl) GetTotalSupply(
	ctx context.Context, positionId common.Hash,
) (uint64, error) {
	var err error
	var supply positionSupply

	if tx := txFromContext(ctx); tx != nil {
		err = p.db.store.TxGet(tx, positionId.Hex(), &supply)
	} else {
		err = p.db.store.Get(positionId.Hex(), &supply)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return supply.Supply, nil
}

func (p positionRepositoryImpl) setSupply(
	ctx context.Context, positionId common.Hash, supply uint64,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return p.db.store.TxUpsert(tx, positionId.Hex(), positionSupply{Supply: supply})
	}
	return p.db.store.Upsert(positionId.Hex(), positionSupply{Supply: supply})
}

func (p positionRepositoryImpl) getBalance(
	ctx context.Context, key string,
) (uint64, error) {
	var err error
	var balance positionBalance

	if tx := txFromContext(ctx); tx != nil {
		err = p.db.store.TxGet(tx, key, &balance)
	} else {
		err = p.db.store.Get(key, &balance)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return balance.Balance, nil
}

func (p positionRepositoryImpl) setBalance(
	ctx context.Context, key string, balance uint64,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return p.db.store.TxUpsert(tx, key, positionBalance{Balance: balance})
	}
	return p.db.store.Upsert(key, positionBalance{Balance: balance})
}
