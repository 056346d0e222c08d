package dbbadger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

// accountBalance is the stored representation of the fungible tokens an
// address holds for one token.
type accountBalance struct {
	Balance uint64
}

type accountRepositoryImpl struct {
	db *DbManager
}

func newAccountRepositoryImpl(db *DbManager) domain.AccountRepository {
	return accountRepositoryImpl{db: db}
}

func accountKey(owner, token common.Address) string {
	return owner.Hex() + "/" + token.Hex()
}

func (a accountRepositoryImpl) GetBalance(
	ctx context.Context, owner, token common.Address,
) (uint64, error) {
	return a.getBalance(ctx, accountKey(owner, token))
}

func (a accountRepositoryImpl) Deposit(
	ctx context.Context, owner, token common.Address, amount uint64,
) error {
	key := accountKey(owner, token)
	balance, err := a.getBalance(ctx, key)
	if err != nil {
		return err
	}
	return a.setBalance(ctx, key, balance+amount)
}

func (a accountRepositoryImpl) Transfer(
	ctx context.Context, from, to, token common.Address, amount uint64,
) error {
	if amount == 0 {
		return nil
	}

	fromKey := accountKey(from, token)
	fromBalance, err := a.getBalance(ctx, fromKey)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return domain.ErrInsufficientFunds
	}
	// a self-transfer must not double-count the stale destination read
	if from == to {
		return nil
	}

	toKey := accountKey(to, token)
	toBalance, err := a.getBalance(ctx, toKey)
	if err != nil {
		return err
	}

	if err := a.setBalance(ctx, fromKey, fromBalance-amount); err != nil {
		return err
	}
	return a.setBalance(ctx, toKey, toBalance+amount)
}

func (a accountRepositoryImpl) getBalance(
	ctx context.Context, key string,
) (uint64, error) {
	var err error
	var balance accountBalance

	if tx := txFromContext(ctx); tx != nil {
		err = a.db.store.TxGet(tx, key, &balance)
	} else {
		err = a.db.store.Get(key, &balance)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return balance.Balance, nil
}

func (a accountRepositoryImpl) setBalance(
	ctx context.Context, key string, balance uint64,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return a.db.store.TxUpsert(tx, key, accountBalance{Balance: balance})
	}
	return a.db.store.Upsert(key, accountBalance{Balance: balance})
}
