package inmemory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type accountRepositoryImpl struct {
	store *storeState
}

func newAccountRepositoryImpl(store *storeState) domain.AccountRepository {
	return &accountRepositoryImpl{store}
}

func (r *accountRepositoryImpl) GetBalance(
	_ context.Context, owner, token common.Address,
) (uint64, error) {
	return r.store.accounts[accountKey(owner, token)], nil
}

func (r *accountRepositoryImpl) Deposit(
	_ context.Context, owner, token common.Address, amount uint64,
) error {
	r.store.accounts[accountKey(owner, token)] += amount
	return nil
}

func (r *accountRepositoryImpl) Transfer(
	_ context.Context, from, to, token common.Address, amount uint64,
) error {
	if amount == 0 {
		return nil
	}

	fromKey := accountKey(from, token)
	balance := r.store.accounts[fromKey]
	if balance < amount {
		return domain.ErrInsufficientFunds
	}

	if balance == amount {
		delete(r.store.accounts, fromKey)
	} else {
		r.store.accounts[fromKey] = balance - amount
	}
	r.store.accounts[accountKey(to, token)] += amount
	return nil
}
