package dbbadger

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

var (
	ctx = context.Background()

	maker = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	taker = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	token = common.HexToAddress("0x0000000000000000000000000000000000000b01")
)

func newTestDb(t *testing.T) *DbManager {
	t.Helper()

	db, err := NewDbManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()

	order, err := domain.NewOrder(maker, taker, token, 100, 0)
	require.NoError(t, err)
	return order
}

func TestAddAndGetOrder(t *testing.T) {
	db := newTestDb(t)

	for i := 1; i <= 3; i++ {
		id, err := db.OrderRepository().AddOrder(ctx, newTestOrder(t))
		require.NoError(t, err)
		require.Equal(t, uint64(i), id)
	}

	order, err := db.OrderRepository().GetOrder(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(2), order.Id)
	require.Equal(t, maker, order.Maker)

	_, err = db.OrderRepository().GetOrder(ctx, 42)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	orders, err := db.OrderRepository().GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i, o := range orders {
		require.Equal(t, uint64(i+1), o.Id)
	}
}

func TestUpdateOrder(t *testing.T) {
	db := newTestDb(t)

	id, err := db.OrderRepository().AddOrder(ctx, newTestOrder(t))
	require.NoError(t, err)

	err = db.OrderRepository().UpdateOrder(
		ctx, id, func(order *domain.Order) (*domain.Order, error) {
			if err := order.Fund(maker); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
	require.NoError(t, err)

	order, err := db.OrderRepository().GetOrder(ctx, id)
	require.NoError(t, err)
	require.True(t, order.IsFunded())
}

func TestTransactionRollback(t *testing.T) {
	db := newTestDb(t)

	expectedErr := errors.New("boom")
	_, err := db.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if _, err := db.OrderRepository().AddOrder(
				ctx, newTestOrder(t),
			); err != nil {
				return nil, err
			}
			if err := db.AccountRepository().Deposit(
				ctx, maker, token, 100,
			); err != nil {
				return nil, err
			}
			return nil, expectedErr
		},
	)
	require.ErrorIs(t, err, expectedErr)

	// nothing written by the failed transaction is observable
	_, err = db.OrderRepository().GetOrder(ctx, 1)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	balance, err := db.AccountRepository().GetBalance(ctx, maker, token)
	require.NoError(t, err)
	require.Zero(t, balance)
}

func TestAccountTransfer(t *testing.T) {
	db := newTestDb(t)

	require.NoError(t, db.AccountRepository().Deposit(ctx, maker, token, 100))

	err := db.AccountRepository().Transfer(ctx, maker, taker, token, 101)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.NoError(
		t, db.AccountRepository().Transfer(ctx, maker, taker, token, 60),
	)

	makerBalance, err := db.AccountRepository().GetBalance(ctx, maker, token)
	require.NoError(t, err)
	require.Equal(t, uint64(40), makerBalance)
	takerBalance, err := db.AccountRepository().GetBalance(ctx, taker, token)
	require.NoError(t, err)
	require.Equal(t, uint64(60), takerBalance)
}

func TestAccountSelfTransfer(t *testing.T) {
	db := newTestDb(t)

	require.NoError(t, db.AccountRepository().Deposit(ctx, maker, token, 100))

	err := db.AccountRepository().Transfer(ctx, maker, maker, token, 101)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.NoError(
		t, db.AccountRepository().Transfer(ctx, maker, maker, token, 40),
	)

	balance, err := db.AccountRepository().GetBalance(ctx, maker, token)
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)
}

func TestPositionTotalSupply(t *testing.T) {
	db := newTestDb(t)

	positionId := common.HexToHash(
		"0x0000000000000000000000000000000000000000000000000000000000000d01",
	)

	require.NoError(
		t, db.PositionRepository().IncrementBalance(ctx, maker, positionId, 60),
	)
	require.NoError(
		t, db.PositionRepository().IncrementBalance(ctx, taker, positionId, 40),
	)

	supply, err := db.PositionRepository().GetTotalSupply(ctx, positionId)
	require.NoError(t, err)
	require.Equal(t, uint64(100), supply)

	require.NoError(
		t, db.PositionRepository().DecrementBalance(ctx, taker, positionId, 40),
	)

	supply, err = db.PositionRepository().GetTotalSupply(ctx, positionId)
	require.NoError(t, err)
	require.Equal(t, uint64(60), supply)
}

func TestConsumePendingResolution(t *testing.T) {
	db := newTestDb(t)

	pending := domain.NewPendingResolution(1, taker, 5, 0)
	require.NoError(t, db.TriggerRepository().AddPendingResolution(ctx, pending))

	err := db.TriggerRepository().AddPendingResolution(
		ctx, domain.NewPendingResolution(1, taker, 5, 0),
	)
	require.ErrorIs(t, err, domain.ErrTriggerPending)

	require.NoError(t, db.TriggerRepository().ConsumePendingResolution(ctx, 1))

	err = db.TriggerRepository().ConsumePendingResolution(ctx, 1)
	require.ErrorIs(t, err, domain.ErrTriggerAlreadyConsumed)

	_, err = db.TriggerRepository().GetPendingResolutionByOrder(ctx, 1)
	require.ErrorIs(t, err, domain.ErrTriggerNotFound)

	// a consumed record does not block a new trigger for the same order
	require.NoError(t, db.TriggerRepository().AddPendingResolution(
		ctx, domain.NewPendingResolution(1, taker, 5, 0),
	))
}
