package inmemory

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

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()

	order, err := domain.NewOrder(maker, taker, token, 100, 0)
	require.NoError(t, err)
	return order
}

func TestOrderRepository(t *testing.T) {
	db := NewDbManager()
	defer db.Close()

	for i := 1; i <= 3; i++ {
		id, err := db.OrderRepository().AddOrder(ctx, newTestOrder(t))
		require.NoError(t, err)
		require.Equal(t, uint64(i), id)
	}

	_, err := db.OrderRepository().GetOrder(ctx, 42)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	orders, err := db.OrderRepository().GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	err = db.OrderRepository().UpdateOrder(
		ctx, 1, func(order *domain.Order) (*domain.Order, error) {
			if err := order.Fund(maker); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
	require.NoError(t, err)

	order, err := db.OrderRepository().GetOrder(ctx, 1)
	require.NoError(t, err)
	require.True(t, order.IsFunded())
}

func TestRepositoriesReturnCopies(t *testing.T) {
	db := NewDbManager()
	defer db.Close()

	id, err := db.OrderRepository().AddOrder(ctx, newTestOrder(t))
	require.NoError(t, err)

	order, err := db.OrderRepository().GetOrder(ctx, id)
	require.NoError(t, err)
	order.Status = domain.OrderStatusCancelled

	stored, err := db.OrderRepository().GetOrder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCreated, stored.Status)
}

func TestTransactionRollback(t *testing.T) {
	db := NewDbManager()
	defer db.Close()

	_, err := db.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, db.AccountRepository().Deposit(ctx, maker, token, 100)
		},
	)
	require.NoError(t, err)

	expectedErr := errors.New("boom")
	_, err = db.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if _, err := db.OrderRepository().AddOrder(
				ctx, newTestOrder(t),
			); err != nil {
				return nil, err
			}
			if err := db.AccountRepository().Transfer(
				ctx, maker, taker, token, 100,
			); err != nil {
				return nil, err
			}
			return nil, expectedErr
		},
	)
	require.ErrorIs(t, err, expectedErr)

	// the whole store got restored, the order id included
	_, err = db.OrderRepository().GetOrder(ctx, 1)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	balance, err := db.AccountRepository().GetBalance(ctx, maker, token)
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)

	id, err := db.OrderRepository().AddOrder(ctx, newTestOrder(t))
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
}

func TestAccountSelfTransfer(t *testing.T) {
	db := NewDbManager()
	defer db.Close()

	require.NoError(t, db.AccountRepository().Deposit(ctx, maker, token, 100))
	require.NoError(
		t, db.AccountRepository().Transfer(ctx, maker, maker, token, 40),
	)

	balance, err := db.AccountRepository().GetBalance(ctx, maker, token)
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)
}

func TestPositionTotalSupply(t *testing.T) {
	db := NewDbManager()
	defer db.Close()

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
