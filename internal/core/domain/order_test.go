package domain_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

var (
	maker = common.HexToAddress("0x1000000000000000000000000000000000000001")
	taker = common.HexToAddress("0x2000000000000000000000000000000000000002")
	token = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(maker, taker, token, 100, time.Now().Unix())
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	order := newTestOrder(t)

	require.Equal(t, domain.OrderStatusCreated, order.Status)
	require.Equal(t, maker, order.Maker)
	require.Equal(t, taker, order.Taker)
	require.Equal(t, token, order.Token)
	require.Equal(t, uint64(100), order.Amount)
	require.Nil(t, order.OracleResult)
}

func TestFailingNewOrder(t *testing.T) {
	now := time.Now().Unix()

	tests := []struct {
		name      string
		maker     common.Address
		taker     common.Address
		token     common.Address
		amount    uint64
		wantError error
	}{
		{"zero_amount", maker, taker, token, 0, domain.ErrOrderInvalidAmount},
		{"self_dealing", maker, maker, token, 100, domain.ErrOrderSelfDealing},
		{"zero_token", maker, taker, common.Address{}, 100, domain.ErrOrderInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewOrder(tt.maker, tt.taker, tt.token, tt.amount, now)
			require.ErrorIs(t, err, tt.wantError)
		})
	}
}

func TestOrderFund(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.Fund(maker))
	require.Equal(t, domain.OrderStatusFunded, order.Status)
	require.True(t, order.IsFunded())

	t.Run("double_fund", func(t *testing.T) {
		require.ErrorIs(t, order.Fund(maker), domain.ErrOrderInvalidStatus)
	})
}

func TestFailingOrderFund(t *testing.T) {
	t.Run("non_maker", func(t *testing.T) {
		order := newTestOrder(t)
		require.ErrorIs(t, order.Fund(taker), domain.ErrUnauthorized)
		require.Equal(t, domain.OrderStatusCreated, order.Status)
	})

	t.Run("cancelled_order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel(maker))
		require.ErrorIs(t, order.Fund(maker), domain.ErrOrderInvalidStatus)
	})
}

func TestOrderCancel(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.Cancel(maker))
	require.Equal(t, domain.OrderStatusCancelled, order.Status)
	require.True(t, order.IsTerminal())
	require.Nil(t, order.OracleResult)
}

func TestFailingOrderCancel(t *testing.T) {
	t.Run("non_maker", func(t *testing.T) {
		order := newTestOrder(t)
		require.ErrorIs(t, order.Cancel(taker), domain.ErrUnauthorized)
	})

	t.Run("after_funding", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Fund(maker))
		require.ErrorIs(t, order.Cancel(maker), domain.ErrOrderInvalidStatus)
	})
}

func TestOrderResolve(t *testing.T) {
	now := time.Now().Unix()

	tests := []struct {
		name   string
		result bool
	}{
		{"positive_verdict", true},
		{"negative_verdict", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newTestOrder(t)
			require.NoError(t, order.Fund(maker))

			require.NoError(t, order.Resolve(tt.result, now))
			require.Equal(t, domain.OrderStatusCompleted, order.Status)
			require.NotNil(t, order.OracleResult)
			require.Equal(t, tt.result, *order.OracleResult)
			require.Equal(t, now, order.SettledAt)
			require.True(t, order.IsTerminal())
		})
	}
}

func TestFailingOrderResolve(t *testing.T) {
	now := time.Now().Unix()

	t.Run("before_funding", func(t *testing.T) {
		order := newTestOrder(t)
		require.ErrorIs(t, order.Resolve(true, now), domain.ErrOrderInvalidStatus)
	})

	t.Run("double_resolve", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Fund(maker))
		require.NoError(t, order.Resolve(true, now))

		err := order.Resolve(false, now)
		require.ErrorIs(t, err, domain.ErrOrderAlreadyResolved)
		// the first verdict must be untouched
		require.True(t, *order.OracleResult)
	})

	t.Run("cancelled_order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel(maker))
		require.ErrorIs(t, order.Resolve(true, now), domain.ErrOrderInvalidStatus)
	})
}
