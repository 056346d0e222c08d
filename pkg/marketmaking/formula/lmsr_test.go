package formula

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pearscrow-network/pearscrow-daemon/pkg/marketmaking"
)

func newBinaryOpts(funding uint64, netSold []int64) *marketmaking.FormulaOpts {
	return &marketmaking.FormulaOpts{
		Funding:      funding,
		OutcomeCount: 2,
		NetSold:      netSold,
	}
}

func TestLogarithmicScoringRule_NetCostZeroDeltas(t *testing.T) {
	f := LogarithmicScoringRule{}

	tests := []struct {
		name string
		opts *marketmaking.FormulaOpts
	}{
		{"at_inception", newBinaryOpts(1000, []int64{0, 0})},
		{"with_skewed_inventory", newBinaryOpts(1000, []int64{430, -120})},
		{"with_large_inventory", newBinaryOpts(1000, []int64{500000, -500000})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			netCost, err := f.NetCost(tt.opts, []int64{0, 0})
			require.NoError(t, err)
			require.True(t, netCost.IsZero())
		})
	}
}

func TestLogarithmicScoringRule_NetCostMonotonicity(t *testing.T) {
	f := LogarithmicScoringRule{}
	opts := newBinaryOpts(1000, []int64{120, -40})

	prev := decimal.Zero
	for _, delta := range []int64{1, 10, 100, 1000} {
		netCost, err := f.NetCost(opts, []int64{delta, 0})
		require.NoError(t, err)
		require.True(
			t, netCost.GreaterThan(prev),
			"cost for delta %d must exceed cost for the previous smaller delta", delta,
		)
		prev = netCost
	}
}

func TestLogarithmicScoringRule_NetCostRoundTrip(t *testing.T) {
	f := LogarithmicScoringRule{}
	opts := newBinaryOpts(1000, []int64{0, 0})

	buyCost, err := f.NetCost(opts, []int64{100, 0})
	require.NoError(t, err)
	require.True(t, buyCost.IsPositive())

	afterBuy := newBinaryOpts(1000, []int64{100, 0})
	sellCost, err := f.NetCost(afterBuy, []int64{-100, 0})
	require.NoError(t, err)
	require.True(t, sellCost.IsNegative())

	// buying then selling back never pays the trader, fees aside
	roundTrip := buyCost.Add(sellCost)
	require.True(t, roundTrip.GreaterThanOrEqual(decimal.Zero))
	require.True(t, roundTrip.LessThan(decimal.NewFromFloat(0.001)))
}

func TestLogarithmicScoringRule_MarginalPrice(t *testing.T) {
	f := LogarithmicScoringRule{}

	t.Run("balanced_market_prices_at_half", func(t *testing.T) {
		opts := newBinaryOpts(1000, []int64{0, 0})

		yesPrice, err := f.MarginalPrice(opts, 0)
		require.NoError(t, err)
		noPrice, err := f.MarginalPrice(opts, 1)
		require.NoError(t, err)

		half := decimal.NewFromFloat(0.5)
		require.True(t, yesPrice.Equal(half))
		require.True(t, noPrice.Equal(half))
	})

	t.Run("prices_sum_to_one", func(t *testing.T) {
		states := [][]int64{
			{0, 0}, {250, 0}, {-80, 310}, {100000, -100000},
		}
		tolerance := decimal.NewFromFloat(1e-9)
		for _, netSold := range states {
			opts := newBinaryOpts(1000, netSold)

			yesPrice, err := f.MarginalPrice(opts, 0)
			require.NoError(t, err)
			noPrice, err := f.MarginalPrice(opts, 1)
			require.NoError(t, err)

			sum := yesPrice.Add(noPrice)
			require.True(t, sum.Sub(decimal.NewFromInt(1)).Abs().LessThan(tolerance))
			require.True(t, yesPrice.IsPositive())
			require.True(t, yesPrice.LessThan(decimal.NewFromInt(1)))
		}
	})

	t.Run("skewed_inventory_moves_the_price", func(t *testing.T) {
		opts := newBinaryOpts(1000, []int64{500, 0})

		yesPrice, err := f.MarginalPrice(opts, 0)
		require.NoError(t, err)
		require.True(t, yesPrice.GreaterThan(decimal.NewFromFloat(0.5)))
	})
}

func TestLogarithmicScoringRule_FailingOpts(t *testing.T) {
	f := LogarithmicScoringRule{}

	tests := []struct {
		name      string
		opts      *marketmaking.FormulaOpts
		deltas    []int64
		wantError error
	}{
		{
			"nil_opts",
			nil,
			[]int64{1, 0},
			ErrInvalidOptsType,
		},
		{
			"zero_funding",
			newBinaryOpts(0, []int64{0, 0}),
			[]int64{1, 0},
			ErrInvalidFunding,
		},
		{
			"single_outcome",
			&marketmaking.FormulaOpts{Funding: 1000, OutcomeCount: 1, NetSold: []int64{0}},
			[]int64{1},
			ErrInvalidOutcomeCount,
		},
		{
			"net_sold_mismatch",
			&marketmaking.FormulaOpts{Funding: 1000, OutcomeCount: 2, NetSold: []int64{0}},
			[]int64{1, 0},
			ErrInvalidNetSold,
		},
		{
			"deltas_mismatch",
			newBinaryOpts(1000, []int64{0, 0}),
			[]int64{1},
			ErrInvalidDeltas,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.NetCost(tt.opts, tt.deltas)
			require.ErrorIs(t, err, tt.wantError)
		})
	}

	t.Run("marginal_price_index_out_of_range", func(t *testing.T) {
		_, err := f.MarginalPrice(newBinaryOpts(1000, []int64{0, 0}), 2)
		require.ErrorIs(t, err, ErrOutcomeIndexOutOfRange)
	})
}

func TestLogarithmicScoringRule_LargePositionsStayFinite(t *testing.T) {
	f := LogarithmicScoringRule{}
	// q/b here is far beyond what a naive exp evaluation can represent
	opts := newBinaryOpts(10, []int64{2000000, -2000000})

	netCost, err := f.NetCost(opts, []int64{1, 0})
	require.NoError(t, err)
	require.True(t, netCost.GreaterThanOrEqual(decimal.Zero))

	// the losing side underflows to a zero probability: the formula must
	// fail closed instead of quoting a degenerate price
	_, err = f.MarginalPrice(opts, 1)
	require.ErrorIs(t, err, ErrPriceOutOfRange)
}
