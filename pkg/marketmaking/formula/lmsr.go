// Package formula defines the formulas that implement the MakingFormula interface
package formula

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/pearscrow-network/pearscrow-daemon/pkg/marketmaking"
)

const LogarithmicScoringRuleType = 1

var (
	// ErrInvalidOptsType ...
	ErrInvalidOptsType = errors.New("opts must not be nil")
	// ErrInvalidFunding ...
	ErrInvalidFunding = errors.New("market funding must be positive")
	// ErrInvalidOutcomeCount ...
	ErrInvalidOutcomeCount = errors.New("outcome count must be at least 2")
	// ErrInvalidNetSold ...
	ErrInvalidNetSold = errors.New("net sold vector length must match outcome count")
	// ErrInvalidDeltas ...
	ErrInvalidDeltas = errors.New("deltas vector length must match outcome count")
	// ErrOutcomeIndexOutOfRange ...
	ErrOutcomeIndexOutOfRange = errors.New("outcome index out of range")
	// ErrPriceOutOfRange is returned when the cost function evaluation is not
	// finite. The engine must fail closed instead of quoting a wrong price.
	ErrPriceOutOfRange = errors.New("cost function evaluation out of range")
)

// LogarithmicScoringRule is the cost-function market maker of Hanson's
// logarithmic market scoring rule:
//
//	C(q) = b * ln(Σ exp(q_i / b))    with b = funding / ln(outcomeCount)
//
// Exponentials are evaluated with the running maximum subtracted first
// (log-sum-exp) so that large net positions cannot overflow the intermediate
// float64 computation.
type LogarithmicScoringRule struct{}

func validateOpts(opts *marketmaking.FormulaOpts) error {
	if opts == nil {
		return ErrInvalidOptsType
	}
	if opts.Funding == 0 {
		return ErrInvalidFunding
	}
	if opts.OutcomeCount < 2 {
		return ErrInvalidOutcomeCount
	}
	if len(opts.NetSold) != opts.OutcomeCount {
		return ErrInvalidNetSold
	}
	return nil
}

// liquidity returns the b parameter of the cost curve.
func liquidity(opts *marketmaking.FormulaOpts) float64 {
	return float64(opts.Funding) / math.Log(float64(opts.OutcomeCount))
}

// logSumExp returns ln(Σ exp(x_i)) evaluated as m + ln(Σ exp(x_i - m)) with
// m = max(x_i), so every exponentiated term is bounded by 1.
func logSumExp(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - m)
	}
	return m + math.Log(sum)
}

func cost(opts *marketmaking.FormulaOpts, quantities []float64) float64 {
	b := liquidity(opts)
	scaled := make([]float64, len(quantities))
	for i, q := range quantities {
		scaled[i] = q / b
	}
	return b * logSumExp(scaled)
}

// NetCost returns C(q+deltas) - C(q). A zero deltas vector always yields an
// exact zero cost.
func (LogarithmicScoringRule) NetCost(
	opts *marketmaking.FormulaOpts, deltas []int64,
) (decimal.Decimal, error) {
	if err := validateOpts(opts); err != nil {
		return decimal.Zero, err
	}
	if len(deltas) != opts.OutcomeCount {
		return decimal.Zero, ErrInvalidDeltas
	}

	allZero := true
	for _, d := range deltas {
		if d != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return decimal.Zero, nil
	}

	current := make([]float64, opts.OutcomeCount)
	target := make([]float64, opts.OutcomeCount)
	for i, q := range opts.NetSold {
		current[i] = float64(q)
		target[i] = float64(q + deltas[i])
	}

	netCost := cost(opts, target) - cost(opts, current)
	if math.IsNaN(netCost) || math.IsInf(netCost, 0) {
		return decimal.Zero, ErrPriceOutOfRange
	}
	return decimal.NewFromFloat(netCost), nil
}

// MarginalPrice returns exp(q_i/b) / Σ exp(q_j/b) for the given outcome.
func (LogarithmicScoringRule) MarginalPrice(
	opts *marketmaking.FormulaOpts, outcomeIndex int,
) (decimal.Decimal, error) {
	if err := validateOpts(opts); err != nil {
		return decimal.Zero, err
	}
	if outcomeIndex < 0 || outcomeIndex >= opts.OutcomeCount {
		return decimal.Zero, ErrOutcomeIndexOutOfRange
	}

	b := liquidity(opts)
	scaled := make([]float64, opts.OutcomeCount)
	m := math.Inf(-1)
	for i, q := range opts.NetSold {
		scaled[i] = float64(q) / b
		if scaled[i] > m {
			m = scaled[i]
		}
	}
	sum := 0.0
	for _, x := range scaled {
		sum += math.Exp(x - m)
	}

	price := math.Exp(scaled[outcomeIndex]-m) / sum
	if math.IsNaN(price) || price <= 0 || price >= 1 {
		return decimal.Zero, ErrPriceOutOfRange
	}
	return decimal.NewFromFloat(price), nil
}

func (LogarithmicScoringRule) FormulaType() int {
	return LogarithmicScoringRuleType
}
