// Package marketmaking defines the automated market making strategy, using a
// formula to be applied to price trades against the market's outcome inventory.
package marketmaking

import (
	"github.com/shopspring/decimal"
)

// FormulaOpts defines the state a formula needs to evaluate the cost curve of
// a market: the collateral subsidy fixing the liquidity scale and the signed
// net outcome tokens sold per outcome slot.
type FormulaOpts struct {
	Funding      uint64
	OutcomeCount int
	NetSold      []int64
}

// MakingFormula defines the interface for implementing the cost function used
// to derive trade costs and marginal prices.
type MakingFormula interface {
	// NetCost returns C(q+deltas) - C(q) for the market state in opts.
	NetCost(opts *FormulaOpts, deltas []int64) (decimal.Decimal, error)
	// MarginalPrice returns the instantaneous price of the given outcome,
	// strictly inside (0, 1), with all outcome prices summing to 1.
	MarginalPrice(opts *FormulaOpts, outcomeIndex int) (decimal.Decimal, error)
	FormulaType() int
}

// MakingStrategy pairs a name with the formula it applies.
type MakingStrategy struct {
	name    string
	formula MakingFormula
}

// NewStrategyFromFormula returns the strategy struct with the given formula.
func NewStrategyFromFormula(name string, formula MakingFormula) MakingStrategy {
	return MakingStrategy{
		name:    name,
		formula: formula,
	}
}

// IsZero checks if the given strategy is the zero value.
func (ms MakingStrategy) IsZero() bool {
	return ms == MakingStrategy{}
}

// Name returns the short name of the MM strategy.
func (ms MakingStrategy) Name() string {
	return ms.name
}

// Formula returns the mathematical formula of the MM strategy.
func (ms MakingStrategy) Formula() MakingFormula {
	return ms.formula
}
