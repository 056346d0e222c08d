package application

import "errors"

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	// ErrCostExceedsLimit ...
	ErrCostExceedsLimit = errors.New("trade cost exceeds the provided collateral limit")
	// ErrProceedsBelowLimit ...
	ErrProceedsBelowLimit = errors.New("trade proceeds are below the provided collateral limit")
	// ErrNothingToRedeem ...
	ErrNothingToRedeem = errors.New("no collateral to redeem for the given positions")
	// ErrInvalidDeltas ...
	ErrInvalidDeltas = errors.New("outcome token deltas must contain at least one non-zero entry")
)
