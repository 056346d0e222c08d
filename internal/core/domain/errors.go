package domain

import "errors"

var (
	// ErrUnauthorized is thrown when the caller is not entitled to perform
	// the requested transition.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")

	// ErrOrderInvalidAmount ...
	ErrOrderInvalidAmount = errors.New("order amount must be positive")
	// ErrOrderSelfDealing ...
	ErrOrderSelfDealing = errors.New("order taker must differ from maker")
	// ErrOrderInvalidToken ...
	ErrOrderInvalidToken = errors.New("order token must be a well-formed identifier")
	// ErrOrderNotFound ...
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderInvalidStatus is thrown when the requested transition is not
	// valid for the order's current status.
	ErrOrderInvalidStatus = errors.New("operation not valid for current order status")
	// ErrOrderAlreadyResolved ...
	ErrOrderAlreadyResolved = errors.New("order has already been resolved")

	// ErrMarketInvalidFunding ...
	ErrMarketInvalidFunding = errors.New("market funding must be positive")
	// ErrMarketInvalidFee ...
	ErrMarketInvalidFee = errors.New("market fee must be in the [0, 10000) basis point range")
	// ErrMarketInvalidOutcomeCount ...
	ErrMarketInvalidOutcomeCount = errors.New("market must have at least 2 outcomes")
	// ErrMarketNotFound ...
	ErrMarketNotFound = errors.New("market not found")
	// ErrMarketNotTradable is thrown when trading against a paused or closed
	// market.
	ErrMarketNotTradable = errors.New("market is not open for trades")
	// ErrMarketNotPaused ...
	ErrMarketNotPaused = errors.New("market is not paused")
	// ErrMarketClosed ...
	ErrMarketClosed = errors.New("market has been closed")
	// ErrMarketInvalidDeltas ...
	ErrMarketInvalidDeltas = errors.New("outcome deltas length must match market outcome count")

	// ErrConditionNotFound ...
	ErrConditionNotFound = errors.New("condition not found")
	// ErrConditionAlreadyPrepared is thrown when preparing a condition whose
	// id is already bound to a different definition.
	ErrConditionAlreadyPrepared = errors.New("condition already prepared with a different definition")
	// ErrConditionNotResolved ...
	ErrConditionNotResolved = errors.New("condition payouts have not been reported yet")
	// ErrConditionInvalidSlotCount ...
	ErrConditionInvalidSlotCount = errors.New("condition must have at least 2 outcome slots")
	// ErrConditionInvalidIndexSet ...
	ErrConditionInvalidIndexSet = errors.New("index set must select at least one outcome slot of the condition")
	// ErrPayoutsAlreadyReported is thrown on a duplicate resolution attempt.
	ErrPayoutsAlreadyReported = errors.New("payouts have already been reported for this condition")
	// ErrPayoutsAllZero ...
	ErrPayoutsAllZero = errors.New("payout vector must not be all zero")
	// ErrPayoutsInvalidLength ...
	ErrPayoutsInvalidLength = errors.New("payout vector length must match outcome slot count")

	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient account balance")
	// ErrInsufficientPositions ...
	ErrInsufficientPositions = errors.New("insufficient position balance")

	// ErrTriggerPending is thrown when submitting an oracle trigger for an
	// order that already has an unconsumed one.
	ErrTriggerPending = errors.New("an oracle trigger is already pending for this order")
	// ErrTriggerNotFound ...
	ErrTriggerNotFound = errors.New("pending resolution not found")
	// ErrTriggerAlreadyConsumed ...
	ErrTriggerAlreadyConsumed = errors.New("pending resolution has already been consumed")
)
