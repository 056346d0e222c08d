package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	OrderStatusCreated OrderStatus = iota
	OrderStatusFunded
	OrderStatusCompleted
	OrderStatusCancelled
)

// OrderStatus represents the different statuses that an escrow order can
// assume. Transitions are monotonic: once an order reaches Completed or
// Cancelled it accepts no further transitions.
type OrderStatus int

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusCreated:
		return "created"
	case OrderStatusFunded:
		return "funded"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is the data structure representing a peer-to-peer escrow order whose
// release is gated by an oracle verdict.
type Order struct {
	Id           uint64
	Maker        common.Address
	Taker        common.Address
	Token        common.Address
	Amount       uint64
	Status       OrderStatus
	OracleResult *bool
	CreatedAt    int64
	SettledAt    int64
}

// NewOrder returns a Created order after validating the maker/taker pair,
// the token identifier and the amount. The id is assigned by the repository
// at persist time.
func NewOrder(
	maker, taker, token common.Address, amount uint64, now int64,
) (*Order, error) {
	if amount == 0 {
		return nil, ErrOrderInvalidAmount
	}
	if maker == taker {
		return nil, ErrOrderSelfDealing
	}
	if token == (common.Address{}) {
		return nil, ErrOrderInvalidToken
	}
	return &Order{
		Maker:     maker,
		Taker:     taker,
		Token:     token,
		Amount:    amount,
		Status:    OrderStatusCreated,
		CreatedAt: now,
	}, nil
}

// Fund brings the order from Created to Funded. Only the maker may fund.
// Moving the escrowed amount is up to the caller and must happen atomically
// with this transition.
func (o *Order) Fund(caller common.Address) error {
	if caller != o.Maker {
		return ErrUnauthorized
	}
	if o.Status != OrderStatusCreated {
		return ErrOrderInvalidStatus
	}
	o.Status = OrderStatusFunded
	return nil
}

// Cancel brings the order from Created to Cancelled. Cancellation is only
// available before funding, no funds are moved.
func (o *Order) Cancel(caller common.Address) error {
	if caller != o.Maker {
		return ErrUnauthorized
	}
	if o.Status != OrderStatusCreated {
		return ErrOrderInvalidStatus
	}
	o.Status = OrderStatusCancelled
	return nil
}

// Resolve brings the order from Funded to Completed, recording the oracle
// verdict exactly once. A duplicate attempt fails with ErrOrderAlreadyResolved.
func (o *Order) Resolve(result bool, now int64) error {
	if o.Status == OrderStatusCompleted {
		return ErrOrderAlreadyResolved
	}
	if o.Status != OrderStatusFunded {
		return ErrOrderInvalidStatus
	}
	o.OracleResult = &result
	o.Status = OrderStatusCompleted
	o.SettledAt = now
	return nil
}

// IsFunded returns whether the escrowed amount is under custody.
func (o *Order) IsFunded() bool {
	return o.Status == OrderStatusFunded
}

// IsTerminal returns whether the order accepts no further transitions.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
