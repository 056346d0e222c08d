package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// PendingResolution records an oracle trigger request for a funded order.
// The oracle collaborator later delivers its verdict asynchronously and the
// record is consumed exactly once by the resolution entry point.
type PendingResolution struct {
	TriggerId uuid.UUID
	OrderId   uint64
	Creator   common.Address
	Fee       uint64
	CreatedAt int64
	Consumed  bool
}

// NewPendingResolution returns a fresh unconsumed trigger record.
func NewPendingResolution(
	orderId uint64, creator common.Address, fee uint64, now int64,
) *PendingResolution {
	return &PendingResolution{
		TriggerId: uuid.New(),
		OrderId:   orderId,
		Creator:   creator,
		Fee:       fee,
		CreatedAt: now,
	}
}

// TriggerRepository is the interface for persisting pending resolutions.
type TriggerRepository interface {
	// AddPendingResolution persists a new trigger record, or fails with
	// ErrTriggerPending if the order already has an unconsumed one.
	AddPendingResolution(ctx context.Context, pending *PendingResolution) error
	// GetPendingResolutionByOrder returns the unconsumed record for the given
	// order, or ErrTriggerNotFound.
	GetPendingResolutionByOrder(
		ctx context.Context, orderId uint64,
	) (*PendingResolution, error)
	// ConsumePendingResolution marks the order's record as consumed exactly
	// once, or fails with ErrTriggerNotFound/ErrTriggerAlreadyConsumed.
	ConsumePendingResolution(ctx context.Context, orderId uint64) error
}
