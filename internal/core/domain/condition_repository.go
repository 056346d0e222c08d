package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ConditionRepository is the interface for persisting conditions.
type ConditionRepository interface {
	// AddCondition persists a new condition. Re-preparing an identical
	// condition is a no-op, while a colliding id with a different definition
	// fails with ErrConditionAlreadyPrepared.
	AddCondition(ctx context.Context, condition *Condition) error
	// GetCondition returns the condition with the given id, or
	// ErrConditionNotFound.
	GetCondition(ctx context.Context, id common.Hash) (*Condition, error)
	// UpdateCondition applies updateFn to the stored condition and persists
	// the returned value, all within the calling transaction.
	UpdateCondition(
		ctx context.Context, id common.Hash,
		updateFn func(condition *Condition) (*Condition, error),
	) error
}

// PositionRepository is the interface for the conditional token balances held
// by an address for one position id.
type PositionRepository interface {
	// GetBalance returns the balance of owner for the given position id.
	GetBalance(
		ctx context.Context, owner common.Address, positionId common.Hash,
	) (uint64, error)
	// IncrementBalance mints amount of the given position to owner.
	IncrementBalance(
		ctx context.Context, owner common.Address, positionId common.Hash,
		amount uint64,
	) error
	// DecrementBalance burns amount of the given position from owner, or
	// fails with ErrInsufficientPositions.
	DecrementBalance(
		ctx context.Context, owner common.Address, positionId common.Hash,
		amount uint64,
	) error
	// GetTotalSupply returns the outstanding amount of the given position
	// across all owners.
	GetTotalSupply(ctx context.Context, positionId common.Hash) (uint64, error)
}

// AccountRepository models the fungible collateral/token ledger the engine
// settles against. It stands in for the external token transfer provider:
// every movement either fully applies or fails with ErrInsufficientFunds.
type AccountRepository interface {
	// GetBalance returns the balance of owner for the given token.
	GetBalance(
		ctx context.Context, owner, token common.Address,
	) (uint64, error)
	// Deposit credits amount of token to owner.
	Deposit(
		ctx context.Context, owner, token common.Address, amount uint64,
	) error
	// Transfer moves amount of token from one owner to another atomically.
	Transfer(
		ctx context.Context, from, to, token common.Address, amount uint64,
	) error
}
