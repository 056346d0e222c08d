package ports

import (
	"context"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

// DbManager interface defines the methods for accessing the typed
// repositories and for running them inside a single atomic transaction.
type DbManager interface {
	OrderRepository() domain.OrderRepository
	MarketRepository() domain.MarketRepository
	ConditionRepository() domain.ConditionRepository
	PositionRepository() domain.PositionRepository
	AccountRepository() domain.AccountRepository
	TriggerRepository() domain.TriggerRepository

	// RunTransaction linearizes every repository access performed by handler:
	// either all its mutations are committed or none is. Operations on
	// independent entities may still run concurrently at the storage layer's
	// discretion.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close() error
}
