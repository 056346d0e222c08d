package domain

import "context"

// OrderRepository is the interface for persisting escrow orders. Ids are
// monotonically increasing and assigned by AddOrder.
type OrderRepository interface {
	// AddOrder persists a new order, assigns its id and returns it.
	AddOrder(ctx context.Context, order *Order) (uint64, error)
	// GetOrder returns the order with the given id, or ErrOrderNotFound.
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	// GetAllOrders returns every stored order sorted by id.
	GetAllOrders(ctx context.Context) ([]Order, error)
	// UpdateOrder applies updateFn to the stored order and persists the
	// returned value, all within the calling transaction.
	UpdateOrder(
		ctx context.Context, id uint64,
		updateFn func(order *Order) (*Order, error),
	) error
}
