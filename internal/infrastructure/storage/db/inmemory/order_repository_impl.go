package inmemory

import (
	"context"
	"sort"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type orderRepositoryImpl struct {
	store *storeState
}

// newOrderRepositoryImpl returns an in-memory domain.OrderRepository. Access
// must be linearized by the db manager's transaction.
func newOrderRepositoryImpl(store *storeState) domain.OrderRepository {
	return &orderRepositoryImpl{store}
}

func (r *orderRepositoryImpl) AddOrder(
	_ context.Context, order *domain.Order,
) (uint64, error) {
	id := r.store.nextOrderId
	r.store.nextOrderId++

	cp := copyOrder(order)
	cp.Id = id
	r.store.orders[id] = cp
	order.Id = id
	return id, nil
}

func (r *orderRepositoryImpl) GetOrder(
	_ context.Context, id uint64,
) (*domain.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (r *orderRepositoryImpl) GetAllOrders(
	_ context.Context,
) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(r.store.orders))
	for _, o := range r.store.orders {
		orders = append(orders, *copyOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Id < orders[j].Id
	})
	return orders, nil
}

func (r *orderRepositoryImpl) UpdateOrder(
	ctx context.Context, id uint64,
	updateFn func(order *domain.Order) (*domain.Order, error),
) error {
	current, ok := r.store.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}

	updated, err := updateFn(copyOrder(current))
	if err != nil {
		return err
	}

	r.store.orders[id] = copyOrder(updated)
	return nil
}
