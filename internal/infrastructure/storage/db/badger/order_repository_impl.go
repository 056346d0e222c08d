package dbbadger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

const orderCounterKey = "orders"

// orderCounter keeps the next id to assign, so that order ids stay
// monotonically increasing across restarts.
type orderCounter struct {
	Next uint64
}

type orderRepositoryImpl struct {
	db *DbManager
}

func newOrderRepositoryImpl(db *DbManager) domain.OrderRepository {
	return orderRepositoryImpl{db: db}
}

func (o orderRepositoryImpl) AddOrder(
	ctx context.Context, order *domain.Order,
) (uint64, error) {
	tx := txFromContext(ctx)

	id, err := o.nextOrderId(tx)
	if err != nil {
		return 0, err
	}
	order.Id = id

	if tx != nil {
		err = o.db.store.TxInsert(tx, id, order)
	} else {
		err = o.db.store.Insert(id, order)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (o orderRepositoryImpl) GetOrder(
	ctx context.Context, id uint64,
) (*domain.Order, error) {
	var err error
	var order domain.Order

	if tx := txFromContext(ctx); tx != nil {
		err = o.db.store.TxGet(tx, id, &order)
	} else {
		err = o.db.store.Get(id, &order)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (o orderRepositoryImpl) GetAllOrders(
	ctx context.Context,
) ([]domain.Order, error) {
	var err error
	var orders []domain.Order

	if tx := txFromContext(ctx); tx != nil {
		err = o.db.store.TxFind(tx, &orders, nil)
	} else {
		err = o.db.store.Find(&orders, nil)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Id < orders[j].Id
	})
	return orders, nil
}

func (o orderRepositoryImpl) UpdateOrder(
	ctx context.Context, id uint64,
	updateFn func(order *domain.Order) (*domain.Order, error),
) error {
	currentOrder, err := o.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	updatedOrder, err := updateFn(currentOrder)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return o.db.store.TxUpdate(tx, id, *updatedOrder)
	}
	return o.db.store.Update(id, *updatedOrder)
}

func (o orderRepositoryImpl) nextOrderId(tx *badger.Txn) (uint64, error) {
	var err error
	counter := orderCounter{Next: 1}

	if tx != nil {
		err = o.db.store.TxGet(tx, orderCounterKey, &counter)
	} else {
		err = o.db.store.Get(orderCounterKey, &counter)
	}
	if err != nil && err != badgerhold.ErrNotFound {
		return 0, err
	}

	id := counter.Next
	counter.Next++
	if tx != nil {
		err = o.db.store.TxUpsert(tx, orderCounterKey, counter)
	} else {
		err = o.db.store.Upsert(orderCounterKey, counter)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
