package inmemory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/ports"
)

// storeState holds the whole in-memory ledger. Every repository shares it so
// that a transaction can snapshot and restore it as a unit.
type storeState struct {
	locker sync.Mutex

	nextOrderId uint64
	orders      map[uint64]*domain.Order
	markets     map[common.Address]*domain.Market
	conditions  map[common.Hash]*domain.Condition
	positions   map[string]uint64
	supplies    map[common.Hash]uint64
	accounts    map[string]uint64
	triggers    map[uint64]*domain.PendingResolution
}

func newStoreState() *storeState {
	return &storeState{
		nextOrderId: 1,
		orders:      make(map[uint64]*domain.Order),
		markets:     make(map[common.Address]*domain.Market),
		conditions:  make(map[common.Hash]*domain.Condition),
		positions:   make(map[string]uint64),
		supplies:    make(map[common.Hash]uint64),
		accounts:    make(map[string]uint64),
		triggers:    make(map[uint64]*domain.PendingResolution),
	}
}

func positionKey(owner common.Address, positionId common.Hash) string {
	return owner.Hex() + "/" + positionId.Hex()
}

func accountKey(owner, token common.Address) string {
	return owner.Hex() + "/" + token.Hex()
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	if o.OracleResult != nil {
		result := *o.OracleResult
		cp.OracleResult = &result
	}
	return &cp
}

func copyMarket(m *domain.Market) *domain.Market {
	cp := *m
	cp.NetOutcomeTokensSold = append([]int64(nil), m.NetOutcomeTokensSold...)
	return &cp
}

func copyCondition(c *domain.Condition) *domain.Condition {
	cp := *c
	cp.PayoutNumerators = append([]uint64(nil), c.PayoutNumerators...)
	return &cp
}

func copyPendingResolution(p *domain.PendingResolution) *domain.PendingResolution {
	cp := *p
	return &cp
}

// snapshot deep-copies the store so a failed transaction can roll back.
func (s *storeState) snapshot() *storeState {
	snap := newStoreState()
	snap.nextOrderId = s.nextOrderId
	for id, o := range s.orders {
		snap.orders[id] = copyOrder(o)
	}
	for id, m := range s.markets {
		snap.markets[id] = copyMarket(m)
	}
	for id, c := range s.conditions {
		snap.conditions[id] = copyCondition(c)
	}
	for k, v := range s.positions {
		snap.positions[k] = v
	}
	for id, v := range s.supplies {
		snap.supplies[id] = v
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for id, p := range s.triggers {
		snap.triggers[id] = copyPendingResolution(p)
	}
	return snap
}

func (s *storeState) restore(snap *storeState) {
	s.nextOrderId = snap.nextOrderId
	s.orders = snap.orders
	s.markets = snap.markets
	s.conditions = snap.conditions
	s.positions = snap.positions
	s.supplies = snap.supplies
	s.accounts = snap.accounts
	s.triggers = snap.triggers
}

type dbManager struct {
	store *storeState

	orderRepository     domain.OrderRepository
	marketRepository    domain.MarketRepository
	conditionRepository domain.ConditionRepository
	positionRepository  domain.PositionRepository
	accountRepository   domain.AccountRepository
	triggerRepository   domain.TriggerRepository
}

// NewDbManager returns a pure in-memory implementation of ports.DbManager,
// mainly useful for tests and dry runs.
func NewDbManager() ports.DbManager {
	store := newStoreState()
	return &dbManager{
		store:               store,
		orderRepository:     newOrderRepositoryImpl(store),
		marketRepository:    newMarketRepositoryImpl(store),
		conditionRepository: newConditionRepositoryImpl(store),
		positionRepository:  newPositionRepositoryImpl(store),
		accountRepository:   newAccountRepositoryImpl(store),
		triggerRepository:   newTriggerRepositoryImpl(store),
	}
}

func (d *dbManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

func (d *dbManager) MarketRepository() domain.MarketRepository {
	return d.marketRepository
}

func (d *dbManager) ConditionRepository() domain.ConditionRepository {
	return d.conditionRepository
}

func (d *dbManager) PositionRepository() domain.PositionRepository {
	return d.positionRepository
}

func (d *dbManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *dbManager) TriggerRepository() domain.TriggerRepository {
	return d.triggerRepository
}

// RunTransaction serializes access through a single store-wide lock and
// restores a deep snapshot of the whole store when handler fails, so that no
// partial mutation is ever observable.
func (d *dbManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.store.locker.Lock()
	defer d.store.locker.Unlock()

	var snap *storeState
	if !readOnly {
		snap = d.store.snapshot()
	}

	res, err := handler(ctx)
	if err != nil {
		if snap != nil {
			d.store.restore(snap)
		}
		return nil, err
	}
	return res, nil
}

func (d *dbManager) Close() error { return nil }
