package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/ports"
)

// DbManager is the badgerhold-backed implementation of ports.DbManager.
// Every entity lives in a single store so that one badger transaction can
// span orders, markets, conditions, positions, accounts and triggers.
var _ ports.DbManager = (*DbManager)(nil)

type DbManager struct {
	store *badgerhold.Store

	orderRepository     domain.OrderRepository
	marketRepository    domain.MarketRepository
	conditionRepository domain.ConditionRepository
	positionRepository  domain.PositionRepository
	accountRepository   domain.AccountRepository
	triggerRepository   domain.TriggerRepository
}

// NewDbManager opens (or creates if not exists) the badger store on disk. It
// expects a base data dir and an optional logger.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	store, err := createDb(baseDbDir+"/engine", logger)
	if err != nil {
		return nil, fmt.Errorf("opening engine db: %w", err)
	}

	db := &DbManager{store: store}
	db.orderRepository = newOrderRepositoryImpl(db)
	db.marketRepository = newMarketRepositoryImpl(db)
	db.conditionRepository = newConditionRepositoryImpl(db)
	db.positionRepository = newPositionRepositoryImpl(db)
	db.accountRepository = newAccountRepositoryImpl(db)
	db.triggerRepository = newTriggerRepositoryImpl(db)
	return db, nil
}

func (d *DbManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

func (d *DbManager) MarketRepository() domain.MarketRepository {
	return d.marketRepository
}

func (d *DbManager) ConditionRepository() domain.ConditionRepository {
	return d.conditionRepository
}

func (d *DbManager) PositionRepository() domain.PositionRepository {
	return d.positionRepository
}

func (d *DbManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *DbManager) TriggerRepository() domain.TriggerRepository {
	return d.triggerRepository
}

// RunTransaction opens a badger transaction, makes it available to the
// repositories through the context and commits it only if handler succeeds.
func (d *DbManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, "tx", tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (d *DbManager) Close() error {
	return d.store.Close()
}

func txFromContext(ctx context.Context) *badger.Txn {
	if v := ctx.Value("tx"); v != nil {
		return v.(*badger.Txn)
	}
	return nil
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (db *badgerhold.Store, err error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	db, err = badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})

	return
}
