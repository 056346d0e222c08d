package dbbadger

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type marketRepositoryImpl struct {
	db *DbManager
}

func newMarketRepositoryImpl(db *DbManager) domain.MarketRepository {
	return marketRepositoryImpl{db: db}
}

func (m marketRepositoryImpl) AddMarket(
	ctx context.Context, market *domain.Market,
) error {
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = m.db.store.TxInsert(tx, market.Id.Hex(), market)
	} else {
		err = m.db.store.Insert(market.Id.Hex(), market)
	}
	return err
}

func (m marketRepositoryImpl) GetMarket(
	ctx context.Context, id common.Address,
) (*domain.Market, error) {
	var err error
	var market domain.Market

	if tx := txFromContext(ctx); tx != nil {
		err = m.db.store.TxGet(tx, id.Hex(), &market)
	} else {
		err = m.db.store.Get(id.Hex(), &market)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrMarketNotFound
		}
		return nil, err
	}
	return &market, nil
}

func (m marketRepositoryImpl) GetAllMarkets(
	ctx context.Context,
) ([]domain.Market, error) {
	var err error
	var markets []domain.Market

	if tx := txFromContext(ctx); tx != nil {
		err = m.db.store.TxFind(tx, &markets, nil)
	} else {
		err = m.db.store.Find(&markets, nil)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].CreatedAt < markets[j].CreatedAt
	})
	return markets, nil
}

func (m marketRepositoryImpl) UpdateMarket(
	ctx context.Context, id common.Address,
	updateFn func(market *domain.Market) (*domain.Market, error),
) error {
	currentMarket, err := m.GetMarket(ctx, id)
	if err != nil {
		return err
	}

	updatedMarket, err := updateFn(currentMarket)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return m.db.store.TxUpdate(tx, id.Hex(), *updatedMarket)
	}
	return m.db.store.Update(id.Hex(), *updatedMarket)
}
