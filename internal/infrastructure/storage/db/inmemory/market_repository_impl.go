package inmemory

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

type marketRepositoryImpl struct {
	store *storeState
}

func newMarketRepositoryImpl(store *storeState) domain.MarketRepository {
	return &marketRepositoryImpl{store}
}

func (r *marketRepositoryImpl) AddMarket(
	_ context.Context, market *domain.Market,
) error {
	r.store.markets[market.Id] = copyMarket(market)
	return nil
}

func (r *marketRepositoryImpl) GetMarket(
	_ context.Context, id common.Address,
) (*domain.Market, error) {
	market, ok := r.store.markets[id]
	if !ok {
		return nil, domain.ErrMarketNotFound
	}
	return copyMarket(market), nil
}

func (r *marketRepositoryImpl) GetAllMarkets(
	_ context.Context,
) ([]domain.Market, error) {
	markets := make([]domain.Market, 0, len(r.store.markets))
	for _, m := range r.store.markets {
		markets = append(markets, *copyMarket(m))
	}
	sort.Slice(markets, func(i, j int) bool {
		return markets[i].CreatedAt < markets[j].CreatedAt
	})
	return markets, nil
}

func (r *marketRepositoryImpl) UpdateMarket(
	ctx context.Context, id common.Address,
	updateFn func(market *domain.Market) (*domain.Market, error),
) error {
	current, ok := r.store.markets[id]
	if !ok {
		return domain.ErrMarketNotFound
	}

	updated, err := updateFn(copyMarket(current))
	if err != nil {
		return err
	}

	r.store.markets[id] = copyMarket(updated)
	return nil
}
