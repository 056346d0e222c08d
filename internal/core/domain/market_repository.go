package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// MarketRepository is the interface for persisting market maker instances.
type MarketRepository interface {
	// AddMarket persists a new market.
	AddMarket(ctx context.Context, market *Market) error
	// GetMarket returns the market with the given id, or ErrMarketNotFound.
	GetMarket(ctx context.Context, id common.Address) (*Market, error)
	// GetAllMarkets returns every stored market.
	GetAllMarkets(ctx context.Context) ([]Market, error)
	// UpdateMarket applies updateFn to the stored market and persists the
	// returned value, all within the calling transaction.
	UpdateMarket(
		ctx context.Context, id common.Address,
		updateFn func(market *Market) (*Market, error),
	) error
}
