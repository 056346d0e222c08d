package application

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/ports"
	"github.com/pearscrow-network/pearscrow-daemon/pkg/mathutil"
)

// MarketService defines the methods of the application layer for creating
// and trading against binary-outcome market maker instances.
type MarketService interface {
	CreateMarket(
		ctx context.Context,
		creator, collateralToken, oracle common.Address,
		questionId common.Hash, feeBps uint32, funding uint64,
	) (*MarketInfo, error)
	CalcNetCost(
		ctx context.Context, marketId common.Address, deltas []int64,
	) (decimal.Decimal, error)
	CalcMarginalPrice(
		ctx context.Context, marketId common.Address, outcomeIndex int,
	) (decimal.Decimal, error)
	// Trade executes the given outcome token deltas against the market and
	// returns the signed collateral flow from the trader's point of view:
	// positive means the trader paid cost plus fee, negative means the trader
	// was paid. The collateral limit bounds the flow by its absolute value,
	// zero means unbounded.
	Trade(
		ctx context.Context,
		trader common.Address, marketId common.Address,
		deltas []int64, collateralLimit int64,
	) (int64, error)
	PauseMarket(
		ctx context.Context, caller common.Address, marketId common.Address,
	) error
	ResumeMarket(
		ctx context.Context, caller common.Address, marketId common.Address,
	) error
	// CloseMarket brings the market to its terminal stage and returns the
	// collateral swept back to the creator: the accrued fees plus the part of
	// the pool not reserved for outstanding outcome token redemptions.
	CloseMarket(
		ctx context.Context, caller common.Address, marketId common.Address,
	) (uint64, error)
	GetMarket(
		ctx context.Context, marketId common.Address,
	) (*MarketInfo, error)
	ListMarkets(ctx context.Context) ([]MarketInfo, error)
}

type marketService struct {
	repoManager ports.DbManager
}

// NewMarketService returns a new service for managing market maker instances
// backed by the given repositories.
func NewMarketService(repoManager ports.DbManager) MarketService {
	return &marketService{repoManager: repoManager}
}

func (m *marketService) CreateMarket(
	ctx context.Context,
	creator, collateralToken, oracle common.Address,
	questionId common.Hash, feeBps uint32, funding uint64,
) (*MarketInfo, error) {
	market, err := domain.NewMarket(
		creator, collateralToken, oracle, questionId, feeBps, funding,
		time.Now().Unix(),
	)
	if err != nil {
		return nil, err
	}
	condition, err := domain.NewCondition(
		oracle, questionId, domain.BinaryOutcomeCount,
	)
	if err != nil {
		return nil, err
	}

	if _, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := m.repoManager.ConditionRepository().AddCondition(
				ctx, condition,
			); err != nil {
				return nil, err
			}
			// The initial funding seeds the pool backing the condition's
			// positions and is only recoverable through redemptions.
			if err := m.repoManager.AccountRepository().Transfer(
				ctx, creator, market.CollateralPool(), collateralToken, funding,
			); err != nil {
				return nil, err
			}
			if err := m.repoManager.MarketRepository().AddMarket(
				ctx, market,
			); err != nil {
				return nil, err
			}
			return nil, nil
		},
	); err != nil {
		return nil, err
	}

	log.Infof(
		"created market %s with funding %d and fee %d bps",
		market.Id.Hex(), funding, feeBps,
	)
	return marketInfo(market), nil
}

func (m *marketService) CalcNetCost(
	ctx context.Context, marketId common.Address, deltas []int64,
) (decimal.Decimal, error) {
	res, err := m.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			market, err := m.repoManager.MarketRepository().GetMarket(ctx, marketId)
			if err != nil {
				return nil, err
			}
			return market.MakingStrategy().Formula().NetCost(
				market.FormulaOpts(), deltas,
			)
		},
	)
	if err != nil {
		return decimal.Zero, err
	}
	return res.(decimal.Decimal), nil
}

func (m *marketService) CalcMarginalPrice(
	ctx context.Context, marketId common.Address, outcomeIndex int,
) (decimal.Decimal, error) {
	res, err := m.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			market, err := m.repoManager.MarketRepository().GetMarket(ctx, marketId)
			if err != nil {
				return nil, err
			}
			return market.MakingStrategy().Formula().MarginalPrice(
				market.FormulaOpts(), outcomeIndex,
			)
		},
	)
	if err != nil {
		return decimal.Zero, err
	}
	return res.(decimal.Decimal), nil
}

func (m *marketService) Trade(
	ctx context.Context,
	trader common.Address, marketId common.Address,
	deltas []int64, collateralLimit int64,
) (int64, error) {
	if allZero(deltas) {
		return 0, ErrInvalidDeltas
	}

	var netFlow int64
	if _, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, m.repoManager.MarketRepository().UpdateMarket(
				ctx, marketId, func(market *domain.Market) (*domain.Market, error) {
					if !market.IsTradable() {
						return nil, domain.ErrMarketNotTradable
					}
					if len(deltas) != market.OutcomeCount {
						return nil, domain.ErrMarketInvalidDeltas
					}

					rawCost, err := market.MakingStrategy().Formula().NetCost(
						market.FormulaOpts(), deltas,
					)
					if err != nil {
						return nil, err
					}

					flow, err := m.settleCollateral(
						ctx, trader, market, rawCost, collateralLimit,
					)
					if err != nil {
						return nil, err
					}
					netFlow = flow

					if err := m.settlePositions(
						ctx, trader, market, deltas,
					); err != nil {
						return nil, err
					}

					if err := market.ApplyTrade(deltas); err != nil {
						return nil, err
					}
					return market, nil
				},
			)
		},
	); err != nil {
		return 0, err
	}

	log.Infof(
		"trade on market %s by %s, net flow %d",
		marketId.Hex(), trader.Hex(), netFlow,
	)
	return netFlow, nil
}

// settleCollateral converts the raw formula cost into integral collateral
// moves. Rounding always favors the market: amounts owed by the trader are
// rounded up, amounts owed to the trader are rounded down. The fee only
// applies to purchases and accrues to the market's own ledger account.
func (m *marketService) settleCollateral(
	ctx context.Context, trader common.Address, market *domain.Market,
	rawCost decimal.Decimal, collateralLimit int64,
) (int64, error) {
	accounts := m.repoManager.AccountRepository()
	pool := market.CollateralPool()
	bound := collateralLimit
	if bound < 0 {
		bound = -bound
	}

	switch rawCost.Sign() {
	case 1:
		cost := mathutil.DecimalCeilToUint(rawCost)
		fee := mathutil.FeeAmount(cost, market.FeeBps)
		total := cost + fee
		if collateralLimit != 0 && total > uint64(bound) {
			return 0, ErrCostExceedsLimit
		}
		if err := accounts.Transfer(
			ctx, trader, pool, market.CollateralToken, cost,
		); err != nil {
			return 0, err
		}
		if fee > 0 {
			if err := accounts.Transfer(
				ctx, trader, market.Id, market.CollateralToken, fee,
			); err != nil {
				return 0, err
			}
		}
		return int64(total), nil
	case -1:
		payout := mathutil.DecimalFloorToUint(rawCost.Neg())
		if collateralLimit != 0 && payout < uint64(bound) {
			return 0, ErrProceedsBelowLimit
		}
		if err := accounts.Transfer(
			ctx, pool, trader, market.CollateralToken, payout,
		); err != nil {
			return 0, err
		}
		return -int64(payout), nil
	default:
		return 0, nil
	}
}

// settlePositions mints bought outcome tokens to the trader and burns sold
// ones. Selling more than the held balance fails the whole trade.
func (m *marketService) settlePositions(
	ctx context.Context, trader common.Address, market *domain.Market,
	deltas []int64,
) error {
	positions := m.repoManager.PositionRepository()
	for i, delta := range deltas {
		if delta == 0 {
			continue
		}
		positionId := domain.PositionId(
			market.CollateralToken,
			domain.CollectionId(common.Hash{}, market.ConditionId, 1<<uint(i)),
		)
		if delta > 0 {
			if err := positions.IncrementBalance(
				ctx, trader, positionId, uint64(delta),
			); err != nil {
				return err
			}
			continue
		}
		if err := positions.DecrementBalance(
			ctx, trader, positionId, uint64(-delta),
		); err != nil {
			return err
		}
	}
	return nil
}

func (m *marketService) PauseMarket(
	ctx context.Context, caller common.Address, marketId common.Address,
) error {
	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, m.repoManager.MarketRepository().UpdateMarket(
				ctx, marketId, func(market *domain.Market) (*domain.Market, error) {
					condition, err := m.repoManager.ConditionRepository().GetCondition(
						ctx, market.ConditionId,
					)
					if err != nil {
						return nil, err
					}
					if !condition.IsResolved() {
						return nil, domain.ErrConditionNotResolved
					}
					if err := market.Pause(caller); err != nil {
						return nil, err
					}
					return market, nil
				},
			)
		},
	)
	if err != nil {
		return err
	}

	log.Infof("market %s paused", marketId.Hex())
	return nil
}

func (m *marketService) ResumeMarket(
	ctx context.Context, caller common.Address, marketId common.Address,
) error {
	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, m.repoManager.MarketRepository().UpdateMarket(
				ctx, marketId, func(market *domain.Market) (*domain.Market, error) {
					if err := market.Resume(caller); err != nil {
						return nil, err
					}
					return market, nil
				},
			)
		},
	)
	if err != nil {
		return err
	}

	log.Infof("market %s resumed", marketId.Hex())
	return nil
}

func (m *marketService) CloseMarket(
	ctx context.Context, caller common.Address, marketId common.Address,
) (uint64, error) {
	var swept uint64
	if _, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, m.repoManager.MarketRepository().UpdateMarket(
				ctx, marketId, func(market *domain.Market) (*domain.Market, error) {
					if err := market.Close(caller); err != nil {
						return nil, err
					}

					condition, err := m.repoManager.ConditionRepository().GetCondition(
						ctx, market.ConditionId,
					)
					if err != nil {
						return nil, err
					}

					accounts := m.repoManager.AccountRepository()
					fees, err := accounts.GetBalance(
						ctx, market.Id, market.CollateralToken,
					)
					if err != nil {
						return nil, err
					}
					if fees > 0 {
						if err := accounts.Transfer(
							ctx, market.Id, market.Creator,
							market.CollateralToken, fees,
						); err != nil {
							return nil, err
						}
					}

					residue, err := m.poolResidue(ctx, market, condition)
					if err != nil {
						return nil, err
					}
					if residue > 0 {
						if err := accounts.Transfer(
							ctx, market.CollateralPool(), market.Creator,
							market.CollateralToken, residue,
						); err != nil {
							return nil, err
						}
					}
					swept = fees + residue
					return market, nil
				},
			)
		},
	); err != nil {
		return 0, err
	}

	log.Infof("market %s closed, %d returned to creator", marketId.Hex(), swept)
	return swept, nil
}

// poolResidue returns the part of the collateral pool balance not reserved
// for redeeming outstanding outcome tokens. After resolution the reserve is
// the exact redemption obligation rounded up; before resolution it assumes
// the worst case of the full payout going to the outcome with the largest
// outstanding supply.
func (m *marketService) poolResidue(
	ctx context.Context, market *domain.Market, condition *domain.Condition,
) (uint64, error) {
	positions := m.repoManager.PositionRepository()

	reserve := new(big.Int)
	weighted := new(big.Int)
	for i := 0; i < market.OutcomeCount; i++ {
		positionId := domain.PositionId(
			market.CollateralToken,
			domain.CollectionId(common.Hash{}, market.ConditionId, 1<<uint(i)),
		)
		supply, err := positions.GetTotalSupply(ctx, positionId)
		if err != nil {
			return 0, err
		}
		s := new(big.Int).SetUint64(supply)
		if condition.IsResolved() {
			numerator := new(big.Int).SetUint64(
				condition.PayoutNumeratorForIndexSet(1 << uint(i)),
			)
			weighted.Add(weighted, s.Mul(s, numerator))
		} else if reserve.Cmp(s) < 0 {
			reserve.Set(s)
		}
	}
	if condition.IsResolved() {
		rem := new(big.Int)
		reserve.DivMod(weighted, new(big.Int).SetUint64(condition.PayoutDenominator), rem)
		if rem.Sign() > 0 {
			reserve.Add(reserve, big.NewInt(1))
		}
	}

	poolBalance, err := m.repoManager.AccountRepository().GetBalance(
		ctx, market.CollateralPool(), market.CollateralToken,
	)
	if err != nil {
		return 0, err
	}
	pool := new(big.Int).SetUint64(poolBalance)
	if pool.Cmp(reserve) <= 0 {
		return 0, nil
	}
	return pool.Sub(pool, reserve).Uint64(), nil
}

func (m *marketService) GetMarket(
	ctx context.Context, marketId common.Address,
) (*MarketInfo, error) {
	res, err := m.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return m.repoManager.MarketRepository().GetMarket(ctx, marketId)
		},
	)
	if err != nil {
		return nil, err
	}
	return marketInfo(res.(*domain.Market)), nil
}

func (m *marketService) ListMarkets(ctx context.Context) ([]MarketInfo, error) {
	res, err := m.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return m.repoManager.MarketRepository().GetAllMarkets(ctx)
		},
	)
	if err != nil {
		return nil, err
	}

	markets := res.([]domain.Market)
	infos := make([]MarketInfo, 0, len(markets))
	for i := range markets {
		infos = append(infos, *marketInfo(&markets[i]))
	}
	return infos, nil
}

func allZero(deltas []int64) bool {
	for _, d := range deltas {
		if d != 0 {
			return false
		}
	}
	return true
}
