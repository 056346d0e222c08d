package application

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

// OrderInfo is the view of an escrow order returned by the order service.
type OrderInfo struct {
	Id           uint64
	Maker        common.Address
	Taker        common.Address
	Token        common.Address
	Amount       uint64
	Status       string
	OracleResult *bool
	CreatedAt    int64
	SettledAt    int64
}

func orderInfo(order *domain.Order) *OrderInfo {
	return &OrderInfo{
		Id:           order.Id,
		Maker:        order.Maker,
		Taker:        order.Taker,
		Token:        order.Token,
		Amount:       order.Amount,
		Status:       order.Status.String(),
		OracleResult: order.OracleResult,
		CreatedAt:    order.CreatedAt,
		SettledAt:    order.SettledAt,
	}
}

// MarketInfo is the view of a prediction market returned by the market
// service. Prices are the current marginal prices of the two outcomes and
// are zero whenever the formula cannot produce a meaningful quote.
type MarketInfo struct {
	Id              common.Address
	Creator         common.Address
	CollateralToken common.Address
	ConditionId     common.Hash
	FeeBps          uint32
	Funding         uint64
	NetSold         []int64
	Stage           string
	Prices          []decimal.Decimal
	CreatedAt       int64
}

func marketInfo(market *domain.Market) *MarketInfo {
	prices := make([]decimal.Decimal, domain.BinaryOutcomeCount)
	formula := market.MakingStrategy().Formula()
	for i := 0; i < domain.BinaryOutcomeCount; i++ {
		if price, err := formula.MarginalPrice(market.FormulaOpts(), i); err == nil {
			prices[i] = price
		}
	}

	netSold := make([]int64, len(market.NetOutcomeTokensSold))
	copy(netSold, market.NetOutcomeTokensSold)

	return &MarketInfo{
		Id:              market.Id,
		Creator:         market.Creator,
		CollateralToken: market.CollateralToken,
		ConditionId:     market.ConditionId,
		FeeBps:          market.FeeBps,
		Funding:         market.Funding,
		NetSold:         netSold,
		Stage:           market.Stage.String(),
		Prices:          prices,
		CreatedAt:       market.CreatedAt,
	}
}

// ConditionInfo is the view of a prepared condition.
type ConditionInfo struct {
	Id                common.Hash
	Oracle            common.Address
	QuestionId        common.Hash
	OutcomeSlotCount  uint
	PayoutNumerators  []uint64
	PayoutDenominator uint64
}

func conditionInfo(condition *domain.Condition) *ConditionInfo {
	numerators := make([]uint64, len(condition.PayoutNumerators))
	copy(numerators, condition.PayoutNumerators)

	return &ConditionInfo{
		Id:                condition.Id,
		Oracle:            condition.Oracle,
		QuestionId:        condition.QuestionId,
		OutcomeSlotCount:  condition.OutcomeSlotCount,
		PayoutNumerators:  numerators,
		PayoutDenominator: condition.PayoutDenominator,
	}
}
