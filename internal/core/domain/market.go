package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pearscrow-network/pearscrow-daemon/pkg/marketmaking"
	"github.com/pearscrow-network/pearscrow-daemon/pkg/marketmaking/formula"
)

const (
	MarketStageRunning MarketStage = iota
	MarketStagePaused
	MarketStageClosed

	// StrategyTypeLMSR is the logarithmic market scoring rule strategy.
	StrategyTypeLMSR = formula.LogarithmicScoringRuleType

	// BinaryOutcomeCount is the slot count of a YES/NO market.
	BinaryOutcomeCount = 2

	MaxFeeBasisPoint = 10000
)

// MarketStage represents the lifecycle stage of a market maker instance.
// Paused means the underlying condition resolved and the market only accepts
// redemptions; Closed means the creator withdrew the residual collateral and
// the market is terminal.
type MarketStage int

func (s MarketStage) String() string {
	switch s {
	case MarketStageRunning:
		return "running"
	case MarketStagePaused:
		return "paused"
	case MarketStageClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Market defines the market maker entity data structure holding the state of
// a binary-outcome prediction market priced by a cost-function strategy.
type Market struct {
	Id                   common.Address
	Creator              common.Address
	CollateralToken      common.Address
	Oracle               common.Address
	QuestionId           common.Hash
	ConditionId          common.Hash
	FeeBps               uint32
	Funding              uint64
	OutcomeCount         int
	NetOutcomeTokensSold []int64
	Stage                MarketStage
	StrategyType         int
	CreatedAt            int64
}

// NewMarket returns a Running market with its address and condition id
// derived from the creation parameters.
func NewMarket(
	creator, collateralToken, oracle common.Address,
	questionId common.Hash, feeBps uint32, funding uint64, now int64,
) (*Market, error) {
	if funding == 0 {
		return nil, ErrMarketInvalidFunding
	}
	if feeBps >= MaxFeeBasisPoint {
		return nil, ErrMarketInvalidFee
	}

	conditionId := ConditionId(oracle, questionId, BinaryOutcomeCount)
	id := common.BytesToAddress(crypto.Keccak256(
		creator.Bytes(), collateralToken.Bytes(), conditionId.Bytes(),
	)[12:])

	return &Market{
		Id:                   id,
		Creator:              creator,
		CollateralToken:      collateralToken,
		Oracle:               oracle,
		QuestionId:           questionId,
		ConditionId:          conditionId,
		FeeBps:               feeBps,
		Funding:              funding,
		OutcomeCount:         BinaryOutcomeCount,
		NetOutcomeTokensSold: make([]int64, BinaryOutcomeCount),
		Stage:                MarketStageRunning,
		StrategyType:         StrategyTypeLMSR,
		CreatedAt:            now,
	}, nil
}

// IsTradable returns whether the market accepts trades.
func (m *Market) IsTradable() bool {
	return m.Stage == MarketStageRunning
}

// MakingStrategy returns the pricing strategy configured for the market.
func (m *Market) MakingStrategy() marketmaking.MakingStrategy {
	return marketmaking.NewStrategyFromFormula(
		"lmsr", formula.LogarithmicScoringRule{},
	)
}

// FormulaOpts returns the current market state in the shape consumed by the
// pricing formula.
func (m *Market) FormulaOpts() *marketmaking.FormulaOpts {
	netSold := append([]int64(nil), m.NetOutcomeTokensSold...)
	return &marketmaking.FormulaOpts{
		Funding:      m.Funding,
		OutcomeCount: m.OutcomeCount,
		NetSold:      netSold,
	}
}

// CollateralPool returns the ledger address holding the collateral backing
// the market's outstanding positions.
func (m *Market) CollateralPool() common.Address {
	return CollateralPoolAddress(m.ConditionId)
}

// ApplyTrade adjusts the net outcome tokens sold by the given deltas.
func (m *Market) ApplyTrade(deltas []int64) error {
	if len(deltas) != m.OutcomeCount {
		return ErrMarketInvalidDeltas
	}
	for i, d := range deltas {
		m.NetOutcomeTokensSold[i] += d
	}
	return nil
}

// Pause brings the market from Running to Paused. The caller must be the
// market's resolution authority and the underlying condition must already be
// resolved, which is checked by the application layer.
func (m *Market) Pause(caller common.Address) error {
	if caller != m.Oracle {
		return ErrUnauthorized
	}
	if m.Stage == MarketStageClosed {
		return ErrMarketClosed
	}
	if m.Stage != MarketStageRunning {
		return ErrMarketNotTradable
	}
	m.Stage = MarketStagePaused
	return nil
}

// Resume brings the market from Paused back to Running.
func (m *Market) Resume(caller common.Address) error {
	if caller != m.Oracle {
		return ErrUnauthorized
	}
	if m.Stage == MarketStageClosed {
		return ErrMarketClosed
	}
	if m.Stage != MarketStagePaused {
		return ErrMarketNotPaused
	}
	m.Stage = MarketStageRunning
	return nil
}

// Close brings the market to its terminal Closed stage. Only the creator may
// close; sweeping the residual fee balance is up to the application layer and
// must happen atomically with this transition.
func (m *Market) Close(caller common.Address) error {
	if caller != m.Creator {
		return ErrUnauthorized
	}
	if m.Stage == MarketStageClosed {
		return ErrMarketClosed
	}
	m.Stage = MarketStageClosed
	return nil
}
