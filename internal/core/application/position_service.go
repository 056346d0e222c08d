package application

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/ports"
	"github.com/pearscrow-network/pearscrow-daemon/pkg/mathutil"
)

// PositionService defines the methods of the application layer for the
// conditional token ledger: preparing conditions, reporting payouts and
// splitting, merging and redeeming positions.
type PositionService interface {
	PrepareCondition(
		ctx context.Context,
		oracle common.Address, questionId common.Hash, outcomeSlotCount uint,
	) (*ConditionInfo, error)
	ReportPayouts(
		ctx context.Context,
		caller common.Address, conditionId common.Hash, payouts []uint64,
	) error
	// SplitPosition locks amount of collateral and mints amount of every
	// elementary outcome position of the condition to the caller.
	SplitPosition(
		ctx context.Context,
		caller, collateralToken common.Address, conditionId common.Hash,
		amount uint64,
	) error
	// MergePositions burns amount of every elementary outcome position of the
	// condition and unlocks amount of collateral back to the caller.
	MergePositions(
		ctx context.Context,
		caller, collateralToken common.Address, conditionId common.Hash,
		amount uint64,
	) error
	// RedeemPositions burns the caller's full balance of each given index set
	// position and pays out the collateral it is worth under the reported
	// payout vector. Worthless balances are burned for a zero payout; if
	// every given position is already empty it fails with ErrNothingToRedeem.
	RedeemPositions(
		ctx context.Context,
		caller, collateralToken common.Address,
		parentCollectionId, conditionId common.Hash, indexSets []uint,
	) (uint64, error)
	GetCondition(
		ctx context.Context, conditionId common.Hash,
	) (*ConditionInfo, error)
	BalanceOf(
		ctx context.Context, owner common.Address, positionId common.Hash,
	) (uint64, error)
}

type positionService struct {
	repoManager ports.DbManager
}

// NewPositionService returns a new service for managing conditional token
// positions backed by the given repositories.
func NewPositionService(repoManager ports.DbManager) PositionService {
	return &positionService{repoManager: repoManager}
}

func (p *positionService) PrepareCondition(
	ctx context.Context,
	oracle common.Address, questionId common.Hash, outcomeSlotCount uint,
) (*ConditionInfo, error) {
	condition, err := domain.NewCondition(oracle, questionId, outcomeSlotCount)
	if err != nil {
		return nil, err
	}

	if _, err := p.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, p.repoManager.ConditionRepository().AddCondition(
				ctx, condition,
			)
		},
	); err != nil {
		return nil, err
	}

	log.Infof("prepared condition %s", condition.Id.Hex())
	return conditionInfo(condition), nil
}

func (p *positionService) ReportPayouts(
	ctx context.Context,
	caller common.Address, conditionId common.Hash, payouts []uint64,
) error {
	_, err := p.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, p.repoManager.ConditionRepository().UpdateCondition(
				ctx, conditionId,
				func(condition *domain.Condition) (*domain.Condition, error) {
					if err := condition.ReportPayouts(caller, payouts); err != nil {
						return nil, err
					}
					return condition, nil
				},
			)
		},
	)
	if err != nil {
		return err
	}

	log.Infof("payouts reported for condition %s", conditionId.Hex())
	return nil
}

func (p *positionService) SplitPosition(
	ctx context.Context,
	caller, collateralToken common.Address, conditionId common.Hash,
	amount uint64,
) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	_, err := p.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			condition, err := p.repoManager.ConditionRepository().GetCondition(
				ctx, conditionId,
			)
			if err != nil {
				return nil, err
			}

			if err := p.repoManager.AccountRepository().Transfer(
				ctx, caller, domain.CollateralPoolAddress(conditionId),
				collateralToken, amount,
			); err != nil {
				return nil, err
			}

			positions := p.repoManager.PositionRepository()
			for i := uint(0); i < condition.OutcomeSlotCount; i++ {
				positionId := domain.PositionId(
					collateralToken,
					domain.CollectionId(common.Hash{}, conditionId, 1<<i),
				)
				if err := positions.IncrementBalance(
					ctx, caller, positionId, amount,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	)
	return err
}

func (p *positionService) MergePositions(
	ctx context.Context,
	caller, collateralToken common.Address, conditionId common.Hash,
	amount uint64,
) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	_, err := p.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			condition, err := p.repoManager.ConditionRepository().GetCondition(
				ctx, conditionId,
			)
			if err != nil {
				return nil, err
			}

			positions := p.repoManager.PositionRepository()
			for i := uint(0); i < condition.OutcomeSlotCount; i++ {
				positionId := domain.PositionId(
					collateralToken,
					domain.CollectionId(common.Hash{}, conditionId, 1<<i),
				)
				if err := positions.DecrementBalance(
					ctx, caller, positionId, amount,
				); err != nil {
					return nil, err
				}
			}

			return nil, p.repoManager.AccountRepository().Transfer(
				ctx, domain.CollateralPoolAddress(conditionId), caller,
				collateralToken, amount,
			)
		},
	)
	return err
}

func (p *positionService) RedeemPositions(
	ctx context.Context,
	caller, collateralToken common.Address,
	parentCollectionId, conditionId common.Hash, indexSets []uint,
) (uint64, error) {
	var totalPayout uint64
	if _, err := p.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			condition, err := p.repoManager.ConditionRepository().GetCondition(
				ctx, conditionId,
			)
			if err != nil {
				return nil, err
			}
			if !condition.IsResolved() {
				return nil, domain.ErrConditionNotResolved
			}

			positions := p.repoManager.PositionRepository()
			var burnedAny bool
			for _, indexSet := range indexSets {
				if !condition.IsValidIndexSet(indexSet) {
					return nil, domain.ErrConditionInvalidIndexSet
				}

				positionId := domain.PositionId(
					collateralToken,
					domain.CollectionId(parentCollectionId, conditionId, indexSet),
				)
				balance, err := positions.GetBalance(ctx, caller, positionId)
				if err != nil {
					return nil, err
				}
				if balance == 0 {
					continue
				}

				if err := positions.DecrementBalance(
					ctx, caller, positionId, balance,
				); err != nil {
					return nil, err
				}
				burnedAny = true

				totalPayout += mathutil.BigMulDiv(
					balance,
					condition.PayoutNumeratorForIndexSet(indexSet),
					condition.PayoutDenominator,
				)
			}
			if !burnedAny {
				return nil, ErrNothingToRedeem
			}

			if totalPayout > 0 {
				if err := p.repoManager.AccountRepository().Transfer(
					ctx, domain.CollateralPoolAddress(conditionId), caller,
					collateralToken, totalPayout,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		return 0, err
	}

	log.Infof(
		"redeemed %d of token %s for %s on condition %s",
		totalPayout, collateralToken.Hex(), caller.Hex(), conditionId.Hex(),
	)
	return totalPayout, nil
}

func (p *positionService) GetCondition(
	ctx context.Context, conditionId common.Hash,
) (*ConditionInfo, error) {
	res, err := p.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return p.repoManager.ConditionRepository().GetCondition(ctx, conditionId)
		},
	)
	if err != nil {
		return nil, err
	}
	return conditionInfo(res.(*domain.Condition)), nil
}

func (p *positionService) BalanceOf(
	ctx context.Context, owner common.Address, positionId common.Hash,
) (uint64, error) {
	res, err := p.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return p.repoManager.PositionRepository().GetBalance(
				ctx, owner, positionId,
			)
		},
	)
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}
