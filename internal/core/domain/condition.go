package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ConditionId derives the deterministic identifier of a condition from the
// oracle entitled to resolve it, the question id and the number of outcome
// slots. Same inputs always yield the same id.
func ConditionId(
	oracle common.Address, questionId common.Hash, outcomeSlotCount uint,
) common.Hash {
	count := common.BigToHash(new(big.Int).SetUint64(uint64(outcomeSlotCount)))
	return crypto.Keccak256Hash(oracle.Bytes(), questionId.Bytes(), count.Bytes())
}

// CollectionId combines a (possibly zero) parent collection with a condition
// and an index set, enabling composable conditional positions. The index set
// is a bitmask over the condition's outcome slots.
func CollectionId(
	parentCollectionId, conditionId common.Hash, indexSet uint,
) common.Hash {
	set := common.BigToHash(new(big.Int).SetUint64(uint64(indexSet)))
	return crypto.Keccak256Hash(
		parentCollectionId.Bytes(), conditionId.Bytes(), set.Bytes(),
	)
}

// PositionId derives the addressable token id of a balance from the
// collateral token backing it and the collection it claims.
func PositionId(
	collateralToken common.Address, collectionId common.Hash,
) common.Hash {
	return crypto.Keccak256Hash(collateralToken.Bytes(), collectionId.Bytes())
}

// CollateralPoolAddress derives the ledger address custodying the collateral
// that backs all outstanding positions of a condition.
func CollateralPoolAddress(conditionId common.Hash) common.Address {
	h := crypto.Keccak256Hash([]byte("pearscrow/collateral-pool"), conditionId.Bytes())
	return common.BytesToAddress(h.Bytes()[12:])
}

// EscrowVaultAddress is the ledger address custodying funded order amounts
// between funding and resolution.
var EscrowVaultAddress = common.BytesToAddress(
	crypto.Keccak256([]byte("pearscrow/escrow-vault"))[12:],
)

// Condition is an eventually-resolvable question with a fixed number of
// mutually exclusive outcome slots. PayoutDenominator stays 0 until the
// oracle reports payouts, which can happen at most once.
type Condition struct {
	Id               common.Hash
	Oracle           common.Address
	QuestionId       common.Hash
	OutcomeSlotCount uint
	PayoutNumerators []uint64
	PayoutDenominator uint64
}

// NewCondition returns an unresolved condition with its derived id.
func NewCondition(
	oracle common.Address, questionId common.Hash, outcomeSlotCount uint,
) (*Condition, error) {
	if outcomeSlotCount < 2 {
		return nil, ErrConditionInvalidSlotCount
	}
	return &Condition{
		Id:               ConditionId(oracle, questionId, outcomeSlotCount),
		Oracle:           oracle,
		QuestionId:       questionId,
		OutcomeSlotCount: outcomeSlotCount,
		PayoutNumerators: make([]uint64, outcomeSlotCount),
	}, nil
}

// IsResolved returns whether payouts have been reported.
func (c *Condition) IsResolved() bool {
	return c.PayoutDenominator > 0
}

// ReportPayouts records the payout vector exactly once. Only the designated
// oracle may report, the vector must match the slot count and must not be
// all zero.
func (c *Condition) ReportPayouts(caller common.Address, payouts []uint64) error {
	if caller != c.Oracle {
		return ErrUnauthorized
	}
	if c.IsResolved() {
		return ErrPayoutsAlreadyReported
	}
	if uint(len(payouts)) != c.OutcomeSlotCount {
		return ErrPayoutsInvalidLength
	}

	var den uint64
	for _, p := range payouts {
		den += p
	}
	if den == 0 {
		return ErrPayoutsAllZero
	}

	c.PayoutNumerators = append([]uint64(nil), payouts...)
	c.PayoutDenominator = den
	return nil
}

// PayoutNumeratorForIndexSet sums the payout numerators of the slots selected
// by the given index set bitmask.
func (c *Condition) PayoutNumeratorForIndexSet(indexSet uint) uint64 {
	var num uint64
	for i := uint(0); i < c.OutcomeSlotCount; i++ {
		if indexSet&(1<<i) != 0 {
			num += c.PayoutNumerators[i]
		}
	}
	return num
}

// FullIndexSet returns the bitmask selecting every outcome slot.
func (c *Condition) FullIndexSet() uint {
	return (1 << c.OutcomeSlotCount) - 1
}

// IsValidIndexSet returns whether the bitmask selects a non-empty strict or
// full subset of the condition's outcome slots.
func (c *Condition) IsValidIndexSet(indexSet uint) bool {
	return indexSet > 0 && indexSet <= c.FullIndexSet()
}
