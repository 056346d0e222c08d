package domain_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
)

var (
	oracleAddr = common.HexToAddress("0x4000000000000000000000000000000000000004")
	questionId = common.HexToHash("0xababababababababababababababababababababababababababababababab00")
)

func TestConditionIdDerivations(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := domain.ConditionId(oracleAddr, questionId, 2)
		id2 := domain.ConditionId(oracleAddr, questionId, 2)
		require.Equal(t, id1, id2)
		require.NotEqual(t, common.Hash{}, id1)
	})

	t.Run("sensitive_to_inputs", func(t *testing.T) {
		base := domain.ConditionId(oracleAddr, questionId, 2)
		require.NotEqual(t, base, domain.ConditionId(oracleAddr, questionId, 3))
		require.NotEqual(t, base, domain.ConditionId(maker, questionId, 2))
	})

	t.Run("collection_and_position_ids", func(t *testing.T) {
		conditionId := domain.ConditionId(oracleAddr, questionId, 2)
		yesCollection := domain.CollectionId(common.Hash{}, conditionId, 2)
		noCollection := domain.CollectionId(common.Hash{}, conditionId, 1)
		require.NotEqual(t, yesCollection, noCollection)

		yesPosition := domain.PositionId(token, yesCollection)
		require.Equal(t, yesPosition, domain.PositionId(token, yesCollection))
		require.NotEqual(t, yesPosition, domain.PositionId(token, noCollection))
	})
}

func TestNewCondition(t *testing.T) {
	condition, err := domain.NewCondition(oracleAddr, questionId, 2)
	require.NoError(t, err)

	require.Equal(t, domain.ConditionId(oracleAddr, questionId, 2), condition.Id)
	require.False(t, condition.IsResolved())
	require.Zero(t, condition.PayoutDenominator)
	require.Len(t, condition.PayoutNumerators, 2)

	_, err = domain.NewCondition(oracleAddr, questionId, 1)
	require.ErrorIs(t, err, domain.ErrConditionInvalidSlotCount)
}

func TestConditionReportPayouts(t *testing.T) {
	condition, err := domain.NewCondition(oracleAddr, questionId, 2)
	require.NoError(t, err)

	require.NoError(t, condition.ReportPayouts(oracleAddr, []uint64{0, 1}))
	require.True(t, condition.IsResolved())
	require.Equal(t, uint64(1), condition.PayoutDenominator)
	require.Equal(t, []uint64{0, 1}, condition.PayoutNumerators)
}

func TestFailingConditionReportPayouts(t *testing.T) {
	newCondition := func(t *testing.T) *domain.Condition {
		t.Helper()
		condition, err := domain.NewCondition(oracleAddr, questionId, 2)
		require.NoError(t, err)
		return condition
	}

	t.Run("non_oracle", func(t *testing.T) {
		condition := newCondition(t)
		err := condition.ReportPayouts(maker, []uint64{0, 1})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("all_zero", func(t *testing.T) {
		condition := newCondition(t)
		err := condition.ReportPayouts(oracleAddr, []uint64{0, 0})
		require.ErrorIs(t, err, domain.ErrPayoutsAllZero)
	})

	t.Run("length_mismatch", func(t *testing.T) {
		condition := newCondition(t)
		err := condition.ReportPayouts(oracleAddr, []uint64{1})
		require.ErrorIs(t, err, domain.ErrPayoutsInvalidLength)
	})

	t.Run("already_reported", func(t *testing.T) {
		condition := newCondition(t)
		require.NoError(t, condition.ReportPayouts(oracleAddr, []uint64{1, 0}))

		err := condition.ReportPayouts(oracleAddr, []uint64{0, 1})
		require.ErrorIs(t, err, domain.ErrPayoutsAlreadyReported)
		// the first report must be untouched
		require.Equal(t, []uint64{1, 0}, condition.PayoutNumerators)
	})
}

func TestConditionIndexSets(t *testing.T) {
	condition, err := domain.NewCondition(oracleAddr, questionId, 2)
	require.NoError(t, err)
	require.NoError(t, condition.ReportPayouts(oracleAddr, []uint64{3, 1}))

	require.Equal(t, uint(3), condition.FullIndexSet())
	require.True(t, condition.IsValidIndexSet(1))
	require.True(t, condition.IsValidIndexSet(3))
	require.False(t, condition.IsValidIndexSet(0))
	require.False(t, condition.IsValidIndexSet(4))

	require.Equal(t, uint64(3), condition.PayoutNumeratorForIndexSet(1))
	require.Equal(t, uint64(1), condition.PayoutNumeratorForIndexSet(2))
	require.Equal(t, uint64(4), condition.PayoutNumeratorForIndexSet(3))
}
