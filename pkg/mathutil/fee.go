package mathutil

import (
	"github.com/shopspring/decimal"
)

var tenThousands = decimal.NewFromInt(10000)

// FeeAmount returns the fee for the given amount expressed in basis points,
// rounded up so that rounding always favors the fee collector.
func FeeAmount(amount uint64, basisPoint uint32) uint64 {
	fee := UintToDecimal(amount).
		Mul(decimal.NewFromInt(int64(basisPoint))).
		Div(tenThousands)
	return DecimalCeilToUint(fee)
}

// LessFee returns the amount discounted by the fee expressed in basis points.
func LessFee(amount uint64, basisPoint uint32) uint64 {
	fee := FeeAmount(amount, basisPoint)
	if fee >= amount {
		return 0
	}
	return amount - fee
}

// PlusFee returns the amount charged with the fee expressed in basis points.
func PlusFee(amount uint64, basisPoint uint32) uint64 {
	return amount + FeeAmount(amount, basisPoint)
}
