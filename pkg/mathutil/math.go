package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.DivisionPrecision = 18
}

// UintToDecimal takes a uint64 amount and returns it as decimal.Decimal.
func UintToDecimal(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

// IntToDecimal takes an int64 amount and returns it as decimal.Decimal.
func IntToDecimal(x int64) decimal.Decimal {
	return decimal.NewFromInt(x)
}

// DecimalCeilToUint rounds the given decimal up to the nearest integer and
// returns it as uint64. Non-positive values map to 0.
func DecimalCeilToUint(x decimal.Decimal) uint64 {
	if x.Sign() <= 0 {
		return 0
	}
	return x.Ceil().BigInt().Uint64()
}

// DecimalFloorToUint rounds the given decimal down to the nearest integer and
// returns it as uint64. Non-positive values map to 0.
func DecimalFloorToUint(x decimal.Decimal) uint64 {
	if x.Sign() <= 0 {
		return 0
	}
	return x.Floor().BigInt().Uint64()
}

// BigMulDiv returns floor(x * y / z) computed with arbitrary precision
// intermediates so that x * y cannot overflow.
func BigMulDiv(x, y, z uint64) uint64 {
	X := new(big.Int).SetUint64(x)
	Y := new(big.Int).SetUint64(y)
	Z := new(big.Int).SetUint64(z)
	res := new(big.Int).Mul(X, Y)
	res.Div(res, Z)
	return res.Uint64()
}
