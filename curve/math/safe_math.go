package math

import (
	"errors"
	"math/big"

	"github.com/oyllabs/bonding-curve-go/u128"
)

// U128Max bounds every amount handled by the engine. Arithmetic beyond it
// either errors (checked ops) or clamps (saturating ops).
var U128Max = u128.GenUint128FromString("340282366920938463463374607431768211455").BigInt()

func CheckedAdd(a, b *big.Int) (*big.Int, error) {
	out := new(big.Int).Add(a, b)
	if out.Cmp(U128Max) > 0 {
		return nil, errors.New("SafeMath: addition overflow")
	}
	return out, nil
}

func CheckedSub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, errors.New("SafeMath: subtraction overflow")
	}
	return new(big.Int).Sub(a, b), nil
}

func CheckedMul(a, b *big.Int) (*big.Int, error) {
	out := new(big.Int).Mul(a, b)
	if out.Cmp(U128Max) > 0 {
		return nil, errors.New("SafeMath: multiplication overflow")
	}
	return out, nil
}

func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, errors.New("SafeMath: division by zero")
	}
	return new(big.Int).Div(a, b), nil
}

func SaturatingMul(a, b *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	if out.Cmp(U128Max) > 0 {
		return new(big.Int).Set(U128Max)
	}
	return out
}

// Isqrt returns the floor of the square root of x. Negative input is treated
// as zero so callers never observe a partial result.
func Isqrt(x *big.Int) *big.Int {
	if x.Sign() <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Sqrt(x)
}
