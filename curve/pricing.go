package curve

import (
	"math/big"

	safemath "github.com/oyllabs/bonding-curve-go/curve/math"
)

// PriceAtSupply returns the spot price of the next token at the given supply.
//
// The exponential base_price * (1 + growth/10000)^supply is approximated by
// applying the full growth factor once per chunk of 10 exponent units and a
// dampened fractional factor for the remainder units. The running product is
// clamped to PriceCeiling after every multiplication; past the ceiling every
// supply level reports the ceiling.
func PriceAtSupply(supply *big.Int, params *CurveParams) *big.Int {
	if supply == nil || supply.Sign() <= 0 {
		return new(big.Int).Set(params.BasePrice)
	}

	num := new(big.Int).Add(basisPointMax, params.GrowthRateBps)
	denom := basisPointMax

	frac := new(big.Int).Sub(num, denom)
	frac.Div(frac, big.NewInt(growthChunk))
	frac.Add(frac, denom)

	result := new(big.Int).Set(params.BasePrice)
	exp := new(big.Int).Set(supply)
	chunk := big.NewInt(growthChunk)
	one := big.NewInt(1)
	rem := new(big.Int)

	for exp.Sign() > 0 {
		if rem.Mod(exp, chunk).Sign() == 0 {
			result.Mul(result, num)
			result.Div(result, denom)
			exp.Sub(exp, chunk)
		} else {
			result.Mul(result, frac)
			result.Div(result, denom)
			exp.Sub(exp, one)
		}
		if result.Cmp(PriceCeiling) >= 0 {
			return new(big.Int).Set(PriceCeiling)
		}
	}
	return result
}

// BuyPrice returns the cost of buying qty tokens starting from currentSupply,
// the trapezoidal estimate of the price integral over the purchase window.
func BuyPrice(currentSupply, qty *big.Int, params *CurveParams) (*big.Int, error) {
	if qty.Sign() == 0 {
		return big.NewInt(0), nil
	}

	endSupply, err := safemath.CheckedAdd(currentSupply, qty)
	if err != nil {
		return nil, ErrArithmeticOverflow
	}
	if endSupply.Cmp(params.MaxSupply) > 0 {
		return nil, ErrExceedsMaxSupply
	}

	startPrice := PriceAtSupply(currentSupply, params)
	endPrice := PriceAtSupply(endSupply, params)

	sum, err := safemath.CheckedAdd(startPrice, endPrice)
	if err != nil {
		return nil, ErrArithmeticOverflow
	}
	avg := sum.Div(sum, big.NewInt(2))

	cost, err := safemath.CheckedMul(avg, qty)
	if err != nil {
		return nil, ErrArithmeticOverflow
	}
	return cost, nil
}

// SellPrice returns the payout for selling qty tokens back to the curve. The
// trapezoidal average over the sell window is discounted by 1%, the curve's
// built-in spread against round-trip arbitrage.
func SellPrice(currentSupply, qty *big.Int, params *CurveParams) (*big.Int, error) {
	if qty.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if qty.Cmp(currentSupply) > 0 {
		return nil, ErrInsufficientSupply
	}

	startSupply := new(big.Int).Sub(currentSupply, qty)
	startPrice := PriceAtSupply(startSupply, params)
	endPrice := PriceAtSupply(currentSupply, params)

	sum, err := safemath.CheckedAdd(startPrice, endPrice)
	if err != nil {
		return nil, ErrArithmeticOverflow
	}
	avg := sum.Div(sum, big.NewInt(2))

	gross, err := safemath.CheckedMul(avg, qty)
	if err != nil {
		return nil, ErrArithmeticOverflow
	}

	payout, err := safemath.CheckedMul(gross, big.NewInt(sellDiscountNumerator))
	if err != nil {
		return nil, ErrArithmeticOverflow
	}
	return payout.Div(payout, big.NewInt(sellDiscountDenominator)), nil
}

// QuantityForPayment finds the largest qty whose buy cost does not exceed
// payment, by binary search over the remaining supply. Cost is non-decreasing
// in qty, so a mid whose cost overflows is simply out of reach and narrows the
// upper bound.
func QuantityForPayment(currentSupply, payment *big.Int, params *CurveParams) (*big.Int, error) {
	high := new(big.Int).Sub(params.MaxSupply, currentSupply)
	if high.Sign() <= 0 {
		return nil, ErrExceedsMaxSupply
	}

	low := big.NewInt(1)
	one := big.NewInt(1)
	best := big.NewInt(0)
	mid := new(big.Int)

	for low.Cmp(high) <= 0 {
		mid.Add(low, high)
		mid.Rsh(mid, 1)

		cost, err := BuyPrice(currentSupply, mid, params)
		if err == nil && cost.Cmp(payment) <= 0 {
			best.Set(mid)
			low.Add(mid, one)
		} else {
			high.Sub(mid, one)
		}
	}

	if best.Sign() == 0 {
		return nil, ErrInsufficientPayment
	}
	return best, nil
}
