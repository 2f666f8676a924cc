package curve

import (
	"math/big"

	"github.com/shopspring/decimal"

	safemath "github.com/oyllabs/bonding-curve-go/curve/math"
)

// MeetsGraduationCriteria reports whether the curve has earned its move to an
// external pool. Either branch alone is sufficient: a market cap at or above
// the threshold, or reserves at or above half of it.
func MeetsGraduationCriteria(supply, reserves *big.Int, params *CurveParams) bool {
	marketCap := safemath.SaturatingMul(supply, PriceAtSupply(supply, params))
	if marketCap.Cmp(params.GraduationThreshold) >= 0 {
		return true
	}
	reserveTarget := new(big.Int).Div(params.GraduationThreshold, big.NewInt(2))
	return reserves.Cmp(reserveTarget) >= 0
}

// EmergencyGraduationEligible is the escape valve for curves that stall below
// the organic criteria. It opens only after EmergencyGraduationBlocks have
// elapsed since launch and the curve still shows a minimum of real activity.
func EmergencyGraduationEligible(currentBlock, launchBlock uint64, supply, reserves *big.Int) bool {
	if currentBlock < launchBlock {
		return false
	}
	if currentBlock-launchBlock < EmergencyGraduationBlocks {
		return false
	}
	if supply.Cmp(EmergencyMinSupply) < 0 {
		return false
	}
	return reserves.Cmp(EmergencyMinReserves) >= 0
}

// Progress returns how far reserves have travelled toward the liquidity
// graduation target, clamped to [0, 1].
func Progress(reserves *big.Int, params *CurveParams) float64 {
	reserveTarget := new(big.Int).Div(params.GraduationThreshold, big.NewInt(2))
	if reserveTarget.Sign() == 0 {
		return 1
	}
	ratio := decimal.NewFromBigInt(reserves, 0).Div(decimal.NewFromBigInt(reserveTarget, 0))
	if ratio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return 1
	}
	out, _ := ratio.Float64()
	return out
}
