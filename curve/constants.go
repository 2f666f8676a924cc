package curve

import (
	"math/big"

	safemath "github.com/oyllabs/bonding-curve-go/curve/math"
)

const (
	// BasisPointMax is the denominator for all bps quantities.
	BasisPointMax = 10_000

	// MaxSlippageBps caps the slippage tolerance a quote may request.
	MaxSlippageBps = 500

	// PriceScale is the fixed-point scale used when converting a spot price
	// into a pool token/base ratio.
	PriceScale = 1_000_000_000

	// growthChunk is the exponent step processed per full growth-factor
	// multiplication in the price approximation.
	growthChunk = 10

	sellDiscountNumerator   = 99
	sellDiscountDenominator = 100

	// EmergencyGraduationBlocks is roughly 30 days at 10-minute blocks.
	EmergencyGraduationBlocks = 4320

	DefaultBasePrice           = 4_000_000
	DefaultGrowthRateBps       = 150
	DefaultGraduationThreshold = 6_900_000_000
	DefaultMaxSupply           = 1_000_000_000
)

var (
	// PriceCeiling caps every price the curve can report. Reaching it is a
	// terminal plateau, not an error.
	PriceCeiling = new(big.Int).Div(safemath.U128Max, big.NewInt(1000))

	// EmergencyMinSupply / EmergencyMinReserves are the activity floors a
	// stalled curve must still clear before the time-based escape hatch opens.
	EmergencyMinSupply   = big.NewInt(1_000_000)
	EmergencyMinReserves = big.NewInt(100_000_000)

	basisPointMax = big.NewInt(BasisPointMax)
)
