package curve

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// BaseCurrency selects the reserve asset the curve trades against.
type BaseCurrency uint8

const (
	BaseCurrencyUSDC BaseCurrency = iota
	BaseCurrencySOL
)

var usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

// Mint returns the mint address of the reserve asset.
func (b BaseCurrency) Mint() solana.PublicKey {
	switch b {
	case BaseCurrencySOL:
		return solana.WrappedSol
	default:
		return usdcMint
	}
}

func (b BaseCurrency) String() string {
	switch b {
	case BaseCurrencySOL:
		return "SOL"
	default:
		return "USDC"
	}
}

// LPStrategy selects how LP tokens minted at graduation are distributed.
type LPStrategy uint8

const (
	LPBurnAll LPStrategy = iota
	LPCommunityRewards
	LPCreatorAllocation
	LPDAOGovernance
)

func (s LPStrategy) valid() bool {
	return s <= LPDAOGovernance
}

func (s LPStrategy) String() string {
	switch s {
	case LPBurnAll:
		return "burn_all"
	case LPCommunityRewards:
		return "community_rewards"
	case LPCreatorAllocation:
		return "creator_allocation"
	case LPDAOGovernance:
		return "dao_governance"
	default:
		return "unknown"
	}
}

// CurveParams are fixed at initialization and read-only afterwards.
type CurveParams struct {
	BasePrice           *big.Int
	GrowthRateBps       *big.Int
	GraduationThreshold *big.Int
	BaseCurrency        BaseCurrency
	MaxSupply           *big.Int
}

func DefaultCurveParams() *CurveParams {
	return &CurveParams{
		BasePrice:           big.NewInt(DefaultBasePrice),
		GrowthRateBps:       big.NewInt(DefaultGrowthRateBps),
		GraduationThreshold: big.NewInt(DefaultGraduationThreshold),
		BaseCurrency:        BaseCurrencyUSDC,
		MaxSupply:           big.NewInt(DefaultMaxSupply),
	}
}

func (p *CurveParams) Validate() error {
	if p == nil {
		return ErrInvalidParams
	}
	if p.BasePrice == nil || p.BasePrice.Sign() <= 0 {
		return ErrInvalidParams
	}
	if p.GrowthRateBps == nil || p.GrowthRateBps.Sign() <= 0 {
		return ErrInvalidParams
	}
	if p.GraduationThreshold == nil || p.GraduationThreshold.Sign() <= 0 {
		return ErrInvalidParams
	}
	if p.MaxSupply == nil || p.MaxSupply.Sign() <= 0 {
		return ErrInvalidParams
	}
	return nil
}

// Clone returns an independent copy so callers cannot mutate the stored params.
func (p *CurveParams) Clone() *CurveParams {
	return &CurveParams{
		BasePrice:           new(big.Int).Set(p.BasePrice),
		GrowthRateBps:       new(big.Int).Set(p.GrowthRateBps),
		GraduationThreshold: new(big.Int).Set(p.GraduationThreshold),
		BaseCurrency:        p.BaseCurrency,
		MaxSupply:           new(big.Int).Set(p.MaxSupply),
	}
}
