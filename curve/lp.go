package curve

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// BurnAddress receives every LP share that is burned or undeliverable.
var BurnAddress = solana.MustPublicKeyFromBase58("1nc1nerator11111111111111111111111111111111")

// topHolderLimit bounds the snapshot used for community LP rewards.
const topHolderLimit = 100

// Holder is one entry of a token holder snapshot.
type Holder struct {
	Address solana.PublicKey
	Balance *big.Int
}

// HolderSource supplies holder snapshots for community LP distribution. It is
// a host concern; a nil source behaves as an empty set.
type HolderSource interface {
	TopHolders(ctx context.Context, limit int) ([]Holder, error)
}

// LPAllocation is the outcome of applying an LP strategy to the minted total.
// Burned plus the sum of Transfers always equals the LP total.
type LPAllocation struct {
	Burned    *big.Int
	Transfers []TokenTransfer
}

func strategyDistributionBps(strategy LPStrategy) int64 {
	switch strategy {
	case LPCommunityRewards, LPDAOGovernance:
		return 2000
	case LPCreatorAllocation:
		return 1000
	default:
		return 0
	}
}

// allocateLP splits lpTotal between the burn address and the strategy's
// recipients. Rounding dust and anything that cannot be delivered is burned,
// never left unaccounted. Allocation never fails: an unavailable holder
// snapshot degrades to burning the whole distribution share.
func (bc *BondingCurve) allocateLP(
	ctx context.Context,
	lpMint solana.PublicKey,
	lpTotal *big.Int,
	strategy LPStrategy,
	creator solana.PublicKey,
	dao solana.PublicKey,
) *LPAllocation {
	alloc := &LPAllocation{Burned: new(big.Int).Set(lpTotal)}

	pool := new(big.Int).Mul(lpTotal, big.NewInt(strategyDistributionBps(strategy)))
	pool.Div(pool, basisPointMax)
	if pool.Sign() == 0 {
		return alloc
	}

	var transfers []TokenTransfer
	switch strategy {
	case LPCommunityRewards:
		var err error
		transfers, err = bc.communityRewards(ctx, lpMint, pool)
		if err != nil {
			bc.logger.Warn("holder snapshot unavailable, burning community share",
				zap.Error(err))
			transfers = nil
		}
	case LPCreatorAllocation:
		if !creator.IsZero() {
			transfers = []TokenTransfer{{Mint: lpMint, To: creator, Amount: pool}}
		}
	case LPDAOGovernance:
		if !dao.IsZero() {
			transfers = []TokenTransfer{{Mint: lpMint, To: dao, Amount: pool}}
		}
	}

	for _, t := range transfers {
		alloc.Burned.Sub(alloc.Burned, t.Amount)
	}
	alloc.Transfers = transfers
	return alloc
}

// communityRewards splits pool pro rata across the top holder snapshot.
func (bc *BondingCurve) communityRewards(ctx context.Context, lpMint solana.PublicKey, pool *big.Int) ([]TokenTransfer, error) {
	if bc.holders == nil {
		return nil, nil
	}
	holders, err := bc.holders.TopHolders(ctx, topHolderLimit)
	if err != nil {
		return nil, err
	}

	totalBalance := new(big.Int)
	for _, h := range holders {
		if h.Balance != nil && h.Balance.Sign() > 0 {
			totalBalance.Add(totalBalance, h.Balance)
		}
	}
	if totalBalance.Sign() == 0 {
		return nil, nil
	}

	var transfers []TokenTransfer
	for _, h := range holders {
		if h.Balance == nil || h.Balance.Sign() <= 0 {
			continue
		}
		share := new(big.Int).Mul(pool, h.Balance)
		share.Div(share, totalBalance)
		if share.Sign() == 0 {
			continue
		}
		transfers = append(transfers, TokenTransfer{Mint: lpMint, To: h.Address, Amount: share})
	}
	return transfers, nil
}
