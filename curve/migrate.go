package curve

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/oyllabs/bonding-curve-go/amm"
	safemath "github.com/oyllabs/bonding-curve-go/curve/math"
	"github.com/oyllabs/bonding-curve-go/storage"
)

// poolSeed computes the liquidity handed to the pool at graduation. All
// reserves go in; the token leg matches the curve's spot price so the pool
// opens where the curve closed, capped at half of max supply.
func poolSeed(ledger *ReserveLedger, params *CurveParams, tokenMint solana.PublicKey) *amm.PoolSeed {
	price := PriceAtSupply(ledger.CurrentSupply, params)

	tokenLiquidity := new(big.Int).Mul(ledger.BaseReserves, big.NewInt(PriceScale))
	tokenLiquidity.Div(tokenLiquidity, price)

	supplyCap := new(big.Int).Div(params.MaxSupply, big.NewInt(2))
	if tokenLiquidity.Cmp(supplyCap) > 0 {
		tokenLiquidity = supplyCap
	}

	return &amm.PoolSeed{
		TokenMint:      tokenMint,
		BaseMint:       params.BaseCurrency.Mint(),
		TokenLiquidity: tokenLiquidity,
		BaseLiquidity:  new(big.Int).Set(ledger.BaseReserves),
	}
}

// runGraduation is the migration coordinator: eligibility check, pool
// creation, liquidity seeding, LP distribution, single durable persist. The
// pending marker written before the external calls makes a retried run reuse
// an already-created pool instead of creating a second one.
func (bc *BondingCurve) runGraduation(
	ctx context.Context,
	ec *Context,
	allowEmergency bool,
) (solana.PublicKey, *big.Int, []TokenTransfer, error) {
	params, err := loadParams(bc.store)
	if err != nil {
		return solana.PublicKey{}, nil, nil, err
	}
	ledger, err := loadLedger(bc.store)
	if err != nil {
		return solana.PublicKey{}, nil, nil, err
	}
	if ledger.Graduated {
		return solana.PublicKey{}, nil, nil, ErrAlreadyGraduated
	}

	eligible := MeetsGraduationCriteria(ledger.CurrentSupply, ledger.BaseReserves, params)
	if !eligible && allowEmergency {
		eligible = EmergencyGraduationEligible(ec.Block, ledger.LaunchBlock, ledger.CurrentSupply, ledger.BaseReserves)
	}
	if !eligible {
		return solana.PublicKey{}, nil, nil, ErrGraduationCriteriaNotMet
	}
	if ledger.CurrentSupply.Sign() == 0 || ledger.BaseReserves.Sign() == 0 {
		return solana.PublicKey{}, nil, nil, ErrGraduationCriteriaNotMet
	}

	seed := poolSeed(ledger, params, bc.mint)
	bc.logger.Info("graduation started",
		zap.String("mint", bc.mint.String()),
		zap.String("base_liquidity", seed.BaseLiquidity.String()),
		zap.String("token_liquidity", seed.TokenLiquidity.String()),
		zap.Uint64("block", ec.Block),
	)

	// The marker survives a crash between pool creation and the final
	// persist, so a retry picks up the same pool. It records the completed
	// stage: pool address once created, plus a trailing seeded byte once the
	// liquidity legs have moved.
	var pool solana.PublicKey
	seeded := false
	switch raw := bc.store.Get(keyPendingGraduation); len(raw) {
	case solana.PublicKeyLength:
		pool = solana.PublicKeyFromBytes(raw)
	case solana.PublicKeyLength + 1:
		pool = solana.PublicKeyFromBytes(raw[:solana.PublicKeyLength])
		seeded = raw[solana.PublicKeyLength] == 1
	}
	if pool.IsZero() {
		bc.store.Set(keyPendingGraduation, []byte{1})

		created, err := bc.pool.CreatePool(ctx, seed)
		if err != nil {
			return solana.PublicKey{}, nil, nil, fmt.Errorf("%w: %v", ErrPoolCreationFailed, err)
		}
		if created.IsZero() {
			return solana.PublicKey{}, nil, nil, ErrPoolCreationFailed
		}
		pool = created
		bc.store.Set(keyPendingGraduation, pool.Bytes())
		bc.logger.Info("pool created",
			zap.String("mint", bc.mint.String()),
			zap.String("pool", pool.String()),
		)
	} else {
		bc.logger.Info("reusing pool from interrupted graduation",
			zap.String("mint", bc.mint.String()),
			zap.String("pool", pool.String()),
			zap.Bool("seeded", seeded),
		)
	}

	if !seeded {
		if err := bc.pool.SeedLiquidity(ctx, pool, seed); err != nil {
			return solana.PublicKey{}, nil, nil, err
		}
		bc.store.Set(keyPendingGraduation, append(pool.Bytes(), 1))
		bc.logger.Info("liquidity seeded", zap.String("pool", pool.String()))
	}

	lpTotal := safemath.Isqrt(new(big.Int).Mul(seed.TokenLiquidity, seed.BaseLiquidity))
	lpMint := bc.pool.LPMint(pool)

	strategyRaw, err := storage.GetUint64(bc.store, keyLPStrategy)
	if err != nil {
		return solana.PublicKey{}, nil, nil, err
	}
	alloc := bc.allocateLP(ctx, lpMint, lpTotal, LPStrategy(strategyRaw),
		storedAddress(bc.store, keyCreator), storedAddress(bc.store, keyDAOAddress))

	transfers := make([]TokenTransfer, 0, len(alloc.Transfers)+1)
	if alloc.Burned.Sign() > 0 {
		transfers = append(transfers, TokenTransfer{Mint: lpMint, To: BurnAddress, Amount: alloc.Burned})
	}
	transfers = append(transfers, alloc.Transfers...)

	ledger.Graduated = true
	ledger.GraduationBlock = ec.Block
	ledger.BaseReserves = big.NewInt(0)
	if err := ledger.save(bc.store); err != nil {
		return solana.PublicKey{}, nil, nil, err
	}
	bc.store.Set(keyPoolAddress, pool.Bytes())
	if err := storage.SetUint128(bc.store, keyLPTokens, lpTotal); err != nil {
		return solana.PublicKey{}, nil, nil, err
	}
	bc.store.Delete(keyPendingGraduation)

	bc.logger.Info("graduation complete",
		zap.String("mint", bc.mint.String()),
		zap.String("pool", pool.String()),
		zap.String("lp_tokens", lpTotal.String()),
		zap.String("lp_burned", alloc.Burned.String()),
	)
	return pool, lpTotal, transfers, nil
}

func storedAddress(s storage.Store, key string) solana.PublicKey {
	raw := s.Get(key)
	if len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}
	}
	return solana.PublicKeyFromBytes(raw)
}
