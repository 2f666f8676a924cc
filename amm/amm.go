// Package amm is the boundary to the external pool program a graduated token
// migrates into. The engine only ever talks to the PoolCreator interface;
// LocalAMM is the deterministic in-process implementation used by tests and
// local tooling.
package amm

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// ProgramID identifies the constant-product pool program targeted at
// graduation.
var ProgramID = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")

var (
	ErrPoolExists   = errors.New("pool already exists")
	ErrPoolNotFound = errors.New("pool not found")
	ErrEmptySeed    = errors.New("pool seed has no liquidity")
)

// PoolSeed carries the two liquidity legs a graduation hands to the pool.
type PoolSeed struct {
	TokenMint      solana.PublicKey
	BaseMint       solana.PublicKey
	TokenLiquidity *big.Int
	BaseLiquidity  *big.Int
}

// PoolCreator creates and seeds pools on behalf of a graduating curve.
type PoolCreator interface {
	// CreatePool registers a pool for the seed's pair and returns its address.
	// The pool starts empty.
	CreatePool(ctx context.Context, seed *PoolSeed) (solana.PublicKey, error)

	// SeedLiquidity deposits both legs into the pool in one call.
	SeedLiquidity(ctx context.Context, pool solana.PublicKey, seed *PoolSeed) error

	// LPMint returns the mint of the pool's LP token.
	LPMint(pool solana.PublicKey) solana.PublicKey
}

// Pool is the recorded state of one LocalAMM pool.
type Pool struct {
	Address        solana.PublicKey
	LPMint         solana.PublicKey
	TokenMint      solana.PublicKey
	BaseMint       solana.PublicKey
	TokenLiquidity *big.Int
	BaseLiquidity  *big.Int
	Seeded         bool
}

// LocalAMM derives pool addresses PDA-style from the pair, so the same pair
// always lands on the same pool across retries.
type LocalAMM struct {
	mu    sync.Mutex
	pools map[solana.PublicKey]*Pool
}

func NewLocalAMM() *LocalAMM {
	return &LocalAMM{pools: make(map[solana.PublicKey]*Pool)}
}

// DerivePoolAddress returns the canonical pool address for a pair.
func DerivePoolAddress(tokenMint, baseMint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("pool"), tokenMint.Bytes(), baseMint.Bytes()},
		ProgramID,
	)
	return addr, err
}

// DeriveLPMint returns the LP token mint for a pool address.
func DeriveLPMint(pool solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("lp_mint"), pool.Bytes()},
		ProgramID,
	)
	return addr, err
}

func (a *LocalAMM) CreatePool(ctx context.Context, seed *PoolSeed) (solana.PublicKey, error) {
	if seed.TokenLiquidity == nil || seed.TokenLiquidity.Sign() <= 0 ||
		seed.BaseLiquidity == nil || seed.BaseLiquidity.Sign() <= 0 {
		return solana.PublicKey{}, ErrEmptySeed
	}

	addr, err := DerivePoolAddress(seed.TokenMint, seed.BaseMint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	lpMint, err := DeriveLPMint(addr)
	if err != nil {
		return solana.PublicKey{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.pools[addr]; ok {
		// An empty pool left by an interrupted migration is reused.
		if !p.Seeded {
			return addr, nil
		}
		return solana.PublicKey{}, ErrPoolExists
	}
	a.pools[addr] = &Pool{
		Address:        addr,
		LPMint:         lpMint,
		TokenMint:      seed.TokenMint,
		BaseMint:       seed.BaseMint,
		TokenLiquidity: new(big.Int),
		BaseLiquidity:  new(big.Int),
	}
	return addr, nil
}

func (a *LocalAMM) SeedLiquidity(ctx context.Context, pool solana.PublicKey, seed *PoolSeed) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pools[pool]
	if !ok {
		return ErrPoolNotFound
	}
	p.TokenLiquidity = new(big.Int).Add(p.TokenLiquidity, seed.TokenLiquidity)
	p.BaseLiquidity = new(big.Int).Add(p.BaseLiquidity, seed.BaseLiquidity)
	p.Seeded = true
	return nil
}

func (a *LocalAMM) LPMint(pool solana.PublicKey) solana.PublicKey {
	lpMint, err := DeriveLPMint(pool)
	if err != nil {
		return solana.PublicKey{}
	}
	return lpMint
}

// Pool returns a copy of the recorded pool state.
func (a *LocalAMM) Pool(addr solana.PublicKey) (*Pool, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pools[addr]
	if !ok {
		return nil, false
	}
	out := *p
	out.TokenLiquidity = new(big.Int).Set(p.TokenLiquidity)
	out.BaseLiquidity = new(big.Int).Set(p.BaseLiquidity)
	return &out, true
}
