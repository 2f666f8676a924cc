// Package factory is the launchpad registry: it validates launch parameters,
// collects the deployment fee, derives token mints, and indexes every curve
// it has launched.
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/oyllabs/bonding-curve-go/curve"
	"github.com/oyllabs/bonding-curve-go/storage"
)

// Launch parameter bounds. Requests outside them are rejected outright;
// zero-valued fields fall back to the curve defaults.
const (
	MinBasePrice = 1_000
	MaxBasePrice = 1_000_000_000

	MinGrowthRateBps = 10
	MaxGrowthRateBps = 1_000

	MinMaxSupply = 1_000_000
	MaxMaxSupply = 100_000_000_000

	// DeploymentFee is charged per launch, in base currency units.
	DeploymentFee = 100_000_000

	maxNameLen   = 32
	maxSymbolLen = 10

	defaultListLimit = 50
)

const (
	keyTokenCount = "/factory/count"
	keyFees       = "/factory/fees"
	prefixToken   = "/factory/token/"
	prefixMint    = "/factory/mint/"
	prefixCreator = "/factory/creator/"
)

var (
	ErrInvalidLaunchParams = errors.New("invalid launch parameters")
	ErrInsufficientFee     = errors.New("insufficient deployment fee")
	ErrTokenNotFound       = errors.New("token not found")
)

// LaunchParams is one launch request. Nil numeric fields take the defaults.
type LaunchParams struct {
	Name                string
	Symbol              string
	BasePrice           *big.Int
	GrowthRateBps       *big.Int
	GraduationThreshold *big.Int
	MaxSupply           *big.Int
	BaseCurrency        curve.BaseCurrency
	Strategy            curve.LPStrategy
	DAOAddress          solana.PublicKey
}

// TokenRecord is the registry entry of one launched token.
type TokenRecord struct {
	Index       uint64 `json:"index"`
	Mint        string `json:"mint"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Creator     string `json:"creator"`
	LaunchBlock uint64 `json:"launch_block"`
	Graduated   bool   `json:"graduated"`
}

type Factory struct {
	mu        sync.Mutex
	store     storage.Store
	authority solana.PublicKey
	logger    *zap.Logger
}

func New(store storage.Store, authority solana.PublicKey, logger *zap.Logger) (*Factory, error) {
	if store == nil {
		return nil, errors.New("storage binding required")
	}
	if authority.IsZero() {
		return nil, errors.New("factory authority required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{store: store, authority: authority, logger: logger}, nil
}

func (p *LaunchParams) curveParams() (*curve.CurveParams, error) {
	out := curve.DefaultCurveParams()
	out.BaseCurrency = p.BaseCurrency
	if p.BasePrice != nil {
		out.BasePrice = new(big.Int).Set(p.BasePrice)
	}
	if p.GrowthRateBps != nil {
		out.GrowthRateBps = new(big.Int).Set(p.GrowthRateBps)
	}
	if p.GraduationThreshold != nil {
		out.GraduationThreshold = new(big.Int).Set(p.GraduationThreshold)
	}
	if p.MaxSupply != nil {
		out.MaxSupply = new(big.Int).Set(p.MaxSupply)
	}

	if out.BasePrice.Cmp(big.NewInt(MinBasePrice)) < 0 || out.BasePrice.Cmp(big.NewInt(MaxBasePrice)) > 0 {
		return nil, fmt.Errorf("%w: base price %s out of range", ErrInvalidLaunchParams, out.BasePrice)
	}
	if out.GrowthRateBps.Cmp(big.NewInt(MinGrowthRateBps)) < 0 || out.GrowthRateBps.Cmp(big.NewInt(MaxGrowthRateBps)) > 0 {
		return nil, fmt.Errorf("%w: growth rate %s out of range", ErrInvalidLaunchParams, out.GrowthRateBps)
	}
	if out.MaxSupply.Cmp(big.NewInt(MinMaxSupply)) < 0 || out.MaxSupply.Cmp(big.NewInt(MaxMaxSupply)) > 0 {
		return nil, fmt.Errorf("%w: max supply %s out of range", ErrInvalidLaunchParams, out.MaxSupply)
	}
	if out.GraduationThreshold.Sign() <= 0 {
		return nil, fmt.Errorf("%w: graduation threshold must be positive", ErrInvalidLaunchParams)
	}
	return out, nil
}

func (p *LaunchParams) validateMetadata() error {
	if p.Name == "" || len(p.Name) > maxNameLen {
		return fmt.Errorf("%w: name length must be 1..%d", ErrInvalidLaunchParams, maxNameLen)
	}
	if p.Symbol == "" || len(p.Symbol) > maxSymbolLen {
		return fmt.Errorf("%w: symbol length must be 1..%d", ErrInvalidLaunchParams, maxSymbolLen)
	}
	return nil
}

// DeriveMint returns the token mint the factory assigns to launch index.
// Mints are derived from the factory authority, so launch index and authority
// fully determine the address.
func (f *Factory) DeriveMint(index uint64) (solana.PublicKey, error) {
	return solana.CreateWithSeed(f.authority, fmt.Sprintf("token:%d", index), solana.TokenProgramID)
}

// LaunchToken validates the request, charges the fee, and registers the new
// token. It returns the registry record and the validated curve parameters;
// the caller initializes the curve instance with them.
func (f *Factory) LaunchToken(
	creator solana.PublicKey,
	feePayment *big.Int,
	params *LaunchParams,
	block uint64,
) (*TokenRecord, *curve.CurveParams, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := params.validateMetadata(); err != nil {
		return nil, nil, err
	}
	cp, err := params.curveParams()
	if err != nil {
		return nil, nil, err
	}
	if feePayment == nil || feePayment.Cmp(big.NewInt(DeploymentFee)) < 0 {
		return nil, nil, ErrInsufficientFee
	}

	index, err := storage.GetUint64(f.store, keyTokenCount)
	if err != nil {
		return nil, nil, err
	}
	mint, err := f.DeriveMint(index)
	if err != nil {
		return nil, nil, err
	}

	rec := &TokenRecord{
		Index:       index,
		Mint:        mint.String(),
		Name:        params.Name,
		Symbol:      params.Symbol,
		Creator:     creator.String(),
		LaunchBlock: block,
	}
	if err := f.putRecord(rec); err != nil {
		return nil, nil, err
	}
	storage.SetString(f.store, prefixMint+rec.Mint, fmt.Sprintf("%d", index))

	creatorKey := prefixCreator + creator.String()
	var indices []uint64
	if raw := f.store.Get(creatorKey); len(raw) > 0 {
		if err := json.Unmarshal(raw, &indices); err != nil {
			return nil, nil, err
		}
	}
	indices = append(indices, index)
	rawIdx, err := json.Marshal(indices)
	if err != nil {
		return nil, nil, err
	}
	f.store.Set(creatorKey, rawIdx)

	if err := storage.SetUint64(f.store, keyTokenCount, index+1); err != nil {
		return nil, nil, err
	}
	fees, err := storage.GetUint128(f.store, keyFees)
	if err != nil {
		return nil, nil, err
	}
	if err := storage.SetUint128(f.store, keyFees, fees.Add(fees, feePayment)); err != nil {
		return nil, nil, err
	}

	f.logger.Info("token launched",
		zap.Uint64("index", index),
		zap.String("mint", rec.Mint),
		zap.String("symbol", rec.Symbol),
		zap.String("creator", rec.Creator),
	)
	return rec, cp, nil
}

func (f *Factory) putRecord(rec *TokenRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	f.store.Set(fmt.Sprintf("%s%d", prefixToken, rec.Index), raw)
	return nil
}

func (f *Factory) recordAt(index uint64) (*TokenRecord, error) {
	raw := f.store.Get(fmt.Sprintf("%s%d", prefixToken, index))
	if len(raw) == 0 {
		return nil, ErrTokenNotFound
	}
	var rec TokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// TokenCount returns how many tokens have been launched.
func (f *Factory) TokenCount() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return storage.GetUint64(f.store, keyTokenCount)
}

// GetToken looks a token up by mint.
func (f *Factory) GetToken(mint solana.PublicKey) (*TokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byMint(mint)
}

func (f *Factory) byMint(mint solana.PublicKey) (*TokenRecord, error) {
	raw := storage.GetString(f.store, prefixMint+mint.String())
	if raw == "" {
		return nil, ErrTokenNotFound
	}
	var index uint64
	if _, err := fmt.Sscan(raw, &index); err != nil {
		return nil, err
	}
	return f.recordAt(index)
}

// GetTokenList pages through the registry in launch order. A zero limit takes
// the default page size.
func (f *Factory) GetTokenList(offset, limit uint64) ([]*TokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit == 0 {
		limit = defaultListLimit
	}
	count, err := storage.GetUint64(f.store, keyTokenCount)
	if err != nil {
		return nil, err
	}
	if offset >= count {
		return nil, nil
	}
	end := offset + limit
	if end > count {
		end = count
	}

	out := make([]*TokenRecord, 0, end-offset)
	for i := offset; i < end; i++ {
		rec, err := f.recordAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// TokensByCreator returns every token a creator has launched.
func (f *Factory) TokensByCreator(creator solana.PublicKey) ([]*TokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw := f.store.Get(prefixCreator + creator.String())
	if len(raw) == 0 {
		return nil, nil
	}
	var indices []uint64
	if err := json.Unmarshal(raw, &indices); err != nil {
		return nil, err
	}
	out := make([]*TokenRecord, 0, len(indices))
	for _, i := range indices {
		rec, err := f.recordAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// MarkGraduated flips the registry's graduated flag for a token.
func (f *Factory) MarkGraduated(mint solana.PublicKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.byMint(mint)
	if err != nil {
		return err
	}
	if rec.Graduated {
		return nil
	}
	rec.Graduated = true
	return f.putRecord(rec)
}

// CollectedFees returns the deployment fees accrued so far.
func (f *Factory) CollectedFees() (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return storage.GetUint128(f.store, keyFees)
}
