package curve

import (
	"math/big"

	bin "github.com/gagliardetto/binary"

	"github.com/oyllabs/bonding-curve-go/storage"
	"github.com/oyllabs/bonding-curve-go/u128"
)

// Storage keys. Every persisted record of a curve instance lives under one of
// these, in the host-provided store.
const (
	keyTotalSupply       = "/totalsupply"
	keyBaseReserves      = "/base_reserves"
	keyGraduated         = "/graduated"
	keyGraduationBlock   = "/graduation_block"
	keyLaunchBlock       = "/launch_time"
	keyCurveParams       = "/curve_params"
	keyName              = "/name"
	keySymbol            = "/symbol"
	keyLPStrategy        = "/lp_strategy"
	keyCreator           = "/token/creator"
	keyDAOAddress        = "/dao_address"
	keyPoolAddress       = "/amm_pool_address"
	keyLPTokens          = "/lp_tokens"
	keyPendingGraduation = "/pending_graduation"
)

// ReserveLedger is the mutable accounting state of one curve. It is loaded at
// the start of an operation, mutated in memory, and written back only once the
// full transition has been computed and validated.
type ReserveLedger struct {
	CurrentSupply   *big.Int
	BaseReserves    *big.Int
	Graduated       bool
	GraduationBlock uint64
	LaunchBlock     uint64
}

func loadLedger(s storage.Store) (*ReserveLedger, error) {
	supply, err := storage.GetUint128(s, keyTotalSupply)
	if err != nil {
		return nil, err
	}
	reserves, err := storage.GetUint128(s, keyBaseReserves)
	if err != nil {
		return nil, err
	}
	graduated, err := storage.GetBool(s, keyGraduated)
	if err != nil {
		return nil, err
	}
	graduationBlock, err := storage.GetUint64(s, keyGraduationBlock)
	if err != nil {
		return nil, err
	}
	launchBlock, err := storage.GetUint64(s, keyLaunchBlock)
	if err != nil {
		return nil, err
	}
	return &ReserveLedger{
		CurrentSupply:   supply,
		BaseReserves:    reserves,
		Graduated:       graduated,
		GraduationBlock: graduationBlock,
		LaunchBlock:     launchBlock,
	}, nil
}

func (l *ReserveLedger) save(s storage.Store) error {
	if err := storage.SetUint128(s, keyTotalSupply, l.CurrentSupply); err != nil {
		return err
	}
	if err := storage.SetUint128(s, keyBaseReserves, l.BaseReserves); err != nil {
		return err
	}
	if err := storage.SetBool(s, keyGraduated, l.Graduated); err != nil {
		return err
	}
	if err := storage.SetUint64(s, keyGraduationBlock, l.GraduationBlock); err != nil {
		return err
	}
	return storage.SetUint64(s, keyLaunchBlock, l.LaunchBlock)
}

// curveParamsRecord is the borsh wire shape of CurveParams.
type curveParamsRecord struct {
	BasePrice           bin.Uint128
	GrowthRateBps       bin.Uint128
	GraduationThreshold bin.Uint128
	BaseCurrency        uint8
	MaxSupply           bin.Uint128
}

func saveParams(s storage.Store, p *CurveParams) error {
	rec := curveParamsRecord{
		BasePrice:           u128.MustFromBig(p.BasePrice),
		GrowthRateBps:       u128.MustFromBig(p.GrowthRateBps),
		GraduationThreshold: u128.MustFromBig(p.GraduationThreshold),
		BaseCurrency:        uint8(p.BaseCurrency),
		MaxSupply:           u128.MustFromBig(p.MaxSupply),
	}
	raw, err := bin.MarshalBorsh(&rec)
	if err != nil {
		return err
	}
	s.Set(keyCurveParams, raw)
	return nil
}

func loadParams(s storage.Store) (*CurveParams, error) {
	raw := s.Get(keyCurveParams)
	if len(raw) == 0 {
		return nil, ErrNotInitialized
	}
	var rec curveParamsRecord
	if err := bin.UnmarshalBorsh(&rec, raw); err != nil {
		return nil, err
	}
	return &CurveParams{
		BasePrice:           rec.BasePrice.BigInt(),
		GrowthRateBps:       rec.GrowthRateBps.BigInt(),
		GraduationThreshold: rec.GraduationThreshold.BigInt(),
		BaseCurrency:        BaseCurrency(rec.BaseCurrency),
		MaxSupply:           rec.MaxSupply.BigInt(),
	}, nil
}
