package curve

import (
	"github.com/oyllabs/bonding-curve-go/storage"
)

// CurveState is the JSON snapshot returned by the CurveState operation.
type CurveState struct {
	Name               string  `json:"name"`
	Symbol             string  `json:"symbol"`
	Mint               string  `json:"mint"`
	BaseCurrency       string  `json:"base_currency"`
	CurrentSupply      string  `json:"current_supply"`
	MaxSupply          string  `json:"max_supply"`
	BaseReserves       string  `json:"base_reserves"`
	SpotPrice          string  `json:"spot_price"`
	Graduated          bool    `json:"graduated"`
	GraduationBlock    uint64  `json:"graduation_block,omitempty"`
	GraduationProgress float64 `json:"graduation_progress"`
	PoolAddress        string  `json:"pool_address,omitempty"`
	LPTokens           string  `json:"lp_tokens,omitempty"`
	LPStrategy         string  `json:"lp_strategy"`
	Creator            string  `json:"creator"`
	LaunchBlock        uint64  `json:"launch_block"`
	PendingGraduation  bool    `json:"pending_graduation,omitempty"`
}

func (bc *BondingCurve) snapshot() (*CurveState, error) {
	params, err := loadParams(bc.store)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(bc.store)
	if err != nil {
		return nil, err
	}
	strategyRaw, err := storage.GetUint64(bc.store, keyLPStrategy)
	if err != nil {
		return nil, err
	}

	state := &CurveState{
		Name:               storage.GetString(bc.store, keyName),
		Symbol:             storage.GetString(bc.store, keySymbol),
		Mint:               bc.mint.String(),
		BaseCurrency:       params.BaseCurrency.String(),
		CurrentSupply:      ledger.CurrentSupply.String(),
		MaxSupply:          params.MaxSupply.String(),
		BaseReserves:       ledger.BaseReserves.String(),
		SpotPrice:          PriceAtSupply(ledger.CurrentSupply, params).String(),
		Graduated:          ledger.Graduated,
		GraduationBlock:    ledger.GraduationBlock,
		GraduationProgress: Progress(ledger.BaseReserves, params),
		LPStrategy:         LPStrategy(strategyRaw).String(),
		LaunchBlock:        ledger.LaunchBlock,
		PendingGraduation:  len(bc.store.Get(keyPendingGraduation)) > 0,
	}
	if ledger.Graduated {
		state.GraduationProgress = 1
	}

	if creator := storedAddress(bc.store, keyCreator); !creator.IsZero() {
		state.Creator = creator.String()
	}
	if pool := storedAddress(bc.store, keyPoolAddress); !pool.IsZero() {
		state.PoolAddress = pool.String()
		lpTokens, err := storage.GetUint128(bc.store, keyLPTokens)
		if err != nil {
			return nil, err
		}
		state.LPTokens = lpTokens.String()
	}
	return state, nil
}

// State returns the current snapshot without going through Execute.
func (bc *BondingCurve) State() (*CurveState, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.snapshot()
}
