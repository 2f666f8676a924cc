package bondingcurve

import (
	"github.com/oyllabs/bonding-curve-go/amm"
	"github.com/oyllabs/bonding-curve-go/curve"
	"github.com/oyllabs/bonding-curve-go/factory"
	"github.com/oyllabs/bonding-curve-go/storage"
)

// NewBondingCurve creates a curve engine for one token.
//
// Example:
//
// bc, _ := NewBondingCurve(mint, storage.NewMemoryStore(), amm.NewLocalAMM(), nil, logger)
//
// bc.Execute(ctx, execCtx, &curve.BuyOp{MinTokensOut: minOut})
var NewBondingCurve = curve.NewBondingCurve

// NewFactory creates the launchpad registry.
//
// Example:
//
// f, _ := NewFactory(storage.NewMemoryStore(), authority, logger)
//
// f.LaunchToken(creator, fee, launchParams, block)
var NewFactory = factory.New

// NewLocalAMM creates the in-process pool implementation.
var NewLocalAMM = amm.NewLocalAMM

// NewMemoryStore creates the in-process storage binding.
var NewMemoryStore = storage.NewMemoryStore
