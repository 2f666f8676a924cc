// Package curve implements a bonding-curve token issuance engine: exponential
// pricing, a reserve ledger, graduation evaluation, and the coordinator that
// migrates a graduated curve into an external AMM pool.
package curve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oyllabs/bonding-curve-go/amm"
	safemath "github.com/oyllabs/bonding-curve-go/curve/math"
	"github.com/oyllabs/bonding-curve-go/storage"
)

// BondingCurve drives one token's issuance lifecycle. All operations run
// under a single mutex so a multi-threaded host gets the serialization the
// ledger requires.
type BondingCurve struct {
	mu      sync.Mutex
	mint    solana.PublicKey
	store   storage.Store
	pool    amm.PoolCreator
	holders HolderSource
	logger  *zap.Logger
}

func NewBondingCurve(
	mint solana.PublicKey,
	store storage.Store,
	pool amm.PoolCreator,
	holders HolderSource,
	logger *zap.Logger,
) (*BondingCurve, error) {
	if mint.IsZero() {
		return nil, errors.New("token mint required")
	}
	if store == nil {
		return nil, errors.New("storage binding required")
	}
	if pool == nil {
		return nil, errors.New("pool creator required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BondingCurve{
		mint:    mint,
		store:   store,
		pool:    pool,
		holders: holders,
		logger:  logger,
	}, nil
}

// Mint returns the curve token's mint address.
func (bc *BondingCurve) Mint() solana.PublicKey { return bc.mint }

// Execute runs one operation to completion.
func (bc *BondingCurve) Execute(ctx context.Context, ec *Context, op Operation) (*Receipt, error) {
	if ec == nil {
		return nil, errors.New("execution context required")
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	switch op := op.(type) {
	case *InitializeOp:
		return bc.initialize(ec, op)
	case *BuyOp:
		return bc.buy(ctx, ec, op)
	case *SellOp:
		return bc.sell(ec, op)
	case *BuyQuoteOp:
		return bc.buyQuote(op)
	case *QuantityQuoteOp:
		return bc.quantityQuote(op)
	case *SellQuoteOp:
		return bc.sellQuote(op)
	case *GraduateOp:
		return bc.graduateOp(ctx, ec)
	case *CurveStateOp:
		return bc.curveState()
	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}
}

func (bc *BondingCurve) initialize(ec *Context, op *InitializeOp) (*Receipt, error) {
	if len(bc.store.Get(keyCurveParams)) > 0 {
		return nil, ErrAlreadyInitialized
	}
	if err := op.Params.Validate(); err != nil {
		return nil, err
	}
	if !op.Strategy.valid() {
		return nil, ErrInvalidLPStrategy
	}
	if op.Strategy == LPDAOGovernance && op.DAOAddress.IsZero() {
		return nil, ErrInvalidLPStrategy
	}

	if err := saveParams(bc.store, op.Params); err != nil {
		return nil, err
	}
	storage.SetString(bc.store, keyName, op.Name)
	storage.SetString(bc.store, keySymbol, op.Symbol)
	if err := storage.SetUint64(bc.store, keyLPStrategy, uint64(op.Strategy)); err != nil {
		return nil, err
	}
	bc.store.Set(keyCreator, op.Creator.Bytes())
	bc.store.Set(keyDAOAddress, op.DAOAddress.Bytes())

	ledger := &ReserveLedger{
		CurrentSupply: big.NewInt(0),
		BaseReserves:  big.NewInt(0),
		LaunchBlock:   ec.Block,
	}
	if err := ledger.save(bc.store); err != nil {
		return nil, err
	}

	bc.logger.Info("curve initialized",
		zap.String("mint", bc.mint.String()),
		zap.String("name", op.Name),
		zap.String("symbol", op.Symbol),
		zap.String("lp_strategy", op.Strategy.String()),
		zap.Uint64("launch_block", ec.Block),
	)
	return &Receipt{}, nil
}

func (bc *BondingCurve) buy(ctx context.Context, ec *Context, op *BuyOp) (*Receipt, error) {
	params, err := loadParams(bc.store)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(bc.store)
	if err != nil {
		return nil, err
	}
	if ledger.Graduated {
		return nil, ErrAlreadyGraduated
	}

	payment := ec.Payment
	if payment == nil || payment.Amount == nil || payment.Amount.Sign() <= 0 {
		return nil, ErrMissingPayment
	}
	if payment.Mint != params.BaseCurrency.Mint() {
		return nil, fmt.Errorf("%w: payment must be %s", ErrMissingPayment, params.BaseCurrency)
	}

	qty, err := QuantityForPayment(ledger.CurrentSupply, payment.Amount, params)
	if err != nil {
		return nil, err
	}
	if op.MinTokensOut != nil && qty.Cmp(op.MinTokensOut) < 0 {
		return nil, fmt.Errorf("%w: got %s tokens, expected at least %s",
			ErrSlippageExceeded, qty, op.MinTokensOut)
	}

	// The full payment joins the reserves; the trapezoid cost of qty is a
	// lower bound on it by construction of the inversion.
	newSupply, err := safemath.CheckedAdd(ledger.CurrentSupply, qty)
	if err != nil {
		return nil, ErrArithmeticOverflow
	}
	newReserves, err := safemath.CheckedAdd(ledger.BaseReserves, payment.Amount)
	if err != nil {
		return nil, ErrArithmeticOverflow
	}
	ledger.CurrentSupply = newSupply
	ledger.BaseReserves = newReserves
	if err := ledger.save(bc.store); err != nil {
		return nil, err
	}

	bc.logger.Debug("buy executed",
		zap.String("mint", bc.mint.String()),
		zap.String("quantity", qty.String()),
		zap.String("payment", payment.Amount.String()),
		zap.String("supply", ledger.CurrentSupply.String()),
	)

	transfers := []TokenTransfer{{Mint: bc.mint, To: ec.Caller, Amount: qty}}

	// Best effort: a buy that crosses the threshold graduates the curve in
	// the same operation. A migration failure leaves the trade intact.
	if MeetsGraduationCriteria(ledger.CurrentSupply, ledger.BaseReserves, params) {
		_, _, lpTransfers, err := bc.runGraduation(ctx, ec, false)
		if err != nil {
			bc.logger.Warn("auto graduation failed",
				zap.String("mint", bc.mint.String()), zap.Error(err))
		} else {
			transfers = append(transfers, lpTransfers...)
		}
	}

	data, err := json.Marshal(buyResult{Quantity: qty.String(), Cost: payment.Amount.String()})
	if err != nil {
		return nil, err
	}
	return &Receipt{Data: data, Transfers: transfers}, nil
}

func (bc *BondingCurve) sell(ec *Context, op *SellOp) (*Receipt, error) {
	params, err := loadParams(bc.store)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(bc.store)
	if err != nil {
		return nil, err
	}
	if ledger.Graduated {
		return nil, ErrAlreadyGraduated
	}
	if op.Quantity == nil || op.Quantity.Sign() <= 0 {
		return nil, ErrInsufficientSupply
	}

	payout, err := SellPrice(ledger.CurrentSupply, op.Quantity, params)
	if err != nil {
		return nil, err
	}
	if op.MinBaseOut != nil && payout.Cmp(op.MinBaseOut) < 0 {
		return nil, fmt.Errorf("%w: got %s, expected at least %s",
			ErrSlippageExceeded, payout, op.MinBaseOut)
	}
	if payout.Cmp(ledger.BaseReserves) > 0 {
		return nil, fmt.Errorf("%w: need %s, available %s",
			ErrInsufficientReserves, payout, ledger.BaseReserves)
	}

	ledger.CurrentSupply = new(big.Int).Sub(ledger.CurrentSupply, op.Quantity)
	ledger.BaseReserves = new(big.Int).Sub(ledger.BaseReserves, payout)
	if err := ledger.save(bc.store); err != nil {
		return nil, err
	}

	bc.logger.Debug("sell executed",
		zap.String("mint", bc.mint.String()),
		zap.String("quantity", op.Quantity.String()),
		zap.String("payout", payout.String()),
		zap.String("supply", ledger.CurrentSupply.String()),
	)

	data, err := json.Marshal(sellResult{Quantity: op.Quantity.String(), Payout: payout.String()})
	if err != nil {
		return nil, err
	}
	return &Receipt{
		Data:      data,
		Transfers: []TokenTransfer{{Mint: params.BaseCurrency.Mint(), To: ec.Caller, Amount: payout}},
	}, nil
}

// Quotes are pure reads; they stay available on a graduated curve.

func (bc *BondingCurve) buyQuote(op *BuyQuoteOp) (*Receipt, error) {
	params, err := loadParams(bc.store)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(bc.store)
	if err != nil {
		return nil, err
	}
	if op.SlippageBps > MaxSlippageBps {
		return nil, ErrInvalidSlippage
	}
	if op.TokenAmount == nil || op.TokenAmount.Sign() <= 0 {
		return nil, ErrInvalidParams
	}

	cost, err := BuyPrice(ledger.CurrentSupply, op.TokenAmount, params)
	if err != nil {
		return nil, err
	}
	maxIn := applySlippageCeiling(cost, op.SlippageBps)
	data, err := json.Marshal(quoteResult{Amount: cost.String(), MaximumIn: maxIn.String()})
	if err != nil {
		return nil, err
	}
	return &Receipt{Data: data}, nil
}

func (bc *BondingCurve) quantityQuote(op *QuantityQuoteOp) (*Receipt, error) {
	params, err := loadParams(bc.store)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(bc.store)
	if err != nil {
		return nil, err
	}
	if op.SlippageBps > MaxSlippageBps {
		return nil, ErrInvalidSlippage
	}
	if op.Payment == nil || op.Payment.Sign() <= 0 {
		return nil, ErrInsufficientPayment
	}

	qty, err := QuantityForPayment(ledger.CurrentSupply, op.Payment, params)
	if err != nil {
		return nil, err
	}
	return quoteReceipt(qty, op.SlippageBps)
}

func (bc *BondingCurve) sellQuote(op *SellQuoteOp) (*Receipt, error) {
	params, err := loadParams(bc.store)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(bc.store)
	if err != nil {
		return nil, err
	}
	if op.SlippageBps > MaxSlippageBps {
		return nil, ErrInvalidSlippage
	}
	if op.Quantity == nil || op.Quantity.Sign() <= 0 {
		return nil, ErrInsufficientSupply
	}

	payout, err := SellPrice(ledger.CurrentSupply, op.Quantity, params)
	if err != nil {
		return nil, err
	}
	return quoteReceipt(payout, op.SlippageBps)
}

func quoteReceipt(amount *big.Int, slippageBps uint64) (*Receipt, error) {
	minOut := applySlippage(amount, slippageBps)
	data, err := json.Marshal(quoteResult{Amount: amount.String(), MinimumOut: minOut.String()})
	if err != nil {
		return nil, err
	}
	return &Receipt{Data: data}, nil
}

// applySlippage floors amount by the given tolerance: amount*(10000-bps)/10000.
func applySlippage(amount *big.Int, slippageBps uint64) *big.Int {
	out := decimal.NewFromBigInt(amount, 0).
		Mul(decimal.NewFromInt(BasisPointMax - int64(slippageBps))).
		Div(decimal.NewFromInt(BasisPointMax)).
		Floor()
	return out.BigInt()
}

// applySlippageCeiling pads amount upward: amount*(10000+bps)/10000.
func applySlippageCeiling(amount *big.Int, slippageBps uint64) *big.Int {
	out := decimal.NewFromBigInt(amount, 0).
		Mul(decimal.NewFromInt(BasisPointMax + int64(slippageBps))).
		Div(decimal.NewFromInt(BasisPointMax)).
		Ceil()
	return out.BigInt()
}

func (bc *BondingCurve) graduateOp(ctx context.Context, ec *Context) (*Receipt, error) {
	pool, lpTotal, transfers, err := bc.runGraduation(ctx, ec, true)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(graduateResult{Pool: pool.String(), LPTokens: lpTotal.String()})
	if err != nil {
		return nil, err
	}
	return &Receipt{Data: data, Transfers: transfers}, nil
}

func (bc *BondingCurve) curveState() (*Receipt, error) {
	state, err := bc.snapshot()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return &Receipt{Data: data}, nil
}
