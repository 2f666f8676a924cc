package curve

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// TokenTransfer is one token movement attached to an operation, incoming
// (payment) or outgoing (receipt).
type TokenTransfer struct {
	Mint   solana.PublicKey
	To     solana.PublicKey
	Amount *big.Int
}

// Context is the host-supplied execution environment of one operation.
type Context struct {
	Caller    solana.PublicKey
	Block     uint64
	Timestamp int64
	Payment   *TokenTransfer
}

// Receipt is the outcome of one operation: a JSON payload plus the outbound
// transfers the host must perform.
type Receipt struct {
	Data      []byte
	Transfers []TokenTransfer
}

// Operation is the closed set of commands a curve executes.
type Operation interface {
	isOperation()
}

type InitializeOp struct {
	Name       string
	Symbol     string
	Params     *CurveParams
	Strategy   LPStrategy
	Creator    solana.PublicKey
	DAOAddress solana.PublicKey
}

type BuyOp struct {
	// MinTokensOut aborts the buy when the fill lands below it. Nil disables
	// the check.
	MinTokensOut *big.Int
}

type SellOp struct {
	Quantity   *big.Int
	MinBaseOut *big.Int
}

// BuyQuoteOp prices a fixed token amount; the quote carries the cost and a
// slippage-padded ceiling on the payment.
type BuyQuoteOp struct {
	TokenAmount *big.Int
	SlippageBps uint64
}

// QuantityQuoteOp inverts a payment into the token quantity it buys.
type QuantityQuoteOp struct {
	Payment     *big.Int
	SlippageBps uint64
}

type SellQuoteOp struct {
	Quantity    *big.Int
	SlippageBps uint64
}

type GraduateOp struct{}

type CurveStateOp struct{}

func (*InitializeOp) isOperation()    {}
func (*BuyOp) isOperation()           {}
func (*SellOp) isOperation()          {}
func (*BuyQuoteOp) isOperation()      {}
func (*QuantityQuoteOp) isOperation() {}
func (*SellQuoteOp) isOperation()     {}
func (*GraduateOp) isOperation()      {}
func (*CurveStateOp) isOperation()    {}

type buyResult struct {
	Quantity string `json:"quantity"`
	Cost     string `json:"cost"`
}

type sellResult struct {
	Quantity string `json:"quantity"`
	Payout   string `json:"payout"`
}

type quoteResult struct {
	Amount     string `json:"amount"`
	MinimumOut string `json:"minimum_out,omitempty"`
	MaximumIn  string `json:"maximum_in,omitempty"`
}

type graduateResult struct {
	Pool     string `json:"pool"`
	LPTokens string `json:"lp_tokens"`
}
