package curve

import "errors"

var (
	ErrAlreadyInitialized = errors.New("curve already initialized")
	ErrNotInitialized     = errors.New("curve not initialized")
	ErrInvalidParams      = errors.New("invalid curve parameters")
	ErrInvalidLPStrategy  = errors.New("invalid lp strategy")

	ErrExceedsMaxSupply     = errors.New("purchase exceeds max supply")
	ErrInsufficientSupply   = errors.New("insufficient supply")
	ErrInsufficientPayment  = errors.New("insufficient payment")
	ErrInsufficientReserves = errors.New("insufficient reserves")
	ErrArithmeticOverflow   = errors.New("arithmetic overflow")

	ErrMissingPayment   = errors.New("missing base currency payment")
	ErrInvalidSlippage  = errors.New("slippage tolerance too high")
	ErrSlippageExceeded = errors.New("slippage exceeded")

	ErrAlreadyGraduated         = errors.New("token already graduated")
	ErrGraduationCriteriaNotMet = errors.New("graduation criteria not met")
	ErrPoolCreationFailed       = errors.New("pool creation failed")
)
