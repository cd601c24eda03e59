package errors

import "errors"

var (
	ErrInvalidTip        = errors.New("tip payload is invalid")
	ErrInvalidWallet     = errors.New("wallet address is malformed")
	ErrInvalidDeposit    = errors.New("deposit payload is invalid")
	ErrBalanceNotTracked = errors.New("no jar balance tracked for wallet")
	ErrSettlementFailed  = errors.New("settlement layer rejected the operation")
)
