package errors

import "errors"

var (
	ErrDropNotFound      = errors.New("drop not found")
	ErrDropExists        = errors.New("drop already registered for this drop id")
	ErrShortCodeNotFound = errors.New("short code not found")
	ErrShortCodeTaken    = errors.New("short code already in use")
	ErrInvalidDropSpec   = errors.New("invalid drop creation request")
	ErrInvalidWallet     = errors.New("invalid wallet address")
	ErrSettlementFailed  = errors.New("settlement transaction failed")

	// ErrRegistryWriteFailed means the mint settled but the registry row did
	// not persist. Never retried by re-minting; recovery goes through
	// RecoverDrop against the already-minted drop id.
	ErrRegistryWriteFailed = errors.New("drop minted but registry write failed")

	ErrShortCodeSpaceExhausted = errors.New("short code space exhausted")
)
