package errors

import "errors"

var (
	ErrDropNotFound        = errors.New("drop not found")
	ErrInvalidClaimRequest = errors.New("invalid claim request")

	// ErrClaimExists is the storage-level uniqueness guard surfacing: a claim
	// row for this (drop, wallet) pair is already recorded.
	ErrClaimExists = errors.New("claim already recorded for this wallet")

	ErrSettlementFailed = errors.New("claim settlement failed")
)
