package services

import (
	"tipdrop/contexts/distribution/claim-service/domain/entities"
)

// State is the eligibility/claim state machine:
//
//	unchecked -> {drop_not_found, not_whitelisted, already_claimed,
//	              capacity_exceeded, eligible} -> claiming ->
//	              {claimed, settlement_failed}
//
// Terminal ineligibility is reported as a state, not an error, so callers
// can render it directly.
type State string

const (
	StateUnchecked        State = "unchecked"
	StateDropNotFound     State = "drop_not_found"
	StateNotWhitelisted   State = "not_whitelisted"
	StateAlreadyClaimed   State = "already_claimed"
	StateCapacityExceeded State = "capacity_exceeded"
	StateEligible         State = "eligible"
	StateClaiming         State = "claiming"
	StateClaimed          State = "claimed"
	StateSettlementFailed State = "settlement_failed"
)

// Terminal reports whether no claim attempt can follow from this state.
func (s State) Terminal() bool {
	switch s {
	case StateDropNotFound, StateNotWhitelisted, StateAlreadyClaimed, StateCapacityExceeded, StateClaimed:
		return true
	}
	return false
}

// Eligibility is the outcome of the optimistic pre-check.
type Eligibility struct {
	State      State
	Capacity   int
	ClaimCount int
	// Existing is set for already_claimed so the prior settlement reference
	// can be surfaced.
	Existing *entities.Claim
}

// Evaluate runs the pre-check in a fixed order: whitelist membership, prior
// claim, capacity. It is optimistic by design: passing it does not reserve a
// slot, and the settlement layer remains the capacity authority.
func Evaluate(drop entities.DropView, existing *entities.Claim, claimCount int, wallet string) Eligibility {
	result := Eligibility{
		Capacity:   drop.Capacity,
		ClaimCount: claimCount,
	}

	if drop.HasWhitelist() && !drop.IsWhitelisted(wallet) {
		result.State = StateNotWhitelisted
		return result
	}
	if existing != nil {
		claim := *existing
		result.State = StateAlreadyClaimed
		result.Existing = &claim
		return result
	}
	if claimCount >= drop.Capacity {
		result.State = StateCapacityExceeded
		return result
	}
	result.State = StateEligible
	return result
}
