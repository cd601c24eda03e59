package services

import (
	"testing"
	"time"

	"tipdrop/contexts/distribution/claim-service/domain/entities"
)

func TestEvaluateWhitelistCheckedFirst(t *testing.T) {
	drop := entities.DropView{
		DropID:    "0xd1",
		Capacity:  1,
		Whitelist: []string{"0xaaaa000000000000000000000000000000000001"},
	}
	existing := entities.NewClaim("0xd1", "0xbbbb000000000000000000000000000000000001", "0xtx", time.Now())

	// A non-member with a (hypothetical) prior claim and an exhausted drop
	// is still reported as not_whitelisted.
	result := Evaluate(drop, &existing, 1, "0xbbbb000000000000000000000000000000000001")
	if result.State != StateNotWhitelisted {
		t.Fatalf("expected not_whitelisted, got %s", result.State)
	}
}

func TestEvaluatePriorClaimBeforeCapacity(t *testing.T) {
	drop := entities.DropView{DropID: "0xd1", Capacity: 1}
	existing := entities.NewClaim("0xd1", "0xbbbb000000000000000000000000000000000001", "0xtx", time.Now())

	result := Evaluate(drop, &existing, 1, "0xbbbb000000000000000000000000000000000001")
	if result.State != StateAlreadyClaimed {
		t.Fatalf("expected already_claimed, got %s", result.State)
	}
	if result.Existing == nil || result.Existing.TxHash != "0xtx" {
		t.Fatalf("expected the prior claim to be surfaced")
	}
}

func TestEvaluateCapacity(t *testing.T) {
	drop := entities.DropView{DropID: "0xd1", Capacity: 2}

	if got := Evaluate(drop, nil, 1, "0xcccc000000000000000000000000000000000001").State; got != StateEligible {
		t.Fatalf("expected eligible below capacity, got %s", got)
	}
	if got := Evaluate(drop, nil, 2, "0xcccc000000000000000000000000000000000001").State; got != StateCapacityExceeded {
		t.Fatalf("expected capacity_exceeded at capacity, got %s", got)
	}
}

func TestEvaluateWhitelistIsCaseInsensitive(t *testing.T) {
	drop := entities.DropView{
		DropID:    "0xd1",
		Capacity:  5,
		Whitelist: []string{"0xAAAA000000000000000000000000000000000001"},
	}
	if got := Evaluate(drop, nil, 0, "0xaaaa000000000000000000000000000000000001").State; got != StateEligible {
		t.Fatalf("expected case-insensitive whitelist match, got %s", got)
	}
}

func TestStateTerminal(t *testing.T) {
	terminal := []State{StateDropNotFound, StateNotWhitelisted, StateAlreadyClaimed, StateCapacityExceeded, StateClaimed}
	for _, state := range terminal {
		if !state.Terminal() {
			t.Fatalf("%s should be terminal", state)
		}
	}
	for _, state := range []State{StateUnchecked, StateEligible, StateClaiming, StateSettlementFailed} {
		if state.Terminal() {
			t.Fatalf("%s should not be terminal", state)
		}
	}
}
