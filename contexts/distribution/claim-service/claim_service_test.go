package claimservice_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	claimservice "tipdrop/contexts/distribution/claim-service"
	"tipdrop/contexts/distribution/claim-service/adapters/memory"
	"tipdrop/contexts/distribution/claim-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/claim-service/domain/errors"
	"tipdrop/contexts/distribution/claim-service/domain/services"
	httptransport "tipdrop/contexts/distribution/claim-service/transport/http"
	"tipdrop/internal/shared/events"
)

const testDropID = "0x00000000000000000000000000000000000000000000000000000000000000d1"

// capturePublisher records published envelopes for outbox relay assertions.
type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []events.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Envelope(nil), p.events...)
}

func (p *capturePublisher) publishedTopics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

func newModule(t *testing.T, drop entities.DropView) (claimservice.Module, *capturePublisher) {
	t.Helper()
	publisher := &capturePublisher{}
	module := claimservice.NewInMemoryModule(publisher, nil)
	module.Store.PutDrop(drop)
	return module, publisher
}

func wallet(i int) string {
	return fmt.Sprintf("0x%040x", i+1)
}

func TestAttemptClaimRecordsSettledClaim(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 3})

	resp, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(0),
	})
	if err != nil {
		t.Fatalf("attempt claim failed: %v", err)
	}
	if resp.Status != string(services.StateClaimed) {
		t.Fatalf("expected claimed, got %s", resp.Status)
	}
	if resp.Claim == nil || resp.Claim.TxHash == "" {
		t.Fatalf("expected claim with settlement reference, got %+v", resp.Claim)
	}
	if resp.ClaimCount != 1 {
		t.Fatalf("expected claim count 1, got %d", resp.ClaimCount)
	}
	if module.Settlement.Calls() != 1 {
		t.Fatalf("expected one settlement call, got %d", module.Settlement.Calls())
	}
	if module.Store.PendingOutboxCount() != 1 {
		t.Fatalf("settled claim must enqueue one outbox row, got %d", module.Store.PendingOutboxCount())
	}
}

func TestAttemptClaimWhitelistRejectedBeforeSettlement(t *testing.T) {
	module, _ := newModule(t, entities.DropView{
		DropID:    testDropID,
		Capacity:  1,
		Whitelist: []string{wallet(0)},
	})

	resp, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(1),
	})
	if err != nil {
		t.Fatalf("pre-check rejection is a status, not an error: %v", err)
	}
	if resp.Status != string(services.StateNotWhitelisted) {
		t.Fatalf("expected not_whitelisted, got %s", resp.Status)
	}
	if module.Settlement.Calls() != 0 {
		t.Fatalf("rejected wallet must never reach settlement, got %d calls", module.Settlement.Calls())
	}
}

func TestAttemptClaimCapacityExceeded(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 1})

	first, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(0),
	})
	if err != nil || first.Status != string(services.StateClaimed) {
		t.Fatalf("first claim should settle, got status %s err %v", first.Status, err)
	}

	second, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(1),
	})
	if err != nil {
		t.Fatalf("capacity exhaustion is a status, not an error: %v", err)
	}
	if second.Status != string(services.StateCapacityExceeded) {
		t.Fatalf("expected capacity_exceeded, got %s", second.Status)
	}
	if module.Settlement.Calls() != 1 {
		t.Fatalf("exhausted drop must not settle again, got %d calls", module.Settlement.Calls())
	}
}

func TestAttemptClaimAlreadyClaimedReturnsPriorSettlement(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 5})

	first, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(0),
	})
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	second, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(0),
	})
	if err != nil {
		t.Fatalf("repeat claim failed: %v", err)
	}
	if second.Status != string(services.StateAlreadyClaimed) {
		t.Fatalf("expected already_claimed, got %s", second.Status)
	}
	if second.Claim == nil || second.Claim.TxHash != first.Claim.TxHash {
		t.Fatalf("repeat claim must surface the prior settlement reference")
	}
	if module.Settlement.Calls() != 1 {
		t.Fatalf("repeat claim must not settle again, got %d calls", module.Settlement.Calls())
	}
}

func TestAttemptClaimSettlementFailureLeavesLedgerClean(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 1})
	module.Settlement.FailNext(errors.New("execution reverted"))

	resp, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(0),
	})
	if err != nil {
		t.Fatalf("settlement failure is a status, not an error: %v", err)
	}
	if resp.Status != string(services.StateSettlementFailed) {
		t.Fatalf("expected settlement_failed, got %s", resp.Status)
	}
	if resp.Reason == "" {
		t.Fatalf("expected a failure reason")
	}
	if module.Store.PendingOutboxCount() != 0 {
		t.Fatalf("failed settlement must not enqueue events")
	}

	// The slot was never consumed, so the same wallet can retry.
	retry, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
		WalletAddress: wallet(0),
	})
	if err != nil {
		t.Fatalf("retry after settlement failure failed: %v", err)
	}
	if retry.Status != string(services.StateClaimed) {
		t.Fatalf("expected retry to claim, got %s", retry.Status)
	}
}

func TestAttemptClaimConcurrentSameWallet(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 10})

	const attempts = 8
	results := make([]string, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			resp, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
				WalletAddress: wallet(0),
			})
			if err != nil {
				t.Errorf("attempt %d failed: %v", slot, err)
				return
			}
			results[slot] = resp.Status
		}(i)
	}
	wg.Wait()

	claimed := 0
	for _, status := range results {
		switch status {
		case string(services.StateClaimed):
			claimed++
		case string(services.StateAlreadyClaimed):
		default:
			t.Fatalf("unexpected status %q", status)
		}
	}
	if claimed != 1 {
		t.Fatalf("exactly one attempt may win, got %d", claimed)
	}

	listed, err := module.Handler.ListClaimsHandler(context.Background(), testDropID)
	if err != nil {
		t.Fatalf("list claims failed: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("the ledger must hold exactly one row, got %d", len(listed.Items))
	}
}

// slottedSettlement settles at most the configured number of claims and
// reverts the rest, the way the contract enforces capacity on chain.
type slottedSettlement struct {
	mu       sync.Mutex
	slots    int
	sequence uint64
}

func (s *slottedSettlement) Claim(_ context.Context, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == 0 {
		return "", errors.New("execution reverted: drop exhausted")
	}
	s.slots--
	s.sequence++
	return fmt.Sprintf("0x%064x", s.sequence), nil
}

func TestAttemptClaimConcurrentDifferentWalletsLastSlot(t *testing.T) {
	store := memory.NewStore()
	store.PutDrop(entities.DropView{DropID: testDropID, Capacity: 1})
	module := claimservice.NewModule(claimservice.Dependencies{
		Claims:     store,
		Drops:      store,
		Settlement: &slottedSettlement{slots: 1},
		Outbox:     store,
		Publisher:  &capturePublisher{},
		Clock:      store,
		IDs:        store,
	})

	const attempts = 2
	results := make([]string, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			resp, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
				WalletAddress: wallet(slot),
			})
			if err != nil {
				t.Errorf("attempt %d failed: %v", slot, err)
				return
			}
			results[slot] = resp.Status
		}(i)
	}
	wg.Wait()

	claimed := 0
	for _, status := range results {
		switch status {
		case string(services.StateClaimed):
			claimed++
		case string(services.StateCapacityExceeded), string(services.StateSettlementFailed):
			// The loser is turned away either by the local pre-check or
			// by the contract reverting the second payout.
		default:
			t.Fatalf("unexpected status %q", status)
		}
	}
	if claimed != 1 {
		t.Fatalf("one slot admits one wallet, got %d claimed", claimed)
	}

	listed, err := module.Handler.ListClaimsHandler(context.Background(), testDropID)
	if err != nil {
		t.Fatalf("list claims failed: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("the ledger must hold exactly one row, got %d", len(listed.Items))
	}
}

func TestCheckEligibilityDropNotFound(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 1})

	resp, err := module.Handler.CheckEligibilityHandler(context.Background(), "0xunknown", wallet(0))
	if err != nil {
		t.Fatalf("missing drop is a status, not an error: %v", err)
	}
	if resp.Status != string(services.StateDropNotFound) {
		t.Fatalf("expected drop_not_found, got %s", resp.Status)
	}
}

func TestCheckEligibilityRequiresWallet(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 1})

	_, err := module.Handler.CheckEligibilityHandler(context.Background(), testDropID, "  ")
	if !errors.Is(err, domainerrors.ErrInvalidClaimRequest) {
		t.Fatalf("expected invalid claim request, got %v", err)
	}
}

func TestListClaimsByWallet(t *testing.T) {
	module, _ := newModule(t, entities.DropView{DropID: testDropID, Capacity: 5})
	otherDrop := "0x00000000000000000000000000000000000000000000000000000000000000d2"
	module.Store.PutDrop(entities.DropView{DropID: otherDrop, Capacity: 5})

	for _, dropID := range []string{testDropID, otherDrop} {
		_, err := module.Handler.AttemptClaimHandler(context.Background(), dropID, httptransport.AttemptClaimRequest{
			WalletAddress: wallet(0),
		})
		if err != nil {
			t.Fatalf("claim against %s failed: %v", dropID, err)
		}
	}

	listed, err := module.Handler.ListWalletClaimsHandler(context.Background(), wallet(0))
	if err != nil {
		t.Fatalf("list wallet claims failed: %v", err)
	}
	if len(listed.Items) != 2 {
		t.Fatalf("expected 2 claims for wallet, got %d", len(listed.Items))
	}
}

func TestOutboxRelayPublishesSettledClaims(t *testing.T) {
	module, publisher := newModule(t, entities.DropView{DropID: testDropID, Capacity: 5})

	for i := 0; i < 3; i++ {
		_, err := module.Handler.AttemptClaimHandler(context.Background(), testDropID, httptransport.AttemptClaimRequest{
			WalletAddress: wallet(i),
		})
		if err != nil {
			t.Fatalf("claim %d failed: %v", i, err)
		}
	}
	if module.Store.PendingOutboxCount() != 3 {
		t.Fatalf("expected 3 pending outbox rows, got %d", module.Store.PendingOutboxCount())
	}

	if err := module.OutboxRelay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if module.Store.PendingOutboxCount() != 0 {
		t.Fatalf("relay must drain the outbox, %d rows left", module.Store.PendingOutboxCount())
	}

	delivered := publisher.published()
	if len(delivered) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(delivered))
	}
	for _, topic := range publisher.publishedTopics() {
		if topic != "distribution.claim.settled" {
			t.Fatalf("unexpected topic %s", topic)
		}
	}
	for _, event := range delivered {
		if event.EntityType != "drop" || event.EntityID != testDropID {
			t.Fatalf("unexpected envelope entity %s/%s", event.EntityType, event.EntityID)
		}
		if event.EventType != "distribution.claim.settled" {
			t.Fatalf("unexpected event type %s", event.EventType)
		}
	}

	// A second run finds nothing to relay.
	if err := module.OutboxRelay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if len(publisher.published()) != 3 {
		t.Fatalf("drained outbox must not republish")
	}
}
