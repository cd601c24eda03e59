package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"tipdrop/contexts/distribution/claim-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/claim-service/domain/errors"
	"tipdrop/contexts/distribution/claim-service/ports"
	"tipdrop/internal/shared/events"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	claimSettledEventType = "distribution.claim.settled"
)

type outboxRecord struct {
	message ports.OutboxMessage
	status  string
}

// Store is an in-memory claim ledger plus drop directory used by tests and
// local runs. A single mutex guards both maps, so the recorded
// (drop_id, wallet_address) uniqueness behaves like the database constraint.
type Store struct {
	mu       sync.Mutex
	claims   map[string]entities.Claim
	order    []string
	drops    map[string]entities.DropView
	outbox   []*outboxRecord
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		claims: make(map[string]entities.Claim),
		drops:  make(map[string]entities.DropView),
	}
}

// PutDrop registers a drop view for eligibility checks.
func (s *Store) PutDrop(drop entities.DropView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops[drop.DropID] = drop
}

func (s *Store) GetDrop(_ context.Context, dropID string) (entities.DropView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop, ok := s.drops[dropID]
	if !ok {
		return entities.DropView{}, domainerrors.ErrDropNotFound
	}
	return drop, nil
}

func (s *Store) GetClaim(_ context.Context, dropID, walletAddress string) (entities.Claim, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.claims[claimKey(dropID, walletAddress)]
	return claim, ok, nil
}

func (s *Store) CountClaims(_ context.Context, dropID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, claim := range s.claims {
		if claim.DropID == dropID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListClaimsByDrop(_ context.Context, dropID string) ([]entities.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Claim, 0)
	for _, key := range s.order {
		claim := s.claims[key]
		if claim.DropID == dropID {
			items = append(items, claim)
		}
	}
	return items, nil
}

func (s *Store) ListClaimsByWallet(_ context.Context, walletAddress string) ([]entities.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Claim, 0)
	for _, key := range s.order {
		claim := s.claims[key]
		if claim.WalletAddress == walletAddress {
			items = append(items, claim)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ClaimedAt.After(items[j].ClaimedAt)
	})
	return items, nil
}

func (s *Store) RecordClaimWithOutbox(_ context.Context, claim entities.Claim, event ports.ClaimSettledEvent) error {
	payload, err := json.Marshal(events.Envelope{
		EventID:        event.EventID,
		EventType:      claimSettledEventType,
		SourceService:  "claim-service",
		OccurredAtUTC:  event.OccurredAt.UTC(),
		EntityType:     "drop",
		EntityID:       event.DropID,
		PayloadVersion: 1,
		Payload: map[string]string{
			"drop_id":        event.DropID,
			"wallet_address": event.WalletAddress,
			"tx_hash":        event.TxHash,
		},
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := claimKey(claim.DropID, claim.WalletAddress)
	if _, exists := s.claims[key]; exists {
		return domainerrors.ErrClaimExists
	}
	s.claims[key] = claim
	s.order = append(s.order, key)
	s.outbox = append(s.outbox, &outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     event.EventID,
			EventType:    claimSettledEventType,
			PartitionKey: event.DropID,
			Payload:      payload,
			CreatedAt:    event.OccurredAt.UTC(),
		},
		status: outboxStatusPending,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.status != outboxStatusPending {
			continue
		}
		items = append(items, record.message)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.outbox {
		if record.message.OutboxID == outboxID {
			record.status = outboxStatusPublished
			return nil
		}
	}
	return fmt.Errorf("outbox row not found: %s", outboxID)
}

// PendingOutboxCount reports undelivered rows, for tests.
func (s *Store) PendingOutboxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, record := range s.outbox {
		if record.status == outboxStatusPending {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("evt-%d", value), nil
}

func claimKey(dropID, walletAddress string) string {
	return dropID + "|" + walletAddress
}

var (
	_ ports.ClaimRepository  = (*Store)(nil)
	_ ports.DropDirectory    = (*Store)(nil)
	_ ports.OutboxRepository = (*Store)(nil)
	_ ports.Clock            = (*Store)(nil)
	_ ports.IDGenerator      = (*Store)(nil)
)
