package ports

import (
	"context"
	"time"

	"tipdrop/contexts/distribution/claim-service/domain/entities"
	"tipdrop/internal/shared/events"
)

// ClaimSettledEvent is the outbound integration payload persisted to outbox
// together with the claim row.
type ClaimSettledEvent struct {
	EventID       string
	DropID        string
	WalletAddress string
	TxHash        string
	OccurredAt    time.Time
}

// ClaimRepository owns claim persistence. RecordClaimWithOutbox must commit
// the claim row and the outbox message atomically, and must rely on the
// storage layer's (drop_id, wallet_address) uniqueness constraint, not a
// check-then-insert, to reject duplicates, surfacing ErrClaimExists.
type ClaimRepository interface {
	GetClaim(ctx context.Context, dropID, walletAddress string) (entities.Claim, bool, error)
	CountClaims(ctx context.Context, dropID string) (int, error)
	ListClaimsByDrop(ctx context.Context, dropID string) ([]entities.Claim, error)
	ListClaimsByWallet(ctx context.Context, walletAddress string) ([]entities.Claim, error)
	RecordClaimWithOutbox(ctx context.Context, claim entities.Claim, event ClaimSettledEvent) error
}

// DropDirectory is read-only access to drop state owned by the drop
// registry.
type DropDirectory interface {
	GetDrop(ctx context.Context, dropID string) (entities.DropView, error)
}

// Settlement submits the claim to the settlement contract and blocks until
// it finalizes, returning the settlement reference. The contract re-asserts
// capacity and authorization; a revert surfaces as an error here.
type Settlement interface {
	Claim(ctx context.Context, dropID, walletAddress string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
