package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tipdrop/contexts/distribution/drop-service/domain/entities"
	"tipdrop/internal/shared/events"
)

// Repository owns drop registry persistence. CreateDrop must surface
// ErrDropExists for a replayed drop id and ErrShortCodeTaken when the
// short-code unique index rejects the row.
type Repository interface {
	CreateDrop(ctx context.Context, drop entities.Drop) error
	GetDrop(ctx context.Context, dropID string) (entities.Drop, error)
	GetDropByShortCode(ctx context.Context, shortCode string) (entities.Drop, error)
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
	ListDropsByCreator(ctx context.Context, creatorWallet string) ([]entities.Drop, error)
	// IncrementClaimsCount bumps the non-authoritative claims_count
	// projection. The claim ledger remains the count of record.
	IncrementClaimsCount(ctx context.Context, dropID string) error
}

// Settlement is the authoritative mint boundary. Both calls block until the
// settlement layer finalizes the transaction and return the drop id it
// assigned; idempotency is not guaranteed by this interface.
type Settlement interface {
	CreateDrop(ctx context.Context, token entities.TokenKind, totalAmount decimal.Decimal, recipients int) (string, error)
	CreateDualDrop(ctx context.Context, avaxAmount, usdcAmount decimal.Decimal, recipients int) (string, error)
}

// ShortCodeGenerator abstracts code generation so collision tests can force
// deterministic sequences.
type ShortCodeGenerator interface {
	Generate(ctx context.Context, length int) (string, error)
}

type Clock interface {
	Now() time.Time
}

// EventSubscriber feeds the claims-count projection consumer.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, events.Envelope) error,
	) error
}
