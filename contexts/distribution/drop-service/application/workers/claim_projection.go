package workers

import (
	"context"
	"log/slog"
	"strings"

	application "tipdrop/contexts/distribution/drop-service/application"
	"tipdrop/contexts/distribution/drop-service/ports"
	"tipdrop/internal/shared/events"
)

// ClaimProjectionConsumer keeps the drops.claims_count projection in step
// with settled claims. The projection is display-only; the claim ledger
// stays authoritative for the eligibility pre-check.
type ClaimProjectionConsumer struct {
	Repository    ports.Repository
	Subscriber    ports.EventSubscriber
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c ClaimProjectionConsumer) Run(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	topic := c.Topic
	if topic == "" {
		topic = "distribution.claim.settled"
	}
	group := c.ConsumerGroup
	if group == "" {
		group = "drop-service.claim-projection"
	}

	return c.Subscriber.Subscribe(ctx, topic, group, func(ctx context.Context, envelope events.Envelope) error {
		dropID := strings.TrimSpace(envelope.EntityID)
		if envelope.EntityType != "drop" || dropID == "" {
			logger.Warn("skipping malformed claim event",
				"event", "claim_projection_skip",
				"module", "distribution/drop-service",
				"layer", "worker",
				"event_id", envelope.EventID,
				"entity_type", envelope.EntityType,
			)
			return nil
		}
		if err := c.Repository.IncrementClaimsCount(ctx, dropID); err != nil {
			logger.Error("claims count projection update failed",
				"event", "claim_projection_failed",
				"module", "distribution/drop-service",
				"layer", "worker",
				"drop_id", dropID,
				"event_id", envelope.EventID,
				"error", err.Error(),
			)
			return err
		}
		return nil
	})
}
