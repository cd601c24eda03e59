package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "tipdrop/contexts/distribution/claim-service/application"
	"tipdrop/contexts/distribution/claim-service/ports"
	"tipdrop/internal/shared/events"
)

// OutboxRelay drains pending claim-settled outbox rows to the message bus.
// Rows are marked published only after a successful publish, so delivery is
// at-least-once and consumers must tolerate replays.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "distribution.claim.settled"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "claim_outbox_list_failed",
			"module", "distribution/claim-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "claim_outbox_decode_failed",
				"module", "distribution/claim-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "claim_outbox_publish_failed",
				"module", "distribution/claim-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "claim_outbox_mark_published_failed",
				"module", "distribution/claim-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "claim_outbox_relay_completed",
			"module", "distribution/claim-service",
			"layer", "worker",
			"published_count", len(pending),
		)
	}
	return nil
}
