package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"tipdrop/contexts/distribution/claim-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/claim-service/domain/errors"
	"tipdrop/contexts/distribution/claim-service/ports"
	"tipdrop/internal/shared/events"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	claimSettledEventType = "distribution.claim.settled"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetClaim(ctx context.Context, dropID, walletAddress string) (entities.Claim, bool, error) {
	var row claimModel
	err := r.db.WithContext(ctx).
		Where("drop_id = ? AND wallet_address = ?", dropID, walletAddress).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Claim{}, false, nil
		}
		return entities.Claim{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CountClaims(ctx context.Context, dropID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&claimModel{}).
		Where("drop_id = ?", dropID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) ListClaimsByDrop(ctx context.Context, dropID string) ([]entities.Claim, error) {
	var rows []claimModel
	if err := r.db.WithContext(ctx).
		Where("drop_id = ?", dropID).
		Order("claimed_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Claim, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListClaimsByWallet(ctx context.Context, walletAddress string) ([]entities.Claim, error) {
	var rows []claimModel
	if err := r.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		Order("claimed_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Claim, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) RecordClaimWithOutbox(ctx context.Context, claim entities.Claim, event ports.ClaimSettledEvent) error {
	payload, err := json.Marshal(buildSettledEnvelope(event))
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimRow := claimModelFromEntity(claim)
		if err := tx.Create(&claimRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrClaimExists
			}
			return err
		}

		outboxRow := outboxModel{
			OutboxID:     event.EventID,
			EventType:    claimSettledEventType,
			PartitionKey: event.DropID,
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    event.OccurredAt.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("outbox row not found: " + outboxID)
	}
	return nil
}

// DropDirectory is a read-only view over the drops table owned by the drop
// registry. The claim gate only needs capacity and whitelist.
type DropDirectory struct {
	db *gorm.DB
}

func NewDropDirectory(db *gorm.DB) *DropDirectory {
	return &DropDirectory{db: db}
}

func (d *DropDirectory) GetDrop(ctx context.Context, dropID string) (entities.DropView, error) {
	var row dropViewModel
	err := d.db.WithContext(ctx).
		Select("drop_id", "capacity", "whitelist").
		Where("drop_id = ?", dropID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DropView{}, domainerrors.ErrDropNotFound
		}
		return entities.DropView{}, err
	}
	return entities.DropView{
		DropID:    row.DropID,
		Capacity:  row.Capacity,
		Whitelist: append([]string(nil), row.Whitelist...),
	}, nil
}

type claimModel struct {
	DropID        string    `gorm:"column:drop_id;primaryKey"`
	WalletAddress string    `gorm:"column:wallet_address;primaryKey"`
	TxHash        string    `gorm:"column:tx_hash"`
	ClaimedAt     time.Time `gorm:"column:claimed_at"`
}

func (claimModel) TableName() string {
	return "claims"
}

func claimModelFromEntity(claim entities.Claim) claimModel {
	return claimModel{
		DropID:        claim.DropID,
		WalletAddress: claim.WalletAddress,
		TxHash:        claim.TxHash,
		ClaimedAt:     claim.ClaimedAt.UTC(),
	}
}

func (m claimModel) toEntity() entities.Claim {
	return entities.Claim{
		DropID:        m.DropID,
		WalletAddress: m.WalletAddress,
		TxHash:        m.TxHash,
		ClaimedAt:     m.ClaimedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "claim_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type dropViewModel struct {
	DropID    string         `gorm:"column:drop_id;primaryKey"`
	Capacity  int            `gorm:"column:capacity"`
	Whitelist pq.StringArray `gorm:"column:whitelist;type:text[]"`
}

func (dropViewModel) TableName() string {
	return "drops"
}

func buildSettledEnvelope(event ports.ClaimSettledEvent) events.Envelope {
	return events.Envelope{
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
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ ports.ClaimRepository  = (*Repository)(nil)
	_ ports.OutboxRepository = (*Repository)(nil)
	_ ports.DropDirectory    = (*DropDirectory)(nil)
)
