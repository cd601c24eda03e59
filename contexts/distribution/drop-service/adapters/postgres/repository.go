package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateDrop(ctx context.Context, drop entities.Drop) error {
	row := dropModelFromEntity(drop)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "short_code") {
				r.logWarn("drop_repo_short_code_conflict",
					"drop_id", row.DropID,
					"short_code", row.ShortCode,
				)
				return domainerrors.ErrShortCodeTaken
			}
			r.logWarn("drop_repo_drop_id_replay",
				"drop_id", row.DropID,
			)
			return domainerrors.ErrDropExists
		}
		return r.logError("drop_repo_create_failed", err,
			"drop_id", row.DropID,
			"short_code", row.ShortCode,
		)
	}
	return nil
}

func (r *Repository) GetDrop(ctx context.Context, dropID string) (entities.Drop, error) {
	var row dropModel
	err := r.db.WithContext(ctx).
		Where("drop_id = ?", strings.TrimSpace(dropID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Drop{}, domainerrors.ErrDropNotFound
		}
		return entities.Drop{}, r.logError("drop_repo_get_failed", err,
			"drop_id", strings.TrimSpace(dropID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetDropByShortCode(ctx context.Context, shortCode string) (entities.Drop, error) {
	var row dropModel
	err := r.db.WithContext(ctx).
		Where("short_code = ?", strings.TrimSpace(shortCode)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Drop{}, domainerrors.ErrShortCodeNotFound
		}
		return entities.Drop{}, r.logError("drop_repo_get_by_short_code_failed", err,
			"short_code", strings.TrimSpace(shortCode),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&dropModel{}).
		Where("short_code = ?", strings.TrimSpace(shortCode)).
		Count(&count).
		Error; err != nil {
		return false, r.logError("drop_repo_short_code_exists_failed", err,
			"short_code", strings.TrimSpace(shortCode),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListDropsByCreator(ctx context.Context, creatorWallet string) ([]entities.Drop, error) {
	var rows []dropModel
	if err := r.db.WithContext(ctx).
		Where("creator_wallet = ?", strings.ToLower(strings.TrimSpace(creatorWallet))).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("drop_repo_list_by_creator_failed", err,
			"creator_wallet", strings.ToLower(strings.TrimSpace(creatorWallet)),
		)
	}
	drops := make([]entities.Drop, 0, len(rows))
	for _, row := range rows {
		drops = append(drops, row.toEntity())
	}
	return drops, nil
}

func (r *Repository) IncrementClaimsCount(ctx context.Context, dropID string) error {
	result := r.db.WithContext(ctx).
		Model(&dropModel{}).
		Where("drop_id = ?", strings.TrimSpace(dropID)).
		UpdateColumn("claims_count", gorm.Expr("claims_count + 1"))
	if result.Error != nil {
		return r.logError("drop_repo_increment_claims_failed", result.Error,
			"drop_id", strings.TrimSpace(dropID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("drop_repo_increment_claims_not_found",
			"drop_id", strings.TrimSpace(dropID),
		)
		return domainerrors.ErrDropNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "distribution/drop-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("drop repository operation failed", fields...)
	return err
}

func (r *Repository) logWarn(event string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "distribution/drop-service",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	r.logger.Warn("drop repository warning", fields...)
}

type dropModel struct {
	DropID        string          `gorm:"column:drop_id;primaryKey"`
	ShortCode     string          `gorm:"column:short_code"`
	Token         string          `gorm:"column:token"`
	Amount        decimal.Decimal `gorm:"column:amount"`
	AmountAVAX    decimal.Decimal `gorm:"column:amount_avax"`
	AmountUSDC    decimal.Decimal `gorm:"column:amount_usdc"`
	Capacity      int             `gorm:"column:capacity"`
	Whitelist     pq.StringArray  `gorm:"column:whitelist;type:text[]"`
	CreatorWallet string          `gorm:"column:creator_wallet"`
	TwitterHandle string          `gorm:"column:twitter_handle"`
	ClaimURL      string          `gorm:"column:claim_url"`
	ClaimsCount   int             `gorm:"column:claims_count"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (dropModel) TableName() string {
	return "drops"
}

func dropModelFromEntity(drop entities.Drop) dropModel {
	return dropModel{
		DropID:        strings.TrimSpace(drop.DropID),
		ShortCode:     strings.TrimSpace(drop.ShortCode),
		Token:         string(drop.Token),
		Amount:        drop.Amount,
		AmountAVAX:    drop.AmountAVAX,
		AmountUSDC:    drop.AmountUSDC,
		Capacity:      drop.Capacity,
		Whitelist:     pq.StringArray(append([]string(nil), drop.Whitelist...)),
		CreatorWallet: strings.ToLower(strings.TrimSpace(drop.CreatorWallet)),
		TwitterHandle: strings.TrimSpace(drop.TwitterHandle),
		ClaimURL:      strings.TrimSpace(drop.ClaimURL),
		ClaimsCount:   drop.ClaimsCount,
		CreatedAt:     drop.CreatedAt.UTC(),
	}
}

func (m dropModel) toEntity() entities.Drop {
	return entities.Drop{
		DropID:        m.DropID,
		ShortCode:     m.ShortCode,
		Token:         entities.TokenKind(m.Token),
		Amount:        m.Amount,
		AmountAVAX:    m.AmountAVAX,
		AmountUSDC:    m.AmountUSDC,
		Capacity:      m.Capacity,
		Whitelist:     append([]string(nil), m.Whitelist...),
		CreatorWallet: m.CreatorWallet,
		TwitterHandle: m.TwitterHandle,
		ClaimURL:      m.ClaimURL,
		ClaimsCount:   m.ClaimsCount,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
