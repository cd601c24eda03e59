package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tipdrop/contexts/tipping/jar-service/domain/entities"
	"tipdrop/contexts/tipping/jar-service/ports"
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

func (r *Repository) CreateTip(ctx context.Context, tip entities.Tip) error {
	row := tipModelFromEntity(tip)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListTipFeed(ctx context.Context, limit int) ([]entities.TipFeedItem, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []tipFeedRow
	err := r.db.WithContext(ctx).
		Table("tips").
		Select("tips.*, wallets.twitter_handle AS sender_handle, wallets.avatar_url AS sender_avatar_url").
		Joins("LEFT JOIN wallets ON wallets.wallet_address = tips.sender_wallet").
		Order("tips.created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.TipFeedItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.TipFeedItem{
			Tip:             row.tipModel.toEntity(),
			SenderHandle:    row.SenderHandle,
			SenderAvatarURL: row.SenderAvatarURL,
		})
	}
	return items, nil
}

func (r *Repository) UnclaimedTotals(ctx context.Context, authorHandle string) (entities.UnclaimedTotals, error) {
	var rows []struct {
		Token string          `gorm:"column:token"`
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Table("tips").
		Select("token, COALESCE(SUM(amount), 0) AS total").
		Where("author_handle = ? AND NOT claimed", authorHandle).
		Group("token").
		Find(&rows).
		Error
	if err != nil {
		return entities.UnclaimedTotals{}, err
	}

	totals := entities.UnclaimedTotals{AuthorHandle: authorHandle}
	for _, row := range rows {
		switch entities.TokenKind(row.Token) {
		case entities.TokenAVAX:
			totals.AVAX = row.Total
		case entities.TokenUSDC:
			totals.USDC = row.Total
		}
	}
	return totals, nil
}

func (r *Repository) UpsertWallet(ctx context.Context, profile entities.WalletProfile) error {
	row := walletModel{
		WalletAddress: profile.WalletAddress,
		TwitterHandle: profile.TwitterHandle,
		AvatarURL:     profile.AvatarURL,
		UpdatedAt:     profile.UpdatedAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet_address"}},
			DoUpdates: clause.AssignmentColumns([]string{"twitter_handle", "avatar_url", "updated_at"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) GetWallet(ctx context.Context, walletAddress string) (entities.WalletProfile, bool, error) {
	var row walletModel
	err := r.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.WalletProfile{}, false, nil
		}
		return entities.WalletProfile{}, false, err
	}
	return entities.WalletProfile{
		WalletAddress: row.WalletAddress,
		TwitterHandle: row.TwitterHandle,
		AvatarURL:     row.AvatarURL,
		UpdatedAt:     row.UpdatedAt.UTC(),
	}, true, nil
}

func (r *Repository) UpsertBalance(ctx context.Context, balance entities.JarBalance) error {
	row := jarBalanceModel{
		WalletAddress: balance.WalletAddress,
		Balance:       balance.Balance,
		RefreshedAt:   balance.RefreshedAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet_address"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "refreshed_at"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) GetBalance(ctx context.Context, walletAddress string) (entities.JarBalance, bool, error) {
	var row jarBalanceModel
	err := r.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.JarBalance{}, false, nil
		}
		return entities.JarBalance{}, false, err
	}
	return entities.JarBalance{
		WalletAddress: row.WalletAddress,
		Balance:       row.Balance,
		RefreshedAt:   row.RefreshedAt.UTC(),
	}, true, nil
}

func (r *Repository) ListTrackedWallets(ctx context.Context) ([]string, error) {
	var wallets []string
	err := r.db.WithContext(ctx).
		Model(&jarBalanceModel{}).
		Order("wallet_address ASC").
		Pluck("wallet_address", &wallets).
		Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

type tipModel struct {
	TipID        string          `gorm:"column:tip_id;primaryKey"`
	AuthorHandle string          `gorm:"column:author_handle"`
	TweetID      string          `gorm:"column:tweet_id"`
	SenderWallet string          `gorm:"column:sender_wallet"`
	Amount       decimal.Decimal `gorm:"column:amount"`
	Token        string          `gorm:"column:token"`
	Claimed      bool            `gorm:"column:claimed"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (tipModel) TableName() string {
	return "tips"
}

func tipModelFromEntity(tip entities.Tip) tipModel {
	return tipModel{
		TipID:        tip.TipID,
		AuthorHandle: tip.AuthorHandle,
		TweetID:      tip.TweetID,
		SenderWallet: tip.SenderWallet,
		Amount:       tip.Amount,
		Token:        string(tip.Token),
		Claimed:      tip.Claimed,
		CreatedAt:    tip.CreatedAt.UTC(),
	}
}

func (m tipModel) toEntity() entities.Tip {
	return entities.Tip{
		TipID:        m.TipID,
		AuthorHandle: m.AuthorHandle,
		TweetID:      m.TweetID,
		SenderWallet: m.SenderWallet,
		Amount:       m.Amount,
		Token:        entities.TokenKind(m.Token),
		Claimed:      m.Claimed,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type tipFeedRow struct {
	tipModel
	SenderHandle    string `gorm:"column:sender_handle"`
	SenderAvatarURL string `gorm:"column:sender_avatar_url"`
}

type walletModel struct {
	WalletAddress string    `gorm:"column:wallet_address;primaryKey"`
	TwitterHandle string    `gorm:"column:twitter_handle"`
	AvatarURL     string    `gorm:"column:avatar_url"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (walletModel) TableName() string {
	return "wallets"
}

type jarBalanceModel struct {
	WalletAddress string          `gorm:"column:wallet_address;primaryKey"`
	Balance       decimal.Decimal `gorm:"column:balance"`
	RefreshedAt   time.Time       `gorm:"column:refreshed_at"`
}

func (jarBalanceModel) TableName() string {
	return "jar_balances"
}

var (
	_ ports.TipRepository        = (*Repository)(nil)
	_ ports.WalletRepository     = (*Repository)(nil)
	_ ports.JarBalanceRepository = (*Repository)(nil)
)
