package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tipdrop/contexts/tipping/jar-service/domain/entities"
)

type TipRepository interface {
	CreateTip(ctx context.Context, tip entities.Tip) error
	ListTipFeed(ctx context.Context, limit int) ([]entities.TipFeedItem, error)
	UnclaimedTotals(ctx context.Context, authorHandle string) (entities.UnclaimedTotals, error)
}

type WalletRepository interface {
	UpsertWallet(ctx context.Context, profile entities.WalletProfile) error
	GetWallet(ctx context.Context, walletAddress string) (entities.WalletProfile, bool, error)
}

// JarBalanceRepository caches on-chain jar balances. ListTrackedWallets
// feeds the periodic refresher.
type JarBalanceRepository interface {
	UpsertBalance(ctx context.Context, balance entities.JarBalance) error
	GetBalance(ctx context.Context, walletAddress string) (entities.JarBalance, bool, error)
	ListTrackedWallets(ctx context.Context) ([]string, error)
}

// Settlement is the jar contract: Deposit moves native funds into the
// sender's jar, JarBalance reads the current on-chain balance.
type Settlement interface {
	Deposit(ctx context.Context, walletAddress string, amount decimal.Decimal) (string, error)
	JarBalance(ctx context.Context, walletAddress string) (decimal.Decimal, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
