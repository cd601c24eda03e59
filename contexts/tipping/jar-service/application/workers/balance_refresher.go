package workers

import (
	"context"
	"log/slog"
	"sync"

	application "tipdrop/contexts/tipping/jar-service/application"
	"tipdrop/contexts/tipping/jar-service/domain/entities"
	"tipdrop/contexts/tipping/jar-service/ports"
)

// BalanceRefresher re-reads on-chain jar balances for every tracked wallet.
// It can be suspended while a deposit is in flight, and a per-wallet
// generation counter makes the latest started read win: a slow read that
// finishes after a newer one began is discarded instead of written.
type BalanceRefresher struct {
	Balances   ports.JarBalanceRepository
	Settlement ports.Settlement
	Clock      ports.Clock
	Logger     *slog.Logger

	mu          sync.Mutex
	suspended   bool
	generations map[string]uint64
}

// Suspend pauses refresh cycles until Resume. In-flight reads finish but
// their results are still subject to the generation check.
func (r *BalanceRefresher) Suspend() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suspended = true
}

func (r *BalanceRefresher) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suspended = false
}

func (r *BalanceRefresher) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)

	r.mu.Lock()
	suspended := r.suspended
	r.mu.Unlock()
	if suspended {
		return nil
	}

	wallets, err := r.Balances.ListTrackedWallets(ctx)
	if err != nil {
		logger.Error("tracked wallet listing failed",
			"event", "jar_refresh_list_failed",
			"module", "tipping/jar-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, wallet := range wallets {
		if err := r.RefreshWallet(ctx, wallet); err != nil {
			logger.Warn("jar balance refresh failed",
				"event", "jar_refresh_wallet_failed",
				"module", "tipping/jar-service",
				"layer", "worker",
				"wallet_address", wallet,
				"error", err.Error(),
			)
		}
	}
	return nil
}

// RefreshWallet reads the wallet's on-chain balance and writes it to the
// cache unless a newer read started in the meantime.
func (r *BalanceRefresher) RefreshWallet(ctx context.Context, wallet string) error {
	generation := r.beginRead(wallet)

	balance, err := r.Settlement.JarBalance(ctx, wallet)
	if err != nil {
		return err
	}

	if !r.isLatest(wallet, generation) {
		return nil
	}
	return r.Balances.UpsertBalance(ctx, entities.JarBalance{
		WalletAddress: wallet,
		Balance:       balance,
		RefreshedAt:   r.Clock.Now().UTC(),
	})
}

func (r *BalanceRefresher) beginRead(wallet string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generations == nil {
		r.generations = make(map[string]uint64)
	}
	r.generations[wallet]++
	return r.generations[wallet]
}

func (r *BalanceRefresher) isLatest(wallet string, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[wallet] == generation
}
