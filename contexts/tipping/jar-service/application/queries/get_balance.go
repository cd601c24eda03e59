package queries

import (
	"context"
	"log/slog"
	"strings"

	application "tipdrop/contexts/tipping/jar-service/application"
	"tipdrop/contexts/tipping/jar-service/domain/entities"
	domainerrors "tipdrop/contexts/tipping/jar-service/domain/errors"
	"tipdrop/contexts/tipping/jar-service/domain/services"
	"tipdrop/contexts/tipping/jar-service/ports"
)

type GetJarBalanceQuery struct {
	WalletAddress string
}

type GetJarBalanceResult struct {
	Balance entities.JarBalance
}

// GetJarBalanceUseCase serves the cached jar balance. On a cache miss it
// reads the chain once and starts tracking the wallet for the periodic
// refresher.
type GetJarBalanceUseCase struct {
	Balances   ports.JarBalanceRepository
	Settlement ports.Settlement
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u GetJarBalanceUseCase) Execute(ctx context.Context, query GetJarBalanceQuery) (GetJarBalanceResult, error) {
	logger := application.ResolveLogger(u.Logger)

	wallet := strings.ToLower(strings.TrimSpace(query.WalletAddress))
	if !services.IsWalletAddress(wallet) {
		return GetJarBalanceResult{}, domainerrors.ErrInvalidWallet
	}

	cached, found, err := u.Balances.GetBalance(ctx, wallet)
	if err != nil {
		return GetJarBalanceResult{}, err
	}
	if found {
		return GetJarBalanceResult{Balance: cached}, nil
	}

	onChain, err := u.Settlement.JarBalance(ctx, wallet)
	if err != nil {
		logger.Warn("jar balance chain read failed",
			"event", "jar_balance_read_failed",
			"module", "tipping/jar-service",
			"layer", "application",
			"wallet_address", wallet,
			"error", err.Error(),
		)
		return GetJarBalanceResult{}, domainerrors.ErrBalanceNotTracked
	}

	balance := entities.JarBalance{
		WalletAddress: wallet,
		Balance:       onChain,
		RefreshedAt:   u.Clock.Now().UTC(),
	}
	if err := u.Balances.UpsertBalance(ctx, balance); err != nil {
		return GetJarBalanceResult{}, err
	}
	return GetJarBalanceResult{Balance: balance}, nil
}
