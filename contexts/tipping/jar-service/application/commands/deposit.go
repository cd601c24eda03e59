package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	application "tipdrop/contexts/tipping/jar-service/application"
	"tipdrop/contexts/tipping/jar-service/domain/entities"
	domainerrors "tipdrop/contexts/tipping/jar-service/domain/errors"
	"tipdrop/contexts/tipping/jar-service/domain/services"
	"tipdrop/contexts/tipping/jar-service/ports"
)

type DepositCommand struct {
	WalletAddress string
	Amount        decimal.Decimal
}

type DepositResult struct {
	TxHash  string
	Balance entities.JarBalance
}

// RefreshControl pauses the background balance refresher while a deposit is
// in flight, so a poll started before the deposit cannot overwrite the
// post-deposit balance with a stale read.
type RefreshControl interface {
	Suspend()
	Resume()
}

// DepositUseCase settles a jar deposit and refreshes the cached balance
// from chain once the deposit has landed.
type DepositUseCase struct {
	Settlement ports.Settlement
	Balances   ports.JarBalanceRepository
	Refresher  RefreshControl
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u DepositUseCase) Execute(ctx context.Context, cmd DepositCommand) (DepositResult, error) {
	logger := application.ResolveLogger(u.Logger)

	wallet := strings.ToLower(strings.TrimSpace(cmd.WalletAddress))
	if !services.IsWalletAddress(wallet) {
		return DepositResult{}, domainerrors.ErrInvalidWallet
	}
	if !cmd.Amount.IsPositive() {
		return DepositResult{}, domainerrors.ErrInvalidDeposit
	}

	if u.Refresher != nil {
		u.Refresher.Suspend()
		defer u.Refresher.Resume()
	}

	txHash, err := u.Settlement.Deposit(ctx, wallet, cmd.Amount)
	if err != nil {
		logger.Warn("jar deposit settlement failed",
			"event", "jar_deposit_failed",
			"module", "tipping/jar-service",
			"layer", "application",
			"wallet_address", wallet,
			"error", err.Error(),
		)
		return DepositResult{}, fmt.Errorf("%w: %v", domainerrors.ErrSettlementFailed, err)
	}

	balance := entities.JarBalance{
		WalletAddress: wallet,
		RefreshedAt:   u.Clock.Now().UTC(),
	}
	onChain, readErr := u.Settlement.JarBalance(ctx, wallet)
	if readErr != nil {
		// The deposit settled; serve the stale cache rather than fail.
		logger.Warn("post-deposit balance read failed",
			"event", "jar_balance_read_failed",
			"module", "tipping/jar-service",
			"layer", "application",
			"wallet_address", wallet,
			"tx_hash", txHash,
			"error", readErr.Error(),
		)
		cached, found, cacheErr := u.Balances.GetBalance(ctx, wallet)
		if cacheErr == nil && found {
			balance = cached
		}
		return DepositResult{TxHash: txHash, Balance: balance}, nil
	}

	balance.Balance = onChain
	if err := u.Balances.UpsertBalance(ctx, balance); err != nil {
		return DepositResult{}, err
	}

	logger.Info("jar deposit settled",
		"event", "jar_deposit_settled",
		"module", "tipping/jar-service",
		"layer", "application",
		"wallet_address", wallet,
		"tx_hash", txHash,
		"balance", balance.Balance.String(),
	)
	return DepositResult{TxHash: txHash, Balance: balance}, nil
}
