package commands

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

type UpsertWalletCommand struct {
	WalletAddress string
	TwitterHandle string
	AvatarURL     string
}

type UpsertWalletResult struct {
	Profile entities.WalletProfile
}

type UpsertWalletUseCase struct {
	Wallets ports.WalletRepository
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (u UpsertWalletUseCase) Execute(ctx context.Context, cmd UpsertWalletCommand) (UpsertWalletResult, error) {
	logger := application.ResolveLogger(u.Logger)

	wallet := strings.ToLower(strings.TrimSpace(cmd.WalletAddress))
	if !services.IsWalletAddress(wallet) {
		return UpsertWalletResult{}, domainerrors.ErrInvalidWallet
	}

	profile := entities.WalletProfile{
		WalletAddress: wallet,
		TwitterHandle: services.NormalizeHandle(cmd.TwitterHandle),
		AvatarURL:     strings.TrimSpace(cmd.AvatarURL),
		UpdatedAt:     u.Clock.Now().UTC(),
	}
	if err := u.Wallets.UpsertWallet(ctx, profile); err != nil {
		return UpsertWalletResult{}, err
	}

	logger.Info("wallet profile upserted",
		"event", "wallet_profile_upserted",
		"module", "tipping/jar-service",
		"layer", "application",
		"wallet_address", profile.WalletAddress,
		"twitter_handle", profile.TwitterHandle,
	)
	return UpsertWalletResult{Profile: profile}, nil
}
