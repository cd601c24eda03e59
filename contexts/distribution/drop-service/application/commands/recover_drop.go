package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	application "tipdrop/contexts/distribution/drop-service/application"
	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/ports"
)

type RecoverDropCommand struct {
	DropID        string
	Token         string
	Amount        decimal.Decimal
	AmountAVAX    decimal.Decimal
	AmountUSDC    decimal.Decimal
	Recipients    int
	Whitelist     []string
	CreatorWallet string
	TwitterHandle string
}

type RecoverDropResult struct {
	Drop entities.Drop
}

// RecoverDropUseCase persists a registry row for a drop that already settled
// on chain but whose original registry write failed. It never touches the
// settlement layer: the mint cannot be undone, so recovery is restricted to
// the existing drop id.
type RecoverDropUseCase struct {
	Repository    ports.Repository
	ShortCodes    ports.ShortCodeGenerator
	Clock         ports.Clock
	PublicBaseURL string
	Logger        *slog.Logger
}

func (u RecoverDropUseCase) Execute(ctx context.Context, cmd RecoverDropCommand) (RecoverDropResult, error) {
	logger := application.ResolveLogger(u.Logger)

	dropID := strings.TrimSpace(cmd.DropID)
	if dropID == "" {
		return RecoverDropResult{}, domainerrors.ErrInvalidDropSpec
	}

	creation := CreateDropUseCase{
		Repository:    u.Repository,
		ShortCodes:    u.ShortCodes,
		Clock:         u.Clock,
		PublicBaseURL: u.PublicBaseURL,
		Logger:        u.Logger,
	}
	spec, err := creation.validate(CreateDropCommand{
		Token:         cmd.Token,
		Amount:        cmd.Amount,
		AmountAVAX:    cmd.AmountAVAX,
		AmountUSDC:    cmd.AmountUSDC,
		Recipients:    cmd.Recipients,
		Whitelist:     cmd.Whitelist,
		CreatorWallet: cmd.CreatorWallet,
		TwitterHandle: cmd.TwitterHandle,
	})
	if err != nil {
		return RecoverDropResult{}, err
	}

	drop, err := creation.persist(ctx, spec, dropID)
	if err != nil {
		logger.Error("drop recovery failed",
			"event", "drop_recover_failed",
			"module", "distribution/drop-service",
			"layer", "application",
			"drop_id", dropID,
			"error", err.Error(),
		)
		return RecoverDropResult{}, err
	}

	logger.Info("drop recovered into registry",
		"event", "drop_recovered",
		"module", "distribution/drop-service",
		"layer", "application",
		"drop_id", drop.DropID,
		"short_code", drop.ShortCode,
	)
	return RecoverDropResult{Drop: drop}, nil
}
