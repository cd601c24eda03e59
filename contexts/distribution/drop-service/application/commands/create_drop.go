package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	application "tipdrop/contexts/distribution/drop-service/application"
	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/domain/services"
	"tipdrop/contexts/distribution/drop-service/ports"
)

const (
	shortCodeAttemptsPerLength = 5
	// shortCodeInsertRaces caps retries when the unique index rejects a
	// code the pre-check saw as free.
	shortCodeInsertRaces = 5
)

type CreateDropCommand struct {
	Token         string
	Amount        decimal.Decimal
	AmountAVAX    decimal.Decimal
	AmountUSDC    decimal.Decimal
	Recipients    int
	Whitelist     []string
	CreatorWallet string
	TwitterHandle string
}

type CreateDropResult struct {
	Drop entities.Drop
	// MintedDropID is set when settlement succeeded but the registry write
	// did not, so operators can reconcile against the existing drop id.
	MintedDropID string
}

// CreateDropUseCase validates the request, drives the settlement mint, and
// persists the registry row (with a fresh short code) only after the mint
// settles. Validation failures never reach the settlement layer.
type CreateDropUseCase struct {
	Repository    ports.Repository
	Settlement    ports.Settlement
	ShortCodes    ports.ShortCodeGenerator
	Clock         ports.Clock
	PublicBaseURL string
	Logger        *slog.Logger
}

func (u CreateDropUseCase) Execute(ctx context.Context, cmd CreateDropCommand) (CreateDropResult, error) {
	logger := application.ResolveLogger(u.Logger)

	spec, err := u.validate(cmd)
	if err != nil {
		logger.Warn("drop creation rejected",
			"event", "drop_create_validation_failed",
			"module", "distribution/drop-service",
			"layer", "application",
			"creator_wallet", strings.ToLower(strings.TrimSpace(cmd.CreatorWallet)),
			"error", err.Error(),
		)
		return CreateDropResult{}, err
	}

	logger.Info("drop creation started",
		"event", "drop_create_started",
		"module", "distribution/drop-service",
		"layer", "application",
		"creator_wallet", spec.CreatorWallet,
		"token", string(spec.Token),
		"capacity", spec.Capacity,
	)

	dropID, err := u.settle(ctx, spec)
	if err != nil {
		logger.Error("drop mint failed",
			"event", "drop_create_settlement_failed",
			"module", "distribution/drop-service",
			"layer", "application",
			"creator_wallet", spec.CreatorWallet,
			"token", string(spec.Token),
			"error", err.Error(),
		)
		return CreateDropResult{}, fmt.Errorf("%w: %v", domainerrors.ErrSettlementFailed, err)
	}

	// From here the mint is final. Any failure below leaves an on-chain drop
	// without a registry row and must surface as ErrRegistryWriteFailed so it
	// is escalated instead of blindly re-minted.
	drop, err := u.persist(ctx, spec, dropID)
	if err != nil {
		logger.Error("drop minted but registry write failed, manual reconciliation required",
			"event", "drop_create_registry_write_failed",
			"module", "distribution/drop-service",
			"layer", "application",
			"drop_id", dropID,
			"creator_wallet", spec.CreatorWallet,
			"error", err.Error(),
		)
		return CreateDropResult{MintedDropID: dropID}, err
	}

	logger.Info("drop created",
		"event", "drop_created",
		"module", "distribution/drop-service",
		"layer", "application",
		"drop_id", drop.DropID,
		"short_code", drop.ShortCode,
		"token", string(drop.Token),
		"capacity", drop.Capacity,
	)
	return CreateDropResult{Drop: drop}, nil
}

type dropSpec struct {
	Token         entities.TokenKind
	Amount        decimal.Decimal
	AmountAVAX    decimal.Decimal
	AmountUSDC    decimal.Decimal
	Capacity      int
	Whitelist     []string
	CreatorWallet string
	TwitterHandle string
}

func (u CreateDropUseCase) validate(cmd CreateDropCommand) (dropSpec, error) {
	creator := strings.ToLower(strings.TrimSpace(cmd.CreatorWallet))
	if !services.IsWalletAddress(creator) {
		return dropSpec{}, domainerrors.ErrInvalidWallet
	}

	token := entities.TokenKind(strings.ToUpper(strings.TrimSpace(cmd.Token)))
	spec := dropSpec{
		Token:         token,
		CreatorWallet: creator,
		TwitterHandle: strings.TrimSpace(cmd.TwitterHandle),
	}

	switch token {
	case entities.TokenAVAX, entities.TokenUSDC:
		if !cmd.Amount.IsPositive() {
			return dropSpec{}, domainerrors.ErrInvalidDropSpec
		}
		spec.Amount = cmd.Amount
		whitelist := services.NormalizeWhitelist(cmd.Whitelist)
		if len(cmd.Whitelist) > 0 && len(whitelist) == 0 {
			return dropSpec{}, domainerrors.ErrInvalidDropSpec
		}
		if len(whitelist) > 0 {
			spec.Whitelist = whitelist
			spec.Capacity = len(whitelist)
		} else {
			if cmd.Recipients < 1 {
				return dropSpec{}, domainerrors.ErrInvalidDropSpec
			}
			spec.Capacity = cmd.Recipients
		}
	case entities.TokenDual:
		if !cmd.AmountAVAX.IsPositive() || !cmd.AmountUSDC.IsPositive() || cmd.Recipients < 1 {
			return dropSpec{}, domainerrors.ErrInvalidDropSpec
		}
		spec.AmountAVAX = cmd.AmountAVAX
		spec.AmountUSDC = cmd.AmountUSDC
		spec.Capacity = cmd.Recipients
	default:
		return dropSpec{}, domainerrors.ErrInvalidDropSpec
	}
	return spec, nil
}

func (u CreateDropUseCase) settle(ctx context.Context, spec dropSpec) (string, error) {
	if spec.Token == entities.TokenDual {
		return u.Settlement.CreateDualDrop(ctx, spec.AmountAVAX, spec.AmountUSDC, spec.Capacity)
	}
	return u.Settlement.CreateDrop(ctx, spec.Token, spec.Amount, spec.Capacity)
}

func (u CreateDropUseCase) persist(ctx context.Context, spec dropSpec, dropID string) (entities.Drop, error) {
	now := u.now()
	for race := 0; race < shortCodeInsertRaces; race++ {
		shortCode, err := u.uniqueShortCode(ctx)
		if err != nil {
			return entities.Drop{}, err
		}

		drop := entities.Drop{
			DropID:        dropID,
			ShortCode:     shortCode,
			Token:         spec.Token,
			Amount:        spec.Amount,
			AmountAVAX:    spec.AmountAVAX,
			AmountUSDC:    spec.AmountUSDC,
			Capacity:      spec.Capacity,
			Whitelist:     spec.Whitelist,
			CreatorWallet: spec.CreatorWallet,
			TwitterHandle: spec.TwitterHandle,
			ClaimURL:      u.PublicBaseURL + "/" + shortCode,
			CreatedAt:     now,
		}

		err = u.Repository.CreateDrop(ctx, drop)
		if err == nil {
			return drop, nil
		}
		if errors.Is(err, domainerrors.ErrShortCodeTaken) {
			// Lost a race on the short-code unique index; the drop row itself
			// was not written, so trying again with a fresh code is safe.
			continue
		}
		if errors.Is(err, domainerrors.ErrDropExists) {
			return entities.Drop{}, err
		}
		return entities.Drop{}, fmt.Errorf("%w: drop %s: %v", domainerrors.ErrRegistryWriteFailed, dropID, err)
	}
	return entities.Drop{}, domainerrors.ErrShortCodeSpaceExhausted
}

// uniqueShortCode runs the generate-check-retry loop, widening the code
// length when a level keeps colliding.
func (u CreateDropUseCase) uniqueShortCode(ctx context.Context) (string, error) {
	for length := services.ShortCodeBaseLength; length <= services.ShortCodeMaxLength; length++ {
		for attempt := 0; attempt < shortCodeAttemptsPerLength; attempt++ {
			code, err := u.ShortCodes.Generate(ctx, length)
			if err != nil {
				return "", err
			}
			taken, err := u.Repository.ShortCodeExists(ctx, code)
			if err != nil {
				return "", err
			}
			if !taken {
				return code, nil
			}
		}
	}
	return "", domainerrors.ErrShortCodeSpaceExhausted
}

func (u CreateDropUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
