package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "tipdrop/contexts/distribution/drop-service/application"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/ports"
)

type ResolveShortCodeQuery struct {
	ShortCode string
}

type ResolveShortCodeResult struct {
	DropID   string
	ClaimURL string
}

// ResolveShortCodeUseCase maps a shareable alias to its drop id. Pure
// lookup, no side effects; resolving the same code twice yields the same id.
type ResolveShortCodeUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ResolveShortCodeUseCase) Execute(ctx context.Context, query ResolveShortCodeQuery) (ResolveShortCodeResult, error) {
	logger := application.ResolveLogger(u.Logger)

	code := strings.ToUpper(strings.TrimSpace(query.ShortCode))
	if code == "" {
		return ResolveShortCodeResult{}, domainerrors.ErrShortCodeNotFound
	}

	drop, err := u.Repository.GetDropByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainerrors.ErrShortCodeNotFound) || errors.Is(err, domainerrors.ErrDropNotFound) {
			return ResolveShortCodeResult{}, domainerrors.ErrShortCodeNotFound
		}
		logger.Error("short code resolution failed",
			"event", "short_code_resolve_failed",
			"module", "distribution/drop-service",
			"layer", "application",
			"short_code", code,
			"error", err.Error(),
		)
		return ResolveShortCodeResult{}, err
	}
	return ResolveShortCodeResult{DropID: drop.DropID, ClaimURL: drop.ClaimURL}, nil
}
