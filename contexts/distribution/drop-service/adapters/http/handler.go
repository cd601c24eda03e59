package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	application "tipdrop/contexts/distribution/drop-service/application"
	"tipdrop/contexts/distribution/drop-service/application/commands"
	"tipdrop/contexts/distribution/drop-service/application/queries"
	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	httptransport "tipdrop/contexts/distribution/drop-service/transport/http"
)

type Handler struct {
	CreateDrop  commands.CreateDropUseCase
	RecoverDrop commands.RecoverDropUseCase
	GetDrop     queries.GetDropUseCase
	Resolve     queries.ResolveShortCodeUseCase
	ListDrops   queries.ListDropsByCreatorUseCase
	Logger      *slog.Logger
}

// CreateDropHandler godoc
// @Summary Create a drop
// @Description Mints a drop on the settlement contract and registers it with a shareable short code.
// @Tags drops
// @Accept json
// @Produce json
// @Param request body httptransport.CreateDropRequest true "Drop creation payload"
// @Success 201 {object} httptransport.CreateDropResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/drops [post]
func (h Handler) CreateDropHandler(ctx context.Context, req httptransport.CreateDropRequest) (httptransport.CreateDropResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	cmd, err := createCommandFromRequest(req)
	if err != nil {
		return httptransport.CreateDropResponse{}, err
	}

	result, err := h.CreateDrop.Execute(ctx, cmd)
	if err != nil {
		logger.Error("create drop request failed",
			"event", "http_create_drop_failed",
			"module", "distribution/drop-service",
			"layer", "transport",
			"minted_drop_id", result.MintedDropID,
			"error", err.Error(),
		)
		return httptransport.CreateDropResponse{}, &RegistryFailure{MintedDropID: result.MintedDropID, Err: err}
	}
	return httptransport.CreateDropResponse{Drop: mapDrop(result.Drop)}, nil
}

// RecoverDropHandler godoc
// @Summary Recover a minted drop into the registry
// @Description Persists a registry row for a drop that settled on chain but failed to register. Never re-mints.
// @Tags drops
// @Accept json
// @Produce json
// @Param request body httptransport.RecoverDropRequest true "Recovery payload"
// @Success 201 {object} httptransport.CreateDropResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/drops/recover [post]
func (h Handler) RecoverDropHandler(ctx context.Context, req httptransport.RecoverDropRequest) (httptransport.CreateDropResponse, error) {
	cmd, err := createCommandFromRequest(req.CreateDropRequest)
	if err != nil {
		return httptransport.CreateDropResponse{}, err
	}

	result, err := h.RecoverDrop.Execute(ctx, commands.RecoverDropCommand{
		DropID:        req.DropID,
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
		return httptransport.CreateDropResponse{}, err
	}
	return httptransport.CreateDropResponse{Drop: mapDrop(result.Drop)}, nil
}

// GetDropHandler godoc
// @Summary Get drop details
// @Tags drops
// @Produce json
// @Param drop_id path string true "Drop id"
// @Success 200 {object} httptransport.GetDropResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/drops/{drop_id} [get]
func (h Handler) GetDropHandler(ctx context.Context, dropID string) (httptransport.GetDropResponse, error) {
	result, err := h.GetDrop.Execute(ctx, queries.GetDropQuery{DropID: dropID})
	if err != nil {
		return httptransport.GetDropResponse{}, err
	}
	return httptransport.GetDropResponse{Drop: mapDrop(result.Drop)}, nil
}

// ResolveShortCodeHandler godoc
// @Summary Resolve a short code
// @Description Maps a shareable short code to its drop id.
// @Tags drops
// @Produce json
// @Param short_code path string true "Short code"
// @Success 200 {object} httptransport.ResolveShortCodeResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /r/{short_code} [get]
func (h Handler) ResolveShortCodeHandler(ctx context.Context, shortCode string) (httptransport.ResolveShortCodeResponse, error) {
	result, err := h.Resolve.Execute(ctx, queries.ResolveShortCodeQuery{ShortCode: shortCode})
	if err != nil {
		return httptransport.ResolveShortCodeResponse{}, err
	}
	return httptransport.ResolveShortCodeResponse{DropID: result.DropID, ClaimURL: result.ClaimURL}, nil
}

// ListDropsHandler godoc
// @Summary List drops by creator
// @Tags drops
// @Produce json
// @Param creator query string true "Creator wallet address"
// @Success 200 {object} httptransport.ListDropsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/drops [get]
func (h Handler) ListDropsHandler(ctx context.Context, creatorWallet string) (httptransport.ListDropsResponse, error) {
	result, err := h.ListDrops.Execute(ctx, queries.ListDropsByCreatorQuery{CreatorWallet: creatorWallet})
	if err != nil {
		return httptransport.ListDropsResponse{}, err
	}
	items := make([]httptransport.DropDTO, 0, len(result.Drops))
	for _, drop := range result.Drops {
		items = append(items, mapDrop(drop))
	}
	return httptransport.ListDropsResponse{Items: items}, nil
}

// RegistryFailure carries the minted drop id alongside the creation error so
// the HTTP layer can include it in the error payload.
type RegistryFailure struct {
	MintedDropID string
	Err          error
}

func (e *RegistryFailure) Error() string { return e.Err.Error() }
func (e *RegistryFailure) Unwrap() error { return e.Err }

func createCommandFromRequest(req httptransport.CreateDropRequest) (commands.CreateDropCommand, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return commands.CreateDropCommand{}, err
	}
	avax, err := parseAmount(req.AmountAVAX)
	if err != nil {
		return commands.CreateDropCommand{}, err
	}
	usdc, err := parseAmount(req.AmountUSDC)
	if err != nil {
		return commands.CreateDropCommand{}, err
	}
	return commands.CreateDropCommand{
		Token:         req.Token,
		Amount:        amount,
		AmountAVAX:    avax,
		AmountUSDC:    usdc,
		Recipients:    req.Recipients,
		Whitelist:     req.Whitelist,
		CreatorWallet: req.CreatorWallet,
		TwitterHandle: req.TwitterHandle,
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domainerrors.ErrInvalidDropSpec
	}
	return amount, nil
}

func mapDrop(drop entities.Drop) httptransport.DropDTO {
	dto := httptransport.DropDTO{
		DropID:        drop.DropID,
		ShortCode:     drop.ShortCode,
		Token:         string(drop.Token),
		Capacity:      drop.Capacity,
		Whitelist:     append([]string(nil), drop.Whitelist...),
		CreatorWallet: drop.CreatorWallet,
		TwitterHandle: drop.TwitterHandle,
		ClaimURL:      drop.ClaimURL,
		ClaimsCount:   drop.ClaimsCount,
		CreatedAt:     drop.CreatedAt.UTC().Format(time.RFC3339),
	}
	if drop.Token == entities.TokenDual {
		dto.AmountAVAX = drop.AmountAVAX.String()
		dto.AmountUSDC = drop.AmountUSDC.String()
	} else {
		dto.Amount = drop.Amount.String()
	}
	return dto
}
