package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"tipdrop/contexts/distribution/claim-service/application/commands"
	"tipdrop/contexts/distribution/claim-service/application/queries"
	"tipdrop/contexts/distribution/claim-service/domain/entities"
	httptransport "tipdrop/contexts/distribution/claim-service/transport/http"
)

type Handler struct {
	AttemptClaim     commands.AttemptClaimUseCase
	CheckEligibility queries.CheckEligibilityUseCase
	ListByDrop       queries.ListClaimsByDropUseCase
	ListByWallet     queries.ListClaimsByWalletUseCase
	Logger           *slog.Logger
}

// AttemptClaimHandler godoc
// @Summary Attempt a claim against a drop
// @Description Runs the eligibility pre-check and, if it passes, settles the payout and records the claim. The outcome is returned as a status, not an error.
// @Tags claims
// @Accept json
// @Produce json
// @Param drop_id path string true "Drop id"
// @Param request body httptransport.AttemptClaimRequest true "Claiming wallet"
// @Success 200 {object} httptransport.AttemptClaimResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/drops/{drop_id}/claims [post]
func (h Handler) AttemptClaimHandler(ctx context.Context, dropID string, req httptransport.AttemptClaimRequest) (httptransport.AttemptClaimResponse, error) {
	result, err := h.AttemptClaim.Execute(ctx, commands.AttemptClaimCommand{
		DropID:        dropID,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		return httptransport.AttemptClaimResponse{}, err
	}
	return httptransport.AttemptClaimResponse{
		Status:     string(result.State),
		Claim:      mapClaimPtr(result.Claim),
		Capacity:   result.Capacity,
		ClaimCount: result.ClaimCount,
		Reason:     result.FailureReason,
	}, nil
}

// CheckEligibilityHandler godoc
// @Summary Check claim eligibility
// @Description Advisory pre-check only: a passing result does not reserve a payout slot.
// @Tags claims
// @Produce json
// @Param drop_id path string true "Drop id"
// @Param wallet query string true "Wallet address"
// @Success 200 {object} httptransport.EligibilityResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/drops/{drop_id}/eligibility [get]
func (h Handler) CheckEligibilityHandler(ctx context.Context, dropID, wallet string) (httptransport.EligibilityResponse, error) {
	result, err := h.CheckEligibility.Execute(ctx, queries.CheckEligibilityQuery{
		DropID:        dropID,
		WalletAddress: wallet,
	})
	if err != nil {
		return httptransport.EligibilityResponse{}, err
	}
	eligibility := result.Eligibility
	return httptransport.EligibilityResponse{
		Status:     string(eligibility.State),
		Capacity:   eligibility.Capacity,
		ClaimCount: eligibility.ClaimCount,
		Claim:      mapClaimPtr(eligibility.Existing),
	}, nil
}

// ListClaimsHandler godoc
// @Summary List claims recorded for a drop
// @Tags claims
// @Produce json
// @Param drop_id path string true "Drop id"
// @Success 200 {object} httptransport.ListClaimsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/drops/{drop_id}/claims [get]
func (h Handler) ListClaimsHandler(ctx context.Context, dropID string) (httptransport.ListClaimsResponse, error) {
	result, err := h.ListByDrop.Execute(ctx, queries.ListClaimsByDropQuery{DropID: dropID})
	if err != nil {
		return httptransport.ListClaimsResponse{}, err
	}
	return httptransport.ListClaimsResponse{Items: mapClaims(result.Claims)}, nil
}

// ListWalletClaimsHandler godoc
// @Summary List claims recorded for a wallet
// @Tags claims
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} httptransport.ListClaimsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/wallets/{wallet}/claims [get]
func (h Handler) ListWalletClaimsHandler(ctx context.Context, wallet string) (httptransport.ListClaimsResponse, error) {
	result, err := h.ListByWallet.Execute(ctx, queries.ListClaimsByWalletQuery{WalletAddress: wallet})
	if err != nil {
		return httptransport.ListClaimsResponse{}, err
	}
	return httptransport.ListClaimsResponse{Items: mapClaims(result.Claims)}, nil
}

func mapClaims(claims []entities.Claim) []httptransport.ClaimDTO {
	items := make([]httptransport.ClaimDTO, 0, len(claims))
	for _, claim := range claims {
		items = append(items, mapClaim(claim))
	}
	return items
}

func mapClaimPtr(claim *entities.Claim) *httptransport.ClaimDTO {
	if claim == nil {
		return nil
	}
	dto := mapClaim(*claim)
	return &dto
}

func mapClaim(claim entities.Claim) httptransport.ClaimDTO {
	return httptransport.ClaimDTO{
		DropID:        claim.DropID,
		WalletAddress: claim.WalletAddress,
		TxHash:        claim.TxHash,
		ClaimedAt:     claim.ClaimedAt.UTC().Format(time.RFC3339),
	}
}
