package queries

import (
	"context"
	"strings"

	"tipdrop/contexts/distribution/claim-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/claim-service/domain/errors"
	"tipdrop/contexts/distribution/claim-service/ports"
)

type ListClaimsByDropQuery struct {
	DropID string
}

type ListClaimsByDropResult struct {
	Claims []entities.Claim
}

type ListClaimsByDropUseCase struct {
	Claims ports.ClaimRepository
}

func (u ListClaimsByDropUseCase) Execute(ctx context.Context, query ListClaimsByDropQuery) (ListClaimsByDropResult, error) {
	dropID := strings.TrimSpace(query.DropID)
	if dropID == "" {
		return ListClaimsByDropResult{}, domainerrors.ErrInvalidClaimRequest
	}
	claims, err := u.Claims.ListClaimsByDrop(ctx, dropID)
	if err != nil {
		return ListClaimsByDropResult{}, err
	}
	return ListClaimsByDropResult{Claims: claims}, nil
}

type ListClaimsByWalletQuery struct {
	WalletAddress string
}

type ListClaimsByWalletResult struct {
	Claims []entities.Claim
}

type ListClaimsByWalletUseCase struct {
	Claims ports.ClaimRepository
}

func (u ListClaimsByWalletUseCase) Execute(ctx context.Context, query ListClaimsByWalletQuery) (ListClaimsByWalletResult, error) {
	wallet := strings.ToLower(strings.TrimSpace(query.WalletAddress))
	if wallet == "" {
		return ListClaimsByWalletResult{}, domainerrors.ErrInvalidClaimRequest
	}
	claims, err := u.Claims.ListClaimsByWallet(ctx, wallet)
	if err != nil {
		return ListClaimsByWalletResult{}, err
	}
	return ListClaimsByWalletResult{Claims: claims}, nil
}
