package queries

import (
	"context"
	"strings"

	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/domain/services"
	"tipdrop/contexts/distribution/drop-service/ports"
)

type ListDropsByCreatorQuery struct {
	CreatorWallet string
}

type ListDropsByCreatorResult struct {
	Drops []entities.Drop
}

type ListDropsByCreatorUseCase struct {
	Repository ports.Repository
}

func (u ListDropsByCreatorUseCase) Execute(ctx context.Context, query ListDropsByCreatorQuery) (ListDropsByCreatorResult, error) {
	wallet := strings.ToLower(strings.TrimSpace(query.CreatorWallet))
	if !services.IsWalletAddress(wallet) {
		return ListDropsByCreatorResult{}, domainerrors.ErrInvalidWallet
	}
	drops, err := u.Repository.ListDropsByCreator(ctx, wallet)
	if err != nil {
		return ListDropsByCreatorResult{}, err
	}
	return ListDropsByCreatorResult{Drops: drops}, nil
}
