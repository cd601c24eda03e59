package queries

import (
	"context"
	"strings"

	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/ports"
)

type GetDropQuery struct {
	DropID string
}

type GetDropResult struct {
	Drop entities.Drop
}

type GetDropUseCase struct {
	Repository ports.Repository
}

func (u GetDropUseCase) Execute(ctx context.Context, query GetDropQuery) (GetDropResult, error) {
	dropID := strings.TrimSpace(query.DropID)
	if dropID == "" {
		return GetDropResult{}, domainerrors.ErrDropNotFound
	}
	drop, err := u.Repository.GetDrop(ctx, dropID)
	if err != nil {
		return GetDropResult{}, err
	}
	return GetDropResult{Drop: drop}, nil
}
