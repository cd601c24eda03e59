package queries

import (
	"context"

	"tipdrop/contexts/tipping/jar-service/domain/entities"
	domainerrors "tipdrop/contexts/tipping/jar-service/domain/errors"
	"tipdrop/contexts/tipping/jar-service/domain/services"
	"tipdrop/contexts/tipping/jar-service/ports"
)

type UnclaimedTotalsQuery struct {
	AuthorHandle string
}

type UnclaimedTotalsResult struct {
	Totals entities.UnclaimedTotals
}

type UnclaimedTotalsUseCase struct {
	Tips ports.TipRepository
}

func (u UnclaimedTotalsUseCase) Execute(ctx context.Context, query UnclaimedTotalsQuery) (UnclaimedTotalsResult, error) {
	handle := services.NormalizeHandle(query.AuthorHandle)
	if handle == "" {
		return UnclaimedTotalsResult{}, domainerrors.ErrInvalidTip
	}
	totals, err := u.Tips.UnclaimedTotals(ctx, handle)
	if err != nil {
		return UnclaimedTotalsResult{}, err
	}
	return UnclaimedTotalsResult{Totals: totals}, nil
}
