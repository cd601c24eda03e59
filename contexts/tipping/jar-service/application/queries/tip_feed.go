package queries

import (
	"context"

	"tipdrop/contexts/tipping/jar-service/domain/entities"
	"tipdrop/contexts/tipping/jar-service/ports"
)

type TipFeedQuery struct {
	Limit int
}

type TipFeedResult struct {
	Items []entities.TipFeedItem
}

type TipFeedUseCase struct {
	Tips ports.TipRepository
}

func (u TipFeedUseCase) Execute(ctx context.Context, query TipFeedQuery) (TipFeedResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	items, err := u.Tips.ListTipFeed(ctx, limit)
	if err != nil {
		return TipFeedResult{}, err
	}
	return TipFeedResult{Items: items}, nil
}
