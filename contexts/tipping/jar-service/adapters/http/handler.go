package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tipdrop/contexts/tipping/jar-service/application/commands"
	"tipdrop/contexts/tipping/jar-service/application/queries"
	"tipdrop/contexts/tipping/jar-service/domain/entities"
	domainerrors "tipdrop/contexts/tipping/jar-service/domain/errors"
	httptransport "tipdrop/contexts/tipping/jar-service/transport/http"
)

type Handler struct {
	Deposit      commands.DepositUseCase
	RecordTip    commands.RecordTipUseCase
	UpsertWallet commands.UpsertWalletUseCase
	GetBalance   queries.GetJarBalanceUseCase
	TipFeed      queries.TipFeedUseCase
	Totals       queries.UnclaimedTotalsUseCase
	Logger       *slog.Logger
}

// DepositHandler godoc
// @Summary Deposit into the tip jar
// @Description Settles a native-token deposit and returns the refreshed jar balance.
// @Tags jar
// @Accept json
// @Produce json
// @Param request body httptransport.DepositRequest true "Deposit payload"
// @Success 201 {object} httptransport.DepositResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/jar/deposits [post]
func (h Handler) DepositHandler(ctx context.Context, req httptransport.DepositRequest) (httptransport.DepositResponse, error) {
	amount, err := parseAmount(req.Amount, domainerrors.ErrInvalidDeposit)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	result, err := h.Deposit.Execute(ctx, commands.DepositCommand{
		WalletAddress: req.WalletAddress,
		Amount:        amount,
	})
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	return httptransport.DepositResponse{
		TxHash:  result.TxHash,
		Balance: mapBalance(result.Balance),
	}, nil
}

// GetBalanceHandler godoc
// @Summary Read a wallet's cached jar balance
// @Tags jar
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} httptransport.GetBalanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/jar/{wallet}/balance [get]
func (h Handler) GetBalanceHandler(ctx context.Context, wallet string) (httptransport.GetBalanceResponse, error) {
	result, err := h.GetBalance.Execute(ctx, queries.GetJarBalanceQuery{WalletAddress: wallet})
	if err != nil {
		return httptransport.GetBalanceResponse{}, err
	}
	return httptransport.GetBalanceResponse{Balance: mapBalance(result.Balance)}, nil
}

// RecordTipHandler godoc
// @Summary Record a tip
// @Tags tips
// @Accept json
// @Produce json
// @Param request body httptransport.RecordTipRequest true "Tip payload"
// @Success 201 {object} httptransport.RecordTipResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/tips [post]
func (h Handler) RecordTipHandler(ctx context.Context, req httptransport.RecordTipRequest) (httptransport.RecordTipResponse, error) {
	amount, err := parseAmount(req.Amount, domainerrors.ErrInvalidTip)
	if err != nil {
		return httptransport.RecordTipResponse{}, err
	}
	result, err := h.RecordTip.Execute(ctx, commands.RecordTipCommand{
		AuthorHandle: req.AuthorHandle,
		TweetID:      req.TweetID,
		SenderWallet: req.SenderWallet,
		Amount:       amount,
		Token:        req.Token,
	})
	if err != nil {
		return httptransport.RecordTipResponse{}, err
	}
	return httptransport.RecordTipResponse{Tip: mapTip(result.Tip, "", "")}, nil
}

// TipFeedHandler godoc
// @Summary List recent tips, newest first
// @Tags tips
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {object} httptransport.TipFeedResponse
// @Router /v1/tips [get]
func (h Handler) TipFeedHandler(ctx context.Context, limit int) (httptransport.TipFeedResponse, error) {
	result, err := h.TipFeed.Execute(ctx, queries.TipFeedQuery{Limit: limit})
	if err != nil {
		return httptransport.TipFeedResponse{}, err
	}
	items := make([]httptransport.TipDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapTip(item.Tip, item.SenderHandle, item.SenderAvatarURL))
	}
	return httptransport.TipFeedResponse{Items: items}, nil
}

// UnclaimedTotalsHandler godoc
// @Summary Sum a handle's unclaimed tips, split by token
// @Tags tips
// @Produce json
// @Param handle query string true "Author handle"
// @Success 200 {object} httptransport.UnclaimedTotalsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/tips/totals [get]
func (h Handler) UnclaimedTotalsHandler(ctx context.Context, handle string) (httptransport.UnclaimedTotalsResponse, error) {
	result, err := h.Totals.Execute(ctx, queries.UnclaimedTotalsQuery{AuthorHandle: handle})
	if err != nil {
		return httptransport.UnclaimedTotalsResponse{}, err
	}
	return httptransport.UnclaimedTotalsResponse{
		AuthorHandle:  result.Totals.AuthorHandle,
		UnclaimedAVAX: result.Totals.AVAX.String(),
		UnclaimedUSDC: result.Totals.USDC.String(),
	}, nil
}

// UpsertWalletHandler godoc
// @Summary Upsert a wallet profile
// @Tags wallets
// @Accept json
// @Produce json
// @Param request body httptransport.UpsertWalletRequest true "Wallet profile"
// @Success 200 {object} httptransport.UpsertWalletResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/wallets [post]
func (h Handler) UpsertWalletHandler(ctx context.Context, req httptransport.UpsertWalletRequest) (httptransport.UpsertWalletResponse, error) {
	result, err := h.UpsertWallet.Execute(ctx, commands.UpsertWalletCommand{
		WalletAddress: req.WalletAddress,
		TwitterHandle: req.TwitterHandle,
		AvatarURL:     req.AvatarURL,
	})
	if err != nil {
		return httptransport.UpsertWalletResponse{}, err
	}
	return httptransport.UpsertWalletResponse{
		WalletAddress: result.Profile.WalletAddress,
		TwitterHandle: result.Profile.TwitterHandle,
		AvatarURL:     result.Profile.AvatarURL,
		UpdatedAt:     result.Profile.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func parseAmount(raw string, invalid error) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, invalid
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid
	}
	return amount, nil
}

func mapBalance(balance entities.JarBalance) httptransport.JarBalanceDTO {
	return httptransport.JarBalanceDTO{
		WalletAddress: balance.WalletAddress,
		Balance:       balance.Balance.String(),
		RefreshedAt:   balance.RefreshedAt.UTC().Format(time.RFC3339),
	}
}

func mapTip(tip entities.Tip, senderHandle, senderAvatarURL string) httptransport.TipDTO {
	return httptransport.TipDTO{
		TipID:           tip.TipID,
		AuthorHandle:    tip.AuthorHandle,
		TweetID:         tip.TweetID,
		SenderWallet:    tip.SenderWallet,
		SenderHandle:    senderHandle,
		SenderAvatarURL: senderAvatarURL,
		Amount:          tip.Amount.String(),
		Token:           string(tip.Token),
		Claimed:         tip.Claimed,
		CreatedAt:       tip.CreatedAt.UTC().Format(time.RFC3339),
	}
}
