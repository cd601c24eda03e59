package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	application "tipdrop/contexts/tipping/jar-service/application"
	"tipdrop/contexts/tipping/jar-service/domain/entities"
	domainerrors "tipdrop/contexts/tipping/jar-service/domain/errors"
	"tipdrop/contexts/tipping/jar-service/domain/services"
	"tipdrop/contexts/tipping/jar-service/ports"
)

type RecordTipCommand struct {
	AuthorHandle string
	TweetID      string
	SenderWallet string
	Amount       decimal.Decimal
	Token        string
}

type RecordTipResult struct {
	Tip entities.Tip
}

type RecordTipUseCase struct {
	Tips   ports.TipRepository
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

func (u RecordTipUseCase) Execute(ctx context.Context, cmd RecordTipCommand) (RecordTipResult, error) {
	logger := application.ResolveLogger(u.Logger)

	handle := services.NormalizeHandle(cmd.AuthorHandle)
	sender := strings.ToLower(strings.TrimSpace(cmd.SenderWallet))
	token := entities.TokenKind(strings.ToUpper(strings.TrimSpace(cmd.Token)))

	if handle == "" || !cmd.Amount.IsPositive() {
		return RecordTipResult{}, domainerrors.ErrInvalidTip
	}
	if token != entities.TokenAVAX && token != entities.TokenUSDC {
		return RecordTipResult{}, domainerrors.ErrInvalidTip
	}
	if !services.IsWalletAddress(sender) {
		return RecordTipResult{}, domainerrors.ErrInvalidWallet
	}

	tipID, err := u.IDs.NewID(ctx)
	if err != nil {
		return RecordTipResult{}, err
	}

	tip := entities.Tip{
		TipID:        tipID,
		AuthorHandle: handle,
		TweetID:      strings.TrimSpace(cmd.TweetID),
		SenderWallet: sender,
		Amount:       cmd.Amount,
		Token:        token,
		CreatedAt:    u.Clock.Now().UTC(),
	}
	if err := u.Tips.CreateTip(ctx, tip); err != nil {
		return RecordTipResult{}, err
	}

	logger.Info("tip recorded",
		"event", "tip_recorded",
		"module", "tipping/jar-service",
		"layer", "application",
		"tip_id", tip.TipID,
		"author_handle", tip.AuthorHandle,
		"token", string(tip.Token),
	)
	return RecordTipResult{Tip: tip}, nil
}
