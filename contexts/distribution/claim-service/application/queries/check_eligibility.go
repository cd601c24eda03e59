package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "tipdrop/contexts/distribution/claim-service/application"
	"tipdrop/contexts/distribution/claim-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/claim-service/domain/errors"
	"tipdrop/contexts/distribution/claim-service/domain/services"
	"tipdrop/contexts/distribution/claim-service/ports"
	"tipdrop/internal/shared/retry"
)

type CheckEligibilityQuery struct {
	DropID        string
	WalletAddress string
}

type CheckEligibilityResult struct {
	Eligibility services.Eligibility
}

// CheckEligibilityUseCase runs the optimistic pre-check for a (drop, wallet)
// pair: drop existence, whitelist membership, prior claim, capacity. Record
// store reads are retried with bounded backoff before surfacing.
type CheckEligibilityUseCase struct {
	Drops  ports.DropDirectory
	Claims ports.ClaimRepository
	Retry  retry.Config
	Logger *slog.Logger
}

func (u CheckEligibilityUseCase) Execute(ctx context.Context, query CheckEligibilityQuery) (CheckEligibilityResult, error) {
	logger := application.ResolveLogger(u.Logger)

	dropID := strings.TrimSpace(query.DropID)
	wallet := strings.ToLower(strings.TrimSpace(query.WalletAddress))
	if dropID == "" || wallet == "" {
		return CheckEligibilityResult{}, domainerrors.ErrInvalidClaimRequest
	}

	var drop entities.DropView
	err := retry.Do(ctx, u.retryConfig(), func() error {
		var loadErr error
		drop, loadErr = u.Drops.GetDrop(ctx, dropID)
		return loadErr
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDropNotFound) {
			return CheckEligibilityResult{
				Eligibility: services.Eligibility{State: services.StateDropNotFound},
			}, nil
		}
		return CheckEligibilityResult{}, u.logReadFailure(logger, "eligibility_drop_read_failed", dropID, wallet, err)
	}

	var existing *entities.Claim
	err = retry.Do(ctx, u.retryConfig(), func() error {
		claim, found, loadErr := u.Claims.GetClaim(ctx, dropID, wallet)
		if loadErr != nil {
			return loadErr
		}
		if found {
			existing = &claim
		}
		return nil
	})
	if err != nil {
		return CheckEligibilityResult{}, u.logReadFailure(logger, "eligibility_claim_read_failed", dropID, wallet, err)
	}

	var claimCount int
	err = retry.Do(ctx, u.retryConfig(), func() error {
		count, loadErr := u.Claims.CountClaims(ctx, dropID)
		if loadErr != nil {
			return loadErr
		}
		claimCount = count
		return nil
	})
	if err != nil {
		return CheckEligibilityResult{}, u.logReadFailure(logger, "eligibility_count_read_failed", dropID, wallet, err)
	}

	return CheckEligibilityResult{
		Eligibility: services.Evaluate(drop, existing, claimCount, wallet),
	}, nil
}

func (u CheckEligibilityUseCase) retryConfig() retry.Config {
	if u.Retry.MaxAttempts > 0 {
		return u.Retry
	}
	return retry.DefaultConfig()
}

func (u CheckEligibilityUseCase) logReadFailure(logger *slog.Logger, event, dropID, wallet string, err error) error {
	logger.Error("eligibility pre-check read failed",
		"event", event,
		"module", "distribution/claim-service",
		"layer", "application",
		"drop_id", dropID,
		"wallet_address", wallet,
		"error", err.Error(),
	)
	return err
}
