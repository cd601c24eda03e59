package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "tipdrop/contexts/distribution/claim-service/application"
	"tipdrop/contexts/distribution/claim-service/application/queries"
	"tipdrop/contexts/distribution/claim-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/claim-service/domain/errors"
	"tipdrop/contexts/distribution/claim-service/domain/services"
	"tipdrop/contexts/distribution/claim-service/ports"
)

type AttemptClaimCommand struct {
	DropID        string
	WalletAddress string
}

// AttemptClaimResult reports the outcome of a claim attempt as a typed state.
// Claim is populated for StateClaimed and StateAlreadyClaimed; Replayed marks
// the case where the wallet's claim was recorded concurrently and the stored
// record is returned instead of a fresh settlement.
type AttemptClaimResult struct {
	State         services.State
	Claim         *entities.Claim
	Capacity      int
	ClaimCount    int
	FailureReason string
	Replayed      bool
}

// AttemptClaimUseCase gates claim attempts. The local pre-check is
// advisory only: the settlement layer remains the capacity authority, and
// the (drop_id, wallet_address) uniqueness constraint in the record store is
// the only local exclusion claimed. A wallet that fails the pre-check never
// reaches settlement.
type AttemptClaimUseCase struct {
	Eligibility queries.CheckEligibilityUseCase
	Claims      ports.ClaimRepository
	Settlement  ports.Settlement
	Clock       ports.Clock
	IDs         ports.IDGenerator
	Logger      *slog.Logger
}

func (u AttemptClaimUseCase) Execute(ctx context.Context, cmd AttemptClaimCommand) (AttemptClaimResult, error) {
	logger := application.ResolveLogger(u.Logger)

	dropID := strings.TrimSpace(cmd.DropID)
	wallet := strings.ToLower(strings.TrimSpace(cmd.WalletAddress))
	if dropID == "" || wallet == "" {
		return AttemptClaimResult{}, domainerrors.ErrInvalidClaimRequest
	}

	check, err := u.Eligibility.Execute(ctx, queries.CheckEligibilityQuery{
		DropID:        dropID,
		WalletAddress: wallet,
	})
	if err != nil {
		return AttemptClaimResult{}, err
	}

	eligibility := check.Eligibility
	if eligibility.State != services.StateEligible {
		logger.Info("claim attempt rejected by pre-check",
			"event", "claim_precheck_rejected",
			"module", "distribution/claim-service",
			"layer", "application",
			"drop_id", dropID,
			"wallet_address", wallet,
			"state", string(eligibility.State),
		)
		return AttemptClaimResult{
			State:      eligibility.State,
			Claim:      eligibility.Existing,
			Capacity:   eligibility.Capacity,
			ClaimCount: eligibility.ClaimCount,
		}, nil
	}

	txHash, err := u.Settlement.Claim(ctx, dropID, wallet)
	if err != nil {
		logger.Warn("claim settlement failed",
			"event", "claim_settlement_failed",
			"module", "distribution/claim-service",
			"layer", "application",
			"drop_id", dropID,
			"wallet_address", wallet,
			"error", err.Error(),
		)
		return AttemptClaimResult{
			State:         services.StateSettlementFailed,
			Capacity:      eligibility.Capacity,
			ClaimCount:    eligibility.ClaimCount,
			FailureReason: fmt.Errorf("%w: %v", domainerrors.ErrSettlementFailed, err).Error(),
		}, nil
	}

	claim := entities.NewClaim(dropID, wallet, txHash, u.Clock.Now())
	eventID, err := u.IDs.NewID(ctx)
	if err != nil {
		return AttemptClaimResult{}, fmt.Errorf("claim settled with tx %s but event id generation failed: %w", txHash, err)
	}
	err = u.Claims.RecordClaimWithOutbox(ctx, claim, u.settledEvent(eventID, claim))
	if errors.Is(err, domainerrors.ErrClaimExists) {
		// A concurrent attempt for the same wallet won the record-store
		// race. The settlement layer already deduplicates payouts, so the
		// stored claim is returned and this settlement reference is only
		// logged for reconciliation.
		existing, found, loadErr := u.Claims.GetClaim(ctx, dropID, wallet)
		if loadErr != nil || !found {
			return AttemptClaimResult{}, fmt.Errorf("claim for drop %s wallet %s recorded concurrently but unreadable: %w", dropID, wallet, loadErr)
		}
		logger.Warn("claim recorded concurrently, replaying stored claim",
			"event", "claim_record_replayed",
			"module", "distribution/claim-service",
			"layer", "application",
			"drop_id", dropID,
			"wallet_address", wallet,
			"stored_tx_hash", existing.TxHash,
			"discarded_tx_hash", txHash,
		)
		return AttemptClaimResult{
			State:      services.StateAlreadyClaimed,
			Claim:      &existing,
			Capacity:   eligibility.Capacity,
			ClaimCount: eligibility.ClaimCount,
			Replayed:   true,
		}, nil
	}
	if err != nil {
		// The payout settled but the local record write failed. Never
		// re-settle: surface the tx hash so the record can be recovered.
		logger.Error("claim settled but ledger write failed",
			"event", "claim_ledger_write_failed",
			"module", "distribution/claim-service",
			"layer", "application",
			"drop_id", dropID,
			"wallet_address", wallet,
			"tx_hash", txHash,
			"error", err.Error(),
		)
		return AttemptClaimResult{}, fmt.Errorf("claim settled with tx %s but ledger write failed: %w", txHash, err)
	}

	logger.Info("claim settled and recorded",
		"event", "claim_settled",
		"module", "distribution/claim-service",
		"layer", "application",
		"drop_id", dropID,
		"wallet_address", wallet,
		"tx_hash", txHash,
	)

	return AttemptClaimResult{
		State:      services.StateClaimed,
		Claim:      &claim,
		Capacity:   eligibility.Capacity,
		ClaimCount: eligibility.ClaimCount + 1,
	}, nil
}

func (u AttemptClaimUseCase) settledEvent(eventID string, claim entities.Claim) ports.ClaimSettledEvent {
	return ports.ClaimSettledEvent{
		EventID:       eventID,
		DropID:        claim.DropID,
		WalletAddress: claim.WalletAddress,
		TxHash:        claim.TxHash,
		OccurredAt:    claim.ClaimedAt,
	}
}
