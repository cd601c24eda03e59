package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	claimerrors "tipdrop/contexts/distribution/claim-service/domain/errors"
	"tipdrop/contexts/distribution/claim-service/domain/services"
	claimhttp "tipdrop/contexts/distribution/claim-service/transport/http"
)

func (s *Server) handleAttemptClaim(w http.ResponseWriter, r *http.Request) {
	var req claimhttp.AttemptClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeClaimError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.claims.Handler.AttemptClaimHandler(r.Context(), r.PathValue("drop_id"), req)
	if err != nil {
		writeClaimDomainError(w, err)
		return
	}

	status := http.StatusOK
	if resp.Status == string(services.StateClaimed) {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	wallet := strings.TrimSpace(r.URL.Query().Get("wallet"))
	if wallet == "" {
		writeClaimError(w, http.StatusBadRequest, "missing_wallet", "wallet query parameter is required")
		return
	}

	resp, err := s.claims.Handler.CheckEligibilityHandler(r.Context(), r.PathValue("drop_id"), wallet)
	if err != nil {
		writeClaimDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	resp, err := s.claims.Handler.ListClaimsHandler(r.Context(), r.PathValue("drop_id"))
	if err != nil {
		writeClaimDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListWalletClaims(w http.ResponseWriter, r *http.Request) {
	resp, err := s.claims.Handler.ListWalletClaimsHandler(r.Context(), r.PathValue("wallet"))
	if err != nil {
		writeClaimDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeClaimDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claimerrors.ErrInvalidClaimRequest):
		writeClaimError(w, http.StatusBadRequest, "invalid_claim_request", err.Error())
	case errors.Is(err, claimerrors.ErrDropNotFound):
		writeClaimError(w, http.StatusNotFound, "drop_not_found", err.Error())
	case errors.Is(err, claimerrors.ErrClaimExists):
		writeClaimError(w, http.StatusConflict, "claim_exists", err.Error())
	case errors.Is(err, claimerrors.ErrSettlementFailed):
		writeClaimError(w, http.StatusBadGateway, "settlement_failed", err.Error())
	default:
		writeClaimError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeClaimError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, claimhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
