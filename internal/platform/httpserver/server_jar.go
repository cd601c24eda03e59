package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	jarerrors "tipdrop/contexts/tipping/jar-service/domain/errors"
	jarhttp "tipdrop/contexts/tipping/jar-service/transport/http"
)

func (s *Server) handleJarDeposit(w http.ResponseWriter, r *http.Request) {
	var req jarhttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.jar.Handler.DepositHandler(r.Context(), req)
	if err != nil {
		writeJarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleJarBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.jar.Handler.GetBalanceHandler(r.Context(), r.PathValue("wallet"))
	if err != nil {
		writeJarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordTip(w http.ResponseWriter, r *http.Request) {
	var req jarhttp.RecordTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.jar.Handler.RecordTipHandler(r.Context(), req)
	if err != nil {
		writeJarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleTipFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJarError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.jar.Handler.TipFeedHandler(r.Context(), limit)
	if err != nil {
		writeJarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnclaimedTotals(w http.ResponseWriter, r *http.Request) {
	handle := strings.TrimSpace(r.URL.Query().Get("handle"))
	if handle == "" {
		writeJarError(w, http.StatusBadRequest, "missing_handle", "handle query parameter is required")
		return
	}

	resp, err := s.jar.Handler.UnclaimedTotalsHandler(r.Context(), handle)
	if err != nil {
		writeJarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertWallet(w http.ResponseWriter, r *http.Request) {
	var req jarhttp.UpsertWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.jar.Handler.UpsertWalletHandler(r.Context(), req)
	if err != nil {
		writeJarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJarDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jarerrors.ErrInvalidWallet),
		errors.Is(err, jarerrors.ErrInvalidDeposit),
		errors.Is(err, jarerrors.ErrInvalidTip):
		writeJarError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, jarerrors.ErrBalanceNotTracked):
		writeJarError(w, http.StatusNotFound, "balance_not_tracked", err.Error())
	case errors.Is(err, jarerrors.ErrSettlementFailed):
		writeJarError(w, http.StatusBadGateway, "settlement_failed", err.Error())
	default:
		writeJarError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJarError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, jarhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
