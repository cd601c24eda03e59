package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	dropadapter "tipdrop/contexts/distribution/drop-service/adapters/http"
	droperrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	drophttp "tipdrop/contexts/distribution/drop-service/transport/http"
)

func (s *Server) handleCreateDrop(w http.ResponseWriter, r *http.Request) {
	var req drophttp.CreateDropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDropError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.drops.Handler.CreateDropHandler(r.Context(), req)
	if err != nil {
		writeDropDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRecoverDrop(w http.ResponseWriter, r *http.Request) {
	var req drophttp.RecoverDropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDropError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.drops.Handler.RecoverDropHandler(r.Context(), req)
	if err != nil {
		writeDropDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetDrop(w http.ResponseWriter, r *http.Request) {
	resp, err := s.drops.Handler.GetDropHandler(r.Context(), r.PathValue("drop_id"))
	if err != nil {
		writeDropDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveShortCode(w http.ResponseWriter, r *http.Request) {
	resp, err := s.drops.Handler.ResolveShortCodeHandler(r.Context(), r.PathValue("short_code"))
	if err != nil {
		writeDropDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDrops(w http.ResponseWriter, r *http.Request) {
	creator := strings.TrimSpace(r.URL.Query().Get("creator"))
	if creator == "" {
		writeDropError(w, http.StatusBadRequest, "missing_creator", "creator query parameter is required")
		return
	}

	resp, err := s.drops.Handler.ListDropsHandler(r.Context(), creator)
	if err != nil {
		writeDropDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDropDomainError(w http.ResponseWriter, err error) {
	var registryFailure *dropadapter.RegistryFailure
	if errors.As(err, &registryFailure) && errors.Is(err, droperrors.ErrRegistryWriteFailed) {
		writeJSON(w, http.StatusBadGateway, drophttp.ErrorResponse{
			Code:         "registry_write_failed",
			Message:      err.Error(),
			MintedDropID: registryFailure.MintedDropID,
		})
		return
	}

	switch {
	case errors.Is(err, droperrors.ErrInvalidDropSpec),
		errors.Is(err, droperrors.ErrInvalidWallet):
		writeDropError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, droperrors.ErrDropNotFound):
		writeDropError(w, http.StatusNotFound, "drop_not_found", err.Error())
	case errors.Is(err, droperrors.ErrShortCodeNotFound):
		writeDropError(w, http.StatusNotFound, "short_code_not_found", err.Error())
	case errors.Is(err, droperrors.ErrDropExists):
		writeDropError(w, http.StatusConflict, "drop_exists", err.Error())
	case errors.Is(err, droperrors.ErrSettlementFailed):
		writeDropError(w, http.StatusBadGateway, "settlement_failed", err.Error())
	case errors.Is(err, droperrors.ErrRegistryWriteFailed):
		writeDropError(w, http.StatusBadGateway, "registry_write_failed", err.Error())
	case errors.Is(err, droperrors.ErrShortCodeSpaceExhausted):
		writeDropError(w, http.StatusServiceUnavailable, "short_code_space_exhausted", err.Error())
	default:
		writeDropError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDropError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, drophttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
