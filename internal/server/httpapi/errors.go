package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/server/auth"
	"github.com/wealflow/wealflow/internal/server/services"
)

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, success bool, msg string) {
	writeJSON(w, status, messageResponse{Success: success, Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrExportDisabled), errors.Is(err, auth.ErrFederationDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError maps a service error to a status and a client-safe message.
// Unexpected errors are logged and reported as "internal error".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg := "internal error"
	var se *services.Error
	switch {
	case errors.As(err, &se):
		msg = se.Message
	case status != http.StatusInternalServerError:
		msg = err.Error()
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeMessage(w, status, false, msg)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &services.Error{Kind: common.ErrorValidation, Message: "Invalid JSON body"}
	}
	return nil
}
