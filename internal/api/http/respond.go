package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/logger"
	"locnos-backend/internal/rental"
	"locnos-backend/internal/security"
	"locnos-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps domain and service errors onto HTTP status codes.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, service.ErrWrongStatus):
		status = http.StatusConflict
	case errors.Is(err, rental.ErrInvalidRange),
		errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrPaymentNonPositive),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrDocumentRequired),
		errors.Is(err, service.ErrInternalCodeRequired),
		errors.Is(err, service.ErrDailyRateRequired):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserInactive):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "error", err)
		// Do not leak internals to the client.
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
