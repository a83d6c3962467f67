package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/relbalance/internal/adapter/http/dto"
	"github.com/iho/relbalance/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrEmptyAccountID),
		errors.Is(err, domain.ErrEmptyFromDate),
		errors.Is(err, domain.ErrEmptyToDate),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedRecord),
		errors.Is(err, domain.ErrUnknownTxnType),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrReversalWithoutOriginal),
		errors.Is(err, domain.ErrPaymentWithOriginal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSourceUnavailable),
		errors.Is(err, domain.ErrInvalidTransactionFile):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
