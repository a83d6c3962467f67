package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/relbalance/internal/adapter/http/dto"
	"github.com/iho/relbalance/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"empty account", domain.ErrEmptyAccountID, http.StatusBadRequest},
		{"empty from", domain.ErrEmptyFromDate, http.StatusBadRequest},
		{"empty to", domain.ErrEmptyToDate, http.StatusBadRequest},
		{"invalid date", fmt.Errorf("%w: x", domain.ErrInvalidDate), http.StatusBadRequest},
		{"inverted range", domain.ErrInvalidDateRange, http.StatusBadRequest},
		{"malformed row", fmt.Errorf("line 3: %w", domain.ErrMalformedRecord), http.StatusUnprocessableEntity},
		{"unknown type", domain.ErrUnknownTxnType, http.StatusUnprocessableEntity},
		{"reversal without original", domain.ErrReversalWithoutOriginal, http.StatusUnprocessableEntity},
		{"no source", domain.ErrSourceUnavailable, http.StatusServiceUnavailable},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "invalid request", "details")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %s", ct)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Error != "invalid request" || resp.Message != "details" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}
