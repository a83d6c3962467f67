package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/relbalance/internal/adapter/csvsource"
	"github.com/iho/relbalance/internal/adapter/http/dto"
	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
)

// DefaultMaxUploadBytes caps uploaded CSV bodies when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// BalanceService defines the interface for balance calculations.
type BalanceService interface {
	Calculate(ctx context.Context, input usecase.CalculateInput, source usecase.TransactionSource) (*usecase.CalculateOutput, error)
	DateLayout() string
}

// BalanceHandler handles relative balance requests.
type BalanceHandler struct {
	service        BalanceService
	defaultSource  usecase.TransactionSource
	maxUploadBytes int64
}

// NewBalanceHandler creates a new BalanceHandler. defaultSource may be nil,
// in which case only uploads are served.
func NewBalanceHandler(service BalanceService, defaultSource usecase.TransactionSource, maxUploadBytes int64) *BalanceHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}

	return &BalanceHandler{
		service:        service,
		defaultSource:  defaultSource,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload handles POST /api/v1/balance with a CSV body.
func (h *BalanceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to read body", err.Error())
		return
	}

	source, err := csvsource.NewUploadSource(body, h.service.DateLayout())
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transactions", err.Error())
		return
	}

	q := r.URL.Query()
	h.calculate(w, r, usecase.CalculateInput{
		AccountID: q.Get("account"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}, source)
}

// GetBalance handles GET /api/v1/accounts/{id}/balance over the configured source.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if h.defaultSource == nil {
		writeError(w, http.StatusServiceUnavailable, "no transaction source", domain.ErrSourceUnavailable.Error())
		return
	}

	q := r.URL.Query()
	h.calculate(w, r, usecase.CalculateInput{
		AccountID: chi.URLParam(r, "id"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}, h.defaultSource)
}

func (h *BalanceHandler) calculate(w http.ResponseWriter, r *http.Request, input usecase.CalculateInput, source usecase.TransactionSource) {
	out, err := h.service.Calculate(r.Context(), input, source)
	if err != nil {
		status := mapDomainError(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			message = fmt.Sprintf("calculation failed: %v", err)
		}
		writeError(w, status, http.StatusText(status), message)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromOutput(out))
}
