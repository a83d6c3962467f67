package dto

import (
	"time"

	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
)

// TallyResponse is one direction of a balance.
type TallyResponse struct {
	Total string `json:"total"`
	Count int    `json:"count"`
}

// BalanceResponse represents a calculated relative balance in API responses.
type BalanceResponse struct {
	CalculationID    string        `json:"calculation_id"`
	AccountID        string        `json:"account_id"`
	From             time.Time     `json:"from"`
	To               time.Time     `json:"to"`
	Balance          string        `json:"balance"`
	Display          string        `json:"display"`
	TransactionCount int           `json:"transaction_count"`
	Incoming         TallyResponse `json:"incoming"`
	Outgoing         TallyResponse `json:"outgoing"`
	Cached           bool          `json:"cached"`
}

// BalanceFromOutput converts a use case result to a response.
func BalanceFromOutput(out *usecase.CalculateOutput) *BalanceResponse {
	return &BalanceResponse{
		CalculationID:    out.CalculationID,
		AccountID:        out.AccountID,
		From:             out.Window.From,
		To:               out.Window.To,
		Balance:          out.Balance.Amount.StringFixed(2),
		Display:          out.Balance.Display(),
		TransactionCount: out.Balance.TransactionCount,
		Incoming:         tallyFromDomain(out.Balance.Incoming),
		Outgoing:         tallyFromDomain(out.Balance.Outgoing),
		Cached:           out.Cached,
	}
}

func tallyFromDomain(t domain.Tally) TallyResponse {
	return TallyResponse{
		Total: t.Total.StringFixed(2),
		Count: t.Count,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
