package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
)

func TestBalanceFromOutput(t *testing.T) {
	from := time.Date(2018, 10, 20, 12, 0, 0, 0, time.UTC)
	to := time.Date(2018, 10, 20, 19, 0, 0, 0, time.UTC)

	out := &usecase.CalculateOutput{
		CalculationID: "01HZX",
		AccountID:     "ACC334455",
		Window:        domain.Window{From: from, To: to},
		Balance: domain.RelativeBalance{
			Amount:           decimal.RequireFromString("-25"),
			TransactionCount: 1,
			Incoming:         domain.Tally{Total: decimal.Zero},
			Outgoing:         domain.Tally{Total: decimal.RequireFromString("25"), Count: 1},
		},
		Cached: true,
	}

	resp := BalanceFromOutput(out)

	if resp.Balance != "-25.00" || resp.Display != "-$25.00" {
		t.Fatalf("unexpected balance fields: %q %q", resp.Balance, resp.Display)
	}
	if resp.Outgoing.Total != "25.00" || resp.Outgoing.Count != 1 {
		t.Fatalf("unexpected outgoing tally: %+v", resp.Outgoing)
	}
	if resp.Incoming.Total != "0.00" {
		t.Fatalf("unexpected incoming tally: %+v", resp.Incoming)
	}
	if !resp.Cached || resp.CalculationID != "01HZX" {
		t.Fatalf("expected metadata to be copied, got %+v", resp)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["transaction_count"] != float64(1) {
		t.Fatalf("expected transaction_count 1, got %v", decoded["transaction_count"])
	}
	if decoded["from"] != "2018-10-20T12:00:00Z" {
		t.Fatalf("expected RFC3339 from, got %v", decoded["from"])
	}
}
