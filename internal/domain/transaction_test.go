package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseTxnType(t *testing.T) {
	tests := []struct {
		input   string
		want    TxnType
		wantErr bool
	}{
		{"PAYMENT", TxnTypePayment, false},
		{" REVERSAL ", TxnTypeReversal, false},
		{"payment", TxnTypePayment, false},
		{"REFUND", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTxnType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseTxnType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownTxnType) {
			t.Fatalf("expected ErrUnknownTxnType, got %v", err)
		}
		if got != tt.want {
			t.Fatalf("ParseTxnType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTransactionRecord_Validate(t *testing.T) {
	orig := "TX1"
	empty := ""

	tests := []struct {
		name    string
		record  TransactionRecord
		wantErr error
	}{
		{
			name:   "payment",
			record: TransactionRecord{Type: TxnTypePayment, Amount: decimal.NewFromInt(1)},
		},
		{
			name:   "reversal",
			record: TransactionRecord{Type: TxnTypeReversal, Amount: decimal.NewFromInt(1), OrigTransactionID: &orig},
		},
		{
			name:    "reversal without original",
			record:  TransactionRecord{Type: TxnTypeReversal, Amount: decimal.NewFromInt(1)},
			wantErr: ErrReversalWithoutOriginal,
		},
		{
			name:    "reversal with blank original",
			record:  TransactionRecord{Type: TxnTypeReversal, Amount: decimal.NewFromInt(1), OrigTransactionID: &empty},
			wantErr: ErrReversalWithoutOriginal,
		},
		{
			name:    "payment with original",
			record:  TransactionRecord{Type: TxnTypePayment, Amount: decimal.NewFromInt(1), OrigTransactionID: &orig},
			wantErr: ErrPaymentWithOriginal,
		},
		{
			name:    "negative amount",
			record:  TransactionRecord{Type: TxnTypePayment, Amount: decimal.NewFromInt(-1)},
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "unknown type",
			record:  TransactionRecord{Type: "REFUND", Amount: decimal.NewFromInt(1)},
			wantErr: ErrUnknownTxnType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	from := time.Date(2018, 10, 20, 12, 0, 0, 0, time.UTC)
	to := time.Date(2018, 10, 20, 19, 0, 0, 0, time.UTC)
	w := Window{From: from, To: to}

	if w.Contains(from) || w.Contains(to) {
		t.Fatal("expected bounds to be excluded")
	}
	if !w.Contains(from.Add(time.Second)) || !w.Contains(to.Add(-time.Second)) {
		t.Fatal("expected instants just inside the bounds to be included")
	}
	if w.Contains(from.Add(-time.Hour)) || w.Contains(to.Add(time.Hour)) {
		t.Fatal("expected instants outside the window to be excluded")
	}
}
