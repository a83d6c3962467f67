package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the kind of a ledger record.
type TxnType string

const (
	TxnTypePayment  TxnType = "PAYMENT"
	TxnTypeReversal TxnType = "REVERSAL"
)

// ParseTxnType converts a raw column value to a TxnType.
func ParseTxnType(raw string) (TxnType, error) {
	switch t := TxnType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case TxnTypePayment, TxnTypeReversal:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTxnType, raw)
	}
}

// TransactionRecord is one ledger line as read from a transaction source.
type TransactionRecord struct {
	CreatedAt         time.Time
	ID                string
	FromAccountID     string
	ToAccountID       string
	Amount            decimal.Decimal
	Type              TxnType
	OrigTransactionID *string
}

// Validate checks the type/original-id pairing and the amount sign.
func (r *TransactionRecord) Validate() error {
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	switch r.Type {
	case TxnTypePayment:
		if r.OrigTransactionID != nil {
			return ErrPaymentWithOriginal
		}
	case TxnTypeReversal:
		if r.OrigTransactionID == nil || *r.OrigTransactionID == "" {
			return ErrReversalWithoutOriginal
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTxnType, r.Type)
	}

	return nil
}

// IsPayment reports whether the record moves money.
func (r *TransactionRecord) IsPayment() bool {
	return r.Type == TxnTypePayment
}

// IsReversal reports whether the record cancels an earlier payment.
func (r *TransactionRecord) IsReversal() bool {
	return r.Type == TxnTypeReversal
}

// Window is an open time interval: both bounds are excluded.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t lies strictly between From and To.
func (w Window) Contains(t time.Time) bool {
	return t.After(w.From) && t.Before(w.To)
}
