package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tally is the sum and count of the records selected by one pass.
type Tally struct {
	Total decimal.Decimal
	Count int
}

// RelativeBalance is the net movement of an account over a window.
type RelativeBalance struct {
	Amount           decimal.Decimal
	TransactionCount int
	Incoming         Tally
	Outgoing         Tally
}

// Display renders the amount with an explicit sign and two decimals, e.g. -$25.00.
func (b RelativeBalance) Display() string {
	return FormatAmount(b.Amount)
}

// FormatAmount renders an amount as [-]$X.XX.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + "$" + rounded.Abs().StringFixed(2)
}

// direction selects which side of a record is matched against the account,
// and which record IDs are suppressed for that side.
type direction struct {
	party    func(*TransactionRecord) string
	excluded map[string]struct{}
}

func outgoing(accountID string, records []*TransactionRecord) direction {
	return direction{
		party:    func(r *TransactionRecord) string { return r.FromAccountID },
		excluded: reversedIDs(accountID, records),
	}
}

func incoming() direction {
	return direction{
		party: func(r *TransactionRecord) string { return r.ToAccountID },
	}
}

// reversedIDs collects the original IDs of every reversal issued from accountID.
// Reversals are collected regardless of their own timestamp.
func reversedIDs(accountID string, records []*TransactionRecord) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, r := range records {
		if !r.IsReversal() || r.OrigTransactionID == nil {
			continue
		}
		if !sameAccount(r.FromAccountID, accountID) {
			continue
		}
		ids[strings.ToUpper(*r.OrigTransactionID)] = struct{}{}
	}
	return ids
}

func aggregate(accountID string, window Window, records []*TransactionRecord, dir direction) Tally {
	tally := Tally{Total: decimal.Zero}
	for _, r := range records {
		if !r.IsPayment() || !sameAccount(dir.party(r), accountID) {
			continue
		}
		if _, reversed := dir.excluded[strings.ToUpper(r.ID)]; reversed {
			continue
		}
		if !window.Contains(r.CreatedAt) {
			continue
		}
		tally.Total = tally.Total.Add(r.Amount)
		tally.Count++
	}
	return tally
}

// ComputeRelativeBalance sums payments into accountID and subtracts payments
// out of it, inside the open window. Outgoing payments reversed by the same
// account are skipped; incoming payments are never checked against reversals.
// The input slice is not modified.
func ComputeRelativeBalance(accountID string, window Window, records []*TransactionRecord) RelativeBalance {
	out := aggregate(accountID, window, records, outgoing(accountID, records))
	in := aggregate(accountID, window, records, incoming())

	return RelativeBalance{
		Amount:           in.Total.Sub(out.Total),
		TransactionCount: in.Count + out.Count,
		Incoming:         in,
		Outgoing:         out,
	}
}

func sameAccount(a, b string) bool {
	return strings.EqualFold(a, b)
}
