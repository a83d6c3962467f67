package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateLayout matches dd/MM/yyyy HH:mm:ss.
const DefaultDateLayout = "02/01/2006 15:04:05"

// ValidateAccountID rejects blank account ids.
func ValidateAccountID(accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrEmptyAccountID
	}
	return nil
}

// ParseWindow parses both bounds with layout and checks that to is after from.
func ParseWindow(from, to, layout string) (Window, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	if from == "" {
		return Window{}, ErrEmptyFromDate
	}
	if to == "" {
		return Window{}, ErrEmptyToDate
	}

	fromAt, err := time.Parse(layout, from)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidDate, from)
	}

	toAt, err := time.Parse(layout, to)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidDate, to)
	}

	if !toAt.After(fromAt) {
		return Window{}, ErrInvalidDateRange
	}

	return Window{From: fromAt, To: toAt}, nil
}

// ValidateInputs runs the account and window checks in the order a user supplies them.
func ValidateInputs(accountID, from, to, layout string) (Window, error) {
	if err := ValidateAccountID(accountID); err != nil {
		return Window{}, err
	}
	return ParseWindow(from, to, layout)
}
