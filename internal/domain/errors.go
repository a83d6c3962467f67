package domain

import "errors"

var (
	// Input errors
	ErrEmptyAccountID   = errors.New("account id is empty")
	ErrEmptyFromDate    = errors.New("from date is empty")
	ErrEmptyToDate      = errors.New("to date is empty")
	ErrInvalidDate      = errors.New("either from date or to date is invalid")
	ErrInvalidDateRange = errors.New("from-date is later than to-date")

	// Transaction file errors
	ErrMissingTransactionFile = errors.New("input transaction file name not provided")
	ErrInvalidTransactionFile = errors.New("either transaction file does not exist or is not in CSV format")

	// Record errors
	ErrMalformedRecord         = errors.New("malformed transaction record")
	ErrUnknownTxnType          = errors.New("unknown transaction type")
	ErrNegativeAmount          = errors.New("amount must not be negative")
	ErrReversalWithoutOriginal = errors.New("reversal must reference an original transaction")
	ErrPaymentWithOriginal     = errors.New("payment must not reference an original transaction")

	// Source errors
	ErrSourceUnavailable = errors.New("no transaction source configured")
)
