package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/iho/relbalance/internal/domain"
)

// MapDomainError converts domain errors to gRPC status errors. Input and
// record errors keep their message since it tells the caller what to fix.
func MapDomainError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	// Invalid Argument errors
	case errors.Is(err, domain.ErrEmptyAccountID),
		errors.Is(err, domain.ErrEmptyFromDate),
		errors.Is(err, domain.ErrEmptyToDate),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrMalformedRecord),
		errors.Is(err, domain.ErrUnknownTxnType),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrReversalWithoutOriginal),
		errors.Is(err, domain.ErrPaymentWithOriginal):
		return status.Error(codes.InvalidArgument, err.Error())

	// Source errors
	case errors.Is(err, domain.ErrSourceUnavailable),
		errors.Is(err, domain.ErrInvalidTransactionFile):
		return status.Error(codes.Unavailable, "transaction source unavailable")

	// Context errors (timeouts, cancellations)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "operation timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "operation was canceled")

	default:
		return status.Error(codes.Internal, "an internal error occurred")
	}
}
