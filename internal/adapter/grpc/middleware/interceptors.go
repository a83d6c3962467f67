package middleware

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryLogging logs each unary call with its status code.
func UnaryLogging(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := logger.Info()
		if code == codes.Internal || code == codes.Unknown {
			event = logger.Error().Err(err)
		}

		event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("rpc completed")

		return resp, err
	}
}

// UnaryRecovery turns panics into codes.Internal.
func UnaryRecovery(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("error", r).
					Str("stack", string(debug.Stack())).
					Str("method", info.FullMethod).
					Msg("panic recovered")
				err = status.Error(codes.Internal, "an internal error occurred")
			}
		}()

		return handler(ctx, req)
	}
}
