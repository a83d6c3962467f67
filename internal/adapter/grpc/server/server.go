package server

import (
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/iho/relbalance/internal/adapter/grpc/middleware"
)

// New creates a gRPC server exposing BalanceService and the standard health
// service. The health server is returned so shutdown can mark it NOT_SERVING.
func New(logger zerolog.Logger, balance *BalanceServer) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.UnaryRecovery(logger),
			middleware.UnaryLogging(logger),
		),
	)

	RegisterBalanceServiceServer(srv, balance)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(BalanceServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthServer)

	return srv, healthServer
}
