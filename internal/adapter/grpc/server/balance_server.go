package server

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/iho/relbalance/internal/adapter/csvsource"
	"github.com/iho/relbalance/internal/adapter/grpc/converter"
	grpcerrors "github.com/iho/relbalance/internal/adapter/grpc/errors"
	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
)

// BalanceService defines the interface for balance calculations.
type BalanceService interface {
	Calculate(ctx context.Context, input usecase.CalculateInput, source usecase.TransactionSource) (*usecase.CalculateOutput, error)
	DateLayout() string
}

// BalanceServer implements the gRPC BalanceService
type BalanceServer struct {
	service       BalanceService
	defaultSource usecase.TransactionSource
}

// NewBalanceServer creates a new BalanceServer. defaultSource may be nil.
func NewBalanceServer(service BalanceService, defaultSource usecase.TransactionSource) *BalanceServer {
	return &BalanceServer{
		service:       service,
		defaultSource: defaultSource,
	}
}

// Calculate computes a relative balance over the inline CSV, if any, or the
// server's configured source.
func (s *BalanceServer) Calculate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := converter.BalanceRequestFromPb(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	source := s.defaultSource
	if in.TransactionsCSV != "" {
		upload, err := csvsource.NewUploadSource([]byte(in.TransactionsCSV), s.service.DateLayout())
		if err != nil {
			return nil, grpcerrors.MapDomainError(err)
		}
		source = upload
	}
	if source == nil {
		return nil, grpcerrors.MapDomainError(domain.ErrSourceUnavailable)
	}

	out, err := s.service.Calculate(ctx, in.Input, source)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	resp, err := converter.BalanceToPb(out)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}

	return resp, nil
}
