package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// BalanceServiceName is the fully qualified gRPC service name.
const BalanceServiceName = "relbalance.v1.BalanceService"

// CalculateMethod is the full method name of BalanceService.Calculate.
const CalculateMethod = "/" + BalanceServiceName + "/Calculate"

// BalanceServiceServer is the server API for BalanceService. Messages are
// google.protobuf.Struct; the fields are listed in the converter package.
type BalanceServiceServer interface {
	Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// BalanceServiceDesc describes BalanceService for grpc.Server.RegisterService.
var BalanceServiceDesc = grpc.ServiceDesc{
	ServiceName: BalanceServiceName,
	HandlerType: (*BalanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Calculate",
			Handler:    calculateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "relbalance/v1/balance.proto",
}

// RegisterBalanceServiceServer registers srv with s.
func RegisterBalanceServiceServer(s grpc.ServiceRegistrar, srv BalanceServiceServer) {
	s.RegisterService(&BalanceServiceDesc, srv)
}

func calculateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BalanceServiceServer).Calculate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CalculateMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BalanceServiceServer).Calculate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// BalanceServiceClient is the client API for BalanceService.
type BalanceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBalanceServiceClient creates a client over cc.
func NewBalanceServiceClient(cc grpc.ClientConnInterface) *BalanceServiceClient {
	return &BalanceServiceClient{cc: cc}
}

// Calculate invokes BalanceService.Calculate.
func (c *BalanceServiceClient) Calculate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CalculateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
