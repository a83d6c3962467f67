package server_test

import (
	"context"
	"net"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/iho/relbalance/internal/adapter/csvsource"
	"github.com/iho/relbalance/internal/adapter/grpc/converter"
	"github.com/iho/relbalance/internal/adapter/grpc/server"
	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/usecase"
)

type fixedIDGenerator struct{}

func (fixedIDGenerator) Generate() string { return "01TEST" }

func newBalanceService() *usecase.BalanceUseCase {
	return usecase.NewBalanceUseCase(usecase.BalanceConfig{}, fixedIDGenerator{}, nil, nil, zerolog.Nop())
}

func dial(t *testing.T, balance *server.BalanceServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv, _ := server.New(zerolog.Nop(), balance)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestBalanceServer_DefaultSource(t *testing.T) {
	source, err := csvsource.NewFileSource("../../csvsource/testdata/transactions2.csv", domain.DefaultDateLayout)
	require.NoError(t, err)

	client := server.NewBalanceServiceClient(dial(t, server.NewBalanceServer(newBalanceService(), source)))

	resp, err := client.Calculate(context.Background(), request(t, map[string]any{
		converter.FieldAccountID: "ACC334455",
		converter.FieldFrom:      "20/10/2018 12:00:00",
		converter.FieldTo:        "21/10/2018 19:00:00",
	}))
	require.NoError(t, err)

	m := resp.AsMap()
	assert.Equal(t, "$5.75", m["display"])
	assert.Equal(t, float64(3), m["transaction_count"])
	assert.Equal(t, "01TEST", m["calculation_id"])
}

func TestBalanceServer_InlineCSV(t *testing.T) {
	raw, err := os.ReadFile("../../csvsource/testdata/transactions1.csv")
	require.NoError(t, err)

	client := server.NewBalanceServiceClient(dial(t, server.NewBalanceServer(newBalanceService(), nil)))

	resp, err := client.Calculate(context.Background(), request(t, map[string]any{
		converter.FieldAccountID:       "ACC334455",
		converter.FieldFrom:            "20/10/2018 12:00:00",
		converter.FieldTo:              "20/10/2018 19:00:00",
		converter.FieldTransactionsCSV: string(raw),
	}))
	require.NoError(t, err)

	assert.Equal(t, "-$25.00", resp.AsMap()["display"])
}

func TestBalanceServer_Errors(t *testing.T) {
	client := server.NewBalanceServiceClient(dial(t, server.NewBalanceServer(newBalanceService(), nil)))

	tests := []struct {
		name   string
		fields map[string]any
		want   codes.Code
	}{
		{
			name:   "no source",
			fields: map[string]any{converter.FieldAccountID: "ACC1", converter.FieldFrom: "20/10/2018 12:00:00", converter.FieldTo: "20/10/2018 19:00:00"},
			want:   codes.Unavailable,
		},
		{
			name: "malformed csv",
			fields: map[string]any{
				converter.FieldAccountID:       "ACC1",
				converter.FieldTransactionsCSV: "header\nTX1,ACC1\n",
			},
			want: codes.InvalidArgument,
		},
		{
			name: "empty account",
			fields: map[string]any{
				converter.FieldTransactionsCSV: "header\n",
				converter.FieldFrom:            "20/10/2018 12:00:00",
				converter.FieldTo:              "20/10/2018 19:00:00",
			},
			want: codes.InvalidArgument,
		},
		{
			name:   "wrong field type",
			fields: map[string]any{converter.FieldAccountID: true},
			want:   codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Calculate(context.Background(), request(t, tt.fields))
			require.Error(t, err)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestServer_Health(t *testing.T) {
	conn := dial(t, server.NewBalanceServer(newBalanceService(), nil))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: server.BalanceServiceName,
	})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
