package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestGRPCServer_Health(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(&cfg.GRPCConfig{Port: "0", NetworkMode: "tcp"}, logger.NewDiscardLogger())

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := healthpb.NewHealthClient(conn)
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	srv.SetServing("", false)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, <-serveErr)
}

func TestGRPCErrorResponse(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{&domain.OrderNotFoundError{OrderID: uuid.New()}, codes.NotFound},
		{&domain.UnauthorizedError{OrderID: uuid.New(), ActorID: "u"}, codes.PermissionDenied},
		{&domain.InsufficientStockError{ProductID: 1, Available: 0, Requested: 1}, codes.FailedPrecondition},
		{e.Wrap("op", e.ErrEmptyOrder), codes.InvalidArgument},
		{errors.Join(e.ErrTransient, errors.New("40001")), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
		{status.Error(codes.Canceled, "gone"), codes.Canceled},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(GRPCErrorResponse(tc.err)), tc.err.Error())
	}
}
