package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestServer_HealthLifecycle(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := NewServer("stay-service", logger.NewNop())

	done := make(chan error, 1)
	go func() { done <- s.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := grpc_health_v1.NewHealthClient(conn)
	require.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "stay-service"})
		return err == nil && resp.Status == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	s.SetServing(false)
	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "stay-service"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)

	s.Stop()
	assert.NoError(t, <-done)
}
