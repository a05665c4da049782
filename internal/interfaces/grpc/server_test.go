package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/turtacn/axiomgfx-dili/internal/config"
	"github.com/turtacn/axiomgfx-dili/internal/testutil"
)

type fakeChecker struct {
	name string
	fail atomic.Bool
}

func (f *fakeChecker) Name() string { return f.name }

func (f *fakeChecker) Check(context.Context) error {
	if f.fail.Load() {
		return errors.New("down")
	}
	return nil
}

func startBufServer(t *testing.T, opts ...Option) (*Server, healthpb.HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, err := NewServer(config.GRPCConfig{Enabled: true}, append(opts, WithListener(lis))...)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		_ = srv.Stop(context.Background())
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("grpc server did not stop")
		}
	})
	return srv, healthpb.NewHealthClient(conn)
}

func checkStatus(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func statusOf(c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestServer_ServingAfterStart(t *testing.T) {
	_, client := startBufServer(t)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ServiceName))
}

func TestServer_UnknownService(t *testing.T) {
	_, client := startBufServer(t)

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_ProbeTracksCheckers(t *testing.T) {
	srv, client := startBufServer(t)
	redis := &fakeChecker{name: "redis"}

	assert.Empty(t, srv.Probe(context.Background(), redis))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ""))

	redis.fail.Store(true)
	assert.Equal(t, []string{"redis"}, srv.Probe(context.Background(), redis))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, client, ServiceName))

	redis.fail.Store(false)
	srv.Probe(context.Background(), redis)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ""))
}

func TestServer_MonitorReadiness(t *testing.T) {
	srv, client := startBufServer(t, WithProbeInterval(10*time.Millisecond))
	redis := &fakeChecker{name: "redis"}
	redis.fail.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		srv.MonitorReadiness(ctx, redis)
		close(stopped)
	}()

	assert.Eventually(t, func() bool {
		return statusOf(client, "") == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	redis.fail.Store(false)
	assert.Eventually(t, func() bool {
		return statusOf(client, "") == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("MonitorReadiness did not return after cancel")
	}
}

func TestServer_DoubleStart(t *testing.T) {
	srv, _ := startBufServer(t)
	require.Eventually(t, func() bool {
		srv.mu.Lock()
		defer srv.mu.Unlock()
		return srv.started
	}, time.Second, 5*time.Millisecond)

	assert.Error(t, srv.Start())
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv, err := NewServer(config.GRPCConfig{}, WithListener(bufconn.Listen(1024)))
	require.NoError(t, err)
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestNewServer_BindsPort(t *testing.T) {
	srv, err := NewServer(config.GRPCConfig{Enabled: true, Port: 0})
	require.NoError(t, err)
	defer func() { _ = srv.Stop(context.Background()) }()
	assert.NotEmpty(t, srv.Addr())
}

func TestRecoveryUnaryInterceptor(t *testing.T) {
	log := testutil.NewMockLogger()
	ic := recoveryUnaryInterceptor(log)
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Boom"}

	_, err := ic(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		panic("kaboom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.True(t, log.HasMessage("error", "grpc panic recovered"))

	resp, err := ic(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestLoggingUnaryInterceptor_SkipsHealth(t *testing.T) {
	log := testutil.NewMockLogger()
	ic := loggingUnaryInterceptor(log)
	h := func(context.Context, interface{}) (interface{}, error) { return nil, nil }

	_, _ = ic(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, h)
	assert.Empty(t, log.GetMessages())

	_, _ = ic(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, h)
	require.Len(t, log.GetMessages(), 1)
	code, ok := log.GetMessages()[0].Field("code")
	require.True(t, ok)
	assert.Equal(t, "OK", code)
}

//Personal.AI order the ending
