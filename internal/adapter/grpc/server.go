// Package grpc exposes the service's health over gRPC so orchestrators and
// the gateway can probe it the same way they probe the other services.
package grpc

import (
	"errors"
	"net"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	srv         *grpc.Server
	health      *health.Server
	serviceName string
	logger      *logger.Logger
}

func NewServer(serviceName string, log *logger.Logger) *Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(middleware.LoggingInterceptor(log)),
	)
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{srv: srv, health: hs, serviceName: serviceName, logger: log.Named("GRPCServer")}
}

// Serve blocks until the listener fails or Stop is called. The service
// reports SERVING once it is accepting connections.
func (s *Server) Serve(lis net.Listener) error {
	s.SetServing(true)
	s.logger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) SetServing(ok bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if ok {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(s.serviceName, st)
	s.health.SetServingStatus("", st)
}

func (s *Server) Stop() {
	s.SetServing(false)
	s.srv.GracefulStop()
	s.logger.Info("gRPC server stopped")
}
