// Package grpcapi exposes the clock, live attendance and report operations
// over gRPC. Messages are google.protobuf.Struct values shaped like the JSON
// API bodies, so no generated code is needed.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
)

type Dependencies struct {
	Logger  *log.Logger
	Auth    *service.AuthService
	Clock   *service.ClockEngine
	Query   *service.AttendanceQuery
	Reports *service.ReportService
}

// Server hosts AttendanceService and the standard health service.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *log.Logger
}

func NewServer(d Dependencies) *Server {
	api := &attendanceService{
		logger:  d.Logger,
		clock:   d.Clock,
		query:   d.Query,
		reports: d.Reports,
	}
	a := &authenticator{auth: d.Auth}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(a.unary),
		grpc.ChainStreamInterceptor(a.stream),
	)
	grpcServer.RegisterService(&serviceDesc, api)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{grpcServer: grpcServer, health: healthServer, logger: d.Logger}
}

// Serve accepts connections on lis until ctx is cancelled, then drains
// in-flight calls.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close stops the server immediately, cancelling open streams.
func (s *Server) Close() {
	s.health.Shutdown()
	s.grpcServer.Stop()
}
