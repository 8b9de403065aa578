// Package health exposes the standard gRPC health service, reporting SERVING
// while the database answers pings.
package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Service is the name probes can ask about besides the empty overall name.
const Service = "rendezvous"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	srv *grpc.Server
	hs  *health.Server
	db  Pinger
	log *slog.Logger
}

func New(db Pinger, logger *slog.Logger) *Server {
	s := &Server{
		hs:  health.NewServer(),
		db:  db,
		log: logger,
	}
	s.srv = grpc.NewServer(
		grpc.ChainUnaryInterceptor(Logging(logger)),
	)
	healthpb.RegisterHealthServer(s.srv, s.hs)
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Probe pings the database once and records the result.
func (s *Server) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		s.log.WarnContext(ctx, "database ping failed", "error", err)
		s.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.set(healthpb.HealthCheckResponse_SERVING)
}

// Watch probes every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	s.Probe(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Probe(ctx)
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Stop flips every service to NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.hs.Shutdown()
	s.srv.GracefulStop()
}

func (s *Server) set(st healthpb.HealthCheckResponse_ServingStatus) {
	s.hs.SetServingStatus("", st)
	s.hs.SetServingStatus(Service, st)
}

// Logging logs every unary call with its status code and duration.
func Logging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		logger.DebugContext(ctx, "grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
