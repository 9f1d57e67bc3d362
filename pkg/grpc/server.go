// Package grpc runs the gRPC side port: the standard grpc.health.v1 service
// plus reflection, behind recovery, logging, and metrics interceptors.
//
//	srv := grpc.New()
//	if err := srv.Start(config.GRPCPort()); err != nil { ... }
//	defer srv.Stop(ctx)
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/metrics"
)

// ServiceName is reported by the health service next to the overall "" entry.
const ServiceName = "shashikala"

// ─── Interceptors ─────────────────────────────────────────────────────────────

// recoveryInterceptor turns a handler panic into codes.Internal.
func recoveryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs each unary call and records its metrics.
func observeInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)
	code := status.Code(err)

	metrics.GRPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	metrics.GRPCRequestDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())
	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// ─── Server ───────────────────────────────────────────────────────────────────

type Server struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
}

func New() *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(observeInterceptor, recoveryInterceptor),
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.MaxSendMsgSize(4*1024*1024),
	)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{srv: srv, health: hs}
}

// Start listens on port and serves in the background.
func (s *Server) Start(port string) error {
	addr := ":" + port
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}
	s.lis = lis

	logger.Info("gRPC server starting", "addr", lis.Addr().String())
	go func() {
		if err := s.srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()
	return nil
}

// Addr is the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

// MarkNotServing flips every health entry to NOT_SERVING so load balancers
// drain the instance.
func (s *Server) MarkNotServing() { s.health.Shutdown() }

// Stop marks the server NOT_SERVING and drains in-flight RPCs. When ctx ends
// first the remaining connections are closed.
func (s *Server) Stop(ctx context.Context) {
	s.MarkNotServing()
	logger.Info("gRPC server shutting down")

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
	}
}
