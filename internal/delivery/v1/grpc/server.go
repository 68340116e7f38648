package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type GRPCServer struct {
	server *grpc.Server
	health *HealthService
	cfg    *cfg.GRPCConfig
	logger logger.Logger
}

func NewGRPCServer(cfg *cfg.GRPCConfig, logger logger.Logger) *GRPCServer {
	return &GRPCServer{
		server: grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger))),
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterServices регистрирует grpc.health.v1.Health.
func (s *GRPCServer) RegisterServices(health *HealthService) {
	s.health = health
	grpc_health_v1.RegisterHealthServer(s.server, health.Server())
}

// Start слушает порт из конфигурации. Штатная остановка через Stop не считается ошибкой.
func (s *GRPCServer) Start() error {
	addr := ":" + s.cfg.Port
	lis, err := net.Listen(s.cfg.NetworkMode, addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(lis)
}

// Serve обслуживает вызовы на готовом listener.
func (s *GRPCServer) Serve(lis net.Listener) error {
	s.logger.Infof("gRPC server listening on %s", lis.Addr())
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}

// Stop переводит health в NOT_SERVING и ждет завершения вызовов.
// По истечении ctx соединения закрываются принудительно.
func (s *GRPCServer) Stop(ctx context.Context) error {
	if s.health != nil {
		s.health.Shutdown()
	}

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infof("gRPC server stopped gracefully")
		return nil
	case <-ctx.Done():
		s.server.Stop()
		<-done
		s.logger.Warnf("gRPC server forced to stop after timeout")
		return ctx.Err()
	}
}

func loggingInterceptor(logger logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		if code == codes.OK || code == codes.NotFound {
			logger.Debugf("gRPC %s -> %s (%s)", info.FullMethod, code, time.Since(start))
		} else {
			logger.Warnf("gRPC %s -> %s (%s): %v", info.FullMethod, code, time.Since(start), err)
		}

		return resp, err
	}
}
