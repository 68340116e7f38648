package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const maxHeaderBytes = 1 << 20

// Server — HTTP-сервер витрины и админки.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig, logger logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
		logger: logger,
	}
}

// Run слушает адрес из конфигурации. Штатная остановка через Stop не считается ошибкой.
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	return s.Serve(lis)
}

// Serve обслуживает запросы на готовом listener.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Infof("HTTP server listening on %s", lis.Addr())
	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop дожидается завершения активных запросов, но не дольше ctx.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Infof("HTTP server stopped")

	return nil
}
