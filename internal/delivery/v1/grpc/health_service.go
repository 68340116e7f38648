package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName — имя сервиса в grpc.health.v1.
const ServiceName = "storefront.Catalog"

const defaultProbeInterval = 15 * time.Second

// HealthService публикует состояние каталога через grpc.health.v1.
// Статус SERVING выставляется, пока база отвечает на проверку CatalogUC.Health.
type HealthService struct {
	server    *health.Server
	catalogUC usecase.CatalogUC
	logger    logger.Logger
	interval  time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewHealthService(catalogUC usecase.CatalogUC, logger logger.Logger) *HealthService {
	srv := health.NewServer()
	srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &HealthService{
		server:    srv,
		catalogUC: catalogUC,
		logger:    logger,
		interval:  defaultProbeInterval,
	}
}

func (h *HealthService) Server() *health.Server {
	return h.server
}

// Start проверяет базу сразу и затем раз в interval.
func (h *HealthService) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)

	h.probe(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.probe(ctx)
			}
		}
	}()
}

// Shutdown переводит все сервисы в NOT_SERVING и останавливает проверки.
func (h *HealthService) Shutdown() {
	h.once.Do(func() {
		if h.cancel != nil {
			h.cancel()
		}
		h.wg.Wait()
		h.server.Shutdown()
	})
}

func (h *HealthService) probe(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if _, err := h.catalogUC.Health(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		h.logger.Warnf("health probe failed: %v", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}
