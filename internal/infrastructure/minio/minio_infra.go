package minio

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	minioRepo "github.com/DRSN-tech/storefront/internal/repository/minio"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure управляет загрузкой и очисткой изображений в MinIO.
type MinioInfrastructure struct {
	imageRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	backoff     jitter.Backoff
}

func NewMinioInfrastructure(imageRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		imageRepo:   imageRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		backoff:     jitter.NewBackoff(time.Second, cleanupTimeout),
	}
}

// UploadImage загружает изображение по ключу req.Path и возвращает его публичный адрес.
// Ключ без расширения дополняется расширением по MIME-типу.
func (m *MinioInfrastructure) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	const op = "MinioInfrastructure.UploadImage"

	ext, ok := domain.ImageExtension(req.MimeType)
	if !ok {
		return nil, e.Wrap(op, fmt.Errorf("%w: %s (%s)", e.ErrUnsupportedMediaType, req.MimeType, req.Name))
	}

	key := strings.TrimLeft(req.Path, "/")
	if path.Ext(key) == "" {
		key += "." + ext
	}

	image := domain.NewImage(m.cfg.BucketName, key, req.Data, req.Size, req.MimeType)
	stored, err := m.imageRepo.Upload(ctx, image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return usecase.NewUploadImageRes(stored, minioRepo.PublicURL(m.cfg, stored)), nil
}

// CleanupImages запускает фоновое удаление изображений по их публичным адресам.
// Ссылки на внешние ресурсы пропускаются.
func (m *MinioInfrastructure) CleanupImages(urls []string) {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if key, ok := minioRepo.KeyFromURL(m.cfg, u); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}

	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d image(s)", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.imageRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if ctx.Err() != nil {
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%v", op, key)
				break
			}

			if err := m.backoff.Wait(ctx, attempt); err != nil {
				m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
