package minio

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo реализует репозиторий изображений поверх MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает изображение в MinIO и возвращает ключ объекта.
// Существующий объект с тем же ключом перезаписывается.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	reader := bytes.NewReader(image.Bytes)

	info, err := i.mc.PutObject(ctx, image.Bucket, image.ObjectKey, reader, image.Size, minio.PutObjectOptions{
		ContentType: image.MimeType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// PublicURL возвращает адрес, по которому объект доступен витрине.
func PublicURL(cfg *cfg.MinIOCfg, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	return cfg.PublicBaseURL + "/" + cfg.BucketName + "/" + strings.Join(segments, "/")
}

// KeyFromURL извлекает ключ объекта из публичного адреса.
// Возвращает false для ссылок на чужие хранилища и бакеты.
func KeyFromURL(cfg *cfg.MinIOCfg, rawURL string) (string, bool) {
	prefix := cfg.PublicBaseURL + "/" + cfg.BucketName + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}

	escaped := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(escaped, "?#"); i >= 0 {
		escaped = escaped[:i]
	}

	key, err := url.PathUnescape(escaped)
	if err != nil || key == "" {
		return "", false
	}

	return key, true
}
