package minio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeImageRepo struct {
	mu        sync.Mutex
	uploaded  []*domain.Image
	deleted   []string
	failTimes map[string]int
}

func (f *fakeImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, image)
	return image.ObjectKey, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.failTimes[key] > 0 {
		f.failTimes[key]--
		return errors.New("minio unavailable")
	}
	return nil
}

func (f *fakeImageRepo) deletes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

var testCfg = &cfg.MinIOCfg{BucketName: "products", PublicBaseURL: "http://cdn.local"}

func newTestInfra(repo *fakeImageRepo, shutdownCtx context.Context) *MinioInfrastructure {
	m := NewMinioInfrastructure(repo, testCfg, logger.NewNop(), shutdownCtx)
	m.backoff = jitter.Backoff{Base: time.Millisecond, Max: 5 * time.Millisecond}
	return m
}

func TestUploadImage_Key(t *testing.T) {
	tests := []struct {
		name string
		path string
		mime string
		key  string
	}{
		{name: "extension added", path: "pens/blue", mime: "image/png", key: "pens/blue.png"},
		{name: "extension kept", path: "pens/blue.jpeg", mime: "image/jpeg", key: "pens/blue.jpeg"},
		{name: "leading slash trimmed", path: "/hero", mime: "image/webp", key: "hero.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeImageRepo{}
			m := newTestInfra(repo, context.Background())

			res, err := m.UploadImage(context.Background(), &usecase.UploadImageReq{
				Data:     []byte("img"),
				MimeType: tt.mime,
				Size:     3,
				Name:     "upload",
				Path:     tt.path,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.key, res.Path)
			assert.Equal(t, "http://cdn.local/products/"+tt.key, res.URL)

			require.Len(t, repo.uploaded, 1)
			assert.Equal(t, "products", repo.uploaded[0].Bucket)
			assert.Equal(t, tt.mime, repo.uploaded[0].MimeType)
		})
	}
}

func TestUploadImage_UnsupportedType(t *testing.T) {
	repo := &fakeImageRepo{}
	m := newTestInfra(repo, context.Background())

	_, err := m.UploadImage(context.Background(), &usecase.UploadImageReq{Data: []byte("x"), MimeType: "application/pdf", Path: "doc"})
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
	assert.Empty(t, repo.uploaded)
}

func TestCleanupImages_SkipsForeignAndRetries(t *testing.T) {
	repo := &fakeImageRepo{failTimes: map[string]int{"flaky.png": 2}}
	m := newTestInfra(repo, context.Background())

	m.CleanupImages([]string{
		"http://cdn.local/products/a.png",
		"https://elsewhere.example.com/products/b.png",
		"http://cdn.local/products/flaky.png",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitForCleanup(ctx))

	assert.Equal(t, []string{"a.png", "flaky.png", "flaky.png", "flaky.png"}, repo.deletes())
}

func TestCleanupImages_GivesUp(t *testing.T) {
	repo := &fakeImageRepo{failTimes: map[string]int{"gone.png": 10}}
	m := newTestInfra(repo, context.Background())

	m.CleanupImages([]string{"http://cdn.local/products/gone.png", "http://cdn.local/products/next.png"})
	require.NoError(t, m.WaitForCleanup(context.Background()))

	assert.Equal(t, []string{"gone.png", "gone.png", "gone.png", "next.png"}, repo.deletes())
}

func TestCleanupImages_NothingToDo(t *testing.T) {
	repo := &fakeImageRepo{}
	m := newTestInfra(repo, context.Background())

	m.CleanupImages([]string{"https://elsewhere.example.com/x.png"})
	require.NoError(t, m.WaitForCleanup(context.Background()))
	assert.Empty(t, repo.deletes())
}

func TestCleanupImages_StopsOnShutdown(t *testing.T) {
	repo := &fakeImageRepo{failTimes: map[string]int{"a.png": 10}}
	shutdownCtx, cancel := context.WithCancel(context.Background())
	m := newTestInfra(repo, shutdownCtx)
	m.backoff = jitter.Backoff{Base: time.Hour}

	m.CleanupImages([]string{"http://cdn.local/products/a.png", "http://cdn.local/products/b.png"})
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	require.NoError(t, m.WaitForCleanup(waitCtx))

	assert.NotContains(t, repo.deletes(), "b.png")
}

func TestWaitForCleanup_Timeout(t *testing.T) {
	repo := &fakeImageRepo{failTimes: map[string]int{"slow.png": 10}}
	shutdownCtx, cancel := context.WithCancel(context.Background())
	m := newTestInfra(repo, shutdownCtx)
	m.backoff = jitter.Backoff{Base: time.Hour}

	m.CleanupImages([]string{"http://cdn.local/products/slow.png"})

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer waitCancel()
	err := m.WaitForCleanup(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	cancel()
	require.NoError(t, m.WaitForCleanup(context.Background()))
}
