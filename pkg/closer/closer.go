package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func — функция закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer закрывает зарегистрированные ресурсы в порядке, обратном регистрации.
// Безопасен для конкурентного использования, Close выполняется один раз.
type Closer struct {
	mu            sync.Mutex
	resources     []resource
	once          sync.Once
	err           error
	forcedTimeout time.Duration
}

// NewCloser создает Closer. forcedTimeout — время на принудительное закрытие ресурсов,
// не успевших закрыться до отмены контекста Close. 0 означает значение по умолчанию.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс. name попадает в текст ошибки закрытия.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы по одному (LIFO). Если ctx отменяется раньше,
// оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
// Повторные вызовы возвращают результат первого.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		resources := make([]resource, len(c.resources))
		copy(resources, c.resources)
		c.mu.Unlock()

		c.err = c.close(ctx, resources)
	})

	return c.err
}

func (c *Closer) close(ctx context.Context, resources []resource) error {
	var errs []error

	for i := len(resources) - 1; i >= 0; i-- {
		closed, err := closeWithin(ctx, resources[i])
		if !closed {
			remaining := resources[:i+1]
			errs = append(errs, fmt.Errorf("%s: %w", resources[i].name, ctx.Err()))
			errs = append(errs, c.forceClose(remaining)...)
			return fmt.Errorf("shutdown interrupted after %d/%d resources: %w",
				len(resources)-len(remaining), len(resources), errors.Join(errs...))
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// closeWithin возвращает closed == false, если ctx отменился раньше, чем ресурс закрылся.
func closeWithin(ctx context.Context, r resource) (bool, error) {
	done := make(chan error, 1)
	go func() {
		done <- r.close(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			return true, fmt.Errorf("%s: %w", r.name, err)
		}
		return true, nil
	case <-ctx.Done():
		return false, nil
	}
}

func (c *Closer) forceClose(resources []resource) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, r := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", r.name, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errs
}
