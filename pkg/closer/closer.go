package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

const defaultForcedTimeout = 2 * time.Second

// Func: функция закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer закрывает зарегистрированные ресурсы в обратном порядке (LIFO).
// Если контекст истёк, оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
	logger        logger.Logger
}

func NewCloser(forcedTimeout time.Duration, logger logger.Logger) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
		logger:        logger,
	}
}

// Add регистрирует ресурс. Закрываться он будет раньше всех добавленных до него.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// AddFunc: Add для ресурсов, у которых Close без контекста и без ошибки.
func (c *Closer) AddFunc(name string, f func()) {
	c.Add(name, func(context.Context) error {
		f()
		return nil
	})
}

// Close выполняется один раз; повторные вызовы возвращают nil.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		remaining, errs := c.gracefulClose(ctx, resources)
		if len(remaining) > 0 {
			c.logger.Warnf("shutdown timed out, forcing %d resource(s)", len(remaining))
			errs = append(errs, c.forcedClose(remaining)...)
		}

		err = errors.Join(errs...)
	})

	return err
}

// gracefulClose закрывает ресурсы по одному с конца и возвращает те, до которых не дошла очередь.
func (c *Closer) gracefulClose(ctx context.Context, resources []resource) ([]resource, []error) {
	var errs []error
	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)
		go func() {
			done <- res.close(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", res.name, err))
				continue
			}
			c.logger.Infof("%s closed", res.name)
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("close %s: %w", res.name, ctx.Err()))
			return resources[:i], errs
		}
	}

	return nil, errs
}

func (c *Closer) forcedClose(resources []resource) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("forced close %s: %w", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
