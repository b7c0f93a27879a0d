package retry

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
)

// WithRetry выполняет op до attempts раз с экспоненциальным бэкоффом.
// Повтор делается, только если retryable(err) == true; отмена ctx прерывает ожидание.
func WithRetry(ctx context.Context, attempts int, sleep time.Duration, retryable func(error) bool, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	b := &backoff.Backoff{Min: sleep, Max: 5 * time.Second, Factor: 2}

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i == attempts-1 || (retryable != nil && !retryable(err)) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(b.Duration()):
		}
	}
	return err
}
