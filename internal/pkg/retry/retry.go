package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 10
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
	defaultTimeout  = time.Minute
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"10"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"1m"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
		Timeout:  defaultTimeout,
	}
}

// Do runs fn until it succeeds, the attempts are exhausted or the overall
// timeout expires. onRetry may be nil.
func Do(ctx context.Context, rc *RetryConfig, fn func(ctx context.Context) error, onRetry func(attempt uint, err error)) error {
	if rc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.Timeout)
		defer cancel()
	}

	opts := append(rc.ToRetryOptions(), retry.Context(ctx))
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}

	return retry.Do(func() error {
		return fn(ctx)
	}, opts...)
}
