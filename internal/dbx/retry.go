package dbx

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/carpool/internal/common"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultRetries    = 2
	DefaultRetryDelay = 2 * time.Second
)

// Retrier re-runs a unit of store work when it fails with a transient error.
// The whole unit is repeated, so fn must be safe to run again: typically a
// complete transaction passed to WithTx.
type Retrier struct {
	retries     uint64
	delay       time.Duration
	isTransient func(error) bool
	onRetry     func(attempt int, err error)
}

// NewRetrier returns a Retrier that makes at most retries additional attempts
// spaced by delay. isTransient decides which errors are retried; nil means
// nothing is.
func NewRetrier(retries uint64, delay time.Duration, isTransient func(error) bool) *Retrier {
	if delay <= 0 {
		delay = time.Nanosecond
	}
	return &Retrier{retries: retries, delay: delay, isTransient: isTransient}
}

// OnRetry registers a hook invoked before every repeated attempt.
func (r *Retrier) OnRetry(fn func(attempt int, err error)) *Retrier {
	r.onRetry = fn
	return r
}

// Do runs fn until it succeeds, fails permanently or the retries are spent.
// When the last attempt still failed transiently the error is wrapped with
// common.ErrTransientStore.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil {
		return fn(ctx)
	}

	var lastErr error
	attempt := 0
	backoff := retry.WithMaxRetries(r.retries, retry.NewConstant(r.delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 && r.onRetry != nil {
			r.onRetry(attempt, lastErr)
		}
		err := fn(ctx)
		if err != nil && r.transient(err) {
			lastErr = err
			return retry.RetryableError(err)
		}
		return err
	})

	if err != nil && r.transient(err) {
		return fmt.Errorf("%w: %w", common.ErrTransientStore, err)
	}
	return err
}

func (r *Retrier) transient(err error) bool {
	return r.isTransient != nil && r.isTransient(err)
}
