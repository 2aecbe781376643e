package asyncx

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result holds the outcome of a single settled async operation.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// AllSettled runs every fn concurrently and waits for all of them. It never
// short-circuits and returns one Result per fn, in input order.
func AllSettled[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))

	for i, fn := range fns {
		go func() {
			defer wg.Done()
			v, err := fn(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// Detach runs fn in a new goroutine with a context that survives ctx's
// cancellation (values are kept) and is bounded by timeout. Panics in fn are
// recovered and reported to onErr together with returned errors.
func Detach(ctx context.Context, timeout time.Duration, fn func(context.Context) error, onErr func(error)) {
	base := context.WithoutCancel(ctx)
	go func() {
		runCtx, cancel := context.WithTimeout(base, timeout)
		defer cancel()
		defer func() {
			if p := recover(); p != nil && onErr != nil {
				onErr(fmt.Errorf("asyncx: panic: %v", p))
			}
		}()
		if err := fn(runCtx); err != nil && onErr != nil {
			onErr(err)
		}
	}()
}

// RetryWithBackoff calls fn up to attempts times, doubling the delay between
// failed attempts. It stops early when ctx is done.
func RetryWithBackoff[T any](
	ctx context.Context,
	attempts int,
	initialDelay time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	var (
		zero  T
		err   error
		delay = initialDelay
	)
	for i := range attempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var val T
		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return zero, err
}

// WithTimeout runs fn with a deadline of d and returns
// context.DeadlineExceeded if fn does not finish in time.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()

	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
