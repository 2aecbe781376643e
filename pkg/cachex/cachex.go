// Package cachex defines the short-lived key/value store used for signup
// sessions and refresh tokens. Values are JSON encoded; every entry carries a
// TTL and expired entries are indistinguishable from missing ones.
package cachex

import (
	"context"
	"net/http"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
)

// Store is implemented by cachexredis and cachexmemory.
type Store interface {
	// Set stores value under key for ttl, overwriting any previous value.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get decodes the value under key into dest, or returns a CodeMiss error.
	Get(ctx context.Context, key string, dest any) error
	// GetDel is Get followed by Delete as one atomic step. Of several
	// concurrent callers at most one sees the value; the rest get CodeMiss.
	GetDel(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

var ErrRegistry = errx.NewRegistry("CACHE")

var (
	CodeMiss        = ErrRegistry.Register("MISS", errx.TypeNotFound, http.StatusNotFound, "Resource can not be found in cache")
	CodeUnavailable = ErrRegistry.Register("UNAVAILABLE", errx.TypeExternal, http.StatusServiceUnavailable, "Cache unavailable")
	CodeCodec       = ErrRegistry.Register("CODEC", errx.TypeInternal, http.StatusInternalServerError, "Cached value could not be encoded or decoded")
)

func ErrMiss(key string) *errx.Error {
	return ErrRegistry.New(CodeMiss).WithDetail("key", key)
}

func ErrUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeUnavailable, cause)
}

func ErrCodec(key string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeCodec, cause).WithDetail("key", key)
}

// IsMiss reports whether err means the key is absent or expired.
func IsMiss(err error) bool {
	return errx.HasCode(err, CodeMiss)
}

// Get is a typed wrapper over Store.Get.
func Get[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	err := s.Get(ctx, key, &v)
	return v, err
}

// Take is a typed wrapper over Store.GetDel.
func Take[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	err := s.GetDel(ctx, key, &v)
	return v, err
}
