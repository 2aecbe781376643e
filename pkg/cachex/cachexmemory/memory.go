package cachexmemory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store is an in-process cachex.Store. Values round-trip through JSON so that
// callers observe the same semantics as the Redis store.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock lets tests move time forward.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{entries: make(map[string]entry), now: now}
}

func (s *Store) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return cachex.ErrCodec(key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.entries[key] = entry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Store) Get(_ context.Context, key string, dest any) error {
	return s.load(key, dest, false)
}

func (s *Store) GetDel(_ context.Context, key string, dest any) error {
	return s.load(key, dest, true)
}

func (s *Store) load(key string, dest any, remove bool) error {
	s.mu.Lock()
	e, ok := s.entries[key]
	ok = ok && s.now().Before(e.expiresAt)
	if !ok || remove {
		delete(s.entries, key)
	}
	s.mu.Unlock()

	if !ok {
		return cachex.ErrMiss(key)
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return cachex.ErrCodec(key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Len counts live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.entries)
}

// sweep drops expired entries; callers hold mu.
func (s *Store) sweep() {
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
