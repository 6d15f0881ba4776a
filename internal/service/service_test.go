package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msrikanth38/90s-jar/internal/broker"
	"github.com/msrikanth38/90s-jar/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 5, 10, 15, 30, 0, time.Local)

func clock() time.Time { return fixedNow }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{File: filepath.Join(t.TempDir(), "jar.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

type memoryIdempotency struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{entries: map[string][]byte{}}
}

func (m *memoryIdempotency) Lookup(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryIdempotency) Remember(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = payload
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []interface{}
}

func (r *recordingPublisher) PublishEvent(_ context.Context, key string, event interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

var _ broker.Publisher = (*recordingPublisher)(nil)
