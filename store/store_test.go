package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/gearlog/store"
	"github.com/poiesic/gearlog/store/badger"
	"github.com/poiesic/gearlog/store/filekv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend is an in-memory store.Backend test double. failKeys makes
// Put fail for specific keys, which exercises partial-failure paths.
type memBackend struct {
	mu       sync.Mutex
	entries  map[string][]byte
	failKeys map[string]error
}

var _ store.Backend = (*memBackend)(nil)

func newMemBackend() *memBackend {
	return &memBackend{entries: make(map[string][]byte)}
}

func (m *memBackend) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failKeys[key]; ok {
		return err
	}
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *memBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *memBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	return nil
}

func (m *memBackend) GetAll(ctx context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make(map[string][]byte, len(m.entries))
	for k, v := range m.entries {
		all[k] = append([]byte(nil), v...)
	}
	return all, nil
}

func (m *memBackend) Close() error { return nil }

type record struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// newTestStores builds one Store per backend selection: a structured
// one over in-memory BadgerDB and a fallback one whose structured open
// always fails.
func newTestStores(t *testing.T) map[string]*store.Store {
	t.Helper()

	fallbackA, err := filekv.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	structured := store.New(badger.NewMemoryBackend, fallbackA)
	t.Cleanup(func() { structured.Close() })

	fallbackB, err := filekv.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	demoted := store.New(func() (store.Backend, error) {
		return nil, fmt.Errorf("%w: simulated", store.ErrOpenFailed)
	}, fallbackB)
	t.Cleanup(func() { demoted.Close() })

	return map[string]*store.Store{
		"structured": structured,
		"fallback":   demoted,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			want := map[string][]record{
				"studio": {{Name: "SM58", Quantity: 2}, {Name: "DI box", Quantity: 4}},
			}
			require.NoError(t, s.Put(ctx, "equipment-collections", want))

			var got map[string][]record
			require.NoError(t, s.Get(ctx, "equipment-collections", &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_Absence(t *testing.T) {
	ctx := context.Background()

	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Get(ctx, "never-written", nil)
			assert.ErrorIs(t, err, store.ErrNotFound)
			assert.NotErrorIs(t, err, store.ErrReadFailed)

			require.NoError(t, s.Put(ctx, "short-lived", "value"))
			require.NoError(t, s.Remove(ctx, "short-lived"))
			assert.ErrorIs(t, s.Get(ctx, "short-lived", nil), store.ErrNotFound)

			// Removing an absent key is not an error.
			assert.NoError(t, s.Remove(ctx, "short-lived"))
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()

	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "k", record{Name: "old", Quantity: 1}))
			require.NoError(t, s.Put(ctx, "k", record{Name: "new", Quantity: 2}))

			var got record
			require.NoError(t, s.Get(ctx, "k", &got))
			assert.Equal(t, record{Name: "new", Quantity: 2}, got)

			all, err := s.ExportAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.JSONEq(t, `{"name":"new","quantity":2}`, string(all["k"]))
		})
	}
}

func TestStore_ClearIdempotent(t *testing.T) {
	ctx := context.Background()

	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "a", 1))
			require.NoError(t, s.Put(ctx, "b", 2))

			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx))

			all, err := s.ExportAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestStore_InvalidKey(t *testing.T) {
	ctx := context.Background()
	s := store.New(nil, newMemBackend())

	assert.ErrorIs(t, s.Put(ctx, "", 1), store.ErrInvalidKey)
	assert.ErrorIs(t, s.Get(ctx, "", nil), store.ErrInvalidKey)
	assert.ErrorIs(t, s.Remove(ctx, ""), store.ErrInvalidKey)
}

func TestStore_PutUnserializableValue(t *testing.T) {
	ctx := context.Background()
	s := store.New(nil, newMemBackend())

	err := s.Put(ctx, "k", make(chan int))
	assert.ErrorIs(t, err, store.ErrWriteFailed)
}

func TestStore_Migration(t *testing.T) {
	ctx := context.Background()
	legacy := json.RawMessage(`{"studio":[{"name":"SM58","quantity":2}]}`)

	fallback, err := filekv.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, fallback.Put(ctx, "equipment-collections", legacy))

	s := store.New(func() (store.Backend, error) {
		return badger.OpenInMemory()
	}, fallback, store.WithLegacyKey("equipment-collections"))
	defer s.Close()

	require.Equal(t, store.SelectionStructured, s.Selection())

	// Migrated value is readable through the structured path.
	raw, err := s.GetRaw(ctx, "equipment-collections")
	require.NoError(t, err)
	assert.JSONEq(t, string(legacy), string(raw))

	// The fallback copy is still present and unchanged.
	kept, err := fallback.Get(ctx, "equipment-collections")
	require.NoError(t, err)
	assert.JSONEq(t, string(legacy), string(kept))
}

func TestStore_MigrationDoesNotClobberStructured(t *testing.T) {
	ctx := context.Background()

	fallback := newMemBackend()
	require.NoError(t, fallback.Put(ctx, "legacy", []byte(`"stale"`)))

	structured := newMemBackend()
	require.NoError(t, structured.Put(ctx, "legacy", []byte(`"current"`)))

	s := store.New(func() (store.Backend, error) {
		return structured, nil
	}, fallback, store.WithLegacyKey("legacy"))
	defer s.Close()

	var got string
	require.NoError(t, s.Get(ctx, "legacy", &got))
	assert.Equal(t, "current", got)
}

func TestStore_MigrationSkipsInvalidJSON(t *testing.T) {
	ctx := context.Background()

	fallback := newMemBackend()
	require.NoError(t, fallback.Put(ctx, "legacy", []byte("not json at all")))

	structured := newMemBackend()
	s := store.New(func() (store.Backend, error) {
		return structured, nil
	}, fallback, store.WithLegacyKey("legacy"))
	defer s.Close()

	// Initialization resolves and the bad value is not copied over.
	require.Equal(t, store.SelectionStructured, s.Selection())
	assert.ErrorIs(t, s.Get(ctx, "legacy", nil), store.ErrNotFound)
}

func TestStore_FallbackPath(t *testing.T) {
	ctx := context.Background()

	fallback, err := filekv.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	s := store.New(func() (store.Backend, error) {
		return nil, errors.New("structured storage denied")
	}, fallback)
	defer s.Close()

	require.Equal(t, store.SelectionFallback, s.Selection())

	require.NoError(t, s.Put(ctx, "k", record{Name: "tripod", Quantity: 1}))
	var got record
	require.NoError(t, s.Get(ctx, "k", &got))
	assert.Equal(t, "tripod", got.Name)

	// ExportAll reflects exactly the fallback store's contents.
	all, err := s.ExportAll(ctx)
	require.NoError(t, err)
	direct, err := fallback.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(direct))
	for k, v := range direct {
		assert.JSONEq(t, string(v), string(all[k]))
	}
}

func TestStore_ConcurrentInitSingleOpen(t *testing.T) {
	ctx := context.Background()

	var opens atomic.Int64
	s := store.New(func() (store.Backend, error) {
		opens.Add(1)
		return newMemBackend(), nil
	}, newMemBackend())
	defer s.Close()

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Get(ctx, "k", nil)
			assert.ErrorIs(t, err, store.ErrNotFound)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), opens.Load())
}

func TestStore_ImportAllPartialFailure(t *testing.T) {
	ctx := context.Background()

	backend := newMemBackend()
	backend.failKeys = map[string]error{"b": errors.New("quota exceeded")}
	s := store.New(nil, backend)
	defer s.Close()

	err := s.ImportAll(ctx, map[string]json.RawMessage{
		"a": json.RawMessage(`1`),
		"b": json.RawMessage(`2`),
		"c": json.RawMessage(`3`),
	})
	require.ErrorIs(t, err, store.ErrWriteFailed)

	// Keys are applied in lexical order, so "a" landed and "c" did not.
	assert.NoError(t, s.Get(ctx, "a", nil))
	assert.ErrorIs(t, s.Get(ctx, "b", nil), store.ErrNotFound)
	assert.ErrorIs(t, s.Get(ctx, "c", nil), store.ErrNotFound)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "a", record{Name: "cable", Quantity: 10}))
			require.NoError(t, s.Put(ctx, "b", []string{"x", "y"}))

			dump, err := s.ExportAll(ctx)
			require.NoError(t, err)

			restored := store.New(nil, newMemBackend())
			defer restored.Close()
			require.NoError(t, restored.ImportAll(ctx, dump))

			got, err := restored.ExportAll(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(dump))
			for k, v := range dump {
				assert.JSONEq(t, string(v), string(got[k]))
			}
		})
	}
}
