// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Store is the persistence layer facade. It presents one asynchronous
// key-value contract regardless of which backend is active and
// guarantees that every operation observes a fully initialized,
// migrated store.
type Store struct {
	open      OpenFunc
	fallback  Backend
	legacyKey string
	logger    *slog.Logger

	initOnce    sync.Once
	initialized atomic.Bool
	active      Backend
	selection   Selection
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLegacyKey sets the well-known key whose fallback value is copied
// into the structured store on first initialization. Empty (the
// default) disables migration.
func WithLegacyKey(key string) Option {
	return func(s *Store) {
		s.legacyKey = key
	}
}

// New creates a Store. The open function is called at most once, on the
// first operation; fallback is used whenever open is nil or fails.
// Close must be called when the Store is no longer needed.
func New(open OpenFunc, fallback Backend, opts ...Option) *Store {
	s := &Store{
		open:     open,
		fallback: fallback,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// init settles the backend selection exactly once. Concurrent callers
// block on the same attempt; the selection never changes afterwards.
// Initialization cannot fail: any structured-open error demotes to the
// fallback backend.
func (s *Store) init() {
	s.initOnce.Do(func() {
		defer s.initialized.Store(true)

		if s.open != nil {
			backend, err := s.open()
			if err == nil {
				s.active = backend
				s.selection = SelectionStructured
				s.logger.Debug("persistence backend selected", "selection", s.selection)
				s.migrate(context.Background())
				return
			}
			s.logger.Warn("structured backend unavailable, using fallback", "err", err)
		}
		s.active = s.fallback
		s.selection = SelectionFallback
		s.logger.Debug("persistence backend selected", "selection", s.selection)
	})
}

// migrate copies the legacy key's value from the fallback store into
// the structured store. It runs at most once per session, only on the
// structured path, and never blocks initialization: every failure is
// logged and the step abandoned. The fallback copy is left untouched.
//
// A value already present in the structured store wins: the fallback
// copy is frozen pre-migration data, and re-copying it every session
// would clobber newer structured writes.
func (s *Store) migrate(ctx context.Context) {
	if s.legacyKey == "" || s.fallback == nil {
		return
	}
	raw, err := s.fallback.Get(ctx, s.legacyKey)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("legacy migration: fallback read failed", "key", s.legacyKey, "err", err)
		return
	}
	if !json.Valid(raw) {
		s.logger.Warn("legacy migration: value is not valid JSON", "key", s.legacyKey)
		return
	}
	_, err = s.active.Get(ctx, s.legacyKey)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("legacy migration: structured read failed", "key", s.legacyKey, "err", err)
		return
	}
	if err := s.active.Put(ctx, s.legacyKey, raw); err != nil {
		s.logger.Warn("legacy migration: structured write failed", "key", s.legacyKey, "err", err)
		return
	}
	s.logger.Info("migrated legacy value into structured store", "key", s.legacyKey)
}

// Selection reports which backend the Store settled on, forcing
// initialization if it has not happened yet.
func (s *Store) Selection() Selection {
	s.init()
	return s.selection
}

// Put stores value under key. The value must be JSON-serializable; it
// is treated opaquely from there on. Returns once the write is durably
// acknowledged by the active backend.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	if key == "" {
		return ErrInvalidKey
	}
	s.init()
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode value for %q: %w", ErrWriteFailed, key, err)
	}
	if err := s.active.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: put %q: %w", ErrWriteFailed, key, err)
	}
	return nil
}

// Get retrieves the value stored under key and decodes it into out.
// Passing a nil out checks existence only. Returns ErrNotFound if no
// entry exists; that is a normal outcome, distinct from ErrReadFailed.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	raw, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode value for %q: %w", ErrReadFailed, key, err)
	}
	return nil
}

// GetRaw retrieves the stored value without decoding it.
func (s *Store) GetRaw(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	s.init()
	raw, err := s.active.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get %q: %w", ErrReadFailed, key, err)
	}
	return raw, nil
}

// Remove deletes the entry for key. Removing a key that does not exist
// is not an error. Failures surface as ErrWriteFailed; callers commonly
// treat them as non-fatal.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	s.init()
	if err := s.active.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: remove %q: %w", ErrWriteFailed, key, err)
	}
	return nil
}

// Clear removes every entry in the active backend. The inactive backend
// is not touched. Clear does not wait for in-flight puts; a put that
// commits after a concurrently issued Clear is not rolled back.
func (s *Store) Clear(ctx context.Context) error {
	s.init()
	if err := s.active.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear: %w", ErrWriteFailed, err)
	}
	return nil
}

// ExportAll returns every stored entry as a key to value mapping, read
// from the active backend.
func (s *Store) ExportAll(ctx context.Context) (map[string]json.RawMessage, error) {
	s.init()
	all, err := s.active.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: export: %w", ErrReadFailed, err)
	}
	out := make(map[string]json.RawMessage, len(all))
	for k, v := range all {
		out[k] = json.RawMessage(v)
	}
	return out, nil
}

// ImportAll writes every pair in mapping into the active backend, one
// key at a time in lexical key order. It is best-effort, not atomic: a
// failure part way through leaves earlier writes applied.
func (s *Store) ImportAll(ctx context.Context, mapping map[string]json.RawMessage) error {
	s.init()
	for _, key := range slices.Sorted(maps.Keys(mapping)) {
		if key == "" {
			return fmt.Errorf("%w: import contains empty key", ErrInvalidKey)
		}
		if err := s.active.Put(ctx, key, mapping[key]); err != nil {
			return fmt.Errorf("%w: import %q: %w", ErrWriteFailed, key, err)
		}
	}
	return nil
}

// Close releases both backends. If initialization never ran, only the
// fallback is closed; the structured backend was never opened.
func (s *Store) Close() error {
	if s.initialized.Load() && s.selection == SelectionStructured {
		if err := s.active.Close(); err != nil {
			s.logger.Error("error closing structured backend", "err", err)
			return err
		}
	}
	if s.fallback != nil {
		return s.fallback.Close()
	}
	return nil
}
