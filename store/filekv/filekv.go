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


// Package filekv provides the fallback persistence backend: a
// synchronous, capacity-limited key-value store kept in a single JSON
// file. It has no transactions; a mutex gives single-writer discipline
// within the process, and every mutation rewrites the file atomically
// via a temp file and rename.
package filekv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/poiesic/gearlog/store"
)

// DefaultQuota caps the serialized file size at 5 MiB, the capacity
// class of the small string stores this backend stands in for.
const DefaultQuota = 5 << 20

// ErrQuotaExceeded indicates that a write would grow the file past the
// configured quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// entry is the persisted shape of one key's data.
type entry struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"` // unix microseconds
}

// Store is a file-backed key-value store implementing store.Backend.
type Store struct {
	path  string
	quota int

	mu      sync.RWMutex
	entries map[string]entry
}

var _ store.Backend = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithQuota sets the maximum serialized file size in bytes.
// Default is DefaultQuota.
func WithQuota(bytes int) Option {
	return func(s *Store) {
		if bytes > 0 {
			s.quota = bytes
		}
	}
}

// Open loads the store file at path, creating an empty store if the
// file does not exist yet. A file that cannot be parsed is an error;
// recovery is the operator's call, not silent data loss.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:    path,
		quota:   DefaultQuota,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Put stores value under key and persists the whole file. The write is
// rejected with ErrQuotaExceeded if the serialized store would exceed
// the quota; the in-memory state is rolled back on any failure.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.entries[key]
	s.entries[key] = entry{
		Value:     json.RawMessage(value),
		Timestamp: time.Now().UTC().UnixMicro(),
	}

	err := s.persistLocked()
	if err != nil {
		if existed {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

// Get returns the value stored under key, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	value := make([]byte, len(e.Value))
	copy(value, e.Value)
	return value, nil
}

// Delete removes the entry for key, if any, and persists the file.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.entries[key]
	if !existed {
		return nil
	}
	delete(s.entries, key)

	if err := s.persistLocked(); err != nil {
		s.entries[key] = prev
		return err
	}
	return nil
}

// Clear drops every entry and persists the now-empty file.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.entries
	s.entries = make(map[string]entry)

	if err := s.persistLocked(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

// GetAll returns a copy of every stored key with its value.
func (s *Store) GetAll(ctx context.Context) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string][]byte, len(s.entries))
	for key, e := range s.entries {
		value := make([]byte, len(e.Value))
		copy(value, e.Value)
		all[key] = value
	}
	return all, nil
}

// Close is a no-op; every mutation is persisted as it happens.
func (s *Store) Close() error {
	return nil
}

// persistLocked serializes the store and rewrites the file atomically.
// Caller must hold the write lock.
func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	if len(data) > s.quota {
		return fmt.Errorf("%w: %d bytes over %d byte limit", ErrQuotaExceeded, len(data), s.quota)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
