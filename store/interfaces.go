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

import "context"

// Backend is one of the two interchangeable storage implementations
// behind a Store. Implementations must be safe for concurrent use.
//
// Values are opaque JSON bytes; backends record a write timestamp per
// key but never interpret the value. Key absence is reported as
// ErrNotFound from Get, while Delete on a missing key is a no-op.
type Backend interface {
	// Put upserts the value under key, replacing any prior entry.
	Put(ctx context.Context, key string, value []byte) error

	// Get returns the stored value, or ErrNotFound if no entry exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the entry for key, if any.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry in this backend.
	Clear(ctx context.Context) error

	// GetAll returns every stored key with its value.
	GetAll(ctx context.Context) (map[string][]byte, error)

	// Close releases backend resources.
	Close() error
}

// OpenFunc opens the structured backend. A Store calls it at most once,
// during initialization; any error makes the Store settle on its
// fallback backend instead.
type OpenFunc func() (Backend, error)
