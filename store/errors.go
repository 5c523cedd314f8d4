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

import "errors"

var (
	// ErrNotFound indicates that no value is stored under the requested key.
	// It is a normal outcome, not a backend malfunction.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey indicates an empty or otherwise unusable key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrOpenFailed indicates that the structured backend could not be
	// opened. It is recovered internally during initialization and never
	// surfaces from Store operations.
	ErrOpenFailed = errors.New("backend open failed")

	// ErrWriteFailed indicates that a put, remove, clear or import failed
	// at the backend (capacity exceeded, transaction abort, serialization
	// failure). Writes are not retried automatically.
	ErrWriteFailed = errors.New("write failed")

	// ErrReadFailed indicates that a get or export failed to read or
	// decode. Distinct from ErrNotFound.
	ErrReadFailed = errors.New("read failed")

	// ErrTruncatedData indicates that a stored entry was cut short during
	// decoding.
	ErrTruncatedData = errors.New("truncated data")
)
