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
	"encoding/json"
	"time"
)

// Entry is one stored key/value/timestamp triple. At most one Entry
// exists per key per backend; a write replaces the prior Entry for that
// key atomically with respect to readers of the key.
//
// The shape is private to the backends: Timestamp is set on every write
// for bookkeeping and is never exposed to callers or used for eviction.
type Entry struct {
	Key       string
	Value     json.RawMessage
	Timestamp time.Time
}

// Selection identifies which backend a Store settled on during
// initialization. It is decided once and never changes afterwards.
type Selection int

const (
	// SelectionStructured means the structured embedded database is active.
	SelectionStructured Selection = iota + 1
	// SelectionFallback means the file-backed fallback store is active.
	SelectionFallback
)

func (s Selection) String() string {
	switch s {
	case SelectionStructured:
		return "structured"
	case SelectionFallback:
		return "fallback"
	default:
		return "unknown"
	}
}
