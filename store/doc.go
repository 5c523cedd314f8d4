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


// Package store provides the persistence layer for gearlog.
//
// A Store durably holds arbitrary JSON-serializable values under string
// keys. It is backed by one of two interchangeable backends: a structured
// embedded database (store/badger) with transactional semantics and high
// capacity, and a capacity-limited file-backed fallback (store/filekv)
// used when the structured backend cannot be opened.
//
// # Backend selection
//
// The backend is selected exactly once, lazily, on the first operation.
// Selection is memoized: concurrent early callers block on the same
// attempt rather than racing duplicate setup, and the selection never
// changes for the lifetime of the Store, even if the structured backend
// later misbehaves (those failures surface as errors instead).
//
// Opening the structured backend may fail for environmental reasons
// (path not writable, directory locked by another process). That failure
// is recovered internally: the Store logs it, settles on the fallback
// backend, and every operation keeps working. Callers never observe an
// initialization error.
//
// # Legacy migration
//
// When the structured backend is selected and a legacy key is configured,
// the Store copies that key's value from the fallback into the structured
// store, once, during initialization. The migration is additive: the
// fallback copy is never deleted or modified, and no migration failure
// ever blocks initialization.
//
// # Errors
//
// Failures are wrapped into a small taxonomy before reaching callers:
// ErrWriteFailed, ErrReadFailed, ErrNotFound, ErrInvalidKey. Callers
// should branch with errors.Is on these kinds only; backend-specific
// detail rides along as wrapped context. Absence of a key is reported as
// ErrNotFound and is a normal outcome, not a malfunction.
//
// # Construction
//
// A Store is constructed explicitly and passed to its consumers; there is
// no package-level singleton. The structured-backend open function is
// injected, which keeps backend selection testable:
//
//	fallback, err := filekv.Open("state.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := store.New(func() (store.Backend, error) {
//	    return badger.Open("data")
//	}, fallback)
//	defer s.Close()
package store
