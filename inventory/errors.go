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


package inventory

import "errors"

var (
	// ErrStoreRequired is returned when a Service is built without a store.
	ErrStoreRequired = errors.New("store required")

	// ErrInvalidRecord indicates an EquipmentRecord failed validation.
	ErrInvalidRecord = errors.New("invalid equipment record")

	// ErrEmptyName indicates the record Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInvalidCondition indicates an unrecognized condition value.
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrEmptyCollectionName indicates an empty collection name.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrCollectionExists indicates the collection already exists.
	ErrCollectionExists = errors.New("collection already exists")

	// ErrCollectionNotFound indicates the collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrRecordNotFound indicates no record matched the fingerprint.
	ErrRecordNotFound = errors.New("record not found")

	// ErrBadCSVHeader indicates a CSV file whose header row does not
	// match the export format.
	ErrBadCSVHeader = errors.New("unexpected CSV header")
)
