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


// Package inventory implements the equipment-tracking domain on top of
// the persistence layer: named collections of equipment records,
// validation, CSV export and import, and bulk ingestion of CSV files.
//
// All collections are kept under a single storage key (CollectionsKey)
// as one collection-name to record-list mapping, so the persistence
// layer only ever sees opaque JSON. The Service is the sole caller of
// the store; it never needs to know which backend is active.
package inventory
