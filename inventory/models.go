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

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// CollectionsKey is the storage key holding every collection. Earlier,
// fallback-only builds of the app wrote the same key, which is why the
// persistence layer's legacy migration is configured with it.
const CollectionsKey = "equipment-collections"

// Fingerprint is a deterministic content-based identifier for an
// equipment record.
type Fingerprint uint64

// EquipmentRecord is a single piece of tracked equipment.
type EquipmentRecord struct {
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	SerialNumber string    `json:"serialNumber,omitempty"`
	Condition    string    `json:"condition,omitempty"`
	Quantity     int       `json:"quantity"`
	Notes        string    `json:"notes,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
}

// Fingerprint hashes the identifying fields (name, manufacturer,
// serial number) with BLAKE2b. Identical equipment hashes to the same
// fingerprint, which bulk import uses to de-duplicate and RemoveRecord
// uses for addressing.
func (r *EquipmentRecord) Fingerprint() Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(strings.Join([]string{r.Name, r.Manufacturer, r.SerialNumber}, "\x1f")))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Collections maps a collection name to its ordered equipment records.
// This is the whole persisted state of the tracker.
type Collections map[string][]EquipmentRecord
