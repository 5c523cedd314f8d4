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
	"fmt"
	"strings"
)

// Conditions recognized by validation. An empty condition is allowed
// and means "unspecified".
var validConditions = map[string]bool{
	"new":    true,
	"good":   true,
	"fair":   true,
	"poor":   true,
	"broken": true,
}

// ValidateRecord validates an EquipmentRecord according to domain rules.
//
// Validation rules:
//   - Name must not be empty or whitespace
//   - Quantity must be at least 1
//   - Condition, when set, must be one of the recognized values
//
// NOT validated:
//   - AddedAt (a zero value is filled in on insert)
//   - Category, Manufacturer, SerialNumber, Notes (free-form)
func ValidateRecord(record *EquipmentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyName)
	}

	if record.Quantity < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidQuantity)
	}

	if record.Condition != "" && !validConditions[strings.ToLower(record.Condition)] {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrInvalidCondition, record.Condition)
	}

	return nil
}

// ValidateCollectionName validates a collection name.
func ValidateCollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCollectionName
	}
	return nil
}
