package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *EquipmentRecord
		wantErr error
	}{
		{
			name:   "valid minimal",
			record: &EquipmentRecord{Name: "SM58", Quantity: 1},
		},
		{
			name:   "valid full",
			record: &EquipmentRecord{Name: "SM58", Category: "microphone", Manufacturer: "Shure", SerialNumber: "a-1", Condition: "Good", Quantity: 3, Notes: "flight case"},
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "empty name",
			record:  &EquipmentRecord{Quantity: 1},
			wantErr: ErrEmptyName,
		},
		{
			name:    "whitespace name",
			record:  &EquipmentRecord{Name: "   ", Quantity: 1},
			wantErr: ErrEmptyName,
		},
		{
			name:    "zero quantity",
			record:  &EquipmentRecord{Name: "SM58"},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			record:  &EquipmentRecord{Name: "SM58", Quantity: -2},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "unknown condition",
			record:  &EquipmentRecord{Name: "SM58", Quantity: 1, Condition: "vaporized"},
			wantErr: ErrInvalidCondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := EquipmentRecord{Name: "SM58", Manufacturer: "Shure", SerialNumber: "a-1", Quantity: 1}
	same := EquipmentRecord{Name: "SM58", Manufacturer: "Shure", SerialNumber: "a-1", Quantity: 7, Notes: "other fields ignored"}
	other := EquipmentRecord{Name: "SM58", Manufacturer: "Shure", SerialNumber: "a-2", Quantity: 1}

	assert.Equal(t, a.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), other.Fingerprint())
}
