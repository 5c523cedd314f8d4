package inventory_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/gearlog/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportParseCSV_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	added := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	records := []inventory.EquipmentRecord{
		{Name: "SM58", Category: "microphone", Manufacturer: "Shure", SerialNumber: "a-1", Condition: "good", Quantity: 2, Notes: "with clip", AddedAt: added},
		{Name: "XLR cable, 10m", Quantity: 12, AddedAt: added},
	}
	for _, r := range records {
		require.NoError(t, svc.AddRecord(ctx, "studio", r))
	}

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, "studio", &buf))

	parsed, err := inventory.ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}

func TestExportCSV_MissingCollection(t *testing.T) {
	svc := newTestService(t)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), "missing", &buf)
	assert.ErrorIs(t, err, inventory.ErrCollectionNotFound)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: inventory.ErrBadCSVHeader,
		},
		{
			name:    "wrong header",
			input:   "item,count\nSM58,2\n",
			wantErr: inventory.ErrBadCSVHeader,
		},
		{
			name:    "bad quantity",
			input:   "name,category,manufacturer,serial_number,condition,quantity,notes,added_at\nSM58,,,,,two,,\n",
			wantErr: inventory.ErrInvalidQuantity,
		},
		{
			name:    "invalid record",
			input:   "name,category,manufacturer,serial_number,condition,quantity,notes,added_at\n,,,,,2,,\n",
			wantErr: inventory.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inventory.ParseCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
