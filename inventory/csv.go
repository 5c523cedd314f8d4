package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"
)

// csvHeader is the fixed column order for CSV export and import.
var csvHeader = []string{
	"name", "category", "manufacturer", "serial_number",
	"condition", "quantity", "notes", "added_at",
}

// ExportCSV writes a collection's records to w in the export format:
// a header row followed by one row per record, timestamps in RFC 3339.
func (s *Service) ExportCSV(ctx context.Context, collection string, w io.Writer) error {
	records, err := s.Records(ctx, collection)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		addedAt := ""
		if !r.AddedAt.IsZero() {
			addedAt = r.AddedAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			r.Name, r.Category, r.Manufacturer, r.SerialNumber,
			r.Condition, strconv.Itoa(r.Quantity), r.Notes, addedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads records in the export format. The header row is
// required and must match the export header exactly; every record is
// validated before being returned.
func ParseCSV(r io.Reader) ([]EquipmentRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrBadCSVHeader)
	}
	if err != nil {
		return nil, err
	}
	if !slices.Equal(header, csvHeader) {
		return nil, fmt.Errorf("%w: got %v", ErrBadCSVHeader, header)
	}

	var records []EquipmentRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		quantity, err := strconv.Atoi(row[5])
		if err != nil {
			return nil, fmt.Errorf("%w: %w: quantity %q", ErrInvalidRecord, ErrInvalidQuantity, row[5])
		}

		var addedAt time.Time
		if row[7] != "" {
			addedAt, err = time.Parse(time.RFC3339, row[7])
			if err != nil {
				return nil, fmt.Errorf("%w: added_at %q: %w", ErrInvalidRecord, row[7], err)
			}
		}

		record := EquipmentRecord{
			Name:         row[0],
			Category:     row[1],
			Manufacturer: row[2],
			SerialNumber: row[3],
			Condition:    row[4],
			Quantity:     quantity,
			Notes:        row[6],
			AddedAt:      addedAt,
		}
		if err := ValidateRecord(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
