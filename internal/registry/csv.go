package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumns is returned when an import CSV lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

var requiredColumns = []string{"code", "name", "type"}

// ReadImportRows parses a chart-of-accounts CSV into ImportRows. Columns
// are matched by header name, case-insensitively: code, name and type are
// required; parentcode, description and balance are optional. Column order
// does not matter.
func ReadImportRows(r io.Reader) ([]ImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // header decides the width
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumns)
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrMissingColumns)
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []ImportRow
	for _, rec := range records[1:] {
		rows = append(rows, ImportRow{
			Code:        field(rec, "code"),
			Name:        field(rec, "name"),
			Type:        field(rec, "type"),
			ParentCode:  field(rec, "parentcode"),
			Description: field(rec, "description"),
			Balance:     field(rec, "balance"),
		})
	}
	return rows, nil
}
