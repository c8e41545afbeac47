// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/pdiddy/support-engine/pkg/types"
)

// utf8BOM is prepended by some spreadsheet exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV turns a CSV export into records. The first row is the header;
// header cells are trimmed but kept in sheet order, blank headers included.
// Rows whose cells are all empty are skipped. Short rows are padded so
// every record carries the full header; cells beyond the header are
// dropped, since nothing can address them by name.
func ParseCSV(data []byte) ([]types.Record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records := make([]types.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if allEmpty(row) {
			continue
		}
		fields := make([]types.Field, len(header))
		for i, name := range header {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			fields[i] = types.Field{Name: name, Value: value}
		}
		records = append(records, types.Record{Fields: fields})
	}
	return records, nil
}

func allEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
