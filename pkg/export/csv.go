package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// WriteCSV encodes the sheet as CSV, one header row followed by one row per
// assessment.
func WriteCSV(sheet Sheet) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(columns()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := writer.Write(row.values()); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
