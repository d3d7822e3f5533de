package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM lets spreadsheet apps pick the right encoding for Indonesian text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RenderCSV writes the dataset with a header row.
func RenderCSV(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(append([]byte{}, utf8BOM...))
	w := csv.NewWriter(buf)

	header := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		header[i] = col.Title
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(data.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
