// Package export renders the event agenda as CSV, PDF and iCalendar.
package export

import "fmt"

// Column is a table column. Weight sets its relative width in the PDF.
type Column struct {
	Title  string
	Weight float64
}

// Dataset is an ordered table: each row holds one cell per column.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

func (d Dataset) validate() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset %q has no columns", d.Title)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("dataset %q row %d has %d cells, want %d", d.Title, i, len(row), len(d.Columns))
		}
	}
	return nil
}
