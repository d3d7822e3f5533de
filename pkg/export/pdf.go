package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfLineHeight = 5.0
	pdfPageWidth  = 277.0 // A4 landscape minus margins
)

// RenderPDF draws the dataset as a landscape table. Cells wrap and a row
// that would cross the page bottom starts a new page with the header repeated.
func RenderPDF(data Dataset, subtitle string) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	widths := columnWidths(data.Columns)
	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range data.Columns {
			pdf.CellFormat(widths[i], 7, tr(col.Title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(strings.ToUpper(data.Title)), "", 1, "C", false, 0, "")
	}
	if subtitle != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, tr(subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range data.Rows {
		lines := make([][]string, len(row))
		height := pdfLineHeight
		for i, cell := range row {
			lines[i] = pdf.SplitText(tr(cell), widths[i]-2)
			if len(lines[i]) == 0 {
				lines[i] = []string{""}
			}
			if h := float64(len(lines[i])) * pdfLineHeight; h > height {
				height = h
			}
		}
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		x, y := pdf.GetXY()
		for i := range row {
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.SetXY(x+1, y)
			pdf.MultiCell(widths[i]-2, pdfLineHeight, strings.Join(lines[i], "\n"), "", "L", false)
			x += widths[i]
			pdf.SetXY(x, y)
		}
		pdf.SetXY(10, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(cols []Column) []float64 {
	total := 0.0
	for _, c := range cols {
		w := c.Weight
		if w <= 0 {
			w = 1
		}
		total += w
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		w := c.Weight
		if w <= 0 {
			w = 1
		}
		widths[i] = pdfPageWidth * w / total
	}
	return widths
}
