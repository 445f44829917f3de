package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Column width weights. Employee and Title get room to breathe; the six
// score columns stay narrow.
var columnWeights = []float64{4, 4, 2, 2.5, 1.5, 1.5, 1.5, 1.5, 1.5, 1.5}

// WritePDF renders the sheet as a landscape A4 table. Ten columns do not fit
// a portrait page at a readable size.
func WritePDF(sheet Sheet) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if sheet.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(sheet.Title), "", 1, "C", false, 0, "")
	}
	if !sheet.GeneratedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, "Generated "+sheet.GeneratedAt.UTC().Format(time.RFC3339), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	widths := columnWidths(277)

	pdf.SetFont("Arial", "B", 9)
	for i, name := range columns() {
		pdf.CellFormat(widths[i], 8, name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range sheet.Rows {
		for i, value := range row.values() {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(usable float64) []float64 {
	total := 0.0
	for _, w := range columnWeights {
		total += w
	}
	widths := make([]float64, len(columnWeights))
	for i, w := range columnWeights {
		widths[i] = usable * w / total
	}
	return widths
}
