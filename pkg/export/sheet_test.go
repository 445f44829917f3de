package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	sheet := Sheet{
		Title: "Assessment Results",
		Rows: []ResultRow{
			{Employee: "Jane Doe (E001)", Title: "H1 Review", Category: "Probation", Status: "COMPLETED",
				Self: "3.00", Manager: "4.00", Approver2: "-", Approver3: "-", GM: "4.50", Final: "4.50"},
		},
	}

	data, err := WriteCSV(sheet)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, columns(), records[0])
	require.Equal(t, "Jane Doe (E001)", records[1][0])
	require.Equal(t, "4.50", records[1][9])
}

func TestWriteCSVEmptySheetKeepsHeader(t *testing.T) {
	data, err := WriteCSV(Sheet{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestWritePDFProducesDocument(t *testing.T) {
	sheet := Sheet{
		Title:       "Assessment Results",
		GeneratedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Rows: []ResultRow{
			{Employee: "Jane Doe (E001)", Title: "H1 Review", Category: "Annual", Status: "DRAFT",
				Self: "-", Manager: "-", Approver2: "-", Approver3: "-", GM: "-", Final: "-"},
		},
	}

	data, err := WritePDF(sheet)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
