package dto

// ReportFormat selects the export encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportRequest asks for an export of assessment results.
type ReportRequest struct {
	Format   ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	Category string       `json:"category"`
	Group    string       `json:"group"`
}

// ReportResponse returns the signed download link for a rendered export.
type ReportResponse struct {
	File      string `json:"file"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
