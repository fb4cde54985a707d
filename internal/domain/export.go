package domain

import "strings"

// ExportFormat is a guest-list export file type.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

// ParseExportFormat defaults to CSV when s is empty.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ExportCSV, nil
	case ExportCSV, ExportXLSX, ExportPDF:
		return f, nil
	default:
		return "", NewValidationError("format", "format must be csv, xlsx or pdf")
	}
}

// ExportFile is a rendered export ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// GuestExporter renders an event's guest list in one format.
type GuestExporter interface {
	Export(event *Event, guests []*Guest, format ExportFormat) (*ExportFile, error)
}
