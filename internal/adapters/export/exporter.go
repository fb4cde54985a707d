package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"guestrsvp/internal/domain"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

var headers = []string{"Name", "Type", "Contact", "Phone", "Email", "Reserved", "Confirmed", "Status", "Members", "Note"}

type guestExporter struct {
	now func() time.Time
}

// NewGuestExporter returns a GuestExporter writing CSV, XLSX and PDF guest lists.
func NewGuestExporter() domain.GuestExporter {
	return &guestExporter{now: time.Now}
}

func (e *guestExporter) Export(event *domain.Event, guests []*domain.Guest, format domain.ExportFormat) (*domain.ExportFile, error) {
	base := fmt.Sprintf("guests_%s_%s", event.Slug, e.now().Format("20060102_150405"))
	rows := make([][]string, 0, len(guests))
	for _, g := range guests {
		rows = append(rows, guestRow(g))
	}

	var (
		content     []byte
		contentType string
		err         error
	)
	switch format {
	case domain.ExportCSV:
		content, err = writeCSV(rows)
		contentType = contentTypeCSV
	case domain.ExportXLSX:
		content, err = writeXLSX(rows)
		contentType = contentTypeXLSX
	case domain.ExportPDF:
		content, err = writePDF(event, rows)
		contentType = contentTypePDF
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	return &domain.ExportFile{
		Filename:    base + "." + string(format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func guestRow(g *domain.Guest) []string {
	return []string{
		g.DisplayName,
		string(g.Kind),
		g.Contact.Name,
		g.Contact.Phone,
		g.Contact.Email,
		strconv.Itoa(g.SeatsReserved),
		strconv.Itoa(g.SeatsConfirmed),
		string(g.Status),
		strings.Join(g.MemberNames, ", "),
		g.Note,
	}
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Guests"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		// seat counts are stored as numbers
		values[5], values[6] = mustAtoi(row[5]), mustAtoi(row[6])
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

var pdfWidths = []float64{45, 18, 35, 30, 45, 18, 20, 20, 46}

func writePDF(event *domain.Event, rows [][]string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(event.EventName+" - Guest list"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s  %s  %s", event.EventDate.String(), event.EventTime, event.VenueName)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	for i, w := range pdfWidths {
		pdf.CellFormat(w, 7, headers[i], "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for i, w := range pdfWidths {
			align := "L"
			if i == 5 || i == 6 {
				align = "C"
			}
			pdf.CellFormat(w, 6, tr(row[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
