// Package export serialises generated report rows into the downloadable
// formats. Serialisers buffer the whole document and fail atomically: a
// partial file is never returned.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
)

// Format identifies an export serialisation.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// ErrUnknownFormat indicates a format outside the supported set.
var ErrUnknownFormat = fmt.Errorf("export: unknown format")

// ParseFormat validates a requested format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatExcel, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type the HTTP layer sends for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Ext is the file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	default:
		return "csv"
	}
}

// Filename composes the download name for a report generated at ts.
func Filename(t reports.Type, f Format, ts time.Time) string {
	return fmt.Sprintf("%s_%s.%s", t, ts.Format("20060102_150405"), f.Ext())
}

// Render serialises rows for the descriptor into the requested format.
func Render(d reports.Descriptor, rows []reports.Row, f Format, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatCSV:
		if err := WriteCSV(&buf, d, rows); err != nil {
			return nil, err
		}
	case FormatExcel:
		if err := WriteExcel(&buf, d, rows); err != nil {
			return nil, err
		}
	case FormatPDF:
		pdf, err := BuildPDF(d, rows, generatedAt)
		if err != nil {
			return nil, err
		}
		return pdf, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return buf.Bytes(), nil
}
