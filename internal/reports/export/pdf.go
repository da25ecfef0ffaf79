package export

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
)

var (
	pdfAccent = &props.Color{Red: 79, Green: 70, Blue: 229}
	pdfGray   = &props.Color{Red: 100, Green: 100, Blue: 100}
	pdfWhite  = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// BuildPDF renders the report as a titled table and returns the document
// bytes.
func BuildPDF(d reports.Descriptor, rows []reports.Row, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(d.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(12).Add(
		col.New(8).Add(
			text.New(d.Title, props.Text{Style: fontstyle.Bold, Size: 14, Color: pdfAccent}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("Generated %s", generatedAt.Format(cellTimeLayout)), props.Text{
				Size: 8, Top: 3, Color: pdfGray,
			}),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: pdfAccent, Thickness: 0.5}))

	widths := columnGrid(len(d.Columns))

	header := row.New(7).WithStyle(&props.Cell{BackgroundColor: pdfAccent})
	headerCols := make([]core.Col, 0, len(d.Columns))
	for i, key := range d.Columns {
		headerCols = append(headerCols, col.New(widths[i]).Add(
			text.New(key, props.Text{Style: fontstyle.Bold, Size: 7, Color: pdfWhite, Top: 1.5}),
		))
	}
	m.AddRows(header.Add(headerCols...))

	for _, r := range rows {
		cols := make([]core.Col, 0, len(d.Columns))
		for i, key := range d.Columns {
			cols = append(cols, col.New(widths[i]).Add(
				text.New(cellDisplay(key, r[key]), props.Text{Size: 7, Top: 1}),
			))
		}
		m.AddRows(row.New(6).Add(cols...))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export: build pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// columnGrid spreads n report columns across the 12-unit page grid, leading
// columns absorbing the remainder.
func columnGrid(n int) []int {
	if n <= 0 {
		return nil
	}
	if n > 12 {
		n = 12
	}
	base := 12 / n
	rem := 12 % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < rem {
			widths[i]++
		}
	}
	return widths
}
