package export

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
)

const (
	sheetName      = "Report"
	headerFill     = "4F46E5"
	columnWidth    = 15
	dateNumFormat  = "yyyy-mm-dd"
	moneyNumFormat = "$#,##0.00"
)

// WriteExcel serialises rows into a single-sheet workbook. Headers get the
// branded fill, currency columns the dollar number format and timestamps a
// date format.
func WriteExcel(w io.Writer, d reports.Descriptor, rows []reports.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Border: border,
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return err
	}
	dateFormat := dateNumFormat
	dateStyle, err := f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &dateFormat})
	if err != nil {
		return err
	}
	moneyFormat := moneyNumFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &moneyFormat})
	if err != nil {
		return err
	}

	for col, key := range d.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, key); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, key := range d.Columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			value := row[key]
			style := cellStyle
			switch v := value.(type) {
			case time.Time:
				if err := f.SetCellValue(sheetName, cell, v); err != nil {
					return err
				}
				style = dateStyle
			default:
				if n, ok := cellNumber(value); ok {
					if err := f.SetCellValue(sheetName, cell, n); err != nil {
						return err
					}
					if isCurrencyColumn(key) {
						style = moneyStyle
					}
				} else if err := f.SetCellValue(sheetName, cell, cellString(value)); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(d.Columns))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, columnWidth); err != nil {
		return err
	}

	return f.Write(w)
}
