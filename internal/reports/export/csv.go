package export

import (
	"encoding/csv"
	"io"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
)

// WriteCSV serialises rows in the descriptor's column order, header first.
func WriteCSV(w io.Writer, d reports.Descriptor, rows []reports.Row) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(d.Columns); err != nil {
		return err
	}
	record := make([]string, len(d.Columns))
	for _, row := range rows {
		for i, key := range d.Columns {
			record[i] = cellString(row[key])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
