package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
)

func testDescriptor() reports.Descriptor {
	return reports.Descriptor{
		Family:  reports.FamilySales,
		Type:    reports.TypeSalesHistory,
		Title:   "Sales History Report",
		Columns: []string{"sale_number", "customer_name", "sale_date", "total_amount", "item_count"},
	}
}

func testRows() []reports.Row {
	return []reports.Row{
		{
			"sale_number":   "S-001",
			"customer_name": "Acme",
			"sale_date":     time.Date(2025, 4, 2, 14, 30, 0, 0, time.UTC),
			"total_amount":  decimal.NewFromFloat(1234.50),
			"item_count":    int64(3),
		},
		{
			"sale_number":   "S-002",
			"customer_name": "Beta Traders",
			"total_amount":  decimal.NewFromInt(80),
			"item_count":    int64(1),
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "excel", "pdf"} {
		f, err := ParseFormat(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, string(f))
	}
	_, err := ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 4, 2, 14, 30, 5, 0, time.UTC)
	assert.Equal(t, "low_stock_20250402_143005.xlsx", Filename(reports.TypeLowStock, FormatExcel, ts))
	assert.Equal(t, "sales_history_20250402_143005.csv", Filename(reports.TypeSalesHistory, FormatCSV, ts))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatExcel.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestWriteCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteCSV(buf, testDescriptor(), testRows()))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus 2 rows")

	assert.Equal(t, "sale_number", records[0][0])
	assert.Equal(t, "item_count", records[0][4])
	assert.Equal(t, "2025-04-02 14:30", records[1][2])
	assert.Equal(t, "1234.5", records[1][3])
	// Missing keys render as empty cells.
	assert.Equal(t, "", records[2][2])
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(testDescriptor(), testRows(), Format("docx"), time.Now())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestIsCurrencyColumn(t *testing.T) {
	for _, key := range []string{"price", "total_amount", "cost_value", "shortage_value", "estimated_cost"} {
		assert.True(t, isCurrencyColumn(key), key)
	}
	for _, key := range []string{"name", "sku", "quantity_in_stock", "days_outstanding"} {
		assert.False(t, isCurrencyColumn(key), key)
	}
}

func TestCellDisplayGroupsCurrency(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", cellDisplay("total_amount", decimal.NewFromFloat(1234567.89)))
	assert.Equal(t, "Widget", cellDisplay("name", "Widget"))
}
