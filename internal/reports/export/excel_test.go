package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteExcel(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteExcel(buf, testDescriptor(), testRows()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Report"}, f.GetSheetList())

	header, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "sale_number", header)

	saleNumber, err := f.GetCellValue("Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, "S-001", saleNumber)

	// Currency columns are stored as numbers and picked up by the money format.
	amount, err := f.GetCellValue("Report", "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1234.5", amount)

	width, err := f.GetColWidth("Report", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(15), width)
}

func TestRenderExcelRoundTrip(t *testing.T) {
	data, err := Render(testDescriptor(), testRows(), FormatExcel, time.Now())
	require.NoError(t, err)
	_, err = excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err, "rendered workbook should open")
}
