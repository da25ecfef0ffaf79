package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const cellTimeLayout = "2006-01-02 15:04"

// currencyKeywords mark currency-valued columns by key substring.
var currencyKeywords = []string{"price", "cost", "amount", "budget", "value"}

// isCurrencyColumn reports whether a column key carries a money value.
func isCurrencyColumn(key string) bool {
	for _, kw := range currencyKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// cellString renders a cell value for the text formats. Timestamps use the
// minute-resolution layout; a missing key renders empty.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(cellTimeLayout)
	case decimal.Decimal:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

var displayPrinter = message.NewPrinter(language.English)

// cellDisplay renders a cell for the PDF table: currency columns get a
// grouped dollar rendering, the rest fall back to cellString.
func cellDisplay(key string, v any) string {
	if !isCurrencyColumn(key) {
		return cellString(v)
	}
	switch val := v.(type) {
	case decimal.Decimal:
		f, _ := val.Float64()
		return displayPrinter.Sprintf("$%.2f", f)
	case float64:
		return displayPrinter.Sprintf("$%.2f", val)
	case int:
		return displayPrinter.Sprintf("$%.2f", float64(val))
	case int64:
		return displayPrinter.Sprintf("$%.2f", float64(val))
	default:
		return cellString(v)
	}
}

// cellNumber extracts a numeric cell value for the spreadsheet format.
func cellNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		f, _ := val.Float64()
		return f, true
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}
