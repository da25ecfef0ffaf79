package reports

import "github.com/shopspring/decimal"

// Metric helpers are pure and total: every denominator that can legitimately
// be zero yields the sentinel 0 instead of an error, so a report can always
// be rendered over sparse data.

var hundred = decimal.NewFromInt(100)

// StockValue is unit price times on-hand quantity.
func StockValue(price decimal.Decimal, qty int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty))
}

// Shortage is how far on-hand stock sits below the reorder level, floored at
// zero.
func Shortage(reorderLevel, qty int64) int64 {
	if s := reorderLevel - qty; s > 0 {
		return s
	}
	return 0
}

// Margin is unit price minus unit cost.
func Margin(price, cost decimal.Decimal) decimal.Decimal {
	return price.Sub(cost)
}

// MarginPercent is margin over cost as a percentage, 0 when cost is zero.
func MarginPercent(price, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return Margin(price, cost).Div(cost).Mul(hundred)
}

// RatioPercent is numerator/denominator*100 with a zero-denominator guard.
func RatioPercent(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator).Mul(hundred)
}

// TurnoverRatio is units sold over current stock, 0 when stock is zero.
func TurnoverRatio(sold, stock int64) float64 {
	if stock <= 0 {
		return 0
	}
	return float64(sold) / float64(stock)
}

// DaysToSell converts a turnover ratio to days of supply, 0 when the ratio
// is zero.
func DaysToSell(turnoverRatio float64) float64 {
	if turnoverRatio <= 0 {
		return 0
	}
	return 365 / turnoverRatio
}

// ProfitabilityRank tiers a profit margin percentage.
func ProfitabilityRank(marginPct decimal.Decimal) string {
	switch {
	case marginPct.GreaterThan(decimal.NewFromInt(40)):
		return "High"
	case marginPct.GreaterThan(decimal.NewFromInt(20)):
		return "Medium"
	default:
		return "Low"
	}
}

// TurnoverPerformance tiers a turnover ratio.
func TurnoverPerformance(ratio float64) string {
	switch {
	case ratio > 12:
		return "Fast"
	case ratio > 4:
		return "Medium"
	default:
		return "Slow"
	}
}

// GrowthRate is the percent change from previous to current, 0 when the
// previous value is zero.
func GrowthRate(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// TrendTag classifies a growth rate sign.
func TrendTag(growth decimal.Decimal) string {
	switch growth.Sign() {
	case 1:
		return "Up"
	case -1:
		return "Down"
	default:
		return "Flat"
	}
}

// Aging bucket breakpoints, inclusive on the upper bound of each bucket.
const (
	agingBucket30  = 30
	agingBucket60  = 60
	agingBucket90  = 90
	agingBucket180 = 180
)

// AgingBucket classifies days-in-stock into one of five fixed buckets.
func AgingBucket(daysInStock int) string {
	switch {
	case daysInStock <= agingBucket30:
		return "< 30 days"
	case daysInStock <= agingBucket60:
		return "30-60 days"
	case daysInStock <= agingBucket90:
		return "60-90 days"
	case daysInStock <= agingBucket180:
		return "90-180 days"
	default:
		return "> 180 days"
	}
}

// AuditStatus flags a product whose absolute net adjustment quantity in the
// period reaches the threshold.
func AuditStatus(totalAdjustments, threshold int64) string {
	if totalAdjustments < 0 {
		totalAdjustments = -totalAdjustments
	}
	if totalAdjustments >= threshold {
		return "Review Required"
	}
	return "Normal"
}

// ReorderPriority ranks replenishment urgency.
func ReorderPriority(stock, reorderLevel int64) string {
	switch {
	case stock == 0:
		return "High"
	case stock < reorderLevel:
		return "Medium"
	default:
		return "Low"
	}
}

// ReorderAmount restocks to twice the reorder level.
func ReorderAmount(reorderLevel, stock int64) int64 {
	return reorderLevel*2 - stock
}
