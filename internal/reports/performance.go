package reports

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// SalesTrend buckets sale revenue by the requested period grouping.
func (s *Service) SalesTrend(ctx context.Context, p Params) ([]Row, error) {
	sales, err := s.repo.SalesInRange(ctx, p.From, p.To)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		orders  int64
		revenue decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, sale := range sales {
		label := BucketLabel(sale.SaleDate, p.Grouping)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{}
			buckets[label] = b
		}
		b.orders++
		b.revenue = b.revenue.Add(sale.TotalAmount)
	}

	periods := make([]string, 0, len(buckets))
	for label := range buckets {
		periods = append(periods, label)
	}
	sort.Strings(periods)

	rows := make([]Row, 0, len(periods))
	for _, label := range periods {
		b := buckets[label]
		rows = append(rows, Row{
			"period":        label,
			"order_count":   b.orders,
			"total_revenue": b.revenue,
		})
	}
	return rows, nil
}

// InventoryTurnover relates units sold in the window to on-hand stock,
// fastest movers first.
func (s *Service) InventoryTurnover(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{})
	if err != nil {
		return nil, err
	}
	sold, err := s.repo.ProductSoldQuantities(ctx, p.From, p.To)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		quantity := sold[prod.ID]
		ratio := TurnoverRatio(quantity, prod.QuantityInStock)
		rows = append(rows, Row{
			"product_name":   prod.Name,
			"sku":            prod.SKU,
			"category_name":  prod.CategoryName,
			"current_stock":  prod.QuantityInStock,
			"sales_quantity": quantity,
			"turnover_ratio": math.Round(ratio*100) / 100,
			"days_to_sell":   math.Round(DaysToSell(ratio)),
			"performance":    TurnoverPerformance(ratio),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["turnover_ratio"].(float64) > rows[j]["turnover_ratio"].(float64)
	})
	return rows, nil
}

// forecastHistoryDays is the trailing window the forecast baseline averages
// over.
const forecastHistoryDays = 180

// RevenueForecast projects revenue for upcoming periods from the trailing
// six-month monthly average.
func (s *Service) RevenueForecast(ctx context.Context, p Params) ([]Row, error) {
	historyStart := p.From.AddDate(0, 0, -forecastHistoryDays)
	sales, err := s.repo.SalesInRange(ctx, historyStart, p.From)
	if err != nil {
		return nil, err
	}

	monthly := make(map[string]decimal.Decimal)
	for _, sale := range sales {
		label := BucketLabel(sale.SaleDate, GroupMonthly)
		monthly[label] = monthly[label].Add(sale.TotalAmount)
	}

	baseline := decimal.Zero
	if len(monthly) > 0 {
		var total decimal.Decimal
		for _, revenue := range monthly {
			total = total.Add(revenue)
		}
		baseline = total.Div(decimal.NewFromInt(int64(len(monthly))))
	}

	points := s.forecast.Forecast(baseline)
	rows := make([]Row, 0, len(points))
	for _, pt := range points {
		period := p.To.AddDate(0, 0, 30*(pt.Offset-1))
		rows = append(rows, Row{
			"period":     period.Format("2006-01"),
			"type":       "Forecast",
			"revenue":    pt.Revenue,
			"confidence": "Medium",
		})
	}
	return rows, nil
}

// ProductProfitability ranks products by total profit over the window.
func (s *Service) ProductProfitability(ctx context.Context, p Params) ([]Row, error) {
	sales, err := s.repo.ProductSales(ctx, p.From, p.To, FilterAll)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(sales))
	for _, ps := range sales {
		totalCost := ps.Cost.Mul(decimal.NewFromInt(ps.QuantitySold))
		profit := ps.Revenue.Sub(totalCost)
		margin := RatioPercent(profit, ps.Revenue).Round(2)
		rows = append(rows, Row{
			"name":               ps.Name,
			"sku":                ps.SKU,
			"category_name":      ps.CategoryName,
			"quantity_sold":      ps.QuantitySold,
			"total_revenue":      ps.Revenue,
			"total_profit":       profit,
			"profit_margin":      margin,
			"profitability_rank": ProfitabilityRank(margin),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["total_profit"].(decimal.Decimal).GreaterThan(rows[j]["total_profit"].(decimal.Decimal))
	})
	return rows, nil
}

// growthSnapshot is the cacheable payload behind the growth report.
type growthSnapshot struct {
	Current  PeriodTotals `json:"current"`
	Previous PeriodTotals `json:"previous"`
}

// BusinessGrowth compares the window against the immediately preceding
// window of the same length, one row per headline metric.
func (s *Service) BusinessGrowth(ctx context.Context, p Params) ([]Row, error) {
	key, err := s.cache.BuildKey(ctx, keyGrowth(p.From, p.To))
	if err != nil {
		return nil, err
	}

	var snap growthSnapshot
	err = s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (interface{}, error) {
		periodDays := int(p.To.Sub(p.From).Hours() / 24)
		prevStart := p.From.AddDate(0, 0, -periodDays)

		current, err := s.repo.PeriodTotals(ctx, p.From, p.To)
		if err != nil {
			return nil, err
		}
		previous, err := s.repo.PeriodTotals(ctx, prevStart, p.From)
		if err != nil {
			return nil, err
		}
		return growthSnapshot{Current: current, Previous: previous}, nil
	})
	if err != nil {
		return nil, err
	}

	return []Row{
		growthRow("Revenue", snap.Current.Revenue, snap.Previous.Revenue),
		growthRow("Orders", decimal.NewFromInt(snap.Current.Orders), decimal.NewFromInt(snap.Previous.Orders)),
		growthRow("Customers", decimal.NewFromInt(snap.Current.Customers), decimal.NewFromInt(snap.Previous.Customers)),
	}, nil
}

func growthRow(metric string, current, previous decimal.Decimal) Row {
	growth := GrowthRate(current, previous).Round(2)
	return Row{
		"metric":          metric,
		"current_period":  current,
		"previous_period": previous,
		"growth_rate":     growth,
		"trend":           TrendTag(growth),
	}
}
