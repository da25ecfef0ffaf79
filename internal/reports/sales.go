package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// normalizeStatus maps a form status value onto the stored capitalisation
// ("pending" selects "Pending" rows).
func normalizeStatus(status string) string {
	return titleCaser.String(status)
}

// SalesHistory lists sale headers in the window, newest first.
func (s *Service) SalesHistory(ctx context.Context, p Params) ([]Row, error) {
	filter := SaleFilter{From: p.From, To: p.To, CustomerID: p.CustomerID}
	if statusFilterActive(p.PaymentStatus) {
		filter.PaymentStatus = normalizeStatus(p.PaymentStatus)
	}
	sales, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(sales))
	for _, sale := range sales {
		rows = append(rows, Row{
			"sale_number":    sale.SaleNumber,
			"customer_name":  sale.CustomerName,
			"sale_date":      sale.SaleDate,
			"total_amount":   sale.TotalAmount,
			"payment_status": sale.PaymentStatus,
			"payment_method": sale.PaymentMethod,
			"item_count":     sale.ItemCount,
		})
	}
	return rows, nil
}

// ProductPerformance aggregates sold quantity, revenue and profit per
// product, highest revenue first.
func (s *Service) ProductPerformance(ctx context.Context, p Params) ([]Row, error) {
	rows, err := s.productSalesRows(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{
			"name":                r["name"],
			"sku":                 r["sku"],
			"category_name":       r["category_name"],
			"total_quantity_sold": r["total_quantity_sold"],
			"total_revenue":       r["total_revenue"],
			"profit":              r["profit"],
			"profit_margin":       r["profit_margin"],
		})
	}
	return out, nil
}

// ProfitMargin is the cost-side view of the same product aggregates.
func (s *Service) ProfitMargin(ctx context.Context, p Params) ([]Row, error) {
	rows, err := s.productSalesRows(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{
			"name":                r["name"],
			"sku":                 r["sku"],
			"total_quantity_sold": r["total_quantity_sold"],
			"total_revenue":       r["total_revenue"],
			"total_cost":          r["total_cost"],
			"profit":              r["profit"],
			"profit_margin":       r["profit_margin"],
		})
	}
	return out, nil
}

// productSalesRows is the shared aggregation behind the performance and
// margin reports. Profit margin is profit over revenue.
func (s *Service) productSalesRows(ctx context.Context, p Params) ([]Row, error) {
	sales, err := s.repo.ProductSales(ctx, p.From, p.To, p.ProductID)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(sales))
	for _, ps := range sales {
		totalCost := ps.Cost.Mul(decimal.NewFromInt(ps.QuantitySold))
		profit := ps.Revenue.Sub(totalCost)
		rows = append(rows, Row{
			"name":                ps.Name,
			"sku":                 ps.SKU,
			"category_name":       ps.CategoryName,
			"total_quantity_sold": ps.QuantitySold,
			"total_revenue":       ps.Revenue,
			"total_cost":          totalCost,
			"profit":              profit,
			"profit_margin":       RatioPercent(profit, ps.Revenue).Round(2),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["total_revenue"].(decimal.Decimal).GreaterThan(rows[j]["total_revenue"].(decimal.Decimal))
	})
	return rows, nil
}

// CustomerSales aggregates orders and spend per customer, biggest spender
// first.
func (s *Service) CustomerSales(ctx context.Context, p Params) ([]Row, error) {
	customers, err := s.repo.CustomerSales(ctx, p.From, p.To, p.CustomerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]Row, 0, len(customers))
	for _, c := range customers {
		avg := decimal.Zero
		if c.TotalOrders > 0 {
			avg = c.TotalSpent.Div(decimal.NewFromInt(c.TotalOrders)).Round(2)
		}
		row := Row{
			"name":            c.Name,
			"customer_type":   c.CustomerType,
			"total_orders":    c.TotalOrders,
			"total_spent":     c.TotalSpent,
			"avg_order_value": avg,
		}
		if c.LastOrderDate != nil {
			row["last_order_date"] = *c.LastOrderDate
			row["days_since_last_order"] = int64(now.Sub(*c.LastOrderDate).Hours() / 24)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["total_spent"].(decimal.Decimal).GreaterThan(rows[j]["total_spent"].(decimal.Decimal))
	})
	return rows, nil
}

// PaymentCollection lists sales with their settlement state, grouped by
// status and oldest first within a status. Pending sales older than 30 days
// are surfaced as Overdue.
func (s *Service) PaymentCollection(ctx context.Context, p Params) ([]Row, error) {
	filter := SaleFilter{From: p.From, To: p.To}
	if statusFilterActive(p.PaymentStatus) {
		filter.PaymentStatus = normalizeStatus(p.PaymentStatus)
	}
	sales, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]Row, 0, len(sales))
	for _, sale := range sales {
		status := sale.PaymentStatus
		daysOutstanding := 0
		if status == "Pending" || status == "Overdue" {
			daysOutstanding = int(now.Sub(sale.SaleDate).Hours() / 24)
			status = "Pending"
			if daysOutstanding > 30 {
				status = "Overdue"
			}
		}
		rows = append(rows, Row{
			"sale_number":      sale.SaleNumber,
			"customer_name":    sale.CustomerName,
			"sale_date":        sale.SaleDate,
			"total_amount":     sale.TotalAmount,
			"payment_status":   status,
			"days_outstanding": daysOutstanding,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := rows[i]["payment_status"].(string), rows[j]["payment_status"].(string)
		if si != sj {
			return si < sj
		}
		return rows[i]["sale_date"].(time.Time).Before(rows[j]["sale_date"].(time.Time))
	})
	return rows, nil
}
