package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// StockAudit reconciles per-product movement totals for the window and flags
// products whose adjustment volume crosses the review threshold, flagged
// products first.
func (s *Service) StockAudit(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		CategoryID:      p.CategoryID,
		SupplierID:      p.SupplierID,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.MovementTotals(ctx, p.From, p.To, p.CategoryID, p.SupplierID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[int64]MovementTotalsRow, len(totals))
	for _, t := range totals {
		byProduct[t.ProductID] = t
	}

	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		t := byProduct[prod.ID]
		rows = append(rows, Row{
			"name":          prod.Name,
			"sku":           prod.SKU,
			"category_name": prod.CategoryName,
			"current_stock": prod.QuantityInStock,
			"total_in":      t.TotalIn,
			"total_out":     t.TotalOut,
			"net_movement":  t.TotalIn - t.TotalOut + t.TotalAdjustments,
			"audit_status":  AuditStatus(t.TotalAdjustments, s.opts.AuditAdjustmentThreshold),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i]["audit_status"] == "Review Required", rows[j]["audit_status"] == "Review Required"
		if ri != rj {
			return ri
		}
		return rows[i]["name"].(string) < rows[j]["name"].(string)
	})
	return rows, nil
}

// UserActivity merges login, stock movement and sale creation events into a
// single audit trail, most recent first.
func (s *Service) UserActivity(ctx context.Context, p Params) ([]Row, error) {
	var rows []Row

	if activityWanted(p.ActivityType, "login") {
		logins, err := s.repo.ListUserLogins(ctx, p.From, p.To, p.UserID)
		if err != nil {
			return nil, err
		}
		for _, l := range logins {
			rows = append(rows, Row{
				"username":      l.Username,
				"activity_type": "Login",
				"activity_date": l.LastLogin,
				"details":       fmt.Sprintf("User %s logged in", l.Username),
				"status":        "Success",
			})
		}
	}

	if activityWanted(p.ActivityType, "inventory") {
		movements, err := s.repo.ListMovements(ctx, MovementFilter{
			From:   p.From,
			To:     p.To,
			UserID: p.UserID,
		})
		if err != nil {
			return nil, err
		}
		for _, m := range movements {
			rows = append(rows, Row{
				"username":      derefName(m.UserName, SystemUser),
				"activity_type": "Inventory Change",
				"activity_date": m.CreatedAt,
				"details":       fmt.Sprintf("%s %d units of %s", m.MovementType, m.Quantity, m.ProductName),
				"status":        "Completed",
			})
		}
	}

	if activityWanted(p.ActivityType, "sales") {
		sales, err := s.repo.ListSales(ctx, SaleFilter{
			From:        p.From,
			To:          p.To,
			UserID:      p.UserID,
			ByCreatedAt: true,
		})
		if err != nil {
			return nil, err
		}
		for _, sale := range sales {
			rows = append(rows, Row{
				"username":      derefName(sale.CreatedByName, SystemUser),
				"activity_type": "Sale Created",
				"activity_date": sale.CreatedAt,
				"details":       fmt.Sprintf("Sale %s for %s - $%s", sale.SaleNumber, sale.CustomerName, sale.TotalAmount.StringFixed(2)),
				"status":        sale.PaymentStatus,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["activity_date"].(time.Time).After(rows[j]["activity_date"].(time.Time))
	})
	return rows, nil
}

// PriceChanges approximates price history from products updated in the
// window, assuming the configured drift, most recent change first. Real
// history lands once a price audit table exists.
func (s *Service) PriceChanges(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		CategoryID:      p.CategoryID,
		IncludeInactive: true,
		UpdatedFrom:     p.From,
		UpdatedTo:       p.To,
	})
	if err != nil {
		return nil, err
	}

	drift := decimal.NewFromFloat(s.opts.PriceDrift)
	retention := decimal.NewFromInt(1).Sub(drift)
	changePct := drift.Div(retention).Mul(hundred).Round(2)

	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		rows = append(rows, Row{
			"product_name":      prod.Name,
			"sku":               prod.SKU,
			"category_name":     prod.CategoryName,
			"change_date":       prod.UpdatedAt,
			"old_price":         prod.Price.Mul(retention).Round(2),
			"new_price":         prod.Price,
			"price_change":      prod.Price.Mul(drift).Round(2),
			"change_percentage": changePct,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["change_date"].(time.Time).After(rows[j]["change_date"].(time.Time))
	})
	return rows, nil
}

// TaxReport lists per-sale tax with effective rates and a trailing TOTAL
// row.
func (s *Service) TaxReport(ctx context.Context, p Params) ([]Row, error) {
	sales, err := s.repo.ListSales(ctx, SaleFilter{From: p.From, To: p.To})
	if err != nil {
		return nil, err
	}

	var totalSubtotal, totalTax, totalAmount decimal.Decimal
	rows := make([]Row, 0, len(sales)+1)
	for _, sale := range sales {
		totalSubtotal = totalSubtotal.Add(sale.Subtotal)
		totalTax = totalTax.Add(sale.TaxAmount)
		totalAmount = totalAmount.Add(sale.TotalAmount)
		rows = append(rows, Row{
			"sale_number":   sale.SaleNumber,
			"customer_name": sale.CustomerName,
			"sale_date":     sale.SaleDate,
			"subtotal":      sale.Subtotal,
			"tax_amount":    sale.TaxAmount,
			"total_amount":  sale.TotalAmount,
			"tax_rate":      RatioPercent(sale.TaxAmount, sale.Subtotal).Round(2),
		})
	}

	rows = append(rows, Row{
		"sale_number":   "TOTAL",
		"customer_name": "",
		"subtotal":      totalSubtotal,
		"tax_amount":    totalTax,
		"total_amount":  totalAmount,
		"tax_rate":      "",
	})
	return rows, nil
}

// kpiSnapshot is the cacheable payload behind the custom summary report.
type kpiSnapshot struct {
	Totals PeriodTotals    `json:"totals"`
	Counts InventoryCounts `json:"counts"`
}

// CustomReport is the combined sales, inventory and customer KPI summary.
func (s *Service) CustomReport(ctx context.Context, p Params) ([]Row, error) {
	key, err := s.cache.BuildKey(ctx, keySnapshot(p.From, p.To))
	if err != nil {
		return nil, err
	}

	var snap kpiSnapshot
	err = s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (interface{}, error) {
		var fresh kpiSnapshot
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			totals, err := s.repo.PeriodTotals(ctx, p.From, p.To)
			if err != nil {
				return err
			}
			fresh.Totals = totals
			return nil
		})
		g.Go(func() error {
			counts, err := s.repo.InventoryCounts(ctx)
			if err != nil {
				return err
			}
			fresh.Counts = counts
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	window := fmt.Sprintf("%s to %s", p.From.Format(dateLayout), p.To.AddDate(0, 0, -1).Format(dateLayout))
	return []Row{
		{"report_section": "Sales Summary", "metric": "Total Revenue", "value": snap.Totals.Revenue, "period": window},
		{"report_section": "Sales Summary", "metric": "Total Orders", "value": snap.Totals.Orders, "period": window},
		{"report_section": "Inventory Summary", "metric": "Total Active Products", "value": snap.Counts.ActiveProducts, "period": "Current"},
		{"report_section": "Inventory Summary", "metric": "Low Stock Items", "value": snap.Counts.LowStockItems, "period": "Current"},
		{"report_section": "Customer Summary", "metric": "Total Customers", "value": snap.Counts.TotalCustomers, "period": "Current"},
		{"report_section": "Customer Summary", "metric": "Active Customers", "value": snap.Totals.Customers, "period": window},
	}, nil
}
