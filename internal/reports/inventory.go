package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// InventoryStatus lists every product with its stock position, items that
// need reordering first, then by quantity ascending.
func (s *Service) InventoryStatus(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		CategoryID:      p.CategoryID,
		SupplierID:      p.SupplierID,
		IncludeInactive: p.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		needsReorder := "No"
		if prod.QuantityInStock <= prod.ReorderLevel {
			needsReorder = "Yes"
		}
		rows = append(rows, Row{
			"name":              prod.Name,
			"sku":               prod.SKU,
			"category_name":     prod.CategoryName,
			"supplier_name":     derefName(prod.SupplierName, NoSupplier),
			"quantity_in_stock": prod.QuantityInStock,
			"reorder_level":     prod.ReorderLevel,
			"price":             prod.Price,
			"stock_value":       StockValue(prod.Price, prod.QuantityInStock),
			"needs_reorder":     needsReorder,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i]["needs_reorder"] == "Yes", rows[j]["needs_reorder"] == "Yes"
		if ri != rj {
			return ri
		}
		return rows[i]["quantity_in_stock"].(int64) < rows[j]["quantity_in_stock"].(int64)
	})
	return rows, nil
}

// LowStock lists active products at or below their reorder level, largest
// shortage first.
func (s *Service) LowStock(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		LowStockOnly: true,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		shortage := Shortage(prod.ReorderLevel, prod.QuantityInStock)
		rows = append(rows, Row{
			"name":              prod.Name,
			"sku":               prod.SKU,
			"category_name":     prod.CategoryName,
			"supplier_name":     derefName(prod.SupplierName, NoSupplier),
			"quantity_in_stock": prod.QuantityInStock,
			"reorder_level":     prod.ReorderLevel,
			"price":             prod.Price,
			"stock_value":       StockValue(prod.Price, prod.QuantityInStock),
			"shortage":          shortage,
			"shortage_value":    StockValue(prod.Price, shortage),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["shortage"].(int64) > rows[j]["shortage"].(int64)
	})
	return rows, nil
}

// StockMovementHistory lists movements in the window, newest first, with the
// originating reference resolved to a display string.
func (s *Service) StockMovementHistory(ctx context.Context, p Params) ([]Row, error) {
	movements, err := s.repo.ListMovements(ctx, MovementFilter{
		From:       p.From,
		To:         p.To,
		CategoryID: p.CategoryID,
		SupplierID: p.SupplierID,
	})
	if err != nil {
		return nil, err
	}

	var orderIDs, projectIDs []int64
	for _, m := range movements {
		if m.ReferenceID == nil {
			continue
		}
		switch m.ReferenceType {
		case "ORDER":
			orderIDs = append(orderIDs, *m.ReferenceID)
		case "PROJECT":
			projectIDs = append(projectIDs, *m.ReferenceID)
		}
	}
	orders, err := s.repo.OrderNumbers(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	projects, err := s.repo.ProjectNames(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, Row{
			"product_name":  m.ProductName,
			"product_sku":   m.ProductSKU,
			"movement_type": m.MovementType,
			"quantity":      m.Quantity,
			"reference":     movementReference(m, orders, projects),
			"created_at":    m.CreatedAt,
			"user_name":     derefName(m.UserName, SystemUser),
		})
	}
	return rows, nil
}

func movementReference(m MovementRow, orders, projects map[int64]string) string {
	switch m.ReferenceType {
	case "ADJUSTMENT":
		return "Manual Adjustment"
	case "ORDER":
		if m.ReferenceID != nil {
			if number, ok := orders[*m.ReferenceID]; ok {
				return fmt.Sprintf("Order #%s", number)
			}
		}
		return "Unknown Order"
	case "PROJECT":
		if m.ReferenceID != nil {
			if name, ok := projects[*m.ReferenceID]; ok {
				return fmt.Sprintf("Project: %s", name)
			}
		}
		return "Unknown Project"
	case "":
		return "N/A"
	default:
		return m.ReferenceType
	}
}

// InventoryValuation reports cost and retail value per product, highest
// retail value first, with a trailing TOTAL row.
func (s *Service) InventoryValuation(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		CategoryID:      p.CategoryID,
		SupplierID:      p.SupplierID,
		IncludeInactive: p.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}

	var totalCost, totalRetail, totalProfit decimal.Decimal
	rows := make([]Row, 0, len(products)+1)
	for _, prod := range products {
		costValue := StockValue(prod.Cost, prod.QuantityInStock)
		retailValue := StockValue(prod.Price, prod.QuantityInStock)
		profit := retailValue.Sub(costValue)

		totalCost = totalCost.Add(costValue)
		totalRetail = totalRetail.Add(retailValue)
		totalProfit = totalProfit.Add(profit)

		rows = append(rows, Row{
			"name":              prod.Name,
			"sku":               prod.SKU,
			"category_name":     prod.CategoryName,
			"quantity_in_stock": prod.QuantityInStock,
			"cost":              prod.Cost,
			"price":             prod.Price,
			"cost_value":        costValue,
			"retail_value":      retailValue,
			"profit_potential":  profit,
			"margin_percentage": RatioPercent(profit, costValue).Round(2),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["retail_value"].(decimal.Decimal).GreaterThan(rows[j]["retail_value"].(decimal.Decimal))
	})

	rows = append(rows, Row{
		"name":              "TOTAL",
		"sku":               "",
		"cost_value":        totalCost,
		"retail_value":      totalRetail,
		"profit_potential":  totalProfit,
		"margin_percentage": RatioPercent(totalProfit, totalCost).Round(2),
	})
	return rows, nil
}

// InventoryAging measures how long in-stock products have sat since their
// last replenishment, oldest first. Products with no movement history age
// from their creation date.
func (s *Service) InventoryAging(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		InStockOnly: true,
	})
	if err != nil {
		return nil, err
	}
	lastInbound, err := s.repo.LastInboundDates(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		since := prod.CreatedAt
		if ts, ok := lastInbound[prod.ID]; ok {
			since = ts
		}
		daysInStock := int(today.Sub(since).Hours() / 24)
		rows = append(rows, Row{
			"name":              prod.Name,
			"sku":               prod.SKU,
			"category_name":     prod.CategoryName,
			"quantity_in_stock": prod.QuantityInStock,
			"days_in_stock":     daysInStock,
			"aging_category":    AgingBucket(daysInStock),
			"inventory_value":   StockValue(prod.Cost, prod.QuantityInStock),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["days_in_stock"].(int) > rows[j]["days_in_stock"].(int)
	})
	return rows, nil
}
