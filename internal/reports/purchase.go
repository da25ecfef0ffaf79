package reports

import (
	"context"
	"sort"
)

// SupplierPerformance lists suppliers with their supplied-product counts.
// Delivery metrics stay zero until purchase order facts exist to compute
// them from.
func (s *Service) SupplierPerformance(ctx context.Context, p Params) ([]Row, error) {
	suppliers, err := s.repo.ListSuppliers(ctx, p.SupplierID)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(suppliers))
	for _, sup := range suppliers {
		rows = append(rows, Row{
			"name":                  sup.Name,
			"contact_person":        sup.ContactPerson,
			"email":                 sup.Email,
			"product_count":         sup.ProductCount,
			"total_orders":          int64(0),
			"on_time_delivery_rate": int64(0),
		})
	}
	return rows, nil
}

// CostAnalysis reports unit margin per product across the catalogue.
func (s *Service) CostAnalysis(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		SupplierID:      p.SupplierID,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		rows = append(rows, Row{
			"name":              prod.Name,
			"sku":               prod.SKU,
			"supplier_name":     derefName(prod.SupplierName, NoSupplier),
			"cost":              prod.Cost,
			"price":             prod.Price,
			"margin":            Margin(prod.Price, prod.Cost),
			"margin_percentage": MarginPercent(prod.Price, prod.Cost).Round(2),
		})
	}
	return rows, nil
}

// ReorderSuggestions proposes replenishment quantities for products at or
// below their reorder level, most urgent first.
func (s *Service) ReorderSuggestions(ctx context.Context, p Params) ([]Row, error) {
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		SupplierID:      p.SupplierID,
		LowStockOnly:    true,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(products))
	for _, prod := range products {
		amount := ReorderAmount(prod.ReorderLevel, prod.QuantityInStock)
		rows = append(rows, Row{
			"name":              prod.Name,
			"sku":               prod.SKU,
			"supplier_name":     derefName(prod.SupplierName, NoSupplier),
			"quantity_in_stock": prod.QuantityInStock,
			"reorder_level":     prod.ReorderLevel,
			"reorder_amount":    amount,
			"estimated_cost":    StockValue(prod.Cost, amount),
			"priority":          ReorderPriority(prod.QuantityInStock, prod.ReorderLevel),
		})
	}

	rank := map[string]int{"High": 0, "Medium": 1, "Low": 2}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rank[rows[i]["priority"].(string)], rank[rows[j]["priority"].(string)]
		if ri != rj {
			return ri < rj
		}
		return rows[i]["quantity_in_stock"].(int64) < rows[j]["quantity_in_stock"].(int64)
	})
	return rows, nil
}
