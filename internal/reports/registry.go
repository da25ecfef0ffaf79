package reports

import (
	"context"
	"log/slog"
)

// GenerateFunc produces the rows for one report type.
type GenerateFunc func(*Service, context.Context, Params) ([]Row, error)

// Descriptor is the registry entry for a report type: its family, display
// title, exported column order and generator.
type Descriptor struct {
	Family   Family
	Type     Type
	Title    string
	Columns  []string
	Generate GenerateFunc
}

// registry is the single dispatch table for every report. Handlers,
// exporters and scheduled jobs all resolve through it, so adding a report is
// one entry plus its generator.
var registry = []Descriptor{
	{
		Family:   FamilyInventory,
		Type:     TypeInventoryStatus,
		Title:    "Inventory Status Report",
		Columns:  []string{"name", "sku", "category_name", "supplier_name", "quantity_in_stock", "reorder_level", "price", "stock_value", "needs_reorder"},
		Generate: (*Service).InventoryStatus,
	},
	{
		Family:   FamilyInventory,
		Type:     TypeLowStock,
		Title:    "Low Stock Report",
		Columns:  []string{"name", "sku", "category_name", "supplier_name", "quantity_in_stock", "reorder_level", "shortage", "shortage_value"},
		Generate: (*Service).LowStock,
	},
	{
		Family:   FamilyInventory,
		Type:     TypeStockMovement,
		Title:    "Stock Movement History",
		Columns:  []string{"product_name", "product_sku", "movement_type", "quantity", "reference", "created_at", "user_name"},
		Generate: (*Service).StockMovementHistory,
	},
	{
		Family:   FamilyInventory,
		Type:     TypeInventoryValuation,
		Title:    "Inventory Valuation Report",
		Columns:  []string{"name", "sku", "category_name", "quantity_in_stock", "cost", "price", "cost_value", "retail_value", "profit_potential", "margin_percentage"},
		Generate: (*Service).InventoryValuation,
	},
	{
		Family:   FamilyInventory,
		Type:     TypeInventoryAging,
		Title:    "Inventory Aging Analysis",
		Columns:  []string{"name", "sku", "category_name", "quantity_in_stock", "days_in_stock", "aging_category", "inventory_value"},
		Generate: (*Service).InventoryAging,
	},
	{
		Family:   FamilySales,
		Type:     TypeSalesHistory,
		Title:    "Sales History Report",
		Columns:  []string{"sale_number", "customer_name", "sale_date", "total_amount", "payment_status", "payment_method", "item_count"},
		Generate: (*Service).SalesHistory,
	},
	{
		Family:   FamilySales,
		Type:     TypeProductPerformance,
		Title:    "Product Sales Performance",
		Columns:  []string{"name", "sku", "category_name", "total_quantity_sold", "total_revenue", "profit", "profit_margin"},
		Generate: (*Service).ProductPerformance,
	},
	{
		Family:   FamilySales,
		Type:     TypeCustomerSales,
		Title:    "Customer Sales Analysis",
		Columns:  []string{"name", "customer_type", "total_orders", "total_spent", "avg_order_value", "last_order_date"},
		Generate: (*Service).CustomerSales,
	},
	{
		Family:   FamilySales,
		Type:     TypeProfitMargin,
		Title:    "Profit Margin Analysis",
		Columns:  []string{"name", "sku", "total_quantity_sold", "total_revenue", "total_cost", "profit", "profit_margin"},
		Generate: (*Service).ProfitMargin,
	},
	{
		Family:   FamilySales,
		Type:     TypePaymentCollection,
		Title:    "Payment Collection Status",
		Columns:  []string{"sale_number", "customer_name", "sale_date", "total_amount", "payment_status", "days_outstanding"},
		Generate: (*Service).PaymentCollection,
	},
	{
		Family:   FamilyPurchase,
		Type:     TypeSupplierPerformance,
		Title:    "Supplier Performance Analysis",
		Columns:  []string{"name", "contact_person", "email", "product_count", "total_orders", "on_time_delivery_rate"},
		Generate: (*Service).SupplierPerformance,
	},
	{
		Family:   FamilyPurchase,
		Type:     TypeCostAnalysis,
		Title:    "Purchase Cost Analysis",
		Columns:  []string{"name", "sku", "supplier_name", "cost", "price", "margin", "margin_percentage"},
		Generate: (*Service).CostAnalysis,
	},
	{
		Family:   FamilyPurchase,
		Type:     TypeReorderSuggestions,
		Title:    "Reorder Suggestions Report",
		Columns:  []string{"name", "sku", "supplier_name", "quantity_in_stock", "reorder_level", "reorder_amount", "estimated_cost", "priority"},
		Generate: (*Service).ReorderSuggestions,
	},
	{
		Family:   FamilyPerformance,
		Type:     TypeSalesTrend,
		Title:    "Sales Trend Analysis",
		Columns:  []string{"period", "order_count", "total_revenue"},
		Generate: (*Service).SalesTrend,
	},
	{
		Family:   FamilyPerformance,
		Type:     TypeInventoryTurnover,
		Title:    "Inventory Turnover Analysis",
		Columns:  []string{"product_name", "sku", "category_name", "current_stock", "sales_quantity", "turnover_ratio", "days_to_sell", "performance"},
		Generate: (*Service).InventoryTurnover,
	},
	{
		Family:   FamilyPerformance,
		Type:     TypeRevenueForecast,
		Title:    "Revenue Forecast Report",
		Columns:  []string{"period", "type", "revenue", "confidence"},
		Generate: (*Service).RevenueForecast,
	},
	{
		Family:   FamilyPerformance,
		Type:     TypeProductProfitability,
		Title:    "Product Profitability Analysis",
		Columns:  []string{"name", "sku", "category_name", "quantity_sold", "total_revenue", "total_profit", "profit_margin", "profitability_rank"},
		Generate: (*Service).ProductProfitability,
	},
	{
		Family:   FamilyPerformance,
		Type:     TypeBusinessGrowth,
		Title:    "Business Growth Analysis",
		Columns:  []string{"metric", "current_period", "previous_period", "growth_rate", "trend"},
		Generate: (*Service).BusinessGrowth,
	},
	{
		Family:   FamilyCompliance,
		Type:     TypeStockAudit,
		Title:    "Stock Audit Report",
		Columns:  []string{"name", "sku", "category_name", "current_stock", "total_in", "total_out", "net_movement", "audit_status"},
		Generate: (*Service).StockAudit,
	},
	{
		Family:   FamilyCompliance,
		Type:     TypeUserActivity,
		Title:    "User Activity Logs",
		Columns:  []string{"username", "activity_type", "activity_date", "details", "status"},
		Generate: (*Service).UserActivity,
	},
	{
		Family:   FamilyCompliance,
		Type:     TypePriceChanges,
		Title:    "Price Change History",
		Columns:  []string{"product_name", "sku", "category_name", "change_date", "old_price", "new_price", "price_change", "change_percentage"},
		Generate: (*Service).PriceChanges,
	},
	{
		Family:   FamilyCompliance,
		Type:     TypeTaxReport,
		Title:    "Tax Calculation Report",
		Columns:  []string{"sale_number", "customer_name", "sale_date", "subtotal", "tax_amount", "total_amount", "tax_rate"},
		Generate: (*Service).TaxReport,
	},
	{
		Family:   FamilyCompliance,
		Type:     TypeCustomReport,
		Title:    "Custom Report",
		Columns:  []string{"report_section", "metric", "value", "period"},
		Generate: (*Service).CustomReport,
	},
}

var byType = func() map[Type]Descriptor {
	m := make(map[Type]Descriptor, len(registry))
	for _, d := range registry {
		m[d.Type] = d
	}
	return m
}()

// Lookup resolves a report type within a family. The family must match so a
// compliance-only caller cannot reach a sales report through it.
func Lookup(family Family, t Type) (Descriptor, error) {
	d, ok := byType[t]
	if !ok || d.Family != family {
		return Descriptor{}, ErrUnknownReport
	}
	return d, nil
}

// LookupType resolves a report type regardless of family.
func LookupType(t Type) (Descriptor, error) {
	d, ok := byType[t]
	if !ok {
		return Descriptor{}, ErrUnknownReport
	}
	return d, nil
}

// Descriptors returns the registry entries for one family in registration
// order, or every entry when family is empty.
func Descriptors(family Family) []Descriptor {
	if family == "" {
		out := make([]Descriptor, len(registry))
		copy(out, registry)
		return out
	}
	var out []Descriptor
	for _, d := range registry {
		if d.Family == family {
			out = append(out, d)
		}
	}
	return out
}

// Generate runs one report through the registry.
func (s *Service) Generate(ctx context.Context, d Descriptor, p Params) ([]Row, error) {
	if d.Generate == nil {
		return nil, ErrUnknownReport
	}
	rows, err := d.Generate(s, ctx, p)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Debug("report generated",
			slog.String("report_type", string(d.Type)),
			slog.Int("rows", len(rows)))
	}
	return rows, nil
}
