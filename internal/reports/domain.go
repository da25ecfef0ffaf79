package reports

import (
	"errors"
	"time"
)

// Family groups report types sharing a filter-form shape.
type Family string

const (
	FamilyInventory   Family = "inventory"
	FamilySales       Family = "sales"
	FamilyPurchase    Family = "purchase"
	FamilyPerformance Family = "performance"
	FamilyCompliance  Family = "compliance"
)

// Type identifies a single report within a family.
type Type string

const (
	TypeInventoryStatus    Type = "inventory_status"
	TypeLowStock           Type = "low_stock"
	TypeStockMovement      Type = "stock_movement"
	TypeInventoryValuation Type = "inventory_valuation"
	TypeInventoryAging     Type = "inventory_aging"

	TypeSalesHistory       Type = "sales_history"
	TypeProductPerformance Type = "product_performance"
	TypeCustomerSales      Type = "customer_sales"
	TypeProfitMargin       Type = "profit_margin"
	TypePaymentCollection  Type = "payment_collection"

	TypeSupplierPerformance Type = "supplier_performance"
	TypeCostAnalysis        Type = "cost_analysis"
	TypeReorderSuggestions  Type = "reorder_suggestions"

	TypeSalesTrend           Type = "sales_trend"
	TypeInventoryTurnover    Type = "inventory_turnover"
	TypeRevenueForecast      Type = "revenue_forecast"
	TypeProductProfitability Type = "product_profitability"
	TypeBusinessGrowth       Type = "business_growth"

	TypeStockAudit   Type = "stock_audit"
	TypeUserActivity Type = "user_activity"
	TypePriceChanges Type = "price_changes"
	TypeTaxReport    Type = "tax_report"
	TypeCustomReport Type = "custom_report"
)

// Row is a single column-keyed report record. Values are restricted to
// string, integer kinds, float64, decimal.Decimal and time.Time; exporters
// render a missing key as an empty cell.
type Row map[string]any

// Placeholder strings used when an optional reference is absent.
const (
	NoSupplier = "No Supplier"
	SystemUser = "System"
)

// FilterAll is the sentinel meaning "no filter" for id-valued filters.
const FilterAll int64 = 0

// Params carries the filter set shared by all generators. Zero values mean
// unfiltered; the date range is already resolved (To is exclusive).
type Params struct {
	From time.Time
	To   time.Time

	CategoryID int64
	SupplierID int64
	CustomerID int64
	ProductID  int64
	UserID     int64

	PaymentStatus string // "" or "all" means any
	ActivityType  string // "" or "all" means every activity kind

	Grouping        Grouping
	IncludeInactive bool
}

// ErrUnknownReport indicates a (family, type) pair outside the registry.
var ErrUnknownReport = errors.New("reports: unknown report type")

func statusFilterActive(status string) bool {
	return status != "" && status != "all"
}

func activityWanted(filter, kind string) bool {
	return filter == "" || filter == "all" || filter == kind
}
