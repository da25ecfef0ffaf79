package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository is the read-only data access boundary the generators consume.
// Implementations must support concurrent callers; the core never writes.
type Repository interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductRow, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]MovementRow, error)
	MovementTotals(ctx context.Context, from, to time.Time, categoryID, supplierID int64) ([]MovementTotalsRow, error)
	LastInboundDates(ctx context.Context) (map[int64]time.Time, error)
	ListSales(ctx context.Context, filter SaleFilter) ([]SaleRow, error)
	SalesInRange(ctx context.Context, from, to time.Time) ([]SaleDateAmount, error)
	ProductSales(ctx context.Context, from, to time.Time, productID int64) ([]ProductSalesRow, error)
	ProductSoldQuantities(ctx context.Context, from, to time.Time) (map[int64]int64, error)
	CustomerSales(ctx context.Context, from, to time.Time, customerID int64) ([]CustomerSalesRow, error)
	ListSuppliers(ctx context.Context, supplierID int64) ([]SupplierRow, error)
	PeriodTotals(ctx context.Context, from, to time.Time) (PeriodTotals, error)
	InventoryCounts(ctx context.Context) (InventoryCounts, error)
	ListUserLogins(ctx context.Context, from, to time.Time, userID int64) ([]UserLoginRow, error)
	OrderNumbers(ctx context.Context, ids []int64) (map[int64]string, error)
	ProjectNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// ProductFilter constrains product listings. Id fields use FilterAll (0)
// for "no filter"; zero time bounds are unbounded.
type ProductFilter struct {
	CategoryID      int64
	SupplierID      int64
	IncludeInactive bool
	LowStockOnly    bool
	InStockOnly     bool
	UpdatedFrom     time.Time
	UpdatedTo       time.Time
}

// ProductRow is a product joined with its reference names.
type ProductRow struct {
	ID              int64
	Name            string
	SKU             string
	CategoryID      int64
	CategoryName    string
	SupplierID      *int64
	SupplierName    *string
	Price           decimal.Decimal
	Cost            decimal.Decimal
	QuantityInStock int64
	ReorderLevel    int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MovementFilter constrains stock movement history.
type MovementFilter struct {
	From       time.Time
	To         time.Time
	CategoryID int64
	SupplierID int64
	UserID     int64
}

// MovementRow is one stock movement fact with denormalized references.
type MovementRow struct {
	ID            int64
	ProductID     int64
	ProductName   string
	ProductSKU    string
	CategoryName  string
	MovementType  string
	Quantity      int64
	ReferenceType string
	ReferenceID   *int64
	CreatedBy     *int64
	UserName      *string
	CreatedAt     time.Time
}

// MovementTotalsRow aggregates a product's movements over a period.
type MovementTotalsRow struct {
	ProductID        int64
	TotalIn          int64
	TotalOut         int64
	TotalAdjustments int64
	MovementCount    int64
}

// SaleFilter constrains sale listings.
type SaleFilter struct {
	From          time.Time
	To            time.Time
	CustomerID    int64
	PaymentStatus string
	UserID        int64
	ByCreatedAt   bool // range applies to created_at instead of sale_date
}

// SaleRow is a sale header joined with customer and creator.
type SaleRow struct {
	ID            int64
	SaleNumber    string
	CustomerID    int64
	CustomerName  string
	SaleDate      time.Time
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod string
	PaymentStatus string
	CreatedBy     *int64
	CreatedByName *string
	CreatedAt     time.Time
	ItemCount     int64
}

// SaleDateAmount is the minimal projection used by trend bucketing.
type SaleDateAmount struct {
	SaleDate    time.Time
	TotalAmount decimal.Decimal
}

// ProductSalesRow aggregates line items per product over a period.
type ProductSalesRow struct {
	ProductID    int64
	Name         string
	SKU          string
	CategoryName string
	Price        decimal.Decimal
	Cost         decimal.Decimal
	CurrentStock int64
	QuantitySold int64
	Revenue      decimal.Decimal
}

// CustomerSalesRow aggregates sales per customer over a period.
type CustomerSalesRow struct {
	CustomerID    int64
	Name          string
	CustomerType  string
	TotalOrders   int64
	TotalSpent    decimal.Decimal
	LastOrderDate *time.Time
}

// SupplierRow is a supplier with its supplied-product count.
type SupplierRow struct {
	ID            int64
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	ProductCount  int64
}

// PeriodTotals aggregates sales activity over a closed period.
type PeriodTotals struct {
	Revenue   decimal.Decimal
	Orders    int64
	Customers int64 // distinct buying customers
}

// InventoryCounts is the point-in-time slice of the KPI snapshot.
type InventoryCounts struct {
	ActiveProducts int64
	LowStockItems  int64
	TotalCustomers int64
}

// UserLoginRow records a user's last login for activity reporting.
type UserLoginRow struct {
	UserID    int64
	Username  string
	LastLogin time.Time
}
