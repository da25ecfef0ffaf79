package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStockAuditFlagsHeavyAdjustments(t *testing.T) {
	repo := &mockRepo{
		products: []ProductRow{
			{ID: 1, Name: "Widget", QuantityInStock: 40},
			{ID: 2, Name: "Gadget", QuantityInStock: 10},
		},
		movementTotals: []MovementTotalsRow{
			{ProductID: 1, TotalIn: 100, TotalOut: 60, TotalAdjustments: -2},
			{ProductID: 2, TotalIn: 20, TotalOut: 15, TotalAdjustments: -8},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.StockAudit(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.productFilter.IncludeInactive {
		t.Fatalf("audit should include inactive products")
	}
	// Flagged products first, then by name.
	if rows[0]["name"] != "Gadget" || rows[0]["audit_status"] != "Review Required" {
		t.Fatalf("expected flagged Gadget first, got %v", rows[0])
	}
	if rows[0]["net_movement"].(int64) != -3 {
		t.Fatalf("unexpected net movement %v", rows[0]["net_movement"])
	}
	if rows[1]["audit_status"] != "Normal" {
		t.Fatalf("expected Widget normal, got %v", rows[1]["audit_status"])
	}
	if rows[1]["net_movement"].(int64) != 38 {
		t.Fatalf("unexpected net movement %v", rows[1]["net_movement"])
	}
}

func TestUserActivityMergesSourcesNewestFirst(t *testing.T) {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		logins: []UserLoginRow{
			{UserID: 1, Username: "alice", LastLogin: base.Add(2 * time.Hour)},
		},
		movements: []MovementRow{
			{ProductName: "Widget", MovementType: "OUT", Quantity: 3, CreatedAt: base.Add(time.Hour), UserName: strPtr("bob")},
		},
		sales: []SaleRow{
			{SaleNumber: "S-001", CustomerName: "Acme", TotalAmount: dec(99.5), PaymentStatus: "Paid", CreatedAt: base.Add(3 * time.Hour)},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.UserActivity(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 activities got %d", len(rows))
	}
	if !repo.saleFilter.ByCreatedAt {
		t.Fatalf("sales activities should filter by creation time")
	}
	if rows[0]["activity_type"] != "Sale Created" {
		t.Fatalf("expected newest activity first, got %v", rows[0]["activity_type"])
	}
	if rows[0]["details"] != "Sale S-001 for Acme - $99.50" {
		t.Fatalf("unexpected details %v", rows[0]["details"])
	}
	if rows[0]["username"] != SystemUser {
		t.Fatalf("expected system user for sale without creator, got %v", rows[0]["username"])
	}
	if rows[1]["details"] != "User alice logged in" {
		t.Fatalf("unexpected details %v", rows[1]["details"])
	}
	if rows[2]["details"] != "OUT 3 units of Widget" {
		t.Fatalf("unexpected details %v", rows[2]["details"])
	}
}

func TestUserActivityFiltersByType(t *testing.T) {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		logins: []UserLoginRow{
			{UserID: 1, Username: "alice", LastLogin: base},
		},
		movements: []MovementRow{
			{ProductName: "Widget", MovementType: "IN", Quantity: 5, CreatedAt: base},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.UserActivity(context.Background(), Params{ActivityType: "login"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0]["activity_type"] != "Login" {
		t.Fatalf("expected only login activity, got %v", rows)
	}
}

func TestPriceChangesAppliesDrift(t *testing.T) {
	updated := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		products: []ProductRow{
			{ID: 1, Name: "Widget", Price: dec(100), UpdatedAt: updated},
			{ID: 2, Name: "Gadget", Price: dec(50), UpdatedAt: updated.AddDate(0, 0, 5)},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	from := updated.AddDate(0, 0, -30)
	to := updated.AddDate(0, 0, 30)
	rows, err := svc.PriceChanges(context.Background(), Params{From: from, To: to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.productFilter.UpdatedFrom.Equal(from) || !repo.productFilter.UpdatedTo.Equal(to) {
		t.Fatalf("update window not forwarded: %+v", repo.productFilter)
	}
	// Most recent change first.
	if rows[0]["product_name"] != "Gadget" {
		t.Fatalf("expected Gadget first, got %v", rows[0]["product_name"])
	}
	widget := rows[1]
	if !widget["old_price"].(decimal.Decimal).Equal(dec(95)) {
		t.Fatalf("unexpected old price %v", widget["old_price"])
	}
	if !widget["price_change"].(decimal.Decimal).Equal(dec(5)) {
		t.Fatalf("unexpected change %v", widget["price_change"])
	}
	if !widget["change_percentage"].(decimal.Decimal).Equal(dec(5.26)) {
		t.Fatalf("unexpected change pct %v", widget["change_percentage"])
	}
}

func TestTaxReportAppendsTotal(t *testing.T) {
	saleDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		sales: []SaleRow{
			{SaleNumber: "S-001", SaleDate: saleDate, Subtotal: dec(100), TaxAmount: dec(16), TotalAmount: dec(116)},
			{SaleNumber: "S-002", SaleDate: saleDate, Subtotal: dec(200), TaxAmount: dec(32), TotalAmount: dec(232)},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.TaxReport(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 2 sales plus total, got %d", len(rows))
	}
	if !rows[0]["tax_rate"].(decimal.Decimal).Equal(dec(16)) {
		t.Fatalf("unexpected tax rate %v", rows[0]["tax_rate"])
	}
	total := rows[2]
	if total["sale_number"] != "TOTAL" {
		t.Fatalf("expected TOTAL row, got %v", total["sale_number"])
	}
	if !total["tax_amount"].(decimal.Decimal).Equal(dec(48)) {
		t.Fatalf("unexpected total tax %v", total["tax_amount"])
	}
	if total["tax_rate"] != "" {
		t.Fatalf("total row should carry no rate, got %v", total["tax_rate"])
	}
}

func TestCustomReportSummarisesAndCaches(t *testing.T) {
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		totals: func(_, _ time.Time) PeriodTotals {
			return PeriodTotals{Revenue: dec(5000), Orders: 42, Customers: 18}
		},
		counts: InventoryCounts{ActiveProducts: 120, LowStockItems: 7, TotalCustomers: 64},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.CustomReport(context.Background(), Params{From: from, To: to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 summary rows got %d", len(rows))
	}
	if rows[0]["metric"] != "Total Revenue" || rows[0]["period"] != "2025-05-01 to 2025-05-31" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[2]["metric"] != "Total Active Products" || rows[2]["period"] != "Current" {
		t.Fatalf("unexpected inventory row %v", rows[2])
	}
	if repo.totalsCalls != 1 || repo.countsCalls != 1 {
		t.Fatalf("expected single snapshot load, got %d/%d", repo.totalsCalls, repo.countsCalls)
	}

	if _, err := svc.CustomReport(context.Background(), Params{From: from, To: to}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.totalsCalls != 1 {
		t.Fatalf("expected cached snapshot, totals queried %d times", repo.totalsCalls)
	}

	// Bumping the version forces a reload.
	if err := svc.cache.Bump(context.Background()); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if _, err := svc.CustomReport(context.Background(), Params{From: from, To: to}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.totalsCalls != 2 {
		t.Fatalf("expected reload after bump, totals queried %d times", repo.totalsCalls)
	}
}
