package reports

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSupplierPerformance(t *testing.T) {
	repo := &mockRepo{
		suppliers: []SupplierRow{
			{ID: 1, Name: "Acme Supplies", ContactPerson: "Jordan", Email: "jordan@acme.test", ProductCount: 12},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.SupplierPerformance(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row got %d", len(rows))
	}
	if rows[0]["product_count"].(int64) != 12 {
		t.Fatalf("unexpected product count %v", rows[0]["product_count"])
	}
	if rows[0]["total_orders"].(int64) != 0 || rows[0]["on_time_delivery_rate"].(int64) != 0 {
		t.Fatalf("expected zero delivery metrics")
	}
}

func TestCostAnalysisIncludesInactive(t *testing.T) {
	repo := &mockRepo{
		products: []ProductRow{
			{ID: 1, Name: "Widget", Cost: dec(80), Price: dec(100)},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.CostAnalysis(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.productFilter.IncludeInactive {
		t.Fatalf("cost analysis should cover the full catalogue")
	}
	if !rows[0]["margin"].(decimal.Decimal).Equal(dec(20)) {
		t.Fatalf("unexpected margin %v", rows[0]["margin"])
	}
	if !rows[0]["margin_percentage"].(decimal.Decimal).Equal(dec(25)) {
		t.Fatalf("unexpected margin pct %v", rows[0]["margin_percentage"])
	}
	if rows[0]["supplier_name"] != NoSupplier {
		t.Fatalf("expected supplier placeholder, got %v", rows[0]["supplier_name"])
	}
}

func TestReorderSuggestionsPriorityOrder(t *testing.T) {
	repo := &mockRepo{
		products: []ProductRow{
			{ID: 1, Name: "Widget", Cost: dec(8), QuantityInStock: 5, ReorderLevel: 10},
			{ID: 2, Name: "Gadget", Cost: dec(10), QuantityInStock: 0, ReorderLevel: 10},
			{ID: 3, Name: "Sprocket", Cost: dec(3), QuantityInStock: 10, ReorderLevel: 10},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.ReorderSuggestions(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["name"] != "Gadget" || rows[0]["priority"] != "High" {
		t.Fatalf("expected out-of-stock item first, got %v", rows[0])
	}
	if rows[1]["name"] != "Widget" || rows[1]["priority"] != "Medium" {
		t.Fatalf("expected below-level item second, got %v", rows[1])
	}
	if rows[2]["priority"] != "Low" {
		t.Fatalf("expected at-level item last, got %v", rows[2])
	}
	// Restock to twice the reorder level.
	if rows[0]["reorder_amount"].(int64) != 20 {
		t.Fatalf("unexpected reorder amount %v", rows[0]["reorder_amount"])
	}
	if !rows[0]["estimated_cost"].(decimal.Decimal).Equal(dec(200)) {
		t.Fatalf("unexpected estimated cost %v", rows[0]["estimated_cost"])
	}
}
