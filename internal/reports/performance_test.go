package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSalesTrendBucketsByGrouping(t *testing.T) {
	repo := &mockRepo{
		salesRange: []SaleDateAmount{
			{SaleDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), TotalAmount: dec(100)},
			{SaleDate: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), TotalAmount: dec(150)},
			{SaleDate: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), TotalAmount: dec(75)},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.SalesTrend(context.Background(), Params{Grouping: GroupMonthly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 buckets got %d", len(rows))
	}
	if rows[0]["period"] != "2025-01" || rows[1]["period"] != "2025-02" {
		t.Fatalf("unexpected periods %v %v", rows[0]["period"], rows[1]["period"])
	}
	if rows[0]["order_count"].(int64) != 2 {
		t.Fatalf("unexpected order count %v", rows[0]["order_count"])
	}
	if !rows[0]["total_revenue"].(decimal.Decimal).Equal(dec(250)) {
		t.Fatalf("unexpected revenue %v", rows[0]["total_revenue"])
	}
}

func TestInventoryTurnoverRanksFastest(t *testing.T) {
	repo := &mockRepo{
		products: []ProductRow{
			{ID: 1, Name: "Widget", QuantityInStock: 10},
			{ID: 2, Name: "Gadget", QuantityInStock: 10},
		},
		soldQty: map[int64]int64{1: 20, 2: 140},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.InventoryTurnover(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["product_name"] != "Gadget" {
		t.Fatalf("expected fastest mover first, got %v", rows[0]["product_name"])
	}
	if rows[0]["turnover_ratio"].(float64) != 14 {
		t.Fatalf("unexpected ratio %v", rows[0]["turnover_ratio"])
	}
	if rows[0]["performance"] != "Fast" {
		t.Fatalf("unexpected performance %v", rows[0]["performance"])
	}
	if rows[1]["turnover_ratio"].(float64) != 2 {
		t.Fatalf("unexpected ratio %v", rows[1]["turnover_ratio"])
	}
	// 365 / 2 rounded.
	if rows[1]["days_to_sell"].(float64) != 183 {
		t.Fatalf("unexpected days to sell %v", rows[1]["days_to_sell"])
	}
}

func TestRevenueForecastProjectsFromBaseline(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		salesRange: []SaleDateAmount{
			{SaleDate: from.AddDate(0, -2, 0), TotalAmount: dec(900)},
			{SaleDate: from.AddDate(0, -1, 0), TotalAmount: dec(1100)},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()
	svc.forecast = CompoundGrowthForecast{Rate: 0.10, Periods: 2}

	rows, err := svc.RevenueForecast(context.Background(), Params{From: from, To: to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 forecast rows got %d", len(rows))
	}
	// Baseline is 1000/month, compounded at 10%.
	if !rows[0]["revenue"].(decimal.Decimal).Equal(dec(1100)) {
		t.Fatalf("unexpected first projection %v", rows[0]["revenue"])
	}
	if rows[0]["period"] != "2025-07" {
		t.Fatalf("unexpected period %v", rows[0]["period"])
	}
	if rows[0]["type"] != "Forecast" || rows[0]["confidence"] != "Medium" {
		t.Fatalf("unexpected labels %v", rows[0])
	}
}

func TestProductProfitabilityRanks(t *testing.T) {
	repo := &mockRepo{
		productSales: []ProductSalesRow{
			{ProductID: 1, Name: "Widget", Cost: dec(10), QuantitySold: 10, Revenue: dec(200)},
			{ProductID: 2, Name: "Gadget", Cost: dec(90), QuantitySold: 10, Revenue: dec(1000)},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.ProductProfitability(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	// Both products earn 100 profit; a stable sort keeps input order.
	widget := rows[0]
	if widget["name"] != "Widget" {
		t.Fatalf("expected stable order, got %v first", rows[0]["name"])
	}
	if !widget["profit_margin"].(decimal.Decimal).Equal(dec(50)) {
		t.Fatalf("unexpected margin %v", widget["profit_margin"])
	}
	if widget["profitability_rank"] != "High" {
		t.Fatalf("unexpected rank %v", widget["profitability_rank"])
	}
	if rows[1]["profitability_rank"] != "Low" {
		t.Fatalf("unexpected rank %v", rows[1]["profitability_rank"])
	}
}

func TestBusinessGrowthComparesPrecedingWindow(t *testing.T) {
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		totals: func(f, _ time.Time) PeriodTotals {
			if f.Equal(from) {
				return PeriodTotals{Revenue: dec(1000), Orders: 50, Customers: 20}
			}
			return PeriodTotals{Revenue: dec(800), Orders: 40, Customers: 20}
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	rows, err := svc.BusinessGrowth(context.Background(), Params{From: from, To: to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 metric rows got %d", len(rows))
	}
	revenue := rows[0]
	if revenue["metric"] != "Revenue" {
		t.Fatalf("unexpected metric %v", revenue["metric"])
	}
	if !revenue["growth_rate"].(decimal.Decimal).Equal(dec(25)) {
		t.Fatalf("unexpected growth %v", revenue["growth_rate"])
	}
	if revenue["trend"] != "Up" {
		t.Fatalf("unexpected trend %v", revenue["trend"])
	}
	if rows[2]["trend"] != "Flat" {
		t.Fatalf("expected flat customers, got %v", rows[2]["trend"])
	}
	if repo.totalsCalls != 2 {
		t.Fatalf("expected 2 totals queries, got %d", repo.totalsCalls)
	}

	// Second run is served from cache.
	if _, err := svc.BusinessGrowth(context.Background(), Params{From: from, To: to}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.totalsCalls != 2 {
		t.Fatalf("expected cached snapshot, totals queried %d times", repo.totalsCalls)
	}
}
