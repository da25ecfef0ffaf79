package reports

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegistryCoversEveryType(t *testing.T) {
	if len(registry) != 23 {
		t.Fatalf("expected 23 registered reports, got %d", len(registry))
	}
	seen := make(map[Type]bool)
	for _, d := range registry {
		if seen[d.Type] {
			t.Fatalf("duplicate registration for %s", d.Type)
		}
		seen[d.Type] = true
		if d.Title == "" {
			t.Fatalf("%s: missing title", d.Type)
		}
		if len(d.Columns) == 0 {
			t.Fatalf("%s: missing columns", d.Type)
		}
		if d.Generate == nil {
			t.Fatalf("%s: missing generator", d.Type)
		}
	}
}

func TestLookupEnforcesFamily(t *testing.T) {
	d, err := Lookup(FamilyInventory, TypeLowStock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "Low Stock Report" {
		t.Fatalf("unexpected title %q", d.Title)
	}

	// A sales report is not reachable through the inventory family.
	if _, err := Lookup(FamilyInventory, TypeSalesHistory); !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected ErrUnknownReport, got %v", err)
	}
	if _, err := Lookup(FamilySales, Type("nope")); !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected ErrUnknownReport, got %v", err)
	}
}

func TestLookupType(t *testing.T) {
	d, err := LookupType(TypeCustomReport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Family != FamilyCompliance {
		t.Fatalf("unexpected family %s", d.Family)
	}
	if _, err := LookupType(Type("nope")); !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected ErrUnknownReport, got %v", err)
	}
}

func TestDescriptorsByFamily(t *testing.T) {
	inventory := Descriptors(FamilyInventory)
	if len(inventory) != 5 {
		t.Fatalf("expected 5 inventory reports, got %d", len(inventory))
	}
	for _, d := range inventory {
		if d.Family != FamilyInventory {
			t.Fatalf("foreign family %s in inventory listing", d.Family)
		}
	}
	if all := Descriptors(""); len(all) != len(registry) {
		t.Fatalf("expected full registry, got %d", len(all))
	}
	if unknown := Descriptors(Family("nope")); len(unknown) != 0 {
		t.Fatalf("expected no descriptors for unknown family, got %d", len(unknown))
	}
}

func TestGenerateDispatches(t *testing.T) {
	repo := &mockRepo{
		products: []ProductRow{
			{ID: 1, Name: "Widget", Price: dec(10), QuantityInStock: 2, ReorderLevel: 5},
		},
	}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	d, err := Lookup(FamilyInventory, TypeLowStock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := svc.Generate(context.Background(), d, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row got %d", len(rows))
	}
	if _, err := svc.Generate(context.Background(), Descriptor{}, Params{}); !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected ErrUnknownReport for empty descriptor, got %v", err)
	}
}

func TestGenerateEmptyData(t *testing.T) {
	svc, cleanup := newTestService(t, &mockRepo{})
	defer cleanup()
	svc.WithNow(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })

	params := Params{
		From: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	// Every report generates cleanly over an empty database. The synthetic
	// summary rows survive even with nothing to sum.
	for _, d := range Descriptors("") {
		rows, err := svc.Generate(context.Background(), d, params)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d.Type, err)
		}
		switch d.Type {
		case TypeInventoryValuation:
			if len(rows) != 1 || rows[0]["name"] != "TOTAL" {
				t.Fatalf("valuation should keep its TOTAL row, got %v", rows)
			}
		case TypeTaxReport:
			if len(rows) != 1 || rows[0]["sale_number"] != "TOTAL" {
				t.Fatalf("tax report should keep its TOTAL row, got %v", rows)
			}
		case TypeCustomReport:
			if len(rows) != 6 {
				t.Fatalf("expected the 6 KPI rows, got %d", len(rows))
			}
		}
		for _, row := range rows {
			for _, key := range d.Columns {
				// Values may be absent for empty data but never untyped nil
				// under a declared column.
				if v, ok := row[key]; ok && v == nil {
					t.Fatalf("%s: nil value for column %s", d.Type, key)
				}
			}
		}
	}
}
