package db

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"pumpbook/derive"
)

// testDeriveInput is a small but complete day's entry.
func testDeriveInput() derive.Input {
	return derive.Input{
		PetrolC3:   derive.NozzleReading{Opening: 100.0, Closing: 150.0},
		HSDC1:      derive.NozzleReading{Opening: 1000.0, Closing: 1100.0},
		XPB3:       derive.NozzleReading{Opening: 500.0, Closing: 520.0},
		TestB1:     5.0,
		PetrolRate: 104.62,
		HSDRate:    91.16,
		XPRate:     111.57,
		OilItems: []derive.OilItem{
			{Name: "2T Oil", Amount: 250.0},
			{Name: "Coolant", Amount: 150.0},
		},
		Paytm:              5000.0,
		ICICI:              3000.0,
		FleetCard:          2000.0,
		PumpExpenses:       700.0,
		PumpExpensesRemark: "generator diesel",
	}
}

func TestSalesInsertAndGet(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	rec := NewSalesRecord(day(t, "2025-04-01"), derive.Sales(testDeriveInput()))

	id, err := testDB.SalesInsert(ctx, rec)
	if err != nil {
		t.Fatalf("sales insert error: %v", err)
	}
	if got, want := id, int64(1); got != want {
		t.Errorf("first id got %d want %d", got, want)
	}

	records, err := testDB.SalesGet(ctx, day(t, "2025-04-01"), day(t, "2025-04-01"))
	if err != nil {
		t.Fatalf("sales get error: %v", err)
	}
	if got, want := len(records), 1; got != want {
		t.Fatalf("record count got %d want %d", got, want)
	}

	got := records[0]
	rec.ID = 1
	rec.OilItems[0].SalesID = 1
	rec.OilItems[1].SalesID = 1
	if diff := cmp.Diff(rec, got, cmpopts.IgnoreFields(OilItem{}, "ID")); diff != "" {
		t.Errorf("stored record differs (-want +got):\n%s", diff)
	}
	if got, want := got.OilItems[0].Name, "2T Oil"; got != want {
		t.Errorf("oil item name got %q want %q", got, want)
	}
	if got, want := got.OilItems[1].Position, 2; got != want {
		t.Errorf("oil item position got %d want %d", got, want)
	}
}

// TestSalesIdentifiers checks id assignment: 1..N on an empty table,
// continuing from the maximum after deletions elsewhere in the range.
func TestSalesIdentifiers(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	dates := []string{"2025-04-01", "2025-04-01", "2025-04-02", "2025-04-03"}
	for i, d := range dates {
		rec := NewSalesRecord(day(t, d), derive.Sales(testDeriveInput()))
		id, err := testDB.SalesInsert(ctx, rec)
		if err != nil {
			t.Fatalf("insert %d error: %v", i, err)
		}
		if got, want := id, int64(i+1); got != want {
			t.Errorf("id got %d want %d", got, want)
		}
	}
}

// TestSalesMultiplePerDate checks that multiple entries on one date are
// both retained and returned.
func TestSalesMultiplePerDate(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	for range 2 {
		rec := NewSalesRecord(day(t, "2025-04-01"), derive.Sales(testDeriveInput()))
		if _, err := testDB.SalesInsert(ctx, rec); err != nil {
			t.Fatalf("insert error: %v", err)
		}
	}
	records, err := testDB.SalesGet(ctx, day(t, "2025-04-01"), day(t, "2025-04-01"))
	if err != nil {
		t.Fatalf("sales get error: %v", err)
	}
	if got, want := len(records), 2; got != want {
		t.Errorf("record count got %d want %d", got, want)
	}
}

func TestSalesGetEmptyRange(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	records, err := testDB.SalesGet(ctx, day(t, "2025-04-01"), day(t, "2025-04-30"))
	if err != nil {
		t.Fatalf("sales get over empty table error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestSalesDeleteDateRange(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	dates := []string{"2025-04-01", "2025-04-02", "2025-04-03", "2025-04-04"}
	for _, d := range dates {
		rec := NewSalesRecord(day(t, d), derive.Sales(testDeriveInput()))
		if _, err := testDB.SalesInsert(ctx, rec); err != nil {
			t.Fatalf("insert error: %v", err)
		}
	}

	// Inclusive range removes exactly the 2nd and 3rd.
	removed, err := testDB.DeleteDateRange(ctx, TableSales, day(t, "2025-04-02"), day(t, "2025-04-03"))
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if got, want := removed, int64(2); got != want {
		t.Errorf("removed got %d want %d", got, want)
	}

	remaining, err := testDB.SalesGet(ctx, day(t, "2025-04-01"), day(t, "2025-04-30"))
	if err != nil {
		t.Fatalf("sales get error: %v", err)
	}
	if got, want := len(remaining), 2; got != want {
		t.Fatalf("remaining count got %d want %d", got, want)
	}
	if got, want := remaining[0].Date.Format("2006-01-02"), "2025-04-01"; got != want {
		t.Errorf("first remaining date got %s want %s", got, want)
	}
	if got, want := remaining[1].Date.Format("2006-01-02"), "2025-04-04"; got != want {
		t.Errorf("second remaining date got %s want %s", got, want)
	}

	// The next insert continues above the previous maximum.
	rec := NewSalesRecord(day(t, "2025-04-05"), derive.Sales(testDeriveInput()))
	id, err := testDB.SalesInsert(ctx, rec)
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if got, want := id, int64(5); got != want {
		t.Errorf("id after delete got %d want %d", got, want)
	}
}

// TestSalesDeleteSingleDay checks that a start==end delete behaves as a
// single-date filter.
func TestSalesDeleteSingleDay(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	for _, d := range []string{"2025-04-01", "2025-04-02"} {
		rec := NewSalesRecord(day(t, d), derive.Sales(testDeriveInput()))
		if _, err := testDB.SalesInsert(ctx, rec); err != nil {
			t.Fatalf("insert error: %v", err)
		}
	}
	removed, err := testDB.DeleteDateRange(ctx, TableSales, day(t, "2025-04-01"), day(t, "2025-04-01"))
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if got, want := removed, int64(1); got != want {
		t.Errorf("removed got %d want %d", got, want)
	}
}

func TestSalesOilItemsCascadeDelete(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	rec := NewSalesRecord(day(t, "2025-04-01"), derive.Sales(testDeriveInput()))
	if _, err := testDB.SalesInsert(ctx, rec); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if _, err := testDB.DeleteDateRange(ctx, TableSales, day(t, "2025-04-01"), day(t, "2025-04-01")); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	var count int
	if err := testDB.GetContext(ctx, &count, "SELECT COUNT(*) FROM sales_oil_items"); err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 0 {
		t.Errorf("oil items not cascade-deleted, %d remain", count)
	}
}
