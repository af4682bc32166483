package db

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPartyInsertAndGet(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	entries := []PartyLedgerEntry{
		{Date: day(t, "2025-04-01"), PartyName: "Acme", CreditAmount: 100, DebitAmount: 30},
		{Date: day(t, "2025-04-02"), PartyName: "Acme", CreditAmount: 50},
		{Date: day(t, "2025-04-03"), PartyName: "Beta", DebitAmount: 20, Remark: "advance"},
	}
	for i, entry := range entries {
		id, err := testDB.PartyInsert(ctx, entry)
		if err != nil {
			t.Fatalf("insert %d error: %v", i, err)
		}
		if got, want := id, int64(i+1); got != want {
			t.Errorf("id got %d want %d", got, want)
		}
	}

	got, err := testDB.PartyGet(ctx, day(t, "2025-04-01"), day(t, "2025-04-30"))
	if err != nil {
		t.Fatalf("party get error: %v", err)
	}
	want := entries
	for i := range want {
		want[i].ID = int64(i + 1)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("party entries differ (-want +got):\n%s", diff)
	}

	// A narrower range excludes the out-of-range rows.
	got, err = testDB.PartyGet(ctx, day(t, "2025-04-02"), day(t, "2025-04-02"))
	if err != nil {
		t.Fatalf("party get error: %v", err)
	}
	if len(got) != 1 || got[0].PartyName != "Acme" || got[0].CreditAmount != 50 {
		t.Errorf("single-date filter returned unexpected rows: %+v", got)
	}
}

func TestShortageInsertAndGet(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	id, err := testDB.ShortageInsert(ctx, EmployeeShortageEntry{
		Date: day(t, "2025-04-01"), EmployeeName: "Suresh", ShortageAmount: 250,
	})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if got, want := id, int64(1); got != want {
		t.Errorf("id got %d want %d", got, want)
	}

	got, err := testDB.ShortageGet(ctx, day(t, "2025-04-01"), day(t, "2025-04-01"))
	if err != nil {
		t.Fatalf("shortage get error: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeName != "Suresh" || got[0].ShortageAmount != 250 {
		t.Errorf("unexpected rows: %+v", got)
	}
}

func TestOwnerInsertAndGet(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	entries := []OwnerTransactionEntry{
		{Date: day(t, "2025-04-01"), OwnerName: "Raj", Amount: 500, Mode: ModeCash, Type: TypeCredit},
		{Date: day(t, "2025-04-02"), OwnerName: "Raj", Amount: 200, Mode: ModeOnline, Type: TypeDebit, Remark: "drawing"},
	}
	for i, entry := range entries {
		id, err := testDB.OwnerInsert(ctx, entry)
		if err != nil {
			t.Fatalf("insert %d error: %v", i, err)
		}
		if got, want := id, int64(i+1); got != want {
			t.Errorf("id got %d want %d", got, want)
		}
	}

	got, err := testDB.OwnerGet(ctx, day(t, "2025-04-01"), day(t, "2025-04-30"))
	if err != nil {
		t.Fatalf("owner get error: %v", err)
	}
	want := entries
	for i := range want {
		want[i].ID = int64(i + 1)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("owner entries differ (-want +got):\n%s", diff)
	}
}

func TestOwnerInsertValidation(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry OwnerTransactionEntry
	}{
		{"bad mode", OwnerTransactionEntry{Date: day(t, "2025-04-01"), OwnerName: "Raj", Mode: "UPI", Type: TypeCredit}},
		{"bad type", OwnerTransactionEntry{Date: day(t, "2025-04-01"), OwnerName: "Raj", Mode: ModeCash, Type: "Transfer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := testDB.OwnerInsert(ctx, tt.entry); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestReset(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	if _, err := testDB.ShortageInsert(ctx, EmployeeShortageEntry{
		Date: day(t, "2025-04-01"), EmployeeName: "Suresh", ShortageAmount: 250,
	}); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if err := testDB.Reset(ctx, TableShortage); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	count, err := testDB.RowCount(ctx, TableShortage)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 0 {
		t.Errorf("count after reset got %d want 0", count)
	}
}
