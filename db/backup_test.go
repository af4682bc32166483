package db

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pumpbook/derive"
)

func TestSnapshotRoundTrip(t *testing.T) {
	source := setupTestDB(t)
	target := setupTestDB(t)
	ctx := context.Background()

	rec := NewSalesRecord(day(t, "2025-04-01"), derive.Sales(testDeriveInput()))
	if _, err := source.SalesInsert(ctx, rec); err != nil {
		t.Fatalf("sales insert error: %v", err)
	}
	if _, err := source.PartyInsert(ctx, PartyLedgerEntry{
		Date: day(t, "2025-04-01"), PartyName: "Acme", CreditAmount: 100,
	}); err != nil {
		t.Fatalf("party insert error: %v", err)
	}
	if _, err := source.ShortageInsert(ctx, EmployeeShortageEntry{
		Date: day(t, "2025-04-02"), EmployeeName: "Suresh", ShortageAmount: 250,
	}); err != nil {
		t.Fatalf("shortage insert error: %v", err)
	}
	if _, err := source.OwnerInsert(ctx, OwnerTransactionEntry{
		Date: day(t, "2025-04-03"), OwnerName: "Raj", Amount: 500, Mode: ModeCash, Type: TypeCredit,
	}); err != nil {
		t.Fatalf("owner insert error: %v", err)
	}

	// Seed the target with a row which the restore must remove: all four
	// tables are replaced together.
	if _, err := target.PartyInsert(ctx, PartyLedgerEntry{
		Date: day(t, "2020-01-01"), PartyName: "Stale", DebitAmount: 1,
	}); err != nil {
		t.Fatalf("target seed error: %v", err)
	}

	snap, err := source.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot load error: %v", err)
	}
	if err := target.RestoreSnapshot(ctx, snap); err != nil {
		t.Fatalf("snapshot restore error: %v", err)
	}

	restored, err := target.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("restored snapshot load error: %v", err)
	}
	if diff := cmp.Diff(snap, restored); diff != "" {
		t.Errorf("restored snapshot differs (-want +got):\n%s", diff)
	}

	// Identifier assignment continues above the restored maximum.
	id, err := target.PartyInsert(ctx, PartyLedgerEntry{
		Date: day(t, "2025-04-30"), PartyName: "Beta", CreditAmount: 10,
	})
	if err != nil {
		t.Fatalf("post-restore insert error: %v", err)
	}
	if got, want := id, int64(2); got != want {
		t.Errorf("post-restore id got %d want %d", got, want)
	}
}
