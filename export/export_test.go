package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pumpbook/db"
	"pumpbook/derive"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// testSnapshot builds a small snapshot covering all four tables, with
// fractional values that would expose lossy float formatting.
func testSnapshot(t *testing.T) db.Snapshot {
	t.Helper()

	rec := db.NewSalesRecord(day(t, "2025-04-01"), derive.Sales(derive.Input{
		PetrolC3:   derive.NozzleReading{Opening: 12345.67, Closing: 12420.89},
		HSDC1:      derive.NozzleReading{Opening: 998.1, Closing: 1003.3},
		TestB1:     5.5,
		PetrolRate: 104.62,
		HSDRate:    91.16,
		XPRate:     111.57,
		OilItems: []derive.OilItem{
			{Name: "2T Oil", Amount: 250.5},
			{Name: "Coolant", Amount: 149.95},
		},
		Paytm:              5000,
		PumpExpenses:       700,
		PumpExpensesRemark: "generator diesel",
	}))
	rec.ID = 1
	for i := range rec.OilItems {
		rec.OilItems[i].SalesID = 1
	}

	return db.Snapshot{
		Sales: []db.SalesRecord{rec},
		Parties: []db.PartyLedgerEntry{
			{ID: 1, Date: day(t, "2025-04-01"), PartyName: "Acme", CreditAmount: 100.25, DebitAmount: 30},
			{ID: 2, Date: day(t, "2025-04-03"), PartyName: "Beta", DebitAmount: 20, Remark: "advance"},
		},
		Shortages: []db.EmployeeShortageEntry{
			{ID: 1, Date: day(t, "2025-04-02"), EmployeeName: "Suresh", ShortageAmount: 250},
		},
		Owners: []db.OwnerTransactionEntry{
			{ID: 1, Date: day(t, "2025-04-03"), OwnerName: "Raj", Amount: 500, Mode: db.ModeCash, Type: db.TypeCredit},
			{ID: 2, Date: day(t, "2025-04-04"), OwnerName: "Raj", Amount: 200, Mode: db.ModeOnline, Type: db.TypeDebit, Remark: "drawing"},
		},
	}
}

func TestSalesCSVRoundTrip(t *testing.T) {
	snap := testSnapshot(t)

	var buf bytes.Buffer
	if err := SalesCSV(&buf, snap.Sales); err != nil {
		t.Fatalf("write error: %v", err)
	}
	got, err := ReadSalesCSV(&buf)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if diff := cmp.Diff(snap.Sales, got); diff != "" {
		t.Errorf("sales round trip differs (-want +got):\n%s", diff)
	}
}

func TestLedgerCSVRoundTrips(t *testing.T) {
	snap := testSnapshot(t)

	var buf bytes.Buffer
	if err := PartyCSV(&buf, snap.Parties); err != nil {
		t.Fatalf("party write error: %v", err)
	}
	parties, err := ReadPartyCSV(&buf)
	if err != nil {
		t.Fatalf("party read error: %v", err)
	}
	if diff := cmp.Diff(snap.Parties, parties); diff != "" {
		t.Errorf("party round trip differs (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := ShortageCSV(&buf, snap.Shortages); err != nil {
		t.Fatalf("shortage write error: %v", err)
	}
	shortages, err := ReadShortageCSV(&buf)
	if err != nil {
		t.Fatalf("shortage read error: %v", err)
	}
	if diff := cmp.Diff(snap.Shortages, shortages); diff != "" {
		t.Errorf("shortage round trip differs (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := OwnerCSV(&buf, snap.Owners); err != nil {
		t.Fatalf("owner write error: %v", err)
	}
	owners, err := ReadOwnerCSV(&buf)
	if err != nil {
		t.Fatalf("owner read error: %v", err)
	}
	if diff := cmp.Diff(snap.Owners, owners); diff != "" {
		t.Errorf("owner round trip differs (-want +got):\n%s", diff)
	}
}

func TestReadCSVHeaderMismatch(t *testing.T) {
	_, err := ReadPartyCSV(strings.NewReader("id,date,wrong\n"))
	if err == nil {
		t.Error("expected header mismatch error")
	}
	_, err = ReadPartyCSV(strings.NewReader(""))
	if err == nil {
		t.Error("expected empty file error")
	}
}

func TestOilItemCodec(t *testing.T) {
	items := []db.OilItem{
		{Position: 1, Name: "2T Oil", Amount: 250.5},
		{Position: 2, Name: "Coolant", Amount: 149.95},
	}
	names, amounts := encodeOilItems(items)
	if names != "2T Oil|Coolant" {
		t.Errorf("names got %q", names)
	}
	if amounts != "250.5|149.95" {
		t.Errorf("amounts got %q", amounts)
	}
	got, err := decodeOilItems(names, amounts)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("oil items differ (-want +got):\n%s", diff)
	}
}

func TestOilItemCodecEmpty(t *testing.T) {
	names, amounts := encodeOilItems(nil)
	if names != "" || amounts != "" {
		t.Errorf("empty encode got %q/%q", names, amounts)
	}
	items, err := decodeOilItems("", "")
	if err != nil || items != nil {
		t.Errorf("empty decode got %v, %v", items, err)
	}
}

func TestOilItemCodecMismatch(t *testing.T) {
	if _, err := decodeOilItems("a|b", "1"); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := decodeOilItems("a", "x"); err == nil {
		t.Error("expected amount parse error")
	}
}

func TestBackupWorkbookRoundTrip(t *testing.T) {
	snap := testSnapshot(t)

	var buf bytes.Buffer
	if err := WriteBackup(&buf, snap); err != nil {
		t.Fatalf("backup write error: %v", err)
	}
	got, err := ReadBackup(&buf)
	if err != nil {
		t.Fatalf("backup read error: %v", err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("backup round trip differs (-want +got):\n%s", diff)
	}
}

func TestBackupEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBackup(&buf, db.Snapshot{}); err != nil {
		t.Fatalf("backup write error: %v", err)
	}
	got, err := ReadBackup(&buf)
	if err != nil {
		t.Fatalf("backup read error: %v", err)
	}
	if diff := cmp.Diff(db.Snapshot{}, got); diff != "" {
		t.Errorf("empty backup round trip differs (-want +got):\n%s", diff)
	}
}

func TestReadBackupRejectsArbitraryFile(t *testing.T) {
	if _, err := ReadBackup(strings.NewReader("not a workbook")); err == nil {
		t.Error("expected workbook open error")
	}
}
