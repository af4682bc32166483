package report

import (
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

// salesRow makes a stored sales record from a day's raw input.
func salesRow(t *testing.T, date string, in derive.Input) db.SalesRecord {
	t.Helper()
	return db.NewSalesRecord(day(t, date), derive.Sales(in))
}

func TestSummarizeSales(t *testing.T) {
	in := derive.Input{
		PetrolC3:   derive.NozzleReading{Opening: 100, Closing: 150},
		PetrolC4:   derive.NozzleReading{Opening: 200, Closing: 230},
		HSDC1:      derive.NozzleReading{Opening: 1000, Closing: 1100},
		XPB3:       derive.NozzleReading{Opening: 500, Closing: 520},
		PetrolRate: 100,
		HSDRate:    90,
		XPRate:     110,
		OilItems:   []derive.OilItem{{Name: "2T Oil", Amount: 250}},
		Paytm:      5000,
		ICICI:      3000,
		FleetCard:  2000,
	}
	rows := []db.SalesRecord{
		salesRow(t, "2025-04-01", in),
		salesRow(t, "2025-04-02", in),
	}

	got := SummarizeSales(rows)
	if got.Records != 2 {
		t.Errorf("records got %d want 2", got.Records)
	}
	if got.PetrolLiters != 160 {
		t.Errorf("petrol liters got %v want 160", got.PetrolLiters)
	}
	if got.HSDLiters != 200 {
		t.Errorf("hsd liters got %v want 200", got.HSDLiters)
	}
	if got.XPLiters != 40 {
		t.Errorf("xp liters got %v want 40", got.XPLiters)
	}
	if got.PetrolAmount != 16000 {
		t.Errorf("petrol amount got %v want 16000", got.PetrolAmount)
	}
	if got.OilTotal != 500 {
		t.Errorf("oil total got %v want 500", got.OilTotal)
	}
	// gross per day = 8000 + 9000 + 2200 + 250 = 19450
	if got.GrossSales != 38900 {
		t.Errorf("gross sales got %v want 38900", got.GrossSales)
	}
	// total per day = gross - (5000 + 3000 + 2000)
	if got.TotalSales != 18900 {
		t.Errorf("total sales got %v want 18900", got.TotalSales)
	}
	if got.CashIn != 20000 {
		t.Errorf("cash in got %v want 20000", got.CashIn)
	}
	if got.NetCash != 20000 {
		t.Errorf("net cash got %v want 20000", got.NetCash)
	}
	if got.CreditBalance != got.TotalSales-got.CashIn {
		t.Errorf("credit balance got %v want %v", got.CreditBalance, got.TotalSales-got.CashIn)
	}
}

func TestSummarizeSalesEmpty(t *testing.T) {
	got := SummarizeSales(nil)
	if diff := cmp.Diff(SalesTotals{}, got); diff != "" {
		t.Errorf("empty summary not zero-valued (-want +got):\n%s", diff)
	}
}

func TestSummarizeParties(t *testing.T) {
	rows := []db.PartyLedgerEntry{
		{Date: day(t, "2025-04-01"), PartyName: "Acme", CreditAmount: 100, DebitAmount: 30},
		{Date: day(t, "2025-04-02"), PartyName: "Acme", CreditAmount: 50},
		{Date: day(t, "2025-04-03"), PartyName: "Beta", DebitAmount: 20},
	}
	got := SummarizeParties(rows)
	want := []PartyBalance{
		{Name: "Acme", Credit: 150, Debit: 30, Net: 120},
		{Name: "Beta", Credit: 0, Debit: 20, Net: -20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("party balances differ (-want +got):\n%s", diff)
	}

	credit, debit := PartyTotals(got)
	if credit != 150 || debit != 50 {
		t.Errorf("party totals got %v/%v want 150/50", credit, debit)
	}
}

// TestSummarizePartiesCaseSensitive checks that grouping is by exact name:
// differing case means differing parties.
func TestSummarizePartiesCaseSensitive(t *testing.T) {
	rows := []db.PartyLedgerEntry{
		{Date: day(t, "2025-04-01"), PartyName: "Acme", CreditAmount: 100},
		{Date: day(t, "2025-04-02"), PartyName: "acme", CreditAmount: 50},
	}
	got := SummarizeParties(rows)
	if len(got) != 2 {
		t.Fatalf("group count got %d want 2", len(got))
	}
}

func TestSummarizeShortages(t *testing.T) {
	rows := []db.EmployeeShortageEntry{
		{Date: day(t, "2025-04-01"), EmployeeName: "Suresh", ShortageAmount: 250},
		{Date: day(t, "2025-04-15"), EmployeeName: "Ramesh", ShortageAmount: 100},
		{Date: day(t, "2025-05-02"), EmployeeName: "Suresh", ShortageAmount: 50},
	}
	got := SummarizeShortages(rows)
	want := []EmployeeShortage{
		{Name: "Suresh", Shortage: 300},
		{Name: "Ramesh", Shortage: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("shortages differ (-want +got):\n%s", diff)
	}
	if total := TotalShortage(got); total != 400 {
		t.Errorf("total shortage got %v want 400", total)
	}
}

func TestShortagesByMonth(t *testing.T) {
	rows := []db.EmployeeShortageEntry{
		{Date: day(t, "2025-04-01"), EmployeeName: "Suresh", ShortageAmount: 250},
		{Date: day(t, "2025-04-15"), EmployeeName: "Ramesh", ShortageAmount: 100},
		{Date: day(t, "2025-05-02"), EmployeeName: "Suresh", ShortageAmount: 50},
	}
	got := ShortagesByMonth(rows)
	want := []MonthShortage{
		{Year: 2025, Month: time.April, Shortage: 350},
		{Year: 2025, Month: time.May, Shortage: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("month shortages differ (-want +got):\n%s", diff)
	}

	if got := MonthShortageFor(rows, 2025, time.April); got != 350 {
		t.Errorf("april shortage got %v want 350", got)
	}
	if got := MonthShortageFor(rows, 2025, time.June); got != 0 {
		t.Errorf("june shortage got %v want 0", got)
	}
}

func TestSummarizeOwners(t *testing.T) {
	rows := []db.OwnerTransactionEntry{
		{Date: day(t, "2025-04-01"), OwnerName: "Raj", Amount: 500, Mode: db.ModeCash, Type: db.TypeCredit},
		{Date: day(t, "2025-04-02"), OwnerName: "Raj", Amount: 200, Mode: db.ModeOnline, Type: db.TypeDebit},
	}

	detailed := SummarizeOwnersDetailed(rows)
	wantDetailed := []OwnerLine{
		{Name: "Raj", Mode: db.ModeCash, Type: db.TypeCredit, Amount: 500},
		{Name: "Raj", Mode: db.ModeOnline, Type: db.TypeDebit, Amount: 200},
	}
	if diff := cmp.Diff(wantDetailed, detailed); diff != "" {
		t.Errorf("detailed owner lines differ (-want +got):\n%s", diff)
	}

	balances := SummarizeOwners(rows)
	wantBalances := []OwnerBalance{
		{Name: "Raj", Credit: 500, Debit: 200, Net: 300},
	}
	if diff := cmp.Diff(wantBalances, balances); diff != "" {
		t.Errorf("owner balances differ (-want +got):\n%s", diff)
	}

	credit, debit := OwnerTotals(balances)
	if credit != 500 || debit != 200 {
		t.Errorf("owner totals got %v/%v want 500/200", credit, debit)
	}
}

// TestSummarizeOwnersDetailedMerges checks that two transactions with the
// same (name, mode, type) fold into one line.
func TestSummarizeOwnersDetailedMerges(t *testing.T) {
	rows := []db.OwnerTransactionEntry{
		{Date: day(t, "2025-04-01"), OwnerName: "Raj", Amount: 500, Mode: db.ModeCash, Type: db.TypeCredit},
		{Date: day(t, "2025-04-05"), OwnerName: "Raj", Amount: 100, Mode: db.ModeCash, Type: db.TypeCredit},
	}
	got := SummarizeOwnersDetailed(rows)
	if len(got) != 1 || got[0].Amount != 600 {
		t.Errorf("merged lines got %+v", got)
	}
}

func TestCash(t *testing.T) {
	in := derive.Input{
		PetrolC3:     derive.NozzleReading{Opening: 0, Closing: 100},
		PetrolRate:   100,
		Paytm:        2000,
		ICICI:        1000,
		FleetCard:    500,
		PumpExpenses: 300,
	}
	sales := []db.SalesRecord{salesRow(t, "2025-04-01", in)}
	shortages := []db.EmployeeShortageEntry{
		{Date: day(t, "2025-04-01"), EmployeeName: "Suresh", ShortageAmount: 250},
	}

	got := Cash(sales, shortages)
	if got.TotalPayments != 3500 {
		t.Errorf("total payments got %v want 3500", got.TotalPayments)
	}
	if got.TotalExpenses != 300 {
		t.Errorf("total expenses got %v want 300", got.TotalExpenses)
	}
	if got.TotalShortage != 250 {
		t.Errorf("total shortage got %v want 250", got.TotalShortage)
	}
	// total sales = 10000 - 3800 = 6200; credit balance = 6200 - 3500 = 2700;
	// net sales = 2700 - 250 = 2450.
	if got.NetSales != 2450 {
		t.Errorf("net sales got %v want 2450", got.NetSales)
	}
}

func TestBuildEmpty(t *testing.T) {
	from, to := day(t, "2025-04-01"), day(t, "2025-04-30")
	got := Build(from, to, nil, nil, nil, nil)
	want := Aggregate{From: from, To: to}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("empty aggregate not zero-valued (-want +got):\n%s", diff)
	}
}

func TestBuild(t *testing.T) {
	in := derive.Input{
		PetrolC3:   derive.NozzleReading{Opening: 0, Closing: 10},
		PetrolRate: 100,
	}
	got := Build(
		day(t, "2025-04-01"), day(t, "2025-04-30"),
		[]db.SalesRecord{salesRow(t, "2025-04-01", in)},
		[]db.PartyLedgerEntry{{Date: day(t, "2025-04-01"), PartyName: "Acme", CreditAmount: 100}},
		[]db.EmployeeShortageEntry{{Date: day(t, "2025-04-02"), EmployeeName: "Suresh", ShortageAmount: 50}},
		[]db.OwnerTransactionEntry{{Date: day(t, "2025-04-03"), OwnerName: "Raj", Amount: 500, Mode: db.ModeCash, Type: db.TypeCredit}},
	)
	if got.Sales.Records != 1 {
		t.Errorf("sales records got %d want 1", got.Sales.Records)
	}
	if len(got.Parties) != 1 || got.Parties[0].Net != 100 {
		t.Errorf("parties got %+v", got.Parties)
	}
	if len(got.Shortages) != 1 || got.Shortages[0].Shortage != 50 {
		t.Errorf("shortages got %+v", got.Shortages)
	}
	if len(got.Owners) != 1 || got.Owners[0].Net != 500 {
		t.Errorf("owners got %+v", got.Owners)
	}
	// net sales = credit balance (1000) - shortage (50)
	if got.Cash.NetSales != 950 {
		t.Errorf("net sales got %v want 950", got.Cash.NetSales)
	}
}
