// Package report rolls per-day records up into the summaries shown on the
// dashboard and written to exports.
//
// All functions are pure over already-loaded rows: the record store does
// the date-range filtering, this package does the arithmetic. Sales sums
// read each row's derived columns, which are the source of truth once
// saved; nothing is re-derived from raw meter readings here. Grouping is
// by exact string match on names (two differently-cased spellings of "the
// same" party are distinct groups, a known data-quality trade-off carried
// deliberately) and group output order is first-seen insertion order, so
// aggregation is deterministic. An empty input yields zero-valued
// aggregates, never an error.
package report

import (
	"time"

	"pumpbook/db"
)

// SalesTotals sums every litres and amount column across the sales rows in
// range.
type SalesTotals struct {
	Records int

	PetrolLiters float64
	HSDLiters    float64
	XPLiters     float64

	PetrolAmount float64
	HSDAmount    float64
	XPAmount     float64
	OilTotal     float64

	GrossSales float64
	TotalSales float64

	Paytm     float64
	ICICI     float64
	FleetCard float64

	PumpExpenses  float64
	CashIn        float64
	CashOut       float64
	NetCash       float64
	CreditBalance float64
}

// SummarizeSales totals the derived columns of the provided sales rows.
func SummarizeSales(rows []db.SalesRecord) SalesTotals {
	var t SalesTotals
	t.Records = len(rows)
	for _, r := range rows {
		t.PetrolLiters += r.PetrolC3Sales + r.PetrolC4Sales + r.PetrolA1Sales + r.PetrolA2Sales
		t.HSDLiters += r.HSDC1Sales + r.HSDC2Sales + r.HSDB1Sales + r.HSDB2Sales
		t.XPLiters += r.XPB3Sales + r.XPB4Sales

		t.PetrolAmount += r.PetrolAmount
		t.HSDAmount += r.HSDAmount
		t.XPAmount += r.XPAmount
		t.OilTotal += r.OilTotal

		t.GrossSales += r.GrossSalesAmount
		t.TotalSales += r.TotalSalesAmount

		t.Paytm += r.PaytmAmount
		t.ICICI += r.ICICIAmount
		t.FleetCard += r.FleetCardAmount

		t.PumpExpenses += r.PumpExpenses
		t.CashIn += r.CashIn
		t.CashOut += r.CashOut
		t.NetCash += r.NetCash
		t.CreditBalance += r.CreditBalance
	}
	return t
}

// PartyBalance is the rolled-up position of one party over the selected
// range: net = credit − debit.
type PartyBalance struct {
	Name   string
	Credit float64
	Debit  float64
	Net    float64
}

// SummarizeParties groups party ledger entries by exact party name.
func SummarizeParties(rows []db.PartyLedgerEntry) []PartyBalance {
	var (
		balances []PartyBalance
		index    = map[string]int{}
	)
	for _, r := range rows {
		i, ok := index[r.PartyName]
		if !ok {
			i = len(balances)
			index[r.PartyName] = i
			balances = append(balances, PartyBalance{Name: r.PartyName})
		}
		balances[i].Credit += r.CreditAmount
		balances[i].Debit += r.DebitAmount
	}
	for i := range balances {
		balances[i].Net = balances[i].Credit - balances[i].Debit
	}
	return balances
}

// PartyTotals sums the credit and debit columns across party balances.
func PartyTotals(balances []PartyBalance) (credit, debit float64) {
	for _, b := range balances {
		credit += b.Credit
		debit += b.Debit
	}
	return credit, debit
}

// EmployeeShortage is the total shortage attributed to one employee.
type EmployeeShortage struct {
	Name     string
	Shortage float64
}

// SummarizeShortages groups employee shortage entries by exact employee
// name.
func SummarizeShortages(rows []db.EmployeeShortageEntry) []EmployeeShortage {
	var (
		shortages []EmployeeShortage
		index     = map[string]int{}
	)
	for _, r := range rows {
		i, ok := index[r.EmployeeName]
		if !ok {
			i = len(shortages)
			index[r.EmployeeName] = i
			shortages = append(shortages, EmployeeShortage{Name: r.EmployeeName})
		}
		shortages[i].Shortage += r.ShortageAmount
	}
	return shortages
}

// TotalShortage sums the shortage across all groups.
func TotalShortage(shortages []EmployeeShortage) float64 {
	var total float64
	for _, s := range shortages {
		total += s.Shortage
	}
	return total
}

// MonthShortage is the shortage total for one calendar month. Shortage
// analysis is commonly done per month independently of the dashboard's
// selected range.
type MonthShortage struct {
	Year     int
	Month    time.Month
	Shortage float64
}

// ShortagesByMonth buckets shortage entries by calendar month in
// first-seen order.
func ShortagesByMonth(rows []db.EmployeeShortageEntry) []MonthShortage {
	type ym struct {
		year  int
		month time.Month
	}
	var (
		months []MonthShortage
		index  = map[ym]int{}
	)
	for _, r := range rows {
		key := ym{r.Date.Year(), r.Date.Month()}
		i, ok := index[key]
		if !ok {
			i = len(months)
			index[key] = i
			months = append(months, MonthShortage{Year: key.year, Month: key.month})
		}
		months[i].Shortage += r.ShortageAmount
	}
	return months
}

// MonthShortageFor returns the shortage total for one specific month,
// regardless of the display range the rows came from.
func MonthShortageFor(rows []db.EmployeeShortageEntry, year int, month time.Month) float64 {
	var total float64
	for _, r := range rows {
		if r.Date.Year() == year && r.Date.Month() == month {
			total += r.ShortageAmount
		}
	}
	return total
}

// OwnerLine is one row of the detailed owner summary, grouped by
// (owner, mode, type).
type OwnerLine struct {
	Name   string
	Mode   string
	Type   string
	Amount float64
}

// SummarizeOwnersDetailed groups owner transactions by (name, mode, type).
func SummarizeOwnersDetailed(rows []db.OwnerTransactionEntry) []OwnerLine {
	type key struct {
		name, mode, typer string
	}
	var (
		lines []OwnerLine
		index = map[key]int{}
	)
	for _, r := range rows {
		k := key{r.OwnerName, r.Mode, r.Type}
		i, ok := index[k]
		if !ok {
			i = len(lines)
			index[k] = i
			lines = append(lines, OwnerLine{Name: r.OwnerName, Mode: r.Mode, Type: r.Type})
		}
		lines[i].Amount += r.Amount
	}
	return lines
}

// OwnerBalance is the credit/debit/net view for one owner.
type OwnerBalance struct {
	Name   string
	Credit float64
	Debit  float64
	Net    float64
}

// SummarizeOwners groups owner transactions by name, splitting amounts by
// type: net = credit − debit.
func SummarizeOwners(rows []db.OwnerTransactionEntry) []OwnerBalance {
	var (
		balances []OwnerBalance
		index    = map[string]int{}
	)
	for _, r := range rows {
		i, ok := index[r.OwnerName]
		if !ok {
			i = len(balances)
			index[r.OwnerName] = i
			balances = append(balances, OwnerBalance{Name: r.OwnerName})
		}
		switch r.Type {
		case db.TypeCredit:
			balances[i].Credit += r.Amount
		case db.TypeDebit:
			balances[i].Debit += r.Amount
		}
	}
	for i := range balances {
		balances[i].Net = balances[i].Credit - balances[i].Debit
	}
	return balances
}

// OwnerTotals sums the credit and debit columns across owner balances.
func OwnerTotals(balances []OwnerBalance) (credit, debit float64) {
	for _, b := range balances {
		credit += b.Credit
		debit += b.Debit
	}
	return credit, debit
}

// CashMetrics are the combined cash-flow figures for the selected range.
//
// NetSales is the money the business actually kept: the summed credit
// balance of the sales rows less the total employee shortage. This is the
// one canonical formula; the party ledger is reported separately and not
// folded in.
type CashMetrics struct {
	TotalPayments float64
	TotalExpenses float64
	TotalShortage float64
	NetSales      float64
}

// Cash computes the combined cash metrics from the range's sales rows and
// shortage entries.
func Cash(sales []db.SalesRecord, shortages []db.EmployeeShortageEntry) CashMetrics {
	var m CashMetrics
	for _, r := range sales {
		m.TotalPayments += r.PaytmAmount + r.ICICIAmount + r.FleetCardAmount
		m.TotalExpenses += r.PumpExpenses
		m.NetSales += r.CreditBalance
	}
	for _, s := range shortages {
		m.TotalShortage += s.ShortageAmount
	}
	m.NetSales -= m.TotalShortage
	return m
}

// Aggregate is the full set of rolled-up views for one date range.
type Aggregate struct {
	From time.Time
	To   time.Time

	Sales          SalesTotals
	Parties        []PartyBalance
	Shortages      []EmployeeShortage
	MonthShortages []MonthShortage
	OwnersDetailed []OwnerLine
	Owners         []OwnerBalance
	Cash           CashMetrics
}

// Build assembles an Aggregate from the four tables' rows for the range
// [from, to].
func Build(from, to time.Time, sales []db.SalesRecord, parties []db.PartyLedgerEntry, shortages []db.EmployeeShortageEntry, owners []db.OwnerTransactionEntry) Aggregate {
	return Aggregate{
		From:           from,
		To:             to,
		Sales:          SummarizeSales(sales),
		Parties:        SummarizeParties(parties),
		Shortages:      SummarizeShortages(shortages),
		MonthShortages: ShortagesByMonth(shortages),
		OwnersDetailed: SummarizeOwnersDetailed(owners),
		Owners:         SummarizeOwners(owners),
		Cash:           Cash(sales, shortages),
	}
}
