package web

/* view types for the web server */

import (
	"fmt"
	"time"

	"pumpbook/db"
	"pumpbook/report"
)

// money formats an amount for display with two decimal places.
func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// liters formats a volume for display.
func liters(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// dayStr formats a date for display.
func dayStr(d time.Time) string {
	return d.Format("02/01/2006")
}

// viewAggregate is a display version of report.Aggregate with formatted
// figures.
type viewAggregate struct {
	FromStr string
	ToStr   string

	Records       int
	PetrolLiters  string
	HSDLiters     string
	XPLiters      string
	PetrolAmount  string
	HSDAmount     string
	XPAmount      string
	OilTotal      string
	GrossSales    string
	TotalSales    string
	TotalPayments string
	TotalExpenses string
	TotalShortage string
	NetSales      string

	Parties        []viewBalance
	PartyCredit    string
	PartyDebit     string
	Shortages      []viewShortage
	MonthShortages []viewMonthShortage
	OwnersDetailed []viewOwnerLine
	Owners         []viewBalance
	OwnerCredit    string
	OwnerDebit     string
}

// viewBalance shows a grouped credit/debit/net position for a party or
// owner.
type viewBalance struct {
	Name   string
	Credit string
	Debit  string
	Net    string
}

// viewShortage shows one employee's grouped shortage.
type viewShortage struct {
	Name     string
	Shortage string
}

// viewMonthShortage shows one calendar month's shortage total.
type viewMonthShortage struct {
	Month    string
	Shortage string
}

// viewOwnerLine shows one (owner, mode, type) group.
type viewOwnerLine struct {
	Name   string
	Mode   string
	Type   string
	Amount string
}

// newViewAggregate maps a report.Aggregate to its display version.
func newViewAggregate(a report.Aggregate) viewAggregate {
	va := viewAggregate{
		FromStr: dayStr(a.From),
		ToStr:   dayStr(a.To),

		Records:       a.Sales.Records,
		PetrolLiters:  liters(a.Sales.PetrolLiters),
		HSDLiters:     liters(a.Sales.HSDLiters),
		XPLiters:      liters(a.Sales.XPLiters),
		PetrolAmount:  money(a.Sales.PetrolAmount),
		HSDAmount:     money(a.Sales.HSDAmount),
		XPAmount:      money(a.Sales.XPAmount),
		OilTotal:      money(a.Sales.OilTotal),
		GrossSales:    money(a.Sales.GrossSales),
		TotalSales:    money(a.Sales.TotalSales),
		TotalPayments: money(a.Cash.TotalPayments),
		TotalExpenses: money(a.Cash.TotalExpenses),
		TotalShortage: money(a.Cash.TotalShortage),
		NetSales:      money(a.Cash.NetSales),
	}

	for _, p := range a.Parties {
		va.Parties = append(va.Parties, viewBalance{
			Name:   p.Name,
			Credit: money(p.Credit),
			Debit:  money(p.Debit),
			Net:    money(p.Net),
		})
	}
	credit, debit := report.PartyTotals(a.Parties)
	va.PartyCredit, va.PartyDebit = money(credit), money(debit)

	for _, s := range a.Shortages {
		va.Shortages = append(va.Shortages, viewShortage{
			Name:     s.Name,
			Shortage: money(s.Shortage),
		})
	}
	for _, m := range a.MonthShortages {
		va.MonthShortages = append(va.MonthShortages, viewMonthShortage{
			Month:    fmt.Sprintf("%s %d", m.Month, m.Year),
			Shortage: money(m.Shortage),
		})
	}

	for _, l := range a.OwnersDetailed {
		va.OwnersDetailed = append(va.OwnersDetailed, viewOwnerLine{
			Name:   l.Name,
			Mode:   l.Mode,
			Type:   l.Type,
			Amount: money(l.Amount),
		})
	}
	for _, o := range a.Owners {
		va.Owners = append(va.Owners, viewBalance{
			Name:   o.Name,
			Credit: money(o.Credit),
			Debit:  money(o.Debit),
			Net:    money(o.Net),
		})
	}
	ownerCredit, ownerDebit := report.OwnerTotals(a.Owners)
	va.OwnerCredit, va.OwnerDebit = money(ownerCredit), money(ownerDebit)

	return va
}

// viewEntry is one row on an /entries listing page. Cells vary by table;
// the template renders Cells against the table's Columns.
type viewEntry struct {
	ID      int64
	DateStr string
	Cells   []string
}

// newViewSalesEntries maps sales records to listing rows showing the key
// figures for a day's entry.
func newViewSalesEntries(rows []db.SalesRecord) []viewEntry {
	ve := make([]viewEntry, len(rows))
	for i, r := range rows {
		petrol := r.PetrolC3Sales + r.PetrolC4Sales + r.PetrolA1Sales + r.PetrolA2Sales
		hsd := r.HSDC1Sales + r.HSDC2Sales + r.HSDB1Sales + r.HSDB2Sales
		xp := r.XPB3Sales + r.XPB4Sales
		ve[i] = viewEntry{
			ID:      r.ID,
			DateStr: dayStr(r.Date),
			Cells: []string{
				liters(petrol), liters(hsd), liters(xp),
				money(r.OilTotal), money(r.GrossSalesAmount), money(r.TotalSalesAmount),
				money(r.CashIn), money(r.CreditBalance),
			},
		}
	}
	return ve
}

// newViewPartyEntries maps party ledger entries to listing rows.
func newViewPartyEntries(rows []db.PartyLedgerEntry) []viewEntry {
	ve := make([]viewEntry, len(rows))
	for i, r := range rows {
		ve[i] = viewEntry{
			ID:      r.ID,
			DateStr: dayStr(r.Date),
			Cells:   []string{r.PartyName, money(r.CreditAmount), money(r.DebitAmount), r.Remark},
		}
	}
	return ve
}

// newViewShortageEntries maps employee shortage entries to listing rows.
func newViewShortageEntries(rows []db.EmployeeShortageEntry) []viewEntry {
	ve := make([]viewEntry, len(rows))
	for i, r := range rows {
		ve[i] = viewEntry{
			ID:      r.ID,
			DateStr: dayStr(r.Date),
			Cells:   []string{r.EmployeeName, money(r.ShortageAmount)},
		}
	}
	return ve
}

// newViewOwnerEntries maps owner transaction entries to listing rows.
func newViewOwnerEntries(rows []db.OwnerTransactionEntry) []viewEntry {
	ve := make([]viewEntry, len(rows))
	for i, r := range rows {
		ve[i] = viewEntry{
			ID:      r.ID,
			DateStr: dayStr(r.Date),
			Cells:   []string{r.OwnerName, money(r.Amount), r.Mode, r.Type, r.Remark},
		}
	}
	return ve
}

// entryColumns returns the listing column headers for a table, matching
// the cells produced by the mappers above.
func entryColumns(table string) []string {
	switch db.Table(table) {
	case db.TableSales:
		return []string{"Petrol L", "HSD L", "XP L", "Oil", "Gross", "Total", "Cash In", "Credit Balance"}
	case db.TableParty:
		return []string{"Party", "Credit", "Debit", "Remark"}
	case db.TableShortage:
		return []string{"Employee", "Shortage"}
	case db.TableOwners:
		return []string{"Owner", "Amount", "Mode", "Type", "Remark"}
	}
	return nil
}
