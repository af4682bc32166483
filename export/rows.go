package export

// rows.go holds the per-table column layouts and the string row codecs
// shared by the csv and xlsx writers. Every stored column appears in the
// export layout so a written file can be read back without loss.

import (
	"fmt"
	"strconv"
	"time"

	"pumpbook/db"
)

const dateFormat = "2006-01-02"

// formatFloat renders a float with the shortest representation that
// parses back to the identical value.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// rowReader consumes a row's fields in column order, capturing the first
// parse error. Rows shorter than the layout read empty trailing fields,
// which spreadsheet tooling produces for blank cells.
type rowReader struct {
	fields []string
	pos    int
	err    error
}

func (r *rowReader) next() string {
	if r.pos >= len(r.fields) {
		r.pos++
		return ""
	}
	f := r.fields[r.pos]
	r.pos++
	return f
}

func (r *rowReader) int64() int64 {
	f := r.next()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(f, 10, 64)
	if err != nil {
		r.err = fmt.Errorf("column %d: %w", r.pos, err)
	}
	return v
}

func (r *rowReader) float() float64 {
	f := r.next()
	if r.err != nil {
		return 0
	}
	if f == "" {
		return 0
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		r.err = fmt.Errorf("column %d: %w", r.pos, err)
	}
	return v
}

func (r *rowReader) date() time.Time {
	f := r.next()
	if r.err != nil {
		return time.Time{}
	}
	d, err := time.Parse(dateFormat, f)
	if err != nil {
		r.err = fmt.Errorf("column %d: %w", r.pos, err)
	}
	return d
}

var salesHeader = []string{
	"id", "date",
	"petrol_c3_open", "petrol_c3_close", "petrol_c3_sales",
	"petrol_c4_open", "petrol_c4_close", "petrol_c4_sales",
	"petrol_a1_open", "petrol_a1_close", "petrol_a1_sales",
	"petrol_a2_open", "petrol_a2_close", "petrol_a2_sales",
	"hsd_c1_open", "hsd_c1_close", "hsd_c1_sales",
	"hsd_c2_open", "hsd_c2_close", "hsd_c2_sales",
	"hsd_b1_open", "hsd_b1_close", "hsd_b1_sales",
	"hsd_b2_open", "hsd_b2_close", "hsd_b2_sales",
	"xp_b3_open", "xp_b3_close", "xp_b3_sales",
	"xp_b4_open", "xp_b4_close", "xp_b4_sales",
	"test_b1", "test_b2", "test_b3", "test_b4",
	"petrol_rate", "hsd_rate", "xp_rate",
	"petrol_amount", "hsd_amount", "xp_amount", "oil_total",
	"gross_sales_amount", "total_sales_amount",
	"paytm_amount", "icici_amount", "fleet_card_amount",
	"pump_expenses", "pump_expenses_remark",
	"cash_in", "cash_out", "net_cash", "credit_balance",
	"oil_item_names", "oil_item_amounts",
}

func salesRow(r db.SalesRecord) []string {
	names, amounts := encodeOilItems(r.OilItems)
	return []string{
		strconv.FormatInt(r.ID, 10), r.Date.Format(dateFormat),
		formatFloat(r.PetrolC3Open), formatFloat(r.PetrolC3Close), formatFloat(r.PetrolC3Sales),
		formatFloat(r.PetrolC4Open), formatFloat(r.PetrolC4Close), formatFloat(r.PetrolC4Sales),
		formatFloat(r.PetrolA1Open), formatFloat(r.PetrolA1Close), formatFloat(r.PetrolA1Sales),
		formatFloat(r.PetrolA2Open), formatFloat(r.PetrolA2Close), formatFloat(r.PetrolA2Sales),
		formatFloat(r.HSDC1Open), formatFloat(r.HSDC1Close), formatFloat(r.HSDC1Sales),
		formatFloat(r.HSDC2Open), formatFloat(r.HSDC2Close), formatFloat(r.HSDC2Sales),
		formatFloat(r.HSDB1Open), formatFloat(r.HSDB1Close), formatFloat(r.HSDB1Sales),
		formatFloat(r.HSDB2Open), formatFloat(r.HSDB2Close), formatFloat(r.HSDB2Sales),
		formatFloat(r.XPB3Open), formatFloat(r.XPB3Close), formatFloat(r.XPB3Sales),
		formatFloat(r.XPB4Open), formatFloat(r.XPB4Close), formatFloat(r.XPB4Sales),
		formatFloat(r.TestB1), formatFloat(r.TestB2), formatFloat(r.TestB3), formatFloat(r.TestB4),
		formatFloat(r.PetrolRate), formatFloat(r.HSDRate), formatFloat(r.XPRate),
		formatFloat(r.PetrolAmount), formatFloat(r.HSDAmount), formatFloat(r.XPAmount), formatFloat(r.OilTotal),
		formatFloat(r.GrossSalesAmount), formatFloat(r.TotalSalesAmount),
		formatFloat(r.PaytmAmount), formatFloat(r.ICICIAmount), formatFloat(r.FleetCardAmount),
		formatFloat(r.PumpExpenses), r.PumpExpensesRemark,
		formatFloat(r.CashIn), formatFloat(r.CashOut), formatFloat(r.NetCash), formatFloat(r.CreditBalance),
		names, amounts,
	}
}

func parseSalesRow(fields []string) (db.SalesRecord, error) {
	r := &rowReader{fields: fields}
	rec := db.SalesRecord{
		ID:   r.int64(),
		Date: r.date(),

		PetrolC3Open: r.float(), PetrolC3Close: r.float(), PetrolC3Sales: r.float(),
		PetrolC4Open: r.float(), PetrolC4Close: r.float(), PetrolC4Sales: r.float(),
		PetrolA1Open: r.float(), PetrolA1Close: r.float(), PetrolA1Sales: r.float(),
		PetrolA2Open: r.float(), PetrolA2Close: r.float(), PetrolA2Sales: r.float(),

		HSDC1Open: r.float(), HSDC1Close: r.float(), HSDC1Sales: r.float(),
		HSDC2Open: r.float(), HSDC2Close: r.float(), HSDC2Sales: r.float(),
		HSDB1Open: r.float(), HSDB1Close: r.float(), HSDB1Sales: r.float(),
		HSDB2Open: r.float(), HSDB2Close: r.float(), HSDB2Sales: r.float(),

		XPB3Open: r.float(), XPB3Close: r.float(), XPB3Sales: r.float(),
		XPB4Open: r.float(), XPB4Close: r.float(), XPB4Sales: r.float(),

		TestB1: r.float(), TestB2: r.float(), TestB3: r.float(), TestB4: r.float(),

		PetrolRate: r.float(), HSDRate: r.float(), XPRate: r.float(),

		PetrolAmount: r.float(), HSDAmount: r.float(), XPAmount: r.float(), OilTotal: r.float(),

		GrossSalesAmount: r.float(), TotalSalesAmount: r.float(),

		PaytmAmount: r.float(), ICICIAmount: r.float(), FleetCardAmount: r.float(),

		PumpExpenses: r.float(), PumpExpensesRemark: r.next(),

		CashIn: r.float(), CashOut: r.float(), NetCash: r.float(), CreditBalance: r.float(),
	}
	names, amounts := r.next(), r.next()
	if r.err != nil {
		return db.SalesRecord{}, r.err
	}
	items, err := decodeOilItems(names, amounts)
	if err != nil {
		return db.SalesRecord{}, err
	}
	for i := range items {
		items[i].SalesID = rec.ID
	}
	rec.OilItems = items
	return rec, nil
}

var partyHeader = []string{"id", "date", "party_name", "credit_amount", "debit_amount", "remark"}

func partyRow(e db.PartyLedgerEntry) []string {
	return []string{
		strconv.FormatInt(e.ID, 10), e.Date.Format(dateFormat),
		e.PartyName, formatFloat(e.CreditAmount), formatFloat(e.DebitAmount), e.Remark,
	}
}

func parsePartyRow(fields []string) (db.PartyLedgerEntry, error) {
	r := &rowReader{fields: fields}
	e := db.PartyLedgerEntry{
		ID: r.int64(), Date: r.date(),
		PartyName: r.next(), CreditAmount: r.float(), DebitAmount: r.float(), Remark: r.next(),
	}
	return e, r.err
}

var shortageHeader = []string{"id", "date", "employee_name", "shortage_amount"}

func shortageRow(e db.EmployeeShortageEntry) []string {
	return []string{
		strconv.FormatInt(e.ID, 10), e.Date.Format(dateFormat),
		e.EmployeeName, formatFloat(e.ShortageAmount),
	}
}

func parseShortageRow(fields []string) (db.EmployeeShortageEntry, error) {
	r := &rowReader{fields: fields}
	e := db.EmployeeShortageEntry{
		ID: r.int64(), Date: r.date(),
		EmployeeName: r.next(), ShortageAmount: r.float(),
	}
	return e, r.err
}

var ownerHeader = []string{"id", "date", "owner_name", "amount", "mode", "type", "remark"}

func ownerRow(e db.OwnerTransactionEntry) []string {
	return []string{
		strconv.FormatInt(e.ID, 10), e.Date.Format(dateFormat),
		e.OwnerName, formatFloat(e.Amount), e.Mode, e.Type, e.Remark,
	}
}

func parseOwnerRow(fields []string) (db.OwnerTransactionEntry, error) {
	r := &rowReader{fields: fields}
	e := db.OwnerTransactionEntry{
		ID: r.int64(), Date: r.date(),
		OwnerName: r.next(), Amount: r.float(), Mode: r.next(), Type: r.next(), Remark: r.next(),
	}
	return e, r.err
}
