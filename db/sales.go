package db

// sales.go deals with the sales table and its child oil-product line items.

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pumpbook/derive"
)

// SalesRecord is one day's derived sales entry as stored. Multiple records
// per date are permitted and are all retained. Derived columns are written
// exactly as computed by the derivation engine at save time and are never
// mutated afterwards; aggregation treats them as the source of truth.
type SalesRecord struct {
	ID   int64     `db:"id"`
	Date time.Time `db:"date"`

	PetrolC3Open  float64 `db:"petrol_c3_open"`
	PetrolC3Close float64 `db:"petrol_c3_close"`
	PetrolC3Sales float64 `db:"petrol_c3_sales"`
	PetrolC4Open  float64 `db:"petrol_c4_open"`
	PetrolC4Close float64 `db:"petrol_c4_close"`
	PetrolC4Sales float64 `db:"petrol_c4_sales"`
	PetrolA1Open  float64 `db:"petrol_a1_open"`
	PetrolA1Close float64 `db:"petrol_a1_close"`
	PetrolA1Sales float64 `db:"petrol_a1_sales"`
	PetrolA2Open  float64 `db:"petrol_a2_open"`
	PetrolA2Close float64 `db:"petrol_a2_close"`
	PetrolA2Sales float64 `db:"petrol_a2_sales"`

	HSDC1Open  float64 `db:"hsd_c1_open"`
	HSDC1Close float64 `db:"hsd_c1_close"`
	HSDC1Sales float64 `db:"hsd_c1_sales"`
	HSDC2Open  float64 `db:"hsd_c2_open"`
	HSDC2Close float64 `db:"hsd_c2_close"`
	HSDC2Sales float64 `db:"hsd_c2_sales"`
	HSDB1Open  float64 `db:"hsd_b1_open"`
	HSDB1Close float64 `db:"hsd_b1_close"`
	HSDB1Sales float64 `db:"hsd_b1_sales"`
	HSDB2Open  float64 `db:"hsd_b2_open"`
	HSDB2Close float64 `db:"hsd_b2_close"`
	HSDB2Sales float64 `db:"hsd_b2_sales"`

	XPB3Open  float64 `db:"xp_b3_open"`
	XPB3Close float64 `db:"xp_b3_close"`
	XPB3Sales float64 `db:"xp_b3_sales"`
	XPB4Open  float64 `db:"xp_b4_open"`
	XPB4Close float64 `db:"xp_b4_close"`
	XPB4Sales float64 `db:"xp_b4_sales"`

	TestB1 float64 `db:"test_b1"`
	TestB2 float64 `db:"test_b2"`
	TestB3 float64 `db:"test_b3"`
	TestB4 float64 `db:"test_b4"`

	PetrolRate float64 `db:"petrol_rate"`
	HSDRate    float64 `db:"hsd_rate"`
	XPRate     float64 `db:"xp_rate"`

	PetrolAmount float64 `db:"petrol_amount"`
	HSDAmount    float64 `db:"hsd_amount"`
	XPAmount     float64 `db:"xp_amount"`
	OilTotal     float64 `db:"oil_total"`

	GrossSalesAmount float64 `db:"gross_sales_amount"`
	TotalSalesAmount float64 `db:"total_sales_amount"`

	PaytmAmount     float64 `db:"paytm_amount"`
	ICICIAmount     float64 `db:"icici_amount"`
	FleetCardAmount float64 `db:"fleet_card_amount"`

	PumpExpenses       float64 `db:"pump_expenses"`
	PumpExpensesRemark string  `db:"pump_expenses_remark"`

	CashIn        float64 `db:"cash_in"`
	CashOut       float64 `db:"cash_out"`
	NetCash       float64 `db:"net_cash"`
	CreditBalance float64 `db:"credit_balance"`

	// OilItems are the child oil-product line items, loaded in entry order.
	OilItems []OilItem `db:"-"`
}

// OilItem is a stored oil-product line item belonging to a sales record.
type OilItem struct {
	ID       int64   `db:"id"`
	SalesID  int64   `db:"sales_id"`
	Position int     `db:"position"`
	Name     string  `db:"name"`
	Amount   float64 `db:"amount"`
}

// NewSalesRecord maps a derived record onto a storable SalesRecord for the
// given calendar date.
func NewSalesRecord(date time.Time, d derive.Record) SalesRecord {
	rec := SalesRecord{
		Date: date,

		PetrolC3Open:  d.PetrolC3.Opening,
		PetrolC3Close: d.PetrolC3.Closing,
		PetrolC3Sales: d.PetrolC3Sales,
		PetrolC4Open:  d.PetrolC4.Opening,
		PetrolC4Close: d.PetrolC4.Closing,
		PetrolC4Sales: d.PetrolC4Sales,
		PetrolA1Open:  d.PetrolA1.Opening,
		PetrolA1Close: d.PetrolA1.Closing,
		PetrolA1Sales: d.PetrolA1Sales,
		PetrolA2Open:  d.PetrolA2.Opening,
		PetrolA2Close: d.PetrolA2.Closing,
		PetrolA2Sales: d.PetrolA2Sales,

		HSDC1Open:  d.HSDC1.Opening,
		HSDC1Close: d.HSDC1.Closing,
		HSDC1Sales: d.HSDC1Sales,
		HSDC2Open:  d.HSDC2.Opening,
		HSDC2Close: d.HSDC2.Closing,
		HSDC2Sales: d.HSDC2Sales,
		HSDB1Open:  d.HSDB1.Opening,
		HSDB1Close: d.HSDB1.Closing,
		HSDB1Sales: d.HSDB1Sales,
		HSDB2Open:  d.HSDB2.Opening,
		HSDB2Close: d.HSDB2.Closing,
		HSDB2Sales: d.HSDB2Sales,

		XPB3Open:  d.XPB3.Opening,
		XPB3Close: d.XPB3.Closing,
		XPB3Sales: d.XPB3Sales,
		XPB4Open:  d.XPB4.Opening,
		XPB4Close: d.XPB4.Closing,
		XPB4Sales: d.XPB4Sales,

		TestB1: d.TestB1,
		TestB2: d.TestB2,
		TestB3: d.TestB3,
		TestB4: d.TestB4,

		PetrolRate: d.PetrolRate,
		HSDRate:    d.HSDRate,
		XPRate:     d.XPRate,

		PetrolAmount: d.PetrolAmount,
		HSDAmount:    d.HSDAmount,
		XPAmount:     d.XPAmount,
		OilTotal:     d.OilTotal,

		GrossSalesAmount: d.GrossSalesAmount,
		TotalSalesAmount: d.TotalSalesAmount,

		PaytmAmount:     d.Paytm,
		ICICIAmount:     d.ICICI,
		FleetCardAmount: d.FleetCard,

		PumpExpenses:       d.PumpExpenses,
		PumpExpensesRemark: d.PumpExpensesRemark,

		CashIn:        d.CashIn,
		CashOut:       d.CashOut,
		NetCash:       d.NetCash,
		CreditBalance: d.CreditBalance,
	}
	for i, item := range d.OilItems {
		rec.OilItems = append(rec.OilItems, OilItem{
			Position: i + 1,
			Name:     item.Name,
			Amount:   item.Amount,
		})
	}
	return rec
}

// namedArgs provides the named arguments for salesInsertSQL. The date is
// formatted here so only ISO calendar dates reach storage.
func (r SalesRecord) namedArgs() map[string]any {
	return map[string]any{
		"date": r.Date.Format(dateFormat),

		"petrol_c3_open":  r.PetrolC3Open,
		"petrol_c3_close": r.PetrolC3Close,
		"petrol_c3_sales": r.PetrolC3Sales,
		"petrol_c4_open":  r.PetrolC4Open,
		"petrol_c4_close": r.PetrolC4Close,
		"petrol_c4_sales": r.PetrolC4Sales,
		"petrol_a1_open":  r.PetrolA1Open,
		"petrol_a1_close": r.PetrolA1Close,
		"petrol_a1_sales": r.PetrolA1Sales,
		"petrol_a2_open":  r.PetrolA2Open,
		"petrol_a2_close": r.PetrolA2Close,
		"petrol_a2_sales": r.PetrolA2Sales,

		"hsd_c1_open":  r.HSDC1Open,
		"hsd_c1_close": r.HSDC1Close,
		"hsd_c1_sales": r.HSDC1Sales,
		"hsd_c2_open":  r.HSDC2Open,
		"hsd_c2_close": r.HSDC2Close,
		"hsd_c2_sales": r.HSDC2Sales,
		"hsd_b1_open":  r.HSDB1Open,
		"hsd_b1_close": r.HSDB1Close,
		"hsd_b1_sales": r.HSDB1Sales,
		"hsd_b2_open":  r.HSDB2Open,
		"hsd_b2_close": r.HSDB2Close,
		"hsd_b2_sales": r.HSDB2Sales,

		"xp_b3_open":  r.XPB3Open,
		"xp_b3_close": r.XPB3Close,
		"xp_b3_sales": r.XPB3Sales,
		"xp_b4_open":  r.XPB4Open,
		"xp_b4_close": r.XPB4Close,
		"xp_b4_sales": r.XPB4Sales,

		"test_b1": r.TestB1,
		"test_b2": r.TestB2,
		"test_b3": r.TestB3,
		"test_b4": r.TestB4,

		"petrol_rate": r.PetrolRate,
		"hsd_rate":    r.HSDRate,
		"xp_rate":     r.XPRate,

		"petrol_amount": r.PetrolAmount,
		"hsd_amount":    r.HSDAmount,
		"xp_amount":     r.XPAmount,
		"oil_total":     r.OilTotal,

		"gross_sales_amount": r.GrossSalesAmount,
		"total_sales_amount": r.TotalSalesAmount,

		"paytm_amount":      r.PaytmAmount,
		"icici_amount":      r.ICICIAmount,
		"fleet_card_amount": r.FleetCardAmount,

		"pump_expenses":        r.PumpExpenses,
		"pump_expenses_remark": r.PumpExpensesRemark,

		"cash_in":        r.CashIn,
		"cash_out":       r.CashOut,
		"net_cash":       r.NetCash,
		"credit_balance": r.CreditBalance,
	}
}

// SalesInsert appends a sales record with its oil items in one transaction
// and returns the assigned identifier.
func (db *DB) SalesInsert(ctx context.Context, rec SalesRecord) (int64, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() // no-op after commit.

	result, err := tx.NamedExecContext(ctx, salesInsertSQL, rec.namedArgs())
	if err != nil {
		return 0, fmt.Errorf("sales insert error: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sales insert id error: %w", err)
	}

	for i, item := range rec.OilItems {
		args := map[string]any{
			"sales_id": id,
			"position": i + 1,
			"name":     item.Name,
			"amount":   item.Amount,
		}
		if _, err := tx.NamedExecContext(ctx, oilItemInsertSQL, args); err != nil {
			return 0, fmt.Errorf("oil item insert error for sales %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// SalesGet retrieves the sales records whose date falls within the
// inclusive range [from, to], in insertion order, with their oil items
// attached. An empty range yields an empty slice, not an error.
func (db *DB) SalesGet(ctx context.Context, from, to time.Time) ([]SalesRecord, error) {

	var records []SalesRecord
	err := db.SelectContext(ctx, &records, salesGetSQL, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("sales select error: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	// Attach the child oil items, if any.
	ids := make([]int64, len(records))
	byID := make(map[int64]*SalesRecord, len(records))
	for i := range records {
		ids[i] = records[i].ID
		byID[records[i].ID] = &records[i]
	}

	query, args, err := sqlx.In(oilItemsGetSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("oil items query build error: %w", err)
	}
	var items []OilItem
	if err := db.SelectContext(ctx, &items, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("oil items select error: %w", err)
	}
	for _, item := range items {
		rec := byID[item.SalesID]
		rec.OilItems = append(rec.OilItems, item)
	}
	return records, nil
}
