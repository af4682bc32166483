// Package derive turns one day's raw pump entry into a fully derived sales
// record.
//
// The derivation is pure arithmetic with no I/O: per-nozzle sales are the
// difference between the closing and opening meter readings, fuel-group
// litres and revenue follow from the nozzle sales and the day's rates, and
// the cash figures net the tracked payment instruments and pump expenses
// against the computed revenue. All values are float64 throughout; any
// rounding to two decimal places happens at presentation time only, never
// before aggregation.
//
// The engine does not validate its input. A closing reading below its
// opening reading, as happens on meter rollovers and corrections, yields
// a negative sales figure which propagates unchanged into every
// downstream sum.
package derive

// NozzleReading is a pair of cumulative meter readings for a single
// dispensing nozzle.
type NozzleReading struct {
	Opening float64
	Closing float64
}

// Sales returns the litres dispensed between the two readings.
func (n NozzleReading) Sales() float64 {
	return n.Closing - n.Opening
}

// OilItem is a single oil-product line item sold alongside fuel, such as a
// can of two-stroke oil.
type OilItem struct {
	Name   string
	Amount float64
}

// Input is the raw data collected for one day's entry.
//
// The nozzle naming follows the pump layout: petrol is dispensed from C3,
// C4, A1 and A2; high-speed diesel from C1, C2, B1 and B2; XP premium fuel
// from B3 and B4. The TestB values record litres drawn for quality-control
// testing on the B-series nozzles; they are retained for the record but not
// deducted from sales.
type Input struct {
	PetrolC3 NozzleReading
	PetrolC4 NozzleReading
	PetrolA1 NozzleReading
	PetrolA2 NozzleReading

	HSDC1 NozzleReading
	HSDC2 NozzleReading
	HSDB1 NozzleReading
	HSDB2 NozzleReading

	XPB3 NozzleReading
	XPB4 NozzleReading

	TestB1 float64
	TestB2 float64
	TestB3 float64
	TestB4 float64

	// Rates are in currency per litre.
	PetrolRate float64
	HSDRate    float64
	XPRate     float64

	OilItems []OilItem

	// Payment instrument amounts.
	Paytm     float64
	ICICI     float64
	FleetCard float64

	PumpExpenses       float64
	PumpExpensesRemark string
}

// Record is the derived result for one day's entry. It carries the raw
// input alongside every computed figure so that a saved record is
// self-contained: aggregation reads the derived fields and never
// re-derives from the readings.
type Record struct {
	Input

	PetrolC3Sales float64
	PetrolC4Sales float64
	PetrolA1Sales float64
	PetrolA2Sales float64
	HSDC1Sales    float64
	HSDC2Sales    float64
	HSDB1Sales    float64
	HSDB2Sales    float64
	XPB3Sales     float64
	XPB4Sales     float64

	PetrolLiters float64
	HSDLiters    float64
	XPLiters     float64

	PetrolAmount float64
	HSDAmount    float64
	XPAmount     float64
	OilTotal     float64

	GrossSalesAmount float64
	TotalSalesAmount float64

	CashIn        float64
	CashOut       float64
	NetCash       float64
	CreditBalance float64
}

// Sales derives a Record from the day's raw Input. It is pure and
// deterministic: the same input always produces an identical record.
func Sales(in Input) Record {
	r := Record{Input: in}

	r.PetrolC3Sales = in.PetrolC3.Sales()
	r.PetrolC4Sales = in.PetrolC4.Sales()
	r.PetrolA1Sales = in.PetrolA1.Sales()
	r.PetrolA2Sales = in.PetrolA2.Sales()
	r.HSDC1Sales = in.HSDC1.Sales()
	r.HSDC2Sales = in.HSDC2.Sales()
	r.HSDB1Sales = in.HSDB1.Sales()
	r.HSDB2Sales = in.HSDB2.Sales()
	r.XPB3Sales = in.XPB3.Sales()
	r.XPB4Sales = in.XPB4.Sales()

	r.PetrolLiters = r.PetrolC3Sales + r.PetrolC4Sales + r.PetrolA1Sales + r.PetrolA2Sales
	r.HSDLiters = r.HSDC1Sales + r.HSDC2Sales + r.HSDB1Sales + r.HSDB2Sales
	r.XPLiters = r.XPB3Sales + r.XPB4Sales

	r.PetrolAmount = r.PetrolLiters * in.PetrolRate
	r.HSDAmount = r.HSDLiters * in.HSDRate
	r.XPAmount = r.XPLiters * in.XPRate

	for _, item := range in.OilItems {
		r.OilTotal += item.Amount
	}

	r.GrossSalesAmount = r.PetrolAmount + r.HSDAmount + r.XPAmount + r.OilTotal
	r.TotalSalesAmount = r.GrossSalesAmount - (in.Paytm + in.ICICI + in.FleetCard + in.PumpExpenses)

	r.CashIn = in.Paytm + in.ICICI + in.FleetCard
	r.CashOut = in.PumpExpenses
	r.NetCash = r.CashIn - r.CashOut
	r.CreditBalance = r.TotalSalesAmount - r.CashIn

	return r
}
