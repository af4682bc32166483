package web

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"pumpbook/derive"
)

// ------------------------------------------------------------------------------
// Helpers
// ------------------------------------------------------------------------------

// Validator holds a map of validation errors, keyed by the form field name.
type Validator struct {
	Errors map[string]string
}

// NewValidator creates a new, initialized Validator.
func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map is empty.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message to the map for a given field if one
// doesn't already exist for that field.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check is a helper for conditional validation. If `ok` is false, it
// calls AddError with the provided key and message.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// FieldError is a helper to check if the specified field has triggered
// an error.
func (v *Validator) FieldError(field string) bool {
	_, ok := v.Errors[field]
	return ok
}

// ------------------------------------------------------------------------------
// URL parameter parsing, using gorilla mux.Vars
// ------------------------------------------------------------------------------

// validMuxVars checks that the required keys are in the url route variable
// parameters, such as the `table` in
//
//	"/download/{table:[a-z_]+}"
func validMuxVars(vars map[string]string, keys ...string) (map[string]string, error) {
	for _, key := range keys {
		if _, ok := vars[key]; !ok {
			return nil, fmt.Errorf("parameter %q missing", key)
		}
	}
	return vars, nil
}

// ------------------------------------------------------------------------------
// Forms
// ------------------------------------------------------------------------------

// DateRangeForm represents the URL query parameter date filters used by
// the dashboard, listing and download pages.
type DateRangeForm struct {
	DateFrom time.Time `schema:"date-from"`
	DateTo   time.Time `schema:"date-to"`
	Page     int       `schema:"page"`
}

// defaultDateToAndFrom sets the default dateFrom and dateTo dates to the
// current financial year (April to March).
func defaultDateToAndFrom() (time.Time, time.Time) {
	now := time.Now().UTC()
	year := now.Year()
	if now.Month() < time.April {
		year--
	}

	df := time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	dt := time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	return df, dt
}

// NewDateRangeForm creates a DateRangeForm with defaults.
func NewDateRangeForm() *DateRangeForm {
	dateFrom, dateTo := defaultDateToAndFrom()
	return &DateRangeForm{
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Page:     1, // 1-based pagination.
	}
}

// Validate checks DateRangeForm fields and populates Validator with any
// errors. Note that the `Check` is like an assertion of truth, if that
// fails, the provided message is recorded against the field.
func (f *DateRangeForm) Validate(v *Validator) {
	v.Check(!f.DateFrom.IsZero(), "date-from", "From date must be provided.")
	v.Check(!f.DateTo.IsZero(), "date-to", "To date must be provided.")
	v.Check(!f.DateTo.Before(f.DateFrom), "date-to", "End date cannot be before the start date.")

	if f.Page < 1 {
		f.Page = 1
	}
}

// Offset calculates the database offset for (1-based) pagination.
func (f *DateRangeForm) Offset() int {
	return (f.Page - 1) * pageLen
}

// SalesEntryForm carries one day's raw meter readings, rates, payment
// figures and oil line items as posted from the daily entry form. All
// derived figures are computed from it at save time.
type SalesEntryForm struct {
	Date time.Time `schema:"date"`

	PetrolC3Open  float64 `schema:"petrol-c3-open"`
	PetrolC3Close float64 `schema:"petrol-c3-close"`
	PetrolC4Open  float64 `schema:"petrol-c4-open"`
	PetrolC4Close float64 `schema:"petrol-c4-close"`
	PetrolA1Open  float64 `schema:"petrol-a1-open"`
	PetrolA1Close float64 `schema:"petrol-a1-close"`
	PetrolA2Open  float64 `schema:"petrol-a2-open"`
	PetrolA2Close float64 `schema:"petrol-a2-close"`

	HSDC1Open  float64 `schema:"hsd-c1-open"`
	HSDC1Close float64 `schema:"hsd-c1-close"`
	HSDC2Open  float64 `schema:"hsd-c2-open"`
	HSDC2Close float64 `schema:"hsd-c2-close"`
	HSDB1Open  float64 `schema:"hsd-b1-open"`
	HSDB1Close float64 `schema:"hsd-b1-close"`
	HSDB2Open  float64 `schema:"hsd-b2-open"`
	HSDB2Close float64 `schema:"hsd-b2-close"`

	XPB3Open  float64 `schema:"xp-b3-open"`
	XPB3Close float64 `schema:"xp-b3-close"`
	XPB4Open  float64 `schema:"xp-b4-open"`
	XPB4Close float64 `schema:"xp-b4-close"`

	TestB1 float64 `schema:"test-b1"`
	TestB2 float64 `schema:"test-b2"`
	TestB3 float64 `schema:"test-b3"`
	TestB4 float64 `schema:"test-b4"`

	PetrolRate float64 `schema:"petrol-rate"`
	HSDRate    float64 `schema:"hsd-rate"`
	XPRate     float64 `schema:"xp-rate"`

	OilNames   []string  `schema:"oil-name"`
	OilAmounts []float64 `schema:"oil-amount"`

	Paytm     float64 `schema:"paytm"`
	ICICI     float64 `schema:"icici"`
	FleetCard float64 `schema:"fleet-card"`

	PumpExpenses       float64 `schema:"pump-expenses"`
	PumpExpensesRemark string  `schema:"pump-expenses-remark"`
}

// readings lists the meter reading fields for bulk validation.
func (f *SalesEntryForm) readings() map[string]float64 {
	return map[string]float64{
		"petrol-c3-open": f.PetrolC3Open, "petrol-c3-close": f.PetrolC3Close,
		"petrol-c4-open": f.PetrolC4Open, "petrol-c4-close": f.PetrolC4Close,
		"petrol-a1-open": f.PetrolA1Open, "petrol-a1-close": f.PetrolA1Close,
		"petrol-a2-open": f.PetrolA2Open, "petrol-a2-close": f.PetrolA2Close,
		"hsd-c1-open": f.HSDC1Open, "hsd-c1-close": f.HSDC1Close,
		"hsd-c2-open": f.HSDC2Open, "hsd-c2-close": f.HSDC2Close,
		"hsd-b1-open": f.HSDB1Open, "hsd-b1-close": f.HSDB1Close,
		"hsd-b2-open": f.HSDB2Open, "hsd-b2-close": f.HSDB2Close,
		"xp-b3-open": f.XPB3Open, "xp-b3-close": f.XPB3Close,
		"xp-b4-open": f.XPB4Open, "xp-b4-close": f.XPB4Close,
		"test-b1": f.TestB1, "test-b2": f.TestB2,
		"test-b3": f.TestB3, "test-b4": f.TestB4,
	}
}

// Validate checks SalesEntryForm fields. Closing readings may fall below
// opening readings (meter rollovers and corrections occur in practice)
// so no ordering is enforced between the two.
func (f *SalesEntryForm) Validate(v *Validator, minDate time.Time) {
	v.Check(!f.Date.IsZero(), "date", "A valid entry date must be provided.")
	v.Check(f.Date.IsZero() || !f.Date.Before(minDate),
		"date", fmt.Sprintf("Entries before %s are not accepted.", minDate.Format("2006-01-02")))

	for field, value := range f.readings() {
		v.Check(value >= 0, field, "Meter readings cannot be negative.")
	}

	v.Check(f.PetrolRate > 0, "petrol-rate", "Petrol rate must be greater than zero.")
	v.Check(f.HSDRate > 0, "hsd-rate", "HSD rate must be greater than zero.")
	v.Check(f.XPRate > 0, "xp-rate", "XP rate must be greater than zero.")

	v.Check(len(f.OilNames) == len(f.OilAmounts), "oil-name", "Oil item names and amounts must pair up.")
	if len(f.OilNames) == len(f.OilAmounts) {
		for i, name := range f.OilNames {
			v.Check(strings.TrimSpace(name) != "", "oil-name", "Oil item names cannot be empty.")
			v.Check(!strings.Contains(name, "|"), "oil-name", "Oil item names cannot contain '|'.")
			v.Check(f.OilAmounts[i] >= 0, "oil-amount", "Oil item amounts cannot be negative.")
		}
	}

	v.Check(f.Paytm >= 0, "paytm", "Payment amounts cannot be negative.")
	v.Check(f.ICICI >= 0, "icici", "Payment amounts cannot be negative.")
	v.Check(f.FleetCard >= 0, "fleet-card", "Payment amounts cannot be negative.")
	v.Check(f.PumpExpenses >= 0, "pump-expenses", "Expenses cannot be negative.")
}

// DeriveInput maps the form onto the derivation engine's input.
func (f *SalesEntryForm) DeriveInput() derive.Input {
	in := derive.Input{
		PetrolC3: derive.NozzleReading{Opening: f.PetrolC3Open, Closing: f.PetrolC3Close},
		PetrolC4: derive.NozzleReading{Opening: f.PetrolC4Open, Closing: f.PetrolC4Close},
		PetrolA1: derive.NozzleReading{Opening: f.PetrolA1Open, Closing: f.PetrolA1Close},
		PetrolA2: derive.NozzleReading{Opening: f.PetrolA2Open, Closing: f.PetrolA2Close},

		HSDC1: derive.NozzleReading{Opening: f.HSDC1Open, Closing: f.HSDC1Close},
		HSDC2: derive.NozzleReading{Opening: f.HSDC2Open, Closing: f.HSDC2Close},
		HSDB1: derive.NozzleReading{Opening: f.HSDB1Open, Closing: f.HSDB1Close},
		HSDB2: derive.NozzleReading{Opening: f.HSDB2Open, Closing: f.HSDB2Close},

		XPB3: derive.NozzleReading{Opening: f.XPB3Open, Closing: f.XPB3Close},
		XPB4: derive.NozzleReading{Opening: f.XPB4Open, Closing: f.XPB4Close},

		TestB1: f.TestB1,
		TestB2: f.TestB2,
		TestB3: f.TestB3,
		TestB4: f.TestB4,

		PetrolRate: f.PetrolRate,
		HSDRate:    f.HSDRate,
		XPRate:     f.XPRate,

		Paytm:     f.Paytm,
		ICICI:     f.ICICI,
		FleetCard: f.FleetCard,

		PumpExpenses:       f.PumpExpenses,
		PumpExpensesRemark: f.PumpExpensesRemark,
	}
	for i := range f.OilNames {
		in.OilItems = append(in.OilItems, derive.OilItem{
			Name:   strings.TrimSpace(f.OilNames[i]),
			Amount: f.OilAmounts[i],
		})
	}
	return in
}

// PartyEntryForm carries one party ledger transaction.
type PartyEntryForm struct {
	Date         time.Time `schema:"date"`
	PartyName    string    `schema:"party-name"`
	CreditAmount float64   `schema:"credit-amount"`
	DebitAmount  float64   `schema:"debit-amount"`
	Remark       string    `schema:"remark"`
}

// Validate checks PartyEntryForm fields.
func (f *PartyEntryForm) Validate(v *Validator, minDate time.Time) {
	v.Check(!f.Date.IsZero(), "date", "A valid entry date must be provided.")
	v.Check(f.Date.IsZero() || !f.Date.Before(minDate),
		"date", fmt.Sprintf("Entries before %s are not accepted.", minDate.Format("2006-01-02")))
	v.Check(strings.TrimSpace(f.PartyName) != "", "party-name", "A party name must be provided.")
	v.Check(f.CreditAmount >= 0, "credit-amount", "Amounts cannot be negative.")
	v.Check(f.DebitAmount >= 0, "debit-amount", "Amounts cannot be negative.")
	v.Check(f.CreditAmount > 0 || f.DebitAmount > 0, "credit-amount", "A credit or debit amount must be provided.")
}

// ShortageEntryForm carries one employee shortage record.
type ShortageEntryForm struct {
	Date           time.Time `schema:"date"`
	EmployeeName   string    `schema:"employee-name"`
	ShortageAmount float64   `schema:"shortage-amount"`
}

// Validate checks ShortageEntryForm fields.
func (f *ShortageEntryForm) Validate(v *Validator, minDate time.Time) {
	v.Check(!f.Date.IsZero(), "date", "A valid entry date must be provided.")
	v.Check(f.Date.IsZero() || !f.Date.Before(minDate),
		"date", fmt.Sprintf("Entries before %s are not accepted.", minDate.Format("2006-01-02")))
	v.Check(strings.TrimSpace(f.EmployeeName) != "", "employee-name", "An employee name must be provided.")
	v.Check(f.ShortageAmount > 0, "shortage-amount", "Shortage amount must be greater than zero.")
}

// OwnerEntryForm carries one owner transaction.
type OwnerEntryForm struct {
	Date      time.Time `schema:"date"`
	OwnerName string    `schema:"owner-name"`
	Amount    float64   `schema:"amount"`
	Mode      string    `schema:"mode"`
	Type      string    `schema:"type"`
	Remark    string    `schema:"remark"`
}

// Validate checks OwnerEntryForm fields. Mode and type enumerations are
// checked again at the storage layer.
func (f *OwnerEntryForm) Validate(v *Validator, minDate time.Time) {
	v.Check(!f.Date.IsZero(), "date", "A valid entry date must be provided.")
	v.Check(f.Date.IsZero() || !f.Date.Before(minDate),
		"date", fmt.Sprintf("Entries before %s are not accepted.", minDate.Format("2006-01-02")))
	v.Check(strings.TrimSpace(f.OwnerName) != "", "owner-name", "An owner name must be provided.")
	v.Check(f.Amount > 0, "amount", "Amount must be greater than zero.")

	allowedModes := map[string]bool{"Online": true, "Cheque": true, "Cash": true}
	v.Check(allowedModes[f.Mode], "mode", "Invalid mode value provided.")
	allowedTypes := map[string]bool{"Credit": true, "Debit": true}
	v.Check(allowedTypes[f.Type], "type", "Invalid type value provided.")
}

// DeleteRangeForm carries a row-deletion request for one table over an
// inclusive date range.
type DeleteRangeForm struct {
	Table    string    `schema:"table"`
	DateFrom time.Time `schema:"date-from"`
	DateTo   time.Time `schema:"date-to"`
}

// Validate checks DeleteRangeForm fields. The table name is parsed again
// by the storage layer.
func (f *DeleteRangeForm) Validate(v *Validator) {
	v.Check(f.Table != "", "table", "A table must be selected.")
	v.Check(!f.DateFrom.IsZero(), "date-from", "From date must be provided.")
	v.Check(!f.DateTo.IsZero(), "date-to", "To date must be provided.")
	v.Check(!f.DateTo.Before(f.DateFrom), "date-to", "End date cannot be before the start date.")
}

// LoginForm carries the login credentials.
type LoginForm struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
}

// Validate checks LoginForm fields.
func (f *LoginForm) Validate(v *Validator) {
	v.Check(f.Username != "", "username", "A username must be provided.")
	v.Check(f.Password != "", "password", "A password must be provided.")
}

// ------------------------------------------------------------------------------
// General decoding funcs
// ------------------------------------------------------------------------------

// newSchemaDecoder creates a new schema.Decoder instance and registers
// a custom converter for the time.Time type.
func newSchemaDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.ZeroEmpty(true) // empty inputs decode to zero values

	decoder.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		t, err := time.Parse("2006-01-02", value) // other patterns can be tried here.
		if err != nil {
			return reflect.ValueOf(time.Time{})
		}
		return reflect.ValueOf(t)
	})

	return decoder
}

// DecodeURLParams is a helper that decodes URL query parameters from a
// request into a destination struct (dst).
func DecodeURLParams(r *http.Request, dst any) error {
	decoder := newSchemaDecoder()
	if err := decoder.Decode(dst, r.URL.Query()); err != nil {
		return fmt.Errorf("url parameter decoding error: %v", err)
	}
	return nil
}

// DecodePostForm is a helper that parses and decodes POST form values
// from a request into a destination struct (dst).
func DecodePostForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("form parsing error: %v", err)
	}
	return decodeValues(r.PostForm, dst)
}

// decodeValues decodes url.Values into a destination struct (dst).
func decodeValues(values url.Values, dst any) error {
	decoder := newSchemaDecoder()
	if err := decoder.Decode(dst, values); err != nil {
		return fmt.Errorf("form decoding error: %v", err)
	}
	return nil
}
