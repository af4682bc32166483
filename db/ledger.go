package db

// ledger.go deals with the party ledger, employee shortage and owner
// transaction tables. Names are free text and act as natural keys for
// aggregation by exact string match; no case or whitespace normalisation
// is applied.

import (
	"context"
	"fmt"
	"time"
)

// Mode of an owner transaction.
const (
	ModeOnline = "Online"
	ModeCheque = "Cheque"
	ModeCash   = "Cash"
)

// Type of an owner transaction.
const (
	TypeCredit = "Credit"
	TypeDebit  = "Debit"
)

// OwnerModes lists the permitted owner transaction modes.
func OwnerModes() []string { return []string{ModeOnline, ModeCheque, ModeCash} }

// OwnerTypes lists the permitted owner transaction types.
func OwnerTypes() []string { return []string{TypeCredit, TypeDebit} }

// PartyLedgerEntry is one credit/debit transaction against a party (an
// external customer or vendor). A party's net balance is recomputed on
// every query, never stored.
type PartyLedgerEntry struct {
	ID           int64     `db:"id"`
	Date         time.Time `db:"date"`
	PartyName    string    `db:"party_name"`
	CreditAmount float64   `db:"credit_amount"`
	DebitAmount  float64   `db:"debit_amount"`
	Remark       string    `db:"remark"`
}

// EmployeeShortageEntry records cash an employee failed to reconcile;
// always a net deduction.
type EmployeeShortageEntry struct {
	ID             int64     `db:"id"`
	Date           time.Time `db:"date"`
	EmployeeName   string    `db:"employee_name"`
	ShortageAmount float64   `db:"shortage_amount"`
}

// OwnerTransactionEntry is a cash movement between the business and one of
// its owners (a drawing or a contribution).
type OwnerTransactionEntry struct {
	ID        int64     `db:"id"`
	Date      time.Time `db:"date"`
	OwnerName string    `db:"owner_name"`
	Amount    float64   `db:"amount"`
	Mode      string    `db:"mode"`
	Type      string    `db:"type"`
	Remark    string    `db:"remark"`
}

// Validate checks the mode and type enumerations.
func (o OwnerTransactionEntry) Validate() error {
	switch o.Mode {
	case ModeOnline, ModeCheque, ModeCash:
	default:
		return fmt.Errorf("owner transaction mode must be one of Online, Cheque or Cash, got %q", o.Mode)
	}
	switch o.Type {
	case TypeCredit, TypeDebit:
	default:
		return fmt.Errorf("owner transaction type must be Credit or Debit, got %q", o.Type)
	}
	return nil
}

// PartyInsert appends a party ledger entry and returns the assigned
// identifier.
func (db *DB) PartyInsert(ctx context.Context, entry PartyLedgerEntry) (int64, error) {
	args := map[string]any{
		"date":          entry.Date.Format(dateFormat),
		"party_name":    entry.PartyName,
		"credit_amount": entry.CreditAmount,
		"debit_amount":  entry.DebitAmount,
		"remark":        entry.Remark,
	}
	result, err := db.NamedExecContext(ctx, partyInsertSQL, args)
	if err != nil {
		return 0, fmt.Errorf("party ledger insert error: %w", err)
	}
	return result.LastInsertId()
}

// PartyGet retrieves the party ledger entries whose date falls within the
// inclusive range [from, to], in insertion order.
func (db *DB) PartyGet(ctx context.Context, from, to time.Time) ([]PartyLedgerEntry, error) {
	var entries []PartyLedgerEntry
	err := db.SelectContext(ctx, &entries, partyGetSQL, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("party ledger select error: %w", err)
	}
	return entries, nil
}

// ShortageInsert appends an employee shortage entry and returns the
// assigned identifier.
func (db *DB) ShortageInsert(ctx context.Context, entry EmployeeShortageEntry) (int64, error) {
	args := map[string]any{
		"date":            entry.Date.Format(dateFormat),
		"employee_name":   entry.EmployeeName,
		"shortage_amount": entry.ShortageAmount,
	}
	result, err := db.NamedExecContext(ctx, shortageInsertSQL, args)
	if err != nil {
		return 0, fmt.Errorf("employee shortage insert error: %w", err)
	}
	return result.LastInsertId()
}

// ShortageGet retrieves the employee shortage entries whose date falls
// within the inclusive range [from, to], in insertion order.
func (db *DB) ShortageGet(ctx context.Context, from, to time.Time) ([]EmployeeShortageEntry, error) {
	var entries []EmployeeShortageEntry
	err := db.SelectContext(ctx, &entries, shortageGetSQL, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("employee shortage select error: %w", err)
	}
	return entries, nil
}

// OwnerInsert appends an owner transaction entry and returns the assigned
// identifier.
func (db *DB) OwnerInsert(ctx context.Context, entry OwnerTransactionEntry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, err
	}
	args := map[string]any{
		"date":       entry.Date.Format(dateFormat),
		"owner_name": entry.OwnerName,
		"amount":     entry.Amount,
		"mode":       entry.Mode,
		"type":       entry.Type,
		"remark":     entry.Remark,
	}
	result, err := db.NamedExecContext(ctx, ownerInsertSQL, args)
	if err != nil {
		return 0, fmt.Errorf("owner transaction insert error: %w", err)
	}
	return result.LastInsertId()
}

// OwnerGet retrieves the owner transaction entries whose date falls within
// the inclusive range [from, to], in insertion order.
func (db *DB) OwnerGet(ctx context.Context, from, to time.Time) ([]OwnerTransactionEntry, error) {
	var entries []OwnerTransactionEntry
	err := db.SelectContext(ctx, &entries, ownerGetSQL, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("owner transaction select error: %w", err)
	}
	return entries, nil
}
