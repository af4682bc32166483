package db

// backup.go deals with whole-store snapshots. Backup and restore treat the
// four record tables as an atomic unit: a restore replaces all four
// together inside one transaction, never a subset.

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// restoreWithID widens an insert statement to include the explicit id
// column, so restored rows keep their original identifiers.
func restoreWithID(insertSQL, table string) string {
	s := strings.Replace(insertSQL, "INSERT INTO "+table+" (", "INSERT INTO "+table+" (id, ", 1)
	return strings.Replace(s, "VALUES (", "VALUES (:id, ", 1)
}

// The open-ended range used for whole-table loads. ISO calendar dates
// compare correctly as strings within these bounds.
var (
	allFrom = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	allTo   = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Snapshot holds the full contents of the four record tables.
type Snapshot struct {
	Sales     []SalesRecord
	Parties   []PartyLedgerEntry
	Shortages []EmployeeShortageEntry
	Owners    []OwnerTransactionEntry
}

// LoadSnapshot reads all four tables in insertion order.
func (db *DB) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Sales, err = db.SalesGet(ctx, allFrom, allTo); err != nil {
		return nil, fmt.Errorf("snapshot sales load error: %w", err)
	}
	if snap.Parties, err = db.PartyGet(ctx, allFrom, allTo); err != nil {
		return nil, fmt.Errorf("snapshot party ledger load error: %w", err)
	}
	if snap.Shortages, err = db.ShortageGet(ctx, allFrom, allTo); err != nil {
		return nil, fmt.Errorf("snapshot employee shortage load error: %w", err)
	}
	if snap.Owners, err = db.OwnerGet(ctx, allFrom, allTo); err != nil {
		return nil, fmt.Errorf("snapshot owner transaction load error: %w", err)
	}
	return &snap, nil
}

// RestoreSnapshot replaces the contents of all four tables with the
// snapshot in a single transaction. Identifiers are carried over from the
// snapshot so that later inserts continue from the restored maximum.
func (db *DB) RestoreSnapshot(ctx context.Context, snap *Snapshot) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after commit.

	for _, table := range Tables() {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("restore clear %s error: %w", table, err)
		}
	}

	for _, rec := range snap.Sales {
		args := rec.namedArgs()
		args["id"] = rec.ID
		if _, err := tx.NamedExecContext(ctx, restoreWithID(salesInsertSQL, "sales"), args); err != nil {
			return fmt.Errorf("restore sales %d error: %w", rec.ID, err)
		}
		for i, item := range rec.OilItems {
			itemArgs := map[string]any{
				"sales_id": rec.ID,
				"position": i + 1,
				"name":     item.Name,
				"amount":   item.Amount,
			}
			if _, err := tx.NamedExecContext(ctx, oilItemInsertSQL, itemArgs); err != nil {
				return fmt.Errorf("restore oil item for sales %d error: %w", rec.ID, err)
			}
		}
	}

	for _, entry := range snap.Parties {
		args := map[string]any{
			"id":            entry.ID,
			"date":          entry.Date.Format(dateFormat),
			"party_name":    entry.PartyName,
			"credit_amount": entry.CreditAmount,
			"debit_amount":  entry.DebitAmount,
			"remark":        entry.Remark,
		}
		if _, err := tx.NamedExecContext(ctx, restoreWithID(partyInsertSQL, "party_ledger"), args); err != nil {
			return fmt.Errorf("restore party ledger %d error: %w", entry.ID, err)
		}
	}

	for _, entry := range snap.Shortages {
		args := map[string]any{
			"id":              entry.ID,
			"date":            entry.Date.Format(dateFormat),
			"employee_name":   entry.EmployeeName,
			"shortage_amount": entry.ShortageAmount,
		}
		if _, err := tx.NamedExecContext(ctx, restoreWithID(shortageInsertSQL, "employee_shortage"), args); err != nil {
			return fmt.Errorf("restore employee shortage %d error: %w", entry.ID, err)
		}
	}

	for _, entry := range snap.Owners {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("restore owner transaction %d: %w", entry.ID, err)
		}
		args := map[string]any{
			"id":         entry.ID,
			"date":       entry.Date.Format(dateFormat),
			"owner_name": entry.OwnerName,
			"amount":     entry.Amount,
			"mode":       entry.Mode,
			"type":       entry.Type,
			"remark":     entry.Remark,
		}
		if _, err := tx.NamedExecContext(ctx, restoreWithID(ownerInsertSQL, "owners_transactions"), args); err != nil {
			return fmt.Errorf("restore owner transaction %d error: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("restore commit error: %w", err)
	}
	db.logger.Info("restored snapshot",
		"sales", len(snap.Sales),
		"parties", len(snap.Parties),
		"shortages", len(snap.Shortages),
		"owners", len(snap.Owners),
	)
	return nil
}
