// Package db provides the record store for the pump bookkeeping project.
//
// The backend is a single local SQLite file, the sole source of truth for
// the four record tables (sales, party ledger, employee shortages, owner
// transactions). Records are append-only: there is no update operation,
// corrections are made by offsetting entries or by deleting a date range
// and re-entering. Every write runs in a transaction so a failed operation
// leaves the file untouched, and the WAL journal prevents torn files on a
// crash mid-write.
//
// Dates are stored as ISO calendar dates with no time component.
// Identifiers are table-local positive integers assigned by SQLite's rowid
// allocation: 1 for an empty table, max+1 otherwise.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx" // helper library
	_ "modernc.org/sqlite"    // pure go sqlite driver
)

// dateFormat is the ISO calendar date layout used for all stored dates.
const dateFormat = "2006-01-02"

// Table identifies one of the four record tables.
type Table string

const (
	TableSales    Table = "sales"
	TableParty    Table = "party_ledger"
	TableShortage Table = "employee_shortage"
	TableOwners   Table = "owners_transactions"
)

// Tables returns the four record tables in their fixed order. Backup and
// restore treat this set as an atomic unit.
func Tables() []Table {
	return []Table{TableSales, TableParty, TableShortage, TableOwners}
}

// ErrUnknownTable reports a table name outside the fixed set.
type ErrUnknownTable struct {
	Name string
}

func (e ErrUnknownTable) Error() string {
	return fmt.Sprintf("unknown table %q", e.Name)
}

// ParseTable resolves a table name to a Table.
func ParseTable(name string) (Table, error) {
	for _, t := range Tables() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", ErrUnknownTable{Name: name}
}

// DB provides a wrapper around the sql.DB connection for application-specific
// db operations.
type DB struct {
	*sqlx.DB
	logger *log.Logger
}

// NewConnection creates a new connection to an SQLite database at the given
// path, creating the schema if it does not yet exist.
func NewConnection(dbPath string, logger *log.Logger) (*DB, error) {

	// dataSource is the default setting for file-based databases.
	dataSource := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)

	// for in-memory test databases, check the necessary cached setting is used.
	if strings.Contains(dbPath, ":memory:") || strings.Contains(dbPath, "mode=memory") {
		if !strings.Contains(dbPath, "cache=shared") {
			return nil, fmt.Errorf("in-memory connection %q should contain '?cache=shared'", dbPath)
		}
		dataSource = dbPath
	}
	dbDB, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, err
	}
	if err := dbDB.Ping(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	// Wrap the standard library *sql.DB with sqlx.
	db := &DB{
		DB:     sqlx.NewDb(dbDB, "sqlite"),
		logger: logger,
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema initialisation error: %w", err)
	}
	return db, nil
}

// InitSchema creates the necessary tables if they don't already exist and
// records the schema version. The schema can be run idempotently. A table
// that exists but is missing an expected column is dropped and recreated
// empty with a warning, leaving the other tables untouched.
func (db *DB) InitSchema() error {
	ctx := context.Background()

	if err := db.recoverMalformedTables(ctx); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}

	// Record the schema version on first initialisation.
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM schema_version"); err != nil {
		return fmt.Errorf("schema version read error: %w", err)
	}
	if count == 0 {
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("schema version write error: %w", err)
		}
		return nil
	}

	var version int
	if err := db.GetContext(ctx, &version, "SELECT version FROM schema_version LIMIT 1"); err != nil {
		return fmt.Errorf("schema version read error: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("database schema version %d does not match expected version %d", version, schemaVersion)
	}
	return nil
}

// insertColumns lists the columns an insert statement writes, read from
// the statement's column list.
func insertColumns(insertSQL string) []string {
	open := strings.Index(insertSQL, "(")
	end := strings.Index(insertSQL, ")")
	var cols []string
	for _, c := range strings.Split(insertSQL[open+1:end], ",") {
		cols = append(cols, strings.TrimSpace(c))
	}
	return cols
}

// recoverMalformedTables checks each record table that already exists for
// the columns its statements need. A malformed table is dropped, to be
// recreated empty by the schema script, with a warning; other tables are
// left alone. Dropping sales takes its oil item rows with it, so the
// child table is dropped alongside.
func (db *DB) recoverMalformedTables(ctx context.Context) error {

	tableInserts := []struct {
		name      string
		insertSQL string
	}{
		{"sales", salesInsertSQL},
		{"sales_oil_items", oilItemInsertSQL},
		{"party_ledger", partyInsertSQL},
		{"employee_shortage", shortageInsertSQL},
		{"owners_transactions", ownerInsertSQL},
	}

	drop := map[string]bool{}
	for _, ti := range tableInserts {
		var count int
		err := db.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", ti.name)
		if err != nil {
			return fmt.Errorf("table existence check for %s error: %w", ti.name, err)
		}
		if count == 0 {
			continue
		}

		var names []string
		if err := db.SelectContext(ctx, &names, "SELECT name FROM pragma_table_info(?)", ti.name); err != nil {
			return fmt.Errorf("table info for %s error: %w", ti.name, err)
		}
		have := map[string]bool{}
		for _, n := range names {
			have[n] = true
		}
		for _, col := range insertColumns(ti.insertSQL) {
			if !have[col] {
				db.logger.Warn("table is malformed; recreating empty",
					"table", ti.name, "missing_column", col)
				drop[ti.name] = true
				break
			}
		}
	}

	if drop["sales"] {
		drop["sales_oil_items"] = true
	}
	for _, ti := range tableInserts {
		if !drop[ti.name] {
			continue
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", ti.name)); err != nil {
			return fmt.Errorf("drop malformed table %s error: %w", ti.name, err)
		}
	}
	return nil
}

// DeleteDateRange deletes the rows of the named table whose date falls
// within the inclusive range [from, to], reporting the number of rows
// removed. Deleting from an empty range is not an error and removes
// nothing.
func (db *DB) DeleteDateRange(ctx context.Context, table Table, from, to time.Time) (int64, error) {
	if _, err := ParseTable(string(table)); err != nil {
		return 0, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE date BETWEEN ? AND ?", table)
	result, err := db.ExecContext(ctx, query, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return 0, fmt.Errorf("delete from %s error: %w", table, err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s rows affected error: %w", table, err)
	}
	db.logger.Info("deleted date range", "table", table, "from", from.Format(dateFormat), "to", to.Format(dateFormat), "removed", removed)
	return removed, nil
}

// Reset clears the named table to empty-with-schema. Child oil items are
// removed with their sales records by the cascading foreign key.
func (db *DB) Reset(ctx context.Context, table Table) error {
	if _, err := ParseTable(string(table)); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return fmt.Errorf("reset %s error: %w", table, err)
	}
	db.logger.Info("reset table", "table", table)
	return nil
}

// RowCount reports the number of rows in the named table.
func (db *DB) RowCount(ctx context.Context, table Table) (int, error) {
	if _, err := ParseTable(string(table)); err != nil {
		return 0, err
	}
	var count int
	if err := db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
		return 0, fmt.Errorf("row count for %s error: %w", table, err)
	}
	return count, nil
}
