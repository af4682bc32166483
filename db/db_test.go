package db

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var testDBCounter atomic.Int64

// setupTestDB sets up a uniquely-named in-memory test database connection.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	testDB, err := NewConnection(dsn, log.Default())
	if err != nil {
		t.Fatalf("in-memory test database opening error: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Fatalf("unexpected db close error: %v", err)
		}
	})
	return testDB
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNewConnectionRejectsUncachedMemoryDB(t *testing.T) {
	_, err := NewConnection(":memory:", log.Default())
	if err == nil {
		t.Fatal("expected error for in-memory connection without cache=shared")
	}
}

func TestInitSchemaIdempotent(t *testing.T) {
	testDB := setupTestDB(t)
	// NewConnection has already initialised the schema; a second run must
	// succeed and leave the version untouched.
	if err := testDB.InitSchema(); err != nil {
		t.Fatalf("second schema initialisation error: %v", err)
	}
	var version int
	if err := testDB.Get(&version, "SELECT version FROM schema_version"); err != nil {
		t.Fatalf("schema version read error: %v", err)
	}
	if got, want := version, schemaVersion; got != want {
		t.Errorf("schema version got %d want %d", got, want)
	}
}

func TestParseTable(t *testing.T) {
	for _, table := range Tables() {
		got, err := ParseTable(string(table))
		if err != nil {
			t.Errorf("unexpected error for %q: %v", table, err)
		}
		if got != table {
			t.Errorf("got %q want %q", got, table)
		}
	}
	_, err := ParseTable("nonesuch")
	if err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestRowCount(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	count, err := testDB.RowCount(ctx, TableParty)
	if err != nil {
		t.Fatalf("row count error: %v", err)
	}
	if count != 0 {
		t.Errorf("empty table count got %d want 0", count)
	}

	_, err = testDB.PartyInsert(ctx, PartyLedgerEntry{
		Date: day(t, "2025-04-01"), PartyName: "Acme", CreditAmount: 100,
	})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	count, err = testDB.RowCount(ctx, TableParty)
	if err != nil {
		t.Fatalf("row count error: %v", err)
	}
	if count != 1 {
		t.Errorf("count got %d want 1", count)
	}
}
