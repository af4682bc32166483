// Package export renders the four bookkeeping tables to tabular formats:
// per-table CSV files for download and a combined xlsx workbook used for
// backup and restore. Exports carry every stored column, so any written
// file reads back into the records it came from.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"pumpbook/db"
)

// SalesCSV writes the sales records, one row per record, with oil items
// flattened into the delimited parallel fields.
func SalesCSV(w io.Writer, records []db.SalesRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(salesRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSalesCSV reads back a file written by SalesCSV.
func ReadSalesCSV(r io.Reader) ([]db.SalesRecord, error) {
	rows, err := readCSV(r, salesHeader)
	if err != nil {
		return nil, err
	}
	var records []db.SalesRecord
	for i, row := range rows {
		rec, err := parseSalesRow(row)
		if err != nil {
			return nil, fmt.Errorf("sales row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// PartyCSV writes the party ledger entries.
func PartyCSV(w io.Writer, entries []db.PartyLedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(partyHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(partyRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPartyCSV reads back a file written by PartyCSV.
func ReadPartyCSV(r io.Reader) ([]db.PartyLedgerEntry, error) {
	rows, err := readCSV(r, partyHeader)
	if err != nil {
		return nil, err
	}
	var entries []db.PartyLedgerEntry
	for i, row := range rows {
		e, err := parsePartyRow(row)
		if err != nil {
			return nil, fmt.Errorf("party ledger row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ShortageCSV writes the employee shortage entries.
func ShortageCSV(w io.Writer, entries []db.EmployeeShortageEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(shortageHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(shortageRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadShortageCSV reads back a file written by ShortageCSV.
func ReadShortageCSV(r io.Reader) ([]db.EmployeeShortageEntry, error) {
	rows, err := readCSV(r, shortageHeader)
	if err != nil {
		return nil, err
	}
	var entries []db.EmployeeShortageEntry
	for i, row := range rows {
		e, err := parseShortageRow(row)
		if err != nil {
			return nil, fmt.Errorf("employee shortage row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// OwnerCSV writes the owner transaction entries.
func OwnerCSV(w io.Writer, entries []db.OwnerTransactionEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ownerHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(ownerRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadOwnerCSV reads back a file written by OwnerCSV.
func ReadOwnerCSV(r io.Reader) ([]db.OwnerTransactionEntry, error) {
	rows, err := readCSV(r, ownerHeader)
	if err != nil {
		return nil, err
	}
	var entries []db.OwnerTransactionEntry
	for i, row := range rows {
		e, err := parseOwnerRow(row)
		if err != nil {
			return nil, fmt.Errorf("owner transaction row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// readCSV reads all rows, checks the header matches the expected layout
// and returns the data rows.
func readCSV(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row length is checked by the parsers
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file, expected a %q header", header[0])
	}
	got := rows[0]
	if len(got) != len(header) {
		return nil, fmt.Errorf("header has %d columns, want %d", len(got), len(header))
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, got[i], header[i])
		}
	}
	return rows[1:], nil
}
