package export

// xlsx.go writes and reads the combined backup workbook: one sheet per
// table, headers in row 1, one record per row. The workbook is the unit
// of backup and restore; a restore replaces all four tables from one
// file.

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"pumpbook/db"
)

// Workbook sheet names, one per table.
const (
	SheetSales    = "Sales"
	SheetParty    = "Party Ledger"
	SheetShortage = "Employee Shortage"
	SheetOwners   = "Owners Transactions"
)

// WriteBackup writes a snapshot of all four tables as an xlsx workbook.
func WriteBackup(w io.Writer, snap db.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	salesRows := make([][]string, len(snap.Sales))
	for i, r := range snap.Sales {
		salesRows[i] = salesRow(r)
	}
	partyRows := make([][]string, len(snap.Parties))
	for i, e := range snap.Parties {
		partyRows[i] = partyRow(e)
	}
	shortageRows := make([][]string, len(snap.Shortages))
	for i, e := range snap.Shortages {
		shortageRows[i] = shortageRow(e)
	}
	ownerRows := make([][]string, len(snap.Owners))
	for i, e := range snap.Owners {
		ownerRows[i] = ownerRow(e)
	}

	// The first sheet already exists under excelize's default name.
	if err := f.SetSheetName("Sheet1", SheetSales); err != nil {
		return err
	}
	if err := writeSheet(f, SheetSales, salesHeader, salesRows); err != nil {
		return err
	}
	for _, sheet := range []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{SheetParty, partyHeader, partyRows},
		{SheetShortage, shortageHeader, shortageRows},
		{SheetOwners, ownerHeader, ownerRows},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return err
		}
		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	writeRow := func(rowNo int, fields []string) error {
		for col, value := range fields {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNo)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeRow(1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// ReadBackup reads a workbook written by WriteBackup back into a
// snapshot. Any missing sheet or malformed row fails the whole read; a
// restore is all-or-nothing.
func ReadBackup(r io.Reader) (db.Snapshot, error) {
	var snap db.Snapshot

	f, err := excelize.OpenReader(r)
	if err != nil {
		return snap, fmt.Errorf("workbook open error: %w", err)
	}
	defer f.Close()

	salesRows, err := readSheet(f, SheetSales, salesHeader)
	if err != nil {
		return snap, err
	}
	for i, row := range salesRows {
		rec, err := parseSalesRow(row)
		if err != nil {
			return snap, fmt.Errorf("%s row %d: %w", SheetSales, i+1, err)
		}
		snap.Sales = append(snap.Sales, rec)
	}

	partyRows, err := readSheet(f, SheetParty, partyHeader)
	if err != nil {
		return snap, err
	}
	for i, row := range partyRows {
		e, err := parsePartyRow(row)
		if err != nil {
			return snap, fmt.Errorf("%s row %d: %w", SheetParty, i+1, err)
		}
		snap.Parties = append(snap.Parties, e)
	}

	shortageRows, err := readSheet(f, SheetShortage, shortageHeader)
	if err != nil {
		return snap, err
	}
	for i, row := range shortageRows {
		e, err := parseShortageRow(row)
		if err != nil {
			return snap, fmt.Errorf("%s row %d: %w", SheetShortage, i+1, err)
		}
		snap.Shortages = append(snap.Shortages, e)
	}

	ownerRows, err := readSheet(f, SheetOwners, ownerHeader)
	if err != nil {
		return snap, err
	}
	for i, row := range ownerRows {
		e, err := parseOwnerRow(row)
		if err != nil {
			return snap, fmt.Errorf("%s row %d: %w", SheetOwners, i+1, err)
		}
		snap.Owners = append(snap.Owners, e)
	}

	return snap, nil
}

// readSheet returns a sheet's data rows after checking its header row.
func readSheet(f *excelize.File, sheet string, header []string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q read error: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}
	got := rows[0]
	if len(got) != len(header) {
		return nil, fmt.Errorf("sheet %q header has %d columns, want %d", sheet, len(got), len(header))
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("sheet %q header column %d is %q, want %q", sheet, i+1, got[i], header[i])
		}
	}
	return rows[1:], nil
}
