package export

// oilcodec.go encodes oil-product line items as a delimited pair of
// parallel text fields for flat tabular formats. This is the only place
// the delimiter encoding exists; storage and the web layer use the
// structured form throughout.

import (
	"fmt"
	"strconv"
	"strings"

	"pumpbook/db"
)

const oilDelimiter = "|"

// encodeOilItems flattens line items into parallel name and amount
// fields. Item names must not contain the delimiter; Validate enforces
// this at entry time.
func encodeOilItems(items []db.OilItem) (names, amounts string) {
	if len(items) == 0 {
		return "", ""
	}
	ns := make([]string, len(items))
	as := make([]string, len(items))
	for i, item := range items {
		ns[i] = item.Name
		as[i] = formatFloat(item.Amount)
	}
	return strings.Join(ns, oilDelimiter), strings.Join(as, oilDelimiter)
}

// decodeOilItems rebuilds line items from the parallel fields, assigning
// positions in order. Both fields empty means no items.
func decodeOilItems(names, amounts string) ([]db.OilItem, error) {
	if names == "" && amounts == "" {
		return nil, nil
	}
	ns := strings.Split(names, oilDelimiter)
	as := strings.Split(amounts, oilDelimiter)
	if len(ns) != len(as) {
		return nil, fmt.Errorf("oil item name/amount field length mismatch: %d names, %d amounts", len(ns), len(as))
	}
	items := make([]db.OilItem, len(ns))
	for i := range ns {
		amount, err := strconv.ParseFloat(as[i], 64)
		if err != nil {
			return nil, fmt.Errorf("oil item amount %q: %w", as[i], err)
		}
		items[i] = db.OilItem{Position: i + 1, Name: ns[i], Amount: amount}
	}
	return items, nil
}
