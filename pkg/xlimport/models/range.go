package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRange represents rectangular cell bounds on one sheet.
type CellRange struct {
	// Sheet is the owning sheet name. Empty means the sheet of the referencing cell.
	Sheet string `json:"sheet,omitempty"`
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
	// FullColumns is set for whole-column ranges such as A:C. R2 is then
	// clamped to the sheet height by the caller.
	FullColumns bool `json:"full_columns,omitempty"`
}

// Width returns the number of columns.
func (r CellRange) Width() int { return r.C2 - r.C1 + 1 }

// Height returns the number of rows.
func (r CellRange) Height() int { return r.R2 - r.R1 + 1 }

// Key returns a normalized identity for the range, used to share lookup
// indices between formulas that spell the same range differently.
func (r CellRange) Key() string {
	if r.FullColumns {
		return fmt.Sprintf("%s!C%d:C%d", strings.ToLower(r.Sheet), r.C1, r.C2)
	}
	return fmt.Sprintf("%s!R%dC%d:R%dC%d", strings.ToLower(r.Sheet), r.R1, r.C1, r.R2, r.C2)
}

// String renders r in A1 notation.
func (r CellRange) String() string {
	var b strings.Builder
	if r.Sheet != "" {
		b.WriteString(QuoteSheet(r.Sheet))
		b.WriteByte('!')
	}
	if r.FullColumns {
		c1, _ := excelize.ColumnNumberToName(r.C1)
		c2, _ := excelize.ColumnNumberToName(r.C2)
		b.WriteString(c1 + ":" + c2)
		return b.String()
	}
	start, _ := excelize.CoordinatesToCellName(r.C1, r.R1)
	end, _ := excelize.CoordinatesToCellName(r.C2, r.R2)
	b.WriteString(start)
	if start != end {
		b.WriteString(":" + end)
	}
	return b.String()
}

// QuoteSheet quotes a sheet name for use in a reference when needed.
func QuoteSheet(name string) string {
	if strings.ContainsAny(name, " '!-+()&,;") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

// CellName returns the A1 name of 0-based coordinates, e.g. (1, 2) -> "C2".
func CellName(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return name
}
