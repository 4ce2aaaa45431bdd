package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/xuri/excelize/v2"
)

// SplitSheet splits a reference like 'Sheet 1'!$A$1 into the unquoted sheet
// name and the remaining cell part. Sheet is empty when the reference is local.
func SplitSheet(ref string) (sheet, rest string) {
	ref = strings.TrimSpace(ref)
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", ref
	}
	sheet = ref[:idx]
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, ref[idx+1:]
}

// ParseCellRef parses a single-cell reference such as B2, $B$2 or Sheet1!B2.
// Row and column are 1-based.
func ParseCellRef(ref string) (sheet string, row, col int, err error) {
	sheet, cell := SplitSheet(ref)
	cell = strings.ReplaceAll(cell, "$", "")
	if strings.Contains(cell, ":") {
		return "", 0, 0, fmt.Errorf("%q is a range, not a cell", ref)
	}
	col, row, err = excelize.CellNameToCoordinates(cell)
	if err != nil {
		return "", 0, 0, err
	}
	return sheet, row, col, nil
}

// ParseRange parses a range reference: A1:C9, A:C, Sheet2!A1:C9 or
// 'My Sheet'!$A$2:$C$50. A single cell parses as a 1x1 range.
// Full-column ranges leave R2 at zero and set FullColumns.
func ParseRange(ref string) (models.CellRange, error) {
	sheet, rangeStr := SplitSheet(ref)

	// Remove $ signs
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	switch len(parts) {
	case 1:
		col, row, err := excelize.CellNameToCoordinates(parts[0])
		if err != nil {
			return models.CellRange{}, err
		}
		return models.CellRange{Sheet: sheet, R1: row, C1: col, R2: row, C2: col}, nil
	case 2:
	default:
		return models.CellRange{}, fmt.Errorf("invalid range %q", ref)
	}

	if isColumnName(parts[0]) && isColumnName(parts[1]) {
		c1, err := excelize.ColumnNameToNumber(parts[0])
		if err != nil {
			return models.CellRange{}, err
		}
		c2, err := excelize.ColumnNameToNumber(parts[1])
		if err != nil {
			return models.CellRange{}, err
		}
		if c1 > c2 {
			c1, c2 = c2, c1
		}
		return models.CellRange{Sheet: sheet, R1: 1, C1: c1, C2: c2, FullColumns: true}, nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.CellRange{}, err
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.CellRange{}, err
	}
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}

	return models.CellRange{Sheet: sheet, R1: startRow, C1: startCol, R2: endRow, C2: endCol}, nil
}

func isColumnName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
