package parser

import "github.com/ukaji3/xlimport-go/pkg/xlimport/models"

// FindDataBounds finds the bounding box of non-empty cells.
// Bounds are 0-based and inclusive; minRow is -1 for an empty sheet.
func FindDataBounds(s *models.Sheet) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range s.Rows {
		for colIdx, cell := range row {
			if !hasContent(cell) {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// DetectHeaderRow returns the 1-based number of the first row holding data,
// or 0 when the sheet is empty.
func DetectHeaderRow(s *models.Sheet) int {
	minRow, _, _, _ := FindDataBounds(s)
	return minRow + 1
}

// ClampRange fixes the end row of a full-column range to the sheet height.
func ClampRange(r models.CellRange, s *models.Sheet) models.CellRange {
	if !r.FullColumns {
		return r
	}
	_, maxRow, _, _ := FindDataBounds(s)
	r.R1 = 1
	r.R2 = maxRow + 1
	return r
}

// CountNonEmptyCells counts non-empty cells in a row.
func CountNonEmptyCells(row []models.Cell) int {
	count := 0
	for _, c := range row {
		if hasContent(c) {
			count++
		}
	}
	return count
}

func hasContent(c models.Cell) bool {
	return c.IsFormula() || !c.IsBlank()
}
