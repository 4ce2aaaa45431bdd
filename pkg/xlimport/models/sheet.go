package models

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// Sheet is the parsed cell grid of one worksheet.
type Sheet struct {
	// Name is the sheet tab name, unique within the workbook.
	Name string `json:"name"`
	// Index is the 0-based position of the sheet in file order.
	Index int `json:"index"`
	// Rows holds the grid, row-major. Rows may have different lengths.
	Rows [][]Cell `json:"rows,omitempty"`
}

// NewSheet creates a sheet from a grid.
func NewSheet(name string, index int, rows [][]Cell) *Sheet {
	return &Sheet{Name: name, Index: index, Rows: rows}
}

// Height returns the number of rows.
func (s *Sheet) Height() int { return len(s.Rows) }

// Width returns the length of the longest row.
func (s *Sheet) Width() int {
	w := 0
	for _, row := range s.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Cell returns the cell at the 0-based position. Positions outside the
// grid are empty.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return EmptyCell()
	}
	return s.Rows[row][col]
}

// Set stores a cell, growing the grid as needed.
func (s *Sheet) Set(row, col int, c Cell) {
	for len(s.Rows) <= row {
		s.Rows = append(s.Rows, nil)
	}
	for len(s.Rows[row]) <= col {
		s.Rows[row] = append(s.Rows[row], EmptyCell())
	}
	s.Rows[row][col] = c
}

// HasPending reports whether any formula cell is still unresolved.
func (s *Sheet) HasPending() bool {
	for _, row := range s.Rows {
		for _, c := range row {
			if c.IsPending() {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() (*Sheet, error) {
	var dst Sheet
	if err := deepcopy.Copy(&dst, s); err != nil {
		return nil, fmt.Errorf("clone sheet %q: %w", s.Name, err)
	}
	return &dst, nil
}
