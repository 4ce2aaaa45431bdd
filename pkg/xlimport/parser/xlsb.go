package parser

import (
	"fmt"
	"io"

	"github.com/TsubasaBE/go-xlsb/workbook"
	"github.com/TsubasaBE/go-xlsb/worksheet"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

// ExtractBinarySheets extracts the cell grid of every sheet of an .xlsb
// workbook. Binary workbooks only expose cached results, so formula cells
// arrive as their literal values.
func ExtractBinarySheets(r io.ReaderAt, size int64) ([]*models.Sheet, error) {
	wb, err := workbook.OpenReader(r, size)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	var sheets []*models.Sheet
	for idx, name := range wb.Sheets() {
		ws, err := wb.Sheet(idx + 1)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets = append(sheets, models.NewSheet(name, idx, binaryRows(ws)))
	}
	return sheets, nil
}

func binaryRows(ws *worksheet.Worksheet) [][]models.Cell {
	var grid [][]models.Cell
	for row := range ws.Rows(false) {
		cells := make([]models.Cell, len(row))
		last := -1
		for _, c := range row {
			if c.C < 0 || c.C >= len(cells) {
				continue
			}
			cells[c.C] = binaryCell(c.V)
			if cells[c.C].Kind != models.CellEmpty {
				last = c.C
			}
		}
		grid = append(grid, cells[:last+1])
	}
	// Trailing empty rows carry nothing.
	for len(grid) > 0 && len(grid[len(grid)-1]) == 0 {
		grid = grid[:len(grid)-1]
	}
	return grid
}

func binaryCell(v any) models.Cell {
	switch x := v.(type) {
	case string:
		if x == "" {
			return models.EmptyCell()
		}
		return models.TextCell(x)
	case float64:
		return models.NumberCell(x)
	case bool:
		return models.BoolCell(x)
	default:
		return models.EmptyCell()
	}
}
