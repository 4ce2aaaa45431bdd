// Package parser reads workbook containers into cell grids.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/xuri/excelize/v2"
)

// ExtractSheets extracts the cell grid of every sheet in file order.
func ExtractSheets(f *excelize.File) ([]*models.Sheet, error) {
	var sheets []*models.Sheet
	for idx, name := range f.GetSheetList() {
		rows, err := ExtractCells(f, name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets = append(sheets, models.NewSheet(name, idx, rows))
	}
	return sheets, nil
}

// ExtractCells extracts the cell grid of a sheet.
// Row and column positions in the result are 0-based.
func ExtractCells(f *excelize.File, sheetName string) ([][]models.Cell, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	grid := make([][]models.Cell, len(rows))
	for rowIdx, row := range rows {
		cells := make([]models.Cell, len(row))
		for colIdx, raw := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			formula, err := f.GetCellFormula(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			if formula == "" && raw == "" {
				continue
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			if formula != "" {
				cached := models.Null()
				if raw != "" {
					cached = typedValue(raw, cellType)
				}
				cells[colIdx] = models.FormulaCell(formula, cached)
				continue
			}
			cells[colIdx] = models.ValueCell(typedValue(raw, cellType))
		}
		grid[rowIdx] = cells
	}

	return grid, nil
}

// typedValue converts a raw cell string according to the stored cell type.
func typedValue(raw string, cellType excelize.CellType) models.Value {
	switch cellType {
	case excelize.CellTypeBool:
		switch strings.ToUpper(raw) {
		case "1", "TRUE":
			return models.Boolean(true)
		case "0", "FALSE":
			return models.Boolean(false)
		}
		return models.Text(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError, excelize.CellTypeDate:
		return models.Text(raw)
	default:
		return parseValue(raw)
	}
}

// parseValue attempts to parse a string value as a number.
// Returns a Number for integers and decimals, or Text otherwise.
func parseValue(s string) models.Value {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.Number(float64(i))
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return models.Number(f)
	}
	return models.Text(s)
}
