package parser

import (
	"path/filepath"
	"testing"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/xuri/excelize/v2"
)

func TestExtractCells(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")
	f.SetCellValue(sheetName, "B3", true)
	f.SetCellFormula(sheetName, "C3", "VLOOKUP(A3,Lookup!A:B,2,FALSE)")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	rows, err := ExtractCells(f2, sheetName)
	if err != nil {
		t.Fatalf("ExtractCells failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if got := rows[0][0]; got.Kind != models.CellText || got.Value.Str != "Header1" {
		t.Errorf("Expected text 'Header1', got %+v", got)
	}
	if got := rows[1][0]; got.Kind != models.CellNumber || got.Value.Num != 100 {
		t.Errorf("Expected number 100, got %+v", got)
	}
	if got := rows[1][1]; got.Value.Num != 200.5 {
		t.Errorf("Expected 200.5, got %+v", got)
	}
	if got := rows[2][1]; got.Kind != models.CellBool || !got.Value.Bool {
		t.Errorf("Expected bool true, got %+v", got)
	}
	if len(rows[2]) < 3 {
		t.Fatalf("Expected the formula cell to be kept, row = %+v", rows[2])
	}
	formula := rows[2][2]
	if !formula.IsPending() || formula.Expr != "VLOOKUP(A3,Lookup!A:B,2,FALSE)" {
		t.Errorf("Expected pending formula, got %+v", formula)
	}
}

func TestExtractSheetsOrder(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.NewSheet("Second")
	f.NewSheet("Third")
	f.SetCellValue("Third", "B2", "x")

	sheets, err := ExtractSheets(f)
	if err != nil {
		t.Fatalf("ExtractSheets failed: %v", err)
	}
	if len(sheets) != 3 {
		t.Fatalf("Expected 3 sheets, got %d", len(sheets))
	}
	for i, want := range []string{"Sheet1", "Second", "Third"} {
		if sheets[i].Name != want || sheets[i].Index != i {
			t.Errorf("sheet %d = %q/%d, want %q/%d", i, sheets[i].Name, sheets[i].Index, want, i)
		}
	}
	if got := sheets[2].Cell(1, 1); got.Value.Str != "x" {
		t.Errorf("Third!B2 = %+v", got)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Value
	}{
		{"123", models.Number(123)},
		{"123.45", models.Number(123.45)},
		{"-100", models.Number(-100)},
		{"hello", models.Text("hello")},
		{"NaN", models.Text("NaN")},
		{"", models.Text("")},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %+v, expected %+v", tt.input, result, tt.expected)
		}
	}
}

func TestTypedValue(t *testing.T) {
	tests := []struct {
		raw      string
		cellType excelize.CellType
		expected models.Value
	}{
		{"1", excelize.CellTypeBool, models.Boolean(true)},
		{"0", excelize.CellTypeBool, models.Boolean(false)},
		{"007", excelize.CellTypeSharedString, models.Text("007")},
		{"#N/A", excelize.CellTypeError, models.Text("#N/A")},
		{"42", excelize.CellTypeUnset, models.Number(42)},
		{"42", excelize.CellTypeFormula, models.Text("42")},
	}

	for _, tt := range tests {
		if got := typedValue(tt.raw, tt.cellType); got != tt.expected {
			t.Errorf("typedValue(%q, %v) = %+v, expected %+v", tt.raw, tt.cellType, got, tt.expected)
		}
	}
}
