package parser

import (
	"testing"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.CellRange
		wantErr bool
	}{
		{"local", "A1:C9", models.CellRange{R1: 1, C1: 1, R2: 9, C2: 3}, false},
		{"anchored", "Lookup!$A$2:$C$50", models.CellRange{Sheet: "Lookup", R1: 2, C1: 1, R2: 50, C2: 3}, false},
		{"quoted", "'My Sheet'!$A$2:$C$50", models.CellRange{Sheet: "My Sheet", R1: 2, C1: 1, R2: 50, C2: 3}, false},
		{"escaped quote", "'Bob''s'!A1:B2", models.CellRange{Sheet: "Bob's", R1: 1, C1: 1, R2: 2, C2: 2}, false},
		{"full columns", "Data!A:C", models.CellRange{Sheet: "Data", R1: 1, C1: 1, C2: 3, FullColumns: true}, false},
		{"reversed", "C9:A1", models.CellRange{R1: 1, C1: 1, R2: 9, C2: 3}, false},
		{"single cell", "B2", models.CellRange{R1: 2, C1: 2, R2: 2, C2: 2}, false},
		{"garbage", "A1:B2:C3", models.CellRange{}, true},
		{"bad cell", "1A:B2", models.CellRange{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRange(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		input     string
		sheet     string
		row, col  int
		expectErr bool
	}{
		{"B2", "", 2, 2, false},
		{"$C$10", "", 10, 3, false},
		{"Sheet2!A1", "Sheet2", 1, 1, false},
		{"'Other Sheet'!$D$4", "Other Sheet", 4, 4, false},
		{"A1:B2", "", 0, 0, true},
	}

	for _, tt := range tests {
		sheet, row, col, err := ParseCellRef(tt.input)
		if (err != nil) != tt.expectErr {
			t.Errorf("ParseCellRef(%q) error = %v", tt.input, err)
			continue
		}
		if sheet != tt.sheet || row != tt.row || col != tt.col {
			t.Errorf("ParseCellRef(%q) = %q,%d,%d, want %q,%d,%d", tt.input, sheet, row, col, tt.sheet, tt.row, tt.col)
		}
	}
}
