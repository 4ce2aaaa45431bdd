package xerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindFatal(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{FileNotFound, true},
		{FileAccessDenied, true},
		{InvalidFileFormat, true},
		{FileCorrupted, true},
		{SheetNotFound, true},
		{NoSheetsFound, true},
		{FormulaResolutionError, false},
		{TypeConversionError, false},
		{DuplicateKeyError, false},
		{MissingKeyField, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.kind.Fatal(); got != tt.want {
			t.Errorf("%q.Fatal() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestKindOfAndIs(t *testing.T) {
	err := fmt.Errorf("load: %w", NewSheetNotFound("book.xlsx", "Ghost", []string{"Sheet1", "Sheet2"}))

	if got := KindOf(err); got != SheetNotFound {
		t.Errorf("KindOf() = %q, want SheetNotFound", got)
	}
	if !errors.Is(err, ErrSheetNotFound) || errors.Is(err, ErrNoSheets) {
		t.Error("errors.Is must match only the sentinel of the error's kind")
	}
	want := `sheet "Ghost" not found (available: Sheet1, Sheet2): book.xlsx`
	if got := errors.Unwrap(err).Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := KindOf(NewCellError(DuplicateKeyError, "Row 3", errors.New("dup"))); got != "" {
		t.Errorf("KindOf(cell error) = %q, want empty", got)
	}
}
