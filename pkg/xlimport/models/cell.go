// Package models defines data structures for workbook import.
package models

// CellKind tags the variant held by a Cell.
type CellKind uint8

const (
	// CellEmpty is a cell with no content.
	CellEmpty CellKind = iota
	// CellText holds a string literal.
	CellText
	// CellNumber holds a numeric literal.
	CellNumber
	// CellBool holds a boolean literal.
	CellBool
	// CellFormula holds a formula expression and its resolution state.
	CellFormula
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	case CellFormula:
		return "formula"
	default:
		return "empty"
	}
}

// FormulaState tracks resolution of a formula cell.
type FormulaState uint8

const (
	// Pending means Value still holds whatever cached result the file carried.
	Pending FormulaState = iota
	// Resolved means Value holds the resolved display value.
	Resolved
	// Unresolved means resolution failed and Value is null.
	Unresolved
)

// Cell is one grid cell.
type Cell struct {
	// Kind selects the variant.
	Kind CellKind `json:"kind"`
	// Value is the literal for Text/Number/Bool cells and the cached display
	// value for Formula cells.
	Value Value `json:"value"`
	// Expr is the raw formula expression (Formula cells only).
	Expr string `json:"expr,omitempty"`
	// State is the resolution state (Formula cells only).
	State FormulaState `json:"state,omitempty"`
}

// EmptyCell returns an empty cell.
func EmptyCell() Cell { return Cell{} }

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: CellText, Value: Text(s)} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Value: Number(f)} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Value: Boolean(b)} }

// FormulaCell returns a pending formula cell with the file's cached value.
func FormulaCell(expr string, cached Value) Cell {
	return Cell{Kind: CellFormula, Expr: expr, Value: cached}
}

// ValueCell wraps a Value into the matching literal cell.
func ValueCell(v Value) Cell {
	switch v.Kind {
	case KindText:
		return TextCell(v.Str)
	case KindNumber:
		return NumberCell(v.Num)
	case KindBool:
		return BoolCell(v.Bool)
	default:
		return EmptyCell()
	}
}

// IsFormula reports whether c is a formula cell.
func (c Cell) IsFormula() bool { return c.Kind == CellFormula }

// IsPending reports whether c is a formula that has not been resolved yet.
func (c Cell) IsPending() bool { return c.Kind == CellFormula && c.State == Pending }

// Display returns the display value of c. A formula that has not been
// resolved yields null, so raw expressions never leak into records.
func (c Cell) Display() Value {
	switch c.Kind {
	case CellEmpty:
		return Null()
	case CellText, CellNumber, CellBool:
		return c.Value
	case CellFormula:
		if c.State == Resolved {
			return c.Value
		}
		return Null()
	}
	return Null()
}

// IsBlank reports whether c displays as nothing.
func (c Cell) IsBlank() bool {
	return c.Display().IsBlank()
}
