package resolver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/parser"
	"github.com/xuri/efp"
)

var (
	// ErrUnsupportedFormula is returned for formulas other than an exact-match table lookup.
	ErrUnsupportedFormula = errors.New("unsupported formula")
	// ErrApproximateMatch is returned for lookups without an exact-match flag.
	ErrApproximateMatch = errors.New("approximate match lookups are not supported")
)

// Operand is the lookup value of a formula: a cell reference or a literal.
type Operand struct {
	// IsRef is set when the operand references a cell.
	IsRef bool
	// Sheet is the referenced sheet, empty for the formula's own sheet.
	Sheet string
	// Row and Col are the 1-based referenced coordinates.
	Row, Col int
	// Literal is the operand value when IsRef is false.
	Literal models.Value
}

// Lookup is a parsed VLOOKUP(lookup, table, column, FALSE) formula.
type Lookup struct {
	Operand Operand
	Table   models.CellRange
	// Column is the 1-based result column within Table.
	Column int
}

// ParseLookup parses an exact-match table lookup expression. A leading "=",
// an "_xlfn." prefix and surrounding whitespace are accepted.
func ParseLookup(expr string) (Lookup, error) {
	p := efp.ExcelParser()
	tokens := p.Parse(strings.TrimSpace(expr))

	// Drop the leading "=" if the tokenizer kept it.
	for len(tokens) > 0 && tokens[0].TType == efp.TokenTypeOperatorInfix && tokens[0].TValue == "=" {
		tokens = tokens[1:]
	}
	if len(tokens) < 2 {
		return Lookup{}, fmt.Errorf("%w: %s", ErrUnsupportedFormula, expr)
	}

	first, last := tokens[0], tokens[len(tokens)-1]
	if first.TType != efp.TokenTypeFunction || first.TSubType != efp.TokenSubTypeStart ||
		last.TType != efp.TokenTypeFunction || last.TSubType != efp.TokenSubTypeStop {
		return Lookup{}, fmt.Errorf("%w: %s", ErrUnsupportedFormula, expr)
	}
	name := strings.ToUpper(strings.TrimPrefix(strings.ToLower(first.TValue), "_xlfn."))
	if name != "VLOOKUP" {
		return Lookup{}, fmt.Errorf("%w: %s", ErrUnsupportedFormula, expr)
	}

	args, err := splitArgs(tokens[1 : len(tokens)-1])
	if err != nil {
		return Lookup{}, fmt.Errorf("%w: %s", err, expr)
	}
	if len(args) != 3 && len(args) != 4 {
		return Lookup{}, fmt.Errorf("%w: VLOOKUP takes 3 or 4 arguments, got %d", ErrUnsupportedFormula, len(args))
	}
	if len(args) == 3 {
		return Lookup{}, ErrApproximateMatch
	}

	var lk Lookup
	if lk.Operand, err = parseOperand(args[0]); err != nil {
		return Lookup{}, err
	}
	if lk.Table, err = parseTable(args[1]); err != nil {
		return Lookup{}, err
	}
	if lk.Column, err = parseColumn(args[2]); err != nil {
		return Lookup{}, err
	}
	exact, err := parseExact(args[3])
	if err != nil {
		return Lookup{}, err
	}
	if !exact {
		return Lookup{}, ErrApproximateMatch
	}
	return lk, nil
}

// splitArgs splits the tokens between VLOOKUP( and ) at top-level commas.
// Nested functions and subexpressions are not supported.
func splitArgs(tokens []efp.Token) ([][]efp.Token, error) {
	args := [][]efp.Token{nil}
	for _, tok := range tokens {
		switch tok.TType {
		case efp.TokenTypeArgument:
			args = append(args, nil)
		case efp.TokenTypeFunction, efp.TokenTypeSubexpression:
			return nil, ErrUnsupportedFormula
		default:
			args[len(args)-1] = append(args[len(args)-1], tok)
		}
	}
	return args, nil
}

// literal converts a single operand argument into a value.
func literal(arg []efp.Token) (models.Value, bool) {
	neg := false
	if len(arg) == 2 && arg[0].TType == efp.TokenTypeOperatorPrefix && arg[0].TValue == "-" {
		neg = true
		arg = arg[1:]
	}
	if len(arg) != 1 || arg[0].TType != efp.TokenTypeOperand {
		return models.Null(), false
	}
	tok := arg[0]
	switch tok.TSubType {
	case efp.TokenSubTypeText:
		if neg {
			return models.Null(), false
		}
		return models.Text(tok.TValue), true
	case efp.TokenSubTypeNumber:
		f, err := strconv.ParseFloat(tok.TValue, 64)
		if err != nil {
			return models.Null(), false
		}
		if neg {
			f = -f
		}
		return models.Number(f), true
	case efp.TokenSubTypeLogical, efp.TokenSubTypeRange:
		if neg {
			return models.Null(), false
		}
		switch strings.ToUpper(tok.TValue) {
		case "TRUE":
			return models.Boolean(true), true
		case "FALSE":
			return models.Boolean(false), true
		}
	}
	return models.Null(), false
}

func parseOperand(arg []efp.Token) (Operand, error) {
	if v, ok := literal(arg); ok {
		return Operand{Literal: v}, nil
	}
	if len(arg) != 1 || arg[0].TSubType != efp.TokenSubTypeRange {
		return Operand{}, fmt.Errorf("%w: lookup value must be a cell or a literal", ErrUnsupportedFormula)
	}
	sheet, row, col, err := parser.ParseCellRef(arg[0].TValue)
	if err != nil {
		return Operand{}, fmt.Errorf("%w: lookup value %q: %v", ErrUnsupportedFormula, arg[0].TValue, err)
	}
	return Operand{IsRef: true, Sheet: sheet, Row: row, Col: col}, nil
}

func parseTable(arg []efp.Token) (models.CellRange, error) {
	if len(arg) != 1 || arg[0].TType != efp.TokenTypeOperand || arg[0].TSubType != efp.TokenSubTypeRange {
		return models.CellRange{}, fmt.Errorf("%w: table must be a range", ErrUnsupportedFormula)
	}
	r, err := parser.ParseRange(arg[0].TValue)
	if err != nil {
		return models.CellRange{}, fmt.Errorf("%w: table %q: %v", ErrUnsupportedFormula, arg[0].TValue, err)
	}
	return r, nil
}

func parseColumn(arg []efp.Token) (int, error) {
	v, ok := literal(arg)
	if !ok || v.Kind != models.KindNumber || v.Num != math.Trunc(v.Num) || v.Num < 1 {
		return 0, fmt.Errorf("%w: column index must be a positive integer", ErrUnsupportedFormula)
	}
	return int(v.Num), nil
}

func parseExact(arg []efp.Token) (bool, error) {
	if len(arg) == 0 {
		// VLOOKUP(a,b,c,) passes an empty match flag, which means FALSE.
		return true, nil
	}
	v, ok := literal(arg)
	if !ok {
		return false, fmt.Errorf("%w: match flag must be TRUE or FALSE", ErrUnsupportedFormula)
	}
	switch v.Kind {
	case models.KindBool:
		return !v.Bool, nil
	case models.KindNumber:
		return v.Num == 0, nil
	}
	return false, fmt.Errorf("%w: match flag must be TRUE or FALSE", ErrUnsupportedFormula)
}
