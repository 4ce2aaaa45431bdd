// Package xlimport imports cascade field workbooks into validated records.
package xlimport

import (
	"errors"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/resolver"
	"go.uber.org/zap"
)

// Options configures an import run.
type Options struct {
	// Sheets names the sheets to process, in order. Empty means the first sheet.
	Sheets []string
	// AllSheets processes every sheet in file order and ignores Sheets.
	AllSheets bool
	// HeaderRow is the 1-based header row. Zero detects the first row with data.
	HeaderRow int
	// KeyColumns are the composite key columns. Nil means the cascade defaults;
	// an empty non-nil slice disables key validation.
	KeyColumns []string
	// Workers bounds row resolution parallelism. Zero uses GOMAXPROCS; one is sequential.
	Workers int
	// MaxDepth bounds chained lookup depth.
	MaxDepth int
	// DropInvalid removes invalid records after they are counted.
	DropInvalid bool
	// IncludeBlankRows emits records for fully empty rows.
	IncludeBlankRows bool
	// TrimSpace trims text values.
	// If nil, defaults to true.
	TrimSpace *bool
	// EmptyAsString maps empty cells to "".
	EmptyAsString bool
	// Stringify renders every value as text.
	Stringify bool
	// ColumnTypes coerces named columns to a value kind.
	ColumnTypes map[string]models.ValueKind
	// FallbackToCached keeps the file's cached result when a lookup fails.
	FallbackToCached bool
	// QualifyRows prefixes row labels with the sheet name.
	// If nil, defaults to true when more than one sheet is processed.
	QualifyRows *bool
	// Logger receives structured logs. Nil discards them.
	Logger *zap.Logger
}

// DefaultOptions returns default import options.
func DefaultOptions() Options {
	return Options{
		HeaderRow: 1,
		MaxDepth:  resolver.DefaultMaxDepth,
	}
}

// ShouldTrimSpace returns whether text values are trimmed.
func (o Options) ShouldTrimSpace() bool {
	if o.TrimSpace != nil {
		return *o.TrimSpace
	}
	return true
}

// ShouldQualifyRows returns whether row labels carry the sheet name when
// sheetCount sheets are processed.
func (o Options) ShouldQualifyRows(sheetCount int) bool {
	if o.QualifyRows != nil {
		return *o.QualifyRows
	}
	return sheetCount > 1
}

// Validate checks option values.
func (o Options) Validate() error {
	if o.HeaderRow < 0 {
		return errors.New("header row must not be negative")
	}
	if o.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if o.MaxDepth < 0 {
		return errors.New("max depth must not be negative")
	}
	return nil
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
