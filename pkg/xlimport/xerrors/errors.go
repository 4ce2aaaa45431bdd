// Package xerrors defines the error taxonomy shared by the import pipeline.
//
// Fatal errors (file access and sheet selection) are returned as *Error.
// Cell and row level conditions are described by *CellError and are never
// returned from the pipeline; they are turned into warnings instead.
package xerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error.
type Kind string

const (
	// FileNotFound means the input path does not exist.
	FileNotFound Kind = "FileNotFound"
	// FileAccessDenied means the input exists but cannot be read.
	FileAccessDenied Kind = "FileAccessDenied"
	// InvalidFileFormat means the input is not a supported workbook.
	InvalidFileFormat Kind = "InvalidFileFormat"
	// FileCorrupted means the input looks like a workbook but cannot be parsed.
	FileCorrupted Kind = "FileCorrupted"
	// SheetNotFound means a requested sheet is absent from the workbook.
	SheetNotFound Kind = "SheetNotFound"
	// NoSheetsFound means the workbook has no worksheets.
	NoSheetsFound Kind = "NoSheetsFound"
	// FormulaResolutionError means a formula cell could not be resolved.
	FormulaResolutionError Kind = "FormulaResolutionError"
	// TypeConversionError means a value could not be coerced to its column type.
	TypeConversionError Kind = "TypeConversionError"
	// DuplicateKeyError means a composite key was already seen.
	DuplicateKeyError Kind = "DuplicateKeyError"
	// MissingKeyField means a record lacks a composite key value.
	MissingKeyField Kind = "MissingKeyField"
)

// Fatal reports whether errors of this kind abort the run.
func (k Kind) Fatal() bool {
	switch k {
	case FileNotFound, FileAccessDenied, InvalidFileFormat, FileCorrupted, SheetNotFound, NoSheetsFound:
		return true
	}
	return false
}

// Sentinels for errors.Is matching against *Error values.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrFileAccessDenied = errors.New("file access denied")
	ErrInvalidFormat    = errors.New("invalid file format")
	ErrFileCorrupted    = errors.New("file corrupted")
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrNoSheets         = errors.New("no sheets found")
)

var sentinels = map[Kind]error{
	FileNotFound:      ErrFileNotFound,
	FileAccessDenied:  ErrFileAccessDenied,
	InvalidFileFormat: ErrInvalidFormat,
	FileCorrupted:     ErrFileCorrupted,
	SheetNotFound:     ErrSheetNotFound,
	NoSheetsFound:     ErrNoSheets,
}

// Error is a fatal, run-level error.
type Error struct {
	Kind Kind
	// Path is the source file the run attempted to read.
	Path string
	// Requested is the sheet name that could not be found (SheetNotFound only).
	Requested string
	// Available lists the workbook's sheets in file order (SheetNotFound only).
	Available []string
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case SheetNotFound:
		fmt.Fprintf(&b, "sheet %q not found", e.Requested)
		if len(e.Available) > 0 {
			fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Available, ", "))
		}
	case NoSheetsFound:
		b.WriteString("no sheets found")
	default:
		if s, ok := sentinels[e.Kind]; ok {
			b.WriteString(s.Error())
		} else {
			b.WriteString(string(e.Kind))
		}
	}
	if e.Path != "" {
		fmt.Fprintf(&b, ": %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New creates a fatal error of the given kind.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// NewSheetNotFound creates a SheetNotFound error carrying the available sheet names.
func NewSheetNotFound(path, requested string, available []string) *Error {
	return &Error{
		Kind:      SheetNotFound,
		Path:      path,
		Requested: requested,
		Available: append([]string(nil), available...),
	}
}

// KindOf returns the kind of a fatal error, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CellError is a recoverable per-cell or per-row condition.
type CellError struct {
	Kind Kind
	// Ref is the cell reference ("Sheet1!C2") or row label ("Row 3").
	Ref string
	Err error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s: %v", e.Ref, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// NewCellError creates a new CellError.
func NewCellError(kind Kind, ref string, err error) *CellError {
	return &CellError{Kind: kind, Ref: ref, Err: err}
}
