package xlimport

import (
	"fmt"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
)

// Sentinels re-exported for errors.Is matching on fatal errors.
var (
	ErrFileNotFound     = xerrors.ErrFileNotFound
	ErrFileAccessDenied = xerrors.ErrFileAccessDenied
	ErrInvalidFormat    = xerrors.ErrInvalidFormat
	ErrFileCorrupted    = xerrors.ErrFileCorrupted
	ErrSheetNotFound    = xerrors.ErrSheetNotFound
	ErrNoSheets         = xerrors.ErrNoSheets
)

// StageError represents an internal failure of a pipeline stage.
type StageError struct {
	SheetName string
	Stage     string // "load", "resolve", "options"
	Err       error
}

func (e *StageError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed in sheet %q: %v", e.Stage, e.SheetName, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(sheetName, stage string, err error) *StageError {
	return &StageError{
		SheetName: sheetName,
		Stage:     stage,
		Err:       err,
	}
}
