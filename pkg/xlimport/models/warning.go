package models

import "github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"

// Warning is a recoverable condition reported alongside the records.
type Warning struct {
	// Kind classifies the condition.
	Kind xerrors.Kind `json:"kind"`
	// Sheet is the sheet the condition was found on.
	Sheet string `json:"sheet,omitempty"`
	// Row is the 1-based source row, 0 when not row specific.
	Row int `json:"row,omitempty"`
	// Col is the 1-based source column, 0 when not cell specific.
	Col int `json:"col,omitempty"`
	// Message is the human-readable text.
	Message string `json:"message"`
}

// NewWarning creates a warning.
func NewWarning(kind xerrors.Kind, sheet string, row, col int, msg string) Warning {
	return Warning{Kind: kind, Sheet: sheet, Row: row, Col: col, Message: msg}
}

func (w Warning) String() string {
	return w.Message
}
