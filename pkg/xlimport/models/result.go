package models

import (
	"errors"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
)

// ProcessingMetadata summarizes one run.
type ProcessingMetadata struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`
	// Sheets lists the processed sheets in processing order.
	Sheets []string `json:"sheets"`
	// TotalRowsProcessed is the number of emitted records (valid + invalid).
	TotalRowsProcessed int `json:"total_rows_processed"`
	// ValidRecords counts records that passed validation.
	ValidRecords int `json:"valid_records"`
	// InvalidRecords counts records that failed validation.
	InvalidRecords int `json:"invalid_records"`
	// SkippedRows counts fully empty rows that produced no record.
	SkippedRows int `json:"skipped_rows"`
	// ProcessingTimeMs is the wall-clock duration in milliseconds.
	ProcessingTimeMs int64 `json:"processing_time_ms"`
	// Warnings holds warning messages in emission order.
	Warnings []string `json:"warnings"`
}

// ErrorDetails carries the context of a fatal error.
type ErrorDetails struct {
	// Kind is the error kind, e.g. SheetNotFound.
	Kind string `json:"kind"`
	// File is the path the run attempted to read.
	File string `json:"file,omitempty"`
	// RequestedSheet is the sheet that could not be found.
	RequestedSheet string `json:"requested_sheet,omitempty"`
	// AvailableSheets lists the workbook's sheets in file order.
	AvailableSheets []string `json:"available_sheets,omitempty"`
}

// Result is the outcome of a run.
type Result struct {
	// Success is false when the run aborted with a fatal error.
	Success bool `json:"success"`
	// Records holds the emitted records. Empty on failure.
	Records []Record `json:"records"`
	// Error is the fatal error message.
	Error string `json:"error,omitempty"`
	// Details describes the fatal error.
	Details *ErrorDetails `json:"details,omitempty"`
	// Metadata summarizes the run.
	Metadata ProcessingMetadata `json:"metadata"`
}

// NewSuccess creates a successful result.
func NewSuccess(records []Record, meta ProcessingMetadata) *Result {
	if records == nil {
		records = []Record{}
	}
	return &Result{Success: true, Records: records, Metadata: meta}
}

// NewFailure creates the error-shaped result for a fatal error. No partial
// records are carried.
func NewFailure(err error, meta ProcessingMetadata) *Result {
	res := &Result{Records: []Record{}, Metadata: meta}
	if err == nil {
		return res
	}
	res.Error = err.Error()
	var xe *xerrors.Error
	if errors.As(err, &xe) {
		res.Details = &ErrorDetails{
			Kind:            string(xe.Kind),
			File:            xe.Path,
			RequestedSheet:  xe.Requested,
			AvailableSheets: xe.Available,
		}
	}
	if res.Metadata.Warnings == nil {
		res.Metadata.Warnings = []string{}
	}
	return res
}

// ValidRecords returns the records that passed validation.
func (r *Result) ValidRecords() []Record {
	out := make([]Record, 0, r.Metadata.ValidRecords)
	for _, rec := range r.Records {
		if rec.Valid {
			out = append(out, rec)
		}
	}
	return out
}
