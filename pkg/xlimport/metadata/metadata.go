// Package metadata accumulates processing statistics for a run.
package metadata

import (
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

// Collector accumulates run statistics. It is not safe for concurrent use.
type Collector struct {
	start    time.Time
	runID    string
	sheets   []string
	warnings []string
	skipped  int
	valid    int
	invalid  int
}

// New creates a Collector for a run that started at start.
func New(start time.Time) *Collector {
	return &Collector{
		start: start,
		runID: uuid.NewString(),
	}
}

// RunID returns the run identifier.
func (c *Collector) RunID() string { return c.runID }

// AddSheet records a processed sheet.
func (c *Collector) AddSheet(name string) {
	c.sheets = append(c.sheets, name)
}

// AddWarnings appends warnings in emission order.
func (c *Collector) AddWarnings(ws ...models.Warning) {
	for _, w := range ws {
		c.warnings = append(c.warnings, w.Message)
	}
}

// AddSkipped counts skipped empty rows.
func (c *Collector) AddSkipped(n int) {
	c.skipped += n
}

// CountRecords counts valid and invalid records.
func (c *Collector) CountRecords(records []models.Record) {
	for _, rec := range records {
		if rec.Valid {
			c.valid++
		} else {
			c.invalid++
		}
	}
}

// Finalize returns the metadata measured up to now.
func (c *Collector) Finalize() models.ProcessingMetadata {
	return c.FinalizeAt(time.Now())
}

// FinalizeAt returns the metadata measured up to end.
func (c *Collector) FinalizeAt(end time.Time) models.ProcessingMetadata {
	elapsed := end.Sub(c.start).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return models.ProcessingMetadata{
		RunID:              c.runID,
		Sheets:             append([]string{}, c.sheets...),
		TotalRowsProcessed: c.valid + c.invalid,
		ValidRecords:       c.valid,
		InvalidRecords:     c.invalid,
		SkippedRows:        c.skipped,
		ProcessingTimeMs:   elapsed,
		Warnings:           append([]string{}, c.warnings...),
	}
}
