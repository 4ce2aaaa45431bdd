package output

import (
	"fmt"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

// maxSummaryWarnings is how many warnings a summary lists.
const maxSummaryWarnings = 5

// CreateSummary returns a human-readable report of a run.
func CreateSummary(res *models.Result) string {
	var b strings.Builder
	meta := res.Metadata

	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Unknown error"
		}
		fmt.Fprintf(&b, "✗ Processing failed: %s\n", msg)
		if d := res.Details; d != nil {
			if d.File != "" {
				fmt.Fprintf(&b, "  File: %s\n", d.File)
			}
			if len(d.AvailableSheets) > 0 {
				fmt.Fprintf(&b, "  Available sheets: %s\n", strings.Join(d.AvailableSheets, ", "))
			}
		}
		return b.String()
	}

	fmt.Fprintf(&b, "✓ Successfully processed %d records\n", meta.ValidRecords)
	if meta.InvalidRecords > 0 {
		fmt.Fprintf(&b, "⚠ %d invalid records\n", meta.InvalidRecords)
	}
	fmt.Fprintf(&b, "⏱ Processing time: %dms\n", meta.ProcessingTimeMs)

	if len(meta.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for i, w := range meta.Warnings {
			if i == maxSummaryWarnings {
				fmt.Fprintf(&b, "  ... and %d more warnings\n", len(meta.Warnings)-maxSummaryWarnings)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	return b.String()
}
