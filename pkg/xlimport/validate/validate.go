// Package validate checks composite keys and flags duplicates.
package validate

import (
	"fmt"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
)

// DefaultKeys are the key columns of a cascade field sheet.
var DefaultKeys = []string{"main_value", "sub_value", "major_value", "minor_value"}

// Validator flags records with missing key fields or repeated composite
// keys. Keys seen by earlier Run calls stay registered, so one Validator
// checks uniqueness across all sheets of a run.
type Validator struct {
	keys        []string
	qualifyRows bool
	seen        map[string]string
}

// New creates a Validator over the given key columns. Nil keys means DefaultKeys.
func New(keys []string) *Validator {
	if keys == nil {
		keys = DefaultKeys
	}
	return &Validator{
		keys: append([]string(nil), keys...),
		seen: make(map[string]string),
	}
}

// QualifyRows makes row labels include the sheet name ("Data Row 4").
func (v *Validator) QualifyRows(on bool) *Validator {
	v.qualifyRows = on
	return v
}

// Keys returns the key columns.
func (v *Validator) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Run validates records in order and returns them with Valid and Warning
// set, plus the warnings raised. Records are never dropped here.
func (v *Validator) Run(records []models.Record) ([]models.Record, []models.Warning) {
	var warnings []models.Warning
	if len(v.keys) == 0 {
		return records, nil
	}
	if len(records) > 0 {
		warnings = append(warnings, v.checkColumns(records[0])...)
	}

	out := make([]models.Record, len(records))
	for i, rec := range records {
		label := v.label(rec)
		var missing []string
		for _, k := range v.keys {
			if val, _ := rec.Get(k); val.IsBlank() {
				missing = append(missing, k)
			}
		}

		switch {
		case len(missing) > 0:
			msg := fmt.Sprintf("%s: missing required key field (%s)", label, strings.Join(missing, ", "))
			rec.Valid = false
			rec.Warning = msg
			warnings = append(warnings, models.NewWarning(xerrors.MissingKeyField, rec.Sheet, rec.Row, 0, msg))
		default:
			key := v.compositeKey(rec)
			if first, dup := v.seen[key]; dup {
				msg := fmt.Sprintf("%s: duplicate composite key found (first seen at %s)", label, first)
				rec.Valid = false
				rec.Warning = msg
				warnings = append(warnings, models.NewWarning(xerrors.DuplicateKeyError, rec.Sheet, rec.Row, 0, msg))
			} else {
				v.seen[key] = v.firstSeen(rec)
				rec.Valid = true
			}
		}
		out[i] = rec
	}
	return out, warnings
}

func (v *Validator) checkColumns(rec models.Record) []models.Warning {
	var warnings []models.Warning
	for _, k := range v.keys {
		if _, ok := rec.Get(k); !ok {
			msg := fmt.Sprintf("%s: key column %s not found in header", rec.Sheet, k)
			warnings = append(warnings, models.NewWarning(xerrors.MissingKeyField, rec.Sheet, 0, 0, msg))
		}
	}
	return warnings
}

// compositeKey encodes the key tuple. The kind prefix keeps text "1" and
// number 1 apart.
func (v *Validator) compositeKey(rec models.Record) string {
	var b strings.Builder
	for _, k := range v.keys {
		val, _ := rec.Get(k)
		fmt.Fprintf(&b, "%d:%s\x00", val.Kind, val.String())
	}
	return b.String()
}

func (v *Validator) label(rec models.Record) string {
	if v.qualifyRows {
		return fmt.Sprintf("%s Row %d", rec.Sheet, rec.Row)
	}
	return fmt.Sprintf("Row %d", rec.Row)
}

func (v *Validator) firstSeen(rec models.Record) string {
	if v.qualifyRows {
		return fmt.Sprintf("%s row %d", rec.Sheet, rec.Row)
	}
	return fmt.Sprintf("row %d", rec.Row)
}

// DropInvalid returns the valid records only.
func DropInvalid(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if rec.Valid {
			out = append(out, rec)
		}
	}
	return out
}

// FilterComplete returns the records whose key fields are all present.
func FilterComplete(records []models.Record, keys []string) []models.Record {
	if keys == nil {
		keys = DefaultKeys
	}
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		complete := true
		for _, k := range keys {
			if val, _ := rec.Get(k); val.IsBlank() {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, rec)
		}
	}
	return out
}

// Group is a set of records sharing one field value.
type Group struct {
	Key     string
	Records []models.Record
}

// GroupBy groups records by the display text of a field, in first-seen
// order. Records without the field are grouped under "".
func GroupBy(records []models.Record, field string) []Group {
	var groups []Group
	pos := make(map[string]int)
	for _, rec := range records {
		val, _ := rec.Get(field)
		key := val.String()
		i, ok := pos[key]
		if !ok {
			i = len(groups)
			pos[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}
