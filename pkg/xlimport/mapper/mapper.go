// Package mapper turns a resolved sheet into header-keyed records.
package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/parser"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
	"github.com/xuri/excelize/v2"
)

// Options configures row mapping.
type Options struct {
	// HeaderRow is the 1-based header row. Zero detects the first row with data.
	HeaderRow int
	// TrimSpace trims text values; text that is empty after trimming becomes null.
	TrimSpace bool
	// EmptyAsString maps empty cells to "" instead of null.
	EmptyAsString bool
	// Stringify renders every non-null value as its display text.
	Stringify bool
	// ColumnTypes coerces the named columns to a value kind.
	ColumnTypes map[string]models.ValueKind
	// IncludeBlankRows emits records for fully empty rows instead of skipping them.
	IncludeBlankRows bool
	// QualifyRows prefixes row labels in messages with the sheet name.
	QualifyRows bool
}

// Result is the output of Map.
type Result struct {
	// Headers are the column names in sheet order.
	Headers []string
	// Records holds one record per data row.
	Records []models.Record
	// Skipped counts fully empty rows that were skipped.
	Skipped int
	// Warnings holds conversion warnings in row order.
	Warnings []models.Warning
}

// Map maps the data rows below the header row of s to records.
func Map(s *models.Sheet, opts Options) Result {
	var res Result

	headerRow := opts.HeaderRow
	if headerRow <= 0 {
		headerRow = parser.DetectHeaderRow(s)
	}
	if headerRow <= 0 || headerRow > s.Height() {
		return res
	}
	res.Headers = Headers(s.Rows[headerRow-1], opts.TrimSpace)
	if len(res.Headers) == 0 {
		return res
	}

	for ri := headerRow; ri < s.Height(); ri++ {
		rowNum := ri + 1
		values := make([]models.Value, len(res.Headers))
		blank := true
		for ci, name := range res.Headers {
			v := s.Cell(ri, ci).Display()
			if opts.TrimSpace && v.Kind == models.KindText {
				v = models.Text(strings.TrimSpace(v.Str))
			}
			if v.IsBlank() {
				v = models.Null()
			} else {
				blank = false
			}

			if kind, ok := opts.ColumnTypes[name]; ok && !v.IsNull() {
				converted, err := Coerce(v, kind)
				if err != nil {
					msg := fmt.Sprintf("%s: cannot convert %q in column %s to %s",
						rowLabel(s.Name, rowNum, opts.QualifyRows), v.String(), name, kind)
					res.Warnings = append(res.Warnings, models.NewWarning(xerrors.TypeConversionError, s.Name, rowNum, ci+1, msg))
				}
				v = converted
			}
			if opts.Stringify && !v.IsNull() {
				v = models.Text(v.String())
			}
			if opts.EmptyAsString && v.IsNull() {
				v = models.Text("")
			}
			values[ci] = v
		}

		if blank && len(s.Rows[ri]) > len(res.Headers) {
			blank = parser.CountNonEmptyCells(s.Rows[ri][len(res.Headers):]) == 0
		}
		if blank && !opts.IncludeBlankRows {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, models.NewRecord(s.Name, rowNum, res.Headers, values))
	}

	return res
}

// Headers derives column names from a header row. Trailing blank cells are
// dropped, blank names become the column letter and repeated names get a
// numeric suffix.
func Headers(row []models.Cell, trim bool) []string {
	last := -1
	for ci, c := range row {
		if !c.IsBlank() && strings.TrimSpace(c.Display().String()) != "" {
			last = ci
		}
	}

	headers := make([]string, 0, last+1)
	seen := make(map[string]bool, last+1)
	for ci := 0; ci <= last; ci++ {
		name := row[ci].Display().String()
		if trim {
			name = strings.TrimSpace(name)
		}
		if strings.TrimSpace(name) == "" {
			name, _ = excelize.ColumnNumberToName(ci + 1)
		}
		if seen[name] {
			base := name
			for n := 2; seen[name]; n++ {
				name = base + "_" + strconv.Itoa(n)
			}
		}
		seen[name] = true
		headers = append(headers, name)
	}
	return headers
}

// Coerce converts v to the given kind. On failure it returns null and an error.
func Coerce(v models.Value, kind models.ValueKind) (models.Value, error) {
	if v.IsNull() || v.Kind == kind {
		return v, nil
	}
	switch kind {
	case models.KindText:
		return models.Text(v.String()), nil
	case models.KindNumber:
		switch v.Kind {
		case models.KindText:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
			if err != nil {
				return models.Null(), err
			}
			return models.Number(f), nil
		case models.KindBool:
			if v.Bool {
				return models.Number(1), nil
			}
			return models.Number(0), nil
		}
	case models.KindBool:
		switch v.Kind {
		case models.KindNumber:
			return models.Boolean(v.Num != 0), nil
		case models.KindText:
			switch strings.ToLower(strings.TrimSpace(v.Str)) {
			case "true", "yes", "y", "1":
				return models.Boolean(true), nil
			case "false", "no", "n", "0":
				return models.Boolean(false), nil
			}
		}
	}
	return models.Null(), fmt.Errorf("cannot convert %s to %s", v.Kind, kind)
}

func rowLabel(sheet string, row int, qualify bool) string {
	if qualify {
		return fmt.Sprintf("%s Row %d", sheet, row)
	}
	return fmt.Sprintf("Row %d", row)
}
