package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

// ToCSV serializes records as CSV. Columns are the union of record keys
// in first-seen order followed by _valid and _warning. A failed result
// becomes a status,error pair.
func ToCSV(res *models.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if !res.Success {
		w.Write([]string{"status", "error"})
		w.Write([]string{"failed", res.Error})
		w.Flush()
		return buf.Bytes(), w.Error()
	}

	columns := Columns(res.Records)
	header := append(append([]string{}, columns...), "_valid", "_warning")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	row := make([]string, len(header))
	for _, rec := range res.Records {
		for i, col := range columns {
			v, _ := rec.Get(col)
			row[i] = v.String()
		}
		row[len(columns)] = strconv.FormatBool(rec.Valid)
		row[len(columns)+1] = rec.Warning
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// Columns returns the union of record keys in first-seen order.
func Columns(records []models.Record) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, k := range rec.Keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}
