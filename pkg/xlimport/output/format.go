// Package output serializes import results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

// Format is an output format.
type Format string

const (
	// FormatJSON is the full result as JSON.
	FormatJSON Format = "json"
	// FormatCSV is one line per record plus a header line.
	FormatCSV Format = "csv"
	// FormatPHP is a {success, data, metadata} envelope for PHP consumers.
	FormatPHP Format = "php"
	// FormatParquet is a Snappy-compressed parquet file.
	FormatParquet Format = "parquet"
)

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "php", "phparray", "php-array":
		return FormatPHP, nil
	case "parquet":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// Binary reports whether the format is not text.
func (f Format) Binary() bool { return f == FormatParquet }

// Write serializes res to w in the given format.
func Write(w io.Writer, res *models.Result, f Format, pretty bool) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = ToJSON(res, pretty)
	case FormatCSV:
		data, err = ToCSV(res)
	case FormatPHP:
		data, err = ToPHPArray(res, pretty)
	case FormatParquet:
		return WriteParquet(w, res)
	default:
		return fmt.Errorf("unknown output format: %s", f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
