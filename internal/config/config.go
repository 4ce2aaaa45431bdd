// Package config loads CLI configuration from defaults, an optional YAML
// file and XLIMPORT_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"go.uber.org/zap"
)

// Config holds all tool configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Processing ProcessingConfig `yaml:"processing"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
}

// InputConfig selects what is read from the workbook.
type InputConfig struct {
	// Sheets names the sheets to import (default: first sheet)
	Sheets []string `yaml:"sheets" env:"XLIMPORT_SHEETS"`

	// AllSheets imports every sheet in file order
	AllSheets bool `yaml:"all_sheets" env:"XLIMPORT_ALL_SHEETS"`

	// HeaderRow is the 1-based header row, 0 to detect (default: 1)
	HeaderRow int `yaml:"header_row" env:"XLIMPORT_HEADER_ROW" default:"1" validate:"gte=0"`

	// KeyColumns are the composite key columns
	KeyColumns []string `yaml:"key_columns" env:"XLIMPORT_KEYS" default:"main_value,sub_value,major_value,minor_value"`

	// ColumnTypes coerces columns to text, number or bool
	ColumnTypes map[string]string `yaml:"column_types" validate:"dive,keys,required,endkeys,oneof=text string number numeric float bool boolean"`
}

// OutputConfig controls serialization.
type OutputConfig struct {
	// Format is json, csv, php or parquet (default: json)
	Format string `yaml:"format" env:"XLIMPORT_FORMAT" default:"json" validate:"oneof=json csv php phparray php-array parquet"`

	// Path is the output file (default: stdout)
	Path string `yaml:"path" env:"XLIMPORT_OUTPUT"`

	// Pretty indents JSON output
	Pretty bool `yaml:"pretty" env:"XLIMPORT_PRETTY"`

	// Summary prints a human-readable report to stdout, in place of the
	// result unless Path is set
	Summary bool `yaml:"summary" env:"XLIMPORT_SUMMARY"`
}

// ProcessingConfig tunes the import pipeline.
type ProcessingConfig struct {
	// Workers bounds row parallelism, 0 for all CPUs
	Workers int `yaml:"workers" env:"XLIMPORT_WORKERS" default:"0" validate:"gte=0"`

	// MaxDepth bounds chained lookups (default: 64)
	MaxDepth int `yaml:"max_depth" env:"XLIMPORT_MAX_DEPTH" default:"64" validate:"gte=1"`

	DropInvalid      bool `yaml:"drop_invalid" env:"XLIMPORT_DROP_INVALID"`
	IncludeBlankRows bool `yaml:"include_blank_rows" env:"XLIMPORT_INCLUDE_BLANK_ROWS"`
	TrimSpace        bool `yaml:"trim_space" env:"XLIMPORT_TRIM_SPACE" default:"true"`
	EmptyAsString    bool `yaml:"empty_as_string" env:"XLIMPORT_EMPTY_AS_STRING"`
	Stringify        bool `yaml:"stringify" env:"XLIMPORT_STRINGIFY"`
	FallbackToCached bool `yaml:"fallback_cached" env:"XLIMPORT_FALLBACK_CACHED"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error (default: warn)
	Level string `yaml:"level" env:"XLIMPORT_LOG_LEVEL" default:"warn" validate:"oneof=debug info warn error"`

	// Format is console or json (default: console)
	Format string `yaml:"format" env:"XLIMPORT_LOG_FORMAT" default:"console" validate:"oneof=console json"`
}

// DatabaseConfig holds the optional Postgres sink settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; empty disables the sink
	URL string `yaml:"url" env:"XLIMPORT_DB_URL" envAlt:"DATABASE_URL"`

	// Table receives the valid records (default: cascade_fields)
	Table string `yaml:"table" env:"XLIMPORT_DB_TABLE" default:"cascade_fields" validate:"required"`

	// MaxConns is the pool size (default: 4)
	MaxConns int `yaml:"max_conns" env:"XLIMPORT_DB_MAX_CONNS" default:"4" validate:"gte=1"`
}

// Options converts the configuration into import options.
func (c *Config) Options(logger *zap.Logger) (xlimport.Options, error) {
	trim := c.Processing.TrimSpace
	opts := xlimport.Options{
		Sheets:           c.Input.Sheets,
		AllSheets:        c.Input.AllSheets,
		HeaderRow:        c.Input.HeaderRow,
		KeyColumns:       c.Input.KeyColumns,
		Workers:          c.Processing.Workers,
		MaxDepth:         c.Processing.MaxDepth,
		DropInvalid:      c.Processing.DropInvalid,
		IncludeBlankRows: c.Processing.IncludeBlankRows,
		TrimSpace:        &trim,
		EmptyAsString:    c.Processing.EmptyAsString,
		Stringify:        c.Processing.Stringify,
		FallbackToCached: c.Processing.FallbackToCached,
		Logger:           logger,
	}
	if opts.KeyColumns == nil {
		opts.KeyColumns = []string{}
	}

	if len(c.Input.ColumnTypes) > 0 {
		opts.ColumnTypes = make(map[string]models.ValueKind, len(c.Input.ColumnTypes))
		for col, name := range c.Input.ColumnTypes {
			kind, ok := models.ParseValueKind(name)
			if !ok {
				return xlimport.Options{}, fmt.Errorf("column %s: unknown type %q", col, name)
			}
			opts.ColumnTypes[col] = kind
		}
	}
	return opts, nil
}

// String returns a loggable representation with the database URL masked.
func (c *Config) String() string {
	db := "none"
	if c.Database.URL != "" {
		db = "[MASKED]"
	}
	return fmt.Sprintf("Config{Sheets: [%s], AllSheets: %v, HeaderRow: %d, Keys: [%s], Format: %s, Workers: %d, Database: %s, Table: %s}",
		strings.Join(c.Input.Sheets, ", "), c.Input.AllSheets, c.Input.HeaderRow,
		strings.Join(c.Input.KeyColumns, ", "), c.Output.Format, c.Processing.Workers,
		db, c.Database.Table)
}
