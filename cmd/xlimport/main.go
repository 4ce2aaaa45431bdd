// Package main provides the CLI entry point for xlimport.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/xlimport-go/internal/config"
	"github.com/ukaji3/xlimport-go/internal/logging"
	"github.com/ukaji3/xlimport-go/internal/sink"
	"github.com/ukaji3/xlimport-go/pkg/xlimport"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/output"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
	"go.uber.org/zap"
)

// Exit codes.
const (
	exitOK               = 0
	exitFailure          = 1
	exitFileNotFound     = 2
	exitFileAccessDenied = 3
	exitInvalidFormat    = 4
	exitFileCorrupted    = 5
	exitSheetNotFound    = 6
	exitNoSheets         = 7
)

type flags struct {
	configPath     string
	sheets         []string
	allSheets      bool
	headerRow      int
	keys           string
	format         string
	file           string
	pretty         bool
	summary        bool
	verbose        bool
	workers        int
	dropInvalid    bool
	includeBlank   bool
	stringify      bool
	fallbackCached bool
	dbURL          string
	dbTable        string
}

// exitError carries the process exit code of a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitFailure
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:   "xlimport [input.xlsx]",
		Short: "Import cascade field workbooks",
		Long: `xlimport reads cascade field sheets from Excel workbooks, resolves
VLOOKUP formulas, validates composite keys and outputs the records.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args[0], stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	fs := rootCmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	fs.StringArrayVarP(&f.sheets, "sheet", "s", nil, "Sheet to process (repeatable, default: first sheet)")
	fs.BoolVar(&f.allSheets, "all-sheets", false, "Process every sheet in file order")
	fs.IntVar(&f.headerRow, "header-row", 1, "1-based header row, 0 to detect")
	fs.StringVar(&f.keys, "keys", "", "Comma-separated composite key columns, \"none\" to disable")
	fs.StringVarP(&f.format, "output", "o", "json", "Output format: json, csv, php, parquet")
	fs.StringVarP(&f.file, "file", "f", "", "Output file path (default: stdout)")
	fs.BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	fs.BoolVar(&f.summary, "summary", false, "Print a summary instead of the full output")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	fs.IntVar(&f.workers, "workers", 0, "Row resolution workers, 0 for all CPUs")
	fs.BoolVar(&f.dropInvalid, "drop-invalid", false, "Leave invalid records out of the output")
	fs.BoolVar(&f.includeBlank, "include-blank-rows", false, "Emit records for empty rows")
	fs.BoolVar(&f.stringify, "stringify", false, "Render every value as text")
	fs.BoolVar(&f.fallbackCached, "fallback-cached", false, "Keep cached formula results when a lookup fails")
	fs.StringVar(&f.dbURL, "db-url", "", "PostgreSQL URL to copy valid records into")
	fs.StringVar(&f.dbTable, "db-table", "", "Target table (default: cascade_fields)")

	return rootCmd
}

func run(cmd *cobra.Command, f *flags, inputPath string, stdout, stderr io.Writer) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, f, cfg); err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	logger := logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format, f.verbose)
	defer logger.Sync()
	logger.Debug("configuration loaded", zap.Stringer("config", cfg))

	opts, err := cfg.Options(logger)
	if err != nil {
		return err
	}

	res, procErr := xlimport.Process(inputPath, opts)
	if procErr != nil {
		logger.Error("import failed", zap.String("file", inputPath), zap.Error(procErr))
	}

	if err := writeResult(res, cfg, format, stdout); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if procErr != nil {
		return &exitError{code: exitCode(procErr), err: procErr}
	}

	if cfg.Database.URL != "" {
		if err := copyToDatabase(cmd.Context(), cfg, res, logger); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags overrides configuration with the flags given on the command line.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("sheet") {
		cfg.Input.Sheets = f.sheets
	}
	if changed("all-sheets") {
		cfg.Input.AllSheets = f.allSheets
	}
	if changed("header-row") {
		cfg.Input.HeaderRow = f.headerRow
	}
	if changed("keys") {
		cfg.Input.KeyColumns = parseKeys(f.keys)
	}
	if changed("output") {
		cfg.Output.Format = f.format
	}
	if changed("file") {
		cfg.Output.Path = f.file
	}
	if changed("pretty") {
		cfg.Output.Pretty = f.pretty
	}
	if changed("summary") {
		cfg.Output.Summary = f.summary
	}
	if changed("workers") {
		cfg.Processing.Workers = f.workers
	}
	if changed("drop-invalid") {
		cfg.Processing.DropInvalid = f.dropInvalid
	}
	if changed("include-blank-rows") {
		cfg.Processing.IncludeBlankRows = f.includeBlank
	}
	if changed("stringify") {
		cfg.Processing.Stringify = f.stringify
	}
	if changed("fallback-cached") {
		cfg.Processing.FallbackToCached = f.fallbackCached
	}
	if changed("db-url") {
		cfg.Database.URL = f.dbURL
	}
	if changed("db-table") {
		cfg.Database.Table = f.dbTable
	}
	return cfg.Validate()
}

func parseKeys(s string) []string {
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		return []string{}
	}
	keys := []string{}
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func writeResult(res *models.Result, cfg *config.Config, format output.Format, stdout io.Writer) error {
	// Parquet has no error shape.
	if !res.Success && format == output.FormatParquet {
		format = output.FormatJSON
	}

	if cfg.Output.Path != "" {
		file, err := os.Create(cfg.Output.Path)
		if err != nil {
			return err
		}
		if err := output.Write(file, res, format, cfg.Output.Pretty); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		if cfg.Output.Summary {
			_, err = io.WriteString(stdout, output.CreateSummary(res))
		}
		return err
	}

	if cfg.Output.Summary {
		_, err := io.WriteString(stdout, output.CreateSummary(res))
		return err
	}
	if err := output.Write(stdout, res, format, cfg.Output.Pretty); err != nil {
		return err
	}
	if !format.Binary() {
		_, err := io.WriteString(stdout, "\n")
		return err
	}
	return nil
}

func copyToDatabase(ctx context.Context, cfg *config.Config, res *models.Result, logger *zap.Logger) error {
	pg, err := sink.NewPostgres(ctx, sink.PostgresConfig{
		URL:      cfg.Database.URL,
		Table:    cfg.Database.Table,
		MaxConns: cfg.Database.MaxConns,
	}, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	_, err = pg.Write(ctx, res)
	return err
}

func exitCode(err error) int {
	kind := xerrors.KindOf(err)
	if !kind.Fatal() {
		return exitFailure
	}
	switch kind {
	case xerrors.FileNotFound:
		return exitFileNotFound
	case xerrors.FileAccessDenied:
		return exitFileAccessDenied
	case xerrors.InvalidFileFormat:
		return exitInvalidFormat
	case xerrors.FileCorrupted:
		return exitFileCorrupted
	case xerrors.SheetNotFound:
		return exitSheetNotFound
	case xerrors.NoSheetsFound:
		return exitNoSheets
	default:
		return exitFailure
	}
}
