package xlimport

import (
	"time"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/mapper"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/metadata"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/resolver"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/validate"
	"go.uber.org/zap"
)

// Process imports the workbook at path.
//
// On a fatal error the returned result is the error-shaped result (no
// records) and err is non-nil, so callers can still print it.
func Process(path string, opts Options) (*models.Result, error) {
	start := time.Now()
	wb, err := Open(path, opts.logger())
	if err != nil {
		return fail(err, start), err
	}
	return ProcessWorkbook(wb, opts, start)
}

// ProcessWorkbook runs resolution, mapping and validation over a loaded
// workbook. start is the moment the run began.
func ProcessWorkbook(wb *models.Workbook, opts Options, start time.Time) (*models.Result, error) {
	if err := opts.Validate(); err != nil {
		err = NewStageError("", "options", err)
		return fail(err, start), err
	}

	meta := metadata.New(start)
	log := opts.logger().With(zap.String("run_id", meta.RunID()))

	sheets, err := SelectSheets(wb, opts)
	if err != nil {
		log.Debug("sheet selection failed", zap.Error(err))
		return fail(err, start), err
	}

	resolved, err := resolver.New(wb, resolver.Options{
		Workers:          opts.Workers,
		MaxDepth:         opts.MaxDepth,
		FallbackToCached: opts.FallbackToCached,
		Logger:           log,
	}).Resolve(sheets)
	if err != nil {
		err = NewStageError("", "resolve", err)
		return fail(err, start), err
	}
	meta.AddWarnings(resolved.Warnings...)

	qualify := opts.ShouldQualifyRows(len(sheets))
	v := validate.New(opts.KeyColumns).QualifyRows(qualify)
	log.Debug("validating records", zap.Strings("keys", v.Keys()), zap.Bool("qualify_rows", qualify))

	var records []models.Record
	for _, s := range resolved.Sheets {
		meta.AddSheet(s.Name)
		mapped := mapper.Map(s, mapper.Options{
			HeaderRow:        opts.HeaderRow,
			TrimSpace:        opts.ShouldTrimSpace(),
			EmptyAsString:    opts.EmptyAsString,
			Stringify:        opts.Stringify,
			ColumnTypes:      opts.ColumnTypes,
			IncludeBlankRows: opts.IncludeBlankRows,
			QualifyRows:      qualify,
		})
		meta.AddWarnings(mapped.Warnings...)
		meta.AddSkipped(mapped.Skipped)

		checked, warnings := v.Run(mapped.Records)
		meta.AddWarnings(warnings...)
		records = append(records, checked...)

		log.Debug("sheet processed",
			zap.String("sheet", s.Name),
			zap.Int("columns", len(mapped.Headers)),
			zap.Int("rows", len(mapped.Records)),
			zap.Int("skipped", mapped.Skipped),
		)
	}

	meta.CountRecords(records)
	if opts.DropInvalid {
		records = validate.DropInvalid(records)
	}

	result := models.NewSuccess(records, meta.Finalize())
	log.Info("import finished",
		zap.String("file", wb.BookName),
		zap.Int("records", result.Metadata.TotalRowsProcessed),
		zap.Int("invalid", result.Metadata.InvalidRecords),
		zap.Int("warnings", len(result.Metadata.Warnings)),
		zap.Int64("elapsed_ms", result.Metadata.ProcessingTimeMs),
	)
	return result, nil
}

func fail(err error, start time.Time) *models.Result {
	return models.NewFailure(err, metadata.New(start).Finalize())
}
