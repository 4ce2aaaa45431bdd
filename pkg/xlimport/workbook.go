package xlimport

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/parser"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Open reads the workbook at path into memory.
func Open(path string, logger *zap.Logger) (*models.Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, openError(path, err)
	}
	if info.IsDir() {
		return nil, xerrors.New(xerrors.InvalidFileFormat, path, errors.New("path is a directory"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, openError(path, err)
	}
	return Load(path, data, logger)
}

// Load parses workbook contents that were read from path.
func Load(path string, data []byte, logger *zap.Logger) (*models.Workbook, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	format, err := parser.Detect(data)
	if err != nil {
		var xe *xerrors.Error
		if errors.As(err, &xe) {
			xe.Path = path
			return nil, xe
		}
		return nil, xerrors.New(xerrors.InvalidFileFormat, path, err)
	}

	var sheets []*models.Sheet
	switch format {
	case models.FormatXLSB:
		sheets, err = parser.ExtractBinarySheets(bytes.NewReader(data), int64(len(data)))
	default:
		sheets, err = extractXLSX(data)
	}
	if err != nil {
		return nil, xerrors.New(xerrors.FileCorrupted, path, err)
	}

	wb := models.NewWorkbook(path, filepath.Base(path), format, sheets...)
	logger.Debug("workbook loaded",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("sheets", wb.Len()),
	)
	return wb, nil
}

func extractXLSX(data []byte) ([]*models.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ExtractSheets(f)
}

func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return xerrors.New(xerrors.FileNotFound, path, nil)
	case errors.Is(err, fs.ErrPermission):
		return xerrors.New(xerrors.FileAccessDenied, path, nil)
	default:
		return xerrors.New(xerrors.FileAccessDenied, path, err)
	}
}

// SelectSheets returns the sheets a run processes. Without names the first
// sheet is used; named sheets come back in request order and the first
// missing name fails the run.
func SelectSheets(wb *models.Workbook, opts Options) ([]*models.Sheet, error) {
	if wb.Len() == 0 {
		return nil, xerrors.New(xerrors.NoSheetsFound, wb.Path, nil)
	}
	if opts.AllSheets {
		return wb.Sheets(), nil
	}
	if len(opts.Sheets) == 0 {
		s, _ := wb.SheetAt(0)
		return []*models.Sheet{s}, nil
	}

	selected := make([]*models.Sheet, 0, len(opts.Sheets))
	seen := make(map[string]bool, len(opts.Sheets))
	for _, name := range opts.Sheets {
		s, ok := wb.Sheet(name)
		if !ok {
			return nil, xerrors.NewSheetNotFound(wb.Path, name, wb.SheetNames())
		}
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		selected = append(selected, s)
	}
	return selected, nil
}

// SheetByIndex returns the sheet at the 0-based file-order position.
func SheetByIndex(wb *models.Workbook, i int) (*models.Sheet, error) {
	if wb.Len() == 0 {
		return nil, xerrors.New(xerrors.NoSheetsFound, wb.Path, nil)
	}
	s, ok := wb.SheetAt(i)
	if !ok {
		return nil, xerrors.NewSheetNotFound(wb.Path, "#"+strconv.Itoa(i), wb.SheetNames())
	}
	return s, nil
}
