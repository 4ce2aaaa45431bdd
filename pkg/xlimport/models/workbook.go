package models

import "strings"

// SourceFormat identifies the container a workbook was read from.
type SourceFormat string

const (
	// FormatXLSX is an Office Open XML workbook (.xlsx, .xlsm).
	FormatXLSX SourceFormat = "xlsx"
	// FormatXLSB is a binary workbook (.xlsb).
	FormatXLSB SourceFormat = "xlsb"
)

// Workbook is the loaded, immutable set of sheets of one source file.
type Workbook struct {
	// Path is the source path as given by the caller.
	Path string `json:"path"`
	// BookName is the file name (no directory).
	BookName string `json:"book_name"`
	// Format is the detected container format.
	Format SourceFormat `json:"format"`

	sheets []*Sheet
	byName map[string]*Sheet
	byFold map[string]*Sheet
}

// NewWorkbook creates a workbook from sheets in file order. Sheet indexes
// are reassigned to match the given order.
func NewWorkbook(path, bookName string, format SourceFormat, sheets ...*Sheet) *Workbook {
	wb := &Workbook{
		Path:     path,
		BookName: bookName,
		Format:   format,
		byName:   make(map[string]*Sheet, len(sheets)),
		byFold:   make(map[string]*Sheet, len(sheets)),
	}
	for i, s := range sheets {
		s.Index = i
		wb.sheets = append(wb.sheets, s)
		wb.byName[s.Name] = s
		if _, ok := wb.byFold[strings.ToLower(s.Name)]; !ok {
			wb.byFold[strings.ToLower(s.Name)] = s
		}
	}
	return wb
}

// SheetNames returns sheet names in file order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of sheets.
func (wb *Workbook) Len() int { return len(wb.sheets) }

// Sheets returns the sheets in file order.
func (wb *Workbook) Sheets() []*Sheet {
	return append([]*Sheet(nil), wb.sheets...)
}

// Sheet looks a sheet up by exact name, then case-insensitively.
func (wb *Workbook) Sheet(name string) (*Sheet, bool) {
	if s, ok := wb.byName[name]; ok {
		return s, true
	}
	s, ok := wb.byFold[strings.ToLower(name)]
	return s, ok
}

// SheetAt returns the sheet at the 0-based file-order position.
func (wb *Workbook) SheetAt(i int) (*Sheet, bool) {
	if i < 0 || i >= len(wb.sheets) {
		return nil, false
	}
	return wb.sheets[i], true
}
