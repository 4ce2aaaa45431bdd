// Package resolver replaces exact-match table lookup formulas with the
// values they display.
//
// Resolution runs in two phases. Prepare walks the selected sheets
// sequentially, builds one Index per distinct table range over its key column
// and resolves every formula another formula depends on: lookup operands and
// the table cells a lookup returns. Table cells no lookup returns are never
// evaluated. After that barrier all shared state is read-only and rows are
// resolved in parallel.
package resolver

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/parser"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxDepth bounds the length of formula dependency chains.
const DefaultMaxDepth = 64

var (
	// ErrLookupNotFound is reported when no table row matches the lookup value.
	ErrLookupNotFound = errors.New("lookup value not found")
	// ErrCircularReference is reported for formulas that depend on themselves.
	ErrCircularReference = errors.New("circular reference")
	// ErrMaxDepth is reported when a dependency chain exceeds MaxDepth.
	ErrMaxDepth = errors.New("maximum lookup depth exceeded")
	// ErrColumnOutOfRange is reported when the column index exceeds the table width.
	ErrColumnOutOfRange = errors.New("column index out of range")
	// ErrSheetMissing is reported when a formula references an unknown sheet.
	ErrSheetMissing = errors.New("reference sheet not found")
)

// Options configures resolution.
type Options struct {
	// Workers bounds row-level parallelism. Zero means GOMAXPROCS.
	Workers int
	// MaxDepth bounds dependency chains. Zero means DefaultMaxDepth.
	MaxDepth int
	// FallbackToCached keeps the cached file value of formulas that cannot
	// be parsed as a supported lookup.
	FallbackToCached bool
	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger
}

// Result holds resolved copies of the selected sheets and the warnings
// raised while resolving them.
type Result struct {
	Sheets   []*models.Sheet
	Warnings []models.Warning
}

type cellKey struct {
	sheet    string
	row, col int
}

type outcome struct {
	value models.Value
	state models.FormulaState
	err   error
}

func failed(err error) outcome {
	return outcome{state: models.Unresolved, err: err}
}

type parsedFormula struct {
	lookup Lookup
	err    error
}

type indexEntry struct {
	ix  *Index
	err error
}

// Resolver resolves lookup formulas of one workbook. Shared indices and
// memoized results live for the lifetime of the Resolver, so one Resolver
// should serve a whole run. Resolve must not be called concurrently.
type Resolver struct {
	wb   *models.Workbook
	opts Options
	log  *zap.Logger

	parsed   map[string]parsedFormula
	indices  map[string]indexEntry
	memo     map[cellKey]outcome
	visiting map[cellKey]bool
	building map[string]bool
	missing  map[string]bool
	selected map[string]bool
	// depWarnings holds failures of formulas outside the selected sheets,
	// in discovery order.
	depWarnings []models.Warning
	frozen      bool
}

// New creates a Resolver over wb.
func New(wb *models.Workbook, opts Options) *Resolver {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		wb:       wb,
		opts:     opts,
		log:      log,
		parsed:   make(map[string]parsedFormula),
		indices:  make(map[string]indexEntry),
		memo:     make(map[cellKey]outcome),
		visiting: make(map[cellKey]bool),
		building: make(map[string]bool),
		missing:  make(map[string]bool),
		selected: make(map[string]bool),
	}
}

// ResolveSheet resolves a single sheet of wb.
func ResolveSheet(wb *models.Workbook, s *models.Sheet, opts Options) (*models.Sheet, []models.Warning, error) {
	res, err := New(wb, opts).Resolve([]*models.Sheet{s})
	if err != nil {
		return nil, nil, err
	}
	return res.Sheets[0], res.Warnings, nil
}

// Resolve resolves the given sheets. The input sheets are not modified;
// Result.Sheets holds resolved copies in the same order.
//
// Warnings come in a fixed order whatever the worker count: failures of
// formulas on other sheets first, in discovery order, then one warning per
// failed formula of the selected sheets ordered by sheet, row and column.
func (r *Resolver) Resolve(sheets []*models.Sheet) (*Result, error) {
	r.prepare(sheets)
	r.frozen = true
	defer func() { r.frozen = false }()

	resolved := make([]*models.Sheet, len(sheets))
	sheetWarnings := make([][]models.Warning, len(sheets))

	var g errgroup.Group
	for i, s := range sheets {
		g.Go(func() error {
			out, warnings, err := r.resolveRows(s)
			if err != nil {
				return err
			}
			resolved[i] = out
			sheetWarnings[i] = warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	warnings := append([]models.Warning(nil), r.depWarnings...)
	for _, w := range sheetWarnings {
		warnings = append(warnings, w...)
	}

	r.log.Debug("lookup resolution finished",
		zap.Int("sheets", len(sheets)),
		zap.Int("indices", len(r.indices)),
		zap.Int("warnings", len(warnings)),
	)
	return &Result{Sheets: resolved, Warnings: warnings}, nil
}

// prepare builds every index and resolves every formula dependency the
// selected sheets need. It runs sequentially.
func (r *Resolver) prepare(sheets []*models.Sheet) {
	for _, s := range sheets {
		r.selected[s.Name] = true
	}
	for _, s := range sheets {
		for ri, row := range s.Rows {
			for ci, c := range row {
				if !c.IsPending() {
					continue
				}
				p := r.parse(c.Expr)
				if p.err != nil {
					continue
				}
				_, _ = r.index(p.lookup.Table, s.Name, 0)
				if ref, err := r.target(cellKey{s.Name, ri, ci}, p.lookup, 0); err == nil {
					r.resolveCell(ref, 1)
				}
			}
		}
	}
}

func (r *Resolver) resolveRows(s *models.Sheet) (*models.Sheet, []models.Warning, error) {
	out, err := s.Clone()
	if err != nil || !out.HasPending() {
		return out, nil, err
	}

	rows := out.Height()
	rowWarnings := make([][]models.Warning, rows)
	chunk := chunkSize(rows, r.opts.Workers)

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		g.Go(func() error {
			for ri := start; ri < end; ri++ {
				rowWarnings[ri] = r.resolveRow(out, ri)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var warnings []models.Warning
	for _, w := range rowWarnings {
		warnings = append(warnings, w...)
	}
	return out, warnings, nil
}

// resolveRow resolves the pending formulas of one row of out in place.
func (r *Resolver) resolveRow(out *models.Sheet, ri int) []models.Warning {
	var warnings []models.Warning
	row := out.Rows[ri]
	for ci, c := range row {
		if !c.IsPending() {
			continue
		}
		k := cellKey{out.Name, ri, ci}
		o, ok := r.memo[k]
		if !ok {
			o = r.evaluate(k, c, 0)
		}
		c.State = o.state
		c.Value = o.value
		row[ci] = c
		if o.err != nil {
			warnings = append(warnings, warningFor(k, o.err))
		}
	}
	return warnings
}

func chunkSize(rows, workers int) int {
	parts := workers * 4
	size := (rows + parts - 1) / parts
	if size < 1 {
		size = 1
	}
	return size
}

// resolveCell returns the display value of any cell, resolving pending
// formulas recursively. Outside the prepare phase it never writes.
func (r *Resolver) resolveCell(k cellKey, depth int) outcome {
	s, ok := r.sheet(k.sheet)
	if !ok {
		return failed(fmt.Errorf("%w: %q", ErrSheetMissing, k.sheet))
	}
	c := s.Cell(k.row, k.col)
	if !c.IsPending() {
		return outcome{value: c.Display(), state: models.Resolved}
	}
	if o, ok := r.memo[k]; ok {
		return o
	}
	if r.frozen {
		return failed(fmt.Errorf("%s!%s was not prepared", k.sheet, models.CellName(k.row, k.col)))
	}
	if r.visiting[k] {
		return failed(ErrCircularReference)
	}
	if depth > r.opts.MaxDepth {
		return failed(ErrMaxDepth)
	}

	r.visiting[k] = true
	o := r.evaluate(k, c, depth)
	delete(r.visiting, k)

	r.memo[k] = o
	if o.err != nil && !r.selected[k.sheet] {
		r.depWarnings = append(r.depWarnings, warningFor(k, o.err))
	}
	return o
}

// evaluate computes the value of the pending formula c at k.
func (r *Resolver) evaluate(k cellKey, c models.Cell, depth int) outcome {
	p := r.parse(c.Expr)
	if p.err != nil {
		if r.opts.FallbackToCached && !c.Value.IsNull() {
			return outcome{value: c.Value, state: models.Resolved}
		}
		return failed(p.err)
	}
	ref, err := r.target(k, p.lookup, depth)
	if err != nil {
		return failed(err)
	}
	// A returned cell that failed on its own still yields its null value;
	// its warning is reported once, at that cell.
	o := r.resolveCell(ref, depth+1)
	if errors.Is(o.err, ErrCircularReference) || errors.Is(o.err, ErrMaxDepth) {
		return failed(o.err)
	}
	return outcome{value: o.value, state: models.Resolved}
}

// target locates the table cell the lookup at k returns.
func (r *Resolver) target(k cellKey, lk Lookup, depth int) (cellKey, error) {
	key := lk.Operand.Literal
	if lk.Operand.IsRef {
		ref, ok := r.operandKey(k, lk.Operand)
		if !ok {
			return cellKey{}, fmt.Errorf("%w: %q", ErrSheetMissing, lk.Operand.Sheet)
		}
		o := r.resolveCell(ref, depth+1)
		if o.err != nil && !errors.Is(o.err, ErrLookupNotFound) {
			return cellKey{}, o.err
		}
		key = o.value
	}

	ix, err := r.index(lk.Table, k.sheet, depth)
	if err != nil {
		return cellKey{}, err
	}
	if lk.Column > ix.Width() {
		return cellKey{}, fmt.Errorf("%w: %d exceeds table width %d", ErrColumnOutOfRange, lk.Column, ix.Width())
	}
	i, ok := ix.Find(key)
	if !ok {
		return cellKey{}, ErrLookupNotFound
	}
	row, col := ix.Cell(i, lk.Column)
	return cellKey{ix.Range.Sheet, row, col}, nil
}

func (r *Resolver) operandKey(from cellKey, op Operand) (cellKey, bool) {
	name := from.sheet
	if op.Sheet != "" {
		s, ok := r.sheet(op.Sheet)
		if !ok {
			return cellKey{}, false
		}
		name = s.Name
	}
	return cellKey{name, op.Row - 1, op.Col - 1}, true
}

// index returns the shared Index for a table range, building it on first use
// during the prepare phase.
func (r *Resolver) index(table models.CellRange, from string, depth int) (*Index, error) {
	if table.Sheet == "" {
		table.Sheet = from
	}
	s, ok := r.sheet(table.Sheet)
	if !ok {
		key := strings.ToLower(table.String())
		if !r.frozen && !r.missing[key] {
			r.missing[key] = true
			r.log.Warn("lookup table references a missing sheet", zap.String("range", table.String()))
		}
		return nil, fmt.Errorf("%w: %q", ErrSheetMissing, table.Sheet)
	}
	table.Sheet = s.Name

	key := table.Key()
	if e, ok := r.indices[key]; ok {
		return e.ix, e.err
	}
	if r.frozen {
		return nil, fmt.Errorf("table %s was not prepared", table)
	}
	if r.building[key] {
		return nil, ErrCircularReference
	}
	r.building[key] = true
	defer delete(r.building, key)

	bounds := parser.ClampRange(table, s)
	if bounds.R2 > s.Height() {
		bounds.R2 = s.Height()
	}
	keys := make([]models.Value, 0, max(bounds.Height(), 0))
	for row := bounds.R1; row <= bounds.R2; row++ {
		keys = append(keys, r.resolveCell(cellKey{s.Name, row - 1, bounds.C1 - 1}, depth+1).value)
	}
	ix := NewIndex(bounds, keys)
	r.indices[key] = indexEntry{ix: ix}

	r.log.Debug("built lookup index",
		zap.String("range", bounds.String()),
		zap.Int("rows", len(keys)),
		zap.Int("keys", ix.Len()),
	)
	return ix, nil
}

func (r *Resolver) parse(expr string) parsedFormula {
	if p, ok := r.parsed[expr]; ok {
		return p
	}
	lk, err := ParseLookup(expr)
	p := parsedFormula{lookup: lk, err: err}
	if !r.frozen {
		r.parsed[expr] = p
	}
	return p
}

func (r *Resolver) sheet(name string) (*models.Sheet, bool) {
	return r.wb.Sheet(name)
}

func warningFor(k cellKey, err error) models.Warning {
	ref := k.sheet + "!" + models.CellName(k.row, k.col)
	cerr := xerrors.NewCellError(xerrors.FormulaResolutionError, ref, err)
	return models.NewWarning(cerr.Kind, k.sheet, k.row+1, k.col+1, cerr.Error())
}
