package resolver

import "github.com/ukaji3/xlimport-go/pkg/xlimport/models"

// Index maps the resolved first-column values of a table range to row
// offsets within that range. It is immutable once built.
type Index struct {
	// Range is the normalized, clamped table range.
	Range models.CellRange
	keys  map[models.Value]int
}

// NewIndex builds an index over the key column of a range, one value per
// row. Null keys are skipped and the first occurrence of a duplicate key wins.
func NewIndex(r models.CellRange, keys []models.Value) *Index {
	ix := &Index{Range: r, keys: make(map[models.Value]int, len(keys))}
	for i, k := range keys {
		if k.IsNull() {
			continue
		}
		if _, seen := ix.keys[k]; !seen {
			ix.keys[k] = i
		}
	}
	return ix
}

// Find returns the offset of the row whose first column equals key.
func (ix *Index) Find(key models.Value) (int, bool) {
	i, ok := ix.keys[key]
	return i, ok
}

// Cell returns the 0-based sheet coordinates of the 1-based column of the
// row at offset i.
func (ix *Index) Cell(i, column int) (row, col int) {
	return ix.Range.R1 - 1 + i, ix.Range.C1 - 2 + column
}

// Width returns the number of columns of the range.
func (ix *Index) Width() int { return ix.Range.Width() }

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.keys) }
