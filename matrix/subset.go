package matrix

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrIndexOutOfRange indicates a subset entry outside the matrix rows.
type ErrIndexOutOfRange struct {
	Index int
	Rows  int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("subset index %d out of range for %d rows", e.Index, e.Rows)
}

// ErrDuplicateIndex indicates a subset entry that appears more than once.
type ErrDuplicateIndex struct {
	Index int
}

func (e *ErrDuplicateIndex) Error() string {
	return fmt.Sprintf("duplicate subset index %d", e.Index)
}

// CheckSubset validates an ordered row subset against a matrix with the
// given row count: every index must be in [0, rows) and indices must be
// distinct. A nil or empty subset is valid.
func CheckSubset(subset []int, rows int) error {
	seen := roaring.New()
	for _, idx := range subset {
		if idx < 0 || idx >= rows {
			return &ErrIndexOutOfRange{Index: idx, Rows: rows}
		}
		if seen.Contains(uint32(idx)) {
			return &ErrDuplicateIndex{Index: idx}
		}
		seen.Add(uint32(idx))
	}
	return nil
}

// FullSubset returns the identity subset 0..rows-1.
func FullSubset(rows int) []int {
	s := make([]int, rows)
	for i := range s {
		s[i] = i
	}
	return s
}

// SubsetFromBitmap converts a bitmap of row indices into an ordered
// subset (ascending).
func SubsetFromBitmap(b *roaring.Bitmap) []int {
	s := make([]int, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		s = append(s, int(it.Next()))
	}
	return s
}
