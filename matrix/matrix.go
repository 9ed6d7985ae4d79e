package matrix

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Reader is a read-only, row-wise view of a genes × cells matrix.
//
// Implementations must be safe for concurrent reads.
type Reader interface {
	// Dims returns the number of rows (genes) and columns (cells).
	Dims() (rows, cols int)

	// Row copies row i into dst and returns it. If dst is nil or too
	// short, a new buffer is allocated. Row panics if i is out of range.
	Row(dst []float64, i int) []float64
}

// Writer is a Reader whose rows can be overwritten.
type Writer interface {
	Reader

	// SetRow overwrites row i with src. SetRow panics if i is out of
	// range or len(src) does not equal the column count.
	SetRow(i int, src []float64)
}

// Dense is a row-major dense matrix. Unlike gonum's mat.Dense it supports
// zero-row shapes with a well-defined column count, which residual
// projection needs for empty subsets.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense creates a zero-valued rows × cols dense matrix.
func NewDense(rows, cols int) *Dense {
	if rows < 0 || cols < 0 {
		panic("matrix: negative dimension")
	}
	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromMat copies a gonum dense matrix into a Dense.
func FromMat(m *mat.Dense) *Dense {
	r, c := m.Dims()
	d := NewDense(r, c)
	for i := 0; i < r; i++ {
		copy(d.data[i*c:(i+1)*c], m.RawRowView(i))
	}
	return d
}

// Dims returns the matrix shape.
func (d *Dense) Dims() (rows, cols int) { return d.rows, d.cols }

// At returns the value at (i, j). Together with Dims and T this makes
// Dense a gonum mat.Matrix.
func (d *Dense) At(i, j int) float64 {
	if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
		panic("matrix: index out of range")
	}
	return d.data[i*d.cols+j]
}

// T returns the transpose view of the matrix.
func (d *Dense) T() mat.Matrix { return mat.Transpose{Matrix: d} }

// Row copies row i into dst and returns it.
func (d *Dense) Row(dst []float64, i int) []float64 {
	if i < 0 || i >= d.rows {
		panic("matrix: row index out of range")
	}
	dst = ensure(dst, d.cols)
	copy(dst, d.data[i*d.cols:(i+1)*d.cols])
	return dst
}

// SetRow overwrites row i with src.
func (d *Dense) SetRow(i int, src []float64) {
	if i < 0 || i >= d.rows {
		panic("matrix: row index out of range")
	}
	if len(src) != d.cols {
		panic("matrix: row length mismatch")
	}
	copy(d.data[i*d.cols:(i+1)*d.cols], src)
}

// RawData returns the backing slice in row-major order. Mutating it
// mutates the matrix.
func (d *Dense) RawData() []float64 { return d.data }

// Mat returns a gonum view sharing the backing data. It returns nil for
// degenerate shapes (zero rows or columns), which gonum cannot represent.
func (d *Dense) Mat() *mat.Dense {
	if d.rows == 0 || d.cols == 0 {
		return nil
	}
	return mat.NewDense(d.rows, d.cols, d.data)
}

// CSR is a read-only Reader over a compressed sparse row matrix.
type CSR struct {
	m *sparse.CSR
}

// FromCSR wraps a CSR matrix. The matrix is borrowed, not copied.
func FromCSR(m *sparse.CSR) *CSR { return &CSR{m: m} }

// Dims returns the matrix shape.
func (c *CSR) Dims() (rows, cols int) { return c.m.Dims() }

// Row densifies row i into dst and returns it.
func (c *CSR) Row(dst []float64, i int) []float64 {
	rows, cols := c.m.Dims()
	if i < 0 || i >= rows {
		panic("matrix: row index out of range")
	}
	dst = ensure(dst, cols)
	for j := range dst {
		dst[j] = 0
	}
	c.m.DoRowNonZero(i, func(_, j int, v float64) {
		dst[j] = v
	})
	return dst
}

func ensure(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}
	return dst[:n]
}
