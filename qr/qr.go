// Package qr wraps a Householder QR factorization of a design matrix and
// exposes the two operations residual projection needs: applying Qᵀ and Q
// to a cells-length vector in place.
//
// The factorization itself is delegated to LAPACK (gonum lapack64
// Geqrf/Ormqr); this package never materializes Q explicitly. The
// reflector representation stays opaque behind ApplyTranspose, Apply and
// Ncoefs, so callers can substitute any other orthogonal-transform
// implementation.
package qr

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrVectorLength is returned when an input vector does not match
	// the factorized row count.
	ErrVectorLength = errors.New("vector length does not match factorization")

	// ErrUnderdetermined is returned when the design matrix has fewer
	// rows than columns.
	ErrUnderdetermined = errors.New("design matrix has fewer rows than columns")
)

// Factorization holds the implicit Householder representation of the Q
// factor of a design matrix, plus the number of model coefficients.
//
// A Factorization is safe for concurrent use once constructed; the
// reflector data is read-only and workspaces are allocated per call.
type Factorization struct {
	a    blas64.General // reflectors in the lower triangle
	tau  []float64
	rows int
	cols int
}

// New factorizes the cells × coefficients design matrix. The matrix is
// copied; the caller keeps ownership of design.
func New(design *mat.Dense) (*Factorization, error) {
	r, c := design.Dims()
	if r < c {
		return nil, fmt.Errorf("%w: %d rows, %d columns", ErrUnderdetermined, r, c)
	}

	a := mat.DenseCopyOf(design).RawMatrix()
	tau := make([]float64, c)

	work := make([]float64, 1)
	lapack64.Geqrf(a, tau, work, -1)
	work = make([]float64, int(work[0]))
	lapack64.Geqrf(a, tau, work, len(work))

	return &Factorization{a: a, tau: tau, rows: r, cols: c}, nil
}

// Ncoefs returns the number of model coefficients spanned by the
// factorized design matrix.
func (f *Factorization) Ncoefs() int { return f.cols }

// ApplyTranspose computes v = Qᵀv in place. len(v) must equal the design
// matrix row count.
func (f *Factorization) ApplyTranspose(v []float64) error {
	return f.apply(blas.Trans, v)
}

// Apply computes v = Qv in place. len(v) must equal the design matrix
// row count.
func (f *Factorization) Apply(v []float64) error {
	return f.apply(blas.NoTrans, v)
}

func (f *Factorization) apply(trans blas.Transpose, v []float64) error {
	if len(v) != f.rows {
		return fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(v), f.rows)
	}

	c := blas64.General{Rows: f.rows, Cols: 1, Stride: 1, Data: v}

	work := make([]float64, 1)
	lapack64.Ormqr(blas.Left, trans, f.a, f.tau, c, work, -1)
	work = make([]float64, int(work[0]))
	lapack64.Ormqr(blas.Left, trans, f.a, f.tau, c, work, len(work))

	return nil
}
