// Package svd provides the truncated singular value decomposition
// consumed by the denoising step.
//
// The factorization algorithm is gonum's; this package only truncates the
// thin decomposition to the requested rank cap. Callers that want a
// different backend (e.g. a randomized solver) can supply their own
// Factorizer.
package svd

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrFactorization is returned when the backend fails to converge.
var ErrFactorization = errors.New("svd factorization failed")

// Result holds the top-k components of a thin SVD.
type Result struct {
	// Values are the singular values in descending order, length k.
	Values []float64

	// U holds the left singular vectors, rows × k.
	U *mat.Dense

	// V holds the right singular vectors, cols × k.
	V *mat.Dense
}

// Factorizer computes a truncated thin SVD. The input is expected to be
// column-centered by the caller; k caps the number of returned components
// and is clamped to min(rows, cols).
type Factorizer interface {
	Factorize(a mat.Matrix, k int) (*Result, error)
}

// Thin is the gonum-backed Factorizer. It computes the full thin
// decomposition and truncates.
type Thin struct{}

// Factorize computes the top-k singular triplets of a.
func (Thin) Factorize(a mat.Matrix, k int) (*Result, error) {
	var s mat.SVD
	if ok := s.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrFactorization
	}

	values := s.Values(nil)
	if k > len(values) {
		k = len(values)
	}

	var u, v mat.Dense
	s.UTo(&u)
	s.VTo(&v)

	ur, _ := u.Dims()
	vr, _ := v.Dims()

	return &Result{
		Values: values[:k],
		U:      mat.DenseCopyOf(u.Slice(0, ur, 0, k)),
		V:      mat.DenseCopyOf(v.Slice(0, vr, 0, k)),
	}, nil
}
