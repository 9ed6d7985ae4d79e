package scran

// Orthogonal is an opaque orthogonal transformation, typically the Q
// factor of a QR-decomposed design matrix (see the qr package). The
// representation is the implementation's business; residual projection
// only needs the transpose and forward applications plus the number of
// model coefficients spanned by the factorized design.
//
// Both Apply methods operate in place on a cells-length buffer and must
// return an error, without modifying the buffer, if its length does not
// match the factorization.
type Orthogonal interface {
	// ApplyTranspose computes v = Qᵀv in place.
	ApplyTranspose(v []float64) error

	// Apply computes v = Qv in place.
	Apply(v []float64) error

	// Ncoefs returns the number of model coefficients.
	Ncoefs() int
}
