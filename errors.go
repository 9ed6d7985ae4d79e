package scran

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCells is returned when a computation is requested on a matrix
	// with zero columns.
	ErrNoCells = errors.New("matrix has no cells")

	// ErrNotEnoughCells is returned when variance estimation needs at
	// least two cells.
	ErrNotEnoughCells = errors.New("variance estimation needs at least two cells")

	// ErrNoSignal is returned when no gene survives the biological
	// variance filter, leaving nothing to decompose.
	ErrNoSignal = errors.New("no genes retained after variance filtering")

	// ErrEmptySpectrum is returned when the decomposition produced no
	// singular values.
	ErrEmptySpectrum = errors.New("no singular values computed")

	// ErrNoTechnicalVariance is returned when the technical-variance
	// input was not constructed via TechTrend, TechValues or TechStats.
	ErrNoTechnicalVariance = errors.New("technical variance not specified")
)

// ErrDimensionMismatch indicates that a supplied vector or factorization
// does not agree with the matrix shape.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidRank indicates inconsistent rank bounds.
type ErrInvalidRank struct {
	Min int
	Max int
}

func (e *ErrInvalidRank) Error() string {
	return fmt.Sprintf("invalid rank bounds: min %d, max %d", e.Min, e.Max)
}
