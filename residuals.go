package scran

import (
	"context"
	"fmt"
	"math"

	"github.com/piyushjo15/scran/matrix"
)

// Residuals computes, for each row in subset, the residuals left after
// projecting out the modeled subspace of f. Output rows follow subset
// order; a nil subset means all rows. The result is always dense: rank
// reduction destroys any sparsity structure of the input.
//
// With WithLowerBound set to a finite value, cells whose raw value is at
// or below the bound are treated as non-detections: after projection they
// are overwritten with min(row residuals) − 1, preserving their rank
// below every genuine residual without inventing a plausible value.
func Residuals(ctx context.Context, m matrix.Reader, subset []int, f Orthogonal, opts ...Option) (*matrix.Dense, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	out, err := residuals(ctx, m, subset, f, o)

	rows := 0
	if out != nil {
		rows, _ = out.Dims()
	}
	_, cells := m.Dims()
	o.logger.LogResiduals(ctx, rows, cells, err)

	return out, err
}

func residuals(ctx context.Context, m matrix.Reader, subset []int, f Orthogonal, o options) (*matrix.Dense, error) {
	rows, cells := m.Dims()
	if subset == nil {
		subset = matrix.FullSubset(rows)
	}
	if err := matrix.CheckSubset(subset, rows); err != nil {
		return nil, err
	}
	if cells == 0 {
		if len(subset) == 0 {
			return matrix.NewDense(0, 0), nil
		}
		return nil, ErrNoCells
	}

	ncoefs := f.Ncoefs()
	if ncoefs < 0 || ncoefs > cells {
		return nil, &ErrDimensionMismatch{Expected: cells, Actual: ncoefs}
	}

	// Probe the factorization length up front so that no partial output
	// is written on a mismatch.
	buf := make([]float64, cells)
	if err := f.ApplyTranspose(buf); err != nil {
		return nil, fmt.Errorf("orthogonal factorization: %w", err)
	}

	check := !math.IsNaN(o.lowerBound) && !math.IsInf(o.lowerBound, 0)

	out := matrix.NewDense(len(subset), cells)
	var below []int

	for s, idx := range subset {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		buf = m.Row(buf, idx)

		if check {
			below = below[:0]
			for c, v := range buf {
				if v <= o.lowerBound {
					below = append(below, c)
				}
			}
		}

		// Rotate into the coefficient + residual basis, drop the
		// coefficient block, rotate back.
		if err := f.ApplyTranspose(buf); err != nil {
			return nil, fmt.Errorf("orthogonal factorization: %w", err)
		}
		for c := 0; c < ncoefs; c++ {
			buf[c] = 0
		}
		if err := f.Apply(buf); err != nil {
			return nil, fmt.Errorf("orthogonal factorization: %w", err)
		}

		if check && len(below) > 0 {
			lowest := buf[0]
			for _, v := range buf[1:] {
				if v < lowest {
					lowest = v
				}
			}
			lowest--
			for _, c := range below {
				buf[c] = lowest
			}
		}

		out.SetRow(s, buf)
	}

	return out, nil
}
