package scran

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/piyushjo15/scran/matrix"
	"github.com/piyushjo15/scran/parallel"
)

// rowStats computes the per-gene mean and unbiased variance over all
// cells for every subset entry, fanning out across g.
func rowStats(ctx context.Context, m matrix.Reader, subset []int, g *parallel.Group) (means, vars []float64, err error) {
	_, cells := m.Dims()
	means = make([]float64, len(subset))
	vars = make([]float64, len(subset))

	bufs := sync.Pool{
		New: func() any {
			b := make([]float64, cells)
			return &b
		},
	}

	err = g.ForEach(ctx, len(subset), func(i int) error {
		bp := bufs.Get().(*[]float64)
		defer bufs.Put(bp)

		row := m.Row(*bp, subset[i])
		means[i], vars[i] = stat.MeanVariance(row, nil)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return means, vars, nil
}
