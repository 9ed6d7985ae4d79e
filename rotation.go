package scran

import (
	"context"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/piyushjo15/scran/matrix"
	"github.com/piyushjo15/scran/parallel"
)

// completeRotation assembles the loading matrix for the retained rank d.
//
// Without fill, the rotation has one row per gene used in the
// decomposition, in used order. With fill, it has one row per gene of the
// input matrix: used genes take their right singular vector directly, and
// excluded genes get an extrapolated loading obtained by projecting their
// mean-centered expression row onto the left singular vectors and
// dividing by the singular values. This solves X = U S Vᵀ for the implied
// Vᵀ row of an observation that did not participate in the decomposition.
func completeRotation(ctx context.Context, m matrix.Reader, used []int, u, v *mat.Dense, values []float64, d int, fill bool, g *parallel.Group) (*mat.Dense, []int, error) {
	if !fill {
		rotation := mat.DenseCopyOf(v.Slice(0, len(used), 0, d))
		rows := make([]int, len(used))
		copy(rows, used)
		return rotation, rows, nil
	}

	genes, cells := m.Dims()

	pos := make(map[int]int, len(used))
	for p, idx := range used {
		pos[idx] = p
	}

	rotation := mat.NewDense(genes, d, nil)
	rows := matrix.FullSubset(genes)

	err := g.ForEach(ctx, genes, func(gene int) error {
		if p, ok := pos[gene]; ok {
			for j := 0; j < d; j++ {
				rotation.Set(gene, j, v.At(p, j))
			}
			return nil
		}

		row := m.Row(nil, gene)
		mean := stat.Mean(row, nil)
		for c := range row {
			row[c] -= mean
		}

		for j := 0; j < d; j++ {
			if values[j] <= 0 {
				continue
			}
			var dot float64
			for c := 0; c < cells; c++ {
				dot += row[c] * u.At(c, j)
			}
			rotation.Set(gene, j, dot/values[j])
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return rotation, rows, nil
}
