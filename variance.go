package scran

import (
	"math"
)

// VarianceStats carries a per-gene variance decomposition as reported by
// an upstream noise model.
type VarianceStats struct {
	// Total is the reported total variance of the gene.
	Total float64
	// Tech is the reported technical component of that total.
	Tech float64
}

type techKind uint8

const (
	techTrend techKind = iota + 1
	techValues
	techStats
)

// TechnicalVariance is a closed union of the three accepted
// representations of per-gene technical variance. Construct one with
// TechTrend, TechValues or TechStats; the zero value is invalid and is
// rejected by DenoisePCA.
type TechnicalVariance struct {
	kind   techKind
	trend  func(mean float64) float64
	values []float64
	stats  []VarianceStats
}

// TechTrend specifies technical variance as a function of mean
// expression, evaluated per gene at its mean over all cells.
func TechTrend(fn func(mean float64) float64) TechnicalVariance {
	return TechnicalVariance{kind: techTrend, trend: fn}
}

// TechValues specifies technical variance directly, as a vector aligned
// to all genes of the matrix (not to the subset).
func TechValues(values []float64) TechnicalVariance {
	return TechnicalVariance{kind: techValues, values: values}
}

// TechStats specifies technical variance through reported per-gene
// variance decompositions, aligned to all genes of the matrix.
//
// The reported totals may come from a different estimator than the
// freshly observed variances, so the technical component is rescaled by
// observed/reported. Two degenerate cases are policy: if both totals are
// zero the technical variance is zero, and if only the reported total is
// zero it becomes +Inf, which guarantees the gene is later excluded as
// unreliable.
func TechStats(stats []VarianceStats) TechnicalVariance {
	return TechnicalVariance{kind: techStats, stats: stats}
}

// resolve normalizes the union into one technical variance per subset
// entry. genes is the full row count of the matrix; means and observed
// are aligned to subset.
func (tv TechnicalVariance) resolve(subset []int, genes int, means, observed []float64) ([]float64, error) {
	tech := make([]float64, len(subset))

	switch tv.kind {
	case techTrend:
		for i := range subset {
			tech[i] = tv.trend(means[i])
		}

	case techValues:
		if len(tv.values) != genes {
			return nil, &ErrDimensionMismatch{Expected: genes, Actual: len(tv.values)}
		}
		for i, idx := range subset {
			tech[i] = tv.values[idx]
		}

	case techStats:
		if len(tv.stats) != genes {
			return nil, &ErrDimensionMismatch{Expected: genes, Actual: len(tv.stats)}
		}
		for i, idx := range subset {
			rep := tv.stats[idx]
			obs := observed[i]
			switch {
			case obs == 0 && rep.Total == 0:
				tech[i] = 0
			case rep.Total == 0:
				tech[i] = math.Inf(1)
			default:
				tech[i] = rep.Tech * (obs / rep.Total)
			}
		}

	default:
		return nil, ErrNoTechnicalVariance
	}

	return tech, nil
}
