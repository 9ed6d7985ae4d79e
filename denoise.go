package scran

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/piyushjo15/scran/matrix"
)

// PCAResult is the outcome of a denoising principal component analysis.
type PCAResult struct {
	// Components holds the low-dimensional cell embedding, cells × Rank.
	Components *mat.Dense

	// Rotation holds per-gene loadings, len(RotationRows) × Rank.
	Rotation *mat.Dense

	// RotationRows maps each Rotation row to its gene index in the input
	// matrix. Without WithFillMissing it lists only the genes used in
	// the decomposition, in decomposition order.
	RotationRows []int

	// PercentVar reports, for every computed component (not just the
	// retained ones), the percentage of the grand total variance it
	// explains.
	PercentVar []float64

	// Rank is the retained number of components.
	Rank int

	// Used marks the genes that participated in the decomposition.
	Used *roaring.Bitmap
}

// DenoisePCA decomposes the genes × cells matrix restricted to subset
// (nil means all genes), discarding trailing components that are
// attributable to technical noise.
//
// Genes whose observed variance does not strictly exceed their technical
// variance are excluded before the decomposition; the remaining
// column-centered cells × genes matrix is factorized and the retained
// rank is chosen so that the dropped components account for at least the
// summed technical variance of the decomposed genes.
func DenoisePCA(ctx context.Context, m matrix.Reader, subset []int, tech TechnicalVariance, opts ...Option) (*PCAResult, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	res, err := denoisePCA(ctx, m, subset, tech, o)

	used, rank := 0, 0
	if res != nil {
		used, rank = int(res.Used.GetCardinality()), res.Rank
	}
	o.logger.LogDenoisePCA(ctx, used, rank, err)

	return res, err
}

func denoisePCA(ctx context.Context, m matrix.Reader, subset []int, tech TechnicalVariance, o options) (*PCAResult, error) {
	genes, cells := m.Dims()

	if o.minRank < 1 || o.maxRank < o.minRank {
		return nil, &ErrInvalidRank{Min: o.minRank, Max: o.maxRank}
	}
	if subset == nil {
		subset = matrix.FullSubset(genes)
	}
	if err := matrix.CheckSubset(subset, genes); err != nil {
		return nil, err
	}
	if cells == 0 {
		return nil, ErrNoCells
	}
	if cells < 2 {
		return nil, ErrNotEnoughCells
	}

	means, observed, err := rowStats(ctx, m, subset, o.group)
	if err != nil {
		return nil, err
	}

	technical, err := tech.resolve(subset, genes, means, observed)
	if err != nil {
		return nil, err
	}

	// Biological variance filter: keep only genes whose observed
	// variance strictly exceeds the technical component. This drops
	// noise-dominated genes and any +Inf technical variances.
	usedSet := roaring.New()
	var used []int
	var techTotal, grandTotal float64
	for i, idx := range subset {
		if observed[i] > technical[i] {
			usedSet.Add(uint32(idx))
			used = append(used, idx)
			techTotal += technical[i]
			grandTotal += observed[i]
		}
	}
	if len(used) == 0 {
		return nil, ErrNoSignal
	}

	// Column-centered cells × genes-used matrix for the decomposition.
	centered := mat.NewDense(cells, len(used), nil)
	buf := make([]float64, cells)
	col := 0
	for i, idx := range subset {
		if !usedSet.Contains(uint32(idx)) {
			continue
		}
		buf = m.Row(buf, idx)
		for c := range buf {
			buf[c] -= means[i]
		}
		centered.SetCol(col, buf)
		col++
	}

	k := o.maxRank
	if lim := min(cells, len(used)); k > lim {
		k = lim
	}

	dec, err := o.factorizer.Factorize(centered, k)
	if err != nil {
		return nil, fmt.Errorf("truncated svd: %w", err)
	}
	if len(dec.Values) == 0 {
		return nil, ErrEmptySpectrum
	}
	k = len(dec.Values)

	// Per-component explained variance, matching the unbiased per-gene
	// variances summed into grandTotal.
	explained := make([]float64, k)
	for j, s := range dec.Values {
		explained[j] = s * s / float64(cells-1)
	}

	d := chooseRank(explained, techTotal, grandTotal, o.minRank, o.maxRank)

	components := mat.NewDense(cells, d, nil)
	for c := 0; c < cells; c++ {
		for j := 0; j < d; j++ {
			components.Set(c, j, dec.U.At(c, j)*dec.Values[j])
		}
	}

	rotation, rotationRows, err := completeRotation(ctx, m, used, dec.U, dec.V, dec.Values, d, o.fillMissing, o.group)
	if err != nil {
		return nil, err
	}

	percent := make([]float64, k)
	if grandTotal > 0 {
		for j := range explained {
			percent[j] = explained[j] / grandTotal * 100
		}
	}

	return &PCAResult{
		Components:   components,
		Rotation:     rotation,
		RotationRows: rotationRows,
		PercentVar:   percent,
		Rank:         d,
		Used:         usedSet,
	}, nil
}
