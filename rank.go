package scran

// chooseRank picks the number of components to retain from a descending
// explained-variance spectrum, a summed technical-noise budget and the
// grand total variance of the decomposed genes.
//
// Walking from the weakest component, it finds the smallest count m of
// trailing components whose cumulative variance, plus the variance living
// beyond the computed top-k, exceeds the technical budget; everything
// from the top through that boundary component is kept. If even the full
// estimate does not exceed the budget, only the top component survives.
// The result is then clamped into [minRank, min(maxRank, k)].
//
// A non-positive grand total means there is no retainable signal at all;
// the rank collapses to the clamped minimum without touching the
// spectrum.
func chooseRank(explained []float64, techTotal, grandTotal float64, minRank, maxRank int) int {
	k := len(explained)

	upper := maxRank
	if upper > k {
		upper = k
	}

	clamp := func(d int) int {
		if d < minRank {
			d = minRank
		}
		if d > upper {
			d = upper
		}
		return d
	}

	if grandTotal <= 0 {
		return clamp(1)
	}

	var computed float64
	for _, v := range explained {
		computed += v
	}
	beyond := grandTotal - computed

	d := 1
	cum := 0.0
	for m := 1; m <= k; m++ {
		cum += explained[k-m]
		if cum+beyond > techTotal {
			d = k - m + 1
			break
		}
	}

	return clamp(d)
}
