// Package scran implements the matrix-decomposition core of a single-cell
// expression analysis workflow: residual projection against a fitted
// design matrix, and noise-aware principal component selection.
//
// # Residuals
//
// Residuals removes modeled covariate effects (batch, treatment) from each
// gene row of a genes × cells matrix using a precomputed orthogonal
// factorization of the design matrix:
//
//	f, _ := qr.New(design)
//	res, err := scran.Residuals(ctx, exprs, subset, f,
//	    scran.WithLowerBound(0))
//
// Values at or below the lower bound are treated as non-detections: after
// projection they are rewritten to one less than the smallest residual in
// their row, so they still sort below every genuine residual.
//
// # Denoising PCA
//
// DenoisePCA decomposes the expression matrix and keeps only as many
// components as the technical noise budget allows:
//
//	tech := scran.TechTrend(fitted.Var)
//	pca, err := scran.DenoisePCA(ctx, exprs, nil, tech,
//	    scran.WithMaxRank(50),
//	    scran.WithParallel(parallel.New(4)))
//
// Genes whose observed variance does not exceed their technical variance
// are excluded from the decomposition; the retained rank is chosen so that
// the discarded trailing components account for at least the summed
// technical variance.
//
// Both entry points are synchronous and retain no state across calls;
// concurrent calls with independent inputs are safe. Parallel fan-out
// happens only through an explicitly supplied parallel.Group.
package scran
