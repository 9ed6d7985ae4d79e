package scran

import (
	"math"

	"github.com/piyushjo15/scran/parallel"
	"github.com/piyushjo15/scran/svd"
)

const (
	// DefaultMinRank is the smallest retained rank when none is configured.
	DefaultMinRank = 1
	// DefaultMaxRank caps the retained rank and the computed spectrum
	// when none is configured.
	DefaultMaxRank = 50
)

type options struct {
	lowerBound  float64
	minRank     int
	maxRank     int
	fillMissing bool
	factorizer  svd.Factorizer
	group       *parallel.Group
	logger      *Logger
}

// Option configures Residuals and DenoisePCA. Each option documents which
// entry points honor it; irrelevant options are ignored.
type Option func(*options)

func defaultOptions() options {
	return options{
		lowerBound: math.NaN(),
		minRank:    DefaultMinRank,
		maxRank:    DefaultMaxRank,
		factorizer: svd.Thin{},
		logger:     NoopLogger(),
	}
}

// WithLowerBound enables detection-floor handling in Residuals: cells at
// or below bound are rewritten to sort below every genuine residual in
// their row. A non-finite bound (the default) disables the handling.
func WithLowerBound(bound float64) Option {
	return func(o *options) {
		o.lowerBound = bound
	}
}

// WithMinRank sets the minimum retained rank for DenoisePCA.
func WithMinRank(min int) Option {
	return func(o *options) {
		o.minRank = min
	}
}

// WithMaxRank sets the maximum retained rank for DenoisePCA. It also caps
// how many singular components are computed and reported.
func WithMaxRank(max int) Option {
	return func(o *options) {
		o.maxRank = max
	}
}

// WithFillMissing makes DenoisePCA extrapolate rotation rows for genes
// that were excluded from the decomposition, so the rotation matrix has
// one row per gene of the input matrix.
func WithFillMissing(fill bool) Option {
	return func(o *options) {
		o.fillMissing = fill
	}
}

// WithFactorizer replaces the SVD backend used by DenoisePCA.
// Passing nil restores the default thin factorizer.
func WithFactorizer(f svd.Factorizer) Option {
	return func(o *options) {
		if f == nil {
			f = svd.Thin{}
		}
		o.factorizer = f
	}
}

// WithParallel supplies the execution context used for per-gene fan-out
// (variance scans, rotation extrapolation). A nil group runs sequentially.
func WithParallel(g *parallel.Group) Option {
	return func(o *options) {
		o.group = g
	}
}

// WithLogger configures structured logging. Passing nil restores the
// no-op default.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
