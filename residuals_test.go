package scran

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/piyushjo15/scran/matrix"
	"github.com/piyushjo15/scran/qr"
)

// interceptOnly builds the factorization of a ones column, so residuals
// are simply row minus row mean.
func interceptOnly(t *testing.T, cells int) *qr.Factorization {
	t.Helper()

	design := mat.NewDense(cells, 1, nil)
	for i := 0; i < cells; i++ {
		design.Set(i, 0, 1)
	}
	f, err := qr.New(design)
	require.NoError(t, err)
	return f
}

func denseOf(rows ...[]float64) *matrix.Dense {
	d := matrix.NewDense(len(rows), len(rows[0]))
	for i, r := range rows {
		d.SetRow(i, r)
	}
	return d
}

func TestResidualsCentersRows(t *testing.T) {
	m := denseOf(
		[]float64{1, 2, 3, 4},
		[]float64{10, 10, 10, 10},
	)
	f := interceptOnly(t, 4)

	out, err := Residuals(context.Background(), m, nil, f)
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 4, cols)

	want := [][]float64{
		{-1.5, -0.5, 0.5, 1.5},
		{0, 0, 0, 0},
	}
	for i := range want {
		got := out.Row(nil, i)
		for j := range want[i] {
			assert.InDelta(t, want[i][j], got[j], 1e-10)
		}
	}
}

func TestResidualsSubsetOrder(t *testing.T) {
	m := denseOf(
		[]float64{1, 1, 1},
		[]float64{2, 4, 6},
		[]float64{9, 0, 0},
	)
	f := interceptOnly(t, 3)

	out, err := Residuals(context.Background(), m, []int{2, 0}, f)
	require.NoError(t, err)

	rows, _ := out.Dims()
	require.Equal(t, 2, rows)

	// Row 0 of the output is gene 2, row 1 is gene 0.
	got := out.Row(nil, 0)
	assert.InDelta(t, 6, got[0], 1e-10) // 9 - mean(3)
	got = out.Row(nil, 1)
	assert.InDelta(t, 0, got[0], 1e-10)
}

func TestResidualsLowerBound(t *testing.T) {
	m := denseOf([]float64{1, 2, 100, 3})
	f := interceptOnly(t, 4)

	out, err := Residuals(context.Background(), m, nil, f, WithLowerBound(5))
	require.NoError(t, err)

	// Residuals before flooring are {-25.5, -24.5, 73.5, -23.5}; cells
	// 0, 1 and 3 sat at or below the bound and collapse to min-1.
	got := out.Row(nil, 0)
	assert.InDelta(t, -26.5, got[0], 1e-10)
	assert.InDelta(t, -26.5, got[1], 1e-10)
	assert.InDelta(t, 73.5, got[2], 1e-10)
	assert.InDelta(t, -26.5, got[3], 1e-10)

	// Floored entries sort strictly below every genuine residual.
	for _, c := range []int{0, 1, 3} {
		assert.Less(t, got[c], got[2])
	}
}

func TestResidualsLowerBoundNoOp(t *testing.T) {
	m := denseOf([]float64{10, 20, 30, 40})
	f := interceptOnly(t, 4)

	bounded, err := Residuals(context.Background(), m, nil, f, WithLowerBound(5))
	require.NoError(t, err)
	unbounded, err := Residuals(context.Background(), m, nil, f)
	require.NoError(t, err)

	b := bounded.Row(nil, 0)
	u := unbounded.Row(nil, 0)
	for j := range b {
		assert.InDelta(t, u[j], b[j], 1e-12)
	}
}

func TestResidualsOrthogonality(t *testing.T) {
	design := mat.NewDense(6, 2, nil)
	for i := 0; i < 6; i++ {
		design.Set(i, 0, 1)
		design.Set(i, 1, float64(i*i))
	}
	f, err := qr.New(design)
	require.NoError(t, err)

	m := denseOf([]float64{3, 1, 4, 1, 5, 9})
	out, err := Residuals(context.Background(), m, nil, f)
	require.NoError(t, err)

	got := out.Row(nil, 0)
	for j := 0; j < 2; j++ {
		var dot float64
		for i := 0; i < 6; i++ {
			dot += got[i] * design.At(i, j)
		}
		assert.InDelta(t, 0, dot, 1e-9)
	}
}

func TestResidualsEmptySubset(t *testing.T) {
	m := denseOf([]float64{1, 2, 3})
	f := interceptOnly(t, 3)

	out, err := Residuals(context.Background(), m, []int{}, f)
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 3, cols)
}

func TestResidualsSparseInput(t *testing.T) {
	dense := denseOf(
		[]float64{0, 0, 6, 0},
		[]float64{1, 0, 0, 3},
	)
	f := interceptOnly(t, 4)

	fromDense, err := Residuals(context.Background(), dense, nil, f)
	require.NoError(t, err)

	csr := csrOf(t, dense)
	fromSparse, err := Residuals(context.Background(), csr, nil, f)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		d := fromDense.Row(nil, i)
		s := fromSparse.Row(nil, i)
		for j := range d {
			assert.InDelta(t, d[j], s[j], 1e-12)
		}
	}
}

func TestResidualsErrors(t *testing.T) {
	t.Run("SubsetOutOfRange", func(t *testing.T) {
		m := denseOf([]float64{1, 2, 3})
		f := interceptOnly(t, 3)

		_, err := Residuals(context.Background(), m, []int{5}, f)
		var oor *matrix.ErrIndexOutOfRange
		assert.ErrorAs(t, err, &oor)
	})

	t.Run("FactorizationLengthMismatch", func(t *testing.T) {
		m := denseOf([]float64{1, 2, 3})
		f := interceptOnly(t, 4) // expects 4 cells, matrix has 3

		_, err := Residuals(context.Background(), m, nil, f)
		require.Error(t, err)
		assert.ErrorIs(t, err, qr.ErrVectorLength)
	})

	t.Run("NoCells", func(t *testing.T) {
		m := matrix.NewDense(2, 0)
		f := fakeOrthogonal{ncoefs: 0}

		_, err := Residuals(context.Background(), m, nil, f)
		assert.ErrorIs(t, err, ErrNoCells)
	})

	t.Run("TooManyCoefficients", func(t *testing.T) {
		m := denseOf([]float64{1, 2, 3})
		f := fakeOrthogonal{ncoefs: 4}

		_, err := Residuals(context.Background(), m, nil, f)
		var dm *ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})
}

func TestResidualsCancelled(t *testing.T) {
	m := denseOf([]float64{1, 2, 3})
	f := interceptOnly(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Residuals(ctx, m, nil, f)
	assert.ErrorIs(t, err, context.Canceled)
}

// fakeOrthogonal is an identity transform stub for validation tests.
type fakeOrthogonal struct {
	ncoefs int
}

func (f fakeOrthogonal) ApplyTranspose(v []float64) error { return nil }
func (f fakeOrthogonal) Apply(v []float64) error          { return nil }
func (f fakeOrthogonal) Ncoefs() int                      { return f.ncoefs }
