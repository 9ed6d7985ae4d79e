package svd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func randomMatrix(rows, cols int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(rows, cols, data)
}

func TestThinReconstruction(t *testing.T) {
	const rows, cols = 10, 4
	a := randomMatrix(rows, cols, 1)

	res, err := Thin{}.Factorize(a, cols)
	require.NoError(t, err)
	require.Len(t, res.Values, cols)

	// Full thin rank reconstructs the input: A = U S Vᵀ.
	s := mat.NewDiagDense(cols, res.Values)
	var us, rec mat.Dense
	us.Mul(res.U, s)
	rec.Mul(&us, res.V.T())

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.InDelta(t, a.At(i, j), rec.At(i, j), 1e-10)
		}
	}
}

func TestThinTruncation(t *testing.T) {
	a := randomMatrix(8, 5, 2)

	res, err := Thin{}.Factorize(a, 3)
	require.NoError(t, err)

	assert.Len(t, res.Values, 3)
	ur, uc := res.U.Dims()
	assert.Equal(t, 8, ur)
	assert.Equal(t, 3, uc)
	vr, vc := res.V.Dims()
	assert.Equal(t, 5, vr)
	assert.Equal(t, 3, vc)

	// Values are descending and non-negative.
	for i := 1; i < len(res.Values); i++ {
		assert.GreaterOrEqual(t, res.Values[i-1], res.Values[i])
	}
	assert.GreaterOrEqual(t, res.Values[len(res.Values)-1], 0.0)
}

func TestThinRankCapClamped(t *testing.T) {
	a := randomMatrix(6, 3, 3)

	res, err := Thin{}.Factorize(a, 50)
	require.NoError(t, err)
	assert.Len(t, res.Values, 3)
}
