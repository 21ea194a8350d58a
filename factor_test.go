package spchol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spchol"
)

func TestCholeskySucceedsOnSPD(t *testing.T) {
	ctx := spchol.NewContext(nil)
	A := buildTridiagonal(t, ctx, 6)

	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)

	require.NoError(t, ctx.Cholesky(A, f))
	assert.Equal(t, spchol.FactorNumeric, f.State())
	assert.Equal(t, -1, f.BadPivot())
}

func TestCholeskyFailsOnNegativeDiagonal(t *testing.T) {
	ctx := spchol.NewContext(nil)

	trip := &spchol.TripletMatrix{
		Rows: 1, Cols: 1, RowIndex: []int{0}, ColIndex: []int{0}, Values: []float64{-1},
	}
	A, err := ctx.SparseFromTriplets(trip)
	require.NoError(t, err)
	A.Stype = spchol.UpperSymmetric

	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)

	err = ctx.Cholesky(A, f)
	assert.ErrorIs(t, err, spchol.ErrNotPositiveDefinite)
	assert.Equal(t, spchol.FactorFailed, f.State())
	assert.Equal(t, 0, f.BadPivot())

	// A failed factor must not solve.
	b, err := ctx.DenseFromValues([]float64{1}, 1, 1)
	require.NoError(t, err)
	_, err = ctx.Solve(f, b)
	assert.ErrorIs(t, err, spchol.ErrFactorState)
}

func TestCholeskyFailsOnIndefinite(t *testing.T) {
	ctx := spchol.NewContext(nil)

	// [[1, 2], [2, 1]] has eigenvalues 3 and -1.
	A := buildSparse(t, ctx, 2, 2, [][]float64{
		{1, 2},
		{0, 1},
	})
	A.Stype = spchol.UpperSymmetric

	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)

	err = ctx.Cholesky(A, f)
	assert.ErrorIs(t, err, spchol.ErrNotPositiveDefinite)
	assert.Equal(t, spchol.FactorFailed, f.State())
}

func TestCholeskyRecoversAfterFailure(t *testing.T) {
	ctx := spchol.NewContext(nil)

	trip := &spchol.TripletMatrix{
		Rows: 2, Cols: 2,
		RowIndex: []int{0, 1},
		ColIndex: []int{0, 1},
		Values:   []float64{-1, 1},
	}
	A, err := ctx.SparseFromTriplets(trip)
	require.NoError(t, err)
	A.Stype = spchol.UpperSymmetric

	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)
	assert.ErrorIs(t, ctx.Cholesky(A, f), spchol.ErrNotPositiveDefinite)

	// Fixing the values and re-running factorizes in place.
	A.Values[0] = 4
	require.NoError(t, ctx.Cholesky(A, f))
	assert.Equal(t, spchol.FactorNumeric, f.State())

	b, err := ctx.DenseFromValues([]float64{8, 3}, 2, 2)
	require.NoError(t, err)
	x, err := ctx.Solve(f, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3}, x.Values, 1e-12)
}

func TestCholeskyRefactorsWithUpdatedValues(t *testing.T) {
	ctx := spchol.NewContext(nil)
	A := buildTridiagonal(t, ctx, 4)

	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)
	require.NoError(t, ctx.Cholesky(A, f))

	// Same pattern, new values: the symbolic analysis is reused.
	for p := range A.Values {
		A.Values[p] *= 2
	}
	require.NoError(t, ctx.Cholesky(A, f))
	assert.Equal(t, spchol.FactorNumeric, f.State())

	b, err := ctx.DenseFromValues([]float64{4, 0, 0, 0}, 4, 4)
	require.NoError(t, err)
	x, err := ctx.Solve(f, b)
	require.NoError(t, err)

	// Residual check against the scaled matrix: r = A*x - b.
	r, err := ctx.DenseFromValues(b.Values, 4, 4)
	require.NoError(t, err)
	require.NoError(t, ctx.MultiplyAdd(A, 1, -1, x, r))
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, r.Values, 1e-9)
}

func TestCholeskyRejectsEmptyFactor(t *testing.T) {
	ctx := spchol.NewContext(nil)
	A := buildTridiagonal(t, ctx, 3)

	var f spchol.Factor
	assert.Equal(t, spchol.FactorEmpty, f.State())
	assert.ErrorIs(t, ctx.Cholesky(A, &f), spchol.ErrFactorState)
}

func TestCholeskyRejectsDimensionMismatch(t *testing.T) {
	ctx := spchol.NewContext(nil)
	A := buildTridiagonal(t, ctx, 3)
	B := buildTridiagonal(t, ctx, 5)

	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)
	assert.ErrorIs(t, ctx.Cholesky(B, f), spchol.ErrDimensionMismatch)
}

func TestCholeskyDetectsPatternChange(t *testing.T) {
	ctx := spchol.NewContext(nil)

	// Diagonal pattern at analysis time.
	A := buildSparse(t, ctx, 3, 3, [][]float64{
		{4, 0, 0},
		{0, 4, 0},
		{0, 0, 4},
	})
	A.Stype = spchol.UpperSymmetric

	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)
	require.NoError(t, ctx.Cholesky(A, f))

	// Denser pattern with the same dimension does not fit the analysis.
	B := buildSparse(t, ctx, 3, 3, [][]float64{
		{4, 1, 1},
		{0, 4, 1},
		{0, 0, 4},
	})
	B.Stype = spchol.UpperSymmetric

	err = ctx.Cholesky(B, f)
	assert.ErrorIs(t, err, spchol.ErrPatternChanged)
	assert.Equal(t, spchol.FactorFailed, f.State())
}
