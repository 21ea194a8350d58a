package spchol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spchol"
)

// tripletEntries flattens a CSC matrix back into a (row,col)->value map.
func tripletEntries(m *spchol.SparseMatrix) map[[2]int]float64 {
	entries := make(map[[2]int]float64)
	for j := 0; j < m.NumCols; j++ {
		for p := m.ColStarts[j]; p < m.ColStarts[j+1]; p++ {
			entries[[2]int{m.RowIndices[p], j}] = m.Values[p]
		}
	}
	return entries
}

func TestSparseFromTripletsRoundTrip(t *testing.T) {
	ctx := spchol.NewContext(nil)

	// Unsorted, with a duplicate at (2,1) that must be summed.
	trip := &spchol.TripletMatrix{
		Rows:     4,
		Cols:     3,
		RowIndex: []int{3, 0, 2, 1, 2, 2},
		ColIndex: []int{2, 0, 1, 1, 1, 0},
		Values:   []float64{6, 1, 2.5, 3, 0.5, 4},
	}

	A, err := ctx.SparseFromTriplets(trip)
	require.NoError(t, err)

	want := map[[2]int]float64{
		{0, 0}: 1, {2, 0}: 4, {1, 1}: 3, {2, 1}: 3.0, {3, 2}: 6,
	}
	assert.Equal(t, want, tripletEntries(A))
	assert.Equal(t, 5, A.NumNonZeros())
	assert.Equal(t, []int{0, 2, 4, 5}, A.ColStarts)

	require.NoError(t, ctx.FreeSparse(A))
}

func TestSparseFromTripletsTranspose(t *testing.T) {
	ctx := spchol.NewContext(nil)

	trip := &spchol.TripletMatrix{
		Rows:     2,
		Cols:     3,
		RowIndex: []int{0, 1, 0},
		ColIndex: []int{0, 1, 2},
		Values:   []float64{1, 2, 3},
	}

	At, err := ctx.SparseFromTripletsTranspose(trip)
	require.NoError(t, err)
	assert.Equal(t, 3, At.NumRows)
	assert.Equal(t, 2, At.NumCols)

	want := map[[2]int]float64{{0, 0}: 1, {1, 1}: 2, {2, 0}: 3}
	assert.Equal(t, want, tripletEntries(At))

	require.NoError(t, ctx.FreeSparse(At))
}

func TestSparseFromTripletsRejectsOutOfRange(t *testing.T) {
	ctx := spchol.NewContext(nil)

	cases := []struct {
		name string
		trip *spchol.TripletMatrix
	}{
		{"RowTooLarge", &spchol.TripletMatrix{
			Rows: 2, Cols: 2, RowIndex: []int{2}, ColIndex: []int{0}, Values: []float64{1},
		}},
		{"NegativeCol", &spchol.TripletMatrix{
			Rows: 2, Cols: 2, RowIndex: []int{0}, ColIndex: []int{-1}, Values: []float64{1},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctx.SparseFromTriplets(tc.trip)
			assert.ErrorIs(t, err, spchol.ErrIndexOutOfRange)
		})
	}
	assert.Zero(t, ctx.LiveObjects())
}

func TestDenseFromValues(t *testing.T) {
	ctx := spchol.NewContext(nil)

	d, err := ctx.DenseFromValues([]float64{1, 2}, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 0, 0, 0}, d.Values)
	require.NoError(t, ctx.FreeDense(d))

	zero, err := ctx.DenseFromValues(nil, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, zero.Values)
	require.NoError(t, ctx.FreeDense(zero))

	_, err = ctx.DenseFromValues([]float64{1, 2, 3}, 3, 2)
	assert.ErrorIs(t, err, spchol.ErrDimensionMismatch)
}

func TestTransposeViewAliasesCallerStorage(t *testing.T) {
	ctx := spchol.NewContext(nil)

	// A = [1 2 0; 0 0 3] in CSR.
	csr := &spchol.CompressedRowMatrix{
		NumRows:    2,
		NumCols:    3,
		RowStarts:  []int{0, 2, 3},
		ColIndices: []int{0, 1, 2},
		Values:     []float64{1, 2, 3},
	}

	view, err := ctx.TransposeView(csr)
	require.NoError(t, err)

	at := view.Matrix()
	require.NotNil(t, at)
	assert.Equal(t, 3, at.NumRows)
	assert.Equal(t, 2, at.NumCols)
	want := map[[2]int]float64{{0, 0}: 1, {1, 0}: 2, {2, 1}: 3}
	assert.Equal(t, want, tripletEntries(at))

	// The view aliases: a change on the caller side is visible immediately.
	csr.Values[0] = 9
	assert.Equal(t, 9.0, at.Values[0])

	// Views are never released through the owning path.
	assert.ErrorIs(t, ctx.FreeSparse(at), spchol.ErrViewRelease)

	view.Dispose()
	assert.Nil(t, view.Matrix())

	// Disposing the view leaves the caller's arrays untouched.
	assert.Equal(t, []float64{9, 2, 3}, csr.Values)
	assert.Equal(t, []int{0, 2, 3}, csr.RowStarts)
}

func TestLifecycleAccounting(t *testing.T) {
	ctx := spchol.NewContext(nil)

	trip := &spchol.TripletMatrix{
		Rows: 1, Cols: 1, RowIndex: []int{0}, ColIndex: []int{0}, Values: []float64{2},
	}
	A, err := ctx.SparseFromTriplets(trip)
	require.NoError(t, err)
	b, err := ctx.DenseFromValues(nil, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.LiveObjects())

	A.Stype = spchol.UpperSymmetric
	f, err := ctx.AnalyzeCholesky(A)
	require.NoError(t, err)
	assert.Equal(t, 3, ctx.LiveObjects())

	require.NoError(t, ctx.FreeFactor(f))
	require.NoError(t, ctx.FreeDense(b))
	require.NoError(t, ctx.FreeSparse(A))
	assert.Zero(t, ctx.LiveObjects())

	assert.ErrorIs(t, ctx.FreeSparse(A), spchol.ErrReleased)
	assert.ErrorIs(t, ctx.FreeDense(b), spchol.ErrReleased)
	assert.ErrorIs(t, ctx.FreeFactor(f), spchol.ErrReleased)
	assert.Zero(t, ctx.LiveObjects())
}
