package spchol

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Scale applies diag(scale) to A in place: on the left for ScaleRow, on the
// right for ScaleColumn, and on both sides for ScaleSymmetric (which
// requires A square).
func (c *Context) Scale(scale *DenseVector, mode ScaleMode, a *SparseMatrix) error {
	if a.released || scale.released {
		return ErrReleased
	}

	s := scale.Values
	switch mode {
	case ScaleRow:
		if len(s) != a.NumRows {
			return fmt.Errorf("%w: scale length %d, %d rows", ErrDimensionMismatch, len(s), a.NumRows)
		}
		for p := 0; p < a.NumNonZeros(); p++ {
			a.Values[p] *= s[a.RowIndices[p]]
		}
	case ScaleColumn:
		if len(s) != a.NumCols {
			return fmt.Errorf("%w: scale length %d, %d columns", ErrDimensionMismatch, len(s), a.NumCols)
		}
		for j := 0; j < a.NumCols; j++ {
			for p := a.ColStarts[j]; p < a.ColStarts[j+1]; p++ {
				a.Values[p] *= s[j]
			}
		}
	case ScaleSymmetric:
		if a.NumRows != a.NumCols {
			return fmt.Errorf("%w: symmetric scale of %d x %d matrix",
				ErrDimensionMismatch, a.NumRows, a.NumCols)
		}
		if len(s) != a.NumCols {
			return fmt.Errorf("%w: scale length %d, dimension %d", ErrDimensionMismatch, len(s), a.NumCols)
		}
		for j := 0; j < a.NumCols; j++ {
			for p := a.ColStarts[j]; p < a.ColStarts[j+1]; p++ {
				a.Values[p] *= s[a.RowIndices[p]] * s[j]
			}
		}
	default:
		return fmt.Errorf("spchol: unknown scale mode %d", mode)
	}
	return nil
}

// AAT computes A * A'. The result is tagged UpperSymmetric: full storage,
// but only the upper triangle is authoritative downstream. A is not
// modified. Caller owns the result.
func (c *Context) AAT(a *SparseMatrix) (*SparseMatrix, error) {
	if a.released {
		return nil, ErrReleased
	}

	n := a.NumRows
	at := transposePattern(a.NumRows, a.NumCols, a.ColStarts, a.RowIndices, a.Values)

	// Gather one result column at a time: column j of A*A' is A times
	// column j of A', accumulated in a dense workspace.
	w := make([]float64, n)
	mark := make([]int, n)
	for i := range mark {
		mark[i] = -1
	}
	pattern := make([]int, 0, n)

	colStarts := make([]int, n+1)
	var rowIndices []int
	var values []float64

	for j := 0; j < n; j++ {
		pattern = pattern[:0]
		for p := at.colStarts[j]; p < at.colStarts[j+1]; p++ {
			k := at.rowIndices[p]
			v := at.values[p]
			for q := a.ColStarts[k]; q < a.ColStarts[k+1]; q++ {
				i := a.RowIndices[q]
				if mark[i] != j {
					mark[i] = j
					w[i] = 0
					pattern = append(pattern, i)
				}
				w[i] += a.Values[q] * v
			}
		}
		sort.Ints(pattern)
		for _, i := range pattern {
			rowIndices = append(rowIndices, i)
			values = append(values, w[i])
		}
		colStarts[j+1] = len(rowIndices)
	}

	c.sparseLive++
	return &SparseMatrix{
		NumRows:    n,
		NumCols:    n,
		ColStarts:  colStarts,
		RowIndices: rowIndices,
		Values:     values,
		Stype:      UpperSymmetric,
		ctx:        c,
	}, nil
}

// MultiplyAdd computes y = alpha*A*x + beta*y in place. Only y is modified.
// For UpperSymmetric A the stored upper triangle is mirrored; stored
// entries below the diagonal are ignored.
func (c *Context) MultiplyAdd(a *SparseMatrix, alpha, beta float64, x, y *DenseVector) error {
	if a.released || x.released || y.released {
		return ErrReleased
	}
	if x.Len() != a.NumCols || y.Len() != a.NumRows {
		return fmt.Errorf("%w: %d x %d matrix, x length %d, y length %d",
			ErrDimensionMismatch, a.NumRows, a.NumCols, x.Len(), y.Len())
	}

	floats.Scale(beta, y.Values)

	for j := 0; j < a.NumCols; j++ {
		axj := alpha * x.Values[j]
		for p := a.ColStarts[j]; p < a.ColStarts[j+1]; p++ {
			i := a.RowIndices[p]
			v := a.Values[p]
			switch {
			case a.Stype != UpperSymmetric:
				y.Values[i] += v * axj
			case i < j:
				y.Values[i] += v * axj
				y.Values[j] += v * alpha * x.Values[i]
			case i == j:
				y.Values[i] += v * axj
			}
		}
	}
	return nil
}

// cscPattern is a bare compressed-column structure used internally.
type cscPattern struct {
	nRows, nCols int
	colStarts    []int
	rowIndices   []int
	values       []float64
}

// transposePattern builds A' in compressed-column form by counting sort.
// Passing nil values transposes the pattern only.
func transposePattern(nRows, nCols int, colStarts, rowIndices []int, values []float64) cscPattern {
	nnz := colStarts[nCols]
	tStarts := make([]int, nRows+1)
	for p := 0; p < nnz; p++ {
		tStarts[rowIndices[p]+1]++
	}
	for i := 0; i < nRows; i++ {
		tStarts[i+1] += tStarts[i]
	}

	next := make([]int, nRows)
	copy(next, tStarts[:nRows])
	tRows := make([]int, nnz)
	var tVals []float64
	if values != nil {
		tVals = make([]float64, nnz)
	}
	for j := 0; j < nCols; j++ {
		for p := colStarts[j]; p < colStarts[j+1]; p++ {
			i := rowIndices[p]
			q := next[i]
			next[i]++
			tRows[q] = j
			if values != nil {
				tVals[q] = values[p]
			}
		}
	}

	return cscPattern{
		nRows:      nCols,
		nCols:      nRows,
		colStarts:  tStarts,
		rowIndices: tRows,
		values:     tVals,
	}
}
