package spchol

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// NewContext creates the shared state used by every operation in this
// package. Pass nil to use DefaultOptions. Each concurrent unit of work
// needs its own Context.
func NewContext(opts *Options) *Context {
	if opts == nil {
		opts = DefaultOptions()
	}
	config := *opts
	if config.PrinterWidth <= 0 {
		config.PrinterWidth = DefaultPrinterWidth
	}

	return &Context{
		Config: config,
		out:    os.Stdout,
	}
}

// SetOutput redirects diagnostic output. The default is os.Stdout.
func (c *Context) SetOutput(w io.Writer) {
	c.out = w
}

// Destroy invalidates the context. Objects created by it should be freed
// first; LiveObjects reports what is still outstanding.
func (c *Context) Destroy() {
	c.out = nil
	c.sparseLive = 0
	c.denseLive = 0
	c.factorLive = 0
	c.destroyed = true
}

// LiveObjects returns the number of owned objects allocated by this context
// and not yet freed.
func (c *Context) LiveObjects() int {
	return c.sparseLive + c.denseLive + c.factorLive
}

// SparseFromTriplets assembles a compressed-column matrix from coordinate
// data. The triplet matrix is not modified. Duplicate entries are summed.
func (c *Context) SparseFromTriplets(t *TripletMatrix) (*SparseMatrix, error) {
	return c.assemble(t.Rows, t.Cols, t.RowIndex, t.ColIndex, t.Values)
}

// SparseFromTripletsTranspose assembles the transpose of the triplet matrix
// directly, without an intermediate transpose pass.
func (c *Context) SparseFromTripletsTranspose(t *TripletMatrix) (*SparseMatrix, error) {
	return c.assemble(t.Cols, t.Rows, t.ColIndex, t.RowIndex, t.Values)
}

func (c *Context) assemble(nRows, nCols int, rows, cols []int, vals []float64) (*SparseMatrix, error) {
	if len(rows) != len(vals) || len(cols) != len(vals) {
		return nil, fmt.Errorf("%w: %d rows, %d cols, %d values",
			ErrDimensionMismatch, len(rows), len(cols), len(vals))
	}
	if nRows < 0 || nCols < 0 {
		return nil, fmt.Errorf("%w: %d x %d", ErrDimensionMismatch, nRows, nCols)
	}

	nnz := len(vals)
	for k := 0; k < nnz; k++ {
		if rows[k] < 0 || rows[k] >= nRows || cols[k] < 0 || cols[k] >= nCols {
			return nil, fmt.Errorf("%w: entry %d at (%d,%d) in %d x %d matrix",
				ErrIndexOutOfRange, k, rows[k], cols[k], nRows, nCols)
		}
	}

	order := make([]int, nnz)
	for k := range order {
		order[k] = k
	}
	sort.Slice(order, func(a, b int) bool {
		ka, kb := order[a], order[b]
		if cols[ka] != cols[kb] {
			return cols[ka] < cols[kb]
		}
		return rows[ka] < rows[kb]
	})

	colStarts := make([]int, nCols+1)
	rowIndices := make([]int, 0, nnz)
	values := make([]float64, 0, nnz)

	col := 0
	for _, k := range order {
		// Sum duplicates into the previous slot.
		if n := len(rowIndices); n > 0 && cols[k] == col && rows[k] == rowIndices[n-1] {
			values[n-1] += vals[k]
			continue
		}
		for col < cols[k] {
			col++
			colStarts[col] = len(rowIndices)
		}
		rowIndices = append(rowIndices, rows[k])
		values = append(values, vals[k])
	}
	for col < nCols {
		col++
		colStarts[col] = len(rowIndices)
	}

	c.sparseLive++
	return &SparseMatrix{
		NumRows:    nRows,
		NumCols:    nCols,
		ColStarts:  colStarts,
		RowIndices: rowIndices,
		Values:     values,
		Stype:      Unsymmetric,
		ctx:        c,
	}, nil
}

// TransposeView wraps caller-owned compressed-row storage as the transpose
// in compressed-column form, without copying: the row offsets of A are
// exactly the column offsets of A'. The view aliases the caller's arrays
// and must be disposed with Dispose, not FreeSparse.
func (c *Context) TransposeView(a *CompressedRowMatrix) (*SparseView, error) {
	if len(a.RowStarts) != a.NumRows+1 {
		return nil, fmt.Errorf("%w: %d row starts for %d rows",
			ErrDimensionMismatch, len(a.RowStarts), a.NumRows)
	}
	nnz := a.RowStarts[a.NumRows]
	if len(a.ColIndices) < nnz || len(a.Values) < nnz {
		return nil, fmt.Errorf("%w: %d offsets but %d indices, %d values",
			ErrDimensionMismatch, nnz, len(a.ColIndices), len(a.Values))
	}

	return &SparseView{
		mat: SparseMatrix{
			NumRows:    a.NumCols,
			NumCols:    a.NumRows,
			ColStarts:  a.RowStarts,
			RowIndices: a.ColIndices,
			Values:     a.Values,
			Stype:      Unsymmetric,
			ctx:        c,
			view:       true,
		},
	}, nil
}

// Dispose drops the view wrapper. The aliased caller arrays are untouched
// and remain valid. Disposing twice is a no-op.
func (v *SparseView) Dispose() {
	v.mat = SparseMatrix{view: true, released: true}
	v.disposed = true
}

// DenseFromValues builds a dense vector of length outSize whose first
// inSize entries are copied from x and whose remainder is zero. A nil x
// yields an all-zero vector.
func (c *Context) DenseFromValues(x []float64, inSize, outSize int) (*DenseVector, error) {
	if inSize < 0 || inSize > outSize {
		return nil, fmt.Errorf("%w: in size %d, out size %d", ErrDimensionMismatch, inSize, outSize)
	}
	if x != nil && len(x) < inSize {
		return nil, fmt.Errorf("%w: %d values for in size %d", ErrDimensionMismatch, len(x), inSize)
	}

	values := make([]float64, outSize)
	if x != nil {
		copy(values, x[:inSize])
	}

	c.denseLive++
	return &DenseVector{Values: values, ctx: c}, nil
}

// FreeSparse releases an owned matrix. Views must be disposed instead, and
// releasing twice is an error.
func (c *Context) FreeSparse(m *SparseMatrix) error {
	if m.view {
		return ErrViewRelease
	}
	if m.released {
		return ErrReleased
	}
	m.ColStarts = nil
	m.RowIndices = nil
	m.Values = nil
	m.NumRows = 0
	m.NumCols = 0
	m.released = true
	c.sparseLive--
	return nil
}

// FreeDense releases an owned dense vector.
func (c *Context) FreeDense(d *DenseVector) error {
	if d.released {
		return ErrReleased
	}
	d.Values = nil
	d.released = true
	c.denseLive--
	return nil
}

// FreeFactor releases a factor in any state.
func (c *Context) FreeFactor(f *Factor) error {
	if f.released {
		return ErrReleased
	}
	f.perm = nil
	f.pinv = nil
	f.parent = nil
	f.colCount = nil
	f.lp = nil
	f.li = nil
	f.lx = nil
	f.lnz = nil
	f.n = 0
	f.state = FactorEmpty
	f.released = true
	c.factorLive--
	return nil
}
