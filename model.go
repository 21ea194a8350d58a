package spchol // import "spchol"

import "io"

const (
	// DefaultPrinterWidth bounds diagnostic output lines.
	DefaultPrinterWidth = 80
)

// Symmetry describes how a sparse matrix's storage is to be interpreted.
type Symmetry int

const (
	// Unsymmetric means all stored entries are meaningful.
	Unsymmetric Symmetry = iota
	// UpperSymmetric means the matrix is symmetric and only entries on or
	// above the diagonal are authoritative. Entries below the diagonal may
	// be stored but are implied mirrors and must be ignored.
	UpperSymmetric
)

// ScaleMode selects how a diagonal scaling is applied to a matrix.
type ScaleMode int

const (
	ScaleRow       ScaleMode = iota // diag(s) * A
	ScaleColumn                     // A * diag(s)
	ScaleSymmetric                  // diag(s) * A * diag(s)
)

// FactorState tracks the lifecycle of a Cholesky factor.
type FactorState int

const (
	FactorEmpty    FactorState = iota // no analysis performed
	FactorSymbolic                    // fill pattern and permutation known
	FactorNumeric                     // numeric values valid, ready to solve
	FactorFailed                      // last numeric factorization failed
)

func (s FactorState) String() string {
	switch s {
	case FactorEmpty:
		return "empty"
	case FactorSymbolic:
		return "symbolic"
	case FactorNumeric:
		return "numeric"
	case FactorFailed:
		return "failed"
	}
	return "unknown"
}

// Options configures a Context.
type Options struct {
	PrinterWidth   int     // column budget for Print* output. Default: 80
	Annotate       int     // 0: silent, 1: factorization status, 2: full
	PivotTolerance float64 // pivots at or below this count as non-positive
}

// DefaultOptions returns the configuration used when NewContext is given nil.
func DefaultOptions() *Options {
	return &Options{
		PrinterWidth:   DefaultPrinterWidth,
		Annotate:       0,
		PivotTolerance: 0.0,
	}
}

// Context holds the shared state every operation in this package runs
// against: configuration, the diagnostics writer, and live-object
// accounting for everything the context has allocated.
//
// A Context is not safe for concurrent use. Callers wanting parallel
// solves give each goroutine its own Context.
type Context struct {
	Config Options

	out io.Writer

	sparseLive int
	denseLive  int
	factorLive int

	destroyed bool
}

// TripletMatrix is a sparse matrix in coordinate form. It is owned by the
// caller and never modified by this package. Duplicate (row, col) entries
// are permitted and are summed during assembly.
type TripletMatrix struct {
	Rows, Cols int
	RowIndex   []int
	ColIndex   []int
	Values     []float64
}

// NumNonZeros returns the number of stored triplet entries.
func (t *TripletMatrix) NumNonZeros() int { return len(t.Values) }

// CompressedRowMatrix is a caller-owned sparse matrix in compressed-row
// form, used as the source of zero-copy transpose views.
type CompressedRowMatrix struct {
	NumRows, NumCols int
	RowStarts        []int // len NumRows+1
	ColIndices       []int
	Values           []float64
}

// SparseMatrix is a compressed-column sparse matrix whose storage is owned
// by the Context that created it. Release it with Context.FreeSparse.
type SparseMatrix struct {
	NumRows, NumCols int
	ColStarts        []int // len NumCols+1
	RowIndices       []int
	Values           []float64
	Stype            Symmetry

	ctx      *Context
	view     bool // backing arrays alias caller storage
	released bool
}

// NumNonZeros returns the number of stored entries.
func (m *SparseMatrix) NumNonZeros() int { return m.ColStarts[m.NumCols] }

// SparseView is a shallow transposed view over caller-owned compressed-row
// storage. It must be disposed with Dispose, never with FreeSparse, because
// its arrays alias the caller's data.
type SparseView struct {
	mat      SparseMatrix
	disposed bool
}

// Matrix returns the aliasing matrix for read-only use, or nil after Dispose.
func (v *SparseView) Matrix() *SparseMatrix {
	if v.disposed {
		return nil
	}
	return &v.mat
}

// DenseVector is a dense numeric vector owned by the Context that created
// it. Release it with Context.FreeDense.
type DenseVector struct {
	Values []float64

	ctx      *Context
	released bool
}

// Len returns the vector length.
func (d *DenseVector) Len() int { return len(d.Values) }

// Factor is a Cholesky factorization in one of four states: Empty before
// analysis, Symbolic after ordering and symbolic analysis, Numeric after a
// successful numeric factorization, and Failed after an unsuccessful one.
// Solve accepts only a Numeric factor.
type Factor struct {
	n     int
	state FactorState

	perm []int // perm[k] = original index of the k-th pivot
	pinv []int // pinv[orig] = permuted position

	parent   []int // elimination tree of the permuted matrix
	colCount []int // per-column entry counts of L, diagonal included
	lp       []int // column offsets of L, len n+1

	li  []int     // row indices of L, allocated at first Cholesky
	lx  []float64 // values of L
	lnz []int     // one-past-last filled slot per column of L

	fromAAT  bool // factor is of A*A' rather than of A itself
	badPivot int  // column of the offending pivot after a failure

	ctx      *Context
	released bool
}

// State reports the factor's current lifecycle state.
func (f *Factor) State() FactorState { return f.state }

// Dim returns the factorized dimension.
func (f *Factor) Dim() int { return f.n }

// Ordering returns the fill-reducing permutation chosen at analysis time.
// The slice is owned by the factor.
func (f *Factor) Ordering() []int { return f.perm }

// BadPivot returns the column index of the pivot that caused the last
// numeric failure, or -1 if the factor has not failed.
func (f *Factor) BadPivot() int {
	if f.state != FactorFailed {
		return -1
	}
	return f.badPivot
}
