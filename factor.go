package spchol

import (
	"fmt"
	"math"
)

// AnalyzeCholesky computes a fill-reducing ordering of A by minimum-degree
// elimination and returns the symbolic Cholesky factorization under that
// ordering. If A is symmetric (Stype UpperSymmetric) the ordering is
// computed on A itself; otherwise it is computed on the pattern of A*A'
// and the factorization is of A*A'. Only the non-zero pattern of A matters
// here; the values do not. Caller owns the result.
func (c *Context) AnalyzeCholesky(a *SparseMatrix) (*Factor, error) {
	if a.released {
		return nil, ErrReleased
	}

	s, owned, err := c.symmetricSource(a)
	if err != nil {
		return nil, err
	}

	perm := minDegreeOrdering(s.NumCols, s.ColStarts, s.RowIndices)
	f := c.analyzeWithPermutation(s, perm, owned)
	if owned {
		c.FreeSparse(s)
	}
	return f, nil
}

// AnalyzeCholeskyWithOrdering computes the symbolic factorization of
// A(ordering, ordering) for symmetric A, or of A(ordering,:)*A(ordering,:)'
// for unsymmetric A. The ordering must be a permutation of [0, n) where n
// is A's row dimension.
func (c *Context) AnalyzeCholeskyWithOrdering(a *SparseMatrix, ordering []int) (*Factor, error) {
	if a.released {
		return nil, ErrReleased
	}
	if err := validatePermutation(ordering, a.NumRows); err != nil {
		return nil, err
	}

	s, owned, err := c.symmetricSource(a)
	if err != nil {
		return nil, err
	}

	perm := make([]int, len(ordering))
	copy(perm, ordering)
	f := c.analyzeWithPermutation(s, perm, owned)
	if owned {
		c.FreeSparse(s)
	}
	return f, nil
}

// BlockAnalyzeCholesky orders A at block granularity, lifts the block
// ordering to a scalar one, and runs the symbolic factorization under it.
// Ordering at block granularity preserves the block structure of the
// permuted matrix, which exposes supernodes to the numeric factorization.
func (c *Context) BlockAnalyzeCholesky(a *SparseMatrix, rowBlocks, colBlocks []int) (*Factor, error) {
	blockOrdering, err := c.BlockAMDOrdering(a, rowBlocks, colBlocks)
	if err != nil {
		return nil, err
	}
	scalar, err := BlockOrderingToScalarOrdering(rowBlocks, blockOrdering)
	if err != nil {
		return nil, err
	}
	return c.AnalyzeCholeskyWithOrdering(a, scalar)
}

// symmetricSource returns the symmetric matrix the factorization operates
// on: A itself when symmetric, A*A' otherwise. The second return reports
// whether the caller of this helper must free the result.
func (c *Context) symmetricSource(a *SparseMatrix) (*SparseMatrix, bool, error) {
	if a.Stype == UpperSymmetric {
		if a.NumRows != a.NumCols {
			return nil, false, fmt.Errorf("%w: symmetric matrix is %d x %d",
				ErrDimensionMismatch, a.NumRows, a.NumCols)
		}
		return a, false, nil
	}
	s, err := c.AAT(a)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (c *Context) analyzeWithPermutation(s *SparseMatrix, perm []int, fromAAT bool) *Factor {
	n := s.NumCols
	pinv := invertPermutation(perm)

	perms := symPermute(s, pinv)
	parent := etree(perms)
	colCount := symbolicCounts(perms, parent)

	lp := make([]int, n+1)
	for j := 0; j < n; j++ {
		lp[j+1] = lp[j] + colCount[j]
	}

	c.factorLive++
	return &Factor{
		n:        n,
		state:    FactorSymbolic,
		perm:     perm,
		pinv:     pinv,
		parent:   parent,
		colCount: colCount,
		lp:       lp,
		fromAAT:  fromAAT,
		badPivot: -1,
		ctx:      c,
	}
}

// etree computes the elimination tree of a permuted symmetric matrix whose
// upper triangle is stored, with path compression through ancestors.
func etree(c cscPattern) []int {
	n := c.nCols
	parent := make([]int, n)
	ancestor := make([]int, n)
	for k := 0; k < n; k++ {
		parent[k] = -1
		ancestor[k] = -1
		for p := c.colStarts[k]; p < c.colStarts[k+1]; p++ {
			i := c.rowIndices[p]
			for i != -1 && i < k {
				next := ancestor[i]
				ancestor[i] = k
				if next == -1 {
					parent[i] = k
				}
				i = next
			}
		}
	}
	return parent
}

// ereach computes the pattern of row k of L: the columns j < k with a
// non-zero L[k,j], found by walking each entry of column k of the matrix up
// the elimination tree until hitting a marked node. The pattern is left in
// s[top:n] in topological order. w is the mark workspace, stale entries
// below k.
//
// When the matrix pattern matches the tree, every walk reaches a marked
// node before running off a root. Falling off means the pattern has changed
// since the symbolic analysis, reported through ok.
func ereach(c cscPattern, k int, parent, w, stack, s []int) (top int, ok bool) {
	n := c.nCols
	top = n
	w[k] = k
	for p := c.colStarts[k]; p < c.colStarts[k+1]; p++ {
		i := c.rowIndices[p]
		if i > k {
			continue
		}
		depth := 0
		for w[i] != k {
			stack[depth] = i
			depth++
			w[i] = k
			i = parent[i]
			if i == -1 || i > k {
				return top, false
			}
		}
		for depth > 0 {
			depth--
			top--
			s[top] = stack[depth]
		}
	}
	return top, true
}

// symbolicCounts returns per-column entry counts of L, diagonal included.
func symbolicCounts(c cscPattern, parent []int) []int {
	n := c.nCols
	colCount := make([]int, n)
	w := make([]int, n)
	stack := make([]int, n)
	s := make([]int, n)
	for i := range w {
		w[i] = -1
	}
	for k := 0; k < n; k++ {
		colCount[k] = 1
		// The tree was just built from this pattern, so the reach is
		// always consistent here.
		top, _ := ereach(c, k, parent, w, stack, s)
		for t := top; t < n; t++ {
			colCount[s[t]]++
		}
	}
	return colCount
}

// Cholesky computes the numeric factorization of A (or A*A' for a factor
// built from an unsymmetric matrix) into the factor's existing symbolic
// pattern. On success the factor becomes Numeric; on a non-positive pivot
// or a pattern mismatch it becomes Failed and the corresponding sentinel
// error is returned. The symbolic pattern is not reallocated, so running
// Cholesky again after updating A's values re-attempts in place.
func (c *Context) Cholesky(a *SparseMatrix, f *Factor) error {
	if a.released || f.released {
		return ErrReleased
	}
	if f.state == FactorEmpty {
		return fmt.Errorf("%w: numeric factorization needs a symbolic analysis", ErrFactorState)
	}

	// The factor's provenance, not the matrix tag, decides whether the
	// target is A or A*A'.
	var s *SparseMatrix
	if f.fromAAT {
		aat, err := c.AAT(a)
		if err != nil {
			return err
		}
		defer c.FreeSparse(aat)
		s = aat
	} else {
		if a.NumRows != a.NumCols {
			return fmt.Errorf("%w: symmetric matrix is %d x %d",
				ErrDimensionMismatch, a.NumRows, a.NumCols)
		}
		s = a
	}
	if s.NumCols != f.n {
		return fmt.Errorf("%w: matrix dimension %d, factor dimension %d",
			ErrDimensionMismatch, s.NumCols, f.n)
	}

	perms := symPermute(s, f.pinv)
	err := f.factorNumeric(perms, c.Config.PivotTolerance)

	if c.Config.Annotate > 0 {
		c.writeFactorStatus(f)
	}
	return err
}

// factorNumeric runs the up-looking Cholesky: for each row k it solves the
// triangular system against the already-computed columns along the
// elimination-tree reach of row k, then takes the square root of what is
// left of the diagonal.
func (f *Factor) factorNumeric(c cscPattern, pivotTol float64) error {
	n := f.n
	nnz := f.lp[n]
	if f.li == nil {
		f.li = make([]int, nnz)
		f.lx = make([]float64, nnz)
	}
	if f.lnz == nil {
		f.lnz = make([]int, n)
	}

	fill := make([]int, n)
	copy(fill, f.lp[:n])

	x := make([]float64, n)
	w := make([]int, n)
	stack := make([]int, n)
	s := make([]int, n)
	for i := range w {
		w[i] = -1
	}

	for k := 0; k < n; k++ {
		top, ok := ereach(c, k, f.parent, w, stack, s)
		if !ok {
			f.state = FactorFailed
			f.badPivot = k
			return fmt.Errorf("%w: row %d reaches outside the elimination tree", ErrPatternChanged, k)
		}

		x[k] = 0
		for p := c.colStarts[k]; p < c.colStarts[k+1]; p++ {
			if i := c.rowIndices[p]; i <= k {
				x[i] += c.values[p]
			}
		}
		d := x[k]
		x[k] = 0

		for t := top; t < n; t++ {
			j := s[t]
			lkj := x[j] / f.lx[f.lp[j]]
			x[j] = 0
			for p := f.lp[j] + 1; p < fill[j]; p++ {
				x[f.li[p]] -= f.lx[p] * lkj
			}
			d -= lkj * lkj

			p := fill[j]
			if p >= f.lp[j+1] {
				f.state = FactorFailed
				f.badPivot = j
				return fmt.Errorf("%w: column %d overflows its symbolic count", ErrPatternChanged, j)
			}
			f.li[p] = k
			f.lx[p] = lkj
			fill[j]++
		}

		if d <= pivotTol || math.IsNaN(d) {
			f.state = FactorFailed
			f.badPivot = k
			return fmt.Errorf("%w: pivot %d is %g", ErrNotPositiveDefinite, k, d)
		}
		p := fill[k]
		if p >= f.lp[k+1] {
			f.state = FactorFailed
			f.badPivot = k
			return fmt.Errorf("%w: column %d overflows its symbolic count", ErrPatternChanged, k)
		}
		f.li[p] = k
		f.lx[p] = math.Sqrt(d)
		fill[k]++
	}

	copy(f.lnz, fill)
	f.state = FactorNumeric
	f.badPivot = -1
	return nil
}

func (c *Context) writeFactorStatus(f *Factor) {
	fmt.Fprintf(c.out, "cholesky: n = %d, state = %s", f.n, f.state)
	if f.state == FactorNumeric {
		fmt.Fprintf(c.out, ", nnz(L) = %d", f.lp[f.n])
	}
	if f.state == FactorFailed {
		fmt.Fprintf(c.out, ", bad pivot at column %d", f.badPivot)
	}
	fmt.Fprintln(c.out)
}
