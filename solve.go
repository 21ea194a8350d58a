package spchol

import (
	"fmt"
	"math"
)

// Solve computes x with A*x = b (or A*A'*x = b for a factor built from an
// unsymmetric matrix) from a numeric Cholesky factorization. The factor
// must be in the Numeric state. Caller owns the returned vector.
func (c *Context) Solve(f *Factor, b *DenseVector) (*DenseVector, error) {
	if f.released || b.released {
		return nil, ErrReleased
	}
	if f.state != FactorNumeric {
		return nil, fmt.Errorf("%w: solve needs a numeric factor, have %s", ErrFactorState, f.state)
	}
	if b.Len() != f.n {
		return nil, fmt.Errorf("%w: rhs length %d, factor dimension %d",
			ErrDimensionMismatch, b.Len(), f.n)
	}

	n := f.n
	w := make([]float64, n)
	for k := 0; k < n; k++ {
		w[k] = b.Values[f.perm[k]]
	}

	// Forward solve L*y = P*b. The diagonal is the first entry of each column.
	for j := 0; j < n; j++ {
		w[j] /= f.lx[f.lp[j]]
		for p := f.lp[j] + 1; p < f.lnz[j]; p++ {
			w[f.li[p]] -= f.lx[p] * w[j]
		}
	}

	// Backward solve L'*z = y.
	for j := n - 1; j >= 0; j-- {
		for p := f.lp[j] + 1; p < f.lnz[j]; p++ {
			w[j] -= f.lx[p] * w[f.li[p]]
		}
		w[j] /= f.lx[f.lp[j]]
	}

	solution := make([]float64, n)
	for k := 0; k < n; k++ {
		if math.IsNaN(w[k]) || math.IsInf(w[k], 0) {
			return nil, fmt.Errorf("%w: non-finite solution entry at %d", ErrSolveFailed, f.perm[k])
		}
		solution[f.perm[k]] = w[k]
	}

	c.denseLive++
	return &DenseVector{Values: solution, ctx: c}, nil
}

// SolveCholesky combines Cholesky and Solve. If either stage fails the
// error is returned and no partial result is produced.
func (c *Context) SolveCholesky(a *SparseMatrix, f *Factor, b *DenseVector) (*DenseVector, error) {
	if err := c.Cholesky(a, f); err != nil {
		return nil, err
	}
	return c.Solve(f, b)
}
