package spchol

import "errors"

// Sentinel errors. The first group are input-contract violations: a caller
// bug, not a property of the data. The second group are expected numerical
// failures the caller is meant to recover from, typically by trying a
// different ordering (ErrNotPositiveDefinite) or a different right-hand
// side (ErrSolveFailed). The third group are lifecycle misuses.
var (
	// ErrIndexOutOfRange indicates a triplet entry outside the declared dimensions.
	ErrIndexOutOfRange = errors.New("spchol: index out of range")
	// ErrDimensionMismatch indicates operand dimensions that do not agree.
	ErrDimensionMismatch = errors.New("spchol: dimension mismatch")
	// ErrBadPermutation indicates an ordering that is not a bijection on [0, n).
	ErrBadPermutation = errors.New("spchol: ordering is not a permutation")
	// ErrBlockSizes indicates a block partition inconsistent with the matrix.
	ErrBlockSizes = errors.New("spchol: block sizes inconsistent with matrix dimensions")

	// ErrNotPositiveDefinite indicates numeric factorization hit a
	// non-positive pivot. Re-ordering or regularizing may help.
	ErrNotPositiveDefinite = errors.New("spchol: matrix is not positive definite")
	// ErrPatternChanged indicates the matrix's non-zero pattern no longer
	// matches the factor's symbolic analysis.
	ErrPatternChanged = errors.New("spchol: matrix pattern does not match symbolic factorization")
	// ErrSolveFailed indicates the triangular solves could not produce a
	// finite solution. The factor itself is still valid.
	ErrSolveFailed = errors.New("spchol: triangular solve failed")

	// ErrFactorState indicates a factor used in a state it must not be in,
	// e.g. Solve on a factor that is not Numeric.
	ErrFactorState = errors.New("spchol: factor is in the wrong state")
	// ErrReleased indicates use or double release of an already-freed object.
	ErrReleased = errors.New("spchol: object already released")
	// ErrViewRelease indicates FreeSparse was called on a view. Views alias
	// caller storage and must be disposed with SparseView.Dispose.
	ErrViewRelease = errors.New("spchol: cannot free a view matrix")
)
