package spchol

import "fmt"

// minDegreeOrdering computes a fill-reducing permutation of a square
// symmetric pattern by greedy minimum-degree elimination: repeatedly pick
// the node of smallest degree, join its neighbors into a clique, and remove
// it. perm[k] is the original index eliminated at step k. Ties break toward
// the lowest index, which keeps the ordering deterministic.
func minDegreeOrdering(n int, colStarts, rowIndices []int) []int {
	adj := patternGraph(n, colStarts, rowIndices)

	eliminated := make([]bool, n)
	perm := make([]int, 0, n)

	for len(perm) < n {
		best := -1
		bestDeg := n + 1
		for v := 0; v < n; v++ {
			if eliminated[v] {
				continue
			}
			if d := len(adj[v]); d < bestDeg {
				best = v
				bestDeg = d
			}
		}

		neighbors := make([]int, 0, bestDeg)
		for u := range adj[best] {
			neighbors = append(neighbors, u)
		}
		for _, u := range neighbors {
			delete(adj[u], best)
		}
		for a := 0; a < len(neighbors); a++ {
			for b := a + 1; b < len(neighbors); b++ {
				adj[neighbors[a]][neighbors[b]] = struct{}{}
				adj[neighbors[b]][neighbors[a]] = struct{}{}
			}
		}

		adj[best] = nil
		eliminated[best] = true
		perm = append(perm, best)
	}

	return perm
}

// patternGraph builds the symmetrized undirected adjacency of a square
// pattern, diagonal excluded.
func patternGraph(n int, colStarts, rowIndices []int) []map[int]struct{} {
	adj := make([]map[int]struct{}, n)
	for v := range adj {
		adj[v] = make(map[int]struct{})
	}
	for j := 0; j < n; j++ {
		for p := colStarts[j]; p < colStarts[j+1]; p++ {
			i := rowIndices[p]
			if i == j {
				continue
			}
			adj[i][j] = struct{}{}
			adj[j][i] = struct{}{}
		}
	}
	return adj
}

// validatePermutation checks that perm is a bijection on [0, n).
func validatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrBadPermutation, len(perm), n)
	}
	seen := make([]bool, n)
	for k, v := range perm {
		if v < 0 || v >= n {
			return fmt.Errorf("%w: entry %d is %d", ErrBadPermutation, k, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: index %d appears twice", ErrBadPermutation, v)
		}
		seen[v] = true
	}
	return nil
}

// invertPermutation returns pinv with pinv[perm[k]] = k.
func invertPermutation(perm []int) []int {
	pinv := make([]int, len(perm))
	for k, v := range perm {
		pinv[v] = k
	}
	return pinv
}

// symPermute forms the upper triangle of P*S*P' for a symmetric S whose
// upper triangle is authoritative. Stored entries below the diagonal are
// ignored; entries that land below the diagonal after permuting are
// reflected back above it. Rows within a column come out unsorted, which
// the elimination-tree and factorization code tolerates.
func symPermute(s *SparseMatrix, pinv []int) cscPattern {
	n := s.NumCols

	count := make([]int, n+1)
	for j := 0; j < n; j++ {
		for p := s.ColStarts[j]; p < s.ColStarts[j+1]; p++ {
			i := s.RowIndices[p]
			if i > j {
				continue
			}
			ii, jj := pinv[i], pinv[j]
			if ii > jj {
				ii, jj = jj, ii
			}
			count[jj+1]++
		}
	}
	for j := 0; j < n; j++ {
		count[j+1] += count[j]
	}

	colStarts := make([]int, n+1)
	copy(colStarts, count)
	next := make([]int, n)
	copy(next, count[:n])

	nnz := count[n]
	rowIndices := make([]int, nnz)
	values := make([]float64, nnz)
	for j := 0; j < n; j++ {
		for p := s.ColStarts[j]; p < s.ColStarts[j+1]; p++ {
			i := s.RowIndices[p]
			if i > j {
				continue
			}
			ii, jj := pinv[i], pinv[j]
			if ii > jj {
				ii, jj = jj, ii
			}
			q := next[jj]
			next[jj]++
			rowIndices[q] = ii
			values[q] = s.Values[p]
		}
	}

	return cscPattern{
		nRows:      n,
		nCols:      n,
		colStarts:  colStarts,
		rowIndices: rowIndices,
		values:     values,
	}
}
