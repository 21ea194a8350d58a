package spchol

import "fmt"

// BlockPattern extracts the block-level sparsity pattern of a scalar matrix
// whose rows and columns group into the given block sizes, returned as a
// compressed-column structure over blocks (blockRows like RowIndices,
// blockCols like ColStarts).
//
// A block is detected through its top-left scalar entry: if block (i, j) is
// logically non-zero, the caller guarantees A stores an entry at the
// block's top-left scalar position. Blocks without that entry are treated
// as zero. Row blocks must cover all rows; column blocks may cover only a
// prefix of the columns.
func BlockPattern(a *SparseMatrix, rowBlocks, colBlocks []int) (blockRows, blockCols []int, err error) {
	if a.released {
		return nil, nil, ErrReleased
	}
	rowStarts, err := blockStarts(rowBlocks, a.NumRows, false)
	if err != nil {
		return nil, nil, err
	}
	colStarts, err := blockStarts(colBlocks, a.NumCols, true)
	if err != nil {
		return nil, nil, err
	}

	// rowBlockOf[i] = b+1 when scalar row i is the top row of block b.
	rowBlockOf := make([]int, a.NumRows)
	for b := 0; b < len(rowBlocks); b++ {
		rowBlockOf[rowStarts[b]] = b + 1
	}

	blockCols = make([]int, len(colBlocks)+1)
	for bj := 0; bj < len(colBlocks); bj++ {
		j := colStarts[bj]
		for p := a.ColStarts[j]; p < a.ColStarts[j+1]; p++ {
			if b := rowBlockOf[a.RowIndices[p]]; b != 0 {
				blockRows = append(blockRows, b-1)
			}
		}
		blockCols[bj+1] = len(blockRows)
	}
	return blockRows, blockCols, nil
}

// BlockAMDOrdering runs the minimum-degree ordering on the block-level
// adjacency of A induced by the given partitions and returns the resulting
// block permutation. Lift it to a scalar ordering with
// BlockOrderingToScalarOrdering.
func (c *Context) BlockAMDOrdering(a *SparseMatrix, rowBlocks, colBlocks []int) ([]int, error) {
	if a.released {
		return nil, ErrReleased
	}
	if len(rowBlocks) != len(colBlocks) {
		return nil, fmt.Errorf("%w: %d row blocks, %d column blocks",
			ErrBlockSizes, len(rowBlocks), len(colBlocks))
	}

	blockRows, blockCols, err := BlockPattern(a, rowBlocks, colBlocks)
	if err != nil {
		return nil, err
	}
	return minDegreeOrdering(len(rowBlocks), blockCols, blockRows), nil
}

// BlockOrderingToScalarOrdering expands a permutation of blocks into the
// corresponding scalar permutation: each block's scalar indices are laid
// out contiguously, in the permuted block order. The result has length
// sum(blocks).
func BlockOrderingToScalarOrdering(blocks, blockOrdering []int) ([]int, error) {
	if err := validatePermutation(blockOrdering, len(blocks)); err != nil {
		return nil, err
	}

	offsets := make([]int, len(blocks))
	total := 0
	for b, size := range blocks {
		if size <= 0 {
			return nil, fmt.Errorf("%w: block %d has size %d", ErrBlockSizes, b, size)
		}
		offsets[b] = total
		total += size
	}

	scalar := make([]int, 0, total)
	for _, b := range blockOrdering {
		for i := 0; i < blocks[b]; i++ {
			scalar = append(scalar, offsets[b]+i)
		}
	}
	return scalar, nil
}

// blockStarts validates a partition against a scalar dimension and returns
// the starting scalar index of each block. With prefix set, the sizes may
// cover only the leading part of the dimension.
func blockStarts(blocks []int, dim int, prefix bool) ([]int, error) {
	starts := make([]int, len(blocks))
	total := 0
	for b, size := range blocks {
		if size <= 0 {
			return nil, fmt.Errorf("%w: block %d has size %d", ErrBlockSizes, b, size)
		}
		starts[b] = total
		total += size
	}
	if total > dim || (!prefix && total != dim) {
		return nil, fmt.Errorf("%w: blocks sum to %d, dimension is %d", ErrBlockSizes, total, dim)
	}
	return starts, nil
}
