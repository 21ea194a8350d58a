package main

import (
	"fmt"
	"spchol"
)

func main() {
	ctx := spchol.NewContext(nil)

	// 3x3 SPD matrix grouped into blocks of sizes [2, 1].
	t := &spchol.TripletMatrix{
		Rows:     3,
		Cols:     3,
		RowIndex: []int{0, 1, 2, 0, 0},
		ColIndex: []int{0, 1, 2, 1, 2},
		Values:   []float64{4, 4, 4, 1, 1},
	}
	A, err := ctx.SparseFromTriplets(t)
	if err != nil {
		panic(err)
	}
	A.Stype = spchol.UpperSymmetric
	ctx.PrintSparse(A, "A")

	blocks := []int{2, 1}
	blockOrdering, err := ctx.BlockAMDOrdering(A, blocks, blocks)
	if err != nil {
		panic(err)
	}
	fmt.Printf("block ordering: %v\n", blockOrdering)

	scalar, err := spchol.BlockOrderingToScalarOrdering(blocks, blockOrdering)
	if err != nil {
		panic(err)
	}
	fmt.Printf("scalar ordering: %v\n", scalar)

	factor, err := ctx.BlockAnalyzeCholesky(A, blocks, blocks)
	if err != nil {
		panic(err)
	}
	ctx.PrintFactor(factor, "L")

	b, err := ctx.DenseFromValues([]float64{4, 8, 12}, 3, 3)
	if err != nil {
		panic(err)
	}
	x, err := ctx.SolveCholesky(A, factor, b)
	if err != nil {
		panic(err)
	}
	ctx.PrintDense(x, "x")

	for _, free := range []error{
		ctx.FreeDense(x),
		ctx.FreeDense(b),
		ctx.FreeFactor(factor),
		ctx.FreeSparse(A),
	} {
		if free != nil {
			panic(free)
		}
	}
	ctx.Destroy()
}
