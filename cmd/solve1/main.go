package main

import (
	"fmt"
	"spchol"
)

func main() {
	ctx := spchol.NewContext(&spchol.Options{
		PrinterWidth: 140,
		Annotate:     1,
	})

	// Tridiagonal SPD system, upper triangle stored.
	n := 5
	t := &spchol.TripletMatrix{Rows: n, Cols: n}
	for i := 0; i < n; i++ {
		t.RowIndex = append(t.RowIndex, i)
		t.ColIndex = append(t.ColIndex, i)
		t.Values = append(t.Values, 2.0)
		if i+1 < n {
			t.RowIndex = append(t.RowIndex, i)
			t.ColIndex = append(t.ColIndex, i+1)
			t.Values = append(t.Values, -1.0)
		}
	}
	ctx.PrintTriplet(t, "A (triplets)")

	A, err := ctx.SparseFromTriplets(t)
	if err != nil {
		panic(err)
	}
	A.Stype = spchol.UpperSymmetric
	ctx.PrintSparse(A, "A")

	b, err := ctx.DenseFromValues([]float64{1, 0, 0, 0, 1}, n, n)
	if err != nil {
		panic(err)
	}
	ctx.PrintDense(b, "b")

	factor, err := ctx.AnalyzeCholesky(A)
	if err != nil {
		panic(err)
	}
	fmt.Printf("ordering: %v\n", factor.Ordering())

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
	fmt.Printf("live objects: %d\n", ctx.LiveObjects())
	ctx.Destroy()
}
