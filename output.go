package spchol

import "fmt"

func (s Symmetry) String() string {
	if s == UpperSymmetric {
		return "upper-symmetric"
	}
	return "unsymmetric"
}

// PrintSparse writes a diagnostic dump of a sparse matrix. Nothing is
// mutated and ownership does not change.
func (c *Context) PrintSparse(m *SparseMatrix, name string) {
	if m == nil || m.released {
		fmt.Fprintf(c.out, "%s: released or nil sparse matrix\n", name)
		return
	}
	fmt.Fprintf(c.out, "%s: %d x %d sparse, %d non-zeros, %s\n",
		name, m.NumRows, m.NumCols, m.NumNonZeros(), m.Stype)

	if m.NumRows == 0 || m.NumCols == 0 {
		return
	}

	columns := max((c.Config.PrinterWidth+1)/10, 1)
	for startCol := 0; startCol < m.NumCols; startCol += columns {
		stopCol := min(startCol+columns, m.NumCols)
		if m.NumCols > columns {
			fmt.Fprintf(c.out, "Columns %d to %d.\n", startCol, stopCol-1)
		}
		for i := 0; i < m.NumRows; i++ {
			for j := startCol; j < stopCol; j++ {
				if v, ok := m.entry(i, j); ok {
					fmt.Fprintf(c.out, " %9.3g", v)
				} else {
					fmt.Fprintf(c.out, "       ...")
				}
			}
			fmt.Fprintln(c.out)
		}
		fmt.Fprintln(c.out)
	}
}

// PrintDense writes a diagnostic dump of a dense vector.
func (c *Context) PrintDense(d *DenseVector, name string) {
	if d == nil || d.released {
		fmt.Fprintf(c.out, "%s: released or nil dense vector\n", name)
		return
	}
	fmt.Fprintf(c.out, "%s: dense vector of length %d\n", name, d.Len())

	columns := max((c.Config.PrinterWidth+1)/10, 1)
	for i, v := range d.Values {
		fmt.Fprintf(c.out, " %9.3g", v)
		if (i+1)%columns == 0 {
			fmt.Fprintln(c.out)
		}
	}
	if d.Len()%columns != 0 {
		fmt.Fprintln(c.out)
	}
}

// PrintTriplet writes a diagnostic dump of a coordinate-form matrix.
func (c *Context) PrintTriplet(t *TripletMatrix, name string) {
	if t == nil {
		fmt.Fprintf(c.out, "%s: nil triplet matrix\n", name)
		return
	}
	fmt.Fprintf(c.out, "%s: %d x %d triplet, %d entries\n", name, t.Rows, t.Cols, t.NumNonZeros())
	for k := range t.Values {
		fmt.Fprintf(c.out, " (%d, %d) %g\n", t.RowIndex[k], t.ColIndex[k], t.Values[k])
	}
}

// PrintFactor writes the factor's state and, once numeric, its fill.
func (c *Context) PrintFactor(f *Factor, name string) {
	if f == nil || f.released {
		fmt.Fprintf(c.out, "%s: released or nil factor\n", name)
		return
	}
	fmt.Fprintf(c.out, "%s: %d x %d factor, state = %s", name, f.n, f.n, f.state)
	if f.state == FactorNumeric || f.state == FactorSymbolic {
		fmt.Fprintf(c.out, ", nnz(L) = %d", f.lp[f.n])
	}
	fmt.Fprintln(c.out)
}

func (m *SparseMatrix) entry(i, j int) (float64, bool) {
	for p := m.ColStarts[j]; p < m.ColStarts[j+1]; p++ {
		if m.RowIndices[p] == i {
			return m.Values[p], true
		}
	}
	return 0, false
}
