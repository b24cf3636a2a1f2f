package redistribution

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/ebhydro/grid"
)

/*
Operator assembles the state redistribution of a scalar over a fully periodic
domain as a sparse matrix M, U_out = M U, probing one unit state per cell.
Cells are numbered i fastest. The slope order is forced to 0, which is what
makes the map linear. eb must cover Domain.Grow(4) with its periodic images
filled.
*/
func Operator(eb EBGeometry, geom grid.Geometry, opts Options) (op *sparse.CSR) {
	var (
		dom   = geom.Domain
		nc    = dom.NumPts()
		comps = grid.ScalarComponents(1, grid.UniformBCRec(grid.BCPeriodic), true)
		u     = grid.NewField(dom.Grow(3), 1)
	)
	if !geom.IsPeriodic(grid.XDir) || !geom.IsPeriodic(grid.YDir) {
		panic(fmt.Errorf("redistribution operator needs a fully periodic domain"))
	}
	if !opts.Policy.IsState() {
		panic(fmt.Errorf("redistribution operator needs a state policy, have %v", opts.Policy))
	}
	tr, w := BuildNeighborhoods(dom, eb, geom, opts)
	dok := sparse.NewDOK(nc, nc)
	dom.ForEach(func(ci, cj int) {
		u.SetVal(0)
		u.Set(ci, cj, 0, 1)
		grid.FillPeriodic(u, geom)
		out := StateRedistribute(dom, 1, u, eb, comps, tr, w, geom, 0)
		col := CellNumber(dom, ci, cj)
		dom.ForEach(func(i, j int) {
			if v := out.At(i, j, 0); v != 0 {
				dok.Set(CellNumber(dom, i, j), col, v)
			}
		})
	})
	op = dok.ToCSR()
	return
}

// CellNumber numbers the cells of a box, i fastest
func CellNumber(b grid.Box, i, j int) int {
	return (i - b.Lo[0]) + b.Length(grid.XDir)*(j-b.Lo[1])
}

// DomainVector returns component n of f over b in CellNumber order
func DomainVector(f *grid.Field, b grid.Box, n int) (v []float64) {
	v = make([]float64, b.NumPts())
	b.ForEach(func(i, j int) {
		v[CellNumber(b, i, j)] = f.At(i, j, n)
	})
	return
}

// ConservationDefect is max over cells c of |sum_i vfrac_i M_ic - vfrac_c|,
// zero when a unit of any cell is redistributed without loss or gain
func ConservationDefect(op mat.Matrix, vfrac []float64) float64 {
	var (
		n    = len(vfrac)
		r    mat.VecDense
		diff = make([]float64, n)
	)
	r.MulVec(op.T(), mat.NewVecDense(n, vfrac))
	for c := range diff {
		diff[c] = r.AtVec(c) - vfrac[c]
	}
	return floats.Norm(diff, math.Inf(1))
}

// ConsistencyDefect is max over non covered rows of |sum_c M_ic - 1|, zero
// when constant states are preserved
func ConsistencyDefect(op mat.Matrix, vfrac []float64) float64 {
	var (
		n    = len(vfrac)
		r    mat.VecDense
		ones = make([]float64, n)
		diff = make([]float64, n)
	)
	floats.AddConst(1, ones)
	r.MulVec(op, mat.NewVecDense(n, ones))
	for i := range diff {
		if vfrac[i] > 0 {
			diff[i] = r.AtVec(i) - 1
		}
	}
	return floats.Norm(diff, math.Inf(1))
}
