package godunov

import (
	"github.com/notargets/ebhydro/grid"
)

/*
BoundaryConditioner enforces the physical boundary policy on the pair of
states meeting at a face normal to direction d, lo from the cell below the
face and hi from the cell above. It returns the pair, possibly overwritten.
TransTerm is applied to the transverse predictions, Edge to the final normal
edge states.
*/
type BoundaryConditioner interface {
	TransTerm(d grid.Direction, i, j, n int, q *grid.Field, lo, hi float64,
		comp grid.Component, geom grid.Geometry) (float64, float64)
	Edge(d grid.Direction, i, j, n int, q *grid.Field, lo, hi float64,
		comp grid.Component, geom grid.Geometry) (float64, float64)
}

// HydroBC handles the Dirichlet, extrapolating and reflecting policies.
// Periodic and interior faces are left untouched.
type HydroBC struct{}

func (h HydroBC) TransTerm(d grid.Direction, i, j, n int, q *grid.Field, lo, hi float64,
	comp grid.Component, geom grid.Geometry) (float64, float64) {
	return h.face(d, i, j, n, q, lo, hi, comp, geom)
}

func (h HydroBC) Edge(d grid.Direction, i, j, n int, q *grid.Field, lo, hi float64,
	comp grid.Component, geom grid.Geometry) (float64, float64) {
	return h.face(d, i, j, n, q, lo, hi, comp, geom)
}

func (HydroBC) face(d grid.Direction, i, j, n int, q *grid.Field, lo, hi float64,
	comp grid.Component, geom grid.Geometry) (float64, float64) {
	var (
		di, dj = d.Unit()
		k      = faceIndex(d, i, j)
		normal = comp.IsNormalVelocity(d)
	)
	if k == geom.Domain.Lo[d] {
		switch comp.BC.Lo[d] {
		case grid.BCExtDir:
			lo = q.At(i-di, j-dj, n)
			if normal {
				hi = lo
			}
		case grid.BCFOExtrap, grid.BCHOExtrap, grid.BCReflectEven:
			lo = hi
		case grid.BCReflectOdd:
			lo, hi = 0, 0
		}
	}
	if k == geom.Domain.Hi[d]+1 {
		switch comp.BC.Hi[d] {
		case grid.BCExtDir:
			hi = q.At(i, j, n)
			if normal {
				lo = hi
			}
		case grid.BCFOExtrap, grid.BCHOExtrap, grid.BCReflectEven:
			hi = lo
		case grid.BCReflectOdd:
			lo, hi = 0, 0
		}
	}
	return lo, hi
}

func faceIndex(d grid.Direction, i, j int) int {
	if d == grid.XDir {
		return i
	}
	return j
}
