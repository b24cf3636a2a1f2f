package redistribution

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/ebhydro/grid"
)

var (
	axisStencil = []int{2, 4, 5, 7}
	fullStencil = []int{1, 2, 3, 4, 5, 6, 7, 8}
)

/*
StateRedistribute returns the redistributed state on bx.

Each neighborhood n gets the share weighted average Qhat(n) of its members
and, for maxOrder > 0, a limited least squares slope of Qhat built over the
neighborhood centroids of the axis (maxOrder 1) or full 3x3 (maxOrder 2)
stencil. Every cell then gathers share(i,n) * (Qhat(n) + slope(n) . (x_i - c_n))
over the neighborhoods n it belongs to.

U covers bx.Grow(3). Cells outside a non periodic domain enter the slope
stencils only for components with a Dirichlet policy on that side, placed at
the boundary face centroid.
*/
func StateRedistribute(bx grid.Box, ncomp int, U *grid.Field, eb EBGeometry, comps []grid.Component,
	tr *Tracker, w *Weights, geom grid.Geometry, maxOrder int) (out *grid.Field) {
	var (
		bxg1  = bx.Grow(1)
		bxg2  = bx.Grow(2)
		arena = grid.NewArena(grid.ArenaSize(ncomp, bxg2) + grid.ArenaSize(2*ncomp, bxg1))
		qhat  = arena.Alloc(bxg2, ncomp)
		slope = arena.Alloc(bxg1, 2*ncomp)
	)
	if len(comps) < ncomp {
		panic(fmt.Errorf("state redistribution needs %d component records, have %d", ncomp, len(comps)))
	}
	out = grid.NewField(bx, ncomp)

	grid.ParallelFor(bxg2, ncomp, func(i, j, n int) {
		u := U.At(i, j, n)
		qhat.Set(i, j, n, u)
		if eb.covered(i, j) || tr.Count(i, j) == 0 {
			return
		}
		nv := w.NbhdVol.At(i, j, 0)
		if nv <= 0 {
			return
		}
		sum := w.Keep.At(i, j, 0) * eb.vfrac(i, j) * u
		for m := 1; m <= tr.Count(i, j); m++ {
			di, dj := tr.Offset(i, j, m)
			sum += w.Share(i, j, i+di, j+dj) * eb.vfrac(i+di, j+dj) * U.At(i+di, j+dj, n)
		}
		qhat.Set(i, j, n, sum/nv)
	})

	if maxOrder > 0 {
		stencil := fullStencil
		if maxOrder == 1 {
			stencil = axisStencil
		}
		grid.ParallelForCell(bxg1, func(i, j int) {
			if eb.covered(i, j) || tr.Count(i, j) == 0 {
				return
			}
			for n := 0; n < ncomp; n++ {
				sx, sy := nbhdSlope(i, j, n, qhat, eb, comps[n], tr, w, geom, stencil)
				slope.Set(i, j, 2*n, sx)
				slope.Set(i, j, 2*n+1, sy)
			}
		})
	}

	grid.ParallelFor(bx, ncomp, func(i, j, n int) {
		if eb.covered(i, j) || (tr.Count(i, j) == 0 && w.Nrs.At(i, j, 0) == 1) {
			out.Set(i, j, n, U.At(i, j, n))
			return
		}
		cx, cy := eb.centroid(i, j)
		var sum float64
		for s := 0; s < 9; s++ {
			ni, nj := i+IMap[s], j+JMap[s]
			if s != 0 && !tr.Contains(ni, nj, i, j) {
				continue
			}
			var (
				px = float64(-IMap[s]) + cx - w.CentHat.At(ni, nj, 0)
				py = float64(-JMap[s]) + cy - w.CentHat.At(ni, nj, 1)
				q  = qhat.At(ni, nj, n) + slope.At(ni, nj, 2*n)*px + slope.At(ni, nj, 2*n+1)*py
			)
			sum += w.Share(ni, nj, i, j) * q
		}
		out.Set(i, j, n, sum)
	})
	return
}

/*
NewStateRedistribute is the weighted state redistribution. The gather is the
one of StateRedistribute; what differs is in w, built by
MakeNewStateRedistUtils, where the alpha blend lives: Alpha from the target
volume fraction, Keep = max(0, 1 - sum alpha) for the home cell and
Scale = 1/max(1, sum alpha) on each neighbor's Alpha share.
*/
func NewStateRedistribute(bx grid.Box, ncomp int, U *grid.Field, eb EBGeometry, comps []grid.Component,
	tr *Tracker, w *Weights, geom grid.Geometry, maxOrder int) (out *grid.Field) {
	return StateRedistribute(bx, ncomp, U, eb, comps, tr, w, geom, maxOrder)
}

/*
nbhdSlope fits the slope of qhat around the neighborhood of (i,j) by least
squares over the stencil slots, then scales it so the reconstruction at every
member of the neighborhood stays within the stencil's range (Barth-Jespersen).
*/
func nbhdSlope(i, j, n int, qhat *grid.Field, eb EBGeometry, comp grid.Component,
	tr *Tracker, w *Weights, geom grid.Geometry, stencil []int) (sx, sy float64) {
	var (
		q0     = qhat.At(i, j, n)
		cx, cy = w.CentHat.At(i, j, 0), w.CentHat.At(i, j, 1)
		rows   [][2]float64
		rhs    []float64
		qmin   = q0
		qmax   = q0
	)
	for _, s := range stencil {
		px, py, ok := stencilPosition(i+IMap[s], j+JMap[s], IMap[s], JMap[s], eb, comp, w, geom)
		if !ok {
			continue
		}
		q := qhat.At(i+IMap[s], j+JMap[s], n)
		rows = append(rows, [2]float64{px - cx, py - cy})
		rhs = append(rhs, q-q0)
		qmin, qmax = math.Min(qmin, q), math.Max(qmax, q)
	}
	var cols []int
	for d := 0; d < 2; d++ {
		for _, r := range rows {
			if r[d] != 0 {
				cols = append(cols, d)
				break
			}
		}
	}
	if len(cols) == 0 || len(rows) < len(cols) {
		return
	}
	A := mat.NewDense(len(rows), len(cols), nil)
	for ii, r := range rows {
		for jj, d := range cols {
			A.Set(ii, jj, r[d])
		}
	}
	var (
		qr  mat.QR
		x   mat.VecDense
		sol [2]float64
	)
	qr.Factorize(A)
	if err := qr.SolveVecTo(&x, false, mat.NewVecDense(len(rhs), rhs)); err != nil {
		return
	}
	for jj, d := range cols {
		sol[d] = x.AtVec(jj)
	}
	sx, sy = sol[0], sol[1]

	phi := 1.
	limit := func(px, py float64) {
		delta := sx*(px-cx) + sy*(py-cy)
		switch {
		case delta > 0:
			phi = math.Min(phi, (qmax-q0)/delta)
		case delta < 0:
			phi = math.Min(phi, (qmin-q0)/delta)
		}
	}
	mx, my := eb.centroid(i, j)
	limit(mx, my)
	for m := 1; m <= tr.Count(i, j); m++ {
		di, dj := tr.Offset(i, j, m)
		rx, ry := eb.centroid(i+di, j+dj)
		limit(float64(di)+rx, float64(dj)+ry)
	}
	phi = math.Max(0, phi)
	return phi * sx, phi * sy
}

/*
stencilPosition locates the data of stencil cell (mi,mj), at offset (oi,oj)
from the neighborhood's home cell, relative to the home cell center. Cells
inside the domain or across a periodic boundary sit at their neighborhood
centroid. Cells one layer outside a non periodic side are only used for a
Dirichlet policy and sit at the face centroid on that side.
*/
func stencilPosition(mi, mj, oi, oj int, eb EBGeometry, comp grid.Component, w *Weights,
	geom grid.Geometry) (px, py float64, ok bool) {
	var (
		dom  = geom.Domain
		side [2]int
		idx  = [2]int{mi, mj}
	)
	for d := grid.XDir; d <= grid.YDir; d++ {
		switch {
		case geom.IsPeriodic(d):
		case idx[d] < dom.Lo[d]:
			side[d] = -1
		case idx[d] > dom.Hi[d]:
			side[d] = 1
		}
	}
	switch {
	case side[0] == 0 && side[1] == 0:
		if eb.covered(mi, mj) {
			return
		}
		return float64(oi) + w.CentHat.At(mi, mj, 0), float64(oj) + w.CentHat.At(mi, mj, 1), true
	case side[0] != 0 && side[1] != 0:
		return
	case side[0] == -1 && comp.BC.Lo[0] == grid.BCExtDir:
		return float64(oi) + 0.5, float64(oj) + eb.Fcx.At(mi+1, mj, 0), true
	case side[0] == 1 && comp.BC.Hi[0] == grid.BCExtDir:
		return float64(oi) - 0.5, float64(oj) + eb.Fcx.At(mi, mj, 0), true
	case side[1] == -1 && comp.BC.Lo[1] == grid.BCExtDir:
		return float64(oi) + eb.Fcy.At(mi, mj+1, 0), float64(oj) + 0.5, true
	case side[1] == 1 && comp.BC.Hi[1] == grid.BCExtDir:
		return float64(oi) + eb.Fcy.At(mi, mj, 0), float64(oj) - 0.5, true
	}
	return
}
