package redistribution

import (
	"github.com/notargets/ebhydro/grid"
)

/*
FluxRedistribute returns the flux redistributed update on bx. dUdt holds the
conservative divergence and covers bx.Grow(2).

A cut cell c keeps the hybrid update vfrac*divc + (1-vfrac)*divnc, where
divnc is the volume weighted average of divc over c and its connected
neighbors, and hands the mass it gives up,

	dM = vfrac (1 - vfrac) (divc - divnc)

to those neighbors in proportion to their volume. Neighbors are the non
covered cells of the 3x3 block inside the domain or across a periodic
boundary.
*/
func FluxRedistribute(bx grid.Box, ncomp int, dUdt *grid.Field, eb EBGeometry,
	geom grid.Geometry) (out *grid.Field) {
	var (
		bxg1  = bx.Grow(1)
		arena = grid.NewArena(grid.ArenaSize(ncomp, bxg1) + grid.ArenaSize(1, bxg1))
		delm  = arena.Alloc(bxg1, ncomp)
		wtot  = arena.Alloc(bxg1, 1)
		pgd   = geom.PeriodicGrownDomain(2)
		isCut = func(i, j int) bool { return eb.Flags.At(i, j, 0) == grid.Cut }
	)
	connected := func(i, j int) bool {
		return pgd.Contains(i, j) && !eb.covered(i, j)
	}
	out = grid.NewField(bx, ncomp)

	grid.ParallelForCell(bxg1, func(i, j int) {
		if !connected(i, j) || !isCut(i, j) {
			return
		}
		var (
			vf   = eb.vfrac(i, j)
			vtot = vf
			wt   float64
		)
		for s := 1; s < 9; s++ {
			if ii, jj := i+IMap[s], j+JMap[s]; connected(ii, jj) {
				vtot += eb.vfrac(ii, jj)
				wt += eb.vfrac(ii, jj)
			}
		}
		wtot.Set(i, j, 0, wt)
		for n := 0; n < ncomp; n++ {
			divnc := vf * dUdt.At(i, j, n)
			for s := 1; s < 9; s++ {
				if ii, jj := i+IMap[s], j+JMap[s]; connected(ii, jj) {
					divnc += eb.vfrac(ii, jj) * dUdt.At(ii, jj, n)
				}
			}
			divnc /= vtot
			delm.Set(i, j, n, vf*(1-vf)*(dUdt.At(i, j, n)-divnc))
		}
	})

	grid.ParallelFor(bx, ncomp, func(i, j, n int) {
		divc := dUdt.At(i, j, n)
		if eb.covered(i, j) {
			out.Set(i, j, n, divc)
			return
		}
		var (
			val      = divc
			received bool
		)
		if isCut(i, j) && connected(i, j) {
			// vfrac*divc + (1-vfrac)*divnc
			val -= delm.At(i, j, n) / eb.vfrac(i, j)
			received = true
		}
		for s := 1; s < 9; s++ {
			ii, jj := i+IMap[s], j+JMap[s]
			if !connected(ii, jj) || !isCut(ii, jj) || wtot.At(ii, jj, 0) <= 0 {
				continue
			}
			val += delm.At(ii, jj, n) / wtot.At(ii, jj, 0)
			received = true
		}
		if received {
			out.Set(i, j, n, val)
		} else {
			out.Set(i, j, n, divc)
		}
	})
	return
}
