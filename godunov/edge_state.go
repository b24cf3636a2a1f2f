package godunov

import (
	"fmt"
	"math"

	"github.com/notargets/ebhydro/grid"
	"github.com/notargets/ebhydro/utils"
)

/*
EdgeStateInput is the cell and face data of one edge state prediction over a
box bx:
  - Q on bx.Grow(3)
  - UMac, VMac on bx.SurroundingNodes(d).Grow(1)
  - Divu (optional) on bx.Grow(1), derived from UMac and VMac when nil
  - Force (optional) on bx.Grow(1)
*/
type EdgeStateInput struct {
	Q          *grid.Field
	UMac, VMac *grid.Field
	Divu       *grid.Field
	Force      grid.Optional
	Comps      []grid.Component
	Dt         float64
}

func (in EdgeStateInput) vel(d grid.Direction) *grid.Field {
	if d == grid.XDir {
		return in.UMac
	}
	return in.VMac
}

type EdgeStateOptions struct {
	UsePPM           bool
	UseForcesInTrans bool
	Recon            Reconstructor       // overrides UsePPM when set
	BC               BoundaryConditioner // HydroBC when nil
}

func (opts EdgeStateOptions) reconstructor() Reconstructor {
	switch {
	case opts.Recon != nil:
		return opts.Recon
	case opts.UsePPM:
		return PPM{}
	}
	return PLM{Order: 2}
}

func (opts EdgeStateOptions) boundaries() BoundaryConditioner {
	if opts.BC != nil {
		return opts.BC
	}
	return HydroBC{}
}

/*
ComputeEdgeState predicts the time centered states on the x and y faces of bx
for ncomp components of Q, unsplit, with transverse corrections.

The stages, each completed over its whole box before the next starts:
 1. Half time extrapolations Im, Ip in both directions on every cell of bx.Grow(1)
 2. Transverse pass: on each face, lo = Ip(cell below), hi = Im(cell above),
    plus forcing if UseForcesInTrans, boundary policy, then upwinding
 3. Normal pass: the transverse derivative, -dt/2 q divu (conservative
    components) and forcing corrections, boundary policy, the outflow clamp of
    the normal velocity at extrapolating walls, then upwinding
*/
func ComputeEdgeState(bx grid.Box, ncomp int, in EdgeStateInput, geom grid.Geometry,
	opts EdgeStateOptions) (xedge, yedge *grid.Field) {
	var (
		bxg1 = bx.Grow(1)
		ebox = [2]grid.Box{
			bx.SurroundingNodes(grid.XDir).GrowDir(grid.YDir, 1),
			bx.SurroundingNodes(grid.YDir).GrowDir(grid.XDir, 1),
		}
		recon = opts.reconstructor()
		bc    = opts.boundaries()
		dt    = in.Dt
		divu  = in.Divu
	)
	if len(in.Comps) < ncomp {
		panic(fmt.Errorf("edge state needs %d component records, have %d", ncomp, len(in.Comps)))
	}
	arena := grid.NewArena(
		grid.ArenaSize(ncomp, bxg1, bxg1, bxg1, bxg1, ebox[0], ebox[0], ebox[0], ebox[1], ebox[1], ebox[1]) +
			grid.ArenaSize(1, bxg1))
	var im, ip, lo, hi, trans [2]*grid.Field
	for d := grid.XDir; d <= grid.YDir; d++ {
		im[d] = arena.Alloc(bxg1, ncomp)
		ip[d] = arena.Alloc(bxg1, ncomp)
		lo[d] = arena.Alloc(ebox[d], ncomp)
		hi[d] = arena.Alloc(ebox[d], ncomp)
		trans[d] = arena.Alloc(ebox[d], ncomp)
	}
	if divu == nil {
		divu = arena.Alloc(bxg1, 1)
		var (
			dx, dy = geom.CellSize(grid.XDir), geom.CellSize(grid.YDir)
		)
		grid.ParallelForCell(bxg1, func(i, j int) {
			divu.Set(i, j, 0, (in.UMac.At(i+1, j, 0)-in.UMac.At(i, j, 0))/dx+
				(in.VMac.At(i, j+1, 0)-in.VMac.At(i, j, 0))/dy)
		})
	}

	grid.ParallelFor(bxg1, ncomp, func(i, j, n int) {
		for d := grid.XDir; d <= grid.YDir; d++ {
			m, p := recon.PredictState(d, i, j, n, dt, in.Q, in.vel(d), in.Comps[n], geom)
			im[d].Set(i, j, n, m)
			ip[d].Set(i, j, n, p)
		}
	})

	for d := grid.XDir; d <= grid.YDir; d++ {
		var (
			di, dj = d.Unit()
			vel    = in.vel(d)
			dir    = d
		)
		grid.ParallelFor(ebox[d], ncomp, func(i, j, n int) {
			l := ip[dir].At(i-di, j-dj, n)
			h := im[dir].At(i, j, n)
			if opts.UseForcesInTrans {
				l += 0.5 * dt * in.Force.At(i-di, j-dj, n)
				h += 0.5 * dt * in.Force.At(i, j, n)
			}
			l, h = bc.TransTerm(dir, i, j, n, in.Q, l, h, in.Comps[n], geom)
			lo[dir].Set(i, j, n, l)
			hi[dir].Set(i, j, n, h)
			trans[dir].Set(i, j, n, upwind(vel.At(i, j, 0), l, h))
		})
	}

	normal := func(d grid.Direction) (edge *grid.Field) {
		var (
			t      = d.Other()
			di, dj = d.Unit()
			ti, tj = t.Unit()
			vel    = in.vel(d)
			vt     = in.vel(t)
			dtdt   = dt / geom.CellSize(t)
			face   = bx.SurroundingNodes(d)
		)
		edge = grid.NewField(face, ncomp)
		// corrections for the state extrapolated out of cell (ci,cj)
		correct := func(st float64, ci, cj, n int) float64 {
			var (
				qc  = in.Q.At(ci, cj, n)
				vlo = vt.At(ci, cj, 0)
				vhi = vt.At(ci+ti, cj+tj, 0)
			)
			st += -0.5*dtdt*(trans[t].At(ci+ti, cj+tj, n)*vhi-trans[t].At(ci, cj, n)*vlo) +
				0.5*dtdt*qc*(vhi-vlo)
			if in.Comps[n].Conservative {
				st -= 0.5 * dt * qc * divu.At(ci, cj, 0)
			}
			if !opts.UseForcesInTrans {
				st += 0.5 * dt * in.Force.At(ci, cj, n)
			}
			return st
		}
		grid.ParallelFor(face, ncomp, func(i, j, n int) {
			var (
				comp = in.Comps[n]
				u    = vel.At(i, j, 0)
				k    = faceIndex(d, i, j)
				stl  = correct(lo[d].At(i, j, n), i-di, j-dj, n)
				sth  = correct(hi[d].At(i, j, n), i, j, n)
			)
			stl, sth = bc.Edge(d, i, j, n, in.Q, stl, sth, comp, geom)
			if k == geom.Domain.Lo[d] && comp.BC.Lo[d].IsExtrap() {
				if u >= 0 && comp.IsNormalVelocity(d) {
					sth = math.Min(sth, 0)
				}
				stl = sth
			}
			if k == geom.Domain.Hi[d]+1 && comp.BC.Hi[d].IsExtrap() {
				if u <= 0 && comp.IsNormalVelocity(d) {
					stl = math.Max(stl, 0)
				}
				sth = stl
			}
			edge.Set(i, j, n, upwind(u, stl, sth))
		})
		return
	}
	xedge = normal(grid.XDir)
	yedge = normal(grid.YDir)
	return
}

// upwind selects the state on the upwind side of the face, or the mean of
// both sides when the face velocity is below SMALLVEL in magnitude
func upwind(vel, lo, hi float64) float64 {
	switch {
	case math.Abs(vel) < utils.SMALLVEL:
		return 0.5 * (lo + hi)
	case vel >= 0:
		return lo
	}
	return hi
}
