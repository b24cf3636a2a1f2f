package godunov

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/notargets/ebhydro/grid"
	"github.com/notargets/ebhydro/utils"
)

func testGeometry(nx, ny int, periodic [2]bool) (bx grid.Box, geom grid.Geometry) {
	bx = grid.NewBox(grid.IntVect{0, 0}, grid.IntVect{nx - 1, ny - 1})
	geom = grid.NewGeometry(bx, 1./float64(nx), 1./float64(ny), periodic)
	return
}

func newInput(bx grid.Box, ncomp int, qf func(i, j, n int) float64, u, v float64,
	comps []grid.Component) (in EdgeStateInput) {
	in.Q = grid.NewField(bx.Grow(3), ncomp)
	grid.ParallelFor(in.Q.Box, ncomp, func(i, j, n int) { in.Q.Set(i, j, n, qf(i, j, n)) })
	in.UMac = grid.NewField(bx.SurroundingNodes(grid.XDir).Grow(1), 1)
	in.UMac.SetVal(u)
	in.VMac = grid.NewField(bx.SurroundingNodes(grid.YDir).Grow(1), 1)
	in.VMac.SetVal(v)
	in.Comps = comps
	in.Dt = 0.01
	return
}

func TestEdgeStateUpwind(t *testing.T) {
	var (
		bx, geom = testGeometry(8, 4, [2]bool{true, true})
		comps    = grid.ScalarComponents(1, grid.UniformBCRec(grid.BCPeriodic), false)
		qf       = func(i, j, n int) float64 { return math.Sin(0.7*float64(i)) + 0.1*float64(i*i) }
		xfaces   = bx.SurroundingNodes(grid.XDir)
	)
	for _, recon := range []Reconstructor{PLM{Order: 2}, PLM{Order: 4}, PPM{}} {
		{ // Positive velocity takes the state extrapolated out of the left cell
			in := newInput(bx, 1, qf, 1., 0., comps)
			xedge, _ := ComputeEdgeState(bx, 1, in, geom, EdgeStateOptions{Recon: recon})
			xfaces.ForEach(func(i, j int) {
				_, ip := recon.PredictState(grid.XDir, i-1, j, 0, in.Dt, in.Q, in.UMac, comps[0], geom)
				assert.Equal(t, ip, xedge.At(i, j, 0))
			})
		}
		{ // Negative velocity takes the state extrapolated out of the right cell
			in := newInput(bx, 1, qf, -1., 0., comps)
			xedge, _ := ComputeEdgeState(bx, 1, in, geom, EdgeStateOptions{Recon: recon})
			xfaces.ForEach(func(i, j int) {
				im, _ := recon.PredictState(grid.XDir, i, j, 0, in.Dt, in.Q, in.UMac, comps[0], geom)
				assert.Equal(t, im, xedge.At(i, j, 0))
			})
		}
		{ // Below SMALLVEL both sides are averaged
			in := newInput(bx, 1, qf, 0.01*utils.SMALLVEL, 0., comps)
			xedge, _ := ComputeEdgeState(bx, 1, in, geom, EdgeStateOptions{Recon: recon})
			xfaces.ForEach(func(i, j int) {
				_, ip := recon.PredictState(grid.XDir, i-1, j, 0, in.Dt, in.Q, in.UMac, comps[0], geom)
				im, _ := recon.PredictState(grid.XDir, i, j, 0, in.Dt, in.Q, in.UMac, comps[0], geom)
				assert.Equal(t, 0.5*(ip+im), xedge.At(i, j, 0))
			})
		}
	}
}

func TestEdgeStateLinearData(t *testing.T) {
	var (
		bx, geom = testGeometry(8, 4, [2]bool{true, true})
		comps    = grid.ScalarComponents(1, grid.UniformBCRec(grid.BCPeriodic), false)
		u        = 0.5
		qf       = func(i, j, n int) float64 { return 2. + 3.*float64(i) }
	)
	for _, label := range []string{"plm", "PLM4", "ppm"} {
		in := newInput(bx, 1, qf, u, 0., comps)
		xedge, yedge := ComputeEdgeState(bx, 1, in, geom, EdgeStateOptions{Recon: NewReconstructor(label)})
		dtdx := in.Dt / geom.CellSize(grid.XDir)
		bx.SurroundingNodes(grid.XDir).ForEach(func(i, j int) {
			// value at the foot of the half step characteristic through the face
			exact := 2. + 3.*(float64(i)-0.5-0.5*u*dtdx)
			assert.InDeltaf(t, exact, xedge.At(i, j, 0), 1.e-12, "%s face %d", label, i)
		})
		// y faces only see the transverse advection term -dt/2 u q_x
		bx.SurroundingNodes(grid.YDir).ForEach(func(i, j int) {
			assert.InDelta(t, qf(i, j, 0)-0.5*dtdx*u*3., yedge.At(i, j, 0), 1.e-12)
		})
	}
	assert.Panics(t, func() { NewReconstructor("weno5") })
}

func TestEdgeStateBoundaries(t *testing.T) {
	{ // Dirichlet inflow takes the wall value, outflow extrapolates
		var (
			bx, geom = testGeometry(6, 3, [2]bool{false, true})
			bc       = grid.NewBCRec(grid.BCExtDir, grid.BCPeriodic, grid.BCFOExtrap, grid.BCPeriodic)
			comps    = grid.ScalarComponents(1, bc, false)
			qf       = func(i, j, n int) float64 {
				if i < 0 {
					return 5.
				}
				return 1. + 0.1*float64(i)
			}
		)
		for _, recon := range []Reconstructor{PLM{Order: 2}, PLM{Order: 4}, PPM{}} {
			in := newInput(bx, 1, qf, 1., 0., comps)
			xedge, _ := ComputeEdgeState(bx, 1, in, geom, EdgeStateOptions{Recon: recon})
			hi := bx.Hi[0]
			for j := bx.Lo[1]; j <= bx.Hi[1]; j++ {
				assert.Equal(t, 5., xedge.At(0, j, 0))
				_, ip := recon.PredictState(grid.XDir, hi, j, 0, in.Dt, in.Q, in.UMac, comps[0], geom)
				assert.Equal(t, ip, xedge.At(hi+1, j, 0))
			}
		}
	}
	{ // Outflow walls never let the normal velocity flow back in
		var (
			bx, geom = testGeometry(6, 3, [2]bool{false, true})
			bc       = grid.NewBCRec(grid.BCFOExtrap, grid.BCPeriodic, grid.BCFOExtrap, grid.BCPeriodic)
			comps    = grid.VelocityComponents(bc, bc)
			qf       = func(i, j, n int) float64 { return []float64{1., 0.25}[n] }
		)
		in := newInput(bx, 2, qf, 1., 0., comps)
		xedge, _ := ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{UsePPM: true})
		for j := bx.Lo[1]; j <= bx.Hi[1]; j++ {
			assert.Equal(t, 0., xedge.At(0, j, 0))
			assert.Equal(t, 0.25, xedge.At(0, j, 1))
			assert.Equal(t, 1., xedge.At(bx.Hi[0]+1, j, 0))
			assert.Equal(t, 1., xedge.At(3, j, 0))
		}
	}
	{ // Odd reflection zeroes the wall state
		var (
			bx, geom = testGeometry(4, 5, [2]bool{true, false})
			bc       = grid.NewBCRec(grid.BCPeriodic, grid.BCReflectOdd, grid.BCPeriodic, grid.BCReflectOdd)
			comps    = grid.ScalarComponents(1, bc, false)
			qf       = func(i, j, n int) float64 { return 3. }
		)
		in := newInput(bx, 1, qf, 0., 0.5, comps)
		_, yedge := ComputeEdgeState(bx, 1, in, geom, EdgeStateOptions{})
		for i := bx.Lo[0]; i <= bx.Hi[0]; i++ {
			assert.Equal(t, 0., yedge.At(i, 0, 0))
			assert.Equal(t, 0., yedge.At(i, bx.Hi[1]+1, 0))
			assert.Equal(t, 3., yedge.At(i, 2, 0))
		}
	}
}

func TestEdgeStateSources(t *testing.T) {
	var (
		bx, geom = testGeometry(8, 8, [2]bool{true, true})
		comps    = grid.ScalarComponents(2, grid.UniformBCRec(grid.BCPeriodic), true)
		qf       = func(i, j, n int) float64 { return 1. + float64(n) + 0.05*float64(i*j) }
	)
	{ // Forcing gives the same states applied in either pass
		cq := func(i, j, n int) float64 { return 2. }
		force := grid.NewField(bx.Grow(1), 2)
		force.SetVal(4.)
		in := newInput(bx, 2, cq, 1., 0., comps)
		in.Force = grid.Some(force)
		x1, y1 := ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{UseForcesInTrans: true})
		x2, y2 := ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{})
		for ii := range x1.Data {
			assert.InDelta(t, 2.+0.5*in.Dt*4., x1.Data[ii], 1.e-14)
			assert.InDelta(t, x1.Data[ii], x2.Data[ii], 1.e-14)
		}
		for ii := range y1.Data {
			assert.InDelta(t, y1.Data[ii], y2.Data[ii], 1.e-14)
		}
	}
	{ // A supplied divergence matching the face velocities changes nothing
		in := newInput(bx, 2, qf, 0., 0., comps)
		var (
			dx, dy = geom.CellSize(grid.XDir), geom.CellSize(grid.YDir)
		)
		in.UMac.Box.ForEach(func(i, j int) { in.UMac.Set(i, j, 0, 0.3+0.1*math.Sin(float64(i+2*j))) })
		in.VMac.Box.ForEach(func(i, j int) { in.VMac.Set(i, j, 0, -0.2+0.1*math.Cos(float64(3*i-j))) })
		xa, ya := ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{})
		in.Divu = grid.NewField(bx.Grow(1), 1)
		in.Divu.Box.ForEach(func(i, j int) {
			in.Divu.Set(i, j, 0, (in.UMac.At(i+1, j, 0)-in.UMac.At(i, j, 0))/dx+
				(in.VMac.At(i, j+1, 0)-in.VMac.At(i, j, 0))/dy)
		})
		xb, yb := ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{})
		assert.True(t, cmp.Equal(xa.Data, xb.Data), cmp.Diff(xa.Data, xb.Data))
		assert.True(t, cmp.Equal(ya.Data, yb.Data), cmp.Diff(ya.Data, yb.Data))

		// and the result does not depend on how rows are split across go routines
		defer utils.SetParallelDegree(0)
		utils.SetParallelDegree(1)
		xs, ys := ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{UsePPM: true})
		utils.SetParallelDegree(5)
		xp, yp := ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{UsePPM: true})
		assert.True(t, cmp.Equal(xs.Data, xp.Data), cmp.Diff(xs.Data, xp.Data))
		assert.True(t, cmp.Equal(ys.Data, yp.Data), cmp.Diff(ys.Data, yp.Data))
	}
	assert.Panics(t, func() {
		in := newInput(bx, 2, qf, 1., 1., comps[:1])
		ComputeEdgeState(bx, 2, in, geom, EdgeStateOptions{})
	})
}
