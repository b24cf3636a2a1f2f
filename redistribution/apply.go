package redistribution

import (
	"fmt"

	"github.com/notargets/ebhydro/grid"
)

const DefaultTargetVolfrac = 0.5

type Options struct {
	Policy        Policy
	MaxOrder      int     // slope order of state redistribution, 0 to 2
	TargetVolfrac float64 // DefaultTargetVolfrac when zero
	Transform     UnitTransform
}

func DefaultOptions() Options {
	return Options{Policy: StateRedist, MaxOrder: 2, TargetVolfrac: DefaultTargetVolfrac}
}

func (opts Options) target() float64 {
	if opts.TargetVolfrac <= 0 {
		return DefaultTargetVolfrac
	}
	return opts.TargetVolfrac
}

/*
Apply redistributes the provisional update dUdtIn of the state U and returns
the update to use on bx. dUdtIn and U cover bx.Grow(3); neither is modified.

State policies advance a scratch state U + dt*dUdt, redistribute it and
convert back to a rate of change on the cells any neighborhood touched;
untouched cells return dUdtIn unchanged. dUdt is zeroed outside a non
periodic domain first, the ghost values of U being the boundary data.
*/
func Apply(bx grid.Box, ncomp int, dUdtIn, U *grid.Field, eb EBGeometry, comps []grid.Component,
	geom grid.Geometry, dt float64, opts Options) (dUdtOut *grid.Field) {
	switch opts.Policy {
	case NoRedist:
		dUdtOut = grid.NewField(bx, ncomp)
		dUdtOut.CopyFrom(dUdtIn, bx, ncomp)
	case FluxRedist:
		dUdtOut = FluxRedistribute(bx, ncomp, dUdtIn, eb, geom)
	case StateRedist, NewStateRedist:
		dUdtOut = applyState(bx, ncomp, dUdtIn, U, eb, comps, geom, dt, opts)
	default:
		panic(fmt.Errorf("not a legitimate redistribution policy: %v", opts.Policy))
	}
	return
}

func applyState(bx grid.Box, ncomp int, dUdtIn, U *grid.Field, eb EBGeometry, comps []grid.Component,
	geom grid.Geometry, dt float64, opts Options) (dUdtOut *grid.Field) {
	var (
		bxg1    = bx.Grow(1)
		bxg3    = bx.Grow(3)
		pgd     = geom.PeriodicGrownDomain(1)
		din     = dUdtIn.Copy()
		uin     = U
		arena   = grid.NewArena(grid.ArenaSize(ncomp, bxg3))
		scratch = arena.Alloc(bxg3, ncomp)
	)
	if !pgd.ContainsBox(bxg1) {
		grid.ParallelFor(bxg1.Intersect(din.Box), ncomp, func(i, j, n int) {
			if !pgd.Contains(i, j) {
				din.Set(i, j, n, 0)
			}
		})
	}
	if opts.Transform != nil {
		uin = U.Copy()
		opts.Transform.Scale(uin)
		opts.Transform.Scale(din)
	}
	grid.ParallelFor(bxg3, ncomp, func(i, j, n int) {
		scratch.Set(i, j, n, uin.At(i, j, n)+dt*din.At(i, j, n))
	})

	tr, w := BuildNeighborhoods(bx, eb, geom, opts)
	dUdtOut = redistributeState(bx, ncomp, scratch, eb, comps, tr, w, geom, opts)

	touched := func(i, j int) bool { return tr.Count(i, j) > 0 || w.Nrs.At(i, j, 0) > 1 }
	grid.ParallelFor(bx, ncomp, func(i, j, n int) {
		if touched(i, j) {
			dUdtOut.Set(i, j, n, (dUdtOut.At(i, j, n)-uin.At(i, j, n))/dt)
		} else {
			dUdtOut.Set(i, j, n, din.At(i, j, n))
		}
	})
	if opts.Transform != nil {
		opts.Transform.Unscale(dUdtOut)
		// untouched cells pass dUdtIn through exactly
		grid.ParallelFor(bx, ncomp, func(i, j, n int) {
			switch {
			case touched(i, j):
			case pgd.Contains(i, j):
				dUdtOut.Set(i, j, n, dUdtIn.At(i, j, n))
			default:
				dUdtOut.Set(i, j, n, 0)
			}
		})
	}
	return
}

// redistributeState runs the redistribution of the policy in opts
func redistributeState(bx grid.Box, ncomp int, U *grid.Field, eb EBGeometry, comps []grid.Component,
	tr *Tracker, w *Weights, geom grid.Geometry, opts Options) *grid.Field {
	if opts.Policy == NewStateRedist {
		return NewStateRedistribute(bx, ncomp, U, eb, comps, tr, w, geom, opts.MaxOrder)
	}
	return StateRedistribute(bx, ncomp, U, eb, comps, tr, w, geom, opts.MaxOrder)
}

// BuildNeighborhoods makes the tracker and the weights of a state policy
func BuildNeighborhoods(bx grid.Box, eb EBGeometry, geom grid.Geometry, opts Options) (tr *Tracker, w *Weights) {
	tr = MakeITracker(bx, eb.Apx, eb.Apy, eb.Vfrac, geom, opts.target())
	if opts.Policy == NewStateRedist {
		w = MakeNewStateRedistUtils(bx, eb, tr, opts.target())
	} else {
		w = MakeStateRedistUtils(bx, eb, tr)
	}
	return
}

// ApplyToInitialData redistributes the state U itself, for conditioning an
// initial condition near the embedded boundary. Only state policies apply.
func ApplyToInitialData(bx grid.Box, ncomp int, U *grid.Field, eb EBGeometry, comps []grid.Component,
	geom grid.Geometry, opts Options) (Uout *grid.Field) {
	if !opts.Policy.IsState() {
		panic(fmt.Errorf("redistribution of initial data needs a state policy, have %v", opts.Policy))
	}
	tr, w := BuildNeighborhoods(bx, eb, geom, opts)
	return redistributeState(bx, ncomp, U, eb, comps, tr, w, geom, opts)
}
