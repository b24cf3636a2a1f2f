package redistribution

import (
	"github.com/notargets/ebhydro/grid"
)

// UnitTransform rescales components into the units redistribution works in
// and back
type UnitTransform interface {
	Scale(f *grid.Field)
	Unscale(f *grid.Field)
}

// ComponentScaling multiplies component n by its factor; components without
// a factor are left alone
type ComponentScaling map[int]float64

func (cs ComponentScaling) Scale(f *grid.Field) {
	for n, s := range cs {
		if n >= f.NComp {
			continue
		}
		c := f.Comp(n)
		for i := range c {
			c[i] *= s
		}
	}
}

func (cs ComponentScaling) Unscale(f *grid.Field) {
	for n, s := range cs {
		if n >= f.NComp {
			continue
		}
		c := f.Comp(n)
		for i := range c {
			c[i] /= s
		}
	}
}
