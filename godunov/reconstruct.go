package godunov

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/ebhydro/grid"
)

/*
Reconstructor predicts the half-time face values of one cell along one
direction. im is the extrapolation to the low face of cell (i,j), ip to its
high face. vel is the face normal velocity for direction d.
*/
type Reconstructor interface {
	PredictState(d grid.Direction, i, j, n int, dt float64, q, vel *grid.Field,
		comp grid.Component, geom grid.Geometry) (im, ip float64)
}

type ReconType uint8

const (
	ReconPLM ReconType = iota
	ReconPLM4
	ReconPPM
)

var (
	ReconNames = map[string]ReconType{
		"plm":  ReconPLM,
		"plm2": ReconPLM,
		"plm4": ReconPLM4,
		"ppm":  ReconPPM,
	}
	ReconPrintNames = []string{"PLM (MC limited)", "PLM (4th order limited)", "PPM"}
)

func (rt ReconType) Print() string { return ReconPrintNames[rt] }

func NewReconType(label string) (rt ReconType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if rt, ok = ReconNames[label]; !ok {
		err = fmt.Errorf("unable to use reconstruction named [%s]", label)
		panic(err)
	}
	return
}

func NewReconstructor(label string) Reconstructor {
	switch NewReconType(label) {
	case ReconPLM4:
		return PLM{Order: 4}
	case ReconPPM:
		return PPM{}
	}
	return PLM{Order: 2}
}

// stencil holds the line of cell values through one cell along a direction
// together with where that cell sits relative to the domain in the direction
type stencil struct {
	q          *grid.Field
	i, j, n    int
	di, dj     int
	k, lo, hi  int
	edlo, edhi bool
}

func newStencil(d grid.Direction, i, j, n int, q *grid.Field, comp grid.Component,
	geom grid.Geometry) (st stencil) {
	st = stencil{
		q: q, i: i, j: j, n: n,
		lo:   geom.Domain.Lo[d],
		hi:   geom.Domain.Hi[d],
		edlo: comp.BC.Lo[d].HoldsFaceValue(),
		edhi: comp.BC.Hi[d].HoldsFaceValue(),
	}
	st.di, st.dj = d.Unit()
	st.k = i
	if d == grid.YDir {
		st.k = j
	}
	return
}

// s returns the value off cells away from the center cell
func (st stencil) s(off int) float64 {
	return st.q.At(st.i+off*st.di, st.j+off*st.dj, st.n)
}

// ghost is true for cells beyond a wall whose first ghost holds the face value
func (st stencil) ghost() bool {
	return (st.edlo && st.k < st.lo) || (st.edhi && st.k > st.hi)
}

// mcSlope is the monotonized central difference, one sided at a wall
func (st stencil) mcSlope() float64 {
	var (
		dl = 2. * (st.s(0) - st.s(-1))
		dr = 2. * (st.s(1) - st.s(0))
		dc = 0.5 * (st.s(1) - st.s(-1))
	)
	switch {
	case st.edlo && st.k == st.lo:
		dc = (st.s(1) + 3.*st.s(0) - 4.*st.s(-1)) / 3.
	case st.edhi && st.k == st.hi:
		dc = (4.*st.s(1) - 3.*st.s(0) - st.s(-1)) / 3.
	}
	if dl*dr <= 0 {
		return 0
	}
	slope := math.Min(math.Abs(dl), math.Min(math.Abs(dc), math.Abs(dr)))
	if dc > 0 {
		return slope
	}
	return -slope
}

// limitedSlope is the second order limited slope of the cell off away
func (st stencil) limitedSlope(off int) float64 {
	var (
		dlft = st.s(off) - st.s(off-1)
		drgt = st.s(off+1) - st.s(off)
		dcen = 0.5 * (dlft + drgt)
		dlim float64
	)
	if dlft*drgt >= 0 {
		dlim = 2. * math.Min(math.Abs(dlft), math.Abs(drgt))
	}
	return math.Copysign(math.Min(dlim, math.Abs(dcen)), dcen)
}

// wallSlope is the one sided slope of the cell off away, which touches a
// wall face on the side sgn (-1 low, +1 high)
func (st stencil) wallSlope(off, sgn int) float64 {
	var (
		s     = func(m int) float64 { return st.s(off - sgn*m) }
		dtemp = float64(-sgn) * (-16./15.*s(-1) + 0.5*s(0) + 2./3.*s(1) - 0.1*s(2))
		dlft  = 2. * (st.s(off) - st.s(off-1))
		drgt  = 2. * (st.s(off+1) - st.s(off))
		dlim  float64
	)
	if dlft*drgt >= 0 {
		dlim = math.Min(math.Abs(dlft), math.Abs(drgt))
	}
	return math.Copysign(math.Min(dlim, math.Abs(dtemp)), dtemp)
}

func (st stencil) slopeAt(off int) float64 {
	k := st.k + off
	switch {
	case (st.edlo && k < st.lo) || (st.edhi && k > st.hi):
		return 0
	case st.edlo && k == st.lo:
		return st.wallSlope(off, -1)
	case st.edhi && k == st.hi:
		return st.wallSlope(off, 1)
	}
	return st.limitedSlope(off)
}

// fourthOrderSlope is the limited fourth order slope built from the limited
// second order slopes of the two neighbors
func (st stencil) fourthOrderSlope() float64 {
	if (st.edlo && st.k == st.lo) || (st.edhi && st.k == st.hi) {
		return st.slopeAt(0)
	}
	var (
		dlft  = st.s(0) - st.s(-1)
		drgt  = st.s(1) - st.s(0)
		dcen  = 0.5 * (dlft + drgt)
		dfm   = st.slopeAt(-1)
		dfp   = st.slopeAt(1)
		dtemp = 4./3.*dcen - (dfp+dfm)/6.
		dlim  float64
	)
	if dlft*drgt >= 0 {
		dlim = 2. * math.Min(math.Abs(dlft), math.Abs(drgt))
	}
	return math.Copysign(math.Min(dlim, math.Abs(dtemp)), dcen)
}
