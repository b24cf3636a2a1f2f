package godunov

import (
	"math"

	"github.com/notargets/ebhydro/grid"
	"github.com/notargets/ebhydro/utils"
)

// PPM is the Colella-Woodward piecewise parabolic predictor
type PPM struct{}

func (PPM) PredictState(d grid.Direction, i, j, n int, dt float64, q, vel *grid.Field,
	comp grid.Component, geom grid.Geometry) (im, ip float64) {
	var (
		st   = newStencil(d, i, j, n, q, comp, geom)
		dtdx = dt / geom.CellSize(d)
		s0   = st.s(0)
		uLo  = vel.At(i, j, 0)
		uHi  = vel.At(i+st.di, j+st.dj, 0)
	)
	if st.ghost() {
		return s0, s0
	}
	sm, sp := st.parabolaEdges()
	var (
		s6   = 6.*s0 - 3.*(sm+sp)
		sigp = math.Abs(uHi) * dtdx
		sigm = math.Abs(uLo) * dtdx
	)
	ip, im = s0, s0
	if uHi > utils.SMALLVEL {
		ip = sp - 0.5*sigp*((sp-sm)-(1.-2./3.*sigp)*s6)
	}
	if uLo < -utils.SMALLVEL {
		im = sm + 0.5*sigm*((sp-sm)+(1.-2./3.*sigm)*s6)
	}
	return
}

// parabolaEdges returns the limited low and high edge values of the cell
// parabola, with the wall face value substituted next to Dirichlet walls
func (st stencil) parabolaEdges() (sm, sp float64) {
	var (
		s0 = st.s(0)
		d0 = vanLeer(st.s(-1), s0, st.s(1))
		dm = vanLeer(st.s(-2), st.s(-1), s0)
		dp = vanLeer(s0, st.s(1), st.s(2))
	)
	sp = clampBetween(0.5*(s0+st.s(1))-(dp-d0)/6., s0, st.s(1))
	sm = clampBetween(0.5*(st.s(-1)+s0)-(d0-dm)/6., st.s(-1), s0)
	switch {
	case (sp-s0)*(s0-sm) <= 0:
		sp, sm = s0, s0
	case math.Abs(sp-s0) >= 2.*math.Abs(sm-s0):
		sp = 3.*s0 - 2.*sm
	case math.Abs(sm-s0) >= 2.*math.Abs(sp-s0):
		sm = 3.*s0 - 2.*sp
	}
	if st.edlo {
		switch st.k {
		case st.lo:
			sm = st.s(-1)
			sp = clampBetween(wallEdge(st.s(-1), s0, st.s(1), st.s(2)), s0, st.s(1))
		case st.lo + 1:
			sm = clampBetween(wallEdge(st.s(-2), st.s(-1), s0, st.s(1)), st.s(-1), s0)
		}
	}
	if st.edhi {
		switch st.k {
		case st.hi:
			sp = st.s(1)
			sm = clampBetween(wallEdge(st.s(1), s0, st.s(-1), st.s(-2)), s0, st.s(-1))
		case st.hi - 1:
			sp = clampBetween(wallEdge(st.s(2), st.s(1), s0, st.s(-1)), st.s(1), s0)
		}
	}
	return
}

// wallEdge interpolates the edge between the first two interior cells from
// the wall face value ext and the three interior values nearest the wall
func wallEdge(ext, s0, s1, s2 float64) float64 {
	return -0.2*ext + 0.75*s0 + 0.5*s1 - 0.05*s2
}

func vanLeer(sm, s0, sp float64) float64 {
	var (
		dsc = 0.5 * (sp - sm)
		dsl = 2. * (s0 - sm)
		dsr = 2. * (sp - s0)
	)
	if dsl*dsr <= 0 {
		return 0
	}
	return math.Copysign(math.Min(math.Abs(dsc), math.Min(math.Abs(dsl), math.Abs(dsr))), dsc)
}

func clampBetween(v, a, b float64) float64 {
	return math.Min(math.Max(v, math.Min(a, b)), math.Max(a, b))
}
