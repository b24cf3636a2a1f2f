package godunov

import (
	"github.com/notargets/ebhydro/grid"
)

// PLM is the piecewise linear predictor. Order 4 selects the fourth order
// limited slope, anything else the MC limited slope.
type PLM struct {
	Order int
}

func (p PLM) PredictState(d grid.Direction, i, j, n int, dt float64, q, vel *grid.Field,
	comp grid.Component, geom grid.Geometry) (im, ip float64) {
	var (
		st   = newStencil(d, i, j, n, q, comp, geom)
		dtdx = dt / geom.CellSize(d)
		q0   = st.s(0)
		uLo  = vel.At(i, j, 0)
		uHi  = vel.At(i+st.di, j+st.dj, 0)
	)
	var slope float64
	if st.ghost() {
		return q0, q0
	}
	if p.Order == 4 {
		slope = st.fourthOrderSlope()
	} else {
		slope = st.mcSlope()
	}
	im = q0 + 0.5*(-1.-uLo*dtdx)*slope
	ip = q0 + 0.5*(1.-uHi*dtdx)*slope
	return
}
