package redistribution

import (
	"math"

	"github.com/notargets/ebhydro/grid"
)

/*
Neighbor slots of a cell, numbered

	6 7 8
	4 _ 5
	1 2 3

with IMap, JMap the index offsets of each slot.
*/
var (
	IMap = [9]int{0, -1, 0, 1, -1, 1, -1, 0, 1}
	JMap = [9]int{0, -1, -1, -1, 0, 0, 1, 1, 1}
)

// MaxNeighbors is the most cells one cut cell merges with in 2D
const MaxNeighbors = 3

// normals closer than this to the diagonal merge in both axis directions
const smallNormDiff = 1.e-8

/*
Tracker records the merging neighborhood of every cell. Component 0 of Nbr
is the number of neighbors, components 1..count their slots.
*/
type Tracker struct {
	Box       grid.Box // cells whose neighborhoods were built
	Nbr       *grid.IField
	Shortfall int // neighborhoods left below the target volume fraction
}

func (tr *Tracker) Count(i, j int) int { return tr.Nbr.At(i, j, 0) }

// Offset returns the index offset of the m-th neighbor, m in 1..Count
func (tr *Tracker) Offset(i, j, m int) (di, dj int) {
	s := tr.Nbr.At(i, j, m)
	return IMap[s], JMap[s]
}

// Contains is true when cell (ri,rj) is a neighbor in the neighborhood of (ni,nj)
func (tr *Tracker) Contains(ni, nj, ri, rj int) bool {
	if !tr.Nbr.Box.Contains(ni, nj) {
		return false
	}
	for m := 1; m <= tr.Count(ni, nj); m++ {
		if di, dj := tr.Offset(ni, nj, m); ni+di == ri && nj+dj == rj {
			return true
		}
	}
	return false
}

/*
MakeITracker builds the merging neighborhoods of the cut cells of
bx.Grow(3) whose volume fraction is below targetVolfrac.

The boundary normal (apx(i+1)-apx(i), apy(j+1)-apy(j)) points into the fluid.
The first neighbor is the axis neighbor along its dominant component, ties
going to y, redirected to the other axis if it would leave a non periodic
domain. If the pair is still below target, or the normal is diagonal, the
neighbor along the other axis joins, and with two axis neighbors the corner
between them joins as well. A cell with no normal takes the in-domain axis
neighbor with the largest volume fraction, slots scanned in order 2, 4, 5, 7.
*/
func MakeITracker(bx grid.Box, apx, apy, vfrac *grid.Field, geom grid.Geometry,
	targetVolfrac float64) (tr *Tracker) {
	var (
		domain = geom.Domain
		perX   = geom.IsPeriodic(grid.XDir)
		perY   = geom.IsPeriodic(grid.YDir)
		region = bx.Grow(3).Intersect(geom.PeriodicGrownDomain(4))
	)
	tr = &Tracker{
		Box: region,
		Nbr: grid.NewFab[int](bx.Grow(4), MaxNeighbors+1),
	}
	grid.ParallelForCell(region, func(i, j int) {
		vf := vfrac.At(i, j, 0)
		if vf <= 0 || vf >= targetVolfrac {
			return
		}
		var (
			dapx   = apx.At(i+1, j, 0) - apx.At(i, j, 0)
			dapy   = apy.At(i, j+1, 0) - apy.At(i, j, 0)
			apnorm = math.Hypot(dapx, dapy)
			nx, ny float64
			xmOK   = perX || i > domain.Lo[0]
			xpOK   = perX || i < domain.Hi[0]
			ymOK   = perY || j > domain.Lo[1]
			ypOK   = perY || j < domain.Hi[1]
			slots  [MaxNeighbors + 1]int
			count  int
		)
		inDomain := func(s int) bool {
			switch s {
			case 4:
				return xmOK
			case 5:
				return xpOK
			case 2:
				return ymOK
			case 7:
				return ypOK
			}
			return false
		}
		largest := func() (best int) {
			bestVol := -1.
			for _, s := range []int{2, 4, 5, 7} {
				if v := vfrac.At(i+IMap[s], j+JMap[s], 0); inDomain(s) && v > bestVol {
					best, bestVol = s, v
				}
			}
			return
		}
		if apnorm > 0 {
			nx, ny = dapx/apnorm, dapy/apnorm
			switch {
			case math.Abs(nx) > math.Abs(ny) && nx > 0:
				slots[1] = 5
			case math.Abs(nx) > math.Abs(ny):
				slots[1] = 4
			case ny > 0:
				slots[1] = 7
			default:
				slots[1] = 2
			}
			if (!xmOK && slots[1] == 4) || (!xpOK && slots[1] == 5) {
				slots[1] = 2
				if ny > 0 {
					slots[1] = 7
				}
			}
			if (!ymOK && slots[1] == 2) || (!ypOK && slots[1] == 7) {
				slots[1] = 4
				if nx > 0 {
					slots[1] = 5
				}
			}
		}
		if !inDomain(slots[1]) {
			if slots[1] = largest(); slots[1] == 0 {
				return
			}
		}
		count = 1
		var (
			nxEqNy = math.Abs(nx-ny) < smallNormDiff || math.Abs(nx+ny) < smallNormDiff
			ioff   = IMap[slots[1]]
			sum    = vf + vfrac.At(i+ioff, j+JMap[slots[1]], 0)
		)
		if sum < targetVolfrac || nxEqNy {
			if ioff == 0 {
				switch {
				case nx >= 0 && xpOK:
					slots[2] = 5
				case nx <= 0 && xmOK:
					slots[2] = 4
				}
			} else {
				switch {
				case ny >= 0 && ypOK:
					slots[2] = 7
				case ny <= 0 && ymOK:
					slots[2] = 2
				}
			}
			if slots[2] != 0 {
				count = 3
				var (
					ci = IMap[slots[1]] + IMap[slots[2]]
					cj = JMap[slots[1]] + JMap[slots[2]]
				)
				switch {
				case ci > 0 && cj > 0:
					slots[3] = 8
				case ci < 0 && cj > 0:
					slots[3] = 6
				case ci > 0 && cj < 0:
					slots[3] = 3
				default:
					slots[3] = 1
				}
			}
		}
		tr.Nbr.Set(i, j, 0, count)
		for m := 1; m <= count; m++ {
			tr.Nbr.Set(i, j, m, slots[m])
		}
	})
	region.ForEach(func(i, j int) {
		vf := vfrac.At(i, j, 0)
		if vf <= 0 || vf >= targetVolfrac {
			return
		}
		sum := vf
		for m := 1; m <= tr.Count(i, j); m++ {
			di, dj := tr.Offset(i, j, m)
			sum += vfrac.At(i+di, j+dj, 0)
		}
		if sum < targetVolfrac {
			tr.Shortfall++
		}
	})
	return
}
