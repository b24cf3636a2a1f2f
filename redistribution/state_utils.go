package redistribution

import (
	"math"

	"github.com/notargets/ebhydro/grid"
)

/*
Weights splits every cell among the neighborhoods it belongs to. The share of
cell r in the neighborhood of cell n is Keep(r) when r is n and
Alpha(n)*Scale(r) otherwise; the shares of each cell sum to one.
*/
type Weights struct {
	Nrs     *grid.Field // neighborhoods a cell belongs to, its own included
	Keep    *grid.Field
	Scale   *grid.Field
	Alpha   *grid.Field
	NbhdVol *grid.Field // share weighted volume of a neighborhood
	CentHat *grid.Field // share weighted centroid, relative to the home cell center
}

func (w *Weights) Share(ni, nj, ri, rj int) float64 {
	if ni == ri && nj == rj {
		return w.Keep.At(ri, rj, 0)
	}
	return w.Alpha.At(ni, nj, 0) * w.Scale.At(ri, rj, 0)
}

// Blend is the weight the neighbors carry in the neighborhood value of (i,j),
// near one for tiny cells and zero where nothing is merged
func (w *Weights) Blend(i, j int, vfrac float64) float64 {
	nv := w.NbhdVol.At(i, j, 0)
	if nv <= 0 {
		return 0
	}
	return 1. - w.Keep.At(i, j, 0)*vfrac/nv
}

// MakeStateRedistUtils weights every neighborhood a cell belongs to equally
func MakeStateRedistUtils(bx grid.Box, eb EBGeometry, tr *Tracker) (w *Weights) {
	return makeWeights(bx, eb, tr, func(i, j int) float64 { return 1 }, false)
}

/*
MakeNewStateRedistUtils gives each neighborhood the neighbor weight

	alpha = (targetVolfrac - vfrac) / (volume of the neighbors)

clamped to [0,1], so the neighborhood volume reaches the target and no more.
A cell keeps 1 - (sum of alphas of the neighborhoods it joins), if positive,
for its own neighborhood and has its other shares scaled to sum to one.
*/
func MakeNewStateRedistUtils(bx grid.Box, eb EBGeometry, tr *Tracker, targetVolfrac float64) (w *Weights) {
	alpha := func(i, j int) (a float64) {
		var volNbrs float64
		for m := 1; m <= tr.Count(i, j); m++ {
			di, dj := tr.Offset(i, j, m)
			volNbrs += eb.vfrac(i+di, j+dj)
		}
		if volNbrs <= 0 {
			return
		}
		return math.Min(1, math.Max(0, (targetVolfrac-eb.vfrac(i, j))/volNbrs))
	}
	return makeWeights(bx, eb, tr, alpha, true)
}

func makeWeights(bx grid.Box, eb EBGeometry, tr *Tracker, alpha func(i, j int) float64,
	weighted bool) (w *Weights) {
	var (
		bxg2 = bx.Grow(2)
		bxg3 = bx.Grow(3)
		bxg4 = bx.Grow(4)
	)
	w = &Weights{
		Nrs:     grid.NewField(bxg3, 1),
		Keep:    grid.NewField(bxg3, 1),
		Scale:   grid.NewField(bxg3, 1),
		Alpha:   grid.NewField(bxg4, 1),
		NbhdVol: grid.NewField(bxg2, 1),
		CentHat: grid.NewField(bxg2, 2),
	}
	grid.ParallelForCell(bxg4, func(i, j int) {
		if tr.Nbr.Box.Contains(i, j) && tr.Count(i, j) > 0 {
			w.Alpha.Set(i, j, 0, alpha(i, j))
		}
	})
	grid.ParallelForCell(bxg3, func(i, j int) {
		var (
			nrs      = 1.
			sumAlpha float64
		)
		for s := 1; s < 9; s++ {
			ni, nj := i+IMap[s], j+JMap[s]
			if tr.Contains(ni, nj, i, j) {
				nrs++
				sumAlpha += w.Alpha.At(ni, nj, 0)
			}
		}
		w.Nrs.Set(i, j, 0, nrs)
		if weighted {
			w.Keep.Set(i, j, 0, math.Max(0, 1-sumAlpha))
			w.Scale.Set(i, j, 0, 1/math.Max(1, sumAlpha))
		} else {
			w.Keep.Set(i, j, 0, 1/nrs)
			w.Scale.Set(i, j, 0, 1/nrs)
		}
	})
	grid.ParallelForCell(bxg2, func(i, j int) {
		if eb.covered(i, j) {
			return
		}
		cx, cy := eb.centroid(i, j)
		w.CentHat.Set(i, j, 0, cx)
		w.CentHat.Set(i, j, 1, cy)
		var (
			wt     = w.Keep.At(i, j, 0) * eb.vfrac(i, j)
			vol    = wt
			mx, my = wt * cx, wt * cy
			nbrs   = tr.Count(i, j)
		)
		for m := 1; m <= nbrs; m++ {
			di, dj := tr.Offset(i, j, m)
			rx, ry := eb.centroid(i+di, j+dj)
			wr := w.Share(i, j, i+di, j+dj) * eb.vfrac(i+di, j+dj)
			vol += wr
			mx += wr * (float64(di) + rx)
			my += wr * (float64(dj) + ry)
		}
		w.NbhdVol.Set(i, j, 0, vol)
		if nbrs > 0 && vol > 0 {
			w.CentHat.Set(i, j, 0, mx/vol)
			w.CentHat.Set(i, j, 1, my/vol)
		}
	})
	return
}
