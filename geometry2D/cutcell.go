package geometry2D

import (
	"github.com/notargets/ebhydro/grid"
)

// fractions closer than this to 0 or 1 are snapped
const snapTol = 1.e-12

/*
CutCells is the embedded boundary description of a box of cells: volume
fractions, face area fractions, face centroids (transverse coordinate, in
units of the face length, relative to the face center) and cell centroids (in
units of the cell size, relative to the cell center).
*/
type CutCells struct {
	Flags    *grid.FlagFab
	Apx, Apy *grid.Field
	Vfrac    *grid.Field
	Fcx, Fcy *grid.Field
	Ccent    *grid.Field
}

/*
NewCutCells computes the cut cell geometry of the fluid region formed by the
intersection of the half planes over the box bx. Cell (i,j) occupies
[i*dx,(i+1)*dx] x [j*dy,(j+1)*dy]. With no half planes every cell is regular.
*/
func NewCutCells(bx grid.Box, geom grid.Geometry, fluid ...HalfPlane) (cc *CutCells) {
	var (
		dx, dy = geom.CellSize(grid.XDir), geom.CellSize(grid.YDir)
	)
	cc = &CutCells{
		Vfrac: grid.NewField(bx, 1),
		Apx:   grid.NewField(bx.SurroundingNodes(grid.XDir), 1),
		Apy:   grid.NewField(bx.SurroundingNodes(grid.YDir), 1),
		Fcx:   grid.NewField(bx.SurroundingNodes(grid.XDir), 1),
		Fcy:   grid.NewField(bx.SurroundingNodes(grid.YDir), 1),
		Ccent: grid.NewField(bx, 2),
	}
	bx.ForEach(func(i, j int) {
		x0, y0 := float64(i)*dx, float64(j)*dy
		poly := NewRectangle(x0, y0, x0+dx, y0+dy)
		for _, hp := range fluid {
			poly = poly.Clip(hp)
		}
		vf := snap(poly.Area() / (dx * dy))
		cc.Vfrac.Set(i, j, 0, vf)
		if vf > 0 && vf < 1 {
			ct := poly.Centroid()
			cc.Ccent.Set(i, j, 0, (ct.X[0]-(x0+0.5*dx))/dx)
			cc.Ccent.Set(i, j, 1, (ct.X[1]-(y0+0.5*dy))/dy)
		}
	})
	faces := func(d grid.Direction, ap, fc *grid.Field) {
		ap.Box.ForEach(func(i, j int) {
			var p0, p1 Point
			if d == grid.XDir {
				x := float64(i) * dx
				p0, p1 = NewPoint(x, float64(j)*dy), NewPoint(x, float64(j+1)*dy)
			} else {
				y := float64(j) * dy
				p0, p1 = NewPoint(float64(i)*dx, y), NewPoint(float64(i+1)*dx, y)
			}
			t0, t1 := ClipSegment(p0, p1, fluid)
			if t1 <= t0 {
				return
			}
			a := snap(t1 - t0)
			ap.Set(i, j, 0, a)
			if a > 0 && a < 1 {
				fc.Set(i, j, 0, 0.5*(t0+t1)-0.5)
			}
		})
	}
	faces(grid.XDir, cc.Apx, cc.Fcx)
	faces(grid.YDir, cc.Apy, cc.Fcy)
	cc.Flags = grid.FlagsFromVolumeFraction(cc.Vfrac)
	return
}

func snap(f float64) float64 {
	switch {
	case f < snapTol:
		return 0
	case f > 1-snapTol:
		return 1
	}
	return f
}
