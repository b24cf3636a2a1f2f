package redistribution

import (
	"github.com/notargets/ebhydro/grid"
)

/*
EBGeometry is the cut cell description consumed by redistribution. Cell
fields cover at least bx.Grow(4) of the box being redistributed, face fields
the faces of that grown box.

Ccent holds the cell centroid (2 components) and Fcx, Fcy the transverse
face centroid, all in cell units relative to the cell or face center.
*/
type EBGeometry struct {
	Flags    *grid.FlagFab
	Apx, Apy *grid.Field
	Vfrac    *grid.Field
	Fcx, Fcy *grid.Field
	Ccent    *grid.Field
}

// NewRegularEBGeometry is an all regular geometry over bx
func NewRegularEBGeometry(bx grid.Box) (eb EBGeometry) {
	eb = EBGeometry{
		Apx:   grid.NewField(bx.SurroundingNodes(grid.XDir), 1),
		Apy:   grid.NewField(bx.SurroundingNodes(grid.YDir), 1),
		Vfrac: grid.NewField(bx, 1),
		Fcx:   grid.NewField(bx.SurroundingNodes(grid.XDir), 1),
		Fcy:   grid.NewField(bx.SurroundingNodes(grid.YDir), 1),
		Ccent: grid.NewField(bx, 2),
	}
	eb.Apx.SetVal(1)
	eb.Apy.SetVal(1)
	eb.Vfrac.SetVal(1)
	eb.Flags = grid.FlagsFromVolumeFraction(eb.Vfrac)
	return
}

func (eb EBGeometry) covered(i, j int) bool {
	return eb.Flags.At(i, j, 0).IsCovered()
}

func (eb EBGeometry) vfrac(i, j int) float64 { return eb.Vfrac.At(i, j, 0) }

// centroid returns the cell centroid in cell units relative to the cell center
func (eb EBGeometry) centroid(i, j int) (x, y float64) {
	return eb.Ccent.At(i, j, 0), eb.Ccent.At(i, j, 1)
}

// FillPeriodic overwrites the periodic ghost cells and faces of every field
// with the domain values they image
func (eb EBGeometry) FillPeriodic(geom grid.Geometry) {
	for _, f := range []*grid.Field{eb.Apx, eb.Apy, eb.Vfrac, eb.Fcx, eb.Fcy, eb.Ccent} {
		grid.FillPeriodic(f, geom)
	}
	grid.FillPeriodic(eb.Flags, geom)
}
