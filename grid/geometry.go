package grid

type Geometry struct {
	Domain   Box
	Dx       [SpaceDim]float64
	Periodic [SpaceDim]bool
}

func NewGeometry(domain Box, dx, dy float64, periodic [SpaceDim]bool) Geometry {
	return Geometry{
		Domain:   domain,
		Dx:       [SpaceDim]float64{dx, dy},
		Periodic: periodic,
	}
}

func (g Geometry) CellSize(d Direction) float64 { return g.Dx[d] }

func (g Geometry) IsPeriodic(d Direction) bool { return g.Periodic[d] }

// PeriodicGrownDomain is the domain grown by n cells in each periodic direction
func (g Geometry) PeriodicGrownDomain(n int) (b Box) {
	b = g.Domain
	for d := XDir; d <= YDir; d++ {
		if g.Periodic[d] {
			b = b.GrowDir(d, n)
		}
	}
	return
}

// PeriodicImage maps (i,j) into the domain along periodic directions, leaving
// non-periodic coordinates unchanged
func (g Geometry) PeriodicImage(i, j int) (ii, jj int) {
	wrap := func(k int, d Direction) int {
		if !g.Periodic[d] {
			return k
		}
		var (
			lo = g.Domain.Lo[d]
			n  = g.Domain.Length(d)
		)
		return lo + ((k-lo)%n+n)%n
	}
	return wrap(i, XDir), wrap(j, YDir)
}

// FillPeriodic copies domain values into the ghost cells of f that are
// periodic images of domain cells
func FillPeriodic[T Number](f *Fab[T], g Geometry) {
	if !g.Periodic[XDir] && !g.Periodic[YDir] {
		return
	}
	f.Box.ForEach(func(i, j int) {
		if g.Domain.Contains(i, j) {
			return
		}
		ii, jj := g.PeriodicImage(i, j)
		if !g.Domain.Contains(ii, jj) || !f.Box.Contains(ii, jj) {
			return
		}
		for n := 0; n < f.NComp; n++ {
			f.Set(i, j, n, f.At(ii, jj, n))
		}
	})
}
