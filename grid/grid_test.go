package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox(t *testing.T) {
	bx := NewBox(IntVect{0, 0}, IntVect{7, 3})
	{ // Extents and growth
		assert.Equal(t, 8, bx.Length(XDir))
		assert.Equal(t, 4, bx.Length(YDir))
		assert.Equal(t, 32, bx.NumPts())
		g := bx.Grow(2)
		assert.Equal(t, IntVect{-2, -2}, g.Lo)
		assert.Equal(t, IntVect{9, 5}, g.Hi)
		gy := bx.GrowDir(YDir, 1)
		assert.Equal(t, IntVect{0, -1}, gy.Lo)
		assert.Equal(t, IntVect{7, 4}, gy.Hi)
	}
	{ // Faces
		xf := bx.SurroundingNodes(XDir)
		assert.Equal(t, 9, xf.Length(XDir))
		assert.Equal(t, 4, xf.Length(YDir))
		yf := bx.SurroundingNodes(YDir)
		assert.Equal(t, 8, yf.Length(XDir))
		assert.Equal(t, 5, yf.Length(YDir))
	}
	{ // Containment and intersection
		assert.True(t, bx.Contains(0, 0))
		assert.False(t, bx.Contains(8, 0))
		assert.True(t, bx.Grow(1).ContainsBox(bx))
		assert.False(t, bx.ContainsBox(bx.Grow(1)))
		other := NewBox(IntVect{5, -3}, IntVect{12, 1})
		assert.Equal(t, NewBox(IntVect{5, 0}, IntVect{7, 1}), bx.Intersect(other))
		far := NewBox(IntVect{20, 20}, IntVect{21, 21})
		assert.True(t, bx.Intersect(far).IsEmpty())
		assert.Equal(t, 0, bx.Intersect(far).NumPts())
	}
	{ // Visit order
		var visited [][2]int
		NewBox(IntVect{0, 0}, IntVect{1, 1}).ForEach(func(i, j int) {
			visited = append(visited, [2]int{i, j})
		})
		assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, visited)
	}
}

func TestFab(t *testing.T) {
	bx := NewBox(IntVect{-1, -2}, IntVect{2, 1})
	f := NewField(bx, 3)
	require.Equal(t, 48, len(f.Data))
	{ // Every (i,j,n) maps to a distinct slot
		seen := make(map[int]bool)
		for n := 0; n < 3; n++ {
			bx.ForEach(func(i, j int) {
				ind := f.Index(i, j, n)
				assert.False(t, seen[ind])
				seen[ind] = true
			})
		}
		assert.Equal(t, 48, len(seen))
	}
	{ // Component slices alias storage
		f.Set(0, 0, 2, 3.5)
		f.Add(0, 0, 2, 1.)
		assert.Equal(t, 4.5, f.At(0, 0, 2))
		c2 := f.Comp(2)
		assert.Equal(t, 16, len(c2))
		c2[f.Index(0, 0, 0)] = 7
		assert.Equal(t, 7., f.At(0, 0, 2))
	}
	{ // Copy is deep, CopyFrom honors region
		fc := f.Copy()
		fc.Set(0, 0, 2, -1)
		assert.Equal(t, 7., f.At(0, 0, 2))
		g := NewField(bx.Grow(1), 3)
		g.SetVal(9)
		f.CopyFrom(g, NewBox(IntVect{0, 0}, IntVect{0, 0}), 3)
		assert.Equal(t, 9., f.At(0, 0, 1))
		assert.Equal(t, 0., f.At(1, 0, 1))
	}
	{ // ParallelFor touches every point exactly once
		h := NewFab[int](bx, 2)
		ParallelFor(bx, 2, func(i, j, n int) { h.Add(i, j, n, 1) })
		for _, v := range h.Data {
			assert.Equal(t, 1, v)
		}
	}
	{ // Optional
		var none Optional
		assert.False(t, none.Present())
		assert.Equal(t, 0., none.At(100, 100, 4))
		some := Some(f)
		assert.True(t, some.Present())
		assert.Equal(t, f.At(0, 0, 2), some.At(0, 0, 2))
	}
	{ // Flags
		vf := NewField(NewBox(IntVect{0, 0}, IntVect{2, 0}), 1)
		vf.Set(0, 0, 0, 1)
		vf.Set(1, 0, 0, 0.25)
		flags := FlagsFromVolumeFraction(vf)
		assert.Equal(t, Regular, flags.At(0, 0, 0))
		assert.Equal(t, Cut, flags.At(1, 0, 0))
		assert.True(t, flags.At(2, 0, 0).IsCovered())
	}
}

func TestArena(t *testing.T) {
	bx := NewBox(IntVect{0, 0}, IntVect{3, 3})
	a := NewArena(ArenaSize(2, bx, bx.Grow(1)))
	f1 := a.Alloc(bx, 2)
	f2 := a.Alloc(bx.Grow(1), 2)
	assert.Equal(t, 32+72, a.Used())
	f1.SetVal(1)
	for _, v := range f2.Data {
		assert.Equal(t, 0., v)
	}
	assert.Panics(t, func() { a.Alloc(bx, 1) })
}

func TestGeometry(t *testing.T) {
	dom := NewBox(IntVect{0, 0}, IntVect{3, 2})
	geom := NewGeometry(dom, 0.5, 0.25, [2]bool{true, false})
	assert.Equal(t, 0.5, geom.CellSize(XDir))
	assert.Equal(t, 0.25, geom.CellSize(YDir))
	assert.Equal(t, NewBox(IntVect{-2, 0}, IntVect{5, 2}), geom.PeriodicGrownDomain(2))
	{
		i, j := geom.PeriodicImage(-1, 7)
		assert.Equal(t, 3, i)
		assert.Equal(t, 7, j)
		i, _ = geom.PeriodicImage(9, 0)
		assert.Equal(t, 1, i)
	}
	{ // Periodic fill leaves the non-periodic ghosts alone
		f := NewField(dom.Grow(1), 1)
		f.SetVal(-1)
		dom.ForEach(func(i, j int) { f.Set(i, j, 0, float64(10*i+j)) })
		FillPeriodic(f, geom)
		assert.Equal(t, 30., f.At(-1, 0, 0))
		assert.Equal(t, 2., f.At(4, 2, 0))
		assert.Equal(t, -1., f.At(0, -1, 0))
		assert.Equal(t, -1., f.At(-1, 3, 0))
	}
}

func TestBCTypes(t *testing.T) {
	assert.Equal(t, BCExtDir, NewBCType(" Dirichlet "))
	assert.Equal(t, BCFOExtrap, NewBCType("outflow"))
	assert.Equal(t, "ReflectOdd", BCReflectOdd.String())
	assert.Panics(t, func() { NewBCType("warp_drive") })
	assert.True(t, BCHOExtrap.IsExtrap())
	assert.False(t, BCExtDir.IsExtrap())
	assert.True(t, BCExtDir.HoldsFaceValue())
	bc := NewBCRec(BCExtDir, BCReflectOdd, BCFOExtrap, BCPeriodic)
	assert.Equal(t, BCReflectOdd, bc.Lo[YDir])
	assert.Equal(t, BCFOExtrap, bc.Hi[XDir])
	vel := VelocityComponents(bc, bc)
	assert.True(t, vel[0].IsNormalVelocity(XDir))
	assert.False(t, vel[0].IsNormalVelocity(YDir))
	assert.True(t, vel[1].IsNormalVelocity(YDir))
	scal := ScalarComponents(3, bc, true)
	assert.Len(t, scal, 3)
	assert.False(t, scal[2].IsNormalVelocity(XDir))
	assert.True(t, scal[2].Conservative)
}
