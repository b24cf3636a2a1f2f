package grid

import (
	"fmt"

	"github.com/notargets/ebhydro/utils"
)

type Number interface {
	~int | ~uint8 | ~float64
}

/*
Fab is a dense multi-component array over a Box. Storage is Fortran ordered:
i fastest, then j, then the component.
*/
type Fab[T Number] struct {
	Box    Box
	NComp  int
	Data   []T
	nx, ny int
}

type (
	Field   = Fab[float64]
	IField  = Fab[int]
	FlagFab = Fab[CellFlag]
)

func NewFab[T Number](b Box, ncomp int) (f *Fab[T]) {
	return NewFabFromSlice[T](b, ncomp, make([]T, b.NumPts()*ncomp))
}

func NewFabFromSlice[T Number](b Box, ncomp int, data []T) (f *Fab[T]) {
	if len(data) < b.NumPts()*ncomp {
		panic(fmt.Errorf("fab data too short for box %v with %d components: have %d, need %d",
			b, ncomp, len(data), b.NumPts()*ncomp))
	}
	f = &Fab[T]{
		Box:   b,
		NComp: ncomp,
		Data:  data[:b.NumPts()*ncomp],
		nx:    b.Length(XDir),
		ny:    b.Length(YDir),
	}
	return
}

func NewField(b Box, ncomp int) *Field { return NewFab[float64](b, ncomp) }

func (f *Fab[T]) Index(i, j, n int) int {
	return (i - f.Box.Lo[0]) + f.nx*((j-f.Box.Lo[1])+f.ny*n)
}

func (f *Fab[T]) At(i, j, n int) T { return f.Data[f.Index(i, j, n)] }

func (f *Fab[T]) Set(i, j, n int, val T) { f.Data[f.Index(i, j, n)] = val }

func (f *Fab[T]) Add(i, j, n int, val T) { f.Data[f.Index(i, j, n)] += val }

func (f *Fab[T]) SetVal(val T) {
	for i := range f.Data {
		f.Data[i] = val
	}
}

// Comp returns component n as a slice aliasing the fab storage
func (f *Fab[T]) Comp(n int) []T {
	np := f.nx * f.ny
	return f.Data[n*np : (n+1)*np]
}

func (f *Fab[T]) Copy() (fc *Fab[T]) {
	fc = NewFab[T](f.Box, f.NComp)
	copy(fc.Data, f.Data)
	return
}

// CopyFrom copies ncomp components of src into f over the intersection of
// region with both boxes
func (f *Fab[T]) CopyFrom(src *Fab[T], region Box, ncomp int) {
	bx := region.Intersect(f.Box).Intersect(src.Box)
	for n := 0; n < ncomp; n++ {
		bx.ForEach(func(i, j int) {
			f.Set(i, j, n, src.At(i, j, n))
		})
	}
}

// ParallelFor runs fn over every (i,j,n) of the box, rows split across go
// routines. Each call returns after all points are done.
func ParallelFor(b Box, ncomp int, fn func(i, j, n int)) {
	if b.IsEmpty() {
		return
	}
	utils.ParallelRows(b.Lo[1], b.Hi[1], func(j int) {
		for n := 0; n < ncomp; n++ {
			for i := b.Lo[0]; i <= b.Hi[0]; i++ {
				fn(i, j, n)
			}
		}
	})
}

func ParallelForCell(b Box, fn func(i, j int)) {
	if b.IsEmpty() {
		return
	}
	utils.ParallelRows(b.Lo[1], b.Hi[1], func(j int) {
		for i := b.Lo[0]; i <= b.Hi[0]; i++ {
			fn(i, j)
		}
	})
}

// Optional is a field that may be absent; an absent field reads as zero
type Optional struct {
	F *Field
}

func Some(f *Field) Optional { return Optional{F: f} }

func (o Optional) Present() bool { return o.F != nil }

func (o Optional) At(i, j, n int) float64 {
	if o.F == nil {
		return 0
	}
	return o.F.At(i, j, n)
}

type CellFlag uint8

const (
	Regular CellFlag = iota
	Cut
	Covered
)

func (cf CellFlag) IsCovered() bool { return cf == Covered }
func (cf CellFlag) IsRegular() bool { return cf == Regular }

func (cf CellFlag) String() string {
	switch cf {
	case Regular:
		return "Regular"
	case Cut:
		return "Cut"
	}
	return "Covered"
}

// FlagsFromVolumeFraction classifies every cell of vfrac: 1 is regular, 0 is
// covered, anything between is cut
func FlagsFromVolumeFraction(vfrac *Field) (flags *FlagFab) {
	flags = NewFab[CellFlag](vfrac.Box, 1)
	for ii, v := range vfrac.Comp(0) {
		switch {
		case v <= 0:
			flags.Data[ii] = Covered
		case v >= 1:
			flags.Data[ii] = Regular
		default:
			flags.Data[ii] = Cut
		}
	}
	return
}
