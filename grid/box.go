package grid

import "fmt"

type Direction int8

const (
	XDir Direction = iota
	YDir
)

// SpaceDim is the number of spatial directions handled by the core
const SpaceDim = 2

func (d Direction) Other() Direction { return 1 - d }

// Unit returns the (i,j) index shift of one step in direction d
func (d Direction) Unit() (di, dj int) {
	if d == XDir {
		return 1, 0
	}
	return 0, 1
}

func (d Direction) String() string {
	if d == XDir {
		return "x"
	}
	return "y"
}

type IntVect [SpaceDim]int

/*
Box is an inclusive rectangle of integer indices. The same type indexes cells
and faces: the faces normal to direction d of a cell box are obtained with
SurroundingNodes(d), face i sitting between cells i-1 and i.
*/
type Box struct {
	Lo, Hi IntVect
}

func NewBox(lo, hi IntVect) Box {
	return Box{Lo: lo, Hi: hi}
}

func (b Box) Grow(n int) (bg Box) {
	bg = b
	for d := 0; d < SpaceDim; d++ {
		bg.Lo[d] -= n
		bg.Hi[d] += n
	}
	return
}

func (b Box) GrowDir(d Direction, n int) (bg Box) {
	bg = b
	bg.Lo[d] -= n
	bg.Hi[d] += n
	return
}

func (b Box) SurroundingNodes(d Direction) (bn Box) {
	bn = b
	bn.Hi[d]++
	return
}

func (b Box) Contains(i, j int) bool {
	return i >= b.Lo[0] && i <= b.Hi[0] && j >= b.Lo[1] && j <= b.Hi[1]
}

func (b Box) ContainsBox(o Box) bool {
	return o.IsEmpty() || (b.Contains(o.Lo[0], o.Lo[1]) && b.Contains(o.Hi[0], o.Hi[1]))
}

func (b Box) Intersect(o Box) (bi Box) {
	for d := 0; d < SpaceDim; d++ {
		bi.Lo[d] = max(b.Lo[d], o.Lo[d])
		bi.Hi[d] = min(b.Hi[d], o.Hi[d])
	}
	return
}

func (b Box) IsEmpty() bool {
	return b.Hi[0] < b.Lo[0] || b.Hi[1] < b.Lo[1]
}

func (b Box) Length(d Direction) int {
	if b.IsEmpty() {
		return 0
	}
	return b.Hi[d] - b.Lo[d] + 1
}

func (b Box) NumPts() int {
	return b.Length(XDir) * b.Length(YDir)
}

// ForEach visits every index of the box in row-major order, i fastest
func (b Box) ForEach(fn func(i, j int)) {
	for j := b.Lo[1]; j <= b.Hi[1]; j++ {
		for i := b.Lo[0]; i <= b.Hi[0]; i++ {
			fn(i, j)
		}
	}
}

func (b Box) String() string {
	return fmt.Sprintf("((%d,%d) (%d,%d))", b.Lo[0], b.Lo[1], b.Hi[0], b.Hi[1])
}
