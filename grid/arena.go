package grid

import "fmt"

/*
Arena hands out zeroed scratch fields carved from a single buffer at
increasing offsets. An Arena belongs to one call; nothing it returns may
outlive that call or be shared with another one.
*/
type Arena struct {
	buf []float64
	off int
}

func NewArena(size int) *Arena {
	return &Arena{buf: make([]float64, size)}
}

// ArenaSize is the buffer length needed to allocate ncomp components over
// each of the boxes
func ArenaSize(ncomp int, boxes ...Box) (size int) {
	for _, b := range boxes {
		size += b.NumPts() * ncomp
	}
	return
}

func (a *Arena) Alloc(b Box, ncomp int) (f *Field) {
	size := b.NumPts() * ncomp
	if a.off+size > len(a.buf) {
		panic(fmt.Errorf("arena exhausted: offset %d + %d exceeds %d", a.off, size, len(a.buf)))
	}
	f = NewFabFromSlice[float64](b, ncomp, a.buf[a.off:a.off+size])
	a.off += size
	return
}

// Used returns the current offset into the buffer
func (a *Arena) Used() int { return a.off }
