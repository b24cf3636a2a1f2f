package geometry2D

import "math"

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (pt Point) Minus(rhs Point) Point {
	return NewPoint(pt.X[0]-rhs.X[0], pt.X[1]-rhs.X[1])
}

func (pt Point) Plus(rhs Point) Point {
	return NewPoint(pt.X[0]+rhs.X[0], pt.X[1]+rhs.X[1])
}

func (pt Point) Equal(rhs Point) bool {
	return pt.X[0] == rhs.X[0] && pt.X[1] == rhs.X[1]
}

type Polygon struct {
	Geometry []Point
}

func NewPolygon(geom []Point) (poly *Polygon) {
	/*
		Close off the polygon if needed
	*/
	if len(geom) != 0 && !geom[len(geom)-1].Equal(geom[0]) {
		geom = append(geom, geom[0])
	}
	return &Polygon{Geometry: geom}
}

// NewRectangle returns the counterclockwise rectangle [x0,x1]x[y0,y1]
func NewRectangle(x0, y0, x1, y1 float64) *Polygon {
	return NewPolygon([]Point{
		NewPoint(x0, y0), NewPoint(x1, y0), NewPoint(x1, y1), NewPoint(x0, y1),
	})
}

func (pg *Polygon) Area() (area float64) {
	/*
		Algorithm: Green's theorem in the plane
	*/
	for i := 0; i < len(pg.Geometry)-1; i++ {
		pt0 := pg.Geometry[i]
		pt1 := pg.Geometry[i+1]
		area += pt0.X[0]*pt1.X[1] - pt1.X[0]*pt0.X[1]
	}
	return 0.5 * area
}

func (pg *Polygon) Centroid() (centroid Point) {
	/*
		From: https://en.wikipedia.org/wiki/Centroid#Centroid_of_a_polygon
	*/
	area := pg.Area()
	if area == 0 {
		return
	}
	for i := 0; i < len(pg.Geometry)-1; i++ {
		pt0 := pg.Geometry[i]
		pt1 := pg.Geometry[i+1]
		x0, y0 := pt0.X[0], pt0.X[1]
		x1, y1 := pt1.X[0], pt1.X[1]
		metric := x0*y1 - y0*x1
		centroid.X[0] += (x0 + x1) * metric
		centroid.X[1] += (y0 + y1) * metric
	}
	for i := 0; i < 2; i++ {
		centroid.X[i] /= 6 * area
	}
	return
}

// HalfPlane is the region {x : Normal . (x - Origin) >= 0}
type HalfPlane struct {
	Origin Point
	Normal [2]float64
}

func NewHalfPlane(origin Point, nx, ny float64) HalfPlane {
	mag := math.Hypot(nx, ny)
	return HalfPlane{Origin: origin, Normal: [2]float64{nx / mag, ny / mag}}
}

// Distance is the signed distance of pt from the boundary line, positive inside
func (hp HalfPlane) Distance(pt Point) float64 {
	d := pt.Minus(hp.Origin)
	return hp.Normal[0]*d.X[0] + hp.Normal[1]*d.X[1]
}

// Clip returns the part of the polygon inside the half plane
// (Sutherland-Hodgman, one clip edge)
func (pg *Polygon) Clip(hp HalfPlane) (clipped *Polygon) {
	var out []Point
	for i := 0; i < len(pg.Geometry)-1; i++ {
		p0, p1 := pg.Geometry[i], pg.Geometry[i+1]
		d0, d1 := hp.Distance(p0), hp.Distance(p1)
		if d0 >= 0 {
			out = append(out, p0)
		}
		if (d0 >= 0) != (d1 >= 0) {
			t := d0 / (d0 - d1)
			out = append(out, NewPoint(p0.X[0]+t*(p1.X[0]-p0.X[0]), p0.X[1]+t*(p1.X[1]-p0.X[1])))
		}
	}
	if len(out) < 3 {
		return &Polygon{}
	}
	return NewPolygon(out)
}

// ClipSegment returns the parameter range [t0,t1] of the segment p0->p1
// lying inside every half plane; t1 < t0 when nothing is inside
func ClipSegment(p0, p1 Point, hps []HalfPlane) (t0, t1 float64) {
	t0, t1 = 0, 1
	for _, hp := range hps {
		d0, d1 := hp.Distance(p0), hp.Distance(p1)
		switch {
		case d0 < 0 && d1 < 0:
			return 1, 0
		case d0 < 0:
			t0 = math.Max(t0, d0/(d0-d1))
		case d1 < 0:
			t1 = math.Min(t1, d0/(d0-d1))
		}
	}
	return
}
