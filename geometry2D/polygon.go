package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type BoundingBox struct {
	Min, Max r2.Vec
}

func NewBoundingBox(pts []r2.Vec) (Box *BoundingBox) {
	Box = &BoundingBox{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range pts {
		Box.Min.X, Box.Min.Y = math.Min(Box.Min.X, p.X), math.Min(Box.Min.Y, p.Y)
		Box.Max.X, Box.Max.Y = math.Max(Box.Max.X, p.X), math.Max(Box.Max.Y, p.Y)
	}
	return
}

func (bb *BoundingBox) Diameter() float64 { return r2.Norm(r2.Sub(bb.Max, bb.Min)) }

func (bb *BoundingBox) PointInside(p r2.Vec) bool {
	return p.X >= bb.Min.X && p.X <= bb.Max.X && p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// SignedArea is positive for a counter clockwise loop.
func SignedArea(pts []r2.Vec) (area float64) {
	n := len(pts)
	for i := 0; i < n; i++ {
		area += r2.Cross(pts[i], pts[(i+1)%n])
	}
	area *= 0.5
	return
}

// Centroid returns the area centroid of a simple polygon.
func Centroid(pts []r2.Vec) (c r2.Vec) {
	var (
		n    = len(pts)
		area = SignedArea(pts)
	)
	if area == 0 {
		for _, p := range pts {
			c = r2.Add(c, p)
		}
		return r2.Scale(1/float64(n), c)
	}
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		cr := r2.Cross(p, q)
		c = r2.Add(c, r2.Scale(cr, r2.Add(p, q)))
	}
	c = r2.Scale(1/(6*area), c)
	return
}

// Orient returns the polygon as a counter clockwise loop, reporting whether it was reversed.
func Orient(pts []r2.Vec) (ccw []r2.Vec, reversed bool) {
	ccw = make([]r2.Vec, len(pts))
	copy(ccw, pts)
	if SignedArea(pts) < 0 {
		reversed = true
		for i, j := 0, len(ccw)-1; i < j; i, j = i+1, j-1 {
			ccw[i], ccw[j] = ccw[j], ccw[i]
		}
	}
	return
}

// Orient2D is twice the signed area of triangle a, b, c.
func Orient2D(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

func onSegment(a, b, p r2.Vec, tol float64) bool {
	return p.X >= math.Min(a.X, b.X)-tol && p.X <= math.Max(a.X, b.X)+tol &&
		p.Y >= math.Min(a.Y, b.Y)-tol && p.Y <= math.Max(a.Y, b.Y)+tol
}

// SegmentsIntersect reports whether closed segments ab and cd touch or cross.
func SegmentsIntersect(a, b, c, d r2.Vec, tol float64) bool {
	d1, d2 := Orient2D(c, d, a), Orient2D(c, d, b)
	d3, d4 := Orient2D(a, b, c), Orient2D(a, b, d)
	if ((d1 > tol && d2 < -tol) || (d1 < -tol && d2 > tol)) &&
		((d3 > tol && d4 < -tol) || (d3 < -tol && d4 > tol)) {
		return true
	}
	switch {
	case math.Abs(d1) <= tol && onSegment(c, d, a, tol):
		return true
	case math.Abs(d2) <= tol && onSegment(c, d, b, tol):
		return true
	case math.Abs(d3) <= tol && onSegment(a, b, c, tol):
		return true
	case math.Abs(d4) <= tol && onSegment(a, b, d, tol):
		return true
	}
	return false
}

// IsSimple reports whether no two non-adjacent edges of the loop intersect and no vertex repeats.
func IsSimple(pts []r2.Vec) bool {
	var (
		n   = len(pts)
		tol = 1e-12 * math.Max(1, NewBoundingBox(pts).Diameter())
	)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r2.Norm(r2.Sub(pts[i], pts[j])) <= tol {
				return false
			}
		}
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			c, d := pts[j], pts[(j+1)%n]
			if SegmentsIntersect(a, b, c, d, tol*tol) {
				return false
			}
		}
	}
	return true
}

// PointInPolygon uses the crossing number; points on the boundary count as inside.
func PointInPolygon(pts []r2.Vec, p r2.Vec) (inside bool) {
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if math.Abs(Orient2D(a, b, p)) <= 1e-14 && onSegment(a, b, p, 1e-14) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return
}
