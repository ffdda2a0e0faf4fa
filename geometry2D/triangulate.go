package geometry2D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

/*
EarClip triangulates a simple counter clockwise polygon, returning triangles as index triples into pts.
Vertices lying on a straight continuation of their neighbors are skipped, so a polygon with hanging
nodes produces the same triangles as its corner loop.
*/
func EarClip(pts []r2.Vec) (tris [][3]int, err error) {
	var (
		n   = len(pts)
		tol = 1e-12 * math.Max(1, NewBoundingBox(pts).Diameter()*NewBoundingBox(pts).Diameter())
	)
	if n < 3 {
		err = fmt.Errorf("polygon has %d vertices, need at least 3", n)
		return
	}
	if SignedArea(pts) <= 0 {
		err = fmt.Errorf("polygon is not counter clockwise or has zero area")
		return
	}
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	// Drop straight vertices
	for changed := true; changed && len(remaining) > 3; {
		changed = false
		for k := range remaining {
			m := len(remaining)
			a, b, c := pts[remaining[(k+m-1)%m]], pts[remaining[k]], pts[remaining[(k+1)%m]]
			if math.Abs(Orient2D(a, b, c)) <= tol && r2.Dot(r2.Sub(b, a), r2.Sub(c, b)) > 0 {
				remaining = append(remaining[:k], remaining[k+1:]...)
				changed = true
				break
			}
		}
	}
	for len(remaining) > 3 {
		var (
			m       = len(remaining)
			clipped = false
		)
		for k := 0; k < m; k++ {
			ia, ib, ic := remaining[(k+m-1)%m], remaining[k], remaining[(k+1)%m]
			a, b, c := pts[ia], pts[ib], pts[ic]
			if Orient2D(a, b, c) <= tol {
				continue // reflex or flat
			}
			if containsOther(pts, remaining, ia, ib, ic, tol) {
				continue
			}
			tris = append(tris, [3]int{ia, ib, ic})
			remaining = append(remaining[:k], remaining[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			err = fmt.Errorf("no ear found with %d vertices remaining, polygon is not simple", m)
			return
		}
	}
	if Orient2D(pts[remaining[0]], pts[remaining[1]], pts[remaining[2]]) <= tol {
		err = fmt.Errorf("last triangle is degenerate")
		return
	}
	tris = append(tris, [3]int{remaining[0], remaining[1], remaining[2]})
	return
}

func containsOther(pts []r2.Vec, remaining []int, ia, ib, ic int, tol float64) bool {
	a, b, c := pts[ia], pts[ib], pts[ic]
	for _, i := range remaining {
		if i == ia || i == ib || i == ic {
			continue
		}
		p := pts[i]
		if Orient2D(a, b, p) >= -tol && Orient2D(b, c, p) >= -tol && Orient2D(c, a, p) >= -tol {
			return true
		}
	}
	return false
}

// TriangleArea is the unsigned area of triangle a, b, c.
func TriangleArea(a, b, c r2.Vec) float64 {
	return 0.5 * math.Abs(Orient2D(a, b, c))
}
