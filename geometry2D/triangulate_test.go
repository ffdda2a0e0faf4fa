package geometry2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPolygon(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	{
		assert.InDelta(t, 1., SignedArea(square), 1e-15)
		c := Centroid(square)
		assert.InDelta(t, 0.5, c.X, 1e-15)
		assert.InDelta(t, 0.5, c.Y, 1e-15)
		assert.True(t, IsSimple(square))
		assert.True(t, PointInPolygon(square, r2.Vec{X: 0.5, Y: 0.5}))
		assert.True(t, PointInPolygon(square, r2.Vec{X: 1, Y: 0.5}))
		assert.False(t, PointInPolygon(square, r2.Vec{X: 1.5, Y: 0.5}))
		assert.InDelta(t, 1.4142135623730951, NewBoundingBox(square).Diameter(), 1e-15)
	}
	{ // Orientation
		cw := []r2.Vec{square[3], square[2], square[1], square[0]}
		assert.InDelta(t, -1., SignedArea(cw), 1e-15)
		ccw, reversed := Orient(cw)
		assert.True(t, reversed)
		assert.InDelta(t, 1., SignedArea(ccw), 1e-15)
		_, reversed = Orient(square)
		assert.False(t, reversed)
	}
	{ // Self intersecting bow tie
		bowtie := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}
		assert.False(t, IsSimple(bowtie))
		assert.False(t, IsSimple(square[:2]))
		dup := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
		assert.False(t, IsSimple(dup))
	}
}

func TestEarClip(t *testing.T) {
	area := func(pts []r2.Vec, tris [][3]int) (a float64) {
		for _, tri := range tris {
			a += TriangleArea(pts[tri[0]], pts[tri[1]], pts[tri[2]])
		}
		return
	}
	{ // Non convex L shape
		L := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
		tris, err := EarClip(L)
		require.NoError(t, err)
		assert.Len(t, tris, 4)
		assert.InDelta(t, 3., area(L, tris), 1e-14)
		for _, tri := range tris {
			assert.Greater(t, Orient2D(L[tri[0]], L[tri[1]], L[tri[2]]), 0.)
		}
	}
	{ // Straight vertices are skipped
		P := []r2.Vec{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
		tris, err := EarClip(P)
		require.NoError(t, err)
		assert.Len(t, tris, 2)
		assert.InDelta(t, 1., area(P, tris), 1e-14)
	}
	{ // Failures
		_, err := EarClip([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}})
		assert.Error(t, err)
		_, err = EarClip([]r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}})
		assert.Error(t, err)
		_, err = EarClip([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
		assert.Error(t, err)
	}
}
