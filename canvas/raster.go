// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: canvas/raster.go
// Summary: Cell-grid rasterization helpers: Bresenham, circles, scanlines.

package canvas

import (
	"math"
	"sort"

	"github.com/rivo/uniseg"
)

// graphemes splits a string into grapheme clusters.
func graphemes(s string) []string {
	var out []string
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cluster)
	}
	return out
}

// bresenham returns the cells of a straight segment between two points.
func bresenham(x0, y0, x1, y1 int) []Point {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	var pts []Point
	for {
		pts = append(pts, Point{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// circlePoints returns the outline cells of a circle of the given radius
// around the origin, via the midpoint algorithm.
func circlePoints(r int) []Point {
	var pts []Point
	x, y := r, 0
	err := 1 - r
	for x >= y {
		pts = append(pts,
			Point{x, y}, Point{y, x}, Point{-y, x}, Point{-x, y},
			Point{-x, -y}, Point{-y, -x}, Point{y, -x}, Point{x, -y},
		)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
	return pts
}

type circleSpan struct {
	dy   int // row offset from center
	half int // half-width of the filled row
}

// circleSpans returns one horizontal fill span per row of a disc of the
// given radius.
func circleSpans(r int) []circleSpan {
	spans := make([]circleSpan, 0, 2*r+1)
	for dy := -r; dy <= r; dy++ {
		half := int(math.Sqrt(float64(r*r - dy*dy)))
		spans = append(spans, circleSpan{dy: dy, half: half})
	}
	return spans
}

// arcPoints samples an arc of sweep degrees starting at start degrees on a
// circle of the given radius around the origin. 0° points right; positive
// angles run clockwise on screen (y grows downward).
func arcPoints(r int, start, sweep float64) []Point {
	steps := 8 * r
	if steps < 16 {
		steps = 16
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		theta := (start + sweep*float64(i)/float64(steps)) * math.Pi / 180
		x := int(math.Round(float64(r) * math.Cos(theta)))
		y := int(math.Round(float64(r) * math.Sin(theta)))
		if n := len(pts); n > 0 && pts[n-1].X == x && pts[n-1].Y == y {
			continue
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts
}

type fillSpan struct {
	y, x0, x1 int
}

// polygonSpans returns the even-odd interior spans of a polygon, one or
// more per scanline.
func polygonSpans(pts []Point) []fillSpan {
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	var spans []fillSpan
	for y := minY; y <= maxY; y++ {
		// Sample scanlines at cell centers to keep edge intersections
		// off vertices.
		fy := float64(y) + 0.5
		var xs []float64
		n := len(pts)
		for i := 0; i < n; i++ {
			a, b := pts[i], pts[(i+1)%n]
			y0, y1 := float64(a.Y), float64(b.Y)
			if y0 == y1 {
				continue
			}
			if (fy >= y0 && fy < y1) || (fy >= y1 && fy < y0) {
				t := (fy - y0) / (y1 - y0)
				xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			if x1 >= x0 {
				spans = append(spans, fillSpan{y: y, x0: x0, x1: x1})
			}
		}
	}
	return spans
}
