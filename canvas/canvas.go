// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: canvas/canvas.go
// Summary: Canvas capability set and grid geometry types.
// Usage: Paint interface consumed by widget/layout layers; implemented by
//        Painter for cell buffers.
// Notes: The draw vocabulary is closed and small, so a flat interface is
//        enough; no plugin mechanism.

package canvas

import "github.com/framegrace/texelrender/grid"

// Point is a position in cell coordinates.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the overlap of two rectangles.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Normalize flips negative extents so W and H are non-negative.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	return r
}

// Transform is the 2-D mapping the character grid can express: whole-cell
// translation plus quarter-turn rotation. Quarter counts 90° clockwise
// turns about the origin, applied before the translation.
type Transform struct {
	Dx, Dy  int
	Quarter int
}

// Apply maps a point through the transform.
func (t Transform) Apply(x, y int) (int, int) {
	for i := 0; i < ((t.Quarter % 4) + 4) % 4; i++ {
		// Screen coordinates grow downward, so clockwise is (x,y) → (-y,x).
		x, y = -y, x
	}
	return x + t.Dx, y + t.Dy
}

// Translate returns a pure translation.
func Translate(dx, dy int) Transform { return Transform{Dx: dx, Dy: dy} }

// Rotate returns a pure rotation of quarter*90° clockwise.
func Rotate(quarter int) Transform { return Transform{Quarter: quarter} }

// Canvas is the paint capability set offered to widget and layout layers.
// Coordinates are in the local space of the innermost pushed transform;
// clip rectangles are given in the same space.
//
// One concrete implementation exists per backend. Painter is the terminal
// cell-buffer one.
type Canvas interface {
	// Size returns the drawable area in columns and rows.
	Size() (w, h int)

	// FillRect paints every cell of the rectangle with a styled blank,
	// so the background color shows.
	FillRect(r Rect, style grid.Style)

	// StrokeRect outlines the rectangle with box-drawing glyphs.
	StrokeRect(r Rect, style grid.Style)

	// DrawText writes a run of text starting at (x, y). Text always flows
	// left to right; rotation transforms move only its origin.
	DrawText(x, y int, text string, style grid.Style)

	// Line draws a straight segment between two points.
	Line(x0, y0, x1, y1 int, style grid.Style)

	// Circle draws a circle outline, or a filled disc when fill is set.
	Circle(cx, cy, radius int, fill bool, style grid.Style)

	// Arc draws a circular arc of sweep degrees starting at start degrees
	// (0° points right, angles grow clockwise on screen).
	Arc(cx, cy, radius int, start, sweep float64, style grid.Style)

	// Path draws a polyline through the points.
	Path(pts []Point, style grid.Style)

	// Polygon draws a closed outline through the points, or fills the
	// enclosed area (even-odd rule) when fill is set.
	Polygon(pts []Point, fill bool, style grid.Style)

	// PushClip restricts painting to the rectangle (intersected with any
	// enclosing clip). PopClip restores the previous region.
	PushClip(r Rect)
	PopClip()

	// PushTransform composes a transform onto the current one; PopTransform
	// restores the previous mapping.
	PushTransform(t Transform)
	PopTransform()
}
