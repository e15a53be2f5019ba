// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: canvas/painter.go
// Summary: Cell-buffer implementation of the Canvas interface.
// Usage: Widgets paint through a Painter; the renderer flushes the buffer.
// Notes: Shapes rasterize to the nearest cell. Filled shapes use FULL BLOCK
//        so the foreground color carries the shape; rectangle fills use
//        styled blanks so the background carries it.

package canvas

import (
	"github.com/framegrace/texelrender/grid"
)

const (
	glyphBlock      = "█"
	glyphHorizontal = "─"
	glyphVertical   = "│"
	glyphTopLeft    = "┌"
	glyphTopRight   = "┐"
	glyphBottomLeft = "└"
	glyphBotRight   = "┘"
)

// Painter draws Canvas operations into a cell buffer.
type Painter struct {
	buf *grid.Buffer

	// clips holds effective clip regions in device space; each entry is
	// already intersected with the one below it.
	clips []Rect

	// xforms holds the transform stack; points map through it from the
	// top (innermost) down.
	xforms []Transform
}

// NewPainter creates a painter over the given buffer.
func NewPainter(buf *grid.Buffer) *Painter {
	return &Painter{buf: buf}
}

// Size returns the underlying buffer dimensions.
func (p *Painter) Size() (int, int) { return p.buf.Size() }

// device maps a local point to device (buffer) coordinates.
func (p *Painter) device(x, y int) (int, int) {
	for i := len(p.xforms) - 1; i >= 0; i-- {
		x, y = p.xforms[i].Apply(x, y)
	}
	return x, y
}

// deviceRect maps a local rectangle to device space. Quarter-turn rotations
// keep it axis-aligned.
func (p *Painter) deviceRect(r Rect) Rect {
	r = r.Normalize()
	if r.Empty() {
		return Rect{}
	}
	x0, y0 := p.device(r.X, r.Y)
	x1, y1 := p.device(r.X+r.W-1, r.Y+r.H-1)
	return Rect{X: min(x0, x1), Y: min(y0, y1), W: abs(x1-x0) + 1, H: abs(y1-y0) + 1}
}

func (p *Painter) clip() (Rect, bool) {
	if len(p.clips) == 0 {
		w, h := p.buf.Size()
		return Rect{W: w, H: h}, true
	}
	c := p.clips[len(p.clips)-1]
	return c, !c.Empty()
}

// plot writes one glyph at a local position, honoring transform and clip.
func (p *Painter) plot(x, y int, symbol string, style grid.Style) {
	dx, dy := p.device(x, y)
	c, ok := p.clip()
	if !ok || !c.Contains(dx, dy) {
		return
	}
	p.buf.Set(dx, dy, symbol, style)
}

// PushClip restricts painting to r, intersected with the current region.
func (p *Painter) PushClip(r Rect) {
	dr := p.deviceRect(r)
	if cur, ok := p.clip(); ok {
		dr = dr.Intersect(cur)
	} else {
		dr = Rect{}
	}
	p.clips = append(p.clips, dr)
}

// PopClip restores the previous clip region. Popping an empty stack is a
// no-op.
func (p *Painter) PopClip() {
	if len(p.clips) > 0 {
		p.clips = p.clips[:len(p.clips)-1]
	}
}

// PushTransform composes t onto the current mapping.
func (p *Painter) PushTransform(t Transform) {
	p.xforms = append(p.xforms, t)
}

// PopTransform restores the previous mapping. Popping an empty stack is a
// no-op.
func (p *Painter) PopTransform() {
	if len(p.xforms) > 0 {
		p.xforms = p.xforms[:len(p.xforms)-1]
	}
}

// FillRect paints the rectangle with styled blanks.
func (p *Painter) FillRect(r Rect, style grid.Style) {
	r = r.Normalize()
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.plot(x, y, " ", style)
		}
	}
}

// StrokeRect outlines the rectangle with box-drawing glyphs. Rectangles a
// single cell wide or tall degenerate to lines.
func (p *Painter) StrokeRect(r Rect, style grid.Style) {
	r = r.Normalize()
	if r.Empty() {
		return
	}
	if r.W == 1 && r.H == 1 {
		p.plot(r.X, r.Y, glyphBlock, style)
		return
	}
	if r.H == 1 {
		for x := r.X; x < r.X+r.W; x++ {
			p.plot(x, r.Y, glyphHorizontal, style)
		}
		return
	}
	if r.W == 1 {
		for y := r.Y; y < r.Y+r.H; y++ {
			p.plot(r.X, y, glyphVertical, style)
		}
		return
	}
	x1, y1 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < x1; x++ {
		p.plot(x, r.Y, glyphHorizontal, style)
		p.plot(x, y1, glyphHorizontal, style)
	}
	for y := r.Y + 1; y < y1; y++ {
		p.plot(r.X, y, glyphVertical, style)
		p.plot(x1, y, glyphVertical, style)
	}
	p.plot(r.X, r.Y, glyphTopLeft, style)
	p.plot(x1, r.Y, glyphTopRight, style)
	p.plot(r.X, y1, glyphBottomLeft, style)
	p.plot(x1, y1, glyphBotRight, style)
}

// DrawText writes text starting at (x, y), splitting it into grapheme
// clusters so wide glyphs land on cell pairs.
func (p *Painter) DrawText(x, y int, text string, style grid.Style) {
	for _, g := range graphemes(text) {
		w := grid.SymbolWidth(g)
		if w <= 0 {
			continue
		}
		p.plot(x, y, g, style)
		x += w
	}
}

// Line draws a straight segment. Axis-aligned segments use box-drawing
// glyphs; anything else rasterizes with FULL BLOCK cells.
func (p *Painter) Line(x0, y0, x1, y1 int, style grid.Style) {
	switch {
	case y0 == y1:
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		for x := x0; x <= x1; x++ {
			p.plot(x, y0, glyphHorizontal, style)
		}
	case x0 == x1:
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		for y := y0; y <= y1; y++ {
			p.plot(x0, y, glyphVertical, style)
		}
	default:
		for _, pt := range bresenham(x0, y0, x1, y1) {
			p.plot(pt.X, pt.Y, glyphBlock, style)
		}
	}
}

// Circle draws a circle outline or a filled disc.
func (p *Painter) Circle(cx, cy, radius int, fill bool, style grid.Style) {
	if radius < 0 {
		return
	}
	if radius == 0 {
		p.plot(cx, cy, glyphBlock, style)
		return
	}
	if fill {
		for _, span := range circleSpans(radius) {
			for x := cx - span.half; x <= cx+span.half; x++ {
				p.plot(x, cy+span.dy, glyphBlock, style)
			}
		}
		return
	}
	for _, pt := range circlePoints(radius) {
		p.plot(cx+pt.X, cy+pt.Y, glyphBlock, style)
	}
}

// Arc draws a circular arc of sweep degrees starting at start degrees.
func (p *Painter) Arc(cx, cy, radius int, start, sweep float64, style grid.Style) {
	if radius <= 0 || sweep == 0 {
		return
	}
	for _, pt := range arcPoints(radius, start, sweep) {
		p.plot(cx+pt.X, cy+pt.Y, glyphBlock, style)
	}
}

// Path draws a polyline through the points.
func (p *Painter) Path(pts []Point, style grid.Style) {
	if len(pts) == 1 {
		p.plot(pts[0].X, pts[0].Y, glyphBlock, style)
		return
	}
	for i := 1; i < len(pts); i++ {
		p.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, style)
	}
}

// Polygon draws a closed outline, or fills the enclosed area with the
// even-odd rule when fill is set.
func (p *Painter) Polygon(pts []Point, fill bool, style grid.Style) {
	if len(pts) < 3 {
		p.Path(pts, style)
		return
	}
	if fill {
		for _, span := range polygonSpans(pts) {
			for x := span.x0; x <= span.x1; x++ {
				p.plot(x, span.y, glyphBlock, style)
			}
		}
	}
	for i := 1; i < len(pts); i++ {
		p.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, style)
	}
	p.Line(pts[len(pts)-1].X, pts[len(pts)-1].Y, pts[0].X, pts[0].Y, style)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
