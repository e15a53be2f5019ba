// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/buffer.go
// Summary: Addressable cell buffer with dirty tracking and resize support.
// Usage: Painted by the canvas layer, drained by the differential renderer.
// Notes: Dirty iteration is raster order; the renderer's cursor-move
//        suppression depends on it.

package grid

import (
	"github.com/rivo/uniseg"
)

// Buffer owns a width*height grid of cells plus the set of cells changed
// since the last flush. A buffer belongs to exactly one render loop; it is
// not safe for concurrent use.
type Buffer struct {
	width, height int
	cells         []Cell
	dirty         []bool
	allDirty      bool
}

// NewBuffer allocates a buffer of the given size. Every cell starts as a
// default-styled space and the whole buffer is dirty, so the first flush
// paints everything.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{width: width, height: height}
	b.allocate()
	return b
}

func (b *Buffer) allocate() {
	n := b.width * b.height
	b.cells = make([]Cell, n)
	b.dirty = make([]bool, n)
	empty := EmptyCell()
	for i := range b.cells {
		b.cells[i] = empty
	}
	b.allDirty = true
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) { return b.width, b.height }

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Index converts coordinates to a flat cell index. The caller must ensure
// the coordinates are in range.
func (b *Buffer) Index(x, y int) int { return y*b.width + x }

// Coords converts a flat cell index back to coordinates.
func (b *Buffer) Coords(i int) (x, y int) { return i % b.width, i / b.width }

// InBounds reports whether the coordinates address a cell.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at the given position, or an empty cell when the
// position is out of range.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[b.Index(x, y)]
}

// CellAt returns the cell at a flat index. The index must come from
// DirtyIndices or Index.
func (b *Buffer) CellAt(i int) Cell { return b.cells[i] }

// Set writes a single logical glyph at (x, y). Wide glyphs also overwrite
// the following cell with a continuation marker carrying the same style.
// Both cells are marked dirty. Out-of-range writes and zero-width symbols
// are no-ops.
func (b *Buffer) Set(x, y int, symbol string, style Style) {
	if !b.InBounds(x, y) {
		return
	}
	w := SymbolWidth(symbol)
	if w <= 0 {
		return
	}
	// A wide glyph that would hang past the right margin degrades to a
	// styled space; there is no column for its continuation.
	if w == 2 && x == b.width-1 {
		symbol, w = " ", 1
	}

	b.repairWideAt(x, y)
	if w == 2 {
		b.repairWideAt(x+1, y)
	}

	i := b.Index(x, y)
	b.cells[i] = Cell{Symbol: symbol, Style: style, Width: w}
	b.dirty[i] = true
	if w == 2 {
		b.cells[i+1] = ContinuationCell(style)
		b.dirty[i+1] = true
	}
}

// repairWideAt restores the invariant around (x, y) before the cell is
// overwritten: a damaged wide glyph loses its remaining half to a blank.
func (b *Buffer) repairWideAt(x, y int) {
	i := b.Index(x, y)
	c := b.cells[i]
	switch {
	case c.Cont:
		// Overwriting the tail: blank the head at x-1.
		head := i - 1
		blank := EmptyCell()
		blank.Style = b.cells[head].Style
		b.cells[head] = blank
		b.dirty[head] = true
	case c.Width == 2:
		// Overwriting the head: blank the tail at x+1.
		tail := i + 1
		blank := EmptyCell()
		blank.Style = c.Style
		b.cells[tail] = blank
		b.dirty[tail] = true
	}
}

// SetString writes a run of text starting at (x, y), splitting the input
// into grapheme clusters. Returns the x position after the last written
// column. Text past the right margin is dropped.
func (b *Buffer) SetString(x, y int, s string, style Style) int {
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		w := SymbolWidth(cluster)
		if w <= 0 {
			continue
		}
		if x+w > b.width {
			break
		}
		b.Set(x, y, cluster, style)
		x += w
	}
	return x
}

// Fill writes the same glyph into every cell of a w*h rectangle. Regions
// reaching outside the buffer are clipped.
func (b *Buffer) Fill(x, y, w, h int, symbol string, style Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			b.Set(col, row, symbol, style)
		}
	}
}

// Clear resets every cell to a default-styled space and marks the buffer
// fully dirty.
func (b *Buffer) Clear() {
	empty := EmptyCell()
	for i := range b.cells {
		b.cells[i] = empty
	}
	b.MarkAllDirty()
}

// Resize reallocates the grid for the new size. No content is preserved: a
// resized terminal should be fully repainted, so the whole buffer comes back
// dirty.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.width, b.height = width, height
	b.allocate()
}

// MarkAllDirty flags every cell for the next flush.
func (b *Buffer) MarkAllDirty() { b.allDirty = true }

// ClearDirty resets dirty tracking. Only the renderer calls this, after a
// successful flush; clearing from anywhere else loses updates.
func (b *Buffer) ClearDirty() {
	b.allDirty = false
	for i := range b.dirty {
		b.dirty[i] = false
	}
}

// IsDirty reports whether any cell is waiting to be flushed.
func (b *Buffer) IsDirty() bool {
	if b.allDirty {
		return len(b.cells) > 0
	}
	for _, d := range b.dirty {
		if d {
			return true
		}
	}
	return false
}

// DirtyIndices returns the indices of dirty cells in raster order:
// row-major, left to right, top to bottom.
func (b *Buffer) DirtyIndices() []int {
	if b.allDirty {
		out := make([]int, len(b.cells))
		for i := range out {
			out[i] = i
		}
		return out
	}
	var out []int
	for i, d := range b.dirty {
		if d {
			out = append(out, i)
		}
	}
	return out
}
