// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/buffer_test.go
// Summary: Tests for the cell buffer: dirty tracking, wide glyphs, resize.

package grid

import "testing"

func TestNewBufferStartsFullyDirty(t *testing.T) {
	b := NewBuffer(4, 3)
	if got := len(b.DirtyIndices()); got != 12 {
		t.Fatalf("new buffer dirty count = %d, want 12", got)
	}
	for i := 0; i < 12; i++ {
		c := b.CellAt(i)
		if c.Symbol != " " || c.Style != DefaultStyle() {
			t.Fatalf("cell %d not default: %+v", i, c)
		}
	}
}

func TestSetMarksCellDirty(t *testing.T) {
	b := NewBuffer(5, 2)
	b.ClearDirty()

	b.Set(3, 1, "x", DefaultStyle())
	dirty := b.DirtyIndices()
	if len(dirty) != 1 {
		t.Fatalf("dirty count = %d, want 1", len(dirty))
	}
	if x, y := b.Coords(dirty[0]); x != 3 || y != 1 {
		t.Errorf("dirty cell at (%d,%d), want (3,1)", x, y)
	}
}

func TestSetWideWritesContinuation(t *testing.T) {
	b := NewBuffer(5, 1)
	b.ClearDirty()

	st := Style{FG: Palette(33)}
	b.Set(1, 0, "漢", st)

	head := b.Get(1, 0)
	if head.Width != 2 || head.Symbol != "漢" {
		t.Fatalf("head cell = %+v", head)
	}
	tail := b.Get(2, 0)
	if !tail.IsContinuation() {
		t.Fatal("cell after wide glyph is not a continuation")
	}
	if tail.Style != st {
		t.Errorf("continuation style = %+v, want %+v", tail.Style, st)
	}
	if got := len(b.DirtyIndices()); got != 2 {
		t.Errorf("dirty count = %d, want 2", got)
	}
}

func TestSetWideAtLastColumnDegradesToSpace(t *testing.T) {
	b := NewBuffer(4, 1)
	b.Set(3, 0, "漢", DefaultStyle())
	c := b.Get(3, 0)
	if c.Symbol != " " || c.Width != 1 {
		t.Errorf("wide glyph at margin wrote %+v, want styled space", c)
	}
}

func TestOverwritingWideHeadBlanksTail(t *testing.T) {
	b := NewBuffer(5, 1)
	b.Set(1, 0, "漢", DefaultStyle())
	b.ClearDirty()

	b.Set(1, 0, "a", DefaultStyle())
	tail := b.Get(2, 0)
	if tail.IsContinuation() {
		t.Fatal("tail still a continuation after head overwrite")
	}
	if tail.Symbol != " " {
		t.Errorf("tail symbol = %q, want blank", tail.Symbol)
	}
}

func TestOverwritingWideTailBlanksHead(t *testing.T) {
	b := NewBuffer(5, 1)
	b.Set(1, 0, "漢", DefaultStyle())
	b.ClearDirty()

	b.Set(2, 0, "a", DefaultStyle())
	head := b.Get(1, 0)
	if head.Symbol != " " || head.Width != 1 {
		t.Errorf("head = %+v, want blank after tail overwrite", head)
	}
	if got := b.Get(2, 0).Symbol; got != "a" {
		t.Errorf("tail position symbol = %q, want %q", got, "a")
	}
}

func TestSetOutOfBoundsIsNoOp(t *testing.T) {
	b := NewBuffer(3, 3)
	b.ClearDirty()
	b.Set(-1, 0, "x", DefaultStyle())
	b.Set(0, -1, "x", DefaultStyle())
	b.Set(3, 0, "x", DefaultStyle())
	b.Set(0, 3, "x", DefaultStyle())
	if b.IsDirty() {
		t.Error("out-of-bounds writes dirtied the buffer")
	}
}

func TestDirtyIndicesRasterOrder(t *testing.T) {
	b := NewBuffer(4, 3)
	b.ClearDirty()

	// Write in deliberately scrambled order.
	b.Set(2, 2, "c", DefaultStyle())
	b.Set(0, 0, "a", DefaultStyle())
	b.Set(3, 1, "b", DefaultStyle())
	b.Set(1, 0, "d", DefaultStyle())

	dirty := b.DirtyIndices()
	for i := 1; i < len(dirty); i++ {
		if dirty[i] <= dirty[i-1] {
			t.Fatalf("dirty indices not ascending: %v", dirty)
		}
	}
	want := []int{b.Index(0, 0), b.Index(1, 0), b.Index(3, 1), b.Index(2, 2)}
	if len(dirty) != len(want) {
		t.Fatalf("dirty = %v, want %v", dirty, want)
	}
	for i := range want {
		if dirty[i] != want[i] {
			t.Fatalf("dirty = %v, want %v", dirty, want)
		}
	}
}

func TestResizeMarksAllDirtyAndDropsContent(t *testing.T) {
	b := NewBuffer(3, 2)
	b.Set(0, 0, "x", DefaultStyle())
	b.ClearDirty()

	b.Resize(5, 4)
	if w, h := b.Size(); w != 5 || h != 4 {
		t.Fatalf("size after resize = %dx%d, want 5x4", w, h)
	}
	if got := len(b.DirtyIndices()); got != 20 {
		t.Errorf("dirty count after resize = %d, want 20", got)
	}
	if c := b.Get(0, 0); c.Symbol != " " {
		t.Errorf("content survived resize: %+v", c)
	}
}

func TestSetStringSplitsGraphemes(t *testing.T) {
	b := NewBuffer(10, 1)
	end := b.SetString(0, 0, "a漢b", DefaultStyle())
	if end != 4 {
		t.Fatalf("SetString end = %d, want 4", end)
	}
	if got := b.Get(0, 0).Symbol; got != "a" {
		t.Errorf("cell 0 = %q", got)
	}
	if got := b.Get(1, 0).Symbol; got != "漢" {
		t.Errorf("cell 1 = %q", got)
	}
	if !b.Get(2, 0).IsContinuation() {
		t.Error("cell 2 not a continuation")
	}
	if got := b.Get(3, 0).Symbol; got != "b" {
		t.Errorf("cell 3 = %q", got)
	}
}

func TestSetStringKeepsCombiningMarksTogether(t *testing.T) {
	b := NewBuffer(10, 1)
	// e + U+0301 combining acute: one grapheme cluster, one column.
	b.SetString(0, 0, "éx", DefaultStyle())
	if got := b.Get(0, 0).Symbol; got != "é" {
		t.Errorf("cell 0 = %q, want combined cluster", got)
	}
	if got := b.Get(1, 0).Symbol; got != "x" {
		t.Errorf("cell 1 = %q, want %q", got, "x")
	}
}

func TestSetStringClipsAtRightMargin(t *testing.T) {
	b := NewBuffer(3, 1)
	b.ClearDirty()
	end := b.SetString(1, 0, "ab漢cd", DefaultStyle())
	if end != 3 {
		t.Fatalf("end = %d, want 3", end)
	}
	// Only "ab" fits; the wide glyph and everything after are dropped.
	if got := b.Get(1, 0).Symbol; got != "a" {
		t.Errorf("cell 1 = %q", got)
	}
	if got := b.Get(2, 0).Symbol; got != "b" {
		t.Errorf("cell 2 = %q", got)
	}
}

func TestFillClipsToBounds(t *testing.T) {
	b := NewBuffer(4, 4)
	b.ClearDirty()
	b.Fill(2, 2, 5, 5, "#", DefaultStyle())
	if got := len(b.DirtyIndices()); got != 4 {
		t.Errorf("dirty count = %d, want 4 (clipped region)", got)
	}
	if got := b.Get(3, 3).Symbol; got != "#" {
		t.Errorf("fill missed (3,3): %q", got)
	}
}

func TestClearDirtyThenNoDirt(t *testing.T) {
	b := NewBuffer(3, 3)
	b.ClearDirty()
	if b.IsDirty() {
		t.Error("buffer dirty after ClearDirty")
	}
	if got := len(b.DirtyIndices()); got != 0 {
		t.Errorf("dirty indices = %d, want 0", got)
	}
}
