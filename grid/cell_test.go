// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/cell_test.go
// Summary: Tests for cell, color, and attribute types.

package grid

import "testing"

func TestAttributeString(t *testing.T) {
	cases := []struct {
		attr Attribute
		want string
	}{
		{0, "none"},
		{AttrBold, "bold"},
		{AttrBold | AttrUnderline, "bold|underline"},
		{AttrDim | AttrReverse | AttrStrikethrough, "dim|reverse|strikethrough"},
	}
	for _, c := range cases {
		if got := c.attr.String(); got != c.want {
			t.Errorf("Attribute(%b).String() = %q, want %q", c.attr, got, c.want)
		}
	}
}

func TestSymbolWidth(t *testing.T) {
	cases := []struct {
		symbol string
		want   int
	}{
		{"a", 1},
		{" ", 1},
		{"漢", 2},
		{"界", 2},
		{"│", 1},
		{"█", 1},
		{"", 0},
	}
	for _, c := range cases {
		if got := SymbolWidth(c.symbol); got != c.want {
			t.Errorf("SymbolWidth(%q) = %d, want %d", c.symbol, got, c.want)
		}
	}
}

func TestNewCellMeasuresWidth(t *testing.T) {
	narrow := NewCell("x", DefaultStyle())
	if narrow.Width != 1 {
		t.Errorf("narrow cell width = %d, want 1", narrow.Width)
	}
	wide := NewCell("漢", DefaultStyle())
	if wide.Width != 2 {
		t.Errorf("wide cell width = %d, want 2", wide.Width)
	}
}

func TestContinuationCellCarriesStyle(t *testing.T) {
	st := Style{FG: RGB(10, 20, 30), BG: Palette(17), Attr: AttrBold}
	c := ContinuationCell(st)
	if !c.IsContinuation() {
		t.Fatal("continuation cell not marked as continuation")
	}
	if c.Symbol != "" {
		t.Errorf("continuation cell carries symbol %q", c.Symbol)
	}
	if c.Width != 0 {
		t.Errorf("continuation cell width = %d, want 0", c.Width)
	}
	if c.Style != st {
		t.Errorf("continuation cell style = %+v, want %+v", c.Style, st)
	}
}

func TestStyleEquality(t *testing.T) {
	a := Style{FG: RGB(1, 2, 3), BG: Standard(4), Attr: AttrItalic}
	b := Style{FG: RGB(1, 2, 3), BG: Standard(4), Attr: AttrItalic}
	if a != b {
		t.Error("identical styles compare unequal")
	}
	b.Attr |= AttrBlink
	if a == b {
		t.Error("different styles compare equal")
	}
}

func TestCellEquals(t *testing.T) {
	a := NewCell("q", DefaultStyle())
	b := NewCell("q", DefaultStyle())
	if !a.Equals(b) {
		t.Error("identical cells compare unequal")
	}
	b.Style.FG = Palette(200)
	if a.Equals(b) {
		t.Error("differently styled cells compare equal")
	}
}
