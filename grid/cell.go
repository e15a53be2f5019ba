// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/cell.go
// Summary: Cell, color, and attribute types for the terminal grid.
// Usage: Consumed by the buffer, the renderer, and the canvas layer.
// Notes: Keeps cell data plain values so equality is a struct compare.

package grid

import (
	"github.com/mattn/go-runewidth"
)

// Attribute is a bitset of text attributes applied to a cell.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrStrikethrough
)

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	names := []struct {
		bit  Attribute
		name string
	}{
		{AttrBold, "bold"},
		{AttrDim, "dim"},
		{AttrItalic, "italic"},
		{AttrUnderline, "underline"},
		{AttrBlink, "blink"},
		{AttrReverse, "reverse"},
		{AttrHidden, "hidden"},
		{AttrStrikethrough, "strikethrough"},
	}
	var result string
	for _, n := range names {
		if a&n.bit == 0 {
			continue
		}
		if result != "" {
			result += "|"
		}
		result += n.name
	}
	if result == "" {
		return "unknown"
	}
	return result
}

// ColorMode defines the type of color stored.
type ColorMode int

const (
	ColorModeDefault  ColorMode = iota // Default terminal color
	ColorModeStandard                  // The basic 16 ANSI colors
	ColorMode256                       // 256-color palette
	ColorModeRGB                       // 24-bit "true" color
)

// Color represents a color in potentially different modes.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Holds the color code for Standard (0-15) and 256-mode (0-255)
	R, G, B uint8 // Holds the values for RGB mode
}

// Predefined default colors for convenience.
var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// Standard returns a color from the basic 16-color ANSI set.
func Standard(v uint8) Color { return Color{Mode: ColorModeStandard, Value: v} }

// Palette returns a color from the 256-color palette.
func Palette(v uint8) Color { return Color{Mode: ColorMode256, Value: v} }

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color { return Color{Mode: ColorModeRGB, R: r, G: g, B: b} }

// Style bundles the visual properties of a cell. Styles are compared by
// value during differential rendering, so all fields must stay comparable.
type Style struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// DefaultStyle returns the style of an untouched cell: default terminal
// colors and no attributes.
func DefaultStyle() Style {
	return Style{FG: DefaultFG, BG: DefaultBG}
}

// Cell represents a single character position on the grid.
type Cell struct {
	// Symbol holds one visible grapheme cluster. It is empty for the
	// trailing half of a wide glyph.
	Symbol string

	// Style is the visual style for this cell.
	Style Style

	// Width is the number of display columns the glyph occupies (1 or 2).
	// Continuation cells report 0.
	Width int

	// Cont marks the second column of a 2-column glyph. Continuation
	// cells are never painted directly.
	Cont bool
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Symbol: " ", Width: 1, Style: DefaultStyle()}
}

// NewCell creates a cell for the given grapheme with the given style.
// The display width is measured with go-runewidth.
func NewCell(symbol string, style Style) Cell {
	return Cell{Symbol: symbol, Width: SymbolWidth(symbol), Style: style}
}

// ContinuationCell returns the trailing cell of a wide glyph. It carries the
// head cell's style so style diffing keeps working when a neighboring write
// touches only part of the glyph.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style, Cont: true}
}

// IsContinuation returns true for the second cell of a wide glyph.
func (c Cell) IsContinuation() bool { return c.Cont }

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool { return c == other }

// SymbolWidth returns the display width of a grapheme cluster, clamped to
// the 1..2 range the grid can express. Zero-width input measures 0 so
// callers can reject it.
func SymbolWidth(symbol string) int {
	w := runewidth.StringWidth(symbol)
	if w > 2 {
		w = 2
	}
	return w
}
