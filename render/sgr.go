// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/sgr.go
// Summary: SGR (Select Graphic Rendition) and cursor escape emission.
// Usage: Called by the renderer while draining dirty cells.
// Notes: Attributes are cumulative in the ANSI model, so every style write
//        starts from a reset.

package render

import (
	"bytes"
	"strconv"

	"github.com/framegrace/texelrender/grid"
)

// ColorLevel is the negotiated color capability of the target terminal.
type ColorLevel int

const (
	ColorLevel16  ColorLevel = iota // monochrome / basic 16 colors
	ColorLevel256                   // 256-color palette
	ColorLevelTrue                  // 24-bit true color
)

// String returns the conventional name of the level.
func (l ColorLevel) String() string {
	switch l {
	case ColorLevel16:
		return "16"
	case ColorLevel256:
		return "256"
	case ColorLevelTrue:
		return "truecolor"
	default:
		return "unknown"
	}
}

// ParseColorLevel maps a configuration string to a level. Returns false for
// unrecognized names (including "auto", which callers resolve by detection).
func ParseColorLevel(s string) (ColorLevel, bool) {
	switch s {
	case "16", "basic":
		return ColorLevel16, true
	case "256":
		return ColorLevel256, true
	case "truecolor", "24bit":
		return ColorLevelTrue, true
	}
	return ColorLevel16, false
}

const sgrReset = "\x1b[0m"

// writeCursorTo emits an absolute cursor position (CUP). Terminal rows and
// columns are 1-based.
func writeCursorTo(out *bytes.Buffer, x, y int) {
	out.WriteString("\x1b[")
	out.WriteString(strconv.Itoa(y + 1))
	out.WriteByte(';')
	out.WriteString(strconv.Itoa(x + 1))
	out.WriteByte('H')
}

// writeStyle emits one combined SGR sequence for the full style: a reset
// parameter first, then attributes, then foreground and background resolved
// for the given color level.
func writeStyle(out *bytes.Buffer, st grid.Style, level ColorLevel) {
	out.WriteString("\x1b[0")
	writeAttrs(out, st.Attr)
	writeColor(out, st.FG, level, false)
	writeColor(out, st.BG, level, true)
	out.WriteByte('m')
}

func writeAttrs(out *bytes.Buffer, a grid.Attribute) {
	params := []struct {
		bit  grid.Attribute
		code string
	}{
		{grid.AttrBold, ";1"},
		{grid.AttrDim, ";2"},
		{grid.AttrItalic, ";3"},
		{grid.AttrUnderline, ";4"},
		{grid.AttrBlink, ";5"},
		{grid.AttrReverse, ";7"},
		{grid.AttrHidden, ";8"},
		{grid.AttrStrikethrough, ";9"},
	}
	for _, p := range params {
		if a&p.bit != 0 {
			out.WriteString(p.code)
		}
	}
}

// writeColor appends the SGR parameters for one color, degrading it to what
// the terminal can express. Default colors emit nothing: the leading reset
// already restored them.
func writeColor(out *bytes.Buffer, c grid.Color, level ColorLevel, background bool) {
	switch c.Mode {
	case grid.ColorModeDefault:
		return
	case grid.ColorModeStandard:
		writeStandard(out, c.Value, background)
	case grid.ColorMode256:
		if level >= ColorLevel256 {
			writeIndexed(out, c.Value, background)
			return
		}
		r, g, b := PaletteRGB(c.Value)
		writeStandard(out, Nearest16(r, g, b), background)
	case grid.ColorModeRGB:
		switch level {
		case ColorLevelTrue:
			writeDirect(out, c.R, c.G, c.B, background)
		case ColorLevel256:
			writeIndexed(out, QuantizeRGB(c.R, c.G, c.B), background)
		default:
			writeStandard(out, Nearest16(c.R, c.G, c.B), background)
		}
	}
}

// writeStandard emits the classic 30-37/90-97 (and 40-47/100-107) codes for
// the basic 16 colors.
func writeStandard(out *bytes.Buffer, v uint8, background bool) {
	v &= 0x0f
	var code int
	if v < 8 {
		code = 30 + int(v)
	} else {
		code = 90 + int(v-8)
	}
	if background {
		code += 10
	}
	out.WriteByte(';')
	out.WriteString(strconv.Itoa(code))
}

func writeIndexed(out *bytes.Buffer, v uint8, background bool) {
	if background {
		out.WriteString(";48;5;")
	} else {
		out.WriteString(";38;5;")
	}
	out.WriteString(strconv.Itoa(int(v)))
}

func writeDirect(out *bytes.Buffer, r, g, b uint8, background bool) {
	if background {
		out.WriteString(";48;2;")
	} else {
		out.WriteString(";38;2;")
	}
	out.WriteString(strconv.Itoa(int(r)))
	out.WriteByte(';')
	out.WriteString(strconv.Itoa(int(g)))
	out.WriteByte(';')
	out.WriteString(strconv.Itoa(int(b)))
}
