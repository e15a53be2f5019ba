// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/palette.go
// Summary: xterm 256-color palette and perceptual quantization.
// Usage: Degrades RGB cell colors for 256-color and 16-color terminals.
// Notes: Matching uses Luv distance via go-colorful; RGB distance ranks the
//        grayscale ramp badly.

package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// cubeLevels are the channel values of the 6x6x6 color cube (indices 16-231).
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// system16 holds the conventional RGB values of the 16 base colors. Real
// terminals remap these per theme, so quantization to the 256 palette skips
// them; they are only used as targets for the 16-color fallback.
var system16 = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0x80, 0x00, 0x00}, {0x00, 0x80, 0x00}, {0x80, 0x80, 0x00},
	{0x00, 0x00, 0x80}, {0x80, 0x00, 0x80}, {0x00, 0x80, 0x80}, {0xc0, 0xc0, 0xc0},
	{0x80, 0x80, 0x80}, {0xff, 0x00, 0x00}, {0x00, 0xff, 0x00}, {0xff, 0xff, 0x00},
	{0x00, 0x00, 0xff}, {0xff, 0x00, 0xff}, {0x00, 0xff, 0xff}, {0xff, 0xff, 0xff},
}

var palette [256]colorful.Color

func init() {
	for i := 0; i < 16; i++ {
		palette[i] = rgbColor(system16[i][0], system16[i][1], system16[i][2])
	}
	for i := 16; i < 232; i++ {
		v := i - 16
		r := cubeLevels[v/36]
		g := cubeLevels[(v/6)%6]
		b := cubeLevels[v%6]
		palette[i] = rgbColor(r, g, b)
	}
	for i := 232; i < 256; i++ {
		gray := uint8(8 + 10*(i-232))
		palette[i] = rgbColor(gray, gray, gray)
	}
}

func rgbColor(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// PaletteRGB returns the conventional RGB value of a 256-palette index.
func PaletteRGB(v uint8) (r, g, b uint8) {
	c := palette[v]
	return uint8(c.R*255 + 0.5), uint8(c.G*255 + 0.5), uint8(c.B*255 + 0.5)
}

// QuantizeRGB returns the 256-palette index closest to the given color.
// Only the cube and grayscale ramp (16-255) are candidates: the first 16
// entries are theme-dependent on real terminals.
func QuantizeRGB(r, g, b uint8) uint8 {
	target := rgbColor(r, g, b)
	best, bestDist := 16, -1.0
	for i := 16; i < 256; i++ {
		d := target.DistanceLuv(palette[i])
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}

// Nearest16 returns the base-16 color index closest to the given color,
// using the conventional RGB values of the base palette.
func Nearest16(r, g, b uint8) uint8 {
	target := rgbColor(r, g, b)
	best, bestDist := 0, -1.0
	for i := 0; i < 16; i++ {
		d := target.DistanceLuv(palette[i])
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}
