// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/caps.go
// Summary: Terminal color capability detection.
// Usage: Resolves the ColorLevel a session renders at.
// Notes: COLORTERM wins over terminfo; plenty of terminals advertise true
//        color only through it.

package term

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/base"

	"github.com/framegrace/texelrender/render"
)

// DetectColorLevel inspects the environment and the terminfo database to
// decide what the attached terminal can display.
func DetectColorLevel() render.ColorLevel {
	return detectColorLevel(os.Getenv("COLORTERM"), os.Getenv("TERM"))
}

func detectColorLevel(colorterm, termName string) render.ColorLevel {
	ct := strings.ToLower(colorterm)
	if strings.Contains(ct, "truecolor") || strings.Contains(ct, "24bit") {
		return render.ColorLevelTrue
	}
	if termName == "" {
		return render.ColorLevel16
	}
	if ti, err := terminfo.LookupTerminfo(termName); err == nil {
		switch {
		case ti.Colors >= 1<<24:
			return render.ColorLevelTrue
		case ti.Colors >= 256:
			return render.ColorLevel256
		default:
			return render.ColorLevel16
		}
	}
	// Unknown to the database; fall back to the name itself.
	if strings.Contains(termName, "256color") {
		return render.ColorLevel256
	}
	return render.ColorLevel16
}
