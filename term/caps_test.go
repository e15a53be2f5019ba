// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/caps_test.go
// Summary: Tests for color capability detection.

package term

import (
	"testing"

	"github.com/framegrace/texelrender/render"
)

func TestDetectColorLevel(t *testing.T) {
	cases := []struct {
		colorterm, term string
		want            render.ColorLevel
	}{
		{"truecolor", "xterm", render.ColorLevelTrue},
		{"24bit", "screen", render.ColorLevelTrue},
		{"", "xterm-256color", render.ColorLevel256},
		{"", "nonexistent-256color", render.ColorLevel256},
		{"", "", render.ColorLevel16},
		{"", "completely-unknown-terminal", render.ColorLevel16},
	}
	for _, c := range cases {
		if got := detectColorLevel(c.colorterm, c.term); got != c.want {
			t.Errorf("detectColorLevel(%q, %q) = %v, want %v", c.colorterm, c.term, got, c.want)
		}
	}
}
