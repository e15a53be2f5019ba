// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/renderer.go
// Summary: Differential renderer: dirty cells in, minimal escape stream out.
// Usage: One renderer per output terminal; flushed once per frame.
// Notes: The cursor/style cache is the renderer's only persistent state.
//        Reset it whenever the physical terminal may have diverged.

package render

import (
	"bytes"
	"io"
	"time"

	"github.com/framegrace/texelrender/grid"
)

// Stats captures the work done by a single flush. Callers use it for
// instrumentation, not for correctness.
type Stats struct {
	Cells        int           // glyphs written (continuations excluded)
	CursorMoves  int           // absolute cursor positions emitted
	StyleChanges int           // SGR style switches emitted
	Bytes        int           // bytes handed to the sink
	Duration     time.Duration // wall-clock time of the flush
	FullRepaint  bool          // true when the flush was a RenderFull
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColorLevel sets the color capability the renderer degrades to.
// The default is true color.
func WithColorLevel(l ColorLevel) Option {
	return func(r *Renderer) { r.level = l }
}

// Renderer translates a buffer's dirty cells into the smallest correct
// terminal output. It caches the physical cursor position and the last
// style written so unchanged ones are never re-emitted.
//
// A renderer is single-threaded: it belongs to one render loop and must not
// be shared across goroutines or terminals.
type Renderer struct {
	level ColorLevel

	// Cursor cache. curKnown is false whenever the physical cursor
	// position cannot be trusted (startup, reset, wrap, I/O error).
	curX, curY int
	curKnown   bool

	// Style cache. haveStyle is false until a style has actually been
	// written this session.
	last      grid.Style
	haveStyle bool

	// poisoned is set after a sink error: partial output may have left
	// the terminal in any state, so the next flush starts from scratch.
	poisoned bool

	out   bytes.Buffer
	stats Stats
}

// New creates a renderer with unknown cursor and style state, forcing at
// least one cursor move and one style write on the first flush.
func New(opts ...Option) *Renderer {
	r := &Renderer{level: ColorLevelTrue}
	for _, opt := range opts {
		opt(r)
	}
	r.Reset()
	return r
}

// ColorLevel returns the color capability the renderer emits for.
func (r *Renderer) ColorLevel() ColorLevel { return r.level }

// SetColorLevel changes the emission capability. Takes effect next flush.
func (r *Renderer) SetColorLevel(l ColorLevel) { r.level = l }

// Reset forgets the cached cursor position and style. Call after anything
// that may have touched the terminal behind the renderer's back: a resize,
// an alternate-screen transition, an external program writing to the tty.
func (r *Renderer) Reset() {
	r.curKnown = false
	r.haveStyle = false
	r.poisoned = false
}

// LastStats returns the counters of the most recent flush.
func (r *Renderer) LastStats() Stats { return r.stats }

// RenderFull marks the entire buffer dirty and flushes it: a guaranteed
// repaint of every cell. Use after a resize or whenever the terminal
// contents are known to be stale.
func (r *Renderer) RenderFull(b *grid.Buffer, sink io.Writer) (int, error) {
	b.MarkAllDirty()
	n, err := r.flush(b, sink, true)
	return n, err
}

// Flush drains the buffer's dirty cells into the sink, emitting cursor
// moves and style changes only where the cached state differs. Dirty flags
// are cleared on success. Returns the number of cells written.
//
// On a sink error the flush aborts immediately; output already written is
// not rolled back, and the renderer treats its cache as unreliable until
// the next flush.
func (r *Renderer) Flush(b *grid.Buffer, sink io.Writer) (int, error) {
	return r.flush(b, sink, false)
}

func (r *Renderer) flush(b *grid.Buffer, sink io.Writer, full bool) (int, error) {
	start := time.Now()
	r.stats = Stats{FullRepaint: full}
	if r.poisoned {
		r.Reset()
	}

	r.out.Reset()

	// Unconditional style reset: any attribute drift accumulated in prior
	// frames stops here instead of leaking forward.
	r.out.WriteString(sgrReset)
	r.last = grid.DefaultStyle()
	r.haveStyle = true

	width := b.Width()
	for _, idx := range b.DirtyIndices() {
		c := b.CellAt(idx)
		if c.IsContinuation() {
			continue
		}
		x, y := b.Coords(idx)

		if !r.curKnown || x != r.curX || y != r.curY {
			writeCursorTo(&r.out, x, y)
			r.curX, r.curY = x, y
			r.curKnown = true
			r.stats.CursorMoves++
		}

		if !r.haveStyle || c.Style != r.last {
			writeStyle(&r.out, c.Style, r.level)
			r.last = c.Style
			r.haveStyle = true
			r.stats.StyleChanges++
		}

		sym := c.Symbol
		if sym == "" {
			sym = " "
		}
		r.out.WriteString(sym)
		r.stats.Cells++

		// Predict the natural cursor advance. Past the right margin the
		// terminal's wrap behavior is not reliably predictable, so the
		// cached position becomes unknown.
		w := c.Width
		if w < 1 {
			w = 1
		}
		r.curX += w
		if r.curX >= width {
			r.curKnown = false
		}
	}

	b.ClearDirty()
	r.stats.Bytes = r.out.Len()

	if _, err := sink.Write(r.out.Bytes()); err != nil {
		r.poisoned = true
		r.stats.Duration = time.Since(start)
		return r.stats.Cells, err
	}
	if f, ok := sink.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			r.poisoned = true
			r.stats.Duration = time.Since(start)
			return r.stats.Cells, err
		}
	}

	r.stats.Duration = time.Since(start)
	return r.stats.Cells, nil
}
