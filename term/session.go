// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/session.go
// Summary: Terminal session: raw mode, size tracking, buffered output.
// Usage: Owns the render loop's view of the tty; pairs a cell buffer with a
//        differential renderer.
// Notes: Resize is delivered as an event; the loop owner decides when to
//        apply it so the buffer is never mutated mid-frame.

package term

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/framegrace/texelrender/grid"
	"github.com/framegrace/texelrender/render"
)

const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAltScreen controls whether Start switches to the alternate screen.
// Default on.
func WithAltScreen(on bool) SessionOption {
	return func(s *Session) { s.useAltScreen = on }
}

// WithColorLevel overrides the detected color capability.
func WithColorLevel(l render.ColorLevel) SessionOption {
	return func(s *Session) { s.level = l; s.levelForced = true }
}

// Session ties a cell buffer and a differential renderer to one terminal
// device. It owns raw-mode entry/exit, size tracking, and the buffered
// writer that is the subsystem's single blocking point.
type Session struct {
	in  *os.File
	out *os.File
	w   *bufio.Writer

	buf  *grid.Buffer
	rend *render.Renderer

	level        render.ColorLevel
	levelForced  bool
	useAltScreen bool

	oldState *term.State
	sigCh    chan os.Signal
	resizeCh chan struct{}
	started  bool
}

// NewSession creates a session over the given terminal files, normally
// os.Stdin and os.Stdout.
func NewSession(in, out *os.File, opts ...SessionOption) (*Session, error) {
	if !term.IsTerminal(int(out.Fd())) {
		return nil, fmt.Errorf("term: %s is not a terminal", out.Name())
	}
	s := &Session{
		in:           in,
		out:          out,
		useAltScreen: true,
		resizeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.levelForced {
		s.level = DetectColorLevel()
	}
	return s, nil
}

// Start puts the terminal in raw mode, allocates the buffer at the current
// size, and begins watching for window size changes.
func (s *Session) Start() error {
	if s.started {
		return fmt.Errorf("term: session already started")
	}
	w, h, err := term.GetSize(int(s.out.Fd()))
	if err != nil {
		return fmt.Errorf("term: query size: %w", err)
	}

	s.oldState, err = term.MakeRaw(int(s.in.Fd()))
	if err != nil {
		return fmt.Errorf("term: raw mode: %w", err)
	}

	s.buf = grid.NewBuffer(w, h)
	s.rend = render.New(render.WithColorLevel(s.level))
	s.w = bufio.NewWriterSize(s.out, 32*1024)

	if s.useAltScreen {
		s.w.WriteString(enterAltScreen)
	}
	s.w.WriteString(hideCursor)
	if err := s.w.Flush(); err != nil {
		s.restore()
		return fmt.Errorf("term: init: %w", err)
	}

	s.sigCh = make(chan os.Signal, 1)
	signal.Notify(s.sigCh, unix.SIGWINCH)
	go s.watchResize()

	s.started = true
	return nil
}

func (s *Session) watchResize() {
	for range s.sigCh {
		select {
		case s.resizeCh <- struct{}{}:
		default:
		}
	}
}

// ResizeEvents returns a channel that receives a tick whenever the terminal
// size may have changed. The loop owner must call HandleResize before the
// next flush.
func (s *Session) ResizeEvents() <-chan struct{} { return s.resizeCh }

// HandleResize re-queries the terminal size, resizes the buffer (dropping
// its contents), and invalidates the renderer's cached state. The next
// flush repaints everything.
func (s *Session) HandleResize() (w, h int, err error) {
	w, h, err = term.GetSize(int(s.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("term: query size: %w", err)
	}
	s.buf.Resize(w, h)
	s.rend.Reset()
	return w, h, nil
}

// Buffer returns the session's cell buffer.
func (s *Session) Buffer() *grid.Buffer { return s.buf }

// Renderer returns the session's differential renderer.
func (s *Session) Renderer() *render.Renderer { return s.rend }

// ColorLevel returns the color capability in use.
func (s *Session) ColorLevel() render.ColorLevel { return s.level }

// Size returns the buffer dimensions.
func (s *Session) Size() (w, h int) { return s.buf.Size() }

// Flush drains dirty cells to the terminal: one buffered write-and-flush
// cycle.
func (s *Session) Flush() (int, error) {
	return s.rend.Flush(s.buf, s.w)
}

// RenderFull repaints every cell.
func (s *Session) RenderFull() (int, error) {
	return s.rend.RenderFull(s.buf, s.w)
}

// Stop restores the terminal: cursor visible, main screen, cooked mode.
func (s *Session) Stop() {
	if !s.started {
		return
	}
	s.started = false

	signal.Stop(s.sigCh)
	close(s.sigCh)

	s.w.WriteString(sgrResetSeq)
	s.w.WriteString(showCursor)
	if s.useAltScreen {
		s.w.WriteString(leaveAltScreen)
	}
	s.w.Flush()
	s.restore()
}

const sgrResetSeq = "\x1b[0m"

func (s *Session) restore() {
	if s.oldState != nil {
		term.Restore(int(s.in.Fd()), s.oldState)
		s.oldState = nil
	}
}
