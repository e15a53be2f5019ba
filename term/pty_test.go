// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/pty_test.go
// Summary: Round-trip tests through a real pseudo-terminal.
// Notes: Skipped where the environment provides no pty device.

package term

import (
	"bufio"
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/framegrace/texelrender/grid"
	"github.com/framegrace/texelrender/render"
)

// ptyCapture drains the master side of a pty into an accumulating buffer so
// tests can wait for specific byte sequences.
type ptyCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func capturePTY(master io.Reader) *ptyCapture {
	c := &ptyCapture{}
	go func() {
		chunk := make([]byte, 4096)
		for {
			n, err := master.Read(chunk)
			if n > 0 {
				c.mu.Lock()
				c.buf.Write(chunk[:n])
				c.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return c
}

func (c *ptyCapture) waitFor(t *testing.T, needle string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		c.mu.Lock()
		found := bytes.Contains(c.buf.Bytes(), []byte(needle))
		snapshot := c.buf.String()
		c.mu.Unlock()
		if found {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %q in %q", needle, snapshot)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (c *ptyCapture) contains(needle string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Contains(c.buf.Bytes(), []byte(needle))
}

func TestFlushRoundTripThroughPTY(t *testing.T) {
	master, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer master.Close()
	defer tty.Close()
	capture := capturePTY(master)

	b := grid.NewBuffer(20, 3)
	b.ClearDirty()
	b.SetString(0, 0, "hi", grid.Style{FG: grid.Standard(2)})

	r := render.New(render.WithColorLevel(render.ColorLevel16))
	w := bufio.NewWriter(tty)
	n, err := r.Flush(b, w)
	if err != nil {
		t.Fatalf("flush through pty: %v", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d cells, want 2", n)
	}

	capture.waitFor(t, "hi", 2*time.Second)
	if !capture.contains("\x1b[1;1H") {
		t.Error("output missing cursor home")
	}
	if !capture.contains(";32m") {
		t.Error("output missing green SGR")
	}
}

func TestSessionLifecycleOnPTY(t *testing.T) {
	master, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer master.Close()
	defer tty.Close()

	if err := pty.Setsize(master, &pty.Winsize{Cols: 40, Rows: 12}); err != nil {
		t.Skipf("cannot size pty: %v", err)
	}
	capture := capturePTY(master)

	s, err := NewSession(tty, tty, WithColorLevel(render.ColorLevel16))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if w, h := s.Size(); w != 40 || h != 12 {
		t.Errorf("session size = %dx%d, want 40x12", w, h)
	}

	// Start switches to the alternate screen and hides the cursor.
	capture.waitFor(t, "\x1b[?25l", 2*time.Second)

	s.Buffer().SetString(0, 0, "frame", grid.DefaultStyle())
	if _, err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	capture.waitFor(t, "frame", 2*time.Second)

	// A size change invalidates everything: the next flush repaints.
	if err := pty.Setsize(master, &pty.Winsize{Cols: 30, Rows: 10}); err != nil {
		t.Skipf("cannot resize pty: %v", err)
	}
	w, h, err := s.HandleResize()
	if err != nil {
		t.Fatalf("handle resize: %v", err)
	}
	if w != 30 || h != 10 {
		t.Errorf("resize reported %dx%d, want 30x10", w, h)
	}
	n, err := s.Flush()
	if err != nil {
		t.Fatalf("post-resize flush: %v", err)
	}
	if n != 300 {
		t.Errorf("post-resize flush wrote %d cells, want 300", n)
	}
}
