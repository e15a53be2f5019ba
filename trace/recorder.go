// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: trace/recorder.go
// Summary: SQLite frame-trace recorder for render diagnostics.
//
// Records per-flush statistics with:
//   - Async batch writes so the render loop never blocks on disk
//   - Time-range queries for inspecting a capture window
//   - Aggregate summaries (cell/byte totals, repaint counts)

package trace

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framegrace/texelrender/render"
)

// Frame is one recorded flush.
type Frame struct {
	ID          int64
	Timestamp   time.Time
	Cells       int
	CursorMoves int
	StyleChange int
	Bytes       int
	Duration    time.Duration
	FullRepaint bool
}

// Summary aggregates a set of recorded frames.
type Summary struct {
	Frames       int64
	Cells        int64
	Bytes        int64
	FullRepaints int64
	AvgDuration  time.Duration
}

// Config holds recorder configuration.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BatchSize is the number of frames to accumulate before writing.
	// Default: 64
	BatchSize int

	// BatchTimeout is how long to wait before writing a partial batch.
	// Default: 2s
	BatchTimeout time.Duration

	// ChannelBuffer is the size of the async recording channel.
	// Default: 512
	ChannelBuffer int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:        dbPath,
		BatchSize:     64,
		BatchTimeout:  2 * time.Second,
		ChannelBuffer: 512,
	}
}

// Recorder persists frame statistics to SQLite.
type Recorder struct {
	config Config
	db     *sql.DB

	// Async batching
	batchChan chan Frame
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}

	mu sync.RWMutex
}

const traceSchemaVersion = 1

const traceSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS frames (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL,       -- UnixNano
    cells INTEGER NOT NULL,
    cursor_moves INTEGER NOT NULL,
    style_changes INTEGER NOT NULL,
    bytes INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,
    full_repaint INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_frames_timestamp ON frames(timestamp);
`

// NewRecorder creates a SQLite-backed recorder at dbPath.
func NewRecorder(dbPath string) (*Recorder, error) {
	return NewRecorderWithConfig(DefaultConfig(dbPath))
}

// NewRecorderWithConfig creates a recorder with custom configuration.
func NewRecorderWithConfig(config Config) (*Recorder, error) {
	dir := filepath.Dir(config.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := config.DBPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(traceSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", traceSchemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set schema version: %w", err)
	}

	r := &Recorder{
		config:    config,
		db:        db,
		batchChan: make(chan Frame, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}

	go r.batchWriter()

	return r, nil
}

// Record queues one flush's statistics. Never blocks: if the channel is
// full the frame is dropped.
func (r *Recorder) Record(s render.Stats) {
	f := Frame{
		Timestamp:   time.Now(),
		Cells:       s.Cells,
		CursorMoves: s.CursorMoves,
		StyleChange: s.StyleChanges,
		Bytes:       s.Bytes,
		Duration:    s.Duration,
		FullRepaint: s.FullRepaint,
	}
	select {
	case r.batchChan <- f:
	default:
	}
}

// batchWriter runs in a background goroutine, batching frames and writing
// them periodically.
func (r *Recorder) batchWriter() {
	defer close(r.doneCh)

	batch := make([]Frame, 0, r.config.BatchSize)
	timer := time.NewTimer(r.config.BatchTimeout)
	defer timer.Stop()

	write := func() {
		if len(batch) == 0 {
			return
		}
		r.writeBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case f := <-r.batchChan:
			batch = append(batch, f)
			if len(batch) >= r.config.BatchSize {
				write()
				timer.Reset(r.config.BatchTimeout)
			}

		case <-timer.C:
			write()
			timer.Reset(r.config.BatchTimeout)

		case done := <-r.flushCh:
			// Manual flush request - drain channel first
			draining := true
			for draining {
				select {
				case f := <-r.batchChan:
					batch = append(batch, f)
				default:
					draining = false
				}
			}
			write()
			close(done)

		case <-r.stopCh:
			// Drain channel and write before exit
			for {
				select {
				case f := <-r.batchChan:
					batch = append(batch, f)
				default:
					write()
					return
				}
			}
		}
	}
}

// writeBatch persists a batch in a single transaction.
func (r *Recorder) writeBatch(batch []Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		log.Printf("[TRACE] Failed to begin transaction: %v", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO frames
		(timestamp, cells, cursor_moves, style_changes, bytes, duration_ns, full_repaint)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("[TRACE] Failed to prepare statement: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, f := range batch {
		repaint := 0
		if f.FullRepaint {
			repaint = 1
		}
		if _, err := stmt.Exec(f.Timestamp.UnixNano(), f.Cells, f.CursorMoves,
			f.StyleChange, f.Bytes, f.Duration.Nanoseconds(), repaint); err != nil {
			log.Printf("[TRACE] Failed to insert frame: %v", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[TRACE] Failed to commit batch: %v", err)
	}
}

// Recent returns the newest frames, newest first.
func (r *Recorder) Recent(limit int) ([]Frame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`
		SELECT id, timestamp, cells, cursor_moves, style_changes, bytes, duration_ns, full_repaint
		FROM frames
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanFrames(rows)
}

// InRange returns frames recorded within [start, end], oldest first.
func (r *Recorder) InRange(start, end time.Time) ([]Frame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`
		SELECT id, timestamp, cells, cursor_moves, style_changes, bytes, duration_ns, full_repaint
		FROM frames
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanFrames(rows)
}

func scanFrames(rows *sql.Rows) ([]Frame, error) {
	var frames []Frame
	for rows.Next() {
		var f Frame
		var tsNano, durNano int64
		var repaint int
		if err := rows.Scan(&f.ID, &tsNano, &f.Cells, &f.CursorMoves,
			&f.StyleChange, &f.Bytes, &durNano, &repaint); err != nil {
			continue // Skip malformed rows
		}
		f.Timestamp = time.Unix(0, tsNano)
		f.Duration = time.Duration(durNano)
		f.FullRepaint = repaint == 1
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// Summarize aggregates every recorded frame.
func (r *Recorder) Summarize() (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Summary
	var avgNano sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(cells), 0),
		       COALESCE(SUM(bytes), 0),
		       COALESCE(SUM(full_repaint), 0),
		       AVG(duration_ns)
		FROM frames
	`).Scan(&s.Frames, &s.Cells, &s.Bytes, &s.FullRepaints, &avgNano)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize failed: %w", err)
	}
	if avgNano.Valid {
		s.AvgDuration = time.Duration(int64(avgNano.Float64))
	}
	return s, nil
}

// Flush blocks until all queued frames are written.
func (r *Recorder) Flush() error {
	done := make(chan struct{})
	select {
	case r.flushCh <- done:
		<-done
	case <-r.stopCh:
		// Already stopped
	}
	return nil
}

// Close flushes pending writes and closes the database.
func (r *Recorder) Close() error {
	close(r.stopCh)
	<-r.doneCh

	return r.db.Close()
}
