package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framegrace/texelrender/grid"
	"github.com/framegrace/texelrender/render"
	"github.com/framegrace/texelrender/trace"
)

func main() {
	width := flag.Int("width", 200, "buffer width in cells")
	height := flag.Int("height", 60, "buffer height in cells")
	duration := flag.Duration("duration", 10*time.Second, "total duration of the stress run")
	churn := flag.Int("churn", 500, "cells mutated per frame")
	colorFlag := flag.String("color", "truecolor", "color level: 16, 256, truecolor")
	tracePath := flag.String("trace", "", "record per-frame stats to this SQLite file")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	level, ok := render.ParseColorLevel(*colorFlag)
	if !ok {
		log.Fatalf("unknown color level %q", *colorFlag)
	}

	var recorder *trace.Recorder
	if *tracePath != "" {
		var err error
		recorder, err = trace.NewRecorder(*tracePath)
		if err != nil {
			log.Fatalf("trace recorder: %v", err)
		}
		defer recorder.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	buf := grid.NewBuffer(*width, *height)
	r := render.New(render.WithColorLevel(level))
	rng := rand.New(rand.NewSource(*seed))
	deadline := time.After(*duration)

	var frames, cells, bytes int64
	start := time.Now()

loop:
	for {
		select {
		case <-sigCh:
			break loop
		case <-deadline:
			break loop
		default:
		}

		mutate(buf, rng, *churn)
		if _, err := r.Flush(buf, io.Discard); err != nil {
			log.Fatalf("flush: %v", err)
		}
		stats := r.LastStats()
		frames++
		cells += int64(stats.Cells)
		bytes += int64(stats.Bytes)
		if recorder != nil {
			recorder.Record(stats)
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("stress run complete: %d frames in %v (%.0f fps)\n",
		frames, elapsed.Round(time.Millisecond), float64(frames)/elapsed.Seconds())
	fmt.Printf("  cells written: %d (%.1f per frame)\n", cells, float64(cells)/float64(frames))
	fmt.Printf("  bytes emitted: %d (%.1f per cell)\n", bytes, float64(bytes)/float64(cells))

	if recorder != nil {
		if err := recorder.Flush(); err != nil {
			log.Fatalf("trace flush: %v", err)
		}
		summary, err := recorder.Summarize()
		if err != nil {
			log.Fatalf("trace summary: %v", err)
		}
		fmt.Printf("  trace: %d frames recorded, avg flush %v\n",
			summary.Frames, summary.AvgDuration.Round(time.Microsecond))
	}
}

var stressGlyphs = []string{"█", "▓", "▒", "░", "·", "x", "o", "漢", "字"}

// mutate writes n randomly placed, randomly styled cells.
func mutate(b *grid.Buffer, rng *rand.Rand, n int) {
	w, h := b.Size()
	for i := 0; i < n; i++ {
		x := rng.Intn(w)
		y := rng.Intn(h)
		sym := stressGlyphs[rng.Intn(len(stressGlyphs))]
		st := grid.Style{
			FG: grid.RGB(uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))),
		}
		if rng.Intn(4) == 0 {
			st.BG = grid.Palette(uint8(rng.Intn(256)))
		}
		if rng.Intn(8) == 0 {
			st.Attr |= grid.AttrBold
		}
		b.Set(x, y, sym, st)
	}
}
