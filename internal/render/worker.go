package render

import (
	"fmt"
	"sync/atomic"
	"time"

	"mandelbrot-renderer/internal/fractal"
	"mandelbrot-renderer/internal/partition"
	"mandelbrot-renderer/internal/raster"
)

// Coordinate maps pixel (row, col) of a height x width grid onto the fixed
// viewport of the complex plane: real part in [-1.5, 0.5), imaginary part in
// [-1, 1).
func Coordinate(row, col, height, width int) complex128 {
	dx := (float64(col)/float64(width) - 0.75) * 2
	dy := (float64(row)/float64(height) - 0.5) * 2
	return complex(dx, dy)
}

// ColorHint returns the tint of worker index out of threads workers.
func ColorHint(index, threads int) uint8 {
	return uint8(255 * index / threads)
}

// Counter is the shared count of pixels inside the set.
type Counter struct {
	n atomic.Int64
}

// Inc adds one member pixel.
func (c *Counter) Inc() {
	c.n.Add(1)
}

// Load returns the current total.
func (c *Counter) Load() int64 {
	return c.n.Load()
}

// WorkerStats describes what one worker did during a render.
type WorkerStats struct {
	Index       int           `json:"index"`
	Hint        uint8         `json:"hint"`
	Assignments int           `json:"assignments"`
	Rows        int           `json:"rows"`
	Pixels      int           `json:"pixels"`
	Inside      int64         `json:"inside"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

type worker struct {
	index  int
	hint   uint8
	width  int
	height int
	source partition.Source
	kernel fractal.Kernel
	sink   raster.Sink
	inside *Counter
}

// run processes rows until the source is exhausted.
func (w *worker) run() (WorkerStats, error) {
	stats := WorkerStats{Index: w.index, Hint: w.hint}
	start := time.Now()

	for r, ok := w.source.Next(); ok; r, ok = w.source.Next() {
		stats.Assignments++
		for row := r.Start; row < r.End; row++ {
			for col := 0; col < w.width; col++ {
				inside, c := w.kernel.Evaluate(Coordinate(row, col, w.height, w.width), w.hint)
				if err := w.sink.Set(row, col, c); err != nil {
					stats.Elapsed = time.Since(start)
					return stats, fmt.Errorf("%w: worker %d: %w", ErrWorkerFailed, w.index, err)
				}
				if inside {
					w.inside.Inc()
					stats.Inside++
				}
			}
			stats.Rows++
			stats.Pixels += w.width
		}
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}
