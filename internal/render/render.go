// Package render computes a Mandelbrot image on a fixed set of worker
// goroutines.
//
// Render validates its Options, allocates the image buffer, spawns exactly
// Options.Threads workers and blocks until every one has finished. Rows are
// handed to workers by a partition.Partitioner; the rows of different workers
// never overlap, so the buffer itself needs no locking. The only shared
// mutable state is the inside counter and, for the dynamic policy, the row
// cursor, both atomic.
package render

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"mandelbrot-renderer/internal/fractal"
	"mandelbrot-renderer/internal/partition"
	"mandelbrot-renderer/internal/raster"
)

// DefaultMaxPixels caps the buffer size when Options.MaxPixels is zero.
const DefaultMaxPixels = 1 << 28

// Options describes one render.
type Options struct {
	Width   int
	Height  int
	Threads int
	Policy  partition.Policy

	// Kernel evaluates each pixel. Nil means fractal.Default().
	Kernel fractal.Kernel

	// MaxPixels bounds Width*Height. Zero means DefaultMaxPixels.
	MaxPixels int
}

// Validate checks the options without allocating anything.
func (o Options) Validate() error {
	if o.Threads <= 0 {
		return &ConfigurationError{Field: "threads", Value: o.Threads, Reason: "must be positive"}
	}
	if o.Width <= 0 {
		return &ConfigurationError{Field: "width", Value: o.Width, Reason: "must be positive"}
	}
	if o.Height <= 0 {
		return &ConfigurationError{Field: "height", Value: o.Height, Reason: "must be positive"}
	}
	if !o.Policy.Valid() {
		return &ConfigurationError{Field: "policy", Value: o.Policy, Reason: "want static or dynamic"}
	}
	if o.MaxPixels < 0 {
		return &ConfigurationError{Field: "max pixels", Value: o.MaxPixels, Reason: "must not be negative"}
	}
	return nil
}

func (o Options) checkSize() error {
	limit := o.MaxPixels
	if limit == 0 {
		limit = DefaultMaxPixels
	}
	if o.Width > limit/o.Height {
		return fmt.Errorf("%w: %dx%d image exceeds %d pixels", ErrResourceExhausted, o.Width, o.Height, limit)
	}
	return nil
}

// Result is a finished render.
type Result struct {
	Image   *raster.ImageBuffer
	Inside  int64
	Policy  partition.Policy
	Threads int
	Workers []WorkerStats
	Elapsed time.Duration
}

// Render computes the full image. It returns only after every pixel has been
// written, or with the first worker error once all workers have stopped.
func Render(opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := opts.checkSize(); err != nil {
		return nil, err
	}

	img := raster.NewImageBuffer(opts.Width, opts.Height)
	res, err := renderInto(img, opts)
	if err != nil {
		return nil, err
	}
	res.Image = img
	return res, nil
}

// renderInto fans out opts.Threads workers writing into sink. opts must be
// valid.
func renderInto(sink raster.Sink, opts Options) (*Result, error) {
	kernel := opts.Kernel
	if kernel == nil {
		kernel = fractal.Default()
	}

	parts, err := partition.New(opts.Policy, opts.Height, opts.Threads)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	log := Logger()
	log.Info("render start",
		"width", opts.Width, "height", opts.Height,
		"threads", opts.Threads, "policy", opts.Policy.String())

	var (
		inside Counter
		g      errgroup.Group
		stats  = make([]WorkerStats, opts.Threads)
	)

	start := time.Now()
	for i := 0; i < opts.Threads; i++ {
		w := &worker{
			index:  i,
			hint:   ColorHint(i, opts.Threads),
			width:  opts.Width,
			height: opts.Height,
			source: parts.Source(i),
			kernel: kernel,
			sink:   sink,
			inside: &inside,
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker %d panicked: %v", ErrWorkerFailed, w.index, r)
				}
			}()
			st, err := w.run()
			stats[w.index] = st
			log.Debug("worker done",
				"worker", st.Index, "rows", st.Rows, "inside", st.Inside, "elapsed", st.Elapsed)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	log.Info("render done", "inside", inside.Load(), "elapsed", elapsed)

	return &Result{
		Inside:  inside.Load(),
		Policy:  opts.Policy,
		Threads: opts.Threads,
		Workers: stats,
		Elapsed: elapsed,
	}, nil
}
