// Package sweep renders one grid under every (policy, threads) combination
// and compares timings and inside counts.
package sweep

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"mandelbrot-renderer/internal/fractal"
	"mandelbrot-renderer/internal/partition"
	"mandelbrot-renderer/internal/render"
)

// Config holds the settings shared by every case of a sweep.
type Config struct {
	Width    int
	Height   int
	Kernel   fractal.Kernel
	Policies []partition.Policy
	Threads  []int
	Repeat   int

	// Progress receives a status line every ProgressInterval while the sweep
	// runs. Nil disables progress output.
	Progress         io.Writer
	ProgressInterval time.Duration
}

// Case is one (policy, threads) combination.
type Case struct {
	Policy  partition.Policy
	Threads int
}

// Result holds the outcome of one case.
type Result struct {
	WorkAllocation string  `json:"work_allocation"`
	Threads        int     `json:"threads"`
	PixelsInside   int64   `json:"pixels_inside"`
	BestSeconds    float64 `json:"best_seconds"`
	MeanSeconds    float64 `json:"mean_seconds"`
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
}

// Cases expands the policy and thread lists, policies outermost.
func Cases(cfg Config) []Case {
	cases := make([]Case, 0, len(cfg.Policies)*len(cfg.Threads))
	for _, p := range cfg.Policies {
		for _, n := range cfg.Threads {
			cases = append(cases, Case{Policy: p, Threads: n})
		}
	}
	return cases
}

// Run renders every case one after another so timings do not interfere.
func Run(cfg Config) []Result {
	cases := Cases(cfg)
	total := len(cases)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if cfg.Progress == nil {
			<-done
			return
		}
		interval := cfg.ProgressInterval
		if interval <= 0 {
			interval = 2 * time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1fs elapsed\n", p, total, time.Since(start).Seconds())
			}
		}
	}()

	for i, c := range cases {
		results[i] = runCase(cfg, c)
		processed.Add(1)
	}

	close(done)
	<-stopped

	return results
}

func runCase(cfg Config, c Case) Result {
	res := Result{WorkAllocation: c.Policy.String(), Threads: c.Threads}

	repeat := cfg.Repeat
	if repeat <= 0 {
		repeat = 1
	}

	var total time.Duration
	for i := 0; i < repeat; i++ {
		r, err := render.Render(render.Options{
			Width:   cfg.Width,
			Height:  cfg.Height,
			Threads: c.Threads,
			Policy:  c.Policy,
			Kernel:  cfg.Kernel,
		})
		if err != nil {
			res.Error = err.Error()
			return res
		}
		if i > 0 && r.Inside != res.PixelsInside {
			res.Error = fmt.Sprintf("inside count changed between runs: %d then %d", res.PixelsInside, r.Inside)
			return res
		}
		res.PixelsInside = r.Inside
		total += r.Elapsed
		if s := r.Elapsed.Seconds(); i == 0 || s < res.BestSeconds {
			res.BestSeconds = s
		}
	}
	res.MeanSeconds = total.Seconds() / float64(repeat)
	res.Success = true
	return res
}

// Consistent reports whether every successful result has the same inside
// count, and returns that count.
func Consistent(results []Result) (int64, bool) {
	var (
		want int64
		seen bool
	)
	for _, r := range results {
		if !r.Success {
			continue
		}
		if !seen {
			want, seen = r.PixelsInside, true
			continue
		}
		if r.PixelsInside != want {
			return want, false
		}
	}
	return want, seen
}
