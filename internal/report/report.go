// Package report prints render results and writes them as JSON.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"mandelbrot-renderer/internal/render"
)

// Print levels.
const (
	LevelQuiet   = 0 // elapsed time only
	LevelCount   = 1 // + inside count
	LevelPolicy  = 2 // + work allocation
	LevelWorkers = 3 // + per-worker breakdown
)

// Summary is the outcome of one render.
type Summary struct {
	WorkAllocation string               `json:"work_allocation"`
	Threads        int                  `json:"threads"`
	Width          int                  `json:"width"`
	Height         int                  `json:"height"`
	PixelsInside   int64                `json:"pixels_inside"`
	ElapsedSeconds float64              `json:"elapsed_seconds"`
	Output         string               `json:"output,omitempty"`
	Workers        []render.WorkerStats `json:"workers,omitempty"`
}

// FromResult summarizes res, saved to output.
func FromResult(res *render.Result, output string) Summary {
	s := Summary{
		WorkAllocation: res.Policy.String(),
		Threads:        res.Threads,
		PixelsInside:   res.Inside,
		ElapsedSeconds: res.Elapsed.Seconds(),
		Output:         output,
		Workers:        res.Workers,
	}
	if res.Image != nil {
		s.Width = res.Image.Width
		s.Height = res.Image.Height
	}
	return s
}

// Print writes the console report for level. The elapsed time is always the
// last line.
func Print(w io.Writer, s Summary, level int) {
	if level >= LevelPolicy {
		fmt.Fprintf(w, "Work allocation: %s\n", s.WorkAllocation)
	}
	if level >= LevelCount {
		fmt.Fprintf(w, "Total Mandelbrot pixels: %d\n", s.PixelsInside)
	}
	if level >= LevelWorkers {
		for _, st := range s.Workers {
			fmt.Fprintf(w, "  worker %2d: %5d rows %8d inside %10.4fs\n",
				st.Index, st.Rows, st.Inside, st.Elapsed.Seconds())
		}
	}
	fmt.Fprintf(w, "%g\n", s.ElapsedSeconds)
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(path string, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("report: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
