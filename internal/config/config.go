package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/zeromicro/go-zero/core/conf"

	"mandelbrot-renderer/internal/fractal"
	"mandelbrot-renderer/internal/output"
	"mandelbrot-renderer/internal/partition"
	"mandelbrot-renderer/internal/render"
)

// Defaults for render settings.
const (
	DefaultWidth      = 960
	DefaultHeight     = 720
	DefaultAllocation = "dynamic"
	DefaultPrintLevel = 2
	DefaultOutput     = "mandelbrot.ppm"
)

// Config holds all configurable render settings.
type Config struct {
	// Grid
	Width  int `json:"width,optional"`
	Height int `json:"height,optional"`

	// Work distribution
	Threads        int    `json:"threads,optional"`
	WorkAllocation string `json:"work_allocation,optional"`

	// Kernel
	MaxIterations int `json:"max_iterations,optional"`
	Supersample   int `json:"supersample,optional"`

	// Output
	Output     string `json:"output,optional"`
	Format     string `json:"format,optional"`
	Report     string `json:"report,optional"`
	PrintLevel *int   `json:"print_level,optional"`
}

// Load reads a JSON, YAML or TOML config file, picked by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	var cfg Config
	if err := conf.Load(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values and empty strings mean "not set".
type Flags struct {
	Width          int
	Height         int
	Threads        int
	WorkAllocation string
	MaxIterations  int
	Supersample    int
	Output         string
	Format         string
	Report         string
	PrintLevel     int // -1 means not set
}

// Resolve applies CLI overrides and fills in any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Threads > 0 {
		c.Threads = flags.Threads
	}
	if flags.WorkAllocation != "" {
		c.WorkAllocation = flags.WorkAllocation
	}
	if flags.MaxIterations > 0 {
		c.MaxIterations = flags.MaxIterations
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Report != "" {
		c.Report = flags.Report
	}
	if flags.PrintLevel >= 0 {
		level := flags.PrintLevel
		c.PrintLevel = &level
	}

	// Defaults
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.WorkAllocation == "" {
		c.WorkAllocation = DefaultAllocation
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = fractal.DefaultMaxIterations
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.PrintLevel == nil {
		level := DefaultPrintLevel
		c.PrintLevel = &level
	}
}

// Level returns the resolved print level.
func (c *Config) Level() int {
	if c.PrintLevel == nil {
		return DefaultPrintLevel
	}
	return *c.PrintLevel
}

// OutputFormat returns the explicit format, or the one implied by Output.
func (c *Config) OutputFormat() (output.Format, error) {
	if c.Format != "" {
		return output.ParseFormat(c.Format)
	}
	if filepath.Ext(c.Output) == "" {
		return output.PPM, nil
	}
	return output.FormatFromPath(c.Output)
}

// Options builds the render options. The grid is scaled by Supersample.
func (c *Config) Options() (render.Options, error) {
	policy, err := partition.ParsePolicy(c.WorkAllocation)
	if err != nil {
		return render.Options{}, &render.ConfigurationError{
			Field:  "work_allocation",
			Value:  fmt.Sprintf("%q", c.WorkAllocation),
			Reason: "want static or dynamic",
		}
	}
	return render.Options{
		Width:   c.Width * c.Supersample,
		Height:  c.Height * c.Supersample,
		Threads: c.Threads,
		Policy:  policy,
		Kernel:  fractal.Mandelbrot{MaxIterations: c.MaxIterations},
	}, nil
}
