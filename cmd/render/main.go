package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/gops/agent"

	"mandelbrot-renderer/internal/config"
	"mandelbrot-renderer/internal/output"
	"mandelbrot-renderer/internal/render"
	"mandelbrot-renderer/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	width := flag.Int("width", 0, "Image width in pixels (default: 960)")
	height := flag.Int("height", 0, "Image height in pixels (default: 720)")
	threads := flag.Int("threads", 0, "Number of worker goroutines (default: NumCPU)")
	alloc := flag.String("alloc", "", "Work allocation: static or dynamic (default: dynamic)")
	iterations := flag.Int("iterations", 0, "Escape iteration limit (default: 2048)")
	supersample := flag.Int("supersample", 0, "Render at N times the size, then downsample (default: 1)")
	outPath := flag.String("output", "", "Output image path (default: mandelbrot.ppm)")
	format := flag.String("format", "", "Output format: ppm, png, webp, tga, bmp, tiff (default: from extension)")
	reportPath := flag.String("report", "", "Also write a JSON report to this path")
	printLevel := flag.Int("print", -1, "Print level 0-3 (default: 2)")
	verbose := flag.Bool("v", false, "Log render diagnostics to stderr")
	gops := flag.Bool("gops", false, "Start the gops diagnostics agent")

	flag.Parse()

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if *gops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: gops agent: %v\n", err)
		} else {
			defer agent.Close()
		}
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Width:          *width,
		Height:         *height,
		Threads:        *threads,
		WorkAllocation: *alloc,
		MaxIterations:  *iterations,
		Supersample:    *supersample,
		Output:         *outPath,
		Format:         *format,
		Report:         *reportPath,
		PrintLevel:     *printLevel,
	})

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	imgFormat, err := cfg.OutputFormat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	res, err := render.Render(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, render.ErrConfiguration) {
			return 2
		}
		return 1
	}

	img := res.Image.NRGBA()
	if cfg.Supersample > 1 {
		img = output.Downsample(img, cfg.Width, cfg.Height)
	}
	if err := output.Save(cfg.Output, img, imgFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	summary := report.FromResult(res, cfg.Output)
	report.Print(os.Stdout, summary, cfg.Level())

	if cfg.Report != "" {
		if err := report.WriteJSON(cfg.Report, summary); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: report write failed: %v\n", err)
		}
	}

	return 0
}
