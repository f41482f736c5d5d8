package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/gops/agent"

	"mandelbrot-renderer/internal/config"
	"mandelbrot-renderer/internal/fractal"
	"mandelbrot-renderer/internal/partition"
	"mandelbrot-renderer/internal/render"
	"mandelbrot-renderer/internal/report"
	"mandelbrot-renderer/internal/sweep"
)

func main() {
	os.Exit(run())
}

func run() int {
	width := flag.Int("width", config.DefaultWidth, "Image width in pixels")
	height := flag.Int("height", config.DefaultHeight, "Image height in pixels")
	threadList := flag.String("threads", "1,2,4,8,16,32", "Comma-separated thread counts")
	allocList := flag.String("alloc", "static,dynamic", "Comma-separated work allocations")
	iterations := flag.Int("iterations", fractal.DefaultMaxIterations, "Escape iteration limit")
	repeat := flag.Int("repeat", 3, "Renders per case; the best time is reported")
	reportPath := flag.String("report", "", "Write a JSON report to this path")
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

	threads, err := parseThreads(*threadList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	policies, err := parsePolicies(*allocList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	cfg := sweep.Config{
		Width:    *width,
		Height:   *height,
		Kernel:   fractal.Mandelbrot{MaxIterations: *iterations},
		Policies: policies,
		Threads:  threads,
		Repeat:   *repeat,
		Progress: os.Stdout,
	}

	fmt.Printf("Mandelbrot sweep %dx%d, %d cases x %d runs\n", *width, *height, len(sweep.Cases(cfg)), *repeat)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := sweep.Run(cfg)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("%-8s %7s %14s %10s %10s\n", "alloc", "threads", "inside", "best", "mean")
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("%-8s %7d  FAILED: %s\n", r.WorkAllocation, r.Threads, r.Error)
			continue
		}
		fmt.Printf("%-8s %7d %14d %9.4fs %9.4fs\n", r.WorkAllocation, r.Threads, r.PixelsInside, r.BestSeconds, r.MeanSeconds)
	}
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	inside, ok := sweep.Consistent(results)
	if ok {
		fmt.Printf("Inside count consistent: %d\n", inside)
	} else {
		fmt.Println("Inside count differs between cases")
	}

	if *reportPath != "" {
		if err := report.WriteJSON(*reportPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: report write failed: %v\n", err)
		} else {
			fmt.Printf("Report: %s\n", *reportPath)
		}
	}

	if failed > 0 || !ok {
		return 1
	}
	return 0
}

func parseThreads(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("threads: %w", err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("threads: %d must be positive", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("threads: empty list")
	}
	return out, nil
}

func parsePolicies(s string) ([]partition.Policy, error) {
	var out []partition.Policy
	for _, f := range strings.Split(s, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}
		p, err := partition.ParsePolicy(f)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("alloc: empty list")
	}
	return out, nil
}
