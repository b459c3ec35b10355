package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"imgresample/internal/batch"
	"imgresample/internal/config"
	"imgresample/internal/filter"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("in", "", "Input directory")
	outputDir := flag.String("out", "", "Output directory")
	width := flag.Int("width", 0, "Target width in pixels")
	height := flag.Int("height", 0, "Target height in pixels")
	scale := flag.Float64("scale", 0, "Uniform scale factor")
	filterName := flag.String("filter", "", "Reconstruction filter (default: lanczos3)")
	format := flag.String("format", "", "Output format: webp, png, jpeg or bmp (default: webp)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Process only first N files for testing")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Width:     *width,
		Height:    *height,
		Scale:     *scale,
		Filter:    *filterName,
		Format:    *format,
		Workers:   *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: input and output directories are required. Use -in/-out or config.json.")
		os.Exit(1)
	}

	kernel, err := filter.ByName(cfg.Filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := batch.ListFiles(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	if len(files) == 0 {
		fmt.Println("No images to resize.")
		os.Exit(0)
	}

	// Print summary
	target := fmt.Sprintf("scale %.3g", cfg.Scale)
	if cfg.Width > 0 {
		target = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	}
	fmt.Printf("Batch resize -> %s, filter %s, format %s\n", target, cfg.Filter, cfg.Format)
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	results := batch.Run(batch.Config{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Scale:     cfg.Scale,
		Filter:    kernel,
		Format:    cfg.Format,
		Workers:   cfg.Workers,
	}, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Resized: %d/%d\n", success, len(files))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.File, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
