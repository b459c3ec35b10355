package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"imgresample/internal/filter"
	"imgresample/internal/imageio"
	"imgresample/internal/resample"
)

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Width     int
	Height    int
	Scale     float64
	Filter    filter.Filter
	Format    string
	Workers   int
}

// Result holds the outcome of processing one file.
type Result struct {
	File    string
	Output  string
	Width   int
	Height  int
	Success bool
	Error   string
}

// ListFiles returns the decodable image files under dir, relative to
// dir, in walk order.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageio.Decodable(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	return files, nil
}

// Run processes all files using a worker pool. Each worker owns its
// own engine instance; a Resampler rejects overlapping calls.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Outer parallelism is per file; the engine runs single-worker.
			engine := resample.New(
				resample.WithFilter(cfg.Filter),
				resample.WithWorkers(1),
			)
			for idx := range fileChan {
				results[idx] = processFile(cfg, engine, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, engine *resample.Resampler, file string) Result {
	src, err := imageio.Decode(filepath.Join(cfg.InputDir, file))
	if err != nil {
		return Result{File: file, Error: err.Error()}
	}

	var dst image.Image
	if cfg.Width > 0 && cfg.Height > 0 {
		dst, err = engine.Resample(src, cfg.Width, cfg.Height)
	} else {
		dst, err = engine.ResampleScale(src, cfg.Scale)
	}
	if err != nil {
		return Result{File: file, Error: err.Error()}
	}

	out := outputName(file, cfg.Format)
	outPath := filepath.Join(cfg.OutputDir, out)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return Result{File: file, Error: err.Error()}
	}
	if err := imageio.Encode(outPath, dst); err != nil {
		return Result{File: file, Error: err.Error()}
	}

	b := dst.Bounds()
	return Result{
		File:    file,
		Output:  out,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Success: true,
	}
}

// outputName swaps the extension of a relative input path for the
// configured output format.
func outputName(file, format string) string {
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)
	switch format {
	case "jpeg":
		return base + ".jpg"
	default:
		return base + "." + format
	}
}
