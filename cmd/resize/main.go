package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"imgresample/internal/filter"
	"imgresample/internal/imageio"
	"imgresample/internal/resample"
)

func main() {
	// CLI flags
	in := flag.String("in", "", "Input image (png, jpeg, bmp, tga)")
	out := flag.String("out", "", "Output image (png, jpg, bmp, webp)")
	width := flag.Int("width", 0, "Target width in pixels")
	height := flag.Int("height", 0, "Target height in pixels")
	scale := flag.Float64("scale", 0, "Uniform scale factor (alternative to -width/-height)")
	filterName := flag.String("filter", "lanczos3", "Reconstruction filter (lanczos3, mitchell, bspline, triangle, ...)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	quiet := flag.Bool("quiet", false, "Suppress progress output")

	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "Error: -in and -out are required.")
		flag.Usage()
		os.Exit(1)
	}
	if (*width > 0) != (*height > 0) {
		fmt.Fprintln(os.Stderr, "Error: -width and -height must be set together.")
		os.Exit(1)
	}
	if *width <= 0 && *scale <= 0 {
		fmt.Fprintln(os.Stderr, "Error: set -width/-height or -scale.")
		os.Exit(1)
	}

	kernel, err := filter.ByName(*filterName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	src, err := imageio.Decode(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []resample.Option{
		resample.WithFilter(kernel),
		resample.WithWorkers(*workers),
	}
	if !*quiet {
		opts = append(opts, resample.WithProgressListener(func(fraction float64) {
			fmt.Printf("\r  %3.0f%%", fraction*100)
		}))
	}
	engine := resample.New(opts...)

	start := time.Now()

	var dst image.Image
	if *width > 0 {
		dst, err = engine.Resample(src, *width, *height)
	} else {
		dst, err = engine.ResampleScale(src, *scale)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	if err := imageio.Encode(*out, dst); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		sb := src.Bounds()
		db := dst.Bounds()
		fmt.Printf("\r%s (%dx%d) -> %s (%dx%d) in %.2fs\n",
			*in, sb.Dx(), sb.Dy(), *out, db.Dx(), db.Dy(),
			time.Since(start).Seconds())
	}
}
