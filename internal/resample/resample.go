package resample

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"imgresample/internal/filter"
)

// progressInterval is the sampling period of the progress reporter.
const progressInterval = 10 * time.Millisecond

// Resampler converts rasters between resolutions with a separable
// reconstruction filter: a horizontal pass to destination width
// followed by a vertical pass to destination height, both striped
// across workers. A Resampler may be reused across calls, but a single
// instance rejects overlapping invocations with ErrConcurrentInvocation.
type Resampler struct {
	filter    filter.Filter
	workers   int
	listeners []ProgressListener

	running atomic.Bool
}

// Option configures a Resampler.
type Option func(*Resampler)

// WithFilter selects the reconstruction kernel. Default is Lanczos-3.
func WithFilter(f filter.Filter) Option {
	return func(r *Resampler) {
		if f != nil {
			r.filter = f
		}
	}
}

// WithWorkers sets the number of parallel workers. Default is
// runtime.NumCPU(). The output is byte-identical for any worker count.
func WithWorkers(n int) Option {
	return func(r *Resampler) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithProgressListener registers a progress listener.
func WithProgressListener(l ProgressListener) Option {
	return func(r *Resampler) {
		if l != nil {
			r.listeners = append(r.listeners, l)
		}
	}
}

// New returns a Resampler ready for use.
func New(opts ...Option) *Resampler {
	r := &Resampler{
		filter:  filter.Lanczos3(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddProgressListener registers l for subsequent calls. Not safe to
// call while a resample is in progress.
func (r *Resampler) AddProgressListener(l ProgressListener) {
	if l != nil {
		r.listeners = append(r.listeners, l)
	}
}

// Resample resamples src to dstWidth x dstHeight and returns the new
// image. The result type follows the source: grayscale stays grayscale
// (16-bit stays 16-bit), anything else becomes NRGBA.
func (r *Resampler) Resample(src image.Image, dstWidth, dstHeight int) (image.Image, error) {
	return r.ResampleContext(context.Background(), src, dstWidth, dstHeight)
}

// ResampleContext is Resample with cooperative cancellation: workers
// observe ctx at row and column boundaries and the call returns
// ErrCancelled wrapping the context error.
func (r *Resampler) ResampleContext(ctx context.Context, src image.Image, dstWidth, dstHeight int) (image.Image, error) {
	return r.resample(ctx, src, nil, dstWidth, dstHeight)
}

// ResampleScale resamples src by a uniform scale factor; destination
// dimensions are floor(src*scale + 0.5).
func (r *Resampler) ResampleScale(src image.Image, scale float64) (image.Image, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidArgument, scale)
	}
	b := src.Bounds()
	w := int(math.Floor(float64(b.Dx())*scale + 0.5))
	h := int(math.Floor(float64(b.Dy())*scale + 0.5))
	return r.Resample(src, w, h)
}

// ResampleInto resamples src into the caller-supplied dst, whose
// dimensions define the target size. The destination's channel count
// must match the resolved source (an NRGBA destination also takes
// 3-channel output) or the call fails with ErrInvalidArgument.
func (r *Resampler) ResampleInto(dst, src image.Image) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrInvalidArgument)
	}
	b := dst.Bounds()
	_, err := r.resample(context.Background(), src, dst, b.Dx(), b.Dy())
	return err
}

func (r *Resampler) resample(ctx context.Context, src, dst image.Image, dstWidth, dstHeight int) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if dstWidth < 3 || dstHeight < 3 {
		return nil, fmt.Errorf("%w: target size %dx%d, must be at least 3x3",
			ErrInvalidArgument, dstWidth, dstHeight)
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrConcurrentInvocation
	}
	defer r.running.Store(false)

	reader := newRowReader(src)
	channels := reader.channels()
	srcWidth := src.Bounds().Dx()
	srcHeight := src.Bounds().Dy()

	if dst != nil {
		if err := checkDestination(dst, channels, dstWidth, dstHeight); err != nil {
			return nil, err
		}
	}

	horizontal, err := buildTable(r.filter, srcWidth, dstWidth)
	if err != nil {
		return nil, err
	}
	vertical, err := buildTable(r.filter, srcHeight, dstHeight)
	if err != nil {
		return nil, err
	}

	// One allocation backs the whole intermediate buffer; rows are
	// views into it.
	rowLen := dstWidth * channels
	backing := make([]byte, srcHeight*rowLen)
	intermediate := make([][]byte, srcHeight)
	for y := range intermediate {
		intermediate[y] = backing[y*rowLen : (y+1)*rowLen]
	}
	out := make([]byte, dstHeight*dstWidth*channels)

	counter := &progressCounter{total: int64(srcHeight + dstWidth)}
	reporter := startProgressReporter(counter, r.listeners, progressInterval)

	err = runWorkers(r.workers, func(worker, workers int) error {
		return horizontalPass(ctx, reader, srcWidth, srcHeight, dstWidth,
			horizontal, intermediate, counter, worker, workers)
	})
	if err == nil {
		err = runWorkers(r.workers, func(worker, workers int) error {
			return verticalPass(ctx, intermediate, dstWidth, dstHeight, channels,
				vertical, out, counter, worker, workers)
		})
	}
	if err != nil {
		reporter.stop(false)
		return nil, err
	}
	reporter.stop(true)

	if dst == nil {
		dst = newOutputImage(src, channels, dstWidth, dstHeight)
	}
	if err := writePixels(out, dst, 0, 0, dstWidth, dstHeight, channels); err != nil {
		return nil, err
	}
	return dst, nil
}

// runWorkers fans fn out over worker indices 0..workers-1 (index 0 on
// the calling goroutine) and joins them all even when one fails.
func runWorkers(workers int, fn func(worker, workers int) error) error {
	if workers < 1 {
		workers = 1
	}
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 1; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			errs[worker] = runWorker(worker, workers, fn)
		}(i)
	}
	errs[0] = runWorker(0, workers, fn)
	wg.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, ErrWorkerFailed) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}

// runWorker converts a worker panic into ErrWorkerFailed so one bad
// row poisons the pass instead of the process.
func runWorker(worker, workers int, fn func(worker, workers int) error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: worker %d: %v", ErrWorkerFailed, worker, v)
		}
	}()
	return fn(worker, workers)
}
