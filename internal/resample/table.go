package resample

import (
	"fmt"
	"math"

	"imgresample/internal/filter"
)

// subsamplingTable holds the precomputed contributions of source samples
// to destination samples along one axis: which source indices feed each
// destination sample and with what normalized weights. Immutable after
// build and shared read-only across all workers.
type subsamplingTable struct {
	numContributors int       // row stride of pickPixels and weights
	contributions   []int     // used entries per destination sample
	pickPixels      []int     // flattened source indices
	weights         []float32 // parallel normalized weights
}

// buildTable precomputes the contribution table for resampling an axis
// of srcSize samples down or up to dstSize samples with kernel f.
func buildTable(f filter.Filter, srcSize, dstSize int) (*subsamplingTable, error) {
	if srcSize <= 0 {
		return nil, fmt.Errorf("%w: source axis size %d", ErrInvalidArgument, srcSize)
	}
	if dstSize <= 0 {
		return nil, fmt.Errorf("%w: destination axis size %d", ErrInvalidArgument, dstSize)
	}

	scale := float64(dstSize) / float64(srcSize)
	radius := f.SamplingRadius()

	var filterSize, normalization float64
	excessContributors := 1
	if scale < 1 {
		// Downsampling stretches the kernel across 1/scale source
		// samples. The ceil-based normalization compensates for
		// sampling the continuous kernel at non-integer strides.
		filterSize = radius / scale
		normalization = radius / math.Ceil(filterSize)
		excessContributors = 2
	} else {
		filterSize = radius
		normalization = 1
	}

	t := &subsamplingTable{
		numContributors: int(filterSize*2) + excessContributors,
		contributions:   make([]int, dstSize),
	}
	t.pickPixels = make([]int, dstSize*t.numContributors)
	t.weights = make([]float32, dstSize*t.numContributors)

	for p := 0; p < dstSize; p++ {
		base := p * t.numContributors
		center := (float64(p) + 0.5) / scale
		first := int(math.Floor(center - filterSize))
		last := int(math.Floor(center + filterSize + 1))

		var sum float32
		for s := first; s <= last; s++ {
			w := float32(f.Apply((center - float64(s)) * normalization))
			if w == 0 {
				continue
			}
			// Mirror reflection keeps the reconstruction continuous at
			// the borders: -1 maps to 1 (the first sample is not
			// repeated), srcSize maps to srcSize-1 (the last sample is).
			idx := s
			if idx < 0 {
				idx = -idx
			} else if idx >= srcSize {
				idx = 2*srcSize - idx - 1
			}
			// Backstop for kernels wider than the axis itself.
			if idx < 0 {
				idx = 0
			} else if idx >= srcSize {
				idx = srcSize - 1
			}
			k := t.contributions[p]
			if k == t.numContributors {
				break
			}
			t.pickPixels[base+k] = idx
			t.weights[base+k] = w
			t.contributions[p] = k + 1
			sum += w
		}

		// Normalizing each row to sum 1.0 preserves average intensity;
		// without it downscales show box-shaped banding.
		if sum != 0 {
			for k := 0; k < t.contributions[p]; k++ {
				t.weights[base+k] /= sum
			}
		}
	}
	return t, nil
}
