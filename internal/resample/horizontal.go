package resample

import (
	"context"
	"fmt"
)

// horizontalPass resamples source rows to destination width, writing
// them into the intermediate buffer. Worker w of n processes the rows
// where y % n == w; every worker owns a disjoint set of intermediate
// rows, so the hot path needs no synchronization.
func horizontalPass(ctx context.Context, src rowReader, srcWidth, srcHeight, dstWidth int,
	table *subsamplingTable, intermediate [][]byte, counter *progressCounter, worker, workers int) error {

	channels := src.channels()
	if channels == 1 {
		return horizontalPassGray(ctx, src, srcWidth, srcHeight, dstWidth, table, intermediate, counter, worker, workers)
	}

	row := make([]byte, srcWidth*channels)
	scratch := make([]uint32, srcWidth)
	useChannel3 := channels > 3

	for y := worker; y < srcHeight; y += workers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		src.readRow(y, row, scratch)
		out := intermediate[y]
		for i := 0; i < dstWidth; i++ {
			base := i * table.numContributors
			n := table.contributions[i]

			var sample0, sample1, sample2, sample3 float32
			for k := 0; k < n; k++ {
				w := table.weights[base+k]
				idx := table.pickPixels[base+k] * channels
				sample0 += float32(row[idx]) * w
				sample1 += float32(row[idx+1]) * w
				sample2 += float32(row[idx+2]) * w
				if useChannel3 {
					sample3 += float32(row[idx+3]) * w
				}
			}

			o := i * channels
			out[o+0] = toByte(sample0)
			out[o+1] = toByte(sample1)
			out[o+2] = toByte(sample2)
			if useChannel3 {
				out[o+3] = toByte(sample3)
			}
		}
		counter.add(1)
	}
	return nil
}

func horizontalPassGray(ctx context.Context, src rowReader, srcWidth, srcHeight, dstWidth int,
	table *subsamplingTable, intermediate [][]byte, counter *progressCounter, worker, workers int) error {

	row := make([]byte, srcWidth)
	scratch := make([]uint32, srcWidth)

	for y := worker; y < srcHeight; y += workers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		src.readRow(y, row, scratch)
		out := intermediate[y]
		for i := 0; i < dstWidth; i++ {
			base := i * table.numContributors
			n := table.contributions[i]

			var sample float32
			for k := 0; k < n; k++ {
				sample += float32(row[table.pickPixels[base+k]]) * table.weights[base+k]
			}
			out[i] = toByte(sample)
		}
		counter.add(1)
	}
	return nil
}

// toByte clamps to [0, 255] and rounds half up.
func toByte(f float32) byte {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return byte(f + 0.5)
}
