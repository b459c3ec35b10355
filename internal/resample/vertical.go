package resample

import (
	"context"
	"fmt"
)

// verticalPass resamples intermediate columns to destination height,
// writing the final bytes. Worker w of n processes the destination
// columns where x % n == w; columns map to disjoint output offsets, so
// the hot path needs no synchronization.
func verticalPass(ctx context.Context, intermediate [][]byte, dstWidth, dstHeight, channels int,
	table *subsamplingTable, out []byte, counter *progressCounter, worker, workers int) error {

	if channels == 1 {
		return verticalPassGray(ctx, intermediate, dstWidth, dstHeight, table, out, counter, worker, workers)
	}
	useChannel3 := channels > 3

	for x := worker; x < dstWidth; x += workers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		xLocation := x * channels
		for y := 0; y < dstHeight; y++ {
			base := y * table.numContributors
			n := table.contributions[y]

			var sample0, sample1, sample2, sample3 float32
			for k := 0; k < n; k++ {
				w := table.weights[base+k]
				row := intermediate[table.pickPixels[base+k]]
				sample0 += float32(row[xLocation]) * w
				sample1 += float32(row[xLocation+1]) * w
				sample2 += float32(row[xLocation+2]) * w
				if useChannel3 {
					sample3 += float32(row[xLocation+3]) * w
				}
			}

			o := (y*dstWidth + x) * channels
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

func verticalPassGray(ctx context.Context, intermediate [][]byte, dstWidth, dstHeight int,
	table *subsamplingTable, out []byte, counter *progressCounter, worker, workers int) error {

	for x := worker; x < dstWidth; x += workers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		for y := 0; y < dstHeight; y++ {
			base := y * table.numContributors
			n := table.contributions[y]

			var sample float32
			for k := 0; k < n; k++ {
				sample += float32(intermediate[table.pickPixels[base+k]][x]) * table.weights[base+k]
			}
			out[y*dstWidth+x] = toByte(sample)
		}
		counter.add(1)
	}
	return nil
}
