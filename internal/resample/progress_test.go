package resample

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProgressSequence(t *testing.T) {
	var fractions []float64
	r := New(
		WithWorkers(4),
		WithProgressListener(func(fraction float64) {
			fractions = append(fractions, fraction)
		}),
	)

	_, err := r.Resample(image.NewNRGBA(image.Rect(0, 0, 400, 250)), 300, 300)
	require.NoError(t, err)

	seen := len(fractions)
	require.NotZero(t, seen)

	// Nothing may arrive after the call returned.
	time.Sleep(50 * time.Millisecond)
	require.Len(t, fractions, seen)

	require.Less(t, fractions[0], 0.01)
	require.Greater(t, fractions[seen-1], 0.99)
	for i, f := range fractions {
		require.GreaterOrEqual(t, f, 0.0)
		require.LessOrEqual(t, f, 1.0)
		if i > 0 {
			require.GreaterOrEqual(t, f, fractions[i-1], "notification %d went backwards", i)
		}
	}
}

func TestProgressFinalNotification(t *testing.T) {
	var last float64 = -1
	r := New(WithProgressListener(func(fraction float64) {
		last = fraction
	}))

	// Small images finish between ticks; the closing notification must
	// still report completion.
	_, err := r.Resample(image.NewGray(image.Rect(0, 0, 8, 8)), 4, 4)
	require.NoError(t, err)
	require.Equal(t, 1.0, last)
}

func TestProgressListenerPanicSwallowed(t *testing.T) {
	calls := 0
	r := New(WithProgressListener(func(float64) {
		calls++
		panic("listener bug")
	}))

	out, err := r.Resample(image.NewGray(image.Rect(0, 0, 32, 32)), 16, 16)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Positive(t, calls)
}

func TestProgressMultipleListeners(t *testing.T) {
	a, b := 0, 0
	r := New(
		WithProgressListener(func(float64) { a++ }),
		WithProgressListener(func(float64) { b++ }),
	)

	_, err := r.Resample(image.NewGray(image.Rect(0, 0, 16, 16)), 8, 8)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Positive(t, a)
}

func TestProgressCounterFractionCaps(t *testing.T) {
	c := &progressCounter{total: 10}
	require.Equal(t, 0.0, c.fraction())
	c.add(5)
	require.Equal(t, 0.5, c.fraction())
	c.add(50)
	require.Equal(t, 1.0, c.fraction())
}

func TestNoProgressWithoutListeners(t *testing.T) {
	// No listeners means no sampler goroutine; the run must still
	// complete and stop cleanly.
	out, err := New().Resample(image.NewGray(image.Rect(0, 0, 16, 16)), 8, 8)
	require.NoError(t, err)
	require.NotNil(t, out)
}
