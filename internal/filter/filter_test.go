package filter_test

import (
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"imgresample/internal/filter"
)

func TestLanczos3(t *testing.T) {
	f := filter.Lanczos3()
	require.Equal(t, 3.0, f.SamplingRadius())
	require.Equal(t, 1.0, f.Apply(0))

	// The windowed sinc crosses zero at every integer offset inside
	// the support.
	for _, x := range []float64{-2, -1, 1, 2} {
		require.InDelta(t, 0, f.Apply(x), 1e-12)
	}

	// Zero outside the support.
	require.Zero(t, f.Apply(3))
	require.Zero(t, f.Apply(-3.5))
	require.Zero(t, f.Apply(100))

	// Negative lobes exist between the zero crossings.
	require.Negative(t, f.Apply(1.5))
	require.Positive(t, f.Apply(0.5))
}

func TestSamplingRadii(t *testing.T) {
	require.Equal(t, 0.5, filter.Box().SamplingRadius())
	require.Equal(t, 1.0, filter.Triangle().SamplingRadius())
	require.Equal(t, 1.0, filter.Hermite().SamplingRadius())
	require.Equal(t, 1.5, filter.Bell().SamplingRadius())
	require.Equal(t, 2.0, filter.BSpline().SamplingRadius())
	require.Equal(t, 2.0, filter.Mitchell().SamplingRadius())
	require.Equal(t, 2.0, filter.Lanczos(2).SamplingRadius())
}

func TestSymmetry(t *testing.T) {
	kernels := []filter.Filter{
		filter.Lanczos3(),
		filter.Triangle(),
		filter.Hermite(),
		filter.Bell(),
		filter.BSpline(),
		filter.Mitchell(),
	}
	// Sample offsets chosen off the support boundaries.
	offsets := []float64{0.1, 0.3, 0.7, 0.9, 1.3, 1.7, 2.3, 2.9}
	for _, f := range kernels {
		for _, x := range offsets {
			require.InDelta(t, f.Apply(x), f.Apply(-x), 1e-12, "%T at %v", f, x)
		}
	}
}

func TestBSplineKnots(t *testing.T) {
	f := filter.BSpline()
	require.InDelta(t, 2.0/3.0, f.Apply(0), 1e-12)
	require.InDelta(t, 1.0/6.0, f.Apply(1), 1e-12)
	require.InDelta(t, 1.0/6.0, f.Apply(-1), 1e-12)
	require.Zero(t, f.Apply(2))
}

func TestFromImaging(t *testing.T) {
	f := filter.FromImaging(imaging.CatmullRom)
	require.Equal(t, imaging.CatmullRom.Support, f.SamplingRadius())
	for _, x := range []float64{-1.5, -0.25, 0, 0.5, 1.75} {
		require.Equal(t, imaging.CatmullRom.Kernel(x), f.Apply(x))
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{
		"", "lanczos", "lanczos3", "lanczos2", "box", "triangle", "bilinear",
		"hermite", "bell", "bspline", "mitchell", "catmullrom", "gaussian", "blackman",
	} {
		f, err := filter.ByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, f, name)
		require.Positive(t, f.SamplingRadius(), name)
	}

	f, err := filter.ByName("  Lanczos3 ")
	require.NoError(t, err)
	require.Equal(t, 3.0, f.SamplingRadius())

	_, err = filter.ByName("sinc9000")
	require.Error(t, err)
}
