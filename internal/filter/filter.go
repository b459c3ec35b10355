package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Filter is a separable reconstruction kernel. Implementations must be
// pure and symmetric and return zero outside [-SamplingRadius, +SamplingRadius];
// the engine shares a single instance across all workers.
type Filter interface {
	// SamplingRadius returns the support half-width of the kernel.
	SamplingRadius() float64
	// Apply returns the kernel value at offset x.
	Apply(x float64) float64
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

type lanczos struct {
	taps float64
}

func (f lanczos) SamplingRadius() float64 { return f.taps }

func (f lanczos) Apply(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x >= f.taps {
		return 0
	}
	return sinc(x) * sinc(x/f.taps)
}

// Lanczos returns a windowed-sinc kernel with the given number of taps.
func Lanczos(taps int) Filter { return lanczos{taps: float64(taps)} }

// Lanczos3 returns the default reconstruction kernel (3 taps).
func Lanczos3() Filter { return lanczos{taps: 3} }

type box struct{}

func (box) SamplingRadius() float64 { return 0.5 }

func (box) Apply(x float64) float64 {
	if x > -0.5 && x <= 0.5 {
		return 1
	}
	return 0
}

// Box returns the nearest-neighbour box kernel.
func Box() Filter { return box{} }

type triangle struct{}

func (triangle) SamplingRadius() float64 { return 1 }

func (triangle) Apply(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x < 1 {
		return 1 - x
	}
	return 0
}

// Triangle returns the bilinear tent kernel.
func Triangle() Filter { return triangle{} }

type hermite struct{}

func (hermite) SamplingRadius() float64 { return 1 }

func (hermite) Apply(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x < 1 {
		return (2*x-3)*x*x + 1
	}
	return 0
}

// Hermite returns the Hermite cubic kernel.
func Hermite() Filter { return hermite{} }

type bell struct{}

func (bell) SamplingRadius() float64 { return 1.5 }

func (bell) Apply(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x < 0.5 {
		return 0.75 - x*x
	}
	if x < 1.5 {
		x -= 1.5
		return 0.5 * x * x
	}
	return 0
}

// Bell returns the quadratic bell kernel.
func Bell() Filter { return bell{} }

type bspline struct{}

func (bspline) SamplingRadius() float64 { return 2 }

func (bspline) Apply(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x < 1 {
		return 0.5*x*x*x - x*x + 2.0/3.0
	}
	if x < 2 {
		x = 2 - x
		return x * x * x / 6
	}
	return 0
}

// BSpline returns the cubic B-spline kernel.
func BSpline() Filter { return bspline{} }

type mitchell struct{}

func (mitchell) SamplingRadius() float64 { return 2 }

func (mitchell) Apply(x float64) float64 {
	const b = 1.0 / 3.0
	const c = 1.0 / 3.0
	if x < 0 {
		x = -x
	}
	x2 := x * x
	if x < 1 {
		return ((12-9*b-6*c)*x*x2 + (-18+12*b+6*c)*x2 + (6 - 2*b)) / 6
	}
	if x < 2 {
		return ((-b-6*c)*x*x2 + (6*b+30*c)*x2 + (-12*b-48*c)*x + (8*b + 24*c)) / 6
	}
	return 0
}

// Mitchell returns the Mitchell-Netravali kernel (B = C = 1/3).
func Mitchell() Filter { return mitchell{} }

type imagingKernel struct {
	f imaging.ResampleFilter
}

func (k imagingKernel) SamplingRadius() float64 { return k.f.Support }

func (k imagingKernel) Apply(x float64) float64 { return k.f.Kernel(x) }

// FromImaging adapts a disintegration/imaging resample filter to the
// engine's kernel contract.
func FromImaging(f imaging.ResampleFilter) Filter { return imagingKernel{f: f} }

// ByName returns the kernel registered under the given name. The empty
// string selects the default Lanczos-3 kernel.
func ByName(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lanczos", "lanczos3":
		return Lanczos3(), nil
	case "lanczos2":
		return Lanczos(2), nil
	case "box":
		return Box(), nil
	case "triangle", "bilinear":
		return Triangle(), nil
	case "hermite":
		return Hermite(), nil
	case "bell":
		return Bell(), nil
	case "bspline":
		return BSpline(), nil
	case "mitchell":
		return Mitchell(), nil
	case "catmullrom":
		return FromImaging(imaging.CatmullRom), nil
	case "gaussian":
		return FromImaging(imaging.Gaussian), nil
	case "blackman":
		return FromImaging(imaging.Blackman), nil
	default:
		return nil, fmt.Errorf("filter: unknown filter %q", name)
	}
}
