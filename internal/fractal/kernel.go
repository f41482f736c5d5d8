// Package fractal holds the per-point escape-time kernels used by the renderer.
package fractal

import (
	"math"

	"mandelbrot-renderer/internal/raster"
)

// DefaultMaxIterations bounds the escape loop when none is configured.
const DefaultMaxIterations = 2048

// Kernel classifies one point of the complex plane.
//
// Implementations must be pure: the renderer calls Evaluate from many
// goroutines at once. hint is a per-worker tint for points outside the set and
// never affects membership.
type Kernel interface {
	Evaluate(c complex128, hint uint8) (inside bool, color raster.RGB)
}

// KernelFunc adapts a plain function to Kernel.
type KernelFunc func(c complex128, hint uint8) (bool, raster.RGB)

// Evaluate calls f(c, hint).
func (f KernelFunc) Evaluate(c complex128, hint uint8) (bool, raster.RGB) {
	return f(c, hint)
}

// Mandelbrot iterates z = z*z + c from z = 0 and reports c as a member when
// |z| stays within 2 for MaxIterations steps. Members are painted black.
type Mandelbrot struct {
	MaxIterations int
}

// Default returns the kernel with DefaultMaxIterations.
func Default() Mandelbrot {
	return Mandelbrot{MaxIterations: DefaultMaxIterations}
}

// Evaluate implements Kernel.
func (m Mandelbrot) Evaluate(c complex128, hint uint8) (bool, raster.RGB) {
	maxIter := m.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	cr, ci := real(c), imag(c)
	var zr, zi float64
	n := 0
	for ; n < maxIter; n++ {
		zr2, zi2 := zr*zr, zi*zi
		if zr2+zi2 > 4 {
			break
		}
		zi = 2*zr*zi + ci
		zr = zr2 - zi2 + cr
	}
	if n == maxIter {
		return true, raster.Black
	}

	// Normalized iteration count smooths the bands between escape times.
	mod := math.Sqrt(zr*zr + zi*zi)
	mu := float64(n) + 1 - math.Log2(math.Log(mod))
	return false, shade(mu/float64(maxIter), hint)
}

// shade maps an escape fraction in [0, 1] to a colour carrying the worker tint
// in the red channel.
func shade(q float64, hint uint8) raster.RGB {
	if q < 0 || math.IsNaN(q) {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	t := math.Pow(q, 0.25)
	return raster.RGB{
		hint,
		uint8(255 * t),
		uint8(128 + 127*t),
	}
}
