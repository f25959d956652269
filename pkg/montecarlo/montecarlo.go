// Package montecarlo holds small estimators used to check sampling strategies
// outside the renderer
package montecarlo

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// ProgressInterval is how many inner-loop samples pass between progress reports
const ProgressInterval = 100

// PiEstimate is a running estimate of pi from points in [-1,1]²
type PiEstimate struct {
	Samples    int
	Regular    float64 // Uniform random points
	Stratified float64 // One jittered point per grid cell
}

// EstimatePi throws sqrtN² points uniformly and sqrtN² jittered onto a
// sqrtN×sqrtN grid, counting those inside the unit circle. progress, if not
// nil, receives the running estimate at the start of every ProgressInterval samples of each grid row.
func EstimatePi(sqrtN int, sampler core.Sampler, progress func(PiEstimate)) PiEstimate {
	if sqrtN <= 0 {
		return PiEstimate{}
	}

	inside, insideStratified := 0, 0
	estimate := func(total int) PiEstimate {
		return PiEstimate{
			Samples:    total,
			Regular:    4 * float64(inside) / float64(total),
			Stratified: 4 * float64(insideStratified) / float64(total),
		}
	}

	for i := 0; i < sqrtN; i++ {
		for j := 0; j < sqrtN; j++ {
			x := 2*sampler.Get1D() - 1
			y := 2*sampler.Get1D() - 1
			if x*x+y*y < 1 {
				inside++
			}

			x = 2*((float64(i)+sampler.Get1D())/float64(sqrtN)) - 1
			y = 2*((float64(j)+sampler.Get1D())/float64(sqrtN)) - 1
			if x*x+y*y < 1 {
				insideStratified++
			}

			if progress != nil && j%ProgressInterval == 0 {
				progress(estimate(i*sqrtN + j + 1))
			}
		}
	}
	return estimate(sqrtN * sqrtN)
}

// Integrate estimates ∫f by importance sampling: x = icd(u) for uniform u,
// averaging f(x)/pdf(x) over n draws. Draws of exactly 0 are skipped but
// still counted, so they contribute nothing to the average.
func Integrate(n int, sampler core.Sampler, icd, pdf, f func(float64) float64) float64 {
	if n <= 0 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		u := sampler.Get1D()
		if u == 0 {
			continue
		}
		x := icd(u)
		p := pdf(x)
		if p <= 0 {
			continue
		}
		sum += f(x) / p
	}
	return sum / float64(n)
}

// Square is f(x) = x²
func Square(x float64) float64 {
	return x * x
}

// SquareICD inverts the CDF x³/8 of SquarePDF on [0,2]
func SquareICD(u float64) float64 {
	return 2 * math.Cbrt(u)
}

// SquarePDF is the density 3x²/8 on [0,2], proportional to Square
func SquarePDF(x float64) float64 {
	return 3.0 / 8.0 * x * x
}

// UniformICD maps u onto [0,2]
func UniformICD(u float64) float64 {
	return 2 * u
}

// UniformPDF is the constant density 1/2 on [0,2]
func UniformPDF(x float64) float64 {
	return 0.5
}
