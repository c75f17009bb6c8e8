// Package extrema locates local extrema of per-point scalar signals. It is
// the shared detection substrate for every landmarking rule engine: strict
// relative extrema for bend peaks, plateau-tolerant extrema for the global
// coronal-coordinate search, Gaussian pre-smoothing for noisy signals, and
// saddle-point suppression for spurious max/min pairs.
package extrema

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Saddle-suppression thresholds: a max/min pair closer than SaddleGap indices
// with a value difference below SaddleDelta is numerical noise, not a bend.
const (
	SaddleGap   = 5
	SaddleDelta = 0.01
)

// Set holds the strict local maxima and minima of one signal. Both index
// lists are strictly increasing and disjoint.
type Set struct {
	Maxima []int
	Minima []int
}

// Detect returns the strict local maxima and minima of signal. Endpoints are
// never extrema.
func Detect(signal []float64) (maxima, minima []int) {
	maxima = relExtrema(signal, func(a, b float64) bool { return a > b })
	minima = relExtrema(signal, func(a, b float64) bool { return a < b })
	return maxima, minima
}

// DetectEqual returns plateau-tolerant extrema: indices whose value is >=
// (resp. <=) both neighbours. Used when a global extremum may sit on a flat
// stretch of the signal.
func DetectEqual(signal []float64) (maxima, minima []int) {
	maxima = relExtrema(signal, func(a, b float64) bool { return a >= b })
	minima = relExtrema(signal, func(a, b float64) bool { return a <= b })
	return maxima, minima
}

func relExtrema(signal []float64, cmp func(a, b float64) bool) []int {
	var out []int
	for i := 1; i < len(signal)-1; i++ {
		if cmp(signal[i], signal[i-1]) && cmp(signal[i], signal[i+1]) {
			out = append(out, i)
		}
	}
	return out
}

// DetectSet smooths signal with a Gaussian of the given sigma (skipped when
// sigma <= 0) and returns the strict extrema of the result.
func DetectSet(signal []float64, sigma float64) Set {
	if sigma > 0 {
		signal = Smooth(signal, sigma)
	}
	maxima, minima := Detect(signal)
	return Set{Maxima: maxima, Minima: minima}
}

// SuppressSaddles removes max/min pairs that are closer than maxGap indices
// with a value difference below maxDelta. Such pairs are saddle points left
// by noise rather than real bends. The receiver is not modified.
func (s Set) SuppressSaddles(signal []float64, maxGap int, maxDelta float64) Set {
	dropMax := make(map[int]bool)
	dropMin := make(map[int]bool)
	for _, i := range s.Minima {
		for _, j := range s.Maxima {
			di := i - j
			if di < 0 {
				di = -di
			}
			if di < maxGap && math.Abs(signal[i]-signal[j]) < maxDelta {
				dropMin[i] = true
				dropMax[j] = true
			}
		}
	}
	out := Set{}
	for _, j := range s.Maxima {
		if !dropMax[j] {
			out.Maxima = append(out.Maxima, j)
		}
	}
	for _, i := range s.Minima {
		if !dropMin[i] {
			out.Minima = append(out.Minima, i)
		}
	}
	return out
}

// Smooth applies a 1-D Gaussian filter with the given sigma, truncating the
// kernel at 4 sigma and reflecting the signal at its boundaries.
func Smooth(signal []float64, sigma float64) []float64 {
	if sigma <= 0 || len(signal) == 0 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out
	}
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}

	kernel := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	n := len(signal)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var acc float64
		for k := -radius; k <= radius; k++ {
			acc += kernel[k+radius] * signal[reflectIndex(i+k, n)]
		}
		out[i] = acc
	}
	return out
}

// reflectIndex maps an out-of-range index into [0, n) by mirroring at the
// edges ("reflect" boundary mode: d c b a | a b c d | d c b a).
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
