package stats

import (
	"math"

	"github.com/adhith25/ai-voice-detector/dsp/core"
)

// flatnessFloor is the lower bound applied to every spectral bin before the
// geometric/arithmetic means, keeping [Flatness] defined on silent frames.
const flatnessFloor = 1e-10

// Mean returns the arithmetic mean of x.
// Returns 0 for empty input.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	// Use Kahan summation for numerical stability.
	var sum, c float64
	for _, v := range x {
		y := v - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(x))
}

// MeanVariance returns the mean and the population variance of x in a single
// pass using Welford's online algorithm. The population form (sum of squared
// deviations divided by n, not n-1) is used throughout this module: the
// classifier calibration assumes it, and it keeps the variance of a constant
// signal exactly zero.
func MeanVariance(x []float64) (mean, variance float64) {
	n := len(x)
	if n == 0 {
		return 0, 0
	}

	var m2 float64

	for i, v := range x {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}

	return mean, m2 / float64(n)
}

// Variance returns the population variance of x.
// Returns 0 for empty or single-element input.
func Variance(x []float64) float64 {
	_, v := MeanVariance(x)

	return v
}

// RMS returns the root-mean-square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var sumSq float64
	for _, v := range x {
		sumSq += v * v
	}

	return math.Sqrt(sumSq / float64(len(x)))
}

// Peak returns the peak absolute amplitude of x.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	peak := math.Abs(x[0])
	for _, v := range x[1:] {
		a := math.Abs(v)
		if a > peak {
			peak = a
		}
	}

	return peak
}

// Flatness returns the spectral flatness (Wiener entropy) of a power
// spectrum, in the range 0..1:
//
//	flatness = exp(mean(log(s_i))) / mean(s_i)
//
// 0 indicates a tonal (peaked) spectrum, 1 a noise-like (flat) one. Every
// bin is floored at 1e-10 before both means, so an all-zero spectrum comes
// out flat rather than dividing by zero. The geometric mean cannot exceed
// the arithmetic mean, so the ratio is clamped at 1.
func Flatness(power []float64) float64 {
	n := len(power)
	if n == 0 {
		return 0
	}

	sumLin := 0.0
	sumLog := 0.0

	for _, v := range power {
		if v < flatnessFloor {
			v = flatnessFloor
		}

		sumLin += v
		sumLog += math.Log(v)
	}

	meanLin := sumLin / float64(n)
	geoMean := math.Exp(sumLog / float64(n))

	return core.Clamp(geoMean/meanLin, 0, 1)
}
