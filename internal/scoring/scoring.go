// Package scoring holds the deterministic multi-modal scoring core: fixed
// thresholds and weighted formulas mapping session metrics to 0-10 scores.
// Everything in this package and its subpackages is pure computation; media
// decoding, model inference and persistence live behind ports.
package scoring

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds to one decimal place, the precision of every surfaced score.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Std returns the population standard deviation, or 0 for an empty slice.
func Std(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := Mean(vs)
	sum := 0.0
	for _, v := range vs {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vs)))
}
