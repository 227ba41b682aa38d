// Package calc implements the e-commerce calculators. Every calculator is a
// pure function from an input record to a result record: no I/O, no state,
// identical inputs always produce identical outputs. Divisions with a
// possibly-zero denominator are guarded so results never carry NaN or Inf.
package calc

import "math"

// safeDiv returns num/den, or 0 when den is 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// finiteOr returns v unless it is NaN or infinite, in which case fallback.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// roundUpToMultiple rounds v up to the nearest multiple of step.
func roundUpToMultiple(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Ceil(v/step) * step
}
