package features

import (
	"math"
	"sort"
)

// mean calculates the arithmetic mean of values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev calculates sample standard deviation (n-1 denominator).
// Returns 0 with fewer than 2 samples.
func sampleStddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// percentile uses linear interpolation at index p*(n-1).
// sorted must be pre-sorted ASC. p is a fraction (0.99 = 99th percentile).
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// median calculates the 50th percentile of values (input order preserved).
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentile(sorted, 0.50)
}

// skewness calculates the sample skewness (adjusted Fisher-Pearson).
// Returns 0 with fewer than 3 samples or zero variance.
func skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	m := mean(values)
	s := sampleStddev(values)
	if s == 0 {
		return 0
	}
	sumCubed := 0.0
	for _, v := range values {
		d := (v - m) / s
		sumCubed += d * d * d
	}
	return n / ((n - 1) * (n - 2)) * sumCubed
}
