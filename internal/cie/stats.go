package cie

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrorStats summarizes round-trip errors over a set of samples.
type ErrorStats struct {
	Samples int
	Mean    float64
	StdDev  float64
	P95     float64
	Max     float64
}

// Summarize computes statistics over errs. errs is sorted in place.
// NaN entries are counted as infinitely bad.
func Summarize(errs []float64) ErrorStats {
	if len(errs) == 0 {
		return ErrorStats{}
	}
	for i, e := range errs {
		if math.IsNaN(e) {
			errs[i] = math.Inf(1)
		}
	}
	sort.Float64s(errs)
	mean, std := stat.MeanStdDev(errs, nil)
	if len(errs) == 1 {
		std = 0
	}
	return ErrorStats{
		Samples: len(errs),
		Mean:    mean,
		StdDev:  std,
		P95:     stat.Quantile(0.95, stat.Empirical, errs, nil),
		Max:     floats.Max(errs),
	}
}

// MaxAbsDiff returns the largest componentwise difference of a and b.
func MaxAbsDiff(a, b [3]float64) float64 {
	return floats.Distance(a[:], b[:], math.Inf(1))
}
