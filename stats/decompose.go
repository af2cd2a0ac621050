package stats

import (
	"math"
)

// Decomposition holds the additive classical decomposition of a series into
// trend, seasonal, and residual components.
type Decomposition struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
}

// Decompose performs classical additive decomposition with a centered moving
// average trend. The series must span at least two full periods.
func Decompose(y []float64, period int) *Decomposition {
	n := len(y)
	if period < 2 || n < 2*period {
		return nil
	}

	trend := centeredMovingAverage(y, period)

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			detrended[i] = math.NaN()
			continue
		}
		detrended[i] = y[i] - trend[i]
	}

	// average the detrended values within each phase
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(detrended[i]) {
			continue
		}
		pattern[i%period] += detrended[i]
		counts[i%period]++
	}
	var patternMean float64
	for i := 0; i < period; i++ {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		patternMean += pattern[i]
	}
	patternMean /= float64(period)
	for i := range pattern {
		pattern[i] -= patternMean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
			continue
		}
		residual[i] = y[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
	}
}

// centeredMovingAverage computes a period-length moving average, using a
// 2x(m) average when the period is even so the window stays centered.
func centeredMovingAverage(y []float64, period int) []float64 {
	n := len(y)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	half := period / 2
	if period%2 == 1 {
		for i := half; i < n-half; i++ {
			var sum float64
			for j := i - half; j <= i+half; j++ {
				sum += y[j]
			}
			out[i] = sum / float64(period)
		}
		return out
	}

	for i := half; i < n-half; i++ {
		var sum float64
		sum += 0.5 * y[i-half]
		for j := i - half + 1; j < i+half; j++ {
			sum += y[j]
		}
		sum += 0.5 * y[i+half]
		out[i] = sum / float64(period)
	}
	return out
}
