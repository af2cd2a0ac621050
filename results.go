package statforecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Interval is a symmetric prediction interval at a single coverage level.
type Interval struct {
	Level float64   `json:"level"`
	Upper []float64 `json:"upper"`
	Lower []float64 `json:"lower"`
}

// Results holds the point forecast along with prediction intervals at each
// requested coverage level.
type Results struct {
	T         []time.Time `json:"time,omitempty"`
	Forecast  []float64   `json:"forecast"`
	Variance  []float64   `json:"variance"`
	Intervals []Interval  `json:"intervals,omitempty"`
}

// newResults assembles intervals from the point forecast and its variance
// using normal quantiles at each coverage level.
func newResults(t []time.Time, point, variance []float64, levels []float64) *Results {
	r := &Results{
		T:        t,
		Forecast: point,
		Variance: variance,
	}

	norm := distuv.Normal{Mu: 0, Sigma: 1}
	for _, level := range levels {
		if level <= 0 || level >= 1 {
			continue
		}
		z := norm.Quantile(0.5 + level/2)

		upper := make([]float64, len(point))
		lower := make([]float64, len(point))
		for i := range point {
			sd := 0.0
			if i < len(variance) && variance[i] > 0 {
				sd = z * math.Sqrt(variance[i])
			}
			upper[i] = point[i] + sd
			lower[i] = point[i] - sd
		}
		r.Intervals = append(r.Intervals, Interval{Level: level, Upper: upper, Lower: lower})
	}
	return r
}

// Interval returns the interval at the given coverage level if present.
func (r *Results) Interval(level float64) (Interval, bool) {
	for _, iv := range r.Intervals {
		if iv.Level == level {
			return iv, true
		}
	}
	return Interval{}, false
}
