package score

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidQuantile = errors.New("quantile level must be in (0,1)")
	ErrInvalidLevel    = errors.New("confidence level must be in (0,1)")
	ErrQuantileGrid    = errors.New("quantile grid does not match forecasts")
)

// Pinball computes the mean quantile loss at level tau for the given quantile
// forecasts against the actuals.
func Pinball(quantileForecast, actual []float64, tau float64) (float64, error) {
	if tau <= 0 || tau >= 1 {
		return 0, fmt.Errorf("tau of %f, %w", tau, ErrInvalidQuantile)
	}
	if err := validatePair(quantileForecast, actual); err != nil {
		return 0, err
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(quantileForecast[i]) {
			continue
		}
		diff := actual[i] - quantileForecast[i]
		if diff >= 0 {
			sum += tau * diff
		} else {
			sum += (tau - 1) * diff
		}
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// Winkler computes the mean interval score at the given confidence level. An
// observation inside the interval, boundary included, scores the bare
// interval width; excursions add a 2/alpha penalty on the distance outside.
func Winkler(lower, upper, actual []float64, level float64) (float64, error) {
	if level <= 0 || level >= 1 {
		return 0, fmt.Errorf("level of %f, %w", level, ErrInvalidLevel)
	}
	if err := validatePair(lower, actual); err != nil {
		return 0, err
	}
	if err := validatePair(upper, actual); err != nil {
		return 0, err
	}

	alpha := 1 - level
	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(lower[i]) || math.IsNaN(upper[i]) {
			continue
		}
		s := upper[i] - lower[i]
		if actual[i] < lower[i] {
			s += 2.0 / alpha * (lower[i] - actual[i])
		} else if actual[i] > upper[i] {
			s += 2.0 / alpha * (actual[i] - upper[i])
		}
		sum += s
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// CRPS approximates the continuous ranked probability score by averaging
// pinball losses over the supplied quantile grid. quantileForecasts[i] holds
// the forecasts at level taus[i] for every horizon.
func CRPS(taus []float64, quantileForecasts [][]float64, actual []float64) (float64, error) {
	if len(taus) == 0 || len(taus) != len(quantileForecasts) {
		return 0, fmt.Errorf("%d levels with %d forecast rows, %w", len(taus), len(quantileForecasts), ErrQuantileGrid)
	}

	var sum float64
	var cnt int
	for i, tau := range taus {
		pb, err := Pinball(quantileForecasts[i], actual, tau)
		if err != nil {
			return 0, fmt.Errorf("unable to compute pinball loss at tau %f, %w", tau, err)
		}
		if math.IsNaN(pb) {
			continue
		}
		sum += pb
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	// expectation of 2x the quantile loss over uniform tau
	return 2.0 * sum / float64(cnt), nil
}
