package arima

import (
	"fmt"
	"time"
)

// Forecast holds point forecasts on the original scale and forecast error
// variances for horizons 1..h. Produced once by a fitted model and never
// mutated.
type Forecast struct {
	T        []time.Time `json:"time,omitempty"`
	Point    []float64   `json:"point"`
	Variance []float64   `json:"variance"`
}

// Predict applies the AR/MA recurrence forward from the last known state with
// zero future shocks and integrates the result back to the original scale.
// Forecast error variance accumulates through the psi weights and grows
// without bound once the model is differenced.
func (a *ARIMA) Predict(h int) (*Forecast, error) {
	if a == nil {
		return nil, ErrUninitializedARIMA
	}
	if !a.trained {
		return nil, ErrUntrainedARIMA
	}
	if h < 1 {
		return nil, fmt.Errorf("horizon of %d, %w", h, ErrInvalidHorizon)
	}

	n := len(a.diffed)
	extW := make([]float64, n+h)
	for i, v := range a.diffed {
		extW[i] = v - a.constant
	}
	extE := make([]float64, n+h)
	copy(extE, a.residuals)

	diffForecast := make([]float64, h)
	for j := 0; j < h; j++ {
		t := n + j
		pred := 0.0
		for i, lag := range a.arLags {
			if t-lag >= 0 {
				pred += a.arCoeffs[i] * extW[t-lag]
			}
		}
		for i, lag := range a.maLags {
			// future shocks have zero expectation
			if t-lag >= 0 && t-lag < n {
				pred += a.maCoeffs[i] * extE[t-lag]
			}
		}
		extW[t] = pred
		diffForecast[j] = pred + a.constant
	}

	point := a.differencer.IntegrateForecast(diffForecast)

	fc := &Forecast{
		Point:    point,
		Variance: a.forecastVariance(h),
	}
	if a.interval > 0 {
		fc.T = make([]time.Time, 0, h)
		for j := 1; j <= h; j++ {
			fc.T = append(fc.T, a.trainEndTime.Add(time.Duration(j)*a.interval))
		}
	}
	return fc, nil
}

// psiWeights expands the ARMA recurrence into its moving average
// representation up to h terms.
func (a *ARIMA) psiWeights(h int) []float64 {
	psi := make([]float64, h)
	psi[0] = 1.0

	maAt := make(map[int]float64, len(a.maLags))
	for i, lag := range a.maLags {
		maAt[lag] = a.maCoeffs[i]
	}

	for j := 1; j < h; j++ {
		psi[j] = maAt[j]
		for i, lag := range a.arLags {
			if j-lag >= 0 {
				psi[j] += a.arCoeffs[i] * psi[j-lag]
			}
		}
	}
	return psi
}

// forecastVariance computes sigma2 * cumulative squared psi weights on the
// original scale. Each differencing step cumulates the weights at its lag so
// an integrated model's variance keeps growing with the horizon.
func (a *ARIMA) forecastVariance(h int) []float64 {
	psi := a.psiWeights(h)

	o := a.opt.Order
	for i := 0; i < o.SD; i++ {
		cumulateAtLag(psi, o.M)
	}
	for i := 0; i < o.D; i++ {
		cumulateAtLag(psi, 1)
	}

	variance := make([]float64, h)
	var sumSq float64
	for j := 0; j < h; j++ {
		sumSq += psi[j] * psi[j]
		variance[j] = a.sigma2 * sumSq
	}
	return variance
}

func cumulateAtLag(psi []float64, lag int) {
	for j := lag; j < len(psi); j++ {
		psi[j] += psi[j-lag]
	}
}
