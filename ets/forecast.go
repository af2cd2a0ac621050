package ets

import (
	"fmt"
	"math"
	"time"
)

// Forecast holds point forecasts and forecast error variances for horizons
// 1..h. Produced once by a fitted model and never mutated.
type Forecast struct {
	T        []time.Time `json:"time,omitempty"`
	Point    []float64   `json:"point"`
	Variance []float64   `json:"variance"`
}

// phiSum returns phi + phi^2 + ... + phi^h, the damped trend contribution at
// horizon h. With phi of 1 this reduces to h.
func phiSum(phi float64, h int) float64 {
	if phi == 1.0 {
		return float64(h)
	}
	return phi * (1 - math.Pow(phi, float64(h))) / (1 - phi)
}

// Predict projects the final state forward for horizons 1..h.
func (e *ETS) Predict(h int) (*Forecast, error) {
	if e == nil {
		return nil, ErrUninitializedETS
	}
	if !e.trained {
		return nil, ErrUntrainedETS
	}
	if h < 1 {
		return nil, fmt.Errorf("horizon of %d, %w", h, ErrInvalidHorizon)
	}

	phi := e.phi
	if !e.opt.Damped {
		phi = 1.0
	}

	point := make([]float64, h)
	for j := 0; j < h; j++ {
		var base float64
		switch e.opt.Trend {
		case ComponentAdditive:
			base = e.state.Level + phiSum(phi, j+1)*e.state.Trend
		case ComponentMultiplicative:
			base = e.state.Level * math.Pow(e.state.Trend, phiSum(phi, j+1))
		default:
			base = e.state.Level
		}

		switch e.opt.Seasonal {
		case ComponentAdditive:
			base += e.state.Seasonal[(e.nobs+j)%e.opt.Period]
		case ComponentMultiplicative:
			base *= e.state.Seasonal[(e.nobs+j)%e.opt.Period]
		}
		point[j] = base
	}

	fc := &Forecast{
		Point:    point,
		Variance: e.forecastVariance(h, phi),
	}
	if e.interval > 0 {
		fc.T = make([]time.Time, 0, h)
		for j := 1; j <= h; j++ {
			fc.T = append(fc.T, e.trainEndTime.Add(time.Duration(j)*e.interval))
		}
	}
	return fc, nil
}

// forecastVariance accumulates the class-1 forecast error variance
// sigma2 * (1 + sum c_j^2) for additive component models, where
// c_j = alpha + alpha*beta*phiSum(j) + gamma*(1-alpha) at seasonal lags.
// Multiplicative components fall back to linear variance growth.
func (e *ETS) forecastVariance(h int, phi float64) []float64 {
	variance := make([]float64, h)

	additive := e.opt.Trend != ComponentMultiplicative && e.opt.Seasonal != ComponentMultiplicative
	if !additive {
		for j := 0; j < h; j++ {
			variance[j] = e.sigma2 * float64(j+1)
		}
		return variance
	}

	var cSumSq float64
	for j := 0; j < h; j++ {
		variance[j] = e.sigma2 * (1 + cSumSq)

		c := e.alpha
		if e.opt.Trend == ComponentAdditive {
			c += e.alpha * e.beta * phiSum(phi, j+1)
		}
		if e.opt.Seasonal != ComponentNone && (j+1)%e.opt.Period == 0 {
			c += e.gamma * (1 - e.alpha)
		}
		cSumSq += c * c
	}
	return variance
}
