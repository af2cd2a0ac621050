package ets

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type params struct {
	alpha float64
	beta  float64
	gamma float64
	phi   float64
}

type trajectory struct {
	initial   State
	final     State
	levels    []float64
	trends    []float64
	fitted    []float64
	residuals []float64
	sse       float64
}

// initialState seeds the recursion. Without seasonality the level starts at
// the first observation. With seasonality the level is the first period mean
// and the seasonal states are first period deviations from it.
func initialState(y []float64, opt *Options) State {
	s := State{}
	if opt.Seasonal == ComponentNone {
		s.Level = y[0]
		switch opt.Trend {
		case ComponentAdditive:
			s.Trend = y[1] - y[0]
		case ComponentMultiplicative:
			s.Trend = 1.0
			if y[0] != 0 {
				s.Trend = y[1] / y[0]
			}
		}
		return s
	}

	m := opt.Period
	mean1 := stat.Mean(y[:m], nil)
	mean2 := stat.Mean(y[m:2*m], nil)
	s.Level = mean1
	switch opt.Trend {
	case ComponentAdditive:
		s.Trend = (mean2 - mean1) / float64(m)
	case ComponentMultiplicative:
		s.Trend = 1.0
		if mean1 > 0 && mean2 > 0 {
			s.Trend = math.Pow(mean2/mean1, 1.0/float64(m))
		}
	}

	s.Seasonal = make([]float64, m)
	for i := 0; i < m; i++ {
		if opt.Seasonal == ComponentMultiplicative {
			s.Seasonal[i] = y[i] / mean1
			continue
		}
		s.Seasonal[i] = y[i] - mean1
	}
	return s
}

// trendBase projects the prior level and trend one step ahead.
func trendBase(level, trend, phi float64, trendType ComponentType) float64 {
	switch trendType {
	case ComponentAdditive:
		return level + phi*trend
	case ComponentMultiplicative:
		return level * math.Pow(trend, phi)
	}
	return level
}

// smooth runs the state recursion over the training values producing the
// state trajectory, fitted values, and residuals.
func smooth(y []float64, opt *Options, p params) trajectory {
	n := len(y)
	state := initialState(y, opt)
	initial := state.copy()

	phi := p.phi
	if !opt.Damped {
		phi = 1.0
	}

	levels := make([]float64, n)
	trends := make([]float64, n)
	fitted := make([]float64, n)
	residuals := make([]float64, n)

	start := 0
	if opt.Seasonal == ComponentNone {
		// the initial level consumes the first observation
		start = 1
		levels[0] = state.Level
		trends[0] = state.Trend
		fitted[0] = y[0]
		residuals[0] = 0.0
	}

	var sse float64
	for t := start; t < n; t++ {
		base := trendBase(state.Level, state.Trend, phi, opt.Trend)

		var phase int
		yAdj := y[t]
		yHat := base
		if opt.Seasonal != ComponentNone {
			phase = t % opt.Period
			switch opt.Seasonal {
			case ComponentAdditive:
				yHat = base + state.Seasonal[phase]
				yAdj = y[t] - state.Seasonal[phase]
			case ComponentMultiplicative:
				yHat = base * state.Seasonal[phase]
				yAdj = y[t] / state.Seasonal[phase]
			}
		}

		fitted[t] = yHat
		residuals[t] = y[t] - yHat
		sse += residuals[t] * residuals[t]

		levelPrev := state.Level
		state.Level = p.alpha*yAdj + (1-p.alpha)*base

		switch opt.Trend {
		case ComponentAdditive:
			state.Trend = p.beta*(state.Level-levelPrev) + (1-p.beta)*phi*state.Trend
		case ComponentMultiplicative:
			if levelPrev != 0 {
				state.Trend = p.beta*(state.Level/levelPrev) + (1-p.beta)*math.Pow(state.Trend, phi)
			}
		}

		switch opt.Seasonal {
		case ComponentAdditive:
			state.Seasonal[phase] = p.gamma*(y[t]-state.Level) + (1-p.gamma)*state.Seasonal[phase]
		case ComponentMultiplicative:
			if state.Level != 0 {
				state.Seasonal[phase] = p.gamma*(y[t]/state.Level) + (1-p.gamma)*state.Seasonal[phase]
			}
		}

		levels[t] = state.Level
		trends[t] = state.Trend
	}

	return trajectory{
		initial:   initial,
		final:     state,
		levels:    levels,
		trends:    trends,
		fitted:    fitted,
		residuals: residuals,
		sse:       sse,
	}
}
