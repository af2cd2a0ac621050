// Package ets implements exponential smoothing state space forecasting with
// optional damped trend and additive or multiplicative components. Smoothing
// parameters are either supplied or estimated by minimizing the sum of
// squared one-step errors.
package ets

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/forecastlab/go-statforecast/timedataset"
)

var (
	ErrUninitializedETS   = errors.New("uninitialized ets model")
	ErrUntrainedETS       = errors.New("ets model has not been trained yet")
	ErrInsufficientData   = errors.New("insufficient training data for requested components")
	ErrInvalidComponent   = errors.New("invalid component type")
	ErrInvalidPeriod      = errors.New("seasonal period must be at least 2")
	ErrSmoothingParamOOB  = errors.New("smoothing parameter outside [0,1]")
	ErrDampingParamOOB    = errors.New("damping parameter outside (0,1)")
	ErrNonPositiveSeries  = errors.New("multiplicative components require strictly positive observations")
	ErrSeasonalGap        = errors.New("seasonal components require a series without interior missing values")
	ErrInvalidHorizon     = errors.New("forecast horizon must be at least 1")
	ErrNoParamsToEstimate = errors.New("no free parameters to estimate")
)

// ComponentType selects how a model component enters the recursion.
type ComponentType string

const (
	ComponentNone           ComponentType = "none"
	ComponentAdditive       ComponentType = "additive"
	ComponentMultiplicative ComponentType = "multiplicative"
)

func (c ComponentType) valid(allowNone bool) bool {
	switch c {
	case ComponentAdditive, ComponentMultiplicative:
		return true
	case ComponentNone:
		return allowNone
	}
	return false
}

// Options specifies the model form and smoothing parameters. Parameters left
// as NaN are estimated from the training data by SSE minimization.
type Options struct {
	Error    ComponentType `json:"error"`
	Trend    ComponentType `json:"trend"`
	Seasonal ComponentType `json:"seasonal"`
	Period   int           `json:"period"`
	Damped   bool          `json:"damped"`

	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
	Phi   float64 `json:"phi"`
}

// NewDefaultOptions returns a trendless non-seasonal additive-error model
// with all parameters estimated.
func NewDefaultOptions() *Options {
	return &Options{
		Error:    ComponentAdditive,
		Trend:    ComponentNone,
		Seasonal: ComponentNone,
		Alpha:    math.NaN(),
		Beta:     math.NaN(),
		Gamma:    math.NaN(),
		Phi:      math.NaN(),
	}
}

// Validate checks component and parameter domains.
func (o *Options) Validate() error {
	if o == nil {
		return ErrUninitializedETS
	}
	if !o.Error.valid(false) {
		return fmt.Errorf("error component %q, %w", o.Error, ErrInvalidComponent)
	}
	if !o.Trend.valid(true) {
		return fmt.Errorf("trend component %q, %w", o.Trend, ErrInvalidComponent)
	}
	if !o.Seasonal.valid(true) {
		return fmt.Errorf("seasonal component %q, %w", o.Seasonal, ErrInvalidComponent)
	}
	if o.Seasonal != ComponentNone && o.Period < 2 {
		return fmt.Errorf("period of %d, %w", o.Period, ErrInvalidPeriod)
	}
	if o.Damped && o.Trend == ComponentNone {
		return fmt.Errorf("damping without a trend, %w", ErrInvalidComponent)
	}

	for name, val := range map[string]float64{"alpha": o.Alpha, "beta": o.Beta, "gamma": o.Gamma} {
		if !math.IsNaN(val) && (val < 0 || val > 1) {
			return fmt.Errorf("%s of %f, %w", name, val, ErrSmoothingParamOOB)
		}
	}
	if o.Damped && !math.IsNaN(o.Phi) && (o.Phi <= 0 || o.Phi >= 1) {
		return fmt.Errorf("phi of %f, %w", o.Phi, ErrDampingParamOOB)
	}
	return nil
}

// State holds the smoothing recursion state. It is mutated once per
// observation during fitting and read-only afterwards.
type State struct {
	Level    float64   `json:"level"`
	Trend    float64   `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
}

func (s State) copy() State {
	seasonal := make([]float64, len(s.Seasonal))
	copy(seasonal, s.Seasonal)
	return State{
		Level:    s.Level,
		Trend:    s.Trend,
		Seasonal: seasonal,
	}
}

// ETS represents a single exponential smoothing model.
type ETS struct {
	opt *Options

	// resolved smoothing parameters after estimation
	alpha float64
	beta  float64
	gamma float64
	phi   float64

	initial State
	state   State
	levels  []float64
	trends  []float64

	fitted    []float64
	residuals []float64
	sse       float64
	sigma2    float64
	nobs      int

	trainEndTime time.Time
	interval     time.Duration
	trained      bool
}

// hasInteriorGap reports whether a NaN marker sits between two observations.
// Leading and trailing markers trim away without disturbing phase alignment.
func hasInteriorGap(y []float64) bool {
	first, last := -1, -1
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	for i := first + 1; i < last; i++ {
		if math.IsNaN(y[i]) {
			return true
		}
	}
	return false
}

// New creates a new ETS instance with the given options. If none are provided
// a default is used.
func New(opt *Options) (*ETS, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	// the zero value of a component reads as absent
	if opt.Trend == "" {
		opt.Trend = ComponentNone
	}
	if opt.Seasonal == "" {
		opt.Seasonal = ComponentNone
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return &ETS{opt: opt}, nil
}

// Fit estimates any free smoothing parameters and runs the state recursion
// over the training data.
func (e *ETS) Fit(t []time.Time, y []float64) error {
	if e == nil {
		return ErrUninitializedETS
	}

	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	// trimming an interior marker would shift every later phase off the
	// calendar
	if e.opt.Seasonal != ComponentNone && hasInteriorGap(td.Y) {
		return ErrSeasonalGap
	}
	td, err = td.Trim()
	if err != nil {
		return err
	}

	if td.Len() < 2 {
		return fmt.Errorf("%d observations, %w", td.Len(), ErrInsufficientData)
	}
	if e.opt.Seasonal != ComponentNone && td.Len() < 2*e.opt.Period {
		return fmt.Errorf("%d observations with period %d, %w", td.Len(), e.opt.Period, ErrInsufficientData)
	}
	if e.opt.Seasonal == ComponentMultiplicative || e.opt.Trend == ComponentMultiplicative {
		for _, val := range td.Y {
			if val <= 0 {
				return ErrNonPositiveSeries
			}
		}
	}

	params, err := e.estimate(td.Y)
	if err != nil {
		return err
	}
	e.alpha, e.beta, e.gamma, e.phi = params.alpha, params.beta, params.gamma, params.phi

	traj := smooth(td.Y, e.opt, params)
	e.initial = traj.initial
	e.state = traj.final
	e.levels = traj.levels
	e.trends = traj.trends
	e.fitted = traj.fitted
	e.residuals = traj.residuals
	e.sse = traj.sse
	e.nobs = td.Len()
	e.sigma2 = traj.sse / float64(td.Len())

	e.trainEndTime = td.T[td.Len()-1]
	if interval, err := td.InferInterval(); err == nil {
		e.interval = interval
	}
	e.trained = true
	return nil
}

// Levels returns the level trajectory tracked during fitting, one entry per
// training observation.
func (e *ETS) Levels() []float64 {
	out := make([]float64, len(e.levels))
	copy(out, e.levels)
	return out
}

// FittedValues returns the one-step ahead fitted values from training.
func (e *ETS) FittedValues() []float64 {
	out := make([]float64, len(e.fitted))
	copy(out, e.fitted)
	return out
}

// Residuals returns observed minus fitted, one per training observation.
func (e *ETS) Residuals() []float64 {
	out := make([]float64, len(e.residuals))
	copy(out, e.residuals)
	return out
}

// State returns the final smoothing state after fitting.
func (e *ETS) State() State {
	return e.state.copy()
}

// SSE returns the training sum of squared one-step errors.
func (e *ETS) SSE() float64 {
	return e.sse
}

// Sigma2 returns the residual variance estimate.
func (e *ETS) Sigma2() float64 {
	return e.sigma2
}

// NumParams returns the number of smoothing parameters and initial states the
// fit consumed, used by information criteria.
func (e *ETS) NumParams() int {
	k := 1 // alpha
	if e.opt.Trend != ComponentNone {
		k += 2 // beta and initial trend
	}
	if e.opt.Damped {
		k++
	}
	if e.opt.Seasonal != ComponentNone {
		k += 1 + e.opt.Period // gamma and initial seasonal states
	}
	return k + 1 // initial level
}

// AICc computes the corrected Akaike information criterion on the SSE scale,
// T*ln(SSE/T) + 2(k+2) with the small sample correction.
func (e *ETS) AICc() float64 {
	if !e.trained || e.sse <= 0 {
		return math.Inf(1)
	}
	T := float64(e.nobs)
	k := float64(e.NumParams())
	aicc := T*math.Log(e.sse/T) + 2*(k+2)
	if T-k-3 > 0 {
		aicc += 2 * (k + 2) * (k + 3) / (T - k - 3)
	} else {
		return math.Inf(1)
	}
	return aicc
}
