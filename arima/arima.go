// Package arima implements ARIMA forecasting with optional seasonal terms.
// Orders are either supplied or searched automatically by corrected AIC.
// Estimation uses conditional sum of squares seeded by a Hannan-Rissanen
// regression.
package arima

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/forecastlab/go-statforecast/stats"
	"github.com/forecastlab/go-statforecast/timedataset"
)

var (
	ErrUninitializedARIMA = errors.New("uninitialized arima model")
	ErrUntrainedARIMA     = errors.New("arima model has not been trained yet")
	ErrInsufficientData   = errors.New("insufficient training data for requested order")
	ErrNegativeOrder      = errors.New("model orders must be non-negative")
	ErrSeasonalPeriod     = errors.New("seasonal orders require a period of at least 2")
	ErrDriftWithHighDiff  = errors.New("drift with more than one difference models a quadratic trend")
	ErrInvalidHorizon     = errors.New("forecast horizon must be at least 1")
)

// minSlack is the number of observations required beyond what the order
// itself consumes.
const minSlack = 10

// Order holds the non-seasonal (p,d,q) and seasonal (P,D,Q,m) orders.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`

	SP int `json:"seasonal_p"`
	SD int `json:"seasonal_d"`
	SQ int `json:"seasonal_q"`
	M  int `json:"period"`
}

// NumParams returns the number of estimated coefficients excluding the
// constant.
func (o Order) NumParams() int {
	return o.P + o.Q + o.SP + o.SQ
}

func (o Order) seasonal() bool {
	return o.SP > 0 || o.SD > 0 || o.SQ > 0
}

// Validate checks order domains including the drift policy: a constant term
// combined with more than one total difference implies a quadratic long-term
// trend and is rejected.
func (o Order) Validate(drift bool) error {
	for _, v := range []int{o.P, o.D, o.Q, o.SP, o.SD, o.SQ} {
		if v < 0 {
			return ErrNegativeOrder
		}
	}
	if o.seasonal() && o.M < 2 {
		return fmt.Errorf("period of %d, %w", o.M, ErrSeasonalPeriod)
	}
	if drift && o.D+o.SD > 1 {
		return fmt.Errorf("drift with %d total differences, %w", o.D+o.SD, ErrDriftWithHighDiff)
	}
	return nil
}

// Options configures a single ARIMA fit.
type Options struct {
	Order Order `json:"order"`

	// Drift includes a constant term when the series has been differenced
	// once. An undifferenced model always carries a mean term.
	Drift bool `json:"drift"`
}

// NewDefaultOptions returns a non-seasonal ARIMA(1,1,1) without drift.
func NewDefaultOptions() *Options {
	return &Options{
		Order: Order{P: 1, D: 1, Q: 1},
	}
}

// ARIMA represents a single ARIMA model over a univariate series.
type ARIMA struct {
	opt *Options

	arLags   []int
	maLags   []int
	arCoeffs []float64
	maCoeffs []float64
	constant float64

	differencer *timedataset.Differencer
	diffed      []float64
	original    []float64

	fitted    []float64
	residuals []float64
	sse       float64
	sigma2    float64
	nobs      int

	trainEndTime time.Time
	interval     time.Duration
	trained      bool
}

// New creates a new ARIMA instance with the given options. If none are
// provided a default is used.
func New(opt *Options) (*ARIMA, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Order.Validate(opt.Drift); err != nil {
		return nil, err
	}
	return &ARIMA{opt: opt}, nil
}

// lagSets expands the order into additive AR and MA lag lists with seasonal
// terms at multiples of the period.
func lagSets(o Order) (arLags, maLags []int) {
	for i := 1; i <= o.P; i++ {
		arLags = append(arLags, i)
	}
	for i := 1; i <= o.SP; i++ {
		arLags = append(arLags, i*o.M)
	}
	for i := 1; i <= o.Q; i++ {
		maLags = append(maLags, i)
	}
	for i := 1; i <= o.SQ; i++ {
		maLags = append(maLags, i*o.M)
	}
	return arLags, maLags
}

// hasConstant reports whether the model carries a mean or drift term.
func (a *ARIMA) hasConstant() bool {
	totalD := a.opt.Order.D + a.opt.Order.SD
	if totalD == 0 {
		return true
	}
	return a.opt.Drift && totalD == 1
}

// Fit differences the series per the order and estimates the AR and MA
// coefficients by conditional sum of squares.
func (a *ARIMA) Fit(t []time.Time, y []float64) error {
	if a == nil {
		return ErrUninitializedARIMA
	}

	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	td, err = td.Trim()
	if err != nil {
		return err
	}

	o := a.opt.Order
	need := o.P + o.D + o.Q + (o.SP+o.SD+o.SQ)*o.M + minSlack
	if td.Len() < need {
		return fmt.Errorf("need at least %d observations, got %d, %w", need, td.Len(), ErrInsufficientData)
	}

	diffed, differencer, err := timedataset.Difference(td.Y, o.D, o.SD, o.M)
	if err != nil {
		return err
	}
	a.differencer = differencer
	a.diffed = diffed
	a.original = td.Y
	a.arLags, a.maLags = lagSets(o)

	if err := a.estimateCSS(); err != nil {
		return err
	}

	a.nobs = len(diffed)
	a.trainEndTime = td.T[td.Len()-1]
	if interval, err := td.InferInterval(); err == nil {
		a.interval = interval
	}
	a.trained = true
	return nil
}

// Residuals returns the one-step errors on the differenced scale.
func (a *ARIMA) Residuals() []float64 {
	out := make([]float64, len(a.residuals))
	copy(out, a.residuals)
	return out
}

// FittedValues returns the one-step fitted values on the original scale. The
// one-step error is the same on both scales since differencing only consumes
// actual history, so the fit is the observation minus its residual. Warmup
// points ahead of the differencing order are passed through.
func (a *ARIMA) FittedValues() []float64 {
	if !a.trained || len(a.original) == 0 {
		return nil
	}
	offset := a.differencer.Order()
	out := make([]float64, len(a.original))
	copy(out, a.original)
	for i, e := range a.residuals {
		out[i+offset] = a.original[i+offset] - e
	}
	return out
}

// Coefficients returns the fitted AR and MA coefficients keyed by lag.
func (a *ARIMA) Coefficients() (ar, ma map[int]float64) {
	ar = make(map[int]float64, len(a.arLags))
	ma = make(map[int]float64, len(a.maLags))
	for i, lag := range a.arLags {
		ar[lag] = a.arCoeffs[i]
	}
	for i, lag := range a.maLags {
		ma[lag] = a.maCoeffs[i]
	}
	return ar, ma
}

// Constant returns the fitted mean or drift term.
func (a *ARIMA) Constant() float64 {
	return a.constant
}

// SSE returns the conditional sum of squared one-step errors.
func (a *ARIMA) SSE() float64 {
	return a.sse
}

// Sigma2 returns the residual variance estimate.
func (a *ARIMA) Sigma2() float64 {
	return a.sigma2
}

// AICc computes the corrected Akaike information criterion on the SSE scale,
// T*ln(SSE/T) + 2(k+2) with the small sample correction.
func (a *ARIMA) AICc() float64 {
	if !a.trained || a.sse <= 0 {
		return math.Inf(1)
	}
	T := float64(a.nobs)
	k := float64(a.opt.Order.NumParams())
	if a.hasConstant() {
		k++
	}
	if T-k-3 <= 0 {
		return math.Inf(1)
	}
	return T*math.Log(a.sse/T) + 2*(k+2) + 2*(k+2)*(k+3)/(T-k-3)
}

// Summary carries the fitted coefficients and residual diagnostics.
type Summary struct {
	Order       Order                `json:"order"`
	ARCoeffs    []float64            `json:"ar_coefficients"`
	MACoeffs    []float64            `json:"ma_coefficients"`
	Constant    float64              `json:"constant"`
	Sigma2      float64              `json:"sigma2"`
	AICc        float64              `json:"aicc"`
	NumObserved int                  `json:"num_observed"`
	LjungBox    *stats.LjungBoxResult `json:"ljung_box,omitempty"`
}

// Summary returns the fitted model summary including a Ljung-Box residual
// autocorrelation check.
func (a *ARIMA) Summary() (*Summary, error) {
	if !a.trained {
		return nil, ErrUntrainedARIMA
	}

	lbLags := 10
	if a.opt.Order.seasonal() {
		lbLags = 2 * a.opt.Order.M
	}
	var lb *stats.LjungBoxResult
	if len(a.residuals) > lbLags {
		lb = stats.LjungBox(a.residuals, lbLags, a.opt.Order.NumParams())
	}

	return &Summary{
		Order:       a.opt.Order,
		ARCoeffs:    append([]float64(nil), a.arCoeffs...),
		MACoeffs:    append([]float64(nil), a.maCoeffs...),
		Constant:    a.constant,
		Sigma2:      a.sigma2,
		AICc:        a.AICc(),
		NumObserved: a.nobs,
		LjungBox:    lb,
	}, nil
}
