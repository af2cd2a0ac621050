// Package statforecast fits univariate time series forecasting models and
// generates point forecasts with prediction intervals. Exponential smoothing
// and ARIMA are available directly or through automatic selection by
// corrected AIC.
package statforecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/forecastlab/go-statforecast/arima"
	"github.com/forecastlab/go-statforecast/ets"
	"github.com/forecastlab/go-statforecast/score"
	"github.com/forecastlab/go-statforecast/stats"
	"github.com/forecastlab/go-statforecast/timedataset"
)

var (
	ErrUnknownMethod       = errors.New("unknown forecast method")
	ErrUntrainedForecaster = errors.New("forecaster has not been trained yet")
	ErrNoHoldoutData       = errors.New("no holdout data to evaluate")
)

// Forecaster fits a forecast model over a univariate series and generates
// forecasts with prediction intervals.
type Forecaster struct {
	opt *Options

	method     Method
	etsModel   *ets.ETS
	arimaModel *arima.ARIMA

	fitTrainingData *timedataset.TimeDataset
	fitSeries       *timedataset.TimeDataset
	trained         bool
}

// New creates a new instance of a Forecaster using the provided options. If
// no options are provided a default is used.
func New(opt *Options) (*Forecaster, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	switch opt.Method {
	case MethodETS, MethodARIMA, MethodAuto:
	case "":
		opt.Method = MethodAuto
	default:
		return nil, fmt.Errorf("method %q, %w", opt.Method, ErrUnknownMethod)
	}
	if len(opt.ConfidenceLevels) == 0 {
		opt.ConfidenceLevels = []float64{0.80, 0.95}
	}
	return &Forecaster{opt: opt}, nil
}

// Fit validates and cleans the input series then fits the configured model.
// The automatic method fits both families and keeps the lower corrected AIC.
func (f *Forecaster) Fit(t []time.Time, y []float64) error {
	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	if interval, ierr := td.InferInterval(); ierr == nil {
		if reg, rerr := td.Regularize(interval); rerr == nil {
			td = reg
		}
	}
	td, err = td.Fill(f.opt.FillPolicy)
	if err != nil {
		return err
	}
	f.fitTrainingData = td.Copy()

	td, err = f.removeOutliers(td)
	if err != nil {
		return err
	}
	f.fitSeries = td

	switch f.opt.Method {
	case MethodETS:
		return f.fitETS(td)
	case MethodARIMA:
		return f.fitARIMA(td)
	case MethodAuto:
		return f.fitAuto(td)
	}
	return fmt.Errorf("method %q, %w", f.opt.Method, ErrUnknownMethod)
}

// removeOutliers runs up to NumPasses fit/detect cycles replacing flagged
// points by linear interpolation. Detection operates on the residuals of a
// preliminary fit so trend and seasonality do not mask level shifts.
func (f *Forecaster) removeOutliers(td *timedataset.TimeDataset) (*timedataset.TimeDataset, error) {
	if f.opt.OutlierOptions == nil {
		return td, nil
	}
	oo := f.opt.OutlierOptions

	curr := td.Copy()
	for pass := 0; pass < oo.NumPasses; pass++ {
		model, err := ets.New(nil)
		if err != nil {
			return nil, err
		}
		if err := model.Fit(curr.T, curr.Y); err != nil {
			// too little data for a preliminary fit, skip cleaning
			return td, nil
		}

		outlierIdxs := stats.DetectOutliers(
			model.Residuals(),
			oo.LowerPercentile,
			oo.UpperPercentile,
			oo.TukeyFactor,
		)
		if len(outlierIdxs) == 0 {
			break
		}

		for _, idx := range outlierIdxs {
			if idx >= 0 && idx < curr.Len() {
				curr.Y[idx] = math.NaN()
			}
		}
		curr = curr.Interpolate()
	}
	return curr, nil
}

func (f *Forecaster) fitETS(td *timedataset.TimeDataset) error {
	model, err := ets.New(f.opt.ETS)
	if err != nil {
		return fmt.Errorf("unable to initialize ets model, %w", err)
	}
	if err := model.Fit(td.T, td.Y); err != nil {
		return fmt.Errorf("unable to fit ets model, %w", err)
	}
	f.etsModel = model
	f.method = MethodETS
	f.trained = true
	return nil
}

func (f *Forecaster) fitARIMA(td *timedataset.TimeDataset) error {
	if f.opt.ARIMA == nil && f.opt.Auto != nil {
		model, err := arima.AutoFit(td.T, td.Y, f.opt.Auto)
		if err != nil {
			return fmt.Errorf("unable to select arima order, %w", err)
		}
		f.arimaModel = model
		f.method = MethodARIMA
		f.trained = true
		return nil
	}

	model, err := arima.New(f.opt.ARIMA)
	if err != nil {
		return fmt.Errorf("unable to initialize arima model, %w", err)
	}
	if err := model.Fit(td.T, td.Y); err != nil {
		return fmt.Errorf("unable to fit arima model, %w", err)
	}
	f.arimaModel = model
	f.method = MethodARIMA
	f.trained = true
	return nil
}

// fitAuto fits both families and keeps the one with the lower corrected AIC.
// A family that fails to fit is skipped.
func (f *Forecaster) fitAuto(td *timedataset.TimeDataset) error {
	etsAICc := math.Inf(1)
	etsModel, err := ets.New(f.opt.ETS)
	if err == nil {
		if err := etsModel.Fit(td.T, td.Y); err == nil {
			etsAICc = etsModel.AICc()
		} else {
			etsModel = nil
		}
	}

	arimaAICc := math.Inf(1)
	var arimaModel *arima.ARIMA
	if f.opt.ARIMA != nil {
		arimaModel, err = arima.New(f.opt.ARIMA)
		if err == nil {
			if err := arimaModel.Fit(td.T, td.Y); err != nil {
				arimaModel = nil
			}
		}
	} else {
		arimaModel, _ = arima.AutoFit(td.T, td.Y, f.opt.Auto)
	}
	if arimaModel != nil {
		arimaAICc = arimaModel.AICc()
	}

	switch {
	case etsModel != nil && etsAICc <= arimaAICc:
		f.etsModel = etsModel
		f.method = MethodETS
	case arimaModel != nil:
		f.arimaModel = arimaModel
		f.method = MethodARIMA
	default:
		return fmt.Errorf("no model family could be fit, %w", ets.ErrInsufficientData)
	}
	f.trained = true
	return nil
}

// Method returns the model family in use after fitting. For the automatic
// method this is the family that won selection.
func (f *Forecaster) Method() Method {
	return f.method
}

// Forecast generates point forecasts and prediction intervals for the next
// h steps beyond the training data.
func (f *Forecaster) Forecast(h int) (*Results, error) {
	if !f.trained {
		return nil, ErrUntrainedForecaster
	}

	switch f.method {
	case MethodETS:
		fc, err := f.etsModel.Predict(h)
		if err != nil {
			return nil, fmt.Errorf("unable to predict with ets model, %w", err)
		}
		return newResults(fc.T, fc.Point, fc.Variance, f.opt.ConfidenceLevels), nil
	case MethodARIMA:
		fc, err := f.arimaModel.Predict(h)
		if err != nil {
			return nil, fmt.Errorf("unable to predict with arima model, %w", err)
		}
		return newResults(fc.T, fc.Point, fc.Variance, f.opt.ConfidenceLevels), nil
	}
	return nil, fmt.Errorf("method %q, %w", f.method, ErrUnknownMethod)
}

func (f *Forecaster) modelFitted() []float64 {
	switch f.method {
	case MethodETS:
		return f.etsModel.FittedValues()
	case MethodARIMA:
		return f.arimaModel.FittedValues()
	}
	return nil
}

// FittedValues returns the one-step in-sample predictions on the original
// scale, one per training timestamp. The models drop NaN markers before
// fitting so their values are mapped back to the full training grid with NaN
// at the slots the model never saw.
func (f *Forecaster) FittedValues() []float64 {
	if !f.trained || f.fitSeries == nil {
		return nil
	}
	fitted := f.modelFitted()

	out := make([]float64, f.fitSeries.Len())
	var j int
	for i, v := range f.fitSeries.Y {
		if math.IsNaN(v) || j >= len(fitted) {
			out[i] = math.NaN()
			continue
		}
		out[i] = fitted[j]
		j++
	}
	return out
}

// Residuals returns the difference between the training data and the fitted
// values, one per training timestamp. Timestamps without an observation or a
// fitted value carry NaN.
func (f *Forecaster) Residuals() []float64 {
	if !f.trained || f.fitTrainingData == nil {
		return nil
	}
	fitted := f.FittedValues()
	y := f.fitTrainingData.Y

	n := len(fitted)
	if len(y) < n {
		n = len(y)
	}
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted[i]
	}
	return residuals
}

// Scores computes the in-sample accuracy summary of the fitted values
// against the training data. Timestamps without an observation or a fitted
// value are skipped by the metrics.
func (f *Forecaster) Scores() (*score.Summary, error) {
	if !f.trained || f.fitTrainingData == nil {
		return nil, ErrUntrainedForecaster
	}
	fitted := f.FittedValues()
	y := f.fitTrainingData.Y

	n := len(fitted)
	if len(y) < n {
		n = len(y)
	}
	return score.NewSummary(fitted[:n], y[:n], y[:n])
}

// Evaluate forecasts over the holdout timestamps and scores the result
// against the holdout values. MASE and RMSSE scale by the training data.
func (f *Forecaster) Evaluate(t []time.Time, y []float64) (*score.Summary, error) {
	if !f.trained {
		return nil, ErrUntrainedForecaster
	}
	if len(t) == 0 || len(y) == 0 {
		return nil, ErrNoHoldoutData
	}
	if len(t) != len(y) {
		return nil, timedataset.ErrDatasetLenMismatch
	}

	res, err := f.Forecast(len(t))
	if err != nil {
		return nil, err
	}
	return score.NewSummary(res.Forecast, y, f.fitTrainingData.Y)
}

// TrainingData returns the cleaned training data used to fit the model.
func (f *Forecaster) TrainingData() *timedataset.TimeDataset {
	return f.fitTrainingData
}
