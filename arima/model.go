package arima

import (
	"errors"
	"time"

	"github.com/forecastlab/go-statforecast/timedataset"
)

var ErrNoOptionsInModel = errors.New("no options set in model")

// Model is the serializable representation of a fitted ARIMA model. The
// differenced series and residual tails carry just enough history to resume
// the forecast recurrence.
type Model struct {
	Options *Options `json:"options"`

	ARCoeffs []float64 `json:"ar_coefficients"`
	MACoeffs []float64 `json:"ma_coefficients"`
	Constant float64   `json:"constant"`
	Sigma2   float64   `json:"sigma2"`

	DiffedTail   []float64              `json:"diffed_tail"`
	ResidualTail []float64              `json:"residual_tail"`
	DiffSteps    []timedataset.DiffStep `json:"diff_steps"`

	NumObserved  int           `json:"num_observed"`
	SSE          float64       `json:"sse"`
	TrainEndTime time.Time     `json:"train_end_time"`
	Interval     time.Duration `json:"interval"`
}

// Model returns a serializable snapshot of the fitted model.
func (a *ARIMA) Model() (Model, error) {
	if a == nil {
		return Model{}, ErrUninitializedARIMA
	}
	if !a.trained {
		return Model{}, ErrUntrainedARIMA
	}

	tail := a.maxLag()
	if tail > len(a.diffed) {
		tail = len(a.diffed)
	}
	diffedTail := append([]float64(nil), a.diffed[len(a.diffed)-tail:]...)
	residualTail := append([]float64(nil), a.residuals[len(a.residuals)-tail:]...)

	return Model{
		Options:      a.opt,
		ARCoeffs:     append([]float64(nil), a.arCoeffs...),
		MACoeffs:     append([]float64(nil), a.maCoeffs...),
		Constant:     a.constant,
		Sigma2:       a.sigma2,
		DiffedTail:   diffedTail,
		ResidualTail: residualTail,
		DiffSteps:    a.differencer.Snapshot(),
		NumObserved:  a.nobs,
		SSE:          a.sse,
		TrainEndTime: a.trainEndTime,
		Interval:     a.interval,
	}, nil
}

// NewFromModel creates an ARIMA instance from a previously serialized model.
// The instance can forecast immediately without retraining.
func NewFromModel(model Model) (*ARIMA, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	if err := model.Options.Order.Validate(model.Options.Drift); err != nil {
		return nil, err
	}

	arLags, maLags := lagSets(model.Options.Order)
	return &ARIMA{
		opt:          model.Options,
		arLags:       arLags,
		maLags:       maLags,
		arCoeffs:     append([]float64(nil), model.ARCoeffs...),
		maCoeffs:     append([]float64(nil), model.MACoeffs...),
		constant:     model.Constant,
		sigma2:       model.Sigma2,
		diffed:       append([]float64(nil), model.DiffedTail...),
		residuals:    append([]float64(nil), model.ResidualTail...),
		differencer:  timedataset.NewDifferencerFromSnapshot(model.DiffSteps),
		nobs:         model.NumObserved,
		sse:          model.SSE,
		trainEndTime: model.TrainEndTime,
		interval:     model.Interval,
		trained:      true,
	}, nil
}
