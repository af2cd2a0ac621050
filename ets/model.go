package ets

import (
	"errors"
	"time"
)

var ErrNoOptionsInModel = errors.New("no options set in model")

// Model is the serializable representation of a fitted ETS model. It carries
// everything needed to resume forecasting without refitting.
type Model struct {
	Options *Options `json:"options"`

	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
	Phi   float64 `json:"phi"`

	State        State         `json:"state"`
	Sigma2       float64       `json:"sigma2"`
	NumObserved  int           `json:"num_observed"`
	TrainEndTime time.Time     `json:"train_end_time"`
	Interval     time.Duration `json:"interval"`
}

// Model returns a serializable snapshot of the fitted model.
func (e *ETS) Model() (Model, error) {
	if e == nil {
		return Model{}, ErrUninitializedETS
	}
	if !e.trained {
		return Model{}, ErrUntrainedETS
	}
	// snapshot options with the resolved parameters so the model marshals
	// without NaN placeholders
	opt := *e.opt
	opt.Alpha = e.alpha
	opt.Beta = e.beta
	opt.Gamma = e.gamma
	opt.Phi = e.phi
	if !opt.Damped {
		opt.Phi = 1.0
	}
	return Model{
		Options:      &opt,
		Alpha:        e.alpha,
		Beta:         e.beta,
		Gamma:        e.gamma,
		Phi:          e.phi,
		State:        e.state.copy(),
		Sigma2:       e.sigma2,
		NumObserved:  e.nobs,
		TrainEndTime: e.trainEndTime,
		Interval:     e.interval,
	}, nil
}

// NewFromModel creates an ETS instance from a previously serialized model.
// The instance can forecast immediately without retraining.
func NewFromModel(model Model) (*ETS, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	if err := model.Options.Validate(); err != nil {
		return nil, err
	}
	return &ETS{
		opt:          model.Options,
		alpha:        model.Alpha,
		beta:         model.Beta,
		gamma:        model.Gamma,
		phi:          model.Phi,
		state:        model.State.copy(),
		sigma2:       model.Sigma2,
		nobs:         model.NumObserved,
		trainEndTime: model.TrainEndTime,
		interval:     model.Interval,
		trained:      true,
	}, nil
}
