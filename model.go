package statforecast

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/forecastlab/go-statforecast/arima"
	"github.com/forecastlab/go-statforecast/ets"
)

var (
	ErrNoOptionsInModel = errors.New("no options set in model")
	ErrNoModelInModel   = errors.New("no fitted model in serialized form")
)

// Model is a serializable representation of the fit options and the winning
// model. It can initialize a new Forecaster for immediate predictions
// skipping the training step.
type Model struct {
	Options *Options     `json:"options"`
	Method  Method       `json:"method"`
	ETS     *ets.Model   `json:"ets_model,omitempty"`
	ARIMA   *arima.Model `json:"arima_model,omitempty"`
}

// Model generates a serializable representation of the fitted forecaster.
func (f *Forecaster) Model() (Model, error) {
	if !f.trained {
		return Model{}, ErrUntrainedForecaster
	}

	// unestimated smoothing parameters are NaN placeholders that do not
	// marshal, the ets snapshot already carries the resolved options
	opt := *f.opt
	opt.ETS = nil
	m := Model{
		Options: &opt,
		Method:  f.method,
	}
	switch f.method {
	case MethodETS:
		etsModel, err := f.etsModel.Model()
		if err != nil {
			return Model{}, fmt.Errorf("unable to fetch ets model, %w", err)
		}
		m.ETS = &etsModel
		opt.ETS = etsModel.Options
	case MethodARIMA:
		arimaModel, err := f.arimaModel.Model()
		if err != nil {
			return Model{}, fmt.Errorf("unable to fetch arima model, %w", err)
		}
		m.ARIMA = &arimaModel
	}
	return m, nil
}

// NewFromModel creates a new instance of Forecaster from a pre-existing
// model. This should be generated from a previous forecaster call to Model().
func NewFromModel(model Model) (*Forecaster, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}

	f := &Forecaster{
		opt:    model.Options,
		method: model.Method,
	}
	switch {
	case model.ETS != nil:
		etsModel, err := ets.NewFromModel(*model.ETS)
		if err != nil {
			return nil, fmt.Errorf("unable to load from ets model, %w", err)
		}
		f.etsModel = etsModel
		f.method = MethodETS
	case model.ARIMA != nil:
		arimaModel, err := arima.NewFromModel(*model.ARIMA)
		if err != nil {
			return nil, fmt.Errorf("unable to load from arima model, %w", err)
		}
		f.arimaModel = arimaModel
		f.method = MethodARIMA
	default:
		return nil, ErrNoModelInModel
	}
	f.trained = true
	return f, nil
}

// WriteJSON serializes the model to the writer.
func (m Model) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadModelJSON deserializes a model previously written with WriteJSON.
func ReadModelJSON(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, fmt.Errorf("unable to decode model, %w", err)
	}
	return m, nil
}
