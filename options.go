package statforecast

import (
	"github.com/forecastlab/go-statforecast/arima"
	"github.com/forecastlab/go-statforecast/ets"
	"github.com/forecastlab/go-statforecast/timedataset"
)

// Method selects the forecasting model family.
type Method string

const (
	// MethodETS fits an exponential smoothing state space model.
	MethodETS Method = "ets"
	// MethodARIMA fits an autoregressive integrated moving average model.
	MethodARIMA Method = "arima"
	// MethodAuto fits both families and keeps the lower corrected AIC.
	MethodAuto Method = "auto"
)

// OutlierOptions configures the iterative outlier removal passes run before
// the final fit. Detected outliers are replaced by linear interpolation.
type OutlierOptions struct {
	NumPasses       int     `json:"num_passes"`
	UpperPercentile float64 `json:"upper_percentile"`
	LowerPercentile float64 `json:"lower_percentile"`
	TukeyFactor     float64 `json:"tukey_factor"`
}

// NewOutlierOptions returns outlier options with three passes over the 10th
// and 90th percentiles.
func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		NumPasses:       3,
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
	}
}

// Options configures a Forecaster.
type Options struct {
	Method Method `json:"method"`

	ETS   *ets.Options       `json:"ets_options,omitempty"`
	ARIMA *arima.Options     `json:"arima_options,omitempty"`
	Auto  *arima.AutoOptions `json:"auto_options,omitempty"`

	OutlierOptions *OutlierOptions        `json:"outlier_options,omitempty"`
	FillPolicy     timedataset.FillPolicy `json:"fill_policy"`

	// ConfidenceLevels lists the prediction interval coverages to emit,
	// each in (0,1).
	ConfidenceLevels []float64 `json:"confidence_levels"`
}

// NewDefaultOptions returns an automatic method selection with linear
// interpolation of missing values and 80/95 percent intervals.
func NewDefaultOptions() *Options {
	return &Options{
		Method:           MethodAuto,
		FillPolicy:       timedataset.FillInterpolate,
		ConfidenceLevels: []float64{0.80, 0.95},
	}
}
