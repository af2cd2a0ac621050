package ets

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genTime(n int) []time.Time {
	t := make([]time.Time, 0, n)
	start := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(time.Duration(i)*24*time.Hour))
	}
	return t
}

func fixedOptions(alpha float64) *Options {
	opt := NewDefaultOptions()
	opt.Alpha = alpha
	return opt
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt *Options
		err error
	}{
		"invalid error component": {
			opt: &Options{Error: ComponentNone},
			err: ErrInvalidComponent,
		},
		"invalid trend component": {
			opt: &Options{Error: ComponentAdditive, Trend: ComponentType("bogus")},
			err: ErrInvalidComponent,
		},
		"seasonal without period": {
			opt: &Options{Error: ComponentAdditive, Seasonal: ComponentAdditive, Period: 1},
			err: ErrInvalidPeriod,
		},
		"damped without trend": {
			opt: &Options{Error: ComponentAdditive, Damped: true},
			err: ErrInvalidComponent,
		},
		"alpha out of bounds": {
			opt: &Options{Error: ComponentAdditive, Alpha: 1.5},
			err: ErrSmoothingParamOOB,
		},
		"negative beta": {
			opt: &Options{Error: ComponentAdditive, Trend: ComponentAdditive, Alpha: 0.5, Beta: -0.1},
			err: ErrSmoothingParamOOB,
		},
		"phi out of bounds": {
			opt: &Options{
				Error:  ComponentAdditive,
				Trend:  ComponentAdditive,
				Damped: true,
				Alpha:  0.5,
				Beta:   0.1,
				Phi:    1.2,
			},
			err: ErrDampingParamOOB,
		},
		"valid": {
			opt: fixedOptions(0.5),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := New(td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestFitInsufficientData(t *testing.T) {
	model, err := New(nil)
	require.Nil(t, err)
	err = model.Fit(genTime(1), []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientData)

	opt := NewDefaultOptions()
	opt.Seasonal = ComponentAdditive
	opt.Period = 4
	model, err = New(opt)
	require.Nil(t, err)
	err = model.Fit(genTime(6), []float64{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFitNonPositiveSeries(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Trend = ComponentMultiplicative
	model, err := New(opt)
	require.Nil(t, err)

	err = model.Fit(genTime(5), []float64{1, 2, -3, 4, 5})
	assert.ErrorIs(t, err, ErrNonPositiveSeries)
}

func TestSimpleSmoothingWorkedExample(t *testing.T) {
	y := []float64{10, 12, 11, 13, 12, 14}
	model, err := New(fixedOptions(0.5))
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))

	assert.InDeltaSlice(t, []float64{10, 11, 11, 12, 12, 13}, model.Levels(), 1e-12)

	fc, err := model.Predict(1)
	require.Nil(t, err)
	assert.InDelta(t, 13.0, fc.Point[0], 1e-12)
}

func TestAlphaOneReducesToNaive(t *testing.T) {
	y := []float64{3, 1, 4, 1, 5, 9}
	model, err := New(fixedOptions(1.0))
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))

	assert.InDeltaSlice(t, y, model.Levels(), 1e-12)

	fc, err := model.Predict(3)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{9, 9, 9}, fc.Point, 1e-12)
}

func TestAlphaZeroHoldsInitialLevel(t *testing.T) {
	y := []float64{7, 1, 4, 1, 5, 9}
	model, err := New(fixedOptions(0.0))
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))

	for i, level := range model.Levels() {
		assert.InDelta(t, 7.0, level, 1e-12, "level at %d", i)
	}

	fc, err := model.Predict(2)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{7, 7}, fc.Point, 1e-12)
}

func TestFitEstimatesParameters(t *testing.T) {
	// noisy level series, estimation should land on a valid alpha
	y := []float64{10, 11, 10, 12, 11, 10, 11, 12, 10, 11, 12, 11}
	model, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))

	assert.GreaterOrEqual(t, model.alpha, 0.0)
	assert.LessOrEqual(t, model.alpha, 1.0)
	assert.False(t, math.IsInf(model.AICc(), 1))
}

func TestSeasonalFit(t *testing.T) {
	// exact periodic signal, the seasonal model should track it closely
	pattern := []float64{10, 20, 30, 20}
	y := make([]float64, 0, 24)
	for i := 0; i < 6; i++ {
		y = append(y, pattern...)
	}

	opt := NewDefaultOptions()
	opt.Seasonal = ComponentAdditive
	opt.Period = 4
	model, err := New(opt)
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))

	fc, err := model.Predict(4)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{10, 20, 30, 20}, fc.Point, 1e-6)
}

func TestSeasonalFitRejectsInteriorGap(t *testing.T) {
	pattern := []float64{10, 20, 30, 20}
	y := make([]float64, 0, 24)
	for i := 0; i < 6; i++ {
		y = append(y, pattern...)
	}
	// dropping the marker would shift every later phase by one
	y[5] = math.NaN()

	opt := NewDefaultOptions()
	opt.Seasonal = ComponentAdditive
	opt.Period = 4
	model, err := New(opt)
	require.Nil(t, err)
	assert.ErrorIs(t, model.Fit(genTime(len(y)), y), ErrSeasonalGap)

	// leading and trailing markers trim away without disturbing the phases
	y[5] = 20
	y[0] = math.NaN()
	y[len(y)-1] = math.NaN()
	model, err = New(opt)
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))
}

func TestTrendFit(t *testing.T) {
	// exact linear ramp, the trend model extrapolates the slope
	y := make([]float64, 20)
	for i := range y {
		y[i] = 5 + 2*float64(i)
	}

	opt := NewDefaultOptions()
	opt.Trend = ComponentAdditive
	model, err := New(opt)
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))

	fc, err := model.Predict(3)
	require.Nil(t, err)
	last := y[len(y)-1]
	assert.InDeltaSlice(t, []float64{last + 2, last + 4, last + 6}, fc.Point, 1e-3)
}

func TestPredictValidation(t *testing.T) {
	model, err := New(nil)
	require.Nil(t, err)
	_, err = model.Predict(1)
	assert.ErrorIs(t, err, ErrUntrainedETS)

	require.Nil(t, model.Fit(genTime(5), []float64{1, 2, 3, 2, 1}))
	_, err = model.Predict(0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestForecastVarianceGrows(t *testing.T) {
	y := []float64{10, 12, 11, 13, 12, 14, 13, 15}
	model, err := New(fixedOptions(0.5))
	require.Nil(t, err)
	require.Nil(t, model.Fit(genTime(len(y)), y))

	fc, err := model.Predict(5)
	require.Nil(t, err)
	require.Len(t, fc.Variance, 5)
	for i := 1; i < len(fc.Variance); i++ {
		assert.GreaterOrEqual(t, fc.Variance[i], fc.Variance[i-1])
	}
	assert.Positive(t, fc.Variance[0])
}

func TestForecastTimes(t *testing.T) {
	tSeries := genTime(6)
	y := []float64{1, 2, 3, 2, 1, 2}
	model, err := New(fixedOptions(0.5))
	require.Nil(t, err)
	require.Nil(t, model.Fit(tSeries, y))

	fc, err := model.Predict(2)
	require.Nil(t, err)
	require.Len(t, fc.T, 2)
	assert.Equal(t, tSeries[5].Add(24*time.Hour), fc.T[0])
	assert.Equal(t, tSeries[5].Add(48*time.Hour), fc.T[1])
}
