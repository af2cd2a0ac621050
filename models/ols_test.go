package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOLSRegressionFit(t *testing.T) {
	// y = 1 + 2*x0 + 3*x1 with exact data
	xData := []float64{
		1, 1,
		2, 1,
		3, 2,
		4, 3,
		5, 5,
		6, 8,
	}
	x := mat.NewDense(6, 2, xData)
	yData := make([]float64, 6)
	for i := 0; i < 6; i++ {
		yData[i] = 1 + 2*xData[i*2] + 3*xData[i*2+1]
	}
	y := mat.NewDense(6, 1, yData)

	ols, err := NewOLSRegression(nil)
	require.Nil(t, err)
	require.Nil(t, ols.Fit(x, y))

	assert.InDelta(t, 1.0, ols.Intercept(), 1e-8)
	assert.InDeltaSlice(t, []float64{2, 3}, ols.Coef(), 1e-8)

	pred, err := ols.Predict(x)
	require.Nil(t, err)
	assert.InDeltaSlice(t, yData, pred, 1e-8)

	r2, err := ols.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, 1e-8)
}

func TestOLSRegressionNoIntercept(t *testing.T) {
	// y = 4*x through the origin
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{4, 8, 12, 16})

	ols, err := NewOLSRegression(&OLSOptions{FitIntercept: false})
	require.Nil(t, err)
	require.Nil(t, ols.Fit(x, y))

	assert.Equal(t, 0.0, ols.Intercept())
	assert.InDeltaSlice(t, []float64{4}, ols.Coef(), 1e-8)

	stderr := ols.CoefStdErr()
	require.Len(t, stderr, 1)
	assert.InDelta(t, 0.0, stderr[0], 1e-8)
}

func TestOLSRegressionErrors(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	testData := map[string]struct {
		x   mat.Matrix
		y   mat.Matrix
		err error
	}{
		"nil training matrix": {y: y, err: ErrNoTrainingMatrix},
		"nil target matrix":   {x: x, err: ErrNoTargetMatrix},
		"length mismatch":     {x: x, y: y, err: ErrTargetLenMismatch},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ols, err := NewOLSRegression(nil)
			require.Nil(t, err)
			assert.ErrorIs(t, ols.Fit(td.x, td.y), td.err)
		})
	}
}

func TestOLSRegressionUntrainedPredict(t *testing.T) {
	ols, err := NewOLSRegression(nil)
	require.Nil(t, err)
	_, err = ols.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrUntrainedModel)
}
