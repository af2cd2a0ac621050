package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointMetrics(t *testing.T) {
	predicted := []float64{1, 2, 3, 4}
	actual := []float64{2, 2, 2, 2}

	mae, err := MAE(predicted, actual)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, mae, 1e-12)

	mse, err := MSE(predicted, actual)
	require.Nil(t, err)
	assert.InDelta(t, 1.5, mse, 1e-12)

	rmse, err := RMSE(predicted, actual)
	require.Nil(t, err)
	assert.InDelta(t, math.Sqrt(1.5), rmse, 1e-12)

	mape, err := MAPE(predicted, actual)
	require.Nil(t, err)
	assert.InDelta(t, 0.5, mape, 1e-12)
}

func TestMetricsSkipNaN(t *testing.T) {
	predicted := []float64{1, math.NaN(), 3}
	actual := []float64{2, 2, math.NaN()}

	mae, err := MAE(predicted, actual)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, mae, 1e-12)
}

func TestMetricsValidation(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		err       error
	}{
		"length mismatch": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
		"empty": {
			err: ErrNoObservations,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := MAE(td.predicted, td.actual)
			assert.ErrorIs(t, err, td.err)
			_, err = MAPE(td.predicted, td.actual)
			assert.ErrorIs(t, err, td.err)
			_, err = SMAPE(td.predicted, td.actual)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestMAPEZeroActual(t *testing.T) {
	mape, err := MAPE([]float64{1, 2}, []float64{1, 0})
	require.Nil(t, err)
	assert.True(t, math.IsNaN(mape))
}

func TestSMAPE(t *testing.T) {
	smape, err := SMAPE([]float64{3}, []float64{1})
	require.Nil(t, err)
	assert.InDelta(t, 1.0, smape, 1e-12)

	// both zero leaves the ratio undefined
	smape, err = SMAPE([]float64{0}, []float64{0})
	require.Nil(t, err)
	assert.True(t, math.IsNaN(smape))
}

func TestMASE(t *testing.T) {
	training := []float64{1, 3, 5, 7}

	// naive one-step scale of the training data is 2
	mase, err := MASE([]float64{8}, []float64{12}, training)
	require.Nil(t, err)
	assert.InDelta(t, 2.0, mase, 1e-12)

	// constant training series has no scale
	mase, err = MASE([]float64{8}, []float64{12}, []float64{5, 5, 5})
	require.Nil(t, err)
	assert.True(t, math.IsNaN(mase))
}

func TestRMSSE(t *testing.T) {
	training := []float64{1, 3, 5, 7}

	rmsse, err := RMSSE([]float64{8}, []float64{12}, training)
	require.Nil(t, err)
	assert.InDelta(t, 2.0, rmsse, 1e-12)

	rmsse, err = RMSSE([]float64{8}, []float64{12}, []float64{5, 5, 5})
	require.Nil(t, err)
	assert.True(t, math.IsNaN(rmsse))
}

func TestRSquared(t *testing.T) {
	r2, err := RSquared([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, 1e-12)

	r2, err = RSquared([]float64{3, 2, 1}, []float64{1, 2, 3})
	require.Nil(t, err)
	assert.Less(t, r2, 0.0)
}

func TestSkillScore(t *testing.T) {
	assert.InDelta(t, 0.5, SkillScore(2.0, 1.0), 1e-12)
	assert.InDelta(t, -1.0, SkillScore(1.0, 2.0), 1e-12)
	assert.True(t, math.IsNaN(SkillScore(0.0, 1.0)))
	assert.True(t, math.IsNaN(SkillScore(math.NaN(), 1.0)))
}

func TestNewSummary(t *testing.T) {
	predicted := []float64{2, 3, 4}
	actual := []float64{2, 2, 2}
	training := []float64{1, 3, 5, 7}

	summary, err := NewSummary(predicted, actual, training)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, summary.MAE, 1e-12)
	assert.False(t, math.IsNaN(summary.RMSE))
	assert.False(t, math.IsNaN(summary.MASE))

	_, err = NewSummary([]float64{1}, []float64{1, 2}, training)
	assert.ErrorIs(t, err, ErrResLenMismatch)
}
