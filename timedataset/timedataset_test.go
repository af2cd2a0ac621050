package timedataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(1970, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestNewUnivariateDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"no training data": {
			err: ErrNoTrainingData,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrDatasetLenMismatch,
		},
		"non increasing time": {
			t:   []time.Time{day(2), day(1)},
			y:   []float64{1, 2},
			err: ErrNonMonotonic,
		},
		"duplicate time": {
			t:   []time.Time{day(1), day(1)},
			y:   []float64{1, 2},
			err: ErrNonMonotonic,
		},
		"valid": {
			t: []time.Time{day(1), day(2)},
			y: []float64{1, 2},
			expected: &TimeDataset{
				T: []time.Time{day(1), day(2)},
				Y: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewUnivariateDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestCopy(t *testing.T) {
	ds, err := NewUnivariateDataset([]time.Time{day(1), day(2)}, []float64{0, 1})
	require.Nil(t, err)

	nextDs := ds.Copy()
	require.Equal(t, ds, nextDs)

	ds.Y[0] = 42
	require.NotEqual(t, nextDs, ds)
}

func TestInferInterval(t *testing.T) {
	ds, err := NewUnivariateDataset(
		[]time.Time{day(1), day(2), day(3), day(5)},
		[]float64{1, 2, 3, 4},
	)
	require.Nil(t, err)

	interval, err := ds.InferInterval()
	require.Nil(t, err)
	assert.Equal(t, 24*time.Hour, interval)
}

func TestRegularize(t *testing.T) {
	ds, err := NewUnivariateDataset(
		[]time.Time{day(1), day(2), day(4)},
		[]float64{1, 2, 4},
	)
	require.Nil(t, err)

	reg, err := ds.Regularize(24 * time.Hour)
	require.Nil(t, err)
	require.Equal(t, 4, reg.Len())

	assert.Equal(t, []time.Time{day(1), day(2), day(3), day(4)}, reg.T)
	assert.Equal(t, 1.0, reg.Y[0])
	assert.Equal(t, 2.0, reg.Y[1])
	assert.True(t, math.IsNaN(reg.Y[2]))
	assert.Equal(t, 4.0, reg.Y[3])
}

func TestRegularizeSnapsJitteredTimes(t *testing.T) {
	start := day(1)
	tSeries := []time.Time{
		start,
		start.Add(time.Hour),
		start.Add(2*time.Hour + time.Minute),
		start.Add(3 * time.Hour),
		start.Add(4 * time.Hour),
		start.Add(5 * time.Hour),
	}
	ds, err := NewUnivariateDataset(tSeries, []float64{10, 12, 11, 13, 12, 14})
	require.Nil(t, err)

	reg, err := ds.Regularize(time.Hour)
	require.Nil(t, err)
	require.Equal(t, 6, reg.Len())

	// the jittered observation keeps its value at the nearest grid slot
	assert.Equal(t, []float64{10, 12, 11, 13, 12, 14}, reg.Y)
	assert.Equal(t, start.Add(2*time.Hour), reg.T[2])
}

func TestRegularizeNearestWinsSlot(t *testing.T) {
	start := day(1)
	tSeries := []time.Time{
		start,
		start.Add(50 * time.Minute),
		start.Add(time.Hour + 2*time.Minute),
	}
	ds, err := NewUnivariateDataset(tSeries, []float64{1, 2, 3})
	require.Nil(t, err)

	reg, err := ds.Regularize(time.Hour)
	require.Nil(t, err)
	require.Equal(t, 2, reg.Len())

	assert.Equal(t, 1.0, reg.Y[0])
	// both later observations round to slot 1, the closer one keeps it
	assert.Equal(t, 3.0, reg.Y[1])
}

func TestFill(t *testing.T) {
	tSeries := []time.Time{day(1), day(2), day(3), day(4)}

	testData := map[string]struct {
		y        []float64
		policy   FillPolicy
		expected []float64
		err      error
	}{
		"none keeps markers": {
			y:        []float64{1, math.NaN(), 3, 4},
			policy:   FillNone,
			expected: []float64{1, math.NaN(), 3, 4},
		},
		"forward fill": {
			y:        []float64{1, math.NaN(), math.NaN(), 4},
			policy:   FillForward,
			expected: []float64{1, 1, 1, 4},
		},
		"interpolate": {
			y:        []float64{1, math.NaN(), math.NaN(), 4},
			policy:   FillInterpolate,
			expected: []float64{1, 2, 3, 4},
		},
		"unknown policy": {
			y:      []float64{1, 2, 3, 4},
			policy: FillPolicy("bogus"),
			err:    ErrUnknownFillPolicy,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewUnivariateDataset(tSeries, td.y)
			require.Nil(t, err)

			filled, err := ds.Fill(td.policy)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.Equal(t, len(td.expected), filled.Len())
			for i, exp := range td.expected {
				if math.IsNaN(exp) {
					assert.True(t, math.IsNaN(filled.Y[i]), "index %d", i)
					continue
				}
				assert.InDelta(t, exp, filled.Y[i], 1e-12, "index %d", i)
			}
		})
	}
}

func TestTrim(t *testing.T) {
	ds, err := NewUnivariateDataset(
		[]time.Time{day(1), day(2), day(3)},
		[]float64{math.NaN(), 2, math.NaN()},
	)
	require.Nil(t, err)

	trimmed, err := ds.Trim()
	require.Nil(t, err)
	assert.Equal(t, []time.Time{day(2)}, trimmed.T)
	assert.Equal(t, []float64{2}, trimmed.Y)

	allNaN, err := NewUnivariateDataset(
		[]time.Time{day(1), day(2)},
		[]float64{math.NaN(), math.NaN()},
	)
	require.Nil(t, err)
	_, err = allNaN.Trim()
	assert.ErrorIs(t, err, ErrNoTrainingData)
}

func TestTrainTestSplit(t *testing.T) {
	ds, err := NewUnivariateDataset(
		[]time.Time{day(1), day(2), day(3), day(4)},
		[]float64{1, 2, 3, 4},
	)
	require.Nil(t, err)

	testData := map[string]struct {
		n         int
		trainLen  int
		testLen   int
		err       error
	}{
		"valid split":    {n: 3, trainLen: 3, testLen: 1},
		"zero split":     {n: 0, err: ErrSplitOutOfRange},
		"full split":     {n: 4, err: ErrSplitOutOfRange},
		"negative split": {n: -1, err: ErrSplitOutOfRange},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			train, test, err := ds.TrainTestSplit(td.n)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.trainLen, train.Len())
			assert.Equal(t, td.testLen, test.Len())
			assert.Equal(t, ds.Y[td.n], test.Y[0])
		})
	}
}
