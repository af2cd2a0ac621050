package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinball(t *testing.T) {
	testData := map[string]struct {
		forecast []float64
		actual   []float64
		tau      float64
		expected float64
		err      error
	}{
		"under forecast": {
			forecast: []float64{1},
			actual:   []float64{2},
			tau:      0.9,
			expected: 0.9,
		},
		"over forecast": {
			forecast: []float64{3},
			actual:   []float64{2},
			tau:      0.9,
			expected: 0.1,
		},
		"perfect forecast": {
			forecast: []float64{2},
			actual:   []float64{2},
			tau:      0.5,
			expected: 0.0,
		},
		"invalid tau": {
			forecast: []float64{1},
			actual:   []float64{1},
			tau:      1.5,
			err:      ErrInvalidQuantile,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			pb, err := Pinball(td.forecast, td.actual, td.tau)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected, pb, 1e-12)
		})
	}
}

func TestWinkler(t *testing.T) {
	testData := map[string]struct {
		lower    []float64
		upper    []float64
		actual   []float64
		level    float64
		expected float64
		err      error
	}{
		"inside interval": {
			lower:    []float64{0},
			upper:    []float64{10},
			actual:   []float64{5},
			level:    0.9,
			expected: 10.0,
		},
		"on the boundary scores the bare width": {
			lower:    []float64{0},
			upper:    []float64{10},
			actual:   []float64{10},
			level:    0.9,
			expected: 10.0,
		},
		"above the interval": {
			lower:    []float64{0},
			upper:    []float64{10},
			actual:   []float64{11},
			level:    0.9,
			expected: 10.0 + 2.0/0.1*1.0,
		},
		"below the interval": {
			lower:    []float64{0},
			upper:    []float64{10},
			actual:   []float64{-2},
			level:    0.9,
			expected: 10.0 + 2.0/0.1*2.0,
		},
		"invalid level": {
			lower:  []float64{0},
			upper:  []float64{10},
			actual: []float64{5},
			level:  1.0,
			err:    ErrInvalidLevel,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			w, err := Winkler(td.lower, td.upper, td.actual, td.level)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected, w, 1e-9)
		})
	}
}

func TestCRPS(t *testing.T) {
	taus := []float64{0.25, 0.5, 0.75}

	// forecasting the actual at every quantile yields a perfect score
	perfect := [][]float64{{2, 2}, {2, 2}, {2, 2}}
	crps, err := CRPS(taus, perfect, []float64{2, 2})
	require.Nil(t, err)
	assert.InDelta(t, 0.0, crps, 1e-12)

	// offsetting a quantile away from the actual increases the score
	biased := [][]float64{{2, 2}, {3, 3}, {2, 2}}
	crps, err = CRPS(taus, biased, []float64{2, 2})
	require.Nil(t, err)
	assert.Greater(t, crps, 0.0)

	_, err = CRPS(nil, nil, []float64{1})
	assert.ErrorIs(t, err, ErrQuantileGrid)

	_, err = CRPS([]float64{0.5}, [][]float64{{1, 2}}, []float64{1})
	assert.ErrorIs(t, err, ErrResLenMismatch)
}
