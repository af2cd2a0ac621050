package timedataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifference(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		d        int
		sd       int
		m        int
		expected []float64
		err      error
	}{
		"no differencing": {
			y:        []float64{1, 2, 4},
			expected: []float64{1, 2, 4},
		},
		"first difference of linear ramp": {
			y:        []float64{1, 2, 3, 4, 5},
			d:        1,
			expected: []float64{1, 1, 1, 1},
		},
		"second difference of linear ramp": {
			y:        []float64{1, 2, 3, 4, 5},
			d:        2,
			expected: []float64{0, 0, 0},
		},
		"seasonal difference": {
			y:        []float64{1, 2, 1, 2, 1, 2},
			sd:       1,
			m:        2,
			expected: []float64{0, 0, 0, 0},
		},
		"negative order": {
			y:   []float64{1, 2, 3},
			d:   -1,
			err: ErrInvalidDiffOrder,
		},
		"seasonal without period": {
			y:   []float64{1, 2, 3},
			sd:  1,
			m:   1,
			err: ErrInvalidDiffOrder,
		},
		"too short": {
			y:   []float64{1, 2},
			d:   2,
			err: ErrDiffTooShort,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			z, _, err := Difference(td.y, td.d, td.sd, td.m)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDeltaSlice(t, td.expected, z, 1e-12)
		})
	}
}

func TestIntegrateRoundTrip(t *testing.T) {
	testData := map[string]struct {
		y  []float64
		d  int
		sd int
		m  int
	}{
		"first difference":    {y: []float64{3, 1, 4, 1, 5, 9, 2, 6}, d: 1},
		"second difference":   {y: []float64{3, 1, 4, 1, 5, 9, 2, 6}, d: 2},
		"seasonal difference": {y: []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}, sd: 1, m: 4},
		"mixed": {
			y:  []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7},
			d:  1,
			sd: 1,
			m:  4,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			z, dr, err := Difference(td.y, td.d, td.sd, td.m)
			require.Nil(t, err)

			back := dr.Integrate(z)
			assert.InDeltaSlice(t, td.y, back, 1e-9)
		})
	}
}

func TestIntegrateForecast(t *testing.T) {
	// a zero forecast on the differenced scale continues the last value of a
	// once differenced series
	y := []float64{1, 3, 2, 5, 4, 7}
	_, dr, err := Difference(y, 1, 0, 0)
	require.Nil(t, err)

	fc := dr.IntegrateForecast([]float64{0, 0, 0})
	assert.InDeltaSlice(t, []float64{7, 7, 7}, fc, 1e-12)

	// a constant forecast accumulates into a ramp
	fc = dr.IntegrateForecast([]float64{2, 2, 2})
	assert.InDeltaSlice(t, []float64{9, 11, 13}, fc, 1e-12)
}

func TestDifferencerSnapshot(t *testing.T) {
	y := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7}
	z, dr, err := Difference(y, 1, 1, 4)
	require.Nil(t, err)

	restored := NewDifferencerFromSnapshot(dr.Snapshot())
	assert.Equal(t, dr.Order(), restored.Order())
	assert.InDeltaSlice(t, dr.Integrate(z), restored.Integrate(z), 1e-12)
	assert.InDeltaSlice(t,
		dr.IntegrateForecast([]float64{1, 2, 3}),
		restored.IntegrateForecast([]float64{1, 2, 3}),
		1e-12,
	)
}
