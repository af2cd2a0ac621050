package timedataset

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	testData := map[string]struct {
		input    string
		opt      *CSVOptions
		expected *TimeDataset
		err      error
	}{
		"default columns": {
			input: "ds,y\n1970-01-01,1\n1970-01-02,2\n",
			expected: &TimeDataset{
				T: []time.Time{day(1), day(2)},
				Y: []float64{1, 2},
			},
		},
		"missing marker becomes nan": {
			input: "ds,y\n1970-01-01,1\n1970-01-02,NA\n",
		},
		"custom columns": {
			input: "when;value\n1970-01-01;1\n1970-01-02;2\n",
			opt: &CSVOptions{
				TimeColumn:  "when",
				ValueColumn: "value",
				TimeFormat:  "2006-01-02",
				Comma:       ';',
			},
			expected: &TimeDataset{
				T: []time.Time{day(1), day(2)},
				Y: []float64{1, 2},
			},
		},
		"missing time column": {
			input: "when,y\n1970-01-01,1\n",
			err:   ErrMissingColumn,
		},
		"no rows": {
			input: "ds,y\n",
			err:   ErrNoCSVData,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := LoadCSVFromReader(strings.NewReader(td.input), td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			if td.expected == nil {
				require.Equal(t, 2, ds.Len())
				assert.True(t, math.IsNaN(ds.Y[1]))
				return
			}
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestLoadGroupedCSVFromReader(t *testing.T) {
	input := "ds,y,store\n" +
		"1970-01-01,1,a\n" +
		"1970-01-01,10,b\n" +
		"1970-01-02,2,a\n" +
		"1970-01-02,20,b\n"

	opt := NewDefaultCSVOptions()
	opt.KeyColumn = "store"

	coll, err := LoadGroupedCSVFromReader(strings.NewReader(input), opt)
	require.Nil(t, err)
	require.Equal(t, 2, coll.Len())
	assert.Equal(t, []string{"a", "b"}, coll.Keys())

	a, err := coll.Get("a")
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2}, a.Y)

	b, err := coll.Get("b")
	require.Nil(t, err)
	assert.Equal(t, []float64{10, 20}, b.Y)
}

func TestSaveCSVRoundTrip(t *testing.T) {
	ds, err := NewUnivariateDataset(
		[]time.Time{day(1), day(2), day(3)},
		[]float64{1, math.NaN(), 3},
	)
	require.Nil(t, err)

	path := filepath.Join(t.TempDir(), "series.csv")
	require.Nil(t, ds.SaveCSV(path, nil))

	back, err := LoadCSV(path, nil)
	require.Nil(t, err)
	require.Equal(t, ds.Len(), back.Len())
	assert.Equal(t, ds.T, back.T)
	assert.Equal(t, 1.0, back.Y[0])
	assert.True(t, math.IsNaN(back.Y[1]))
	assert.Equal(t, 3.0, back.Y[2])
}
