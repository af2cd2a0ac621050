// Package timedataset provides the univariate time series container shared by
// all forecasting models along with frequency inference, missing value
// handling, and invertible differencing.
package timedataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMonotonic       = errors.New("time index is not strictly increasing")
	ErrDatasetLenMismatch = errors.New("time index has a different length than observations")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time index")
	ErrSplitOutOfRange    = errors.New("split index out of range")
	ErrUnknownFillPolicy  = errors.New("unknown fill policy")
)

// FillPolicy controls how explicit NaN markers are resolved before fitting.
type FillPolicy string

const (
	FillNone        FillPolicy = ""
	FillForward     FillPolicy = "forward"
	FillInterpolate FillPolicy = "interpolate"
	FillTrim        FillPolicy = "trim"
)

// TimeDataset represents a univariate time series storing a slice of time
// points and observed values. Both must be of the same length and the time
// index must be strictly increasing. Missing observations are explicit NaN
// markers, never omitted indices.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and
// value slice. The input slices are copied.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time index has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}, nil
}

// Len returns the number of time points in the dataset.
func (td *TimeDataset) Len() int {
	return len(td.T)
}

// Copy returns a deep copy of the dataset.
func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// InferInterval returns the modal gap between consecutive time points.
func (td *TimeDataset) InferInterval() (time.Duration, error) {
	return TimeSlice(td.T).EstimateFreq()
}

// Regularize returns a dataset on an even time grid at the given interval
// starting from the first time point. Each observation is snapped to its
// nearest grid slot so jittered timestamps keep their values, and grid points
// with no observation are materialized as NaN markers. When two observations
// compete for a slot the closer one wins.
func (td *TimeDataset) Regularize(interval time.Duration) (*TimeDataset, error) {
	if td.Len() == 0 {
		return nil, ErrNoTrainingData
	}
	if interval <= 0 {
		return nil, ErrCannotInferFreq
	}

	start := td.T[0]
	end := td.T[len(td.T)-1]
	n := int((end.Sub(start)+interval/2)/interval) + 1

	t := make([]time.Time, n)
	y := make([]float64, n)
	dist := make([]time.Duration, n)
	for i := 0; i < n; i++ {
		t[i] = start.Add(time.Duration(i) * interval)
		y[i] = math.NaN()
	}

	for i := 0; i < td.Len(); i++ {
		idx := int((td.T[i].Sub(start) + interval/2) / interval)
		if idx < 0 || idx >= n {
			continue
		}
		d := td.T[i].Sub(t[idx])
		if d < 0 {
			d = -d
		}
		if math.IsNaN(y[idx]) || d < dist[idx] {
			y[idx] = td.Y[i]
			dist[idx] = d
		}
	}
	return &TimeDataset{T: t, Y: y}, nil
}

// Fill resolves NaN markers according to the requested policy returning a new
// dataset. FillNone returns an unmodified copy.
func (td *TimeDataset) Fill(policy FillPolicy) (*TimeDataset, error) {
	switch policy {
	case FillNone:
		return td.Copy(), nil
	case FillForward:
		return td.ForwardFill(), nil
	case FillInterpolate:
		return td.Interpolate(), nil
	case FillTrim:
		return td.Trim()
	}
	return nil, fmt.Errorf("%q, %w", policy, ErrUnknownFillPolicy)
}

// ForwardFill replaces each NaN marker with the last seen observation.
// Leading NaN values are left in place since there is nothing to carry
// forward.
func (td *TimeDataset) ForwardFill() *TimeDataset {
	out := td.Copy()
	last := math.NaN()
	for i := 0; i < len(out.Y); i++ {
		if math.IsNaN(out.Y[i]) {
			out.Y[i] = last
			continue
		}
		last = out.Y[i]
	}
	return out
}

// Interpolate replaces interior NaN runs with a linear blend between the
// surrounding observations. Leading and trailing NaN values are left in
// place.
func (td *TimeDataset) Interpolate() *TimeDataset {
	out := td.Copy()
	n := len(out.Y)

	prev := -1
	for i := 0; i < n; i++ {
		if math.IsNaN(out.Y[i]) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				frac := float64(j-prev) / span
				out.Y[j] = out.Y[prev]*(1.0-frac) + out.Y[i]*frac
			}
		}
		prev = i
	}
	return out
}

// Trim drops every time point carrying a NaN marker.
func (td *TimeDataset) Trim() (*TimeDataset, error) {
	t := make([]time.Time, 0, len(td.T))
	y := make([]float64, 0, len(td.Y))
	for i := 0; i < len(td.Y); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		t = append(t, td.T[i])
		y = append(y, td.Y[i])
	}
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	return &TimeDataset{T: t, Y: y}, nil
}

// TrainTestSplit splits the dataset keeping the first n points for training
// and the remainder as a holdout set.
func (td *TimeDataset) TrainTestSplit(n int) (*TimeDataset, *TimeDataset, error) {
	if n <= 0 || n >= td.Len() {
		return nil, nil, fmt.Errorf("split at %d with %d points, %w", n, td.Len(), ErrSplitOutOfRange)
	}
	train := &TimeDataset{T: td.T[:n:n], Y: td.Y[:n:n]}
	test := &TimeDataset{T: td.T[n:], Y: td.Y[n:]}
	return train.Copy(), test.Copy(), nil
}
