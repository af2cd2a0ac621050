package timedataset

import (
	"errors"
	"fmt"
)

var (
	ErrDiffTooShort     = errors.New("series too short for requested differencing")
	ErrInvalidDiffOrder = errors.New("invalid differencing order")
)

type diffStep struct {
	lag  int
	head []float64 // first lag values of the pre-difference series
	tail []float64 // last lag values of the pre-difference series
}

// Differencer applies ordinary and seasonal differencing to a value slice and
// records the initial values needed to exactly invert the transform. Seasonal
// differences at lag m are applied before ordinary differences.
type Differencer struct {
	steps []diffStep
}

// Difference applies D seasonal differences at lag m followed by d ordinary
// differences returning the transformed values along with a Differencer able
// to map values back to the original scale.
func Difference(y []float64, d, seasonalD, m int) ([]float64, *Differencer, error) {
	if d < 0 || seasonalD < 0 || (seasonalD > 0 && m < 2) {
		return nil, nil, ErrInvalidDiffOrder
	}
	need := d + seasonalD*m
	if len(y) <= need {
		return nil, nil, fmt.Errorf("need more than %d points, got %d, %w", need, len(y), ErrDiffTooShort)
	}

	dr := &Differencer{}
	curr := make([]float64, len(y))
	copy(curr, y)

	for i := 0; i < seasonalD; i++ {
		curr = dr.apply(curr, m)
	}
	for i := 0; i < d; i++ {
		curr = dr.apply(curr, 1)
	}
	return curr, dr, nil
}

func (dr *Differencer) apply(y []float64, lag int) []float64 {
	head := make([]float64, lag)
	tail := make([]float64, lag)
	copy(head, y[:lag])
	copy(tail, y[len(y)-lag:])
	dr.steps = append(dr.steps, diffStep{lag: lag, head: head, tail: tail})

	out := make([]float64, len(y)-lag)
	for i := lag; i < len(y); i++ {
		out[i-lag] = y[i] - y[i-lag]
	}
	return out
}

// Integrate reverses all recorded differencing steps reproducing the original
// series exactly when given the fully differenced values.
func (dr *Differencer) Integrate(z []float64) []float64 {
	curr := make([]float64, len(z))
	copy(curr, z)

	for i := len(dr.steps) - 1; i >= 0; i-- {
		step := dr.steps[i]
		out := make([]float64, len(curr)+step.lag)
		copy(out, step.head)
		for j := 0; j < len(curr); j++ {
			out[j+step.lag] = curr[j] + out[j]
		}
		curr = out
	}
	return curr
}

// IntegrateForecast maps forecasts produced on the differenced scale back to
// the original scale by cumulating from the stored series tails.
func (dr *Differencer) IntegrateForecast(forecast []float64) []float64 {
	curr := make([]float64, len(forecast))
	copy(curr, forecast)

	for i := len(dr.steps) - 1; i >= 0; i-- {
		step := dr.steps[i]
		out := make([]float64, len(curr))
		for j := 0; j < len(curr); j++ {
			if j < step.lag {
				out[j] = curr[j] + step.tail[j]
			} else {
				out[j] = curr[j] + out[j-step.lag]
			}
		}
		curr = out
	}
	return curr
}

// DiffStep is the serializable record of a single differencing pass.
type DiffStep struct {
	Lag  int       `json:"lag"`
	Head []float64 `json:"head"`
	Tail []float64 `json:"tail"`
}

// Snapshot exports the recorded differencing steps for serialization.
func (dr *Differencer) Snapshot() []DiffStep {
	steps := make([]DiffStep, 0, len(dr.steps))
	for _, step := range dr.steps {
		head := make([]float64, len(step.head))
		tail := make([]float64, len(step.tail))
		copy(head, step.head)
		copy(tail, step.tail)
		steps = append(steps, DiffStep{Lag: step.lag, Head: head, Tail: tail})
	}
	return steps
}

// NewDifferencerFromSnapshot restores a Differencer from exported steps.
func NewDifferencerFromSnapshot(steps []DiffStep) *Differencer {
	dr := &Differencer{}
	for _, step := range steps {
		head := make([]float64, len(step.Head))
		tail := make([]float64, len(step.Tail))
		copy(head, step.Head)
		copy(tail, step.Tail)
		dr.steps = append(dr.steps, diffStep{lag: step.Lag, head: head, tail: tail})
	}
	return dr
}

// Order returns the total number of observations consumed by the recorded
// differencing steps.
func (dr *Differencer) Order() int {
	var n int
	for _, step := range dr.steps {
		n += step.lag
	}
	return n
}
