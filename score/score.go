// Package score computes point and distributional forecast accuracy metrics.
// Malformed input is a fatal error for the call while numerical degeneracies
// such as a zero actual in a percentage error surface as NaN results.
package score

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoObservations = errors.New("no observations to score")
)

// Summary tracks the standard point metrics for a forecast evaluation.
type Summary struct {
	MAE   float64 `json:"mean_absolute_error"`
	RMSE  float64 `json:"root_mean_squared_error"`
	MAPE  float64 `json:"mean_absolute_percent_error"`
	SMAPE float64 `json:"symmetric_mean_absolute_percent_error"`
	MASE  float64 `json:"mean_absolute_scaled_error"`
	R2    float64 `json:"r_squared"`
}

// NewSummary calculates the standard point metrics given predicted and actual
// values. The training series feeds the MASE scaling denominator.
func NewSummary(predicted, actual, training []float64) (*Summary, error) {
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	rmse, err := RMSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	smape, err := SMAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute symmetric mean absolute percent error, %w", err)
	}
	mase, err := MASE(predicted, actual, training)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute scaled error, %w", err)
	}
	r2, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Summary{
		MAE:   mae,
		RMSE:  rmse,
		MAPE:  mape,
		SMAPE: smape,
		MASE:  mase,
		R2:    r2,
	}, nil
}

func validatePair(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrNoObservations
	}
	return nil
}

// MAE computes the mean absolute error skipping NaN markers.
func MAE(predicted, actual []float64) (float64, error) {
	if err := validatePair(predicted, actual); err != nil {
		return 0, err
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		sum += math.Abs(actual[i] - predicted[i])
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// MSE computes the mean squared error skipping NaN markers.
func MSE(predicted, actual []float64) (float64, error) {
	if err := validatePair(predicted, actual); err != nil {
		return 0, err
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		diff := actual[i] - predicted[i]
		sum += diff * diff
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// RMSE computes the root mean squared error skipping NaN markers.
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAPE computes the mean absolute percent error. A zero actual makes the
// percentage undefined so the result is NaN rather than a silent division.
func MAPE(predicted, actual []float64) (float64, error) {
	if err := validatePair(predicted, actual); err != nil {
		return 0, err
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		if actual[i] == 0 {
			return math.NaN(), nil
		}
		sum += math.Abs((actual[i] - predicted[i]) / actual[i])
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// SMAPE computes the symmetric mean absolute percent error. A zero
// denominator, requiring both actual and predicted to be zero, yields NaN.
func SMAPE(predicted, actual []float64) (float64, error) {
	if err := validatePair(predicted, actual); err != nil {
		return 0, err
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		denom := math.Abs(actual[i]) + math.Abs(predicted[i])
		if denom == 0 {
			return math.NaN(), nil
		}
		sum += 2.0 * math.Abs(actual[i]-predicted[i]) / denom
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// naiveScale returns the in-sample naive one-step mean absolute difference of
// the training series. A constant series has no scale and returns NaN.
func naiveScale(training []float64) (float64, error) {
	if len(training) < 2 {
		return 0, ErrNoObservations
	}
	var sum float64
	var cnt int
	for i := 1; i < len(training); i++ {
		if math.IsNaN(training[i]) || math.IsNaN(training[i-1]) {
			continue
		}
		sum += math.Abs(training[i] - training[i-1])
		cnt++
	}
	if cnt == 0 || sum == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// MASE computes the mean absolute scaled error using the training series
// naive one-step scale. A constant training series yields NaN.
func MASE(predicted, actual, training []float64) (float64, error) {
	mae, err := MAE(predicted, actual)
	if err != nil {
		return 0, err
	}
	scale, err := naiveScale(training)
	if err != nil {
		return 0, err
	}
	return mae / scale, nil
}

// RMSSE computes the root mean squared scaled error using the training series
// naive one-step squared scale. A constant training series yields NaN.
func RMSSE(predicted, actual, training []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	if len(training) < 2 {
		return 0, ErrNoObservations
	}
	var sum float64
	var cnt int
	for i := 1; i < len(training); i++ {
		if math.IsNaN(training[i]) || math.IsNaN(training[i-1]) {
			continue
		}
		diff := training[i] - training[i-1]
		sum += diff * diff
		cnt++
	}
	if cnt == 0 || sum == 0 {
		return math.NaN(), nil
	}
	return math.Sqrt(mse / (sum / float64(cnt))), nil
}

// RSquared computes the r squared value between the predicted and actual
// where 1.0 means a perfect fit.
func RSquared(predicted, actual []float64) (float64, error) {
	if err := validatePair(predicted, actual); err != nil {
		return 0, err
	}

	predictCopy := make([]float64, 0, len(predicted))
	actualCopy := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	r2 := stat.RSquaredFrom(predictCopy, actualCopy, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}

// SkillScore computes the relative improvement of a candidate score over a
// benchmark score. A zero benchmark makes the ratio undefined and yields NaN.
func SkillScore(benchmark, candidate float64) float64 {
	if benchmark == 0 || math.IsNaN(benchmark) || math.IsNaN(candidate) {
		return math.NaN()
	}
	return (benchmark - candidate) / benchmark
}
