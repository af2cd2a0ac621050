package arima

import (
	"math"

	"github.com/forecastlab/go-statforecast/models"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	cssMaxIterations = 100
	cssTolerance     = 1e-6
	cssLearningRate  = 0.01

	// coefficient clamp keeping the recursion stationary and invertible
	coefBound = 0.99
)

// estimateCSS fits the AR and MA coefficients by conditional sum of squares.
// A Hannan-Rissanen regression seeds the coefficients which are then refined
// by gradient iterations on the CSS objective.
func (a *ARIMA) estimateCSS() error {
	z := a.diffed
	n := len(z)

	a.constant = 0
	if a.hasConstant() {
		a.constant = stat.Mean(z, nil)
	}

	w := make([]float64, n)
	for i, v := range z {
		w[i] = v - a.constant
	}

	a.arCoeffs = make([]float64, len(a.arLags))
	a.maCoeffs = make([]float64, len(a.maLags))

	if len(a.arLags) == 0 && len(a.maLags) == 0 {
		a.finalizeResiduals(w, 0)
		return nil
	}

	if err := a.hannanRissanen(w); err != nil {
		// keep zero-valued seeds when the init regression is degenerate
		a.arCoeffs = make([]float64, len(a.arLags))
		a.maCoeffs = make([]float64, len(a.maLags))
	}
	a.refineCSS(w)

	start := a.maxLag()
	a.finalizeResiduals(w, start)
	return nil
}

func (a *ARIMA) maxLag() int {
	var maxLag int
	for _, lag := range a.arLags {
		if lag > maxLag {
			maxLag = lag
		}
	}
	for _, lag := range a.maLags {
		if lag > maxLag {
			maxLag = lag
		}
	}
	return maxLag
}

// hannanRissanen seeds the coefficients: a long autoregression provides
// innovation estimates, then the centered series is regressed on its own
// lags and the lagged innovations.
func (a *ARIMA) hannanRissanen(w []float64) error {
	n := len(w)

	longAR := a.maxLag() + 5
	if longAR > n/4 {
		longAR = n / 4
	}
	if longAR < 1 {
		longAR = 1
	}

	eHat := make([]float64, n)
	if len(a.maLags) > 0 {
		coeffs, err := olsOnLags(w, lagRange(longAR), nil, nil)
		if err != nil {
			return err
		}
		for t := longAR; t < n; t++ {
			pred := 0.0
			for i := 0; i < longAR; i++ {
				pred += coeffs[i] * w[t-i-1]
			}
			eHat[t] = w[t] - pred
		}
	}

	coeffs, err := olsOnLags(w, a.arLags, a.maLags, eHat)
	if err != nil {
		return err
	}
	copy(a.arCoeffs, coeffs[:len(a.arLags)])
	copy(a.maCoeffs, coeffs[len(a.arLags):])
	a.clampCoeffs()
	return nil
}

func lagRange(n int) []int {
	lags := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		lags = append(lags, i)
	}
	return lags
}

// olsOnLags regresses w_t on its own lags and optionally on lagged
// innovations, without an intercept since w is already centered.
func olsOnLags(w []float64, arLags, maLags []int, eHat []float64) ([]float64, error) {
	n := len(w)
	var start int
	for _, lag := range arLags {
		if lag > start {
			start = lag
		}
	}
	for _, lag := range maLags {
		if lag > start {
			start = lag
		}
	}

	rows := n - start
	cols := len(arLags) + len(maLags)
	if rows <= cols {
		return nil, ErrInsufficientData
	}

	xData := make([]float64, 0, rows*cols)
	yData := make([]float64, 0, rows)
	for t := start; t < n; t++ {
		yData = append(yData, w[t])
		for _, lag := range arLags {
			xData = append(xData, w[t-lag])
		}
		for _, lag := range maLags {
			xData = append(xData, eHat[t-lag])
		}
	}

	x := mat.NewDense(rows, cols, xData)
	y := mat.NewDense(rows, 1, yData)

	ols, err := models.NewOLSRegression(&models.OLSOptions{FitIntercept: false})
	if err != nil {
		return nil, err
	}
	if err := ols.Fit(x, y); err != nil {
		return nil, err
	}
	return ols.Coef(), nil
}

// residualPass computes the one-step CSS residuals for the current
// coefficients starting after the longest lag.
func (a *ARIMA) residualPass(w []float64, start int) ([]float64, float64) {
	n := len(w)
	e := make([]float64, n)
	var sse float64
	for t := start; t < n; t++ {
		pred := 0.0
		for i, lag := range a.arLags {
			pred += a.arCoeffs[i] * w[t-lag]
		}
		for i, lag := range a.maLags {
			pred += a.maCoeffs[i] * e[t-lag]
		}
		e[t] = w[t] - pred
		sse += e[t] * e[t]
	}
	return e, sse
}

// refineCSS runs gradient iterations on the conditional sum of squares.
func (a *ARIMA) refineCSS(w []float64) {
	n := len(w)
	start := a.maxLag()
	if n <= start {
		return
	}

	prevSSE := math.Inf(1)
	for iter := 0; iter < cssMaxIterations; iter++ {
		e, sse := a.residualPass(w, start)
		if math.Abs(prevSSE-sse) < cssTolerance {
			break
		}
		prevSSE = sse

		arGrad := make([]float64, len(a.arLags))
		maGrad := make([]float64, len(a.maLags))
		for t := start; t < n; t++ {
			for i, lag := range a.arLags {
				arGrad[i] -= 2 * e[t] * w[t-lag]
			}
			for i, lag := range a.maLags {
				maGrad[i] -= 2 * e[t] * e[t-lag]
			}
		}

		for i := range a.arCoeffs {
			a.arCoeffs[i] -= cssLearningRate * arGrad[i] / float64(n)
		}
		for i := range a.maCoeffs {
			a.maCoeffs[i] -= cssLearningRate * maGrad[i] / float64(n)
		}
		a.clampCoeffs()
	}
}

func (a *ARIMA) clampCoeffs() {
	for i := range a.arCoeffs {
		a.arCoeffs[i] = math.Max(-coefBound, math.Min(coefBound, a.arCoeffs[i]))
	}
	for i := range a.maCoeffs {
		a.maCoeffs[i] = math.Max(-coefBound, math.Min(coefBound, a.maCoeffs[i]))
	}
}

// finalizeResiduals stores the fitted values and residuals on the differenced
// scale and the residual variance. Warmup points before start are treated as
// perfectly fit so integration stays aligned.
func (a *ARIMA) finalizeResiduals(w []float64, start int) {
	n := len(w)
	e, sse := a.residualPass(w, start)

	a.fitted = make([]float64, n)
	a.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < start {
			a.fitted[t] = w[t] + a.constant
			a.residuals[t] = 0
			continue
		}
		a.fitted[t] = (w[t] - e[t]) + a.constant
		a.residuals[t] = e[t]
	}

	a.sse = sse
	cnt := n - start
	k := len(a.arCoeffs) + len(a.maCoeffs) + 1
	if cnt > k {
		a.sigma2 = sse / float64(cnt-k)
	} else if cnt > 0 {
		a.sigma2 = sse / float64(cnt)
	}
}
