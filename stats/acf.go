package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ACF computes the autocorrelation function up to maxLag. The returned slice
// has maxLag+1 entries with index 0 always equal to 1.
func ACF(y []float64, maxLag int) []float64 {
	n := len(y)
	if n == 0 || maxLag < 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mean := stat.Mean(y, nil)
	var c0 float64
	for _, v := range y {
		c0 += (v - mean) * (v - mean)
	}

	acf := make([]float64, maxLag+1)
	acf[0] = 1.0
	if c0 == 0 {
		for k := 1; k <= maxLag; k++ {
			acf[k] = math.NaN()
		}
		return acf
	}

	for k := 1; k <= maxLag; k++ {
		var ck float64
		for t := k; t < n; t++ {
			ck += (y[t] - mean) * (y[t-k] - mean)
		}
		acf[k] = ck / c0
	}
	return acf
}

// PACF computes the partial autocorrelation function up to maxLag using the
// Levinson-Durbin recursion over the sample ACF.
func PACF(y []float64, maxLag int) []float64 {
	acf := ACF(y, maxLag)
	if acf == nil {
		return nil
	}
	maxLag = len(acf) - 1

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1.0
	if maxLag == 0 {
		return pacf
	}

	phi := make([]float64, maxLag+1)
	prev := make([]float64, maxLag+1)

	phi[1] = acf[1]
	pacf[1] = acf[1]
	v := 1 - acf[1]*acf[1]

	for k := 2; k <= maxLag; k++ {
		copy(prev, phi)

		lambda := acf[k]
		for j := 1; j < k; j++ {
			lambda -= prev[j] * acf[k-j]
		}
		if v <= 0 {
			pacf[k] = math.NaN()
			continue
		}
		lambda /= v

		phi[k] = lambda
		for j := 1; j < k; j++ {
			phi[j] = prev[j] - lambda*prev[k-j]
		}
		v *= 1 - lambda*lambda
		pacf[k] = lambda
	}
	return pacf
}

// LevinsonDurbin solves the Yule-Walker equations for an AR(order) model
// given a sample ACF with at least order+1 entries.
func LevinsonDurbin(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		if v <= 0 {
			break
		}
		lambda /= v

		newPhi := make([]float64, i+1)
		for j := 0; j < i; j++ {
			newPhi[j] = phi[j] - lambda*phi[i-1-j]
		}
		newPhi[i] = lambda
		copy(phi, newPhi)

		v *= 1 - lambda*lambda
	}
	return phi
}

// LjungBoxResult carries the portmanteau test outcome on a residual series.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox tests residuals for remaining autocorrelation up to the given
// number of lags. fittedParams reduces the degrees of freedom.
func LjungBox(residuals []float64, lags, fittedParams int) *LjungBoxResult {
	n := len(residuals)
	if n <= lags || lags < 1 {
		return nil
	}

	acf := ACF(residuals, lags)
	var q float64
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := lags - fittedParams
	if dof < 1 {
		dof = 1
	}
	chi2 := distuv.ChiSquared{K: float64(dof)}
	pValue := 1 - chi2.CDF(q)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    pValue,
		Lags:      lags,
		DOF:       dof,
	}
}
