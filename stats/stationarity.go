package stats

import (
	"math"

	"github.com/forecastlab/go-statforecast/models"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultMaxDiff caps ordinary differencing during order selection.
	DefaultMaxDiff = 2
	// DefaultMaxSeasonalDiff caps seasonal differencing during order selection.
	DefaultMaxSeasonalDiff = 1

	// seasonalStrengthThreshold is the F_S cutoff above which one more
	// seasonal difference is suggested.
	seasonalStrengthThreshold = 0.64
)

// KPSSResult carries the outcome of the KPSS level-stationarity test. The
// null hypothesis is that the series is stationary.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for level
// stationarity. A p-value below 0.05 rejects stationarity.
func KPSS(y []float64, nlags int) *KPSSResult {
	n := len(y)
	if n < 10 {
		return nil
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	if nlags >= n {
		nlags = n - 1
	}

	mean := stat.Mean(y, nil)
	residuals := make([]float64, n)
	for i, v := range y {
		residuals[i] = v - mean
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// long-run variance with Bartlett weights
	var s2 float64
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		var cov float64
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		weight := 1.0 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	var etaSq float64
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	statistic := etaSq / (float64(n) * float64(n) * s2)

	pValue := kpssPValue(statistic)
	return &KPSSResult{
		Statistic:    statistic,
		PValue:       pValue,
		Lags:         nlags,
		IsStationary: pValue >= 0.05,
	}
}

// kpssPValue interpolates the level-stationarity critical values
// 10%: 0.347, 5%: 0.463, 1%: 0.739.
func kpssPValue(statistic float64) float64 {
	switch {
	case statistic > 0.739:
		return 0.01
	case statistic > 0.463:
		return 0.05
	case statistic > 0.347:
		return 0.10
	default:
		return math.Min(0.10+(0.347-statistic)*0.5, 0.99)
	}
}

// ADFResult carries the outcome of the augmented Dickey-Fuller test. The
// null hypothesis is that the series has a unit root.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	IsStationary bool
}

// ADF performs the augmented Dickey-Fuller unit-root test with a constant
// term. A p-value below 0.05 rejects the unit root.
func ADF(y []float64, maxLag int) *ADFResult {
	n := len(y)
	if n < 10 {
		return nil
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = y[i] - y[i-1]
	}

	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	// regression: dy_t = a + b*y_{t-1} + sum(g_i * dy_{t-i}) + e
	nFeat := 1 + maxLag
	xData := make([]float64, 0, nObs*nFeat)
	yData := make([]float64, 0, nObs)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		yData = append(yData, diff[t])
		xData = append(xData, y[t])
		for j := 1; j <= maxLag; j++ {
			xData = append(xData, diff[t-j])
		}
	}

	x := mat.NewDense(nObs, nFeat, xData)
	target := mat.NewDense(nObs, 1, yData)

	ols, err := models.NewOLSRegression(nil)
	if err != nil {
		return nil
	}
	if err := ols.Fit(x, target); err != nil {
		return nil
	}

	coef := ols.Coef()
	stderr := ols.CoefStdErr()
	if len(coef) == 0 || len(stderr) == 0 || stderr[0] == 0 || math.IsNaN(stderr[0]) {
		return nil
	}
	tStat := coef[0] / stderr[0]

	pValue := adfPValue(tStat)
	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		IsStationary: pValue < 0.05,
	}
}

// adfPValue interpolates MacKinnon critical values for the constant-only
// regression.
func adfPValue(statistic float64) float64 {
	switch {
	case statistic < -3.96:
		return 0.001
	case statistic < -3.43:
		return 0.01
	case statistic < -2.86:
		return 0.05
	case statistic < -2.57:
		return 0.10
	case statistic < -1.94:
		return 0.25
	case statistic < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(statistic+1.62)*0.25, 0.99)
	}
}

// NDiffs returns the number of ordinary differences required for level
// stationarity, capped at maxD. Each non-stationary verdict takes one more
// difference.
func NDiffs(y []float64, maxD int) int {
	if maxD <= 0 {
		maxD = DefaultMaxDiff
	}

	curr := y
	for d := 0; d < maxD; d++ {
		result := KPSS(curr, 0)
		if result == nil || result.IsStationary {
			return d
		}

		next := make([]float64, len(curr)-1)
		for i := 1; i < len(curr); i++ {
			next[i-1] = curr[i] - curr[i-1]
		}
		curr = next
		if len(curr) < 10 {
			return d
		}
	}
	return maxD
}

// NSDiffs returns the number of seasonal differences suggested by the
// seasonal strength measure, capped at maxD.
func NSDiffs(y []float64, period, maxD int) int {
	if maxD <= 0 {
		maxD = DefaultMaxSeasonalDiff
	}
	if period <= 1 || len(y) < 2*period {
		return 0
	}

	curr := y
	for d := 0; d < maxD; d++ {
		if SeasonalStrength(curr, period) < seasonalStrengthThreshold {
			return d
		}

		next := make([]float64, len(curr)-period)
		for i := period; i < len(curr); i++ {
			next[i-period] = curr[i] - curr[i-period]
		}
		curr = next
		if len(curr) < 2*period {
			return d
		}
	}
	return maxD
}

// SeasonalStrength computes F_S = max(0, 1 - Var(R)/Var(S+R)) from a
// classical decomposition.
func SeasonalStrength(y []float64, period int) float64 {
	decomp := Decompose(y, period)
	if decomp == nil {
		return 0
	}

	varR := nanVariance(decomp.Residual)

	seasonalPlusResid := make([]float64, len(decomp.Seasonal))
	for i := range seasonalPlusResid {
		if math.IsNaN(decomp.Seasonal[i]) || math.IsNaN(decomp.Residual[i]) {
			seasonalPlusResid[i] = math.NaN()
			continue
		}
		seasonalPlusResid[i] = decomp.Seasonal[i] + decomp.Residual[i]
	}
	varSR := nanVariance(seasonalPlusResid)
	if varSR == 0 {
		return 0
	}

	strength := 1 - varR/varSR
	if strength < 0 {
		return 0
	}
	return strength
}

func nanVariance(y []float64) float64 {
	valid := make([]float64, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		valid = append(valid, v)
	}
	if len(valid) < 2 {
		return 0
	}
	return stat.Variance(valid, nil)
}
