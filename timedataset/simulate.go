package timedataset

import (
	"math"
	"math/rand"
	"time"

	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/floats"
)

// GenerateT creates n evenly spaced time points ending at the current time
// truncated to the minute.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

func GenerateNoise(t []time.Time, noiseScale, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		scale := (noiseScale + amp*math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset)))
		y = append(y, rand.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateTrend creates a linear ramp with the given per-step slope.
func GenerateTrend(n int, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, slope*float64(i))
	}
	return Series(y)
}

// GenerateHolidayEffect adds amp on every time point falling on the observed
// date of the given holiday within the time range.
func GenerateHolidayEffect(t []time.Time, hol *cal.Holiday, amp float64) Series {
	n := len(t)
	y := make([]float64, n)
	if n == 0 {
		return Series(y)
	}

	observedDays := make(map[string]struct{})
	for year := t[0].Year(); year <= t[n-1].Year(); year++ {
		_, observed := hol.Calc(year)
		observedDays[observed.Format("2006-01-02")] = struct{}{}
	}

	for i := 0; i < n; i++ {
		if _, exists := observedDays[t[i].Format("2006-01-02")]; exists {
			y[i] = amp
		}
	}
	return Series(y)
}
