package timedataset

import (
	"math"
	"time"
)

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}
	return t[len(t)-1]
}

// EstimateFreq returns the most common gap between consecutive time points
// preferring the smallest gap on count ties.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := time.Duration(math.MaxInt64)

	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// Extend appends n evenly spaced time points after the last entry using the
// provided interval.
func (t TimeSlice) Extend(n int, interval time.Duration) TimeSlice {
	if len(t) == 0 || n <= 0 {
		return t
	}
	out := make(TimeSlice, 0, len(t)+n)
	out = append(out, t...)
	last := t[len(t)-1]
	for i := 1; i <= n; i++ {
		out = append(out, last.Add(time.Duration(i)*interval))
	}
	return out
}
