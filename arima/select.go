package arima

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/forecastlab/go-statforecast/stats"
	"github.com/forecastlab/go-statforecast/timedataset"
)

// Selection limits for the automatic order search. The grid is a stepwise
// expansion around small orders rather than an exhaustive scan.
const (
	MaxP  = 5
	MaxQ  = 5
	MaxSP = 2
	MaxSQ = 2
)

// AutoOptions configures the automatic order search.
type AutoOptions struct {
	// Period enables the seasonal part of the search when at least 2.
	Period int `json:"period"`

	// MaxP, MaxQ, MaxSP, MaxSQ bound the candidate orders. Zero values take
	// the package defaults.
	MaxP  int `json:"max_p"`
	MaxQ  int `json:"max_q"`
	MaxSP int `json:"max_sp"`
	MaxSQ int `json:"max_sq"`

	// AllowDrift considers drift candidates when exactly one total
	// difference was taken.
	AllowDrift bool `json:"allow_drift"`
}

// NewDefaultAutoOptions returns a non-seasonal search with drift candidates.
func NewDefaultAutoOptions() *AutoOptions {
	return &AutoOptions{
		MaxP:       MaxP,
		MaxQ:       MaxQ,
		MaxSP:      MaxSP,
		MaxSQ:      MaxSQ,
		AllowDrift: true,
	}
}

func (o *AutoOptions) fill() {
	if o.MaxP <= 0 {
		o.MaxP = MaxP
	}
	if o.MaxQ <= 0 {
		o.MaxQ = MaxQ
	}
	if o.MaxSP <= 0 {
		o.MaxSP = MaxSP
	}
	if o.MaxSQ <= 0 {
		o.MaxSQ = MaxSQ
	}
}

// AutoFit searches for the ARIMA order with the lowest corrected AIC.
// Differencing orders are chosen up front, d by repeated KPSS testing and D
// by the seasonal strength measure, then each candidate (p,q)(P,Q) is fit on
// the same differenced data. Ties on AICc go to the model with fewer
// coefficients.
func AutoFit(t []time.Time, y []float64, opt *AutoOptions) (*ARIMA, error) {
	if opt == nil {
		opt = NewDefaultAutoOptions()
	}
	opt.fill()

	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return nil, fmt.Errorf("unable to create training dataset, %w", err)
	}
	td, err = td.Trim()
	if err != nil {
		return nil, err
	}

	var seasonalD int
	if opt.Period >= 2 {
		seasonalD = stats.NSDiffs(td.Y, opt.Period, stats.DefaultMaxSeasonalDiff)
	}
	deseasoned := td.Y
	if seasonalD > 0 {
		deseasoned, _, err = timedataset.Difference(td.Y, 0, seasonalD, opt.Period)
		if err != nil {
			return nil, err
		}
	}
	d := stats.NDiffs(deseasoned, stats.DefaultMaxDiff)

	if kpss := stats.KPSS(differenceBy(deseasoned, d), 0); kpss != nil && !kpss.IsStationary {
		slog.Warn("series still non-stationary after maximum differencing",
			"d", d, "seasonal_d", seasonalD, "kpss_statistic", kpss.Statistic)
	}

	best, err := searchOrders(td, d, seasonalD, opt)
	if err != nil {
		return nil, err
	}
	return best, nil
}

func differenceBy(y []float64, d int) []float64 {
	curr := y
	for i := 0; i < d && len(curr) > 1; i++ {
		next := make([]float64, len(curr)-1)
		for j := 1; j < len(curr); j++ {
			next[j-1] = curr[j] - curr[j-1]
		}
		curr = next
	}
	return curr
}

type candidate struct {
	order Order
	drift bool
}

// searchOrders fits every candidate in the (p,q)(P,Q) grid and keeps the
// AICc minimum. Candidates that fail to fit are skipped.
func searchOrders(td *timedataset.TimeDataset, d, seasonalD int, opt *AutoOptions) (*ARIMA, error) {
	seasonal := opt.Period >= 2
	maxSP, maxSQ := 0, 0
	if seasonal {
		maxSP, maxSQ = opt.MaxSP, opt.MaxSQ
	}

	var candidates []candidate
	for p := 0; p <= opt.MaxP; p++ {
		for q := 0; q <= opt.MaxQ; q++ {
			for sp := 0; sp <= maxSP; sp++ {
				for sq := 0; sq <= maxSQ; sq++ {
					order := Order{P: p, D: d, Q: q, SP: sp, SD: seasonalD, SQ: sq}
					if seasonal || seasonalD > 0 {
						order.M = opt.Period
					}
					candidates = append(candidates, candidate{order: order})
					if opt.AllowDrift && d+seasonalD == 1 {
						candidates = append(candidates, candidate{order: order, drift: true})
					}
				}
			}
		}
	}

	var (
		best     *ARIMA
		bestAICc = math.Inf(1)
	)
	for _, cand := range candidates {
		model, err := New(&Options{Order: cand.order, Drift: cand.drift})
		if err != nil {
			continue
		}
		if err := model.Fit(td.T, td.Y); err != nil {
			slog.Debug("candidate order failed to fit",
				"order", cand.order, "drift", cand.drift, "error", err)
			continue
		}

		aicc := model.AICc()
		slog.Debug("candidate order scored",
			"order", cand.order, "drift", cand.drift, "aicc", aicc)

		switch {
		case aicc < bestAICc:
			best, bestAICc = model, aicc
		case aicc == bestAICc && best != nil &&
			cand.order.NumParams() < best.opt.Order.NumParams():
			best = model
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no candidate order could be fit, %w", ErrInsufficientData)
	}
	return best, nil
}
