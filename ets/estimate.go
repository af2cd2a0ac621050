package ets

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

var gridSeeds = []float64{0.1, 0.3, 0.5, 0.7, 0.9}

// freeParams lists which smoothing parameters the options leave to be
// estimated, in alpha, beta, gamma, phi order.
type freeParams struct {
	alpha bool
	beta  bool
	gamma bool
	phi   bool
}

func (f freeParams) count() int {
	var n int
	for _, free := range []bool{f.alpha, f.beta, f.gamma, f.phi} {
		if free {
			n++
		}
	}
	return n
}

// resolve merges a candidate vector of free parameter values with the fixed
// options.
func (e *ETS) resolve(free freeParams, x []float64) params {
	p := params{
		alpha: e.opt.Alpha,
		beta:  e.opt.Beta,
		gamma: e.opt.Gamma,
		phi:   e.opt.Phi,
	}
	var i int
	if free.alpha {
		p.alpha = x[i]
		i++
	}
	if free.beta {
		p.beta = x[i]
		i++
	}
	if free.gamma {
		p.gamma = x[i]
		i++
	}
	if free.phi {
		p.phi = x[i]
	}
	if math.IsNaN(p.beta) {
		p.beta = 0
	}
	if math.IsNaN(p.gamma) {
		p.gamma = 0
	}
	if math.IsNaN(p.phi) {
		p.phi = 1.0
	}
	return p
}

func validParams(p params, opt *Options) bool {
	if p.alpha < 0 || p.alpha > 1 {
		return false
	}
	if opt.Trend != ComponentNone && (p.beta < 0 || p.beta > 1) {
		return false
	}
	if opt.Seasonal != ComponentNone && (p.gamma < 0 || p.gamma > 1) {
		return false
	}
	if opt.Damped && (p.phi <= 0 || p.phi >= 1) {
		return false
	}
	return true
}

// estimate resolves the smoothing parameters by minimizing the training SSE.
// A coarse grid seeds a Nelder-Mead refinement. Parameters fixed in the
// options are passed through untouched.
func (e *ETS) estimate(y []float64) (params, error) {
	free := freeParams{
		alpha: math.IsNaN(e.opt.Alpha),
		beta:  e.opt.Trend != ComponentNone && math.IsNaN(e.opt.Beta),
		gamma: e.opt.Seasonal != ComponentNone && math.IsNaN(e.opt.Gamma),
		phi:   e.opt.Damped && math.IsNaN(e.opt.Phi),
	}

	if free.count() == 0 {
		return e.resolve(free, nil), nil
	}

	objective := func(x []float64) float64 {
		p := e.resolve(free, x)
		if !validParams(p, e.opt) {
			return math.Inf(1)
		}
		return smooth(y, e.opt, p).sse
	}

	best := e.gridSearch(free, objective)

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, best, nil, &optimize.NelderMead{})
	if err != nil || result == nil {
		// fall back to the grid winner when the simplex stalls
		return e.resolve(free, best), nil
	}
	if objective(result.X) <= objective(best) {
		return e.resolve(free, result.X), nil
	}
	return e.resolve(free, best), nil
}

// gridSearch exhaustively evaluates the coarse seed grid over the free
// parameters returning the vector with the lowest SSE.
func (e *ETS) gridSearch(free freeParams, objective func([]float64) float64) []float64 {
	n := free.count()
	curr := make([]float64, n)
	best := make([]float64, n)
	bestSSE := math.Inf(1)

	var walk func(dim int)
	walk = func(dim int) {
		if dim == n {
			if sse := objective(curr); sse < bestSSE {
				bestSSE = sse
				copy(best, curr)
			}
			return
		}
		for _, seed := range gridSeeds {
			curr[dim] = seed
			walk(dim + 1)
		}
	}
	walk(0)
	return best
}
