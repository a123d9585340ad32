package market

import (
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// GARCH11 holds fitted GARCH(1,1) parameters: variance_t = Omega +
// Alpha*return_{t-1}^2 + Beta*variance_{t-1}.
type GARCH11 struct {
	Omega, Alpha, Beta float64
}

// conditionalVariances walks the GARCH(1,1) recursion over returns,
// seeding the unconditional variance Omega/(1-Alpha-Beta) and
// returning the full variance path; LogLikelihood sums over this path
// and ConditionalVolatility reads its last entry.
func (g GARCH11) conditionalVariances(returns []float64) []float64 {
	n := len(returns)
	path := make([]float64, n)
	if n == 0 {
		return path
	}
	path[0] = g.Omega / (1 - g.Alpha - g.Beta)
	for i := 1; i < n; i++ {
		path[i] = g.Omega + g.Alpha*returns[i-1]*returns[i-1] + g.Beta*path[i-1]
	}
	return path
}

// LogLikelihood computes the Gaussian log-likelihood of returns under g.
func (g GARCH11) LogLikelihood(returns []float64) float64 {
	variances := g.conditionalVariances(returns)
	logLik := 0.0
	for i := 1; i < len(returns); i++ {
		v := variances[i]
		logLik += -0.5*math.Log(2*math.Pi) - 0.5*math.Log(v) - 0.5*returns[i]*returns[i]/v
	}
	return logLik
}

// ConditionalVolatility returns the annualized conditional volatility
// implied by g given the return history.
func (g GARCH11) ConditionalVolatility(returns []float64) float64 {
	variances := g.conditionalVariances(returns)
	if len(variances) == 0 {
		return 0
	}
	return math.Sqrt(variances[len(variances)-1] * 252)
}

const (
	garchMCMCIterations = 2000
	garchMCMCBurnIn     = 200
	garchMCMCStepSize   = 0.01
)

// sampleGARCHPosterior runs a random-walk Metropolis chain over
// (Omega, Alpha, Beta) targeting the Gaussian GARCH(1,1) likelihood,
// rejecting any proposal that leaves the stationarity region
// Alpha+Beta < 1. It returns the post-burn-in average as a warm start
// for Nelder-Mead refinement.
func sampleGARCHPosterior(returns []float64, seed GARCH11) GARCH11 {
	step := distuv.Normal{Mu: 0, Sigma: garchMCMCStepSize}
	uniform := distuv.Uniform{Min: 0, Max: 1}

	current := seed
	var sumOmega, sumAlpha, sumBeta float64
	kept := 0

	for i := 1; i < garchMCMCIterations; i++ {
		proposal := GARCH11{
			Omega: current.Omega + step.Rand(),
			Alpha: current.Alpha + step.Rand(),
			Beta:  current.Beta + step.Rand(),
		}
		if proposal.Omega > 0 && proposal.Alpha >= 0 && proposal.Beta >= 0 && proposal.Alpha+proposal.Beta < 1 {
			logAcceptProb := proposal.LogLikelihood(returns) - current.LogLikelihood(returns)
			if math.Log(uniform.Rand()) < logAcceptProb {
				current = proposal
			}
		}
		if i >= garchMCMCBurnIn {
			sumOmega += current.Omega
			sumAlpha += current.Alpha
			sumBeta += current.Beta
			kept++
		}
	}

	return GARCH11{Omega: sumOmega / float64(kept), Alpha: sumAlpha / float64(kept), Beta: sumBeta / float64(kept)}
}

// EstimateGARCH11 fits GARCH(1,1) parameters by MCMC warm-start
// followed by Nelder-Mead refinement of the log-likelihood. Both stages
// keep the parameters inside the region Omega > 0, Alpha >= 0,
// Beta >= 0, Alpha+Beta < 1; a refined point outside it is discarded in
// favour of the warm start.
func EstimateGARCH11(returns []float64) GARCH11 {
	initialGuess := GARCH11{Omega: 0.000001, Alpha: 0.1, Beta: 0.8}
	if len(returns) < 2 {
		return initialGuess
	}

	warmStart := sampleGARCHPosterior(returns, initialGuess)

	admissible := func(g GARCH11) bool {
		return g.Omega > 0 && g.Alpha >= 0 && g.Beta >= 0 && g.Alpha+g.Beta < 1
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			g := GARCH11{Omega: x[0], Alpha: x[1], Beta: x[2]}
			if !admissible(g) {
				return math.Inf(1)
			}
			return -g.LogLikelihood(returns)
		},
	}
	result, err := optimize.Minimize(problem, []float64{warmStart.Omega, warmStart.Alpha, warmStart.Beta}, nil, &optimize.NelderMead{})
	if err != nil {
		// Nelder-Mead failed to converge from the MCMC warm start; the
		// warm start itself is already a usable estimate.
		return warmStart
	}
	fitted := GARCH11{Omega: result.X[0], Alpha: result.X[1], Beta: result.X[2]}
	if !admissible(fitted) {
		return warmStart
	}
	return fitted
}

// EstimateGARCHVolatility fits GARCH(1,1) to returns and returns its
// annualized conditional volatility, for seeding a VolatilitySurface
// from historical underlying returns (not from market quotes).
func EstimateGARCHVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return EstimateGARCH11(returns).ConditionalVolatility(returns)
}

// NewVolatilitySurfaceFromReturns builds a flat surface at the
// GARCH(1,1) conditional volatility implied by a historical return
// series, for seeding an Environment before any option-quote-derived
// surface is available. Falls back to DefaultVol if returns are too
// short to fit.
func NewVolatilitySurfaceFromReturns(returns []float64) VolatilitySurface {
	vol := EstimateGARCHVolatility(returns)
	if vol <= 0 {
		vol = DefaultVol
	}
	return NewFlatVolatilitySurface(vol)
}
