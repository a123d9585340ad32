// Package simulate implements the multi-asset correlated simulator and
// the revaluation operations (Monte Carlo step, historical replay,
// stress shock, Greeks aggregation, VaR) dispatched over the closed
// instruments.Instrument variant set, plus the Driver that orchestrates
// them across a set of portfolios.
package simulate

import (
	"github.com/quantcore/riskengine/market"
	"github.com/quantcore/riskengine/models"
	"github.com/quantcore/riskengine/rerrors"
	"golang.org/x/exp/rand"
)

// defaultCurrency is the currency whose yield curve supplies the
// short-end rate for stock simulation steps; instruments in this model
// are ticker-keyed, not currency-keyed, so one global short rate is
// used across the simulated universe.
const defaultCurrency = "USD"

// MultiAssetSimulator advances a set of stock prices one step jointly,
// drawing independent standard normals and correlating them through
// the environment's correlation matrix when one covers the requested
// tickers.
type MultiAssetSimulator struct {
	model models.Model
	rng   *rand.Rand
}

// NewMultiAssetSimulator builds a simulator bound to model, with its
// own independently seeded RNG.
func NewMultiAssetSimulator(model models.Model, seed uint64) *MultiAssetSimulator {
	return &MultiAssetSimulator{
		model: model,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// SetSeed reseeds the simulator's own shock-generating RNG. It does not
// reseed the bound model.
func (s *MultiAssetSimulator) SetSeed(seed uint64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Step advances every ticker in prices by dt, returning the new prices
// keyed the same way. Tickers are processed in a stable ascending order
// so the draw of independent normals is deterministic for a given seed
// and ticker set.
func (s *MultiAssetSimulator) Step(prices map[string]float64, dt float64, env *market.Environment) (map[string]float64, error) {
	tickers := make([]string, 0, len(prices))
	for t := range prices {
		tickers = append(tickers, t)
	}
	tickers = market.OrderedTickers(tickers)
	n := len(tickers)

	z := make([]float64, n)
	for i := range z {
		z[i] = s.rng.NormFloat64()
	}

	corr := env.Correlation()
	if corr != nil && corr.Covers(tickers) {
		correlated, err := correlateOrdered(corr, tickers, z)
		if err != nil {
			return nil, err
		}
		z = correlated
	}

	curve := env.GetYieldCurve(defaultCurrency)
	r := curve.GetRate(0)

	out := make(map[string]float64, n)
	for i, ticker := range tickers {
		surface := env.GetVolSurface(ticker)
		sigma := surface.ATMVol(0)

		newPrice, err := s.model.SimulateStepWithShock(prices[ticker], r, sigma, dt, z[i])
		if err != nil {
			return nil, rerrors.WithID(rerrors.NumericalError, ticker, err.Error())
		}
		out[ticker] = newPrice
	}
	return out, nil
}

// correlateOrdered transforms z (drawn in tickers order) through the
// correlation matrix's own internal ordering, returning the result back
// in tickers order.
func correlateOrdered(corr *market.CorrelationMatrix, tickers []string, z []float64) ([]float64, error) {
	matrixOrder := corr.Tickers()
	posInZ := make(map[string]int, len(tickers))
	for i, t := range tickers {
		posInZ[t] = i
	}

	reordered := make([]float64, len(matrixOrder))
	for i, t := range matrixOrder {
		reordered[i] = z[posInZ[t]]
	}

	correlated, err := corr.Correlate(reordered)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(tickers))
	for i, t := range matrixOrder {
		out[posInZ[t]] = correlated[i]
	}
	return out, nil
}
