package market

import "github.com/quantcore/riskengine/rerrors"

const (
	// DefaultYieldRate is the flat rate used for currencies with no
	// explicit yield curve.
	DefaultYieldRate = 0.05
	// DefaultVol is the flat vol used for tickers with no explicit
	// volatility surface.
	DefaultVol = 0.20
)

// Environment aggregates curves, surfaces, spots, and correlation,
// keyed by currency or ticker.
type Environment struct {
	yieldCurves map[string]YieldCurve
	volSurfaces map[string]VolatilitySurface
	dividends   map[string]DividendCurve
	spots       map[string]float64
	correlation *CorrelationMatrix

	// ValuationDate is years since epoch, advanced by AdvanceTime.
	ValuationDate float64
}

// NewEnvironment builds an empty environment with the default flat USD
// curve and defaults applied lazily per-ticker on lookup.
func NewEnvironment() *Environment {
	return &Environment{
		yieldCurves: make(map[string]YieldCurve),
		volSurfaces: make(map[string]VolatilitySurface),
		dividends:   make(map[string]DividendCurve),
		spots:       make(map[string]float64),
	}
}

// SetYieldCurve installs the yield curve for a currency.
func (e *Environment) SetYieldCurve(ccy string, curve YieldCurve) {
	e.yieldCurves[ccy] = curve
}

// GetYieldCurve returns the currency's curve, or a default flat 5%
// curve if the currency is unknown — no failure.
func (e *Environment) GetYieldCurve(ccy string) YieldCurve {
	if c, ok := e.yieldCurves[ccy]; ok {
		return c
	}
	return NewFlatYieldCurve(DefaultYieldRate)
}

// SetVolSurface installs the volatility surface for a ticker.
func (e *Environment) SetVolSurface(ticker string, surface VolatilitySurface) {
	e.volSurfaces[ticker] = surface
}

// RefreshVolFromReturns re-estimates ticker's volatility surface as a
// flat GARCH(1,1) conditional volatility fitted to a historical return
// series, replacing whatever surface (if any) was previously set.
func (e *Environment) RefreshVolFromReturns(ticker string, returns []float64) {
	e.SetVolSurface(ticker, NewVolatilitySurfaceFromReturns(returns))
}

// RefreshVolFromBars re-estimates ticker's volatility surface as a flat
// Yang-Zhang volatility fitted to a history of daily OHLC bars,
// replacing whatever surface (if any) was previously set.
func (e *Environment) RefreshVolFromBars(ticker string, bars []Bar) {
	e.SetVolSurface(ticker, NewVolatilitySurfaceFromBars(bars))
}

// GetVolSurface returns the ticker's surface, or a default flat 20%
// surface if unknown.
func (e *Environment) GetVolSurface(ticker string) VolatilitySurface {
	if s, ok := e.volSurfaces[ticker]; ok {
		return s
	}
	return NewFlatVolatilitySurface(DefaultVol)
}

// SetDividendCurve installs the dividend curve for a ticker.
func (e *Environment) SetDividendCurve(ticker string, curve DividendCurve) {
	e.dividends[ticker] = curve
}

// GetDividendCurve returns the ticker's dividend curve, or zero yield
// with no schedule if unknown.
func (e *Environment) GetDividendCurve(ticker string) DividendCurve {
	if d, ok := e.dividends[ticker]; ok {
		return d
	}
	return NewDividendCurve(0, nil)
}

// SetSpot installs the current spot price for a ticker.
func (e *Environment) SetSpot(ticker string, price float64) {
	e.spots[ticker] = price
}

// GetSpot returns the spot price for ticker, failing with UnknownTicker
// if it has never been set.
func (e *Environment) GetSpot(ticker string) (float64, error) {
	p, ok := e.spots[ticker]
	if !ok {
		return 0, rerrors.WithID(rerrors.UnknownTicker, ticker, "no spot price set")
	}
	return p, nil
}

// SetCorrelationMatrix installs the correlation matrix used for
// multi-asset simulation.
func (e *Environment) SetCorrelationMatrix(cm *CorrelationMatrix) {
	e.correlation = cm
}

// Correlation returns the installed correlation matrix, or nil if none
// has been set.
func (e *Environment) Correlation() *CorrelationMatrix {
	return e.correlation
}

// BumpRates shifts every yield curve (across every currency) by delta.
func (e *Environment) BumpRates(delta float64) {
	for ccy, c := range e.yieldCurves {
		e.yieldCurves[ccy] = c.Bump(delta)
	}
}

// BumpVols shifts every volatility surface (across every ticker) by
// delta.
func (e *Environment) BumpVols(delta float64) {
	for ticker, s := range e.volSurfaces {
		e.volSurfaces[ticker] = s.Bump(delta)
	}
}

// ShockSpots scales every tracked spot price by (1+pct).
func (e *Environment) ShockSpots(pct float64) {
	for ticker, p := range e.spots {
		e.spots[ticker] = p * (1 + pct)
	}
}

// AdvanceTime moves the valuation date forward by dt years.
func (e *Environment) AdvanceTime(dt float64) {
	e.ValuationDate += dt
}

// Tickers returns every ticker this environment has a spot for.
func (e *Environment) Tickers() []string {
	out := make([]string, 0, len(e.spots))
	for t := range e.spots {
		out = append(out, t)
	}
	return out
}
