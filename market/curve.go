package market

import (
	"math"

	"github.com/quantcore/riskengine/rerrors"
)

// YieldCurve is either a flat rate or an ordered term structure of
// (tenor, zero-rate) pairs. Tenors are in years and must be strictly
// increasing.
type YieldCurve struct {
	flat    bool
	rate    float64
	tenors  []float64
	rates   []float64
}

// NewFlatYieldCurve builds a flat-rate curve.
func NewFlatYieldCurve(rate float64) YieldCurve {
	return YieldCurve{flat: true, rate: rate}
}

// NewYieldCurve builds a term-structured curve from tenors and zero
// rates. tenors must be strictly increasing and the same length as rates.
func NewYieldCurve(tenors, rates []float64) (YieldCurve, error) {
	if len(tenors) != len(rates) {
		return YieldCurve{}, rerrors.Newf(rerrors.InvalidInput, "tenor/rate length mismatch: %d vs %d", len(tenors), len(rates))
	}
	if len(tenors) == 0 {
		return YieldCurve{}, rerrors.New(rerrors.InvalidInput, "empty yield curve")
	}
	for i := 1; i < len(tenors); i++ {
		if tenors[i] <= tenors[i-1] {
			return YieldCurve{}, rerrors.Newf(rerrors.InvalidInput, "tenors must be strictly increasing at index %d", i)
		}
	}
	tc := make([]float64, len(tenors))
	rc := make([]float64, len(rates))
	copy(tc, tenors)
	copy(rc, rates)
	return YieldCurve{tenors: tc, rates: rc}, nil
}

// GetRate returns the zero rate at maturity T, linearly interpolated
// between bracketing tenors, flat-extrapolated outside the grid.
func (c YieldCurve) GetRate(T float64) float64 {
	if c.flat {
		return c.rate
	}
	n := len(c.tenors)
	if T <= c.tenors[0] {
		return c.rates[0]
	}
	if T >= c.tenors[n-1] {
		return c.rates[n-1]
	}
	for i := 1; i < n; i++ {
		if T <= c.tenors[i] {
			t0, t1 := c.tenors[i-1], c.tenors[i]
			r0, r1 := c.rates[i-1], c.rates[i]
			w := (T - t0) / (t1 - t0)
			return r0 + w*(r1-r0)
		}
	}
	return c.rates[n-1]
}

// DiscountFactor returns exp(-r(T)*T).
func (c YieldCurve) DiscountFactor(T float64) float64 {
	return math.Exp(-c.GetRate(T) * T)
}

// ForwardRate returns the forward rate between T1 and T2.
func (c YieldCurve) ForwardRate(T1, T2 float64) float64 {
	return math.Log(c.DiscountFactor(T1)/c.DiscountFactor(T2)) / (T2 - T1)
}

// Bump shifts every rate (or the flat rate) by delta and returns the
// bumped curve.
func (c YieldCurve) Bump(delta float64) YieldCurve {
	if c.flat {
		return NewFlatYieldCurve(c.rate + delta)
	}
	bumped := make([]float64, len(c.rates))
	for i, r := range c.rates {
		bumped[i] = r + delta
	}
	return YieldCurve{tenors: c.tenors, rates: bumped}
}
