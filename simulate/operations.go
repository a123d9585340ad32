package simulate

import (
	"math"

	"github.com/quantcore/riskengine/instruments"
	"github.com/quantcore/riskengine/market"
	"github.com/quantcore/riskengine/models"
	"github.com/quantcore/riskengine/rerrors"
)

const tradingDaysPerYear = 252

// stressBaseVol and stressBaseRate are the reference points StressShock
// applies its delta on top of, per spec: base vol 0.20, base rate 0.05.
const (
	stressBaseVol  = 0.20
	stressBaseRate = 0.05
)

// MonteCarloStep mutates instrument one step of length dt forward under
// model, reading r/sigma from env when the instrument's ticker is
// known to it. It is total over the instrument variant set. A Bond has
// no short-rate model here: its rate move is a synthetic increment, the
// change of a unit GBM step scaled by 0.1.
func MonteCarloStep(inst instruments.Instrument, model models.Model, env *market.Environment, dt float64) error {
	switch v := inst.(type) {
	case *instruments.Stock:
		r, sigma := stockRateAndVol(v.TickerID, env)
		newPrice, err := model.SimulateStep(v.Last, r, sigma, dt)
		if err != nil {
			return rerrors.WithID(rerrors.NumericalError, v.TickerID, err.Error())
		}
		v.Last = newPrice
		return nil

	case *instruments.Option:
		v.TTE = math.Max(0, v.TTE-dt)
		if v.TTE > 0 {
			r := env.GetYieldCurve(defaultCurrency).GetRate(v.TTE)
			sigma := env.GetVolSurface(v.Underlying.TickerID).GetVol(v.Strike, v.TTE)
			price, err := model.PriceOption(v.Underlying.Last, v.Strike, v.TTE, r, sigma, v.Type == instruments.Call)
			if err != nil {
				return rerrors.WithID(rerrors.NumericalError, v.TickerID, err.Error())
			}
			v.Premium = price
		} else {
			v.Premium = v.Intrinsic()
		}
		return nil

	case *instruments.Bond:
		r, _ := stockRateAndVol(v.TickerID, env)
		notional, err := model.SimulateStep(1, r, stressBaseVol, dt)
		if err != nil {
			return rerrors.WithID(rerrors.NumericalError, v.TickerID, err.Error())
		}
		epsilon := (notional - 1) * 0.1
		v.Clean = v.Clean*(1-v.Duration*epsilon) + v.CouponRate*dt*100
		return nil

	default:
		return rerrors.Newf(rerrors.InvalidInput, "unknown instrument variant %T", inst)
	}
}

func stockRateAndVol(ticker string, env *market.Environment) (float64, float64) {
	r := env.GetYieldCurve(defaultCurrency).GetRate(0)
	sigma := env.GetVolSurface(ticker).ATMVol(0)
	return r, sigma
}

// HistoricalStep mutates instrument by replaying returns[dayIdx %
// len(returns)] as that day's market move.
func HistoricalStep(inst instruments.Instrument, returns []float64, dayIdx int) error {
	if len(returns) == 0 {
		return rerrors.New(rerrors.InvalidInput, "empty historical returns series")
	}
	idx := dayIdx % len(returns)
	ret := returns[idx]

	switch v := inst.(type) {
	case *instruments.Stock:
		v.Last = v.Last * (1 + ret)
		return nil

	case *instruments.Option:
		v.TTE = math.Max(0, v.TTE-1.0/tradingDaysPerYear)
		v.Premium = math.Max(v.Intrinsic(), 0.99*v.Premium)
		return nil

	case *instruments.Bond:
		v.Clean = v.Clean*(1-v.Duration*0.1*ret) + v.CouponRate*(1.0/tradingDaysPerYear)*100
		return nil

	default:
		return rerrors.Newf(rerrors.InvalidInput, "unknown instrument variant %T", inst)
	}
}

// StressShock mutates instrument under a parallel spot/vol/rate shock.
// dPrice, dVol, dRate are additive deltas on top of the stress
// baselines (spot: multiplicative 1+dPrice; vol/rate: base 0.20/0.05 +
// delta).
func StressShock(inst instruments.Instrument, model models.Model, dPrice, dVol, dRate float64) error {
	switch v := inst.(type) {
	case *instruments.Stock:
		v.Last = v.Last * (1 + dPrice)
		return nil

	case *instruments.Option:
		sigma := stressBaseVol + dVol
		r := stressBaseRate + dRate
		price, err := model.PriceOption(v.Underlying.Last, v.Strike, v.TTE, r, sigma, v.Type == instruments.Call)
		if err != nil {
			return rerrors.WithID(rerrors.NumericalError, v.TickerID, err.Error())
		}
		v.Premium = price
		return nil

	case *instruments.Bond:
		v.Clean = v.Clean * (1 - v.Duration*dRate)
		return nil

	default:
		return rerrors.Newf(rerrors.InvalidInput, "unknown instrument variant %T", inst)
	}
}

// GreeksOf returns the Greeks of a single instrument under model. When
// env is non-nil, an Option's r/sigma are read from it (rate at the
// option's expiry, vol at strike/expiry); otherwise the stress baselines (r=0.05,
// sigma=0.20) are used. Stocks carry unit Delta and nothing else; Bonds
// carry a duration Theta/Rho proxy and nothing else.
func GreeksOf(inst instruments.Instrument, model models.Model, env *market.Environment) (models.Greeks, error) {
	switch v := inst.(type) {
	case *instruments.Stock:
		return models.Greeks{Delta: 1}, nil

	case *instruments.Option:
		r, sigma := stressBaseRate, stressBaseVol
		if env != nil {
			r = env.GetYieldCurve(defaultCurrency).GetRate(v.TTE)
			sigma = env.GetVolSurface(v.Underlying.TickerID).GetVol(v.Strike, v.TTE)
		}
		return model.CalculateGreeks(v.Underlying.Last, v.Strike, v.TTE, r, sigma, v.Type == instruments.Call)

	case *instruments.Bond:
		return models.Greeks{
			Theta: v.CouponRate / 365,
			Rho:   -v.Duration * v.Clean,
		}, nil

	default:
		return models.Greeks{}, rerrors.Newf(rerrors.InvalidInput, "unknown instrument variant %T", inst)
	}
}
