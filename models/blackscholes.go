package models

import (
	"math"

	"github.com/quantcore/riskengine/rerrors"
	"golang.org/x/exp/rand"
)

// BlackScholesModel prices European options in closed form and steps
// prices via Geometric Brownian Motion.
type BlackScholesModel struct {
	rng *rand.Rand
}

// NewBlackScholesModel builds a model seeded from seed.
func NewBlackScholesModel(seed uint64) *BlackScholesModel {
	return &BlackScholesModel{rng: rand.New(rand.NewSource(seed))}
}

func (m *BlackScholesModel) SetSeed(seed uint64) {
	m.rng = rand.New(rand.NewSource(seed))
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

func validateOptionInputs(S, K, sigma float64) error {
	if S <= 0 {
		return rerrors.New(rerrors.InvalidInput, "spot must be positive")
	}
	if K <= 0 {
		return rerrors.New(rerrors.InvalidInput, "strike must be positive")
	}
	if sigma < 0 {
		return rerrors.New(rerrors.InvalidInput, "volatility must be non-negative")
	}
	return nil
}

func validateStepInputs(price, sigma float64) error {
	if price <= 0 {
		return rerrors.New(rerrors.InvalidInput, "price must be positive")
	}
	if sigma < 0 {
		return rerrors.New(rerrors.InvalidInput, "volatility must be non-negative")
	}
	return nil
}

// PriceOption returns the Black-Scholes price of a European option. At
// T<=0 the price is intrinsic value.
func (m *BlackScholesModel) PriceOption(S, K, T, r, sigma float64, isCall bool) (float64, error) {
	if err := validateOptionInputs(S, K, sigma); err != nil {
		return 0, err
	}
	if T <= 0 {
		if isCall {
			return math.Max(0, S-K), nil
		}
		return math.Max(0, K-S), nil
	}

	d1, d2 := d1d2(S, K, T, r, sigma)
	if isCall {
		return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2), nil
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1), nil
}

func d1d2(S, K, T, r, sigma float64) (float64, float64) {
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)
	return d1, d2
}

// CalculateGreeks returns the Black-Scholes Greeks. At T<=0 only Delta
// is defined (the rest are zero).
func (m *BlackScholesModel) CalculateGreeks(S, K, T, r, sigma float64, isCall bool) (Greeks, error) {
	if err := validateOptionInputs(S, K, sigma); err != nil {
		return Greeks{}, err
	}
	if T <= 0 {
		var delta float64
		if isCall {
			if S > K {
				delta = 1
			}
		} else {
			if S < K {
				delta = -1
			}
		}
		return Greeks{Delta: delta}, nil
	}

	d1, d2 := d1d2(S, K, T, r, sigma)
	sqrtT := math.Sqrt(T)
	pdf1 := normPDF(d1)

	gamma := pdf1 / (S * sigma * sqrtT)
	vega := S * pdf1 * sqrtT

	var delta, theta, rho float64
	if isCall {
		delta = normCDF(d1)
		theta = -(S*pdf1*sigma)/(2*sqrtT) - r*K*math.Exp(-r*T)*normCDF(d2)
		rho = K * T * math.Exp(-r*T) * normCDF(d2)
	} else {
		delta = normCDF(d1) - 1
		theta = -(S*pdf1*sigma)/(2*sqrtT) + r*K*math.Exp(-r*T)*normCDF(-d2)
		rho = -K * T * math.Exp(-r*T) * normCDF(-d2)
	}

	return Greeks{Delta: delta, Gamma: gamma, Vega: vega, Theta: theta, Rho: rho}, nil
}

// SimulateStep advances price one GBM step of length dt, drawing its
// own standard normal from the model's RNG.
func (m *BlackScholesModel) SimulateStep(price, r, sigma, dt float64) (float64, error) {
	return m.SimulateStepWithShock(price, r, sigma, dt, m.rng.NormFloat64())
}

// SimulateStepWithShock advances price one GBM step of length dt using
// the externally supplied standard normal z.
func (m *BlackScholesModel) SimulateStepWithShock(price, r, sigma, dt, z float64) (float64, error) {
	if err := validateStepInputs(price, sigma); err != nil {
		return 0, err
	}
	return price * math.Exp((r-0.5*sigma*sigma)*dt+sigma*math.Sqrt(dt)*z), nil
}
