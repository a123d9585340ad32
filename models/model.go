// Package models implements the pricing/simulation models: analytical
// Black-Scholes pricing and Greeks, GBM path evolution, and Merton
// jump-diffusion path evolution with a Black-Scholes pricing fallback.
package models

// Model is the capability set every pricing/simulation model must
// implement. SimulateStepWithShock is mandatory (not optional) because
// the multi-asset simulator requires an externally-seeded step to
// preserve cross-asset correlation.
type Model interface {
	// SimulateStep advances price by dt using the model's own RNG.
	SimulateStep(price, r, sigma, dt float64) (float64, error)
	// SimulateStepWithShock advances price by dt using an externally
	// supplied standard normal z, so callers can correlate shocks
	// across assets.
	SimulateStepWithShock(price, r, sigma, dt, z float64) (float64, error)
	// PriceOption returns the model's price for a European option.
	PriceOption(S, K, T, r, sigma float64, isCall bool) (float64, error)
	// CalculateGreeks returns the model's Greeks for a European option.
	CalculateGreeks(S, K, T, r, sigma float64, isCall bool) (Greeks, error)
	// SetSeed reseeds the model's RNG for deterministic runs.
	SetSeed(seed uint64)
}
