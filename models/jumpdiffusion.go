package models

import (
	"math"

	"github.com/quantcore/riskengine/rerrors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// JumpDiffusionModel is the Merton jump-diffusion model: GBM plus a
// compensated Poisson jump process. Option pricing and Greeks delegate
// to an internal Black-Scholes model evaluated at the diffusion sigma,
// matching the source implementation's approximation rather than
// pricing the jump component directly.
type JumpDiffusionModel struct {
	Lambda float64 // jump intensity
	MuJ    float64 // mean jump size
	SigmaJ float64 // jump size volatility

	rng  *rand.Rand
	bs   *BlackScholesModel
	src  rand.Source
}

// NewJumpDiffusionModel builds a model seeded from seed.
func NewJumpDiffusionModel(lambda, muJ, sigmaJ float64, seed uint64) *JumpDiffusionModel {
	src := rand.NewSource(seed)
	return &JumpDiffusionModel{
		Lambda: lambda,
		MuJ:    muJ,
		SigmaJ: sigmaJ,
		rng:    rand.New(src),
		bs:     NewBlackScholesModel(seed),
		src:    src,
	}
}

func (m *JumpDiffusionModel) SetSeed(seed uint64) {
	m.src = rand.NewSource(seed)
	m.rng = rand.New(m.src)
	m.bs.SetSeed(seed)
}

// jumpCompensation returns k = E[e^J] - 1 for the lognormal jump size.
func (m *JumpDiffusionModel) jumpCompensation() float64 {
	return math.Exp(m.MuJ+0.5*m.SigmaJ*m.SigmaJ) - 1
}

// SimulateStep advances price one step of length dt using the model's
// own RNG for the diffusion shock, jump count, and jump sizes.
func (m *JumpDiffusionModel) SimulateStep(price, r, sigma, dt float64) (float64, error) {
	return m.SimulateStepWithShock(price, r, sigma, dt, m.rng.NormFloat64())
}

// SimulateStepWithShock advances price one step of length dt using the
// externally supplied standard normal z for the diffusion component;
// the jump count and jump sizes are still drawn from the model's own
// RNG (jumps are idiosyncratic per ticker, never correlated).
func (m *JumpDiffusionModel) SimulateStepWithShock(price, r, sigma, dt, z float64) (float64, error) {
	if err := validateStepInputs(price, sigma); err != nil {
		return 0, err
	}

	k := m.jumpCompensation()
	logReturn := (r-m.Lambda*k-0.5*sigma*sigma)*dt + sigma*math.Sqrt(dt)*z

	if m.Lambda > 0 && dt > 0 {
		poisson := distuv.Poisson{Lambda: m.Lambda * dt, Src: m.src}
		n := int(poisson.Rand())
		if n > 0 {
			jumpDist := distuv.Normal{Mu: m.MuJ, Sigma: m.SigmaJ, Src: m.src}
			for i := 0; i < n; i++ {
				logReturn += jumpDist.Rand()
			}
		}
	}

	return price * math.Exp(logReturn), nil
}

// PriceOption delegates to Black-Scholes at the diffusion sigma,
// ignoring the jump component (see DESIGN.md: Open Question i).
func (m *JumpDiffusionModel) PriceOption(S, K, T, r, sigma float64, isCall bool) (float64, error) {
	return m.bs.PriceOption(S, K, T, r, sigma, isCall)
}

// CalculateGreeks delegates to Black-Scholes at the diffusion sigma.
func (m *JumpDiffusionModel) CalculateGreeks(S, K, T, r, sigma float64, isCall bool) (Greeks, error) {
	return m.bs.CalculateGreeks(S, K, T, r, sigma, isCall)
}

// EstimateJumpParameters estimates the jump-size mean (MuJ) and
// standard deviation (SigmaJ) from a historical series of identified
// jump returns, scaled by scaleFactor. It does not estimate the jump
// intensity Lambda. Returns an error if fewer than two jumps are
// supplied.
func EstimateJumpParameters(historicalJumps []float64, scaleFactor float64) (mu, sigma float64, err error) {
	n := float64(len(historicalJumps))
	if n < 2 {
		return 0, 0, rerrors.New(rerrors.InvalidInput, "need at least two historical jumps to estimate jump size distribution")
	}

	var sum, sumSquared float64
	for _, jump := range historicalJumps {
		scaled := jump * scaleFactor
		sum += scaled
		sumSquared += scaled * scaled
	}

	mu = sum / n
	variance := sumSquared/n - mu*mu
	if variance < 0 {
		variance = 0
	}
	return mu, math.Sqrt(variance), nil
}
