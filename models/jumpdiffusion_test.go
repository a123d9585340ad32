package models

import (
	"math"
	"testing"
)

func TestJumpDiffusionPriceMatchesBlackScholes(t *testing.T) {
	jd := NewJumpDiffusionModel(0.5, -0.05, 0.15, 7)
	bs := NewBlackScholesModel(7)

	jdPrice, err := jd.PriceOption(100, 100, 1, 0.05, 0.20, true)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	bsPrice, err := bs.PriceOption(100, 100, 1, 0.05, 0.20, true)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if math.Abs(jdPrice-bsPrice) > 1e-12 {
		t.Errorf("jump-diffusion option price should match Black-Scholes at the diffusion sigma: got %v, want %v", jdPrice, bsPrice)
	}
}

func TestJumpDiffusionGreeksMatchBlackScholes(t *testing.T) {
	jd := NewJumpDiffusionModel(0.3, 0.0, 0.1, 3)
	bs := NewBlackScholesModel(3)

	jdGreeks, _ := jd.CalculateGreeks(100, 110, 0.5, 0.04, 0.25, false)
	bsGreeks, _ := bs.CalculateGreeks(100, 110, 0.5, 0.04, 0.25, false)
	if jdGreeks != bsGreeks {
		t.Errorf("jump-diffusion greeks should match Black-Scholes: got %+v, want %+v", jdGreeks, bsGreeks)
	}
}

func TestJumpDiffusionStepNoJumpsIsGBM(t *testing.T) {
	jd := NewJumpDiffusionModel(0, 0, 0, 11)
	price, err := jd.SimulateStepWithShock(100, 0.05, 0.20, 1.0/252, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := 100 * math.Exp((0.05-0.02)/252+0.20*math.Sqrt(1.0/252))
	if math.Abs(price-want) > 1e-9 {
		t.Errorf("zero jump intensity should reduce to GBM: got %v, want %v", price, want)
	}
}

func TestJumpDiffusionStepIsPositive(t *testing.T) {
	jd := NewJumpDiffusionModel(2.0, 0.0, 0.3, 99)
	price := 100.0
	for i := 0; i < 50; i++ {
		next, err := jd.SimulateStep(price, 0.05, 0.25, 1.0/252)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if next <= 0 {
			t.Fatalf("simulated price must stay positive, got %v", next)
		}
		price = next
	}
}

func TestEstimateJumpParameters(t *testing.T) {
	jumps := []float64{0.01, -0.02, 0.015, -0.01, 0.02}
	mu, sigma, err := EstimateJumpParameters(jumps, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sigma < 0 {
		t.Errorf("estimated jump sigma must be non-negative, got %v", sigma)
	}
	_ = mu
}

func TestEstimateJumpParametersRejectsTooFewSamples(t *testing.T) {
	if _, _, err := EstimateJumpParameters([]float64{0.01}, 1.0); err == nil {
		t.Fatal("expected error for fewer than two jumps")
	}
}
