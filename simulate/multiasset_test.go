package simulate

import (
	"math"
	"testing"

	"github.com/quantcore/riskengine/market"
	"github.com/quantcore/riskengine/models"
)

func buildTwoAssetEnv(t *testing.T, rho float64) *market.Environment {
	t.Helper()
	env := market.NewEnvironment()
	env.SetYieldCurve("USD", market.NewFlatYieldCurve(0.05))
	env.SetVolSurface("A", market.NewFlatVolatilitySurface(0.20))
	env.SetVolSurface("B", market.NewFlatVolatilitySurface(0.20))

	cm, err := market.NewCorrelationMatrix([]string{"A", "B"}, [][]float64{
		{1, rho},
		{rho, 1},
	})
	if err != nil {
		t.Fatalf("unexpected error building correlation matrix: %s", err)
	}
	env.SetCorrelationMatrix(cm)
	return env
}

func TestMultiAssetStepAdvancesEveryTicker(t *testing.T) {
	env := buildTwoAssetEnv(t, 0.6)
	sim := NewMultiAssetSimulator(models.NewBlackScholesModel(1), 7)

	out, err := sim.Step(map[string]float64{"A": 100, "B": 200}, 1.0/252, env)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out["A"] <= 0 || out["B"] <= 0 {
		t.Fatalf("stepped prices must stay positive, got %+v", out)
	}
}

func TestMultiAssetStepUncorrelatedWhenNoMatrixCovers(t *testing.T) {
	env := market.NewEnvironment()
	env.SetYieldCurve("USD", market.NewFlatYieldCurve(0.05))
	env.SetVolSurface("A", market.NewFlatVolatilitySurface(0.20))
	env.SetVolSurface("C", market.NewFlatVolatilitySurface(0.20))
	// Correlation matrix only covers {A, B}; stepping {A, C} must fall
	// back to independent shocks rather than erroring.
	cm, err := market.NewCorrelationMatrix([]string{"A", "B"}, [][]float64{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	env.SetCorrelationMatrix(cm)

	sim := NewMultiAssetSimulator(models.NewBlackScholesModel(1), 3)
	out, err := sim.Step(map[string]float64{"A": 100, "C": 50}, 1.0/252, env)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out["A"] <= 0 || out["C"] <= 0 {
		t.Fatalf("stepped prices must stay positive, got %+v", out)
	}
}

// TestMultiAssetCorrelationConverges approximates invariant 8 (sample
// correlation of simulated log-returns converges to the supplied rho)
// with a reduced path count suited to a unit test's runtime budget,
// rather than the scale of a production convergence study.
func TestMultiAssetCorrelationConverges(t *testing.T) {
	const rho = 0.7
	const paths = 4000
	env := buildTwoAssetEnv(t, rho)
	sim := NewMultiAssetSimulator(models.NewBlackScholesModel(1), 123)

	var sumA, sumB, sumAA, sumBB, sumAB float64
	for i := 0; i < paths; i++ {
		out, err := sim.Step(map[string]float64{"A": 100, "B": 100}, 1.0/252, env)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		ra := math.Log(out["A"] / 100)
		rb := math.Log(out["B"] / 100)
		sumA += ra
		sumB += rb
		sumAA += ra * ra
		sumBB += rb * rb
		sumAB += ra * rb
	}

	n := float64(paths)
	meanA, meanB := sumA/n, sumB/n
	covAB := sumAB/n - meanA*meanB
	varA := sumAA/n - meanA*meanA
	varB := sumBB/n - meanB*meanB
	sampleRho := covAB / math.Sqrt(varA*varB)

	if math.Abs(sampleRho-rho) > 0.05 {
		t.Fatalf("sample correlation = %v, want close to %v", sampleRho, rho)
	}
}
