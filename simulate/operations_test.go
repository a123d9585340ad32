package simulate

import (
	"math"
	"testing"

	"github.com/quantcore/riskengine/instruments"
	"github.com/quantcore/riskengine/market"
	"github.com/quantcore/riskengine/models"
)

func TestMonteCarloStepStock(t *testing.T) {
	env := market.NewEnvironment()
	env.SetYieldCurve("USD", market.NewFlatYieldCurve(0.05))
	env.SetVolSurface("AAPL", market.NewFlatVolatilitySurface(0.20))

	m := models.NewBlackScholesModel(42)
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}

	if err := MonteCarloStep(stock, m, env, 1.0/252); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if stock.Last <= 0 {
		t.Fatalf("stock price must stay positive, got %v", stock.Last)
	}
}

func TestMonteCarloStepOptionDecaysToIntrinsicAtExpiry(t *testing.T) {
	env := market.NewEnvironment()
	env.SetYieldCurve("USD", market.NewFlatYieldCurve(0.05))
	env.SetVolSurface("AAPL", market.NewFlatVolatilitySurface(0.20))

	m := models.NewBlackScholesModel(1)
	stock := &instruments.Stock{TickerID: "AAPL", Last: 120}
	opt := &instruments.Option{
		TickerID: "AAPL C", Strike: 100, Underlying: stock,
		TTE: 1.0 / 252, Type: instruments.Call,
	}

	if err := MonteCarloStep(opt, m, env, 1.0/252); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.TTE != 0 {
		t.Fatalf("TTE should reach exactly zero, got %v", opt.TTE)
	}
	if opt.Premium != opt.Intrinsic() {
		t.Fatalf("premium at expiry should equal intrinsic value: got %v, want %v", opt.Premium, opt.Intrinsic())
	}
}

func TestMonteCarloStepOptionReprices(t *testing.T) {
	env := market.NewEnvironment()
	env.SetYieldCurve("USD", market.NewFlatYieldCurve(0.05))
	env.SetVolSurface("AAPL", market.NewFlatVolatilitySurface(0.20))

	m := models.NewBlackScholesModel(1)
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	opt := &instruments.Option{
		TickerID: "AAPL C", Strike: 100, Underlying: stock,
		TTE: 1, Type: instruments.Call, Premium: 10.4506,
	}
	want, err := m.PriceOption(100, 100, 1-1.0/252, 0.05, 0.20, true)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if err := MonteCarloStep(opt, m, env, 1.0/252); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if math.Abs(opt.Premium-want) > 1e-9 {
		t.Fatalf("repriced premium = %v, want %v", opt.Premium, want)
	}
}

func TestMonteCarloStepBondAppliesSyntheticShock(t *testing.T) {
	env := market.NewEnvironment()
	env.SetYieldCurve("USD", market.NewFlatYieldCurve(0.05))

	m := models.NewBlackScholesModel(5)
	bond := &instruments.Bond{TickerID: "BOND1", Clean: 1000, Duration: 5, CouponRate: 0.04}

	if err := MonteCarloStep(bond, m, env, 1.0/252); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if bond.Clean <= 0 {
		t.Fatalf("bond clean price should stay positive, got %v", bond.Clean)
	}
}

func TestHistoricalStepStock(t *testing.T) {
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	if err := HistoricalStep(stock, []float64{-0.1, 0.1}, 0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if stock.Last != 90 {
		t.Fatalf("stock after -10%% day = %v, want 90", stock.Last)
	}
}

func TestHistoricalStepIndexWraps(t *testing.T) {
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	returns := []float64{0.1}
	if err := HistoricalStep(stock, returns, 0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := HistoricalStep(stock, returns, 1); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if math.Abs(stock.Last-121) > 1e-9 {
		t.Fatalf("stock after two 10%% days (wrapped index) = %v, want 121", stock.Last)
	}
}

func TestHistoricalStepOptionDecaysOwnPremium(t *testing.T) {
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	opt := &instruments.Option{
		TickerID: "AAPL C", Strike: 50, Underlying: stock,
		TTE: 1, Type: instruments.Call, Premium: 60,
	}
	if err := HistoricalStep(opt, []float64{0.5}, 0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if math.Abs(opt.Premium-60*0.99) > 1e-9 {
		t.Fatalf("option premium after historical step = %v, want %v", opt.Premium, 60*0.99)
	}
}

func TestHistoricalStepOptionFloorsAtIntrinsic(t *testing.T) {
	stock := &instruments.Stock{TickerID: "AAPL", Last: 120}
	opt := &instruments.Option{
		TickerID: "AAPL C", Strike: 100, Underlying: stock,
		TTE: 1.0 / 252, Type: instruments.Call, Premium: 20.1,
	}
	if err := HistoricalStep(opt, []float64{-0.5}, 0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// 0.99 * 20.1 = 19.899 is below the intrinsic value 120 - 100 = 20.
	if opt.Premium != 20 {
		t.Fatalf("in-the-money option premium should floor at intrinsic (20), got %v", opt.Premium)
	}
}

func TestHistoricalStepRejectsEmptyReturns(t *testing.T) {
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	if err := HistoricalStep(stock, nil, 0); err == nil {
		t.Fatal("expected error for empty returns series")
	}
}

func TestStressShockStock(t *testing.T) {
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	m := models.NewBlackScholesModel(1)
	if err := StressShock(stock, m, -0.2, 0, 0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if stock.Last != 80 {
		t.Fatalf("stock after -20%% shock = %v, want 80", stock.Last)
	}
}

func TestStressShockBond(t *testing.T) {
	bond := &instruments.Bond{TickerID: "BOND1", Clean: 1000, Duration: 5}
	m := models.NewBlackScholesModel(1)
	if err := StressShock(bond, m, 0, 0, 0.01); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := 1000 * (1 - 5*0.01)
	if math.Abs(bond.Clean-want) > 1e-9 {
		t.Fatalf("bond clean after +1%% rate shock = %v, want %v", bond.Clean, want)
	}
}

func TestGreeksOfStockIsUnitDelta(t *testing.T) {
	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	m := models.NewBlackScholesModel(1)
	g, err := GreeksOf(stock, m, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if g.Delta != 1 || g.Gamma != 0 || g.Vega != 0 {
		t.Fatalf("stock greeks = %+v, want unit delta only", g)
	}
}

func TestGreeksOfBondUsesDurationProxy(t *testing.T) {
	bond := &instruments.Bond{TickerID: "BOND1", Clean: 1000, Duration: 5, CouponRate: 0.04}
	m := models.NewBlackScholesModel(1)
	g, err := GreeksOf(bond, m, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if math.Abs(g.Rho-(-5*1000)) > 1e-9 {
		t.Fatalf("bond rho = %v, want %v", g.Rho, -5*1000.0)
	}
	if math.Abs(g.Theta-0.04/365) > 1e-12 {
		t.Fatalf("bond theta = %v, want %v", g.Theta, 0.04/365)
	}
}

func TestGreeksOfOptionUsesEnvironmentWhenSupplied(t *testing.T) {
	env := market.NewEnvironment()
	env.SetYieldCurve("USD", market.NewFlatYieldCurve(0.05))
	env.SetVolSurface("AAPL", market.NewFlatVolatilitySurface(0.20))

	stock := &instruments.Stock{TickerID: "AAPL", Last: 100}
	opt := &instruments.Option{TickerID: "AAPL C", Strike: 100, Underlying: stock, TTE: 1, Type: instruments.Call}
	m := models.NewBlackScholesModel(1)

	withEnv, err := GreeksOf(opt, m, env)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	withoutEnv, err := GreeksOf(opt, m, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if math.Abs(withEnv.Delta-withoutEnv.Delta) > 1e-9 {
		t.Fatalf("environment and stress-baseline greeks should match for a flat 5%%/20%% environment: %v vs %v", withEnv, withoutEnv)
	}
}
