package market

// SampleEnvironment builds a small multi-currency, multi-ticker
// environment for demos and tests: an upward-sloping USD curve, a EUR
// curve, AAPL/TSLA smile surfaces, and a handful of spot prices.
func SampleEnvironment() *Environment {
	env := NewEnvironment()

	usd, err := NewYieldCurve(
		[]float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		[]float64{0.04, 0.042, 0.045, 0.048, 0.05, 0.052, 0.055},
	)
	if err != nil {
		panic(err)
	}
	env.SetYieldCurve("USD", usd)

	eur, err := NewYieldCurve(
		[]float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		[]float64{0.02, 0.022, 0.025, 0.028, 0.03, 0.032},
	)
	if err != nil {
		panic(err)
	}
	env.SetYieldCurve("EUR", eur)

	aaplVol, err := NewVolatilitySurface(
		[]float64{100.0, 120.0, 140.0, 150.0, 160.0, 180.0, 200.0},
		[]float64{0.083, 0.25, 0.5, 1.0},
		[][]float64{
			{0.28, 0.25, 0.22, 0.20, 0.22, 0.25, 0.28},
			{0.26, 0.23, 0.21, 0.20, 0.21, 0.24, 0.27},
			{0.25, 0.22, 0.20, 0.19, 0.20, 0.23, 0.26},
			{0.24, 0.21, 0.19, 0.18, 0.19, 0.22, 0.25},
		},
	)
	if err != nil {
		panic(err)
	}
	env.SetVolSurface("AAPL", aaplVol)

	tslaVol, err := NewVolatilitySurface(
		[]float64{150.0, 200.0, 250.0, 300.0, 350.0},
		[]float64{0.083, 0.25, 0.5, 1.0},
		[][]float64{
			{0.55, 0.48, 0.45, 0.48, 0.55},
			{0.52, 0.45, 0.42, 0.45, 0.52},
			{0.50, 0.43, 0.40, 0.43, 0.50},
			{0.48, 0.41, 0.38, 0.41, 0.48},
		},
	)
	if err != nil {
		panic(err)
	}
	env.SetVolSurface("TSLA", tslaVol)

	// GOOGL has no quoted smile on hand, so its surface is estimated
	// from a short run of recent daily bars via the Yang-Zhang
	// estimator instead of falling back to the environment default.
	env.RefreshVolFromBars("GOOGL", googlHistoricalBars())

	env.SetSpot("AAPL", 150.0)
	env.SetSpot("GOOGL", 140.0)
	env.SetSpot("TSLA", 250.0)

	// MSFT similarly has no quoted smile; its surface is fit from daily
	// log-returns via GARCH(1,1) conditional volatility.
	env.RefreshVolFromReturns("MSFT", msftHistoricalReturns())
	env.SetSpot("MSFT", 330.0)

	cm, err := NewCorrelationMatrix(
		[]string{"AAPL", "GOOGL", "TSLA"},
		[][]float64{
			{1.0, 0.6, 0.4},
			{0.6, 1.0, 0.3},
			{0.4, 0.3, 1.0},
		},
	)
	if err != nil {
		panic(err)
	}
	env.SetCorrelationMatrix(cm)

	return env
}

// googlHistoricalBars returns a short illustrative run of daily OHLC
// bars standing in for recent trading history.
func googlHistoricalBars() []Bar {
	return []Bar{
		{Open: 138.0, High: 140.5, Low: 137.2, Close: 139.8},
		{Open: 139.8, High: 141.0, Low: 138.9, Close: 140.2},
		{Open: 140.2, High: 142.3, Low: 139.5, Close: 141.9},
		{Open: 141.9, High: 142.0, Low: 139.0, Close: 139.6},
		{Open: 139.6, High: 140.8, Low: 138.1, Close: 140.5},
		{Open: 140.5, High: 143.2, Low: 140.0, Close: 142.8},
		{Open: 142.8, High: 143.5, Low: 141.0, Close: 141.4},
		{Open: 141.4, High: 141.9, Low: 139.2, Close: 140.0},
	}
}

// msftHistoricalReturns returns a short illustrative run of daily
// log-returns standing in for recent trading history.
func msftHistoricalReturns() []float64 {
	return []float64{
		0.004, -0.006, 0.012, -0.009, 0.003, 0.007, -0.011, 0.002,
		0.005, -0.004, 0.008, -0.006, 0.001, 0.009, -0.007, 0.004,
	}
}
