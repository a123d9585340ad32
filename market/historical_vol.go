package market

import "math"

// Bar is a single OHLC price bar, used to estimate historical
// volatility for seeding a VolatilitySurface.
type Bar struct {
	Open, High, Low, Close float64
}

// EstimateGarmanKlassVolatility annualizes the Garman-Klass OHLC
// estimator over bars.
func EstimateGarmanKlassVolatility(bars []Bar) float64 {
	n := len(bars)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, b := range bars {
		hl := 0.5 * math.Pow(math.Log(b.High/b.Low), 2)
		co := (2*math.Log(2) - 1) * math.Pow(math.Log(b.Close/b.Open), 2)
		sum += hl - co
	}
	return math.Sqrt(sum / float64(n) * 252)
}

// EstimateParkinsonVolatility annualizes the Parkinson high-low range
// estimator over bars.
func EstimateParkinsonVolatility(bars []Bar) float64 {
	n := len(bars)
	if n == 0 {
		return 0
	}
	const factor = 1.0 / (4 * math.Ln2)
	var sum float64
	for _, b := range bars {
		sum += factor * math.Pow(math.Log(b.High/b.Low), 2)
	}
	return math.Sqrt(sum / float64(n) * 252)
}

// CloseToCloseReturns computes log returns from a sequence of closes.
func CloseToCloseReturns(bars []Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	returns := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		returns[i-1] = math.Log(bars[i].Close / bars[i-1].Close)
	}
	return returns
}

// EstimateRogersSatchellVolatility annualizes the Rogers-Satchell
// estimator, which (unlike Garman-Klass and Parkinson) is unbiased in
// the presence of a non-zero drift between open and close.
func EstimateRogersSatchellVolatility(bars []Bar) float64 {
	n := len(bars)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, b := range bars {
		sum += math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	return math.Sqrt(sum / float64(n) * 252)
}

// EstimateYangZhangVolatility annualizes the Yang-Zhang estimator,
// combining overnight, open-to-close, and Rogers-Satchell components
// to handle both drift and opening jumps.
func EstimateYangZhangVolatility(bars []Bar) float64 {
	n := len(bars)
	if n < 2 {
		return 0
	}
	k := 0.34 / (1.34 + (float64(n)+1)/(float64(n)-1))

	overnight := logReturnVariance(bars, func(b, prev Bar) float64 { return math.Log(b.Open / prev.Close) })
	openClose := logReturnVarianceSingle(bars, func(b Bar) float64 { return math.Log(b.Close / b.Open) })

	var rs float64
	for _, b := range bars {
		rs += math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	rs /= float64(n)

	return math.Sqrt(overnight+k*openClose+(1-k)*rs) * math.Sqrt(252)
}

func logReturnVariance(bars []Bar, f func(b, prev Bar) float64) float64 {
	n := len(bars) - 1
	if n <= 1 {
		return 0
	}
	var sum, mean float64
	for i := 1; i < len(bars); i++ {
		r := f(bars[i], bars[i-1])
		mean += r
		sum += r * r
	}
	mean /= float64(n)
	return (sum/float64(n) - mean*mean) * float64(n) / float64(n-1)
}

func logReturnVarianceSingle(bars []Bar, f func(b Bar) float64) float64 {
	n := len(bars)
	if n <= 1 {
		return 0
	}
	var sum, mean float64
	for _, b := range bars {
		r := f(b)
		mean += r
		sum += r * r
	}
	mean /= float64(n)
	return (sum/float64(n) - mean*mean) * float64(n) / float64(n-1)
}

// NewVolatilitySurfaceFromBars builds a flat surface at the Yang-Zhang
// volatility implied by a history of daily OHLC bars, for seeding an
// Environment from historical underlying bars rather than quoted
// option prices.
func NewVolatilitySurfaceFromBars(bars []Bar) VolatilitySurface {
	vol := EstimateYangZhangVolatility(bars)
	if vol <= 0 {
		vol = DefaultVol
	}
	return NewFlatVolatilitySurface(vol)
}
