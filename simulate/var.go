package simulate

import (
	"sort"

	"github.com/quantcore/riskengine/instruments"
	"github.com/quantcore/riskengine/portfolio"
	"github.com/quantcore/riskengine/rerrors"
)

// collectInstruments returns every distinct instrument reachable from
// pf's positions, including option underlyings that may not themselves
// be held as a position. Historical replay mutates a Stock's price in
// place, so its snapshot/restore must cover every Stock an Option
// shares, not just the ones directly held.
func collectInstruments(pf *portfolio.Portfolio) []instruments.Instrument {
	seen := make(map[instruments.Instrument]bool)
	var out []instruments.Instrument
	add := func(inst instruments.Instrument) {
		if inst == nil || seen[inst] {
			return
		}
		seen[inst] = true
		out = append(out, inst)
	}
	for _, pos := range pf.Positions {
		add(pos.Instrument)
		if opt, ok := pos.Instrument.(*instruments.Option); ok {
			add(opt.Underlying)
		}
	}
	return out
}

func instrumentPrice(inst instruments.Instrument) float64 {
	return inst.Price()
}

func setInstrumentPrice(inst instruments.Instrument, price float64) {
	switch v := inst.(type) {
	case *instruments.Stock:
		v.Last = price
	case *instruments.Option:
		v.Premium = price
	case *instruments.Bond:
		v.Clean = price
	}
}

// VaR computes historical-simulation Value at Risk over pf. Each
// historicalReturns[d] is that day's return vector; matching the source
// implementation, only element 0 of each day's vector is used — one
// scalar return applied to every instrument that day (see
// VaRFromReturns for the common single-series convenience form).
func VaR(pf *portfolio.Portfolio, historicalReturns [][]float64, confidence float64) (float64, error) {
	if len(historicalReturns) == 0 {
		return 0, rerrors.New(rerrors.InvalidInput, "empty historical returns")
	}
	series := make([]float64, len(historicalReturns))
	for d, day := range historicalReturns {
		if len(day) == 0 {
			return 0, rerrors.Newf(rerrors.InvalidInput, "historical returns day %d is empty", d)
		}
		series[d] = day[0]
	}
	return VaRFromReturns(pf, series, confidence)
}

// VaRFromReturns computes historical-simulation Value at Risk over pf
// from a single series of daily returns, one scalar applied uniformly
// to every instrument each day.
func VaRFromReturns(pf *portfolio.Portfolio, returns []float64, confidence float64) (float64, error) {
	if len(returns) == 0 {
		return 0, rerrors.New(rerrors.InvalidInput, "empty historical returns")
	}

	touched := collectInstruments(pf)
	snapshot := make(map[instruments.Instrument]float64, len(touched))
	for _, inst := range touched {
		snapshot[inst] = instrumentPrice(inst)
	}

	initialValue := pf.TotalValue()
	deltas := make([]float64, len(returns))

	for d, ret := range returns {
		for _, inst := range touched {
			// A single-element series always resolves day_index 0,
			// mirroring the source's VaRVisitor, which replays with
			// day_index=0 regardless of which historical day is being
			// scored.
			_ = HistoricalStep(inst, []float64{ret}, 0)
		}

		scenarioValue := pf.TotalValue()
		deltas[d] = scenarioValue - initialValue

		for _, inst := range touched {
			setInstrumentPrice(inst, snapshot[inst])
		}
	}

	sort.Float64s(deltas)
	idx := int(float64(len(deltas)) * (1 - confidence))
	if idx >= len(deltas) {
		idx = len(deltas) - 1
	}
	return -deltas[idx], nil
}
