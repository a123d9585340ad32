package simulate

import (
	"fmt"
	"time"

	"github.com/quantcore/riskengine/instruments"
	"github.com/quantcore/riskengine/market"
	"github.com/quantcore/riskengine/models"
	"github.com/quantcore/riskengine/portfolio"
	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

const dailyDt = 1.0 / tradingDaysPerYear

// Driver orchestrates daily simulation steps across an ordered list of
// portfolios, owning the Model, the MultiAssetSimulator bound to it,
// the MarketEnvironment, and a monotonically non-decreasing day
// counter.
type Driver struct {
	Portfolios []*portfolio.Portfolio
	Model      models.Model
	Simulator  *MultiAssetSimulator
	Env        *market.Environment

	dayCount int
}

// NewDriver builds a driver over model and env, with a multi-asset
// simulator seeded independently from seed.
func NewDriver(model models.Model, env *market.Environment, seed uint64) *Driver {
	return &Driver{
		Model:     model,
		Env:       env,
		Simulator: NewMultiAssetSimulator(model, seed),
	}
}

// AddPortfolio appends pf to the driver's portfolio list.
func (d *Driver) AddPortfolio(pf *portfolio.Portfolio) {
	d.Portfolios = append(d.Portfolios, pf)
}

// GetDayCount returns the number of completed simulation days.
func (d *Driver) GetDayCount() int {
	return d.dayCount
}

func stockUniverse(pfs []*portfolio.Portfolio) map[string]*instruments.Stock {
	universe := make(map[string]*instruments.Stock)
	for _, pf := range pfs {
		for _, pos := range pf.Positions {
			switch v := pos.Instrument.(type) {
			case *instruments.Stock:
				universe[v.TickerID] = v
			case *instruments.Option:
				universe[v.Underlying.TickerID] = v.Underlying
			}
		}
	}
	return universe
}

// SimulateDaily advances every portfolio by one trading day (dt =
// 1/252). When a correlation matrix covers the union of stock tickers
// in play, stocks are advanced jointly and options are repriced off the
// already-updated underlyings; otherwise every instrument takes an
// independent MonteCarloStep. Per-instrument failures are collected and
// returned without aborting the rest of the run.
func (d *Driver) SimulateDaily() []error {
	for _, pf := range d.Portfolios {
		pf.SnapshotAll()
	}

	universe := stockUniverse(d.Portfolios)
	tickers := make([]string, 0, len(universe))
	prices := make(map[string]float64, len(universe))
	for ticker, stock := range universe {
		tickers = append(tickers, ticker)
		prices[ticker] = stock.Last
	}

	corr := d.Env.Correlation()
	var errs []error

	if len(universe) > 0 && corr != nil && corr.Covers(tickers) {
		newPrices, err := d.Simulator.Step(prices, dailyDt, d.Env)
		if err != nil {
			errs = append(errs, err)
		} else {
			for ticker, stock := range universe {
				stock.Last = newPrices[ticker]
			}
		}
		for _, pf := range d.Portfolios {
			for _, pos := range pf.Positions {
				opt, ok := pos.Instrument.(*instruments.Option)
				if !ok {
					continue
				}
				if err := repriceOption(opt, d.Model, d.Env, dailyDt); err != nil {
					errs = append(errs, err)
				}
			}
		}
	} else {
		for _, pf := range d.Portfolios {
			for _, pos := range pf.Positions {
				if err := MonteCarloStep(pos.Instrument, d.Model, d.Env, dailyDt); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	d.dayCount++
	return errs
}

// SimulateDailyUncorrelated advances every portfolio by one trading
// day using an independent MonteCarloStep per instrument, bypassing
// the joint-correlated stock path even when d.Env carries a
// correlation matrix covering the full stock universe. Useful for
// comparing correlated vs. independent P&L distributions over the
// same market environment.
func (d *Driver) SimulateDailyUncorrelated() []error {
	for _, pf := range d.Portfolios {
		pf.SnapshotAll()
	}

	var errs []error
	for _, pf := range d.Portfolios {
		for _, pos := range pf.Positions {
			if err := MonteCarloStep(pos.Instrument, d.Model, d.Env, dailyDt); err != nil {
				errs = append(errs, err)
			}
		}
	}

	d.dayCount++
	return errs
}

// repriceOption decays an option's TTE and re-prices it off its
// (already-updated) underlying; MonteCarloStep's Stock branch is never
// reached here since it is only ever called on *instruments.Option.
func repriceOption(opt *instruments.Option, model models.Model, env *market.Environment, dt float64) error {
	return MonteCarloStep(opt, model, env, dt)
}

// SimulateDays advances the simulation n trading days, rendering a
// progress bar across the run.
func (d *Driver) SimulateDays(n int) []error {
	bar := mpb.New(mpb.WithWidth(64)).AddBar(int64(n),
		mpb.PrependDecorators(
			decor.Name("Simulating"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	var errs []error
	for i := 0; i < n; i++ {
		errs = append(errs, d.SimulateDaily()...)
		bar.Increment()
	}
	return errs
}

// SimulateDailyHistorical advances every portfolio one day using
// returns as the historical scenario series (dayIdx = the current day
// counter, so successive calls walk forward through returns).
func (d *Driver) SimulateDailyHistorical(returns []float64) []error {
	var errs []error
	for _, pf := range d.Portfolios {
		pf.SnapshotAll()
		for _, pos := range pf.Positions {
			if err := HistoricalStep(pos.Instrument, returns, d.dayCount); err != nil {
				errs = append(errs, err)
			}
		}
	}
	d.dayCount++
	return errs
}

// ApplyStressTest applies a parallel spot/vol/rate shock to every
// instrument in every portfolio.
func (d *Driver) ApplyStressTest(dPrice, dVol, dRate float64) []error {
	var errs []error
	for _, pf := range d.Portfolios {
		for _, pos := range pf.Positions {
			if err := StressShock(pos.Instrument, d.Model, dPrice, dVol, dRate); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// SimulateWith applies a caller-supplied revaluation op to every
// instrument in every portfolio, for custom scenarios beyond the
// built-in operations.
func (d *Driver) SimulateWith(op func(instruments.Instrument) error) []error {
	var errs []error
	for _, pf := range d.Portfolios {
		for _, pos := range pf.Positions {
			if err := op(pos.Instrument); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// GetPortfolioGreeks returns the aggregated Greeks for the portfolio
// with the given ID.
func (d *Driver) GetPortfolioGreeks(id string) (models.Greeks, error) {
	for _, pf := range d.Portfolios {
		if pf.ID == id {
			return PortfolioGreeks(pf, d.Model, d.Env)
		}
	}
	return models.Greeks{}, fmt.Errorf("portfolio %q not found", id)
}

// GetPortfolio returns the portfolio with the given ID.
func (d *Driver) GetPortfolio(id string) (*portfolio.Portfolio, error) {
	for _, pf := range d.Portfolios {
		if pf.ID == id {
			return pf, nil
		}
	}
	return nil, fmt.Errorf("portfolio %q not found", id)
}

// GetPortfolioValue returns the total market value of the portfolio
// with the given ID.
func (d *Driver) GetPortfolioValue(id string) (float64, error) {
	pf, err := d.GetPortfolio(id)
	if err != nil {
		return 0, err
	}
	return pf.TotalValue(), nil
}

// GetTotalGreeks returns the Greeks aggregated across every portfolio.
func (d *Driver) GetTotalGreeks() (models.Greeks, error) {
	return TotalGreeks(d.Portfolios, d.Model, d.Env)
}

// monitorCPU samples CPU usage every 2 seconds until stop is closed,
// for diagnostics alongside a long VaR batch. Best-effort: a sampling
// error is silently skipped rather than aborting the run.
func monitorCPU(stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			percentage, err := cpu.Percent(time.Second, false)
			if err == nil && len(percentage) > 0 {
				fmt.Printf("\nCPU usage: %.2f%%\n", percentage[0])
			}
		}
	}
}

// BatchVaR computes VaR for every portfolio in the driver, sampling CPU
// usage in the background while the batch runs.
func (d *Driver) BatchVaR(historicalReturns [][]float64, confidence float64) (map[string]float64, []error) {
	stop := make(chan struct{})
	go monitorCPU(stop)
	defer close(stop)

	results := make(map[string]float64, len(d.Portfolios))
	var errs []error
	for _, pf := range d.Portfolios {
		v, err := VaR(pf, historicalReturns, confidence)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results[pf.ID] = v
	}
	return results, errs
}
