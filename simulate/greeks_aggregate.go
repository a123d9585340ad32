package simulate

import (
	"github.com/quantcore/riskengine/market"
	"github.com/quantcore/riskengine/models"
	"github.com/quantcore/riskengine/portfolio"
)

// PortfolioGreeks sums quantity * GreeksOf(instrument) over every
// position in pf. A position whose Greeks fail is skipped and the rest
// are still summed; the first such error is returned alongside that
// total.
func PortfolioGreeks(pf *portfolio.Portfolio, model models.Model, env *market.Environment) (models.Greeks, error) {
	var total models.Greeks
	var firstErr error
	for _, pos := range pf.Positions {
		g, err := GreeksOf(pos.Instrument, model, env)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		total = total.Add(g.Scale(pos.Quantity))
	}
	return total, firstErr
}

// TotalGreeks sums PortfolioGreeks over every portfolio in pfs.
func TotalGreeks(pfs []*portfolio.Portfolio, model models.Model, env *market.Environment) (models.Greeks, error) {
	var total models.Greeks
	var firstErr error
	for _, pf := range pfs {
		g, err := PortfolioGreeks(pf, model, env)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		total = total.Add(g)
	}
	return total, firstErr
}
