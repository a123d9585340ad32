package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/quantcore/riskengine/instruments"
	"github.com/quantcore/riskengine/market"
	"github.com/quantcore/riskengine/models"
	"github.com/quantcore/riskengine/portfolio"
	"github.com/quantcore/riskengine/simulate"
	"github.com/xhhuango/json"
)

const demoSeed = 42

type report struct {
	Day         int           `json:"day"`
	PortfolioID string        `json:"portfolio_id"`
	TotalValue  float64       `json:"total_value"`
	TotalPnL    float64       `json:"total_pnl"`
	Greeks      models.Greeks `json:"greeks"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using built-in defaults")
	}

	env := market.SampleEnvironment()
	model := models.NewBlackScholesModel(demoSeed)
	driver := simulate.NewDriver(model, env, demoSeed)

	aapl := &instruments.Stock{TickerID: "AAPL", Last: 150.0}
	googl := &instruments.Stock{TickerID: "GOOGL", Last: 140.0}
	tsla := &instruments.Stock{TickerID: "TSLA", Last: 250.0}

	aaplCall := &instruments.Option{
		TickerID:   "AAPL 160C",
		Premium:    8.50,
		Strike:     160,
		Underlying: aapl,
		TTE:        0.25,
		Type:       instruments.Call,
	}
	tslaPut := &instruments.Option{
		TickerID:   "TSLA 240P",
		Premium:    15.0,
		Strike:     240,
		Underlying: tsla,
		TTE:        0.5,
		Type:       instruments.Put,
	}
	corpBond := &instruments.Bond{
		TickerID:   "CORP 2030",
		Clean:      98.5,
		Duration:   5.2,
		CouponRate: 0.045,
	}

	equity := portfolio.NewPortfolio("equity-book", "desk-1", "USD")
	equity.AddPosition(aapl, 100)
	equity.AddPosition(googl, 50)
	equity.AddPosition(tsla, 20)
	equity.AddPosition(aaplCall, 10)
	equity.AddPosition(tslaPut, 5)

	income := portfolio.NewPortfolio("income-book", "desk-2", "USD")
	income.AddPosition(corpBond, 1000)

	driver.AddPortfolio(equity)
	driver.AddPortfolio(income)

	if errs := driver.SimulateDays(5); len(errs) > 0 {
		for _, err := range errs {
			fmt.Println("simulation warning:", err)
		}
	}

	var reports []report
	for _, pf := range driver.Portfolios {
		greeks, err := driver.GetPortfolioGreeks(pf.ID)
		if err != nil {
			log.Fatalf("portfolio greeks for %s: %s", pf.ID, err)
		}
		value, err := driver.GetPortfolioValue(pf.ID)
		if err != nil {
			log.Fatalf("portfolio value for %s: %s", pf.ID, err)
		}
		reports = append(reports, report{
			Day:         driver.GetDayCount(),
			PortfolioID: pf.ID,
			TotalValue:  value,
			TotalPnL:    pf.TotalPnL(),
			Greeks:      greeks,
		})
	}

	out, err := json.Marshal(reports)
	if err != nil {
		log.Fatalf("marshal report: %s", err)
	}
	fmt.Println(string(out))

	historicalReturns := []float64{-0.03, -0.01, 0.0, 0.01, 0.02}
	if var95, err := simulate.VaRFromReturns(equity, historicalReturns, 0.95); err == nil {
		fmt.Printf("equity-book 1-day historical VaR(95%%): %.2f\n", var95)
	}
}
