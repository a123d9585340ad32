// Package portfolio holds Positions (a quantity of an Instrument) and
// Portfolios (an owner's ordered sequence of Positions).
package portfolio

import "github.com/quantcore/riskengine/instruments"

// Position is a quantity of a shared Instrument, with the snapshot
// price used for mark-to-market P&L.
type Position struct {
	Instrument instruments.Instrument
	Quantity   float64
	Snapshot   float64
}

// NewPosition creates a position snapshotting the instrument's current
// price.
func NewPosition(instrument instruments.Instrument, quantity float64) *Position {
	return &Position{
		Instrument: instrument,
		Quantity:   quantity,
		Snapshot:   instrument.Price(),
	}
}

// MarketValue returns quantity * current price.
func (p *Position) MarketValue() float64 {
	return p.Quantity * p.Instrument.Price()
}

// PnL returns quantity * (current price - snapshot price).
func (p *Position) PnL() float64 {
	return p.Quantity * (p.Instrument.Price() - p.Snapshot)
}

// SetQuantity replaces the position's quantity.
func (p *Position) SetQuantity(q float64) {
	p.Quantity = q
}

// AdjustQuantity adds delta to the position's quantity.
func (p *Position) AdjustQuantity(delta float64) {
	p.Quantity += delta
}

// SnapshotPrice resets the P&L baseline to the instrument's current
// price.
func (p *Position) SnapshotPrice() {
	p.Snapshot = p.Instrument.Price()
}

// Portfolio is an owner's ordered sequence of Positions in a single
// currency.
type Portfolio struct {
	ID        string
	Owner     string
	Currency  string
	Positions []*Position
}

// NewPortfolio builds an empty portfolio.
func NewPortfolio(id, owner, currency string) *Portfolio {
	return &Portfolio{ID: id, Owner: owner, Currency: currency}
}

// AddPosition appends a new position over instrument at quantity and
// returns it.
func (p *Portfolio) AddPosition(instrument instruments.Instrument, quantity float64) *Position {
	pos := NewPosition(instrument, quantity)
	p.Positions = append(p.Positions, pos)
	return pos
}

// TotalValue returns the sum of every position's market value.
func (p *Portfolio) TotalValue() float64 {
	var total float64
	for _, pos := range p.Positions {
		total += pos.MarketValue()
	}
	return total
}

// TotalPnL returns the sum of every position's P&L.
func (p *Portfolio) TotalPnL() float64 {
	var total float64
	for _, pos := range p.Positions {
		total += pos.PnL()
	}
	return total
}

// SnapshotAll resets the P&L baseline for every position.
func (p *Portfolio) SnapshotAll() {
	for _, pos := range p.Positions {
		pos.SnapshotPrice()
	}
}
