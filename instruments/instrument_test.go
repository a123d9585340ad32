package instruments

import "testing"

func TestOptionIntrinsicCall(t *testing.T) {
	stock := &Stock{TickerID: "AAPL", Last: 160}
	opt := &Option{TickerID: "AAPL 150C", Strike: 150, Underlying: stock, Type: Call}
	if got := opt.Intrinsic(); got != 10 {
		t.Errorf("call intrinsic = %v, want 10", got)
	}
}

func TestOptionIntrinsicPut(t *testing.T) {
	stock := &Stock{TickerID: "AAPL", Last: 140}
	opt := &Option{TickerID: "AAPL 150P", Strike: 150, Underlying: stock, Type: Put}
	if got := opt.Intrinsic(); got != 10 {
		t.Errorf("put intrinsic = %v, want 10", got)
	}
}

func TestOptionIntrinsicOutOfMoneyIsZero(t *testing.T) {
	stock := &Stock{TickerID: "AAPL", Last: 140}
	call := &Option{Strike: 150, Underlying: stock, Type: Call}
	if got := call.Intrinsic(); got != 0 {
		t.Errorf("out-of-money call intrinsic = %v, want 0", got)
	}
}

func TestSharedUnderlying(t *testing.T) {
	stock := &Stock{TickerID: "AAPL", Last: 150}
	call := &Option{TickerID: "AAPL C", Strike: 140, Underlying: stock, Type: Call}
	put := &Option{TickerID: "AAPL P", Strike: 160, Underlying: stock, Type: Put}

	stock.Last = 200
	if call.Underlying.Last != 200 || put.Underlying.Last != 200 {
		t.Error("options sharing an underlying should observe the same price update")
	}
}

func TestInstrumentVariantsImplementInterface(t *testing.T) {
	var instruments = []Instrument{
		&Stock{TickerID: "A", Last: 1},
		&Option{TickerID: "B", Underlying: &Stock{TickerID: "A", Last: 1}},
		&Bond{TickerID: "C", Clean: 100},
	}
	for _, inst := range instruments {
		if inst.Ticker() == "" {
			t.Error("every instrument should carry a ticker")
		}
	}
}
