package model

// TradePosition is one open position.
type TradePosition struct {
	Size       float64  `json:"size" yaml:"size"`               // notional, account currency
	EntryPrice float64  `json:"entry_price" yaml:"entry_price"` // > 0
	StopLoss   *float64 `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty" yaml:"take_profit,omitempty"`
	Leverage   float64  `json:"leverage" yaml:"leverage"` // >= 1
}

// HasStopLoss reports whether a protective exit is set.
// A zero stop is treated as absent.
func (p TradePosition) HasStopLoss() bool {
	return p.StopLoss != nil && *p.StopLoss != 0
}

// AccountState is the scoring input. It is treated as immutable per evaluation.
type AccountState struct {
	Balance     float64         `json:"balance" yaml:"balance"`
	Positions   []TradePosition `json:"positions" yaml:"positions"`
	TotalEquity float64         `json:"total_equity" yaml:"total_equity"`
}

// Price returns a pointer to v, for building optional stop/target prices.
func Price(v float64) *float64 {
	return &v
}
