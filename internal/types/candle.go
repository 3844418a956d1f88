package types

// Candle is one OHLC bar. The price feed carries no volume.
type Candle struct {
	// Time is the bar open time in unix seconds.
	Time  int64   `yaml:"time" json:"time"`
	Open  float64 `yaml:"open" json:"open"`
	High  float64 `yaml:"high" json:"high"`
	Low   float64 `yaml:"low" json:"low"`
	Close float64 `yaml:"close" json:"close"`
}
