package models

// Ticker data sources, most reliable first
const (
	SourceMEXC      = "mexc"
	SourceBinance   = "binance"
	SourceSynthetic = "synthetic"
)

// MarketData represents a current market snapshot for one symbol
type MarketData struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change24h"`
	Volume    float64   `json:"volume"`
	Timestamp int64     `json:"timestamp"`
	Source    string    `json:"source"`
	History   []float64 `json:"history,omitempty"`
}

// Kline represents a single candlestick
type Kline struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Message represents a WebSocket message pushed to dashboard clients
type Message struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}
