package models

// Balance represents a single asset balance on either the spot or futures account
type Balance struct {
	Asset     string  `json:"asset"`
	Available float64 `json:"available"`
	Frozen    float64 `json:"frozen"`
	Total     float64 `json:"total"`
}

// Position side values derived from the upstream position type code
const (
	SideLong  = "LONG"
	SideShort = "SHORT"
)

// Position represents an open futures position
type Position struct {
	Symbol           string  `json:"symbol"`
	Side             string  `json:"side"`
	EntryPrice       float64 `json:"entryPrice"`
	CurrentPrice     float64 `json:"currentPrice"`
	Leverage         int     `json:"leverage"`
	UnrealizedPnl    float64 `json:"unrealizedPnl"`
	PnlPercent       float64 `json:"pnlPercent"`
	Margin           float64 `json:"margin"`
	LiquidationPrice float64 `json:"liquidationPrice"`
}

// Order side and type values derived from upstream integer codes
const (
	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"

	OrderTypeLimit  = "LIMIT"
	OrderTypeMarket = "MARKET"
)

// Order represents an open or historical futures order
type Order struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Side      string  `json:"side"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Timestamp int64   `json:"timestamp"`
}

// Trade is a filled historical order shown in the trade history table.
// The upstream API has no separate user-trades feed at this tier, so trades
// are historical orders.
type Trade = Order

// AccountSnapshot aggregates the five account categories fetched per request.
// Categories whose upstream call failed are empty, never nil.
type AccountSnapshot struct {
	SpotBalances    []Balance  `json:"spotBalances"`
	FuturesBalances []Balance  `json:"futuresBalances"`
	Positions       []Position `json:"positions"`
	Orders          []Order    `json:"orders"`
	Trades          []Trade    `json:"trades"`
}
