package mexc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/tradedeck/tradedeck/internal/models"
)

// dustThreshold filters spot balances too small to display
const dustThreshold = 0.00001

// spotAccount is the spot /api/v3/account response shape. Amounts arrive as
// decimal strings.
type spotAccount struct {
	Balances []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}

type futuresAsset struct {
	Currency         string  `json:"currency"`
	AvailableBalance float64 `json:"availableBalance"`
	FrozenBalance    float64 `json:"frozenBalance"`
}

type futuresPosition struct {
	Symbol         string  `json:"symbol"`
	PositionType   int     `json:"positionType"`
	OpenAvgPrice   float64 `json:"openAvgPrice"`
	FairPrice      float64 `json:"fairPrice"`
	Leverage       int     `json:"leverage"`
	Unrealised     float64 `json:"unrealised"`
	IM             float64 `json:"im"`
	LiquidatePrice float64 `json:"liquidatePrice"`
}

type futuresOrder struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Vol        float64 `json:"vol"`
	Side       int     `json:"side"`
	OrderType  int     `json:"orderType"`
	State      int     `json:"state"`
	CreateTime int64   `json:"createTime"`
}

// AccountSnapshot fetches the five account categories concurrently and maps
// them into the uniform dashboard shapes. Each call settles independently: a
// failed category yields an empty list and a logged warning, never an error,
// so a caller always gets a complete snapshot of whatever succeeded.
func (c *Client) AccountSnapshot(ctx context.Context, symbol string) *models.AccountSnapshot {
	snapshot := &models.AccountSnapshot{
		SpotBalances:    []models.Balance{},
		FuturesBalances: []models.Balance{},
		Positions:       []models.Position{},
		Orders:          []models.Order{},
		Trades:          []models.Trade{},
	}

	var wg sync.WaitGroup
	fetch := func(category string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				c.log.WithField("category", category).WithError(err).
					Warn("Snapshot category failed, returning empty list")
			}
		}()
	}

	fetch("spotBalances", func() error {
		balances, err := c.spotBalances(ctx)
		if err != nil {
			return err
		}
		snapshot.SpotBalances = balances
		return nil
	})

	fetch("futuresBalances", func() error {
		balances, err := c.futuresBalances(ctx)
		if err != nil {
			return err
		}
		snapshot.FuturesBalances = balances
		return nil
	})

	fetch("positions", func() error {
		positions, err := c.openPositions(ctx, symbol)
		if err != nil {
			return err
		}
		snapshot.Positions = positions
		return nil
	})

	fetch("orders", func() error {
		orders, err := c.openOrders(ctx, symbol)
		if err != nil {
			return err
		}
		snapshot.Orders = orders
		return nil
	})

	fetch("trades", func() error {
		trades, err := c.historyOrders(ctx, symbol)
		if err != nil {
			return err
		}
		snapshot.Trades = trades
		return nil
	})

	wg.Wait()
	return snapshot
}

func (c *Client) spotBalances(ctx context.Context) ([]models.Balance, error) {
	body, err := c.do(ctx, http.MethodGet, c.spotBaseURL, "/api/v3/account", NewParams(), nil)
	if err != nil {
		return nil, err
	}

	var account spotAccount
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("decode spot account: %w", err)
	}

	balances := make([]models.Balance, 0, len(account.Balances))
	for _, b := range account.Balances {
		free, _ := strconv.ParseFloat(b.Free, 64)
		locked, _ := strconv.ParseFloat(b.Locked, 64)
		total := free + locked
		if total <= dustThreshold {
			continue
		}
		balances = append(balances, models.Balance{
			Asset:     b.Asset,
			Available: free,
			Frozen:    locked,
			Total:     total,
		})
	}
	return balances, nil
}

func (c *Client) futuresBalances(ctx context.Context) ([]models.Balance, error) {
	data, err := c.getData(ctx, "/api/v1/private/account/assets", NewParams())
	if err != nil {
		return nil, err
	}

	var assets []futuresAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("decode futures assets: %w", err)
	}

	balances := make([]models.Balance, 0, len(assets))
	for _, a := range assets {
		balances = append(balances, models.Balance{
			Asset:     a.Currency,
			Available: a.AvailableBalance,
			Frozen:    a.FrozenBalance,
			Total:     a.AvailableBalance + a.FrozenBalance,
		})
	}
	return balances, nil
}

func (c *Client) openPositions(ctx context.Context, symbol string) ([]models.Position, error) {
	params := NewParams().Set("symbol", symbol)
	data, err := c.getData(ctx, "/api/v1/private/position/open_positions", params)
	if err != nil {
		return nil, err
	}

	var raw []futuresPosition
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}

	positions := make([]models.Position, 0, len(raw))
	for _, p := range raw {
		side := models.SideLong
		if p.PositionType == 2 {
			side = models.SideShort
		}

		// Zero margin would otherwise divide out to ±Inf.
		pnlPercent := 0.0
		if p.IM != 0 {
			pnlPercent = p.Unrealised / p.IM * 100
		}

		positions = append(positions, models.Position{
			Symbol:           p.Symbol,
			Side:             side,
			EntryPrice:       p.OpenAvgPrice,
			CurrentPrice:     p.FairPrice,
			Leverage:         p.Leverage,
			UnrealizedPnl:    p.Unrealised,
			PnlPercent:       pnlPercent,
			Margin:           p.IM,
			LiquidationPrice: p.LiquidatePrice,
		})
	}
	return positions, nil
}

func (c *Client) openOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	params := NewParams().Set("symbol", symbol)
	data, err := c.getData(ctx, "/api/v1/private/order/list/open_orders", params)
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

func (c *Client) historyOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	params := NewParams().
		Set("symbol", symbol).
		Set("page_size", "20")
	data, err := c.getData(ctx, "/api/v1/private/order/list/history_orders", params)
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

func decodeOrders(data json.RawMessage) ([]models.Order, error) {
	var raw []futuresOrder
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(raw))
	for _, o := range raw {
		side := models.OrderSideSell
		if o.Side == 1 {
			side = models.OrderSideBuy
		}

		orderType := models.OrderTypeMarket
		if o.OrderType == 1 {
			orderType = models.OrderTypeLimit
		}

		orders = append(orders, models.Order{
			Symbol:    o.Symbol,
			Price:     o.Price,
			Quantity:  o.Vol,
			Side:      side,
			Type:      orderType,
			Status:    orderStatus(o.State),
			Timestamp: o.CreateTime,
		})
	}
	return orders, nil
}

// orderStatus maps the upstream state code to a display status
func orderStatus(state int) string {
	switch state {
	case 1:
		return "NEW"
	case 2:
		return "OPEN"
	case 3:
		return "FILLED"
	case 4:
		return "CANCELED"
	case 5:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}
