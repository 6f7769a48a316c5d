package mexc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tradedeck/tradedeck/internal/models"
)

// ErrInvalidAction marks a rejected trade action, before any network call
var ErrInvalidAction = errors.New("invalid action")

// sideCodes maps dashboard actions to the exchange's numeric side codes.
// WAIT is deliberately absent: it is an AI decision, not a placeable order.
var sideCodes = map[string]int{
	models.ActionLong:  1,
	models.ActionShort: 2,
	models.ActionClose: 3,
}

// OrderRequest describes one order placement
type OrderRequest struct {
	Action   string
	Symbol   string
	Leverage int
	Price    float64
}

// orderPayload is the futures order submit body. Volume is fixed at one
// contract and open type at isolated margin.
type orderPayload struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Vol      int     `json:"vol"`
	Side     int     `json:"side"`
	Type     int     `json:"type"`
	OpenType int     `json:"openType"`
	Leverage int     `json:"leverage"`
}

// PlaceOrder validates the action, maps it to the exchange side code and
// submits a single signed order. The upstream response is returned verbatim
// so the dashboard can show exactly what the exchange said.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (json.RawMessage, error) {
	side, ok := sideCodes[req.Action]
	if !ok {
		return nil, fmt.Errorf("%w %q: must be LONG, SHORT or CLOSE", ErrInvalidAction, req.Action)
	}

	payload := orderPayload{
		Symbol:   req.Symbol,
		Price:    req.Price,
		Vol:      1,
		Side:     side,
		Type:     1, // limit order at the supplied price
		OpenType: 1, // isolated margin
		Leverage: req.Leverage,
	}

	body, err := c.do(ctx, http.MethodPost, c.futuresBaseURL, "/api/v1/private/order/submit", NewParams(), payload)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
