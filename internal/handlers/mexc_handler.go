package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/mexc"
)

// MexcHandler relays account and trade requests to the exchange, signed
// with the credentials the caller supplies per request. Nothing is stored.
type MexcHandler struct {
	newClient func(apiKey, secretKey string) *mexc.Client
	log       *logrus.Logger
}

// NewMexcHandler creates the exchange relay handler. clientOpts carry the
// configured base URLs, timeout and throttle into every per-request client.
func NewMexcHandler(log *logrus.Logger, clientOpts ...mexc.ClientOption) *MexcHandler {
	return &MexcHandler{
		newClient: func(apiKey, secretKey string) *mexc.Client {
			opts := append([]mexc.ClientOption{mexc.WithLogger(log)}, clientOpts...)
			return mexc.NewClient(apiKey, secretKey, opts...)
		},
		log: log,
	}
}

// RegisterRoutes registers the rate-limited relay routes
func (h *MexcHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/account", h.GetAccount).Methods("POST")
	router.HandleFunc("/trade", h.PlaceTrade).Methods("POST")
}

type accountRequest struct {
	APIKey    string `json:"apiKey"`
	SecretKey string `json:"secretKey"`
	Symbol    string `json:"symbol"`
}

// GetAccount returns the five-category account snapshot. Credentials are
// shape-checked before any signing happens.
func (h *MexcHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !mexc.ValidateCredentials(req.APIKey, req.SecretKey) {
		writeError(w, http.StatusBadRequest, "invalid API credentials")
		return
	}

	symbol := req.Symbol
	if symbol == "" {
		symbol = "BTC_USDT"
	}

	client := h.newClient(req.APIKey, req.SecretKey)
	snapshot := client.AccountSnapshot(r.Context(), symbol)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

type tradeRequest struct {
	Action    string  `json:"action"`
	APIKey    string  `json:"apiKey"`
	SecretKey string  `json:"secretKey"`
	Symbol    string  `json:"symbol"`
	Leverage  int     `json:"leverage"`
	Price     float64 `json:"price"`
}

// PlaceTrade validates and relays one order placement, returning the
// exchange's response verbatim
func (h *MexcHandler) PlaceTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !mexc.ValidateCredentials(req.APIKey, req.SecretKey) {
		writeError(w, http.StatusBadRequest, "invalid API credentials")
		return
	}

	if req.Leverage < 1 {
		req.Leverage = 1
	}
	if req.Symbol == "" {
		req.Symbol = "BTC_USDT"
	}

	client := h.newClient(req.APIKey, req.SecretKey)
	result, err := client.PlaceOrder(r.Context(), mexc.OrderRequest{
		Action:   req.Action,
		Symbol:   req.Symbol,
		Leverage: req.Leverage,
		Price:    req.Price,
	})
	if err != nil {
		if errors.Is(err, mexc.ErrInvalidAction) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.WithFields(logrus.Fields{
			"action": req.Action,
			"symbol": req.Symbol,
		}).WithError(err).Error("Order placement failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(result)
}
