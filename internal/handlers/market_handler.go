package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/market"
)

// MarketHandler serves public market data, no credentials required
type MarketHandler struct {
	market *market.Service
	log    *logrus.Logger
}

// NewMarketHandler creates a new market data handler
func NewMarketHandler(marketService *market.Service, log *logrus.Logger) *MarketHandler {
	return &MarketHandler{
		market: marketService,
		log:    log,
	}
}

// RegisterRoutes registers market data routes
func (h *MarketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/market/ticker", h.GetTicker).Methods("GET")
	router.HandleFunc("/market/klines", h.GetKlines).Methods("GET")
}

// GetTicker returns the current ticker for a symbol. It never fails; on
// total upstream outage the response is synthetic and labeled as such.
func (h *MarketHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = "BTC_USDT"
	}

	data := h.market.Ticker(r.Context(), symbol)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// GetKlines returns candlestick history for the dashboard chart
func (h *MarketHandler) GetKlines(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = "BTC_USDT"
	}

	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "15m"
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	klines, err := h.market.Klines(r.Context(), symbol, interval, limit)
	if err != nil {
		h.log.WithField("symbol", symbol).WithError(err).Error("Kline fetch failed")
		writeError(w, http.StatusBadGateway, "market data unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(klines)
}

// writeError sends a one-line JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
