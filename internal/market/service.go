// Package market serves public market data with a three-tier fallback
// chain: the primary exchange ticker, a secondary public ticker source, and
// finally synthetic data so the dashboard never renders an empty screen.
// Every response is labeled with its source so synthetic data cannot
// masquerade as live quotes.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/models"
)

// Service fetches tickers and klines from public endpoints, no credentials
// involved
type Service struct {
	httpClient     *http.Client
	mexcBaseURL    string
	binanceBaseURL string
	log            *logrus.Logger
	rand           *rand.Rand
}

// Option configures a Service
type Option func(*Service)

// WithMEXCBaseURL overrides the primary ticker host
func WithMEXCBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.mexcBaseURL = baseURL
	}
}

// WithBinanceBaseURL overrides the secondary ticker host
func WithBinanceBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.binanceBaseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.httpClient.Timeout = timeout
	}
}

// WithLogger sets the service logger
func WithLogger(log *logrus.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a market data service
func NewService(opts ...Option) *Service {
	s := &Service{
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		mexcBaseURL:    "https://contract.mexc.com",
		binanceBaseURL: "https://api.binance.com",
		log:            logrus.New(),
		rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ticker returns a market snapshot for the symbol. It never fails: when
// both upstream sources are down it degrades to synthetic data, flagged via
// the Source field.
func (s *Service) Ticker(ctx context.Context, symbol string) models.MarketData {
	if data, err := s.mexcTicker(ctx, symbol); err == nil {
		return data
	} else {
		s.log.WithField("symbol", symbol).WithError(err).
			Warn("Primary ticker source failed, trying fallback")
	}

	if data, err := s.binanceTicker(ctx, symbol); err == nil {
		return data
	} else {
		s.log.WithField("symbol", symbol).WithError(err).
			Warn("Fallback ticker source failed, serving synthetic data")
	}

	return s.syntheticTicker(symbol)
}

type mexcTickerResponse struct {
	Code *int `json:"code"`
	Data struct {
		LastPrice    float64 `json:"lastPrice"`
		RiseFallRate float64 `json:"riseFallRate"`
		Volume24     float64 `json:"volume24"`
		Timestamp    int64   `json:"timestamp"`
	} `json:"data"`
}

func (s *Service) mexcTicker(ctx context.Context, symbol string) (models.MarketData, error) {
	url := fmt.Sprintf("%s/api/v1/contract/ticker?symbol=%s", s.mexcBaseURL, symbol)

	body, err := s.get(ctx, url)
	if err != nil {
		return models.MarketData{}, err
	}

	var ticker mexcTickerResponse
	if err := json.Unmarshal(body, &ticker); err != nil {
		return models.MarketData{}, fmt.Errorf("decode mexc ticker: %w", err)
	}
	if ticker.Code != nil && *ticker.Code != 0 {
		return models.MarketData{}, fmt.Errorf("mexc ticker error code %d", *ticker.Code)
	}
	if ticker.Data.LastPrice <= 0 {
		return models.MarketData{}, fmt.Errorf("mexc ticker has no price for %s", symbol)
	}

	return models.MarketData{
		Symbol:    symbol,
		Price:     ticker.Data.LastPrice,
		Change24h: ticker.Data.RiseFallRate * 100,
		Volume:    ticker.Data.Volume24,
		Timestamp: ticker.Data.Timestamp,
		Source:    models.SourceMEXC,
	}, nil
}

type binanceTickerResponse struct {
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	Volume             string `json:"volume"`
}

func (s *Service) binanceTicker(ctx context.Context, symbol string) (models.MarketData, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", s.binanceBaseURL, binanceSymbol(symbol))

	body, err := s.get(ctx, url)
	if err != nil {
		return models.MarketData{}, err
	}

	var ticker binanceTickerResponse
	if err := json.Unmarshal(body, &ticker); err != nil {
		return models.MarketData{}, fmt.Errorf("decode binance ticker: %w", err)
	}

	price, err := strconv.ParseFloat(ticker.LastPrice, 64)
	if err != nil || price <= 0 {
		return models.MarketData{}, fmt.Errorf("binance ticker has no price for %s", symbol)
	}
	change, _ := strconv.ParseFloat(ticker.PriceChangePercent, 64)
	volume, _ := strconv.ParseFloat(ticker.Volume, 64)

	return models.MarketData{
		Symbol:    symbol,
		Price:     price,
		Change24h: change,
		Volume:    volume,
		Timestamp: time.Now().UnixMilli(),
		Source:    models.SourceBinance,
	}, nil
}

// syntheticBasePrices seeds plausible magnitudes for common symbols
var syntheticBasePrices = map[string]float64{
	"BTC_USDT": 40000,
	"ETH_USDT": 2500,
	"SOL_USDT": 100,
}

// syntheticTicker fabricates a ticker when every upstream is down. It keeps
// the dashboard rendering but is clearly labeled so nobody trades on it.
func (s *Service) syntheticTicker(symbol string) models.MarketData {
	base, ok := syntheticBasePrices[symbol]
	if !ok {
		base = 100
	}

	jitter := 1 + (s.rand.Float64()-0.5)*0.04 // ±2%
	return models.MarketData{
		Symbol:    symbol,
		Price:     base * jitter,
		Change24h: (s.rand.Float64() - 0.5) * 10,
		Volume:    s.rand.Float64() * 10000,
		Timestamp: time.Now().UnixMilli(),
		Source:    models.SourceSynthetic,
	}
}

// Klines returns candlestick history, primary source first. Unlike the
// ticker there is no synthetic tier: a chart of invented candles is worse
// than no chart, so total failure returns an error.
func (s *Service) Klines(ctx context.Context, symbol, interval string, limit int) ([]models.Kline, error) {
	klines, mexcErr := s.mexcKlines(ctx, symbol, interval, limit)
	if mexcErr == nil {
		return klines, nil
	}
	s.log.WithField("symbol", symbol).WithError(mexcErr).
		Warn("Primary kline source failed, trying fallback")

	klines, binanceErr := s.binanceKlines(ctx, symbol, interval, limit)
	if binanceErr == nil {
		return klines, nil
	}

	return nil, fmt.Errorf("all kline sources failed: %v; %w", mexcErr, binanceErr)
}

type mexcKlineResponse struct {
	Code *int `json:"code"`
	Data struct {
		Time  []int64   `json:"time"`
		Open  []float64 `json:"open"`
		High  []float64 `json:"high"`
		Low   []float64 `json:"low"`
		Close []float64 `json:"close"`
		Vol   []float64 `json:"vol"`
	} `json:"data"`
}

func (s *Service) mexcKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Kline, error) {
	url := fmt.Sprintf("%s/api/v1/contract/kline/%s?interval=%s&limit=%d",
		s.mexcBaseURL, symbol, mexcInterval(interval), limit)

	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp mexcKlineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode mexc klines: %w", err)
	}
	if resp.Code != nil && *resp.Code != 0 {
		return nil, fmt.Errorf("mexc klines error code %d", *resp.Code)
	}
	if len(resp.Data.Time) == 0 {
		return nil, fmt.Errorf("mexc klines empty for %s", symbol)
	}

	klines := make([]models.Kline, 0, len(resp.Data.Time))
	for i := range resp.Data.Time {
		klines = append(klines, models.Kline{
			Time:   resp.Data.Time[i] * 1000,
			Open:   resp.Data.Open[i],
			High:   resp.Data.High[i],
			Low:    resp.Data.Low[i],
			Close:  resp.Data.Close[i],
			Volume: resp.Data.Vol[i],
		})
	}
	return klines, nil
}

func (s *Service) binanceKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Kline, error) {
	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		s.binanceBaseURL, binanceSymbol(symbol), binanceInterval(interval), limit)

	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	// Binance klines are positional arrays of mixed number/string values.
	var raw [][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode binance klines: %w", err)
	}

	klines := make([]models.Kline, 0, len(raw))
	for _, row := range raw {
		if len(row) < 6 {
			continue
		}
		var openTime int64
		json.Unmarshal(row[0], &openTime)

		klines = append(klines, models.Kline{
			Time:   openTime,
			Open:   parseQuotedFloat(row[1]),
			High:   parseQuotedFloat(row[2]),
			Low:    parseQuotedFloat(row[3]),
			Close:  parseQuotedFloat(row[4]),
			Volume: parseQuotedFloat(row[5]),
		})
	}
	if len(klines) == 0 {
		return nil, fmt.Errorf("binance klines empty for %s", symbol)
	}
	return klines, nil
}

func parseQuotedFloat(raw json.RawMessage) float64 {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// get issues a plain GET and returns the body of a 2xx response
func (s *Service) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// binanceSymbol converts the contract naming (BTC_USDT) to the spot naming
// (BTCUSDT) the secondary source expects
func binanceSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "_", "")
}

// Interval naming differs between the two sources; the dashboard speaks the
// binance dialect.
var mexcIntervals = map[string]string{
	"1m":  "Min1",
	"5m":  "Min5",
	"15m": "Min15",
	"30m": "Min30",
	"1h":  "Min60",
	"4h":  "Hour4",
	"1d":  "Day1",
}

func mexcInterval(interval string) string {
	if mapped, ok := mexcIntervals[interval]; ok {
		return mapped
	}
	return "Min15"
}

func binanceInterval(interval string) string {
	if _, ok := mexcIntervals[interval]; ok {
		return interval
	}
	return "15m"
}
