package mexc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Default exchange hosts. Spot and futures live on separate domains with
// incompatible response envelopes.
const (
	defaultSpotBaseURL    = "https://api.mexc.com"
	defaultFuturesBaseURL = "https://contract.mexc.com"
)

// Client relays signed requests to the exchange on behalf of one credential
// pair. It is built per request from caller-supplied credentials and holds
// no state beyond its HTTP client and outbound throttle.
type Client struct {
	apiKey         string
	secretKey      string
	spotBaseURL    string
	futuresBaseURL string
	httpClient     *http.Client
	throttle       *rate.Limiter
	log            *logrus.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout on the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithSpotBaseURL overrides the spot API host
func WithSpotBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.spotBaseURL = baseURL
	}
}

// WithFuturesBaseURL overrides the futures API host
func WithFuturesBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.futuresBaseURL = baseURL
	}
}

// WithThrottle caps outbound request rate so a snapshot burst cannot trip
// the exchange's own limits
func WithThrottle(requestsPerSec float64, burst int) ClientOption {
	return func(c *Client) {
		c.throttle = rate.NewLimiter(rate.Limit(requestsPerSec), burst)
	}
}

// WithLogger sets the logger used for relay diagnostics
func WithLogger(log *logrus.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates an exchange relay client for one credential pair
func NewClient(apiKey, secretKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:         apiKey,
		secretKey:      secretKey,
		spotBaseURL:    defaultSpotBaseURL,
		futuresBaseURL: defaultFuturesBaseURL,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		throttle:       rate.NewLimiter(rate.Limit(20), 40),
		log:            logrus.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// envelope is the futures API response wrapper. The spot API returns bare
// objects, so Code stays nil there and the body passes through unchanged.
type envelope struct {
	Code    *int            `json:"code"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) errMessage() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Message != "" {
		return e.Message
	}
	return "upstream request failed"
}

// ok reports whether the envelope code, when present, signals success
func (e *envelope) ok() bool {
	return e.Code == nil || *e.Code == 0 || *e.Code == 200
}

// do issues one signed request and returns the raw response body. Any
// non-2xx status or non-success envelope code is a hard failure carrying the
// upstream message. No retries: a failed call is terminal for this request.
func (c *Client) do(ctx context.Context, method, baseURL, endpoint string, params *Params, payload interface{}) ([]byte, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle wait: %w", err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	reqURL := SignedURL(baseURL, endpoint, c.secretKey, params)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-MEXC-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	// Not every endpoint returns an envelope; a parse failure here only
	// means the body is a bare object.
	_ = json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Warn("Exchange call rejected")
		return nil, fmt.Errorf("exchange returned %d: %s", resp.StatusCode, env.errMessage())
	}

	if !env.ok() {
		return nil, fmt.Errorf("exchange error %d: %s", *env.Code, env.errMessage())
	}

	return respBody, nil
}

// getData issues a signed GET against the futures host and unwraps the
// envelope's data field
func (c *Client) getData(ctx context.Context, endpoint string, params *Params) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, c.futuresBaseURL, endpoint, params, nil)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return env.Data, nil
}
