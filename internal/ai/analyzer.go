package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/models"
)

// maxLeverage is the ceiling stated in the prompt and enforced on the reply
const maxLeverage = 20

// Analyzer normalizes LLM replies into trade decisions. providerFor is a
// field so tests can inject a fake provider.
type Analyzer struct {
	httpClient  *http.Client
	log         *logrus.Logger
	providerFor func(models.AISettings) (Provider, error)
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithAnalyzerTimeout sets the completion call timeout. LLM round trips run
// far longer than exchange calls.
func WithAnalyzerTimeout(timeout time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		a.httpClient.Timeout = timeout
	}
}

// WithAnalyzerLogger sets the analyzer logger
func WithAnalyzerLogger(log *logrus.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.log = log
	}
}

// NewAnalyzer creates an analyzer dispatching to the configured provider
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		log:        logrus.New(),
	}
	a.providerFor = func(settings models.AISettings) (Provider, error) {
		return NewProvider(settings, a.httpClient)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze prompts the selected provider with the market snapshot and
// normalizes its reply. It never returns an error: a missing provider or
// key yields WAIT with confidence 50, a network or parse failure WAIT with
// confidence 0, always with the diagnostic in the reason.
func (a *Analyzer) Analyze(ctx context.Context, settings models.AISettings, market models.MarketData, currentSide string) models.TradeAction {
	provider, err := a.providerFor(settings)
	if err != nil {
		return models.TradeAction{
			Action:     models.ActionWait,
			Leverage:   1,
			Reason:     fmt.Sprintf("AI analysis unavailable: %v", err),
			Confidence: 50,
		}
	}

	prompt := buildPrompt(market, currentSide)

	reply, err := provider.Complete(ctx, prompt)
	if err != nil {
		a.log.WithField("provider", provider.Name()).WithError(err).
			Warn("AI completion failed, defaulting to WAIT")
		return failedDecision(fmt.Sprintf("AI request failed: %v", err))
	}

	decision, err := parseDecision(reply)
	if err != nil {
		a.log.WithField("provider", provider.Name()).WithError(err).
			Warn("AI reply unparseable, defaulting to WAIT")
		return failedDecision(fmt.Sprintf("AI reply unparseable: %v", err))
	}

	return decision
}

func failedDecision(reason string) models.TradeAction {
	return models.TradeAction{
		Action:     models.ActionWait,
		Leverage:   1,
		Reason:     reason,
		Confidence: 0,
	}
}

// buildPrompt renders the market snapshot into a JSON-only instruction
func buildPrompt(market models.MarketData, currentSide string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a cryptocurrency futures trading assistant.\n")
	fmt.Fprintf(&b, "Symbol: %s\n", market.Symbol)
	fmt.Fprintf(&b, "Current price: %.6f\n", market.Price)
	fmt.Fprintf(&b, "24h change: %.2f%%\n", market.Change24h)
	fmt.Fprintf(&b, "24h volume: %.2f\n", market.Volume)

	if len(market.History) > 0 {
		history := market.History
		if len(history) > 10 {
			history = history[len(history)-10:]
		}
		b.WriteString("Recent closes (oldest first):")
		for _, p := range history {
			fmt.Fprintf(&b, " %.6f", p)
		}
		b.WriteByte('\n')
	}

	if currentSide != "" {
		fmt.Fprintf(&b, "Current position: %s\n", currentSide)
	} else {
		b.WriteString("Current position: none\n")
	}

	fmt.Fprintf(&b, "\nDecide the next move. Leverage must not exceed %d.\n", maxLeverage)
	b.WriteString("Reply with ONLY a JSON object, no prose, no markdown, in this exact shape:\n")
	b.WriteString(`{"action":"LONG|SHORT|CLOSE|WAIT","leverage":1,"reason":"...","confidence":0}`)
	b.WriteString("\nconfidence is 0-100.")

	return b.String()
}

// rawDecision tolerates models replying with numbers as floats
type rawDecision struct {
	Action     string  `json:"action"`
	Leverage   float64 `json:"leverage"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// parseDecision extracts and validates the JSON decision from a model
// reply. Models wrap JSON in markdown fences or prose despite instructions,
// so the first balanced object found in the text is used.
func parseDecision(reply string) (models.TradeAction, error) {
	payload := extractJSON(reply)
	if payload == "" {
		return models.TradeAction{}, fmt.Errorf("no JSON object in reply")
	}

	var raw rawDecision
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return models.TradeAction{}, fmt.Errorf("decode decision: %w", err)
	}

	action := strings.ToUpper(strings.TrimSpace(raw.Action))
	switch action {
	case models.ActionLong, models.ActionShort, models.ActionClose, models.ActionWait:
	default:
		action = models.ActionWait
	}

	leverage := int(raw.Leverage)
	if leverage < 1 {
		leverage = 1
	}
	if leverage > maxLeverage {
		leverage = maxLeverage
	}

	confidence := int(raw.Confidence)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return models.TradeAction{
		Action:     action,
		Leverage:   leverage,
		Reason:     raw.Reason,
		Confidence: confidence,
	}, nil
}

// extractJSON returns the substring between the first '{' and the last '}',
// which strips markdown fences and surrounding prose
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
