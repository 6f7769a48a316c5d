package models

// Trade actions an AI decision can recommend
const (
	ActionLong  = "LONG"
	ActionShort = "SHORT"
	ActionClose = "CLOSE"
	ActionWait  = "WAIT"
)

// TradeAction is the normalized AI decision. Every analyze call produces one,
// degraded to a WAIT default when the provider fails.
type TradeAction struct {
	Action     string `json:"action"`
	Leverage   int    `json:"leverage"`
	Reason     string `json:"reason"`
	Confidence int    `json:"confidence"`
}

// AISettings selects the provider and carries the per-provider keys supplied
// by the dashboard. Keys never leave the process.
type AISettings struct {
	Provider       string `json:"provider"`
	GeminiAPIKey   string `json:"geminiApiKey"`
	OpenAIAPIKey   string `json:"openaiApiKey"`
	OpenAIBaseURL  string `json:"openaiBaseUrl"`
	OpenAIModel    string `json:"openaiModel"`
	DeepSeekAPIKey string `json:"deepseekApiKey"`
	DeepSeekModel  string `json:"deepseekModel"`
}
