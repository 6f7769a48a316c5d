package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/ai"
	"github.com/tradedeck/tradedeck/internal/models"
)

// AIHandler runs market analysis through the configured LLM provider
type AIHandler struct {
	analyzer *ai.Analyzer
	log      *logrus.Logger
}

// NewAIHandler creates a new AI analysis handler
func NewAIHandler(analyzer *ai.Analyzer, log *logrus.Logger) *AIHandler {
	return &AIHandler{
		analyzer: analyzer,
		log:      log,
	}
}

// RegisterRoutes registers AI analysis routes
func (h *AIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ai/analyze", h.Analyze).Methods("POST")
}

type analyzeRequest struct {
	Settings            models.AISettings `json:"settings"`
	MarketData          models.MarketData `json:"marketData"`
	CurrentPositionSide string            `json:"currentPositionSide"`
}

// Analyze always answers 200 with a decision record. Provider failures are
// downgraded to WAIT inside the analyzer, never surfaced as HTTP errors.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision := h.analyzer.Analyze(r.Context(), req.Settings, req.MarketData, req.CurrentPositionSide)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decision)
}
