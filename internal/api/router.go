package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/ai"
	"github.com/tradedeck/tradedeck/internal/config"
	"github.com/tradedeck/tradedeck/internal/handlers"
	"github.com/tradedeck/tradedeck/internal/market"
	"github.com/tradedeck/tradedeck/internal/mexc"
	"github.com/tradedeck/tradedeck/internal/middleware"
	"github.com/tradedeck/tradedeck/internal/ratelimit"
	"github.com/tradedeck/tradedeck/internal/websocket"
	"github.com/tradedeck/tradedeck/web"
)

// SetupRouter configures all routes and returns the router
func SetupRouter(
	cfg *config.Config,
	marketService *market.Service,
	analyzer *ai.Analyzer,
	limitStore ratelimit.Store,
	wsHub *websocket.Hub,
	log *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLog(log))

	// Health check endpoint
	router.HandleFunc("/api/health", HealthHandler).Methods("GET")

	// WebSocket route for streaming ticker updates
	router.HandleFunc("/ws", wsHub.HandleWebSocket)

	// Create handlers
	marketHandler := handlers.NewMarketHandler(marketService, log)
	mexcHandler := handlers.NewMexcHandler(log,
		mexc.WithSpotBaseURL(cfg.MEXC.SpotBaseURL),
		mexc.WithFuturesBaseURL(cfg.MEXC.FuturesBaseURL),
		mexc.WithTimeout(cfg.MEXC.Timeout),
		mexc.WithThrottle(cfg.MEXC.RequestsPerSec, cfg.MEXC.Burst),
	)
	aiHandler := handlers.NewAIHandler(analyzer, log)

	apiRouter := router.PathPrefix("/api").Subrouter()
	marketHandler.RegisterRoutes(apiRouter)
	aiHandler.RegisterRoutes(apiRouter)

	// Exchange relay routes sit behind the per-IP rate limit
	mexcRouter := apiRouter.PathPrefix("/mexc").Subrouter()
	mexcRouter.Use(middleware.RateLimit(limitStore, log))
	mexcHandler.RegisterRoutes(mexcRouter)

	// Serve the embedded dashboard, with API passthrough on the catch-all
	assets := web.GetFileSystem()
	router.PathPrefix("/static/").Handler(http.FileServer(assets))
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		r.URL.Path = "/"
		http.FileServer(assets).ServeHTTP(w, r)
	})

	return router
}
