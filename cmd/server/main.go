package main

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/ai"
	"github.com/tradedeck/tradedeck/internal/api"
	"github.com/tradedeck/tradedeck/internal/config"
	"github.com/tradedeck/tradedeck/internal/market"
	"github.com/tradedeck/tradedeck/internal/ratelimit"
	"github.com/tradedeck/tradedeck/internal/tasks"
	"github.com/tradedeck/tradedeck/internal/websocket"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	// Select the rate-limit store: Redis when configured for multi-instance
	// deployments, in-process otherwise
	limitStore := buildLimitStore(cfg, log)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Market data service with the ticker fallback chain
	marketService := market.NewService(
		market.WithMEXCBaseURL(cfg.MEXC.FuturesBaseURL),
		market.WithBinanceBaseURL(cfg.Market.BinanceBaseURL),
		market.WithTimeout(cfg.MEXC.Timeout),
		market.WithLogger(log),
	)

	// AI decision analyzer
	analyzer := ai.NewAnalyzer(
		ai.WithAnalyzerTimeout(cfg.AI.Timeout),
		ai.WithAnalyzerLogger(log),
	)

	// Background ticker broadcasting for connected dashboards
	taskManager := tasks.NewManager(log)
	taskManager.RegisterTask(tasks.NewTickerBroadcastTask(
		marketService, wsHub, cfg.Market.WatchSymbols, cfg.Market.BroadcastInterval, log,
	))
	taskManager.StartAll()

	// Initialize router
	router := api.SetupRouter(cfg, marketService, analyzer, limitStore, wsHub, log)
	api.LogRoutes(router, log)

	// Set up CORS
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := corsMiddleware.Handler(router)

	log.WithField("port", cfg.Server.Port).Info("Server starting")
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, handler))
}

// buildLimitStore wires the configured fixed-window store
func buildLimitStore(cfg *config.Config, log *logrus.Logger) ratelimit.Store {
	if !cfg.Redis.Enabled {
		return ratelimit.NewMemoryStore(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Warn("Invalid Redis URL, falling back to in-memory rate limiting")
		return ratelimit.NewMemoryStore(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	client := redis.NewClient(opts)
	log.WithField("addr", opts.Addr).Info("Using Redis-backed rate limiting")
	return ratelimit.NewRedisStore(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
}
