package main

import (
	"context"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"countyq/internal/config"
	"countyq/internal/engine"
	"countyq/internal/gate"
	"countyq/internal/handlers"
	"countyq/internal/ingest"
	"countyq/internal/store"
)

const (
	EndPointHealth = "/health"
	EndPointAsk    = "/api/ask"
	EndPointReload = "/api/reload"
	EndPointStats  = "/api/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.SheetURL == "" {
		log.Fatal("SHEET_URL environment variable is required")
	}

	log.Info("Starting the county demographics service...")

	st := store.New()
	fetcher := ingest.NewFetcher(cfg.SheetURL)
	ingestor := ingest.New(fetcher, st)
	eng := engine.New(st)

	var gt *gate.Client
	if cfg.OpenAIAPIKey != "" {
		gt = gate.NewClient(gate.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
		log.Infof("Relevance gate enabled with model %s", cfg.OpenAIModel)
	} else {
		log.Warn("OPENAI_API_KEY not set, relevance gate disabled")
	}

	// Initial load. A failure here is not fatal: the feed may recover, and
	// /api/reload can bring the data in later.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := ingestor.Refresh(ctx); err != nil {
		log.WithError(err).Error("initial ingest failed, serving without data")
	}
	cancel()

	if cfg.RefreshInterval > 0 {
		go refreshLoop(ingestor, cfg.RefreshInterval)
	}

	handler := handlers.NewQuestionHandler(eng, ingestor, st, gt)

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET(EndPointHealth, handler.HandleHealth)
	router.POST(EndPointAsk, handler.HandleAsk)
	router.POST(EndPointReload, handler.HandleReload)
	router.GET(EndPointStats, handler.HandleStats)

	if cfg.StaticDir != "" {
		router.Static("/app", cfg.StaticDir)
	}

	log.Infof("County demographics service starting on port %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func refreshLoop(ingestor *ingest.Ingestor, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := ingestor.Refresh(ctx); err != nil {
			log.WithError(err).Error("scheduled refresh failed")
		}
		cancel()
	}
}
