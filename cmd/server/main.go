package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"foncier/server/config"
	"foncier/server/internal/api"
	"foncier/server/internal/loader"
	"foncier/server/internal/metrics"
	"foncier/server/internal/scheduler"
	"foncier/server/internal/store"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	fetcher := loader.NewHTTPFetcher(
		cfg.Dataset.URLTemplate,
		time.Duration(cfg.Dataset.FetchTimeout)*time.Second,
		logger,
	)
	ld := loader.NewLoader(fetcher, cfg.SeparatorRune(), logger)

	st := store.New()
	engine := metrics.NewEngine(logger, cfg.Aggregation.BranchBuffer)

	refreshInterval := time.Duration(cfg.Dataset.RefreshHours) * time.Hour
	sched := scheduler.New(ld, st, refreshInterval, cfg.Dataset.StartYear, cfg.Dataset.EndYear, logger)

	logger.Infof("Loading dataset years %d-%d...", cfg.Dataset.StartYear, cfg.Dataset.EndYear)
	sched.RunOnce(context.Background())
	sched.Start()

	// Log a baseline metric so an operator sees at a glance that the load
	// produced something sensible.
	if txs := st.Year(cfg.Filtering.DefaultYear); len(txs) > 0 {
		if metric, err := engine.Compute(context.Background(), txs); err == nil {
			logger.Infof("Baseline metrics for %d:\n%s", cfg.Filtering.DefaultYear, metric.Render())
		} else {
			logger.WithError(err).Error("Failed to compute baseline metrics")
		}
	}

	handler := api.NewHandler(st, engine, sched, cfg.Filtering.DefaultYear, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
