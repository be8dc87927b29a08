package main

import (
	"log"

	"go-churn-pipeline/internal/api"
	"go-churn-pipeline/internal/api/handler"
	"go-churn-pipeline/internal/config"
	"go-churn-pipeline/internal/pipeline"
	"go-churn-pipeline/internal/store"
	"go-churn-pipeline/pkg/router"

	_ "go-churn-pipeline/docs" // swagger spec registration
)

// @title Churn Prediction Pipeline API
// @version 1.0
// @description Upload customer data, run churn predictions through the external scoring process (with heuristic fallback), and download the current batch.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer store.CloseDB()

	exchange, err := pipeline.NewFileExchange(cfg.ExchangeDir)
	if err != nil {
		log.Fatalf("Failed to init exchange: %v", err)
	}

	results := store.NewResultStore()
	runner := &pipeline.Runner{
		Real: &pipeline.RealScorer{
			Exchange: exchange,
			Command:  cfg.ScorerCommand,
			Args:     cfg.ScorerArgs,
			WorkDir:  cfg.ExchangeDir,
			Timeout:  cfg.RunTimeout(),
		},
		Fallback:        pipeline.NewSimulatedScorer(),
		Results:         results,
		Track:           store.RunLog{},
		FallbackEnabled: cfg.FallbackEnabled,
	}

	probe := &pipeline.Probe{Command: cfg.ScorerCommand, ExchangeDir: cfg.ExchangeDir}
	cronJobs, err := pipeline.StartHealthProbe(probe, cfg.HealthProbeSchedule)
	if err != nil {
		log.Fatalf("Failed to start health probe: %v", err)
	}
	defer cronJobs.Stop()

	h := &handler.ChurnHandler{
		Runner:          runner,
		Results:         results,
		Probe:           probe,
		FallbackEnabled: cfg.FallbackEnabled,
	}

	r := router.New()
	api.RegisterRoutes(r, h)
	r.Start(cfg.ListenAddr)
}
