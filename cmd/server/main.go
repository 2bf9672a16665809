// Package main is the entry point for the solarquote API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"solarquote/adapters/refdata"
	"solarquote/api"
	"solarquote/core/estimate"
	"solarquote/core/production"
	"solarquote/internal/config"
	"solarquote/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgFile := flag.String("config", "", "config file path")
	flag.Parse()

	// .env is optional; environment overrides apply either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	store, err := refdata.New(cfg.RefData.Dir)
	if err != nil {
		logging.Fatal("loading reference data", zap.Error(err))
	}

	var model production.Model
	if cfg.Irradiance.Endpoint != "" {
		model = production.NewHTTPModel(cfg.Irradiance.Endpoint)
	}
	estimator := production.NewEstimator(model, cfg.Irradiance.Timeout())

	svc := estimate.NewService(store, estimator, estimate.Defaults{
		Region: cfg.Estimate.DefaultRegion,
		PlanID: cfg.Estimate.DefaultPlanID,
	})

	server := api.NewServer(cfg.Server, store, svc, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logging.Fatal("server error", zap.Error(err))
	}
}
