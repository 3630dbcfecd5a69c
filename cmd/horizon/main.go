package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/horizon/internal/cli"
	"github.com/alexanderramin/horizon/internal/cli/formatter"
	"github.com/alexanderramin/horizon/internal/config"
	"github.com/alexanderramin/horizon/internal/db"
	"github.com/alexanderramin/horizon/internal/intelligence"
	"github.com/alexanderramin/horizon/internal/repository"
	"github.com/alexanderramin/horizon/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.horizon/horizon.db
	dbPath := os.Getenv("HORIZON_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".horizon", "horizon.db")
	}

	cfg, err := config.Load(os.Getenv("HORIZON_CONFIG"))
	if err != nil {
		return err
	}
	config.ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// First run gets the configured history and resource registry.
	if _, err := service.NewSeeder(cfg, uow).Seed(context.Background()); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Wire repositories
	resourceRepo := repository.NewSQLiteResourceRepo(database)
	sampleRepo := repository.NewSQLiteSampleRepo(database)
	runRepo := repository.NewSQLiteRunRepo(database)

	registry := prometheus.NewRegistry()
	metrics := service.NewPipelineMetrics(registry)
	observer := service.NewLogUseCaseObserver(os.Stderr, service.LoadLogConfig())

	scorer := intelligence.NewNearestNeighbourScorer(intelligence.SeedProjects(), cfg.TargetDays)
	pipeline := service.NewPipeline(cfg, scorer, metrics)
	allocator := service.NewAllocator(resourceRepo, uow, cfg.Allocation, cfg.Requirements, metrics)
	analysis := service.NewAnalysisService(cfg, pipeline, allocator, sampleRepo, metrics, observer)

	app := &cli.App{
		Analyze:      analysis,
		CriticalPath: analysis,
		Resources:    service.NewResourceService(resourceRepo, allocator),
		History:      service.NewHistoryService(sampleRepo, runRepo, cfg),
		Metrics:      registry,
	}

	// Pipes and redirects get machine-readable output by default.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		app.DefaultFormat = formatter.FormatJSON
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
