package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mercaprice/mercaprice-backend/internal/adapter/archive"
	"github.com/mercaprice/mercaprice-backend/internal/adapter/catalog/github"
	"github.com/mercaprice/mercaprice-backend/internal/adapter/store/sqlite"
	"github.com/mercaprice/mercaprice-backend/internal/config"
	"github.com/mercaprice/mercaprice-backend/internal/domain"
	"github.com/mercaprice/mercaprice-backend/internal/usecase/pipeline"
	logx "github.com/mercaprice/mercaprice-backend/pkg/logger"
)

func main() {
	// 1. Configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("invalid configuration")
	}
	logx.Init(cfg.Environment)

	baselineDate, err := cfg.BaselineTime()
	if err != nil {
		logx.Fatal().Err(err).Msg("invalid baseline date")
	}

	runID := uuid.New()
	logx.Info().
		Str("run_id", runID.String()).
		Str("region", cfg.Region).
		Str("repository", cfg.Repository).
		Msg("starting price report run")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Adapters
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	catalogClient := github.NewClient(cfg.Repository, cfg.Token, httpClient)
	snapshotSource := archive.NewSource(catalogClient, cfg.Region)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logx.Fatal().Err(err).Msg("failed to create output directory")
	}
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to open run history database")
	}
	defer db.Close()
	runRepo := sqlite.NewRunRepository(db)

	if prev, err := runRepo.GetLatest(ctx, cfg.Region); err != nil {
		logx.Warn().Err(err).Msg("could not read previous run")
	} else if prev != nil {
		logx.Debug().
			Time("previous_run", prev.CreatedAt).
			Str("previous_aggregate_pct", prev.AggregateChange.String()).
			Msg("previous run loaded")
	}

	// 3. Pipeline
	svc := pipeline.NewService(catalogClient, snapshotSource, pipeline.Config{
		Region:        cfg.Region,
		BaselineDate:  baselineDate,
		BaselineLabel: cfg.BaselineLabel,
		TopN:          cfg.TopN,
		LookbackDays:  cfg.WeekLookbackDays,
		CharBudget:    cfg.CharLimit,
	})

	today := time.Now().UTC()
	result, err := svc.Run(ctx, today)
	if err != nil {
		// A fatal pipeline error never produces a partial report. Whether it
		// also fails the surrounding automation is a deployment choice.
		if cfg.FailFast {
			logx.Fatal().Err(err).Msg("report run failed")
		}
		logx.Error().Err(err).Msg("report run failed, continuing without report")
		return
	}

	// 4. Hand-off artifacts for the publisher
	record := &domain.RunRecord{
		ID:              runID,
		Region:          cfg.Region,
		BaselineDate:    result.BaselineDate,
		LatestDate:      result.LatestDate,
		WeekAgoDate:     result.WeekAgoDate,
		AggregateChange: result.AggregateChange,
		DroppedRows:     result.DroppedRows,
		Report:          result.Text,
		CreatedAt:       time.Now().UTC(),
	}
	if err := runRepo.Save(ctx, record); err != nil {
		logx.Warn().Err(err).Msg("failed to persist run history")
	}

	outFile := filepath.Join(cfg.OutputDir,
		fmt.Sprintf("tweet_%s_%s.txt", cfg.Region, today.Format("2006-01-02")))
	if err := os.WriteFile(outFile, []byte(result.Text), 0o644); err != nil {
		logx.Fatal().Err(err).Msg("failed to write report file")
	}

	logx.Info().
		Str("run_id", runID.String()).
		Str("file", outFile).
		Int("chars", len([]rune(result.Text))).
		Msg("report generated")
	fmt.Println(result.Text)
}
