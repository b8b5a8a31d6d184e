package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lineage-workers/internal/common/camunda"
	"lineage-workers/internal/common/config"
	"lineage-workers/internal/common/database"
	"lineage-workers/internal/common/logger"
	"lineage-workers/internal/common/observability"
	"lineage-workers/internal/lineage/fullname"
	"lineage-workers/internal/lineage/matching"

	bo "lineage-workers/internal/workers/family/branch-overview"
	gfn "lineage-workers/internal/workers/family/generate-full-name"
	mac "lineage-workers/internal/workers/family/match-ancestor-chain"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	boot := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("config load failed", zap.Error(err))
	}
	_ = boot.Sync()

	var outputs []string
	if cfg.Logging.Output != "" {
		outputs = []string{cfg.Logging.Output}
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, outputs...).With(
		zap.String("service", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- PostgreSQL ---
	pg, err := database.ConnectWithRetry(ctx, cfg.Database.Postgres, 15, 2*time.Second)
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully",
		zap.String("database", cfg.Database.Postgres.Database),
		zap.String("membersTable", cfg.Database.Postgres.MembersTable))

	members := database.NewMemberSnapshotLoader(
		pg.GetDB(),
		cfg.Database.Postgres.MembersTable,
		config.GetDuration(cfg.Database.Postgres.QueryTimeout),
	)

	matchingConfig := cfg.Matching.ToMatching()
	service := matching.NewService(matchingConfig, log)

	// --- Workers ---
	var workers []*camunda.CamundaWorker
	register := func(taskType string, handler camunda.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), taskType, wcfg, handler, log))
	}

	matchHandler, err := mac.NewHandler(mac.HandlerOptions{
		Config:        mac.ConfigFrom(cfg),
		Service:       service,
		Members:       members,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("match-ancestor-chain handler", zap.Error(err))
	}
	register(mac.TaskType, matchHandler)

	nameHandler, err := gfn.NewHandler(gfn.HandlerOptions{
		Config:        gfn.ConfigFrom(cfg),
		Generator:     fullname.NewGenerator(matchingConfig.FamilyName, matchingConfig.FamilyNameEn),
		Members:       members,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("generate-full-name handler", zap.Error(err))
	}
	register(gfn.TaskType, nameHandler)

	overviewHandler, err := bo.NewHandler(bo.HandlerOptions{
		Config:        bo.ConfigFrom(cfg),
		Palette:       cfg.Matching.BranchPalette,
		Members:       members,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("branch-overview handler", zap.Error(err))
	}
	register(bo.TaskType, overviewHandler)

	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health / Metrics ---
	server := newHealthServer(cfg.Server.Port, map[string]readinessCheck{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
	})
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("health server shutdown", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}
