package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syapos/internal/config"
	"syapos/internal/infra"
	"syapos/internal/repository"
	"syapos/internal/router"
	"syapos/internal/service"
	"syapos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async workers: push delivery, cash cut reports, emails. Wired here
	// (composition root) so the pool has full access to infrastructure.
	pushClient := infra.NewPushClient(cfg.FCMEndpoint, cfg.FCMServerKey)
	pushCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	cashCutRepo := repository.NewCashCutRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	handlers := map[string]worker.Handler{
		"push":            worker.NewNotificationWorker(pushClient, pushCB, deviceTokenRepo),
		"email":           worker.NewEmailWorker(mailer),
		"debt_alert":      worker.NewDebtAlertWorker(mailer, cfg.AlertEmail),
		"cash_cut_report": worker.NewReportWorker(cashCutRepo, employeeRepo, dispatcher, cfg.PDFStoragePath, cfg.BranchEmail),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Background sweep for snapshots left stale by bulk syncs.
	snapshotSvc := service.NewSnapshotService(snapshotRepo, shiftRepo, employeeRepo, saleRepo, movementRepo, assignmentRepo, returnRepo, log.Logger)
	worker.StartRecalcCron(ctx, worker.RecalcCronConfig{
		Snapshots: snapshotRepo,
		Recompute: func(ctx context.Context, shiftID int64) error {
			_, err := snapshotSvc.Recompute(ctx, shiftID)
			return err
		},
	})

	r := router.New(cfg, db, rdb, pushCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("SyaPOS sync server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
