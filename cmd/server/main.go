package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/config"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/router"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if cfg.DBAutoMigrate {
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	metrics := infra.NewMetrics()
	mailCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		Name:          "smtp",
		OnStateChange: metrics.CircuitoCambio,
	})

	// Worker pool for async mail (welcome, stock alerts, receipts).
	// Workers are wired here (composition root) so the pool has full access
	// to infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notificador service.Notificador
	if cfg.MailEnabled() {
		mailer := infra.NewMailer(cfg, mailCB)
		notificador = worker.NewDispatcher(rdb)

		pool := worker.NewPool(rdb, metrics)
		pool.Register(worker.JobEmail, worker.NewEmailWorker(mailer))
		pool.Register(worker.JobRecibo, worker.NewReciboWorker(
			repository.NewVentaProductoRepository(db),
			repository.NewGimnasioRepository(db),
			mailer,
		))
		pool.Start(ctx, cfg.WorkerPoolSize)
		worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: rdb, CB: mailCB})
	} else {
		log.Warn().Msg("SMTP_HOST not set: mail jobs disabled")
	}

	r := router.New(cfg, db, rdb, mailCB, metrics, notificador)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Time-Fit backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
