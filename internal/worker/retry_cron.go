package worker

// retry_cron.go
// Background goroutine that periodically moves dead-lettered jobs back to
// their queue once the SMTP circuit breaker is closed again.

import (
	"context"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 20
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB      *redis.Client
	CB       *infra.CircuitBreaker
	Interval time.Duration
}

// StartRetryCron launches a background goroutine that ticks every Interval
// and requeues DLQ entries through the CB. It respects ctx for shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = retryTickInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}
	for _, q := range Queues {
		n, err := RequeueDLQ(ctx, cfg.RDB, q, retryBatchSize)
		if err != nil {
			log.Error().Err(err).Str("queue", q).Msg("retry_cron: requeue failed")
			continue
		}
		if n > 0 {
			log.Info().Str("queue", q).Int("count", n).Msg("retry_cron: jobs requeued")
		}
	}
}
