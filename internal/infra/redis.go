package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ErrLockBusy is returned when another holder kept the lock past all retries.
var ErrLockBusy = errors.New("lock ocupado")

// GymLocker serialises work per gym through redislock.
type GymLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

func NewGymLocker(rdb *redis.Client, ttl time.Duration) *GymLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &GymLocker{locker: redislock.New(rdb), ttl: ttl}
}

// WithLock runs fn while holding "<scope>:<gymID>". Retries every 50ms for
// up to ~ttl before giving up with ErrLockBusy.
func (l *GymLocker) WithLock(ctx context.Context, scope, gymID string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:%s:%s", scope, gymID)
	retries := int(l.ttl / (50 * time.Millisecond))
	lock, err := l.locker.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrLockBusy
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("key", key).Msg("redislock: release failed")
		}
	}()
	return fn(ctx)
}
