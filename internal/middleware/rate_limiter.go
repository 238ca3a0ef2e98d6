package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Counter counts hits for key inside a fixed window and returns the count
// after this hit together with the window reset time.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

// ── Redis fixed window ────────────────────────────────────────────────────────

// RedisCounter shares the window across server replicas.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	now := time.Now()
	slot := now.Truncate(window)
	k := fmt.Sprintf("ratelimit:%s:%d", key, slot.Unix())

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}
	return incr.Val(), slot.Add(window), nil
}

// ── In-memory fixed window ────────────────────────────────────────────────────

type ipEntry struct {
	count     int64
	windowEnd time.Time
}

// MemoryCounter is used when no Redis is wired (tests, single instance).
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*ipEntry
	lastGC  time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*ipEntry)}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.purge(now)

	e, ok := m.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &ipEntry{windowEnd: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd, nil
}

const purgeInterval = 5 * time.Minute

// purge drops expired entries so IPs that never return do not accumulate.
func (m *MemoryCounter) purge(now time.Time) {
	if now.Sub(m.lastGC) < purgeInterval {
		return
	}
	m.lastGC = now
	purged := 0
	for k, e := range m.entries {
		if now.After(e.windowEnd) {
			delete(m.entries, k)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(m.entries)).Msg("rate limiter entries purged")
	}
}

// ── Middleware ────────────────────────────────────────────────────────────────

// RateLimiter limits requests per client IP. Counter errors let the request
// through.
func RateLimiter(counter Counter, scope string, limit int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		n, reset, err := counter.Hit(c.Request.Context(), scope+":"+c.ClientIP(), window)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, request allowed")
			c.Next()
			return
		}
		if n > int64(limit) {
			secs := int(time.Until(reset).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// APIRateLimiter is the general per-IP limiter applied to every route.
func APIRateLimiter(counter Counter, perMinute int) gin.HandlerFunc {
	return RateLimiter(counter, "api", perMinute, time.Minute, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// LoginRateLimiter guards the login endpoints.
func LoginRateLimiter(counter Counter, perMinute int) gin.HandlerFunc {
	return RateLimiter(counter, "login", perMinute, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}
