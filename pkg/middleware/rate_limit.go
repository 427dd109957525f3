package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const rateLimitKeyPattern = "toolhub:ratelimit:%s:%s"

// clientIPHeaders are consulted in order before the socket address, and
// only when TrustProxyHeaders is set.
var clientIPHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"True-Client-IP",
	"CF-Connecting-IP",
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// Paths are the route prefixes the limit applies to; empty means all.
	Paths []string
	// TrustProxyHeaders keys clients by forwarding headers. Enable it only
	// behind a proxy that overwrites them; otherwise any caller can pick a
	// fresh key per request.
	TrustProxyHeaders bool
}

type RateLimitOpts struct {
	TimeProvider func() time.Time
	UUIDProvider func() uuid.UUID
}

// rateLimitMiddleware keeps a per-client sliding window in a redis sorted
// set. Redis failures let the request through.
type rateLimitMiddleware struct {
	logger *logrus.Logger
	redis  redis.Cmdable
	cfg    RateLimitConfig
	now    func() time.Time
	newID  func() uuid.UUID
}

func NewRateLimitMiddleware(logger *logrus.Logger, client redis.Cmdable, cfg RateLimitConfig, opts *RateLimitOpts) Middleware {
	m := &rateLimitMiddleware{
		logger: logger,
		redis:  client,
		cfg:    cfg,
		now:    time.Now,
		newID:  uuid.New,
	}
	if opts != nil && opts.TimeProvider != nil {
		m.now = opts.TimeProvider
	}
	if opts != nil && opts.UUIDProvider != nil {
		m.newID = opts.UUIDProvider
	}
	return m
}

func (m *rateLimitMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.Limit <= 0 || !m.applies(c.Path()) {
			return c.Next()
		}
		ctx := c.Context()
		key := fmt.Sprintf(rateLimitKeyPattern, m.scope(c.Path()), m.clientIP(c))
		now := m.now()
		windowStart := now.Add(-m.cfg.Window).Unix()

		count, err := m.redis.ZCount(ctx, key,
			strconv.FormatInt(windowStart, 10),
			strconv.FormatInt(now.Unix(), 10)).Result()
		if err != nil {
			m.logger.WithError(err).WithField("key", key).Warn("rate limit check failed")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.cfg.Limit))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(m.cfg.Window).Unix(), 10))
		if count >= int64(m.cfg.Limit) {
			c.Set("X-RateLimit-Remaining", "0")
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(m.cfg.Window.Seconds())))
			m.logger.WithFields(logrus.Fields{"key": key, "count": count}).Info("rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(int64(m.cfg.Limit)-count-1, 10))

		member := fmt.Sprintf("%d:%s", now.Unix(), m.newID().String())
		pipe := m.redis.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, &redis.Z{Score: float64(now.Unix()), Member: member})
		pipe.Expire(ctx, key, m.cfg.Window)
		if _, err := pipe.Exec(ctx); err != nil {
			m.logger.WithError(err).WithField("key", key).Warn("rate limit update failed")
		}
		return c.Next()
	}
}

func (m *rateLimitMiddleware) applies(path string) bool {
	return m.scope(path) != ""
}

// scope is the configured prefix path falls under, or "*" when no prefix
// is configured.
func (m *rateLimitMiddleware) scope(path string) string {
	if len(m.cfg.Paths) == 0 {
		return "*"
	}
	for _, p := range m.cfg.Paths {
		if strings.HasPrefix(path, p) {
			return p
		}
	}
	return ""
}

func (m *rateLimitMiddleware) clientIP(c *fiber.Ctx) string {
	if !m.cfg.TrustProxyHeaders {
		return c.IP()
	}
	for _, h := range clientIPHeaders {
		if v := c.Get(h); v != "" {
			return strings.TrimSpace(strings.Split(v, ",")[0])
		}
	}
	return c.IP()
}
