package middleware

import (
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedTime = time.Unix(1740730536, 0)
	fixedUUID = uuid.MustParse("5b0f3e43-8a3c-4f57-9a1f-2f6c4c2f8d11")
)

func rateLimitedApp(t *testing.T, client *redis.Client, limit int) *fiber.App {
	return rateLimitedAppWith(t, client, RateLimitConfig{Limit: limit, TrustProxyHeaders: true})
}

func rateLimitedAppWith(t *testing.T, client *redis.Client, cfg RateLimitConfig) *fiber.App {
	t.Helper()
	logger, _ := test.NewNullLogger()
	cfg.Window = time.Minute
	cfg.Paths = []string{"/ask", "/api/oracle/chat"}
	mw := NewRateLimitMiddleware(logger, client, cfg, &RateLimitOpts{
		TimeProvider: func() time.Time { return fixedTime },
		UUIDProvider: func() uuid.UUID { return fixedUUID },
	})
	app := fiber.New()
	app.Use(mw.Middleware())
	app.Get("/ask", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/servers", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func askFrom(t *testing.T, app *fiber.App, path string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode, map[string]string{
		"remaining":   resp.Header.Get("X-RateLimit-Remaining"),
		"retry_after": resp.Header.Get(fiber.HeaderRetryAfter),
	}
}

func TestRateLimit_AllowsAndRecords(t *testing.T) {
	client, mock := redismock.NewClientMock()
	key := "toolhub:ratelimit:/ask:10.0.0.1"
	windowStart := strconv.FormatInt(fixedTime.Add(-time.Minute).Unix(), 10)

	mock.ExpectZCount(key, windowStart, strconv.FormatInt(fixedTime.Unix(), 10)).SetVal(3)
	mock.ExpectTxPipeline()
	mock.ExpectZRemRangeByScore(key, "0", windowStart).SetVal(0)
	mock.ExpectZAdd(key, &redis.Z{
		Score:  float64(fixedTime.Unix()),
		Member: strconv.FormatInt(fixedTime.Unix(), 10) + ":" + fixedUUID.String(),
	}).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	status, headers := askFrom(t, rateLimitedApp(t, client, 5), "/ask")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "1", headers["remaining"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	key := "toolhub:ratelimit:/ask:10.0.0.1"
	windowStart := strconv.FormatInt(fixedTime.Add(-time.Minute).Unix(), 10)
	mock.ExpectZCount(key, windowStart, strconv.FormatInt(fixedTime.Unix(), 10)).SetVal(5)

	status, headers := askFrom(t, rateLimitedApp(t, client, 5), "/ask")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "0", headers["remaining"])
	assert.Equal(t, "60", headers["retry_after"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_FailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	windowStart := strconv.FormatInt(fixedTime.Add(-time.Minute).Unix(), 10)
	mock.ExpectZCount("toolhub:ratelimit:/ask:10.0.0.1", windowStart, strconv.FormatInt(fixedTime.Unix(), 10)).
		SetErr(errors.New("connection refused"))

	status, _ := askFrom(t, rateLimitedApp(t, client, 5), "/ask")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRateLimit_SkipsOtherPaths(t *testing.T) {
	client, mock := redismock.NewClientMock()

	status, headers := askFrom(t, rateLimitedApp(t, client, 5), "/servers")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, headers["remaining"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_IgnoresForwardingHeadersByDefault(t *testing.T) {
	client, mock := redismock.NewClientMock()
	// fiber's test connection reports 0.0.0.0 as the peer
	key := "toolhub:ratelimit:/ask:0.0.0.0"
	windowStart := strconv.FormatInt(fixedTime.Add(-time.Minute).Unix(), 10)
	app := rateLimitedAppWith(t, client, RateLimitConfig{Limit: 5})

	for _, spoofed := range []string{"198.51.100.7", "203.0.113.9"} {
		mock.ExpectZCount(key, windowStart, strconv.FormatInt(fixedTime.Unix(), 10)).SetVal(5)

		req := httptest.NewRequest("GET", "/ask", nil)
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode, spoofed)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
