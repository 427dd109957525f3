package middleware

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger  *logrus.Logger
	service string
}

// NewMetricsMiddleware counts requests per route template, so path
// parameters never become label values.
func NewMetricsMiddleware(logger *logrus.Logger, service string) Middleware {
	return &metricsMiddleware{logger: logger, service: service}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		elapsed := float64(time.Since(start).Microseconds()) / 1000

		prometheus.HTTPRequestsTotal.WithLabelValues(m.service, c.Method(), route, statusClass(status)).Inc()
		prometheus.HTTPRequestDuration.WithLabelValues(m.service, route).Observe(elapsed)

		m.logger.WithFields(logrus.Fields{
			"method":      c.Method(),
			"route":       route,
			"status":      status,
			"duration_ms": elapsed,
		}).Debug("request served")
		return err
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
