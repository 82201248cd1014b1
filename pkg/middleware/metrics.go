package middleware

import (
	"strconv"
	"time"

	"github.com/data443/doctagger/pkg/common"
	"github.com/data443/doctagger/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(common.LatencyContextKey, time.Now())

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Route pattern, not the raw path, keeps download URLs from
		// exploding label cardinality.
		path := c.Route().Path
		prometheus.RequestTotal.WithLabelValues(
			c.Method(), path, strconv.Itoa(status),
		).Inc()

		if prometheus.Config.EnableLatency {
			if start, ok := c.Locals(common.LatencyContextKey).(time.Time); ok {
				prometheus.RequestLatency.WithLabelValues(c.Method(), path).
					Observe(float64(time.Since(start).Milliseconds()))
			}
		}

		return err
	}
}
