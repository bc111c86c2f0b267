package middleware

import (
	"net/http"
	"strconv"
	"time"

	"latency_optimizer/server/metrics"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func RequestLoggerWithSkipper(skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			latency := time.Since(start)

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= 500 {
				event = log.Error()
			} else if res.Status >= 400 {
				event = log.Warn()
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("latency", latency).
				Str("ip", c.RealIP()).
				Msg("HTTP Request")

			return nil
		}
	}
}

func RecoverWithLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					req := c.Request()
					log.Error().
						Interface("panic", r).
						Str("method", req.Method).
						Str("path", req.URL.Path).
						Str("ip", c.RealIP()).
						Msg("Panic recovered")

					err = echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			return next(c)
		}
	}
}

// HTTPMetrics counts requests by route template and status
func HTTPMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if m == nil {
				return err
			}

			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.HTTPRequests.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
