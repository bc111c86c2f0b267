package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// Health answers liveness checks. Configured dependencies are pinged and a
// failing one turns the status into "degraded" with a 503.
type Health struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealth(timeout time.Duration) *Health {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Health{checks: make(map[string]Pinger), timeout: timeout}
}

// Register adds a named dependency check
func (h *Health) Register(name string, ping Pinger) {
	h.checks[name] = ping
}

func (h *Health) Check(c echo.Context) error {
	if len(h.checks) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	code := http.StatusOK
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	return c.JSON(code, echo.Map{"status": status, "dependencies": deps})
}
