package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/notify"
)

const healthProbeTimeout = 2 * time.Second

// SystemHandler reports liveness and runtime state.
type SystemHandler struct {
	rdb       *redis.Client // nil when the change feed runs in-process only
	hub       *notify.Hub
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(rdb *redis.Client, hub *notify.Hub, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		hub:       hub,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	GoVersion   string `json:"go_version"`
	Goroutines  int    `json:"goroutines"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	Redis       string `json:"redis"`
	Subscribers int    `json:"subscribers"`
}

// Health godoc
// GET /health
// Always 200 while the process serves; a failing Redis degrades the status.
func (h *SystemHandler) Health(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	report := healthReport{
		Status:      "ok",
		Uptime:      formatDuration(time.Since(h.startTime)),
		GoVersion:   runtime.Version(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAlloc:   ms.HeapAlloc,
		Redis:       "disabled",
		Subscribers: h.hub.Len(),
	}

	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis ping failed")
			report.Status = "degraded"
			report.Redis = "unreachable"
		} else {
			report.Redis = "ok"
		}
	}

	c.JSON(http.StatusOK, report)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, mins, secs)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}
