package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/logger"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// SystemInfo describes the running build
type SystemInfo struct {
	Name    string
	Env     string
	Version string
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	info      SystemInfo
	checks    map[string]HealthCheck
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. checks are run by /health,
// keyed by the dependency name reported in the response.
func NewSystemHandler(info SystemInfo, checks map[string]HealthCheck) *SystemHandler {
	if info.Name == "" {
		info.Name = "Tasty Bite POS API"
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return &SystemHandler{
		info:      info,
		checks:    checks,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Env       string `json:"env"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns the build and uptime of the server.
//
// GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.info.Name,
		Env:       h.info.Env,
		Version:   h.info.Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping answers without touching any dependency.
//
// GET /api/v1/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health runs every dependency check and answers 503 when one fails.
//
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status: "healthy",
		Time:   time.Now().Format(time.RFC3339),
		Checks: make(map[string]string, len(names)),
	}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed",
				zap.String("dependency", name),
				zap.Error(err))
			resp.Checks[name] = "error"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}
