package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"audio-pipeline/internal/api/dto"
	"audio-pipeline/internal/app/api/provider"
)

const healthTimeout = 5 * time.Second

// BackendsHandler reports the registered transcription backends.
type BackendsHandler struct {
	registry provider.ProviderRegistry
	stats    provider.ProviderMetrics
}

func NewBackendsHandler(registry provider.ProviderRegistry, stats provider.ProviderMetrics) *BackendsHandler {
	return &BackendsHandler{registry: registry, stats: stats}
}

// List handles GET /api/backends.
// @Summary List transcription backends
// @Tags Backends
// @Produce json
// @Success 200 {object} dto.BackendsResponse
// @Router /api/backends [get]
func (h *BackendsHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	health := h.registry.HealthCheckAll(ctx)
	def := h.registry.DefaultProvider()

	backends := lo.Map(h.registry.ListProviders(), func(id provider.BackendID, _ int) dto.BackendStatus {
		status := dto.BackendStatus{ID: id, Default: id == def, Healthy: health[id] == nil}
		if _, p, err := h.registry.Lookup(string(id)); err == nil {
			info := p.GetProviderInfo()
			status.DisplayName = info.DisplayName
			status.Type = info.Type
		}
		if err := health[id]; err != nil {
			status.Error = err.Error()
		}
		if h.stats != nil {
			status.Stats = h.stats.GetProviderMetrics(id)
		}
		return status
	})

	c.JSON(http.StatusOK, dto.BackendsResponse{Default: def, Backends: backends})
}

// Health handles GET /health.
// @Summary Liveness check
// @Tags System
// @Produce json
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}
