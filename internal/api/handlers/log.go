package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audio-pipeline/internal/api/dto"
	"audio-pipeline/internal/api/middleware"
)

// FrontendSink receives client-side log events.
type FrontendSink interface {
	Log(level, message string, metadata map[string]interface{}) error
}

type LogHandler struct {
	sink FrontendSink
}

func NewLogHandler(sink FrontendSink) *LogHandler {
	return &LogHandler{sink: sink}
}

// Log handles POST /api/log.
// @Summary Record a frontend log event
// @Tags Logs
// @Accept json
// @Produce json
// @Param request body dto.LogRequest true "Log event"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.APIError
// @Router /api/log [post]
func (h *LogHandler) Log(c *gin.Context) {
	var req dto.LogRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.sink.Log(req.Level, req.Message, req.Metadata); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged"})
}
