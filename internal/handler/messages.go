package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JLORep/ProjectTrench-sub004/internal/pipeline"
)

// MessageHandler is the intake bridge: the message transport posts raw channel
// text here and the pipeline takes it from there.
type MessageHandler struct {
	Pipeline *pipeline.Orchestrator
	Logger   *zap.Logger
}

func (h *MessageHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/messages")
	group.POST("", h.submit)
}

type submitMessageRequest struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// @Summary Queue a raw channel message for processing
// @Tags messages
// @Param body body submitMessageRequest true "raw message"
// @Success 202 {object} apiResponse
// @Router /api/v1/messages [post]
func (h *MessageHandler) submit(c *gin.Context) {
	if h.Pipeline == nil {
		Error(c, http.StatusInternalServerError, "pipeline unavailable", nil)
		return
	}
	var req submitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		Error(c, http.StatusBadRequest, "message required", nil)
		return
	}
	channel := strings.TrimSpace(req.Channel)
	if channel == "" {
		channel = "unknown"
	}

	if err := h.Pipeline.Submit(c.Request.Context(), message, channel); err != nil {
		if errors.Is(err, pipeline.ErrDraining) {
			Error(c, http.StatusServiceUnavailable, "pipeline draining", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("message intake failed", zap.String("channel", channel), zap.Error(err))
		}
		Error(c, http.StatusServiceUnavailable, err.Error(), nil)
		return
	}

	status := h.Pipeline.Status()
	Accepted(c, gin.H{
		"queued":      true,
		"queue_depth": status.QueueDepth,
	})
}
