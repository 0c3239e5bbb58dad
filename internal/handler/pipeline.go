package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JLORep/ProjectTrench-sub004/internal/pipeline"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

type PipelineHandler struct {
	Pipeline *pipeline.Orchestrator
	Repo     repository.Repository
}

func (h *PipelineHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/pipeline")
	group.GET("/status", h.status)
}

func (h *PipelineHandler) status(c *gin.Context) {
	if h.Pipeline == nil || h.Repo == nil {
		Error(c, http.StatusInternalServerError, "pipeline unavailable", nil)
		return
	}
	st := h.Pipeline.Status()

	byStatus, err := h.Repo.CountSignalsByStatus(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	signals := map[string]int64{}
	for status, n := range byStatus {
		signals[status.String()] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"workers":     st.Workers,
		"queue_depth": st.QueueDepth,
		"queue_size":  st.QueueSize,
		"draining":    st.Draining,
		"signals":     signals,
	})
}
