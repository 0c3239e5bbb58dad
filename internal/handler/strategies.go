package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

type StrategyHandler struct {
	Repo repository.Repository
}

func (h *StrategyHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/strategies")
	group.GET("", h.list)
}

// list serves the persisted mirror of the active bank, seeded at startup.
func (h *StrategyHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListStrategies(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
