package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JLORep/ProjectTrench-sub004/internal/ranker"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

type RankingHandler struct {
	Repo   repository.Repository
	Ranker *ranker.Ranker
	Logger *zap.Logger
}

func (h *RankingHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/rankings")
	group.GET("", h.list)
	group.POST("/rebuild", h.rebuild)
}

// @Summary List the runner board for a day
// @Tags rankings
// @Param date query string false "UTC day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} apiResponse
// @Router /api/v1/rankings [get]
func (h *RankingHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	day, ok := dayQuery(c, "date")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid date", nil)
		return
	}
	items, err := h.Repo.ListDailyRankings(c.Request.Context(), day)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"date": day.Format("2006-01-02")})
}

// @Summary Rebuild the runner board for a day
// @Tags rankings
// @Param date query string false "UTC day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} apiResponse
// @Router /api/v1/rankings/rebuild [post]
func (h *RankingHandler) rebuild(c *gin.Context) {
	if h.Ranker == nil {
		Error(c, http.StatusInternalServerError, "ranker unavailable", nil)
		return
	}
	day, ok := dayQuery(c, "date")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid date", nil)
		return
	}
	items, err := h.Ranker.RunForDay(c.Request.Context(), day)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("ranking rebuild failed",
				zap.String("day", day.Format("2006-01-02")),
				zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"date": day.Format("2006-01-02")})
}
