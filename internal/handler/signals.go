package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
	"github.com/JLORep/ProjectTrench-sub004/internal/repository"
)

type SignalHandler struct {
	Repo repository.Repository
}

func (h *SignalHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/signals")
	group.GET("", h.list)
	group.GET("/:id", h.get)
}

var knownStatuses = map[models.SignalStatus]bool{
	models.StatusReceived:  true,
	models.StatusParsed:    true,
	models.StatusEnriched:  true,
	models.StatusAnalyzed:  true,
	models.StatusCompleted: true,
	models.StatusFailed:    true,
}

func (h *SignalHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	var status *models.SignalStatus
	if raw := strQueryPtr(c, "status"); raw != nil {
		candidate := models.SignalStatus(strings.ToLower(*raw))
		if !knownStatuses[candidate] {
			Error(c, http.StatusBadRequest, "invalid status", nil)
			return
		}
		status = &candidate
	}
	channel := strQueryPtr(c, "channel")
	ticker := strQueryPtr(c, "ticker")
	since := timeQueryPtr(c, "since")
	until := timeQueryPtr(c, "until")
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"timestamp":        "timestamp",
		"created_at":       "created_at",
		"confidence_score": "confidence_score",
		"runner_potential": "runner_potential",
	})
	asc := boolQueryPtr(c, "ascending")

	params := repository.ListSignalsParams{
		Limit:   limit,
		Offset:  offset,
		Status:  status,
		Channel: channel,
		Ticker:  ticker,
		Since:   since,
		Until:   until,
		OrderBy: orderBy,
		Asc:     asc,
	}
	items, err := h.Repo.ListSignals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountSignals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *SignalHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	item, err := h.Repo.GetSignalByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "signal not found", nil)
		return
	}
	Ok(c, item, nil)
}
