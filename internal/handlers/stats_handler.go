package handlers

import (
	"net/http"

	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type StatsHandler struct {
	Stats         *services.StatsService
	Notes *services.NotificationService
}

func NewStatsHandler(stats *services.StatsService, notes *services.NotificationService) *StatsHandler {
	return &StatsHandler{Stats: stats, Notes: notes}
}

func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Dashboard(r.Context(), actorFrom(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	series, err := h.Stats.Revenue(r.Context(), actorFrom(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, series)
}

// Notifications is recomputed on every call
func (h *StatsHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.List(r.Context(), actorFrom(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, notes)
}
