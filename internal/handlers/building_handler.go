package handlers

import (
	"net/http"

	"dorm-backend/internal/models"
	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type BuildingHandler struct {
	Service *services.BuildingService
}

func NewBuildingHandler(s *services.BuildingService) *BuildingHandler {
	return &BuildingHandler{Service: s}
}

func (h *BuildingHandler) List(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.Service.List(r.Context(), actorFrom(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, buildings)
}

func (h *BuildingHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.Get(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

func (h *BuildingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBuildingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	b, err := h.Service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, b)
}

func (h *BuildingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBuildingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	b, err := h.Service.Update(r.Context(), actorFrom(r), pathID(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

func (h *BuildingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), actorFrom(r), pathID(r)); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
