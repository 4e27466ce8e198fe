package handlers

import (
	"net/http"

	"dorm-backend/internal/models"
	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type AssetHandler struct {
	Service *services.AssetService
}

func NewAssetHandler(s *services.AssetService) *AssetHandler {
	return &AssetHandler{Service: s}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Service.List(r.Context(), actorFrom(r), r.URL.Query().Get("room_id"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.Get(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	a, err := h.Service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, a)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAssetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	a, err := h.Service.Update(r.Context(), actorFrom(r), pathID(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), actorFrom(r), pathID(r)); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
