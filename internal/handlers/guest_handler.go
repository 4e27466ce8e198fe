package handlers

import (
	"net/http"

	"dorm-backend/internal/models"
	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type GuestHandler struct {
	Service *services.GuestService
}

func NewGuestHandler(s *services.GuestService) *GuestHandler {
	return &GuestHandler{Service: s}
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	guests, err := h.Service.List(r.Context(), actorFrom(r), r.URL.Query().Get("room_id"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, guests)
}

func (h *GuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.Service.Get(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, g)
}

// CheckIn handles POST /api/guests
func (h *GuestHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGuestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	g, err := h.Service.CheckIn(r.Context(), actorFrom(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, g)
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateGuestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	g, err := h.Service.Update(r.Context(), actorFrom(r), pathID(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, g)
}

// CheckOut handles both DELETE /api/guests/{id} and POST .../checkout
func (h *GuestHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CheckOut(r.Context(), actorFrom(r), pathID(r)); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
