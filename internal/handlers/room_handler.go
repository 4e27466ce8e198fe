package handlers

import (
	"net/http"

	"dorm-backend/internal/models"
	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type RoomHandler struct {
	Service *services.RoomService
}

func NewRoomHandler(s *services.RoomService) *RoomHandler {
	return &RoomHandler{Service: s}
}

// List returns all rooms, or those of ?building_id=
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Service.List(r.Context(), actorFrom(r), r.URL.Query().Get("building_id"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rooms)
}

// Get returns the room with its occupants and assets
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.Get(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	room, err := h.Service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, room)
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	room, err := h.Service.Update(r.Context(), actorFrom(r), pathID(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, room)
}

// Delete removes an empty room and reports the cascaded rows
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	del, err := h.Service.Delete(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, del)
}

func (h *RoomHandler) Recount(w http.ResponseWriter, r *http.Request) {
	room, err := h.Service.Recount(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, room)
}
