package handlers

import (
	"net/http"

	"dorm-backend/internal/models"
	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type StudentHandler struct {
	Service *services.StudentService
}

func NewStudentHandler(s *services.StudentService) *StudentHandler {
	return &StudentHandler{Service: s}
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.Service.List(r.Context(), actorFrom(r), r.URL.Query().Get("room_id"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, students)
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.Get(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, s)
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	s, err := h.Service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, s)
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStudentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	s, err := h.Service.Update(r.Context(), actorFrom(r), pathID(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, s)
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), actorFrom(r), pathID(r)); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
