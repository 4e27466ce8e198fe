package handlers

import (
	"log"
	"net/http"

	"dorm-backend/internal/models"
	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		log.Printf("[Auth] Failed login for %q from %s", req.Username, r.RemoteAddr)
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, authResp)
}

// Me returns the account behind the bearer token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	user, err := h.Service.Get(r.Context(), actor, actor.UserID)
	if err != nil {
		// staff may not read the user list but may see themselves
		utils.JSON(w, http.StatusOK, map[string]string{
			"id":       actor.UserID,
			"username": actor.Username,
			"role":     string(actor.Role),
		})
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
