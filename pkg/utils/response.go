package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"dorm-backend/internal/apperr"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] encode response: %v", err)
	}
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.RoomFull, apperr.RoomOccupied, apperr.RoomUnavailable, apperr.DuplicateKey, apperr.BuildingInUse:
		return http.StatusConflict
	case apperr.InvalidCapacity:
		return http.StatusUnprocessableEntity
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Unavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes err as {"error": kind, "message": text}. Unclassified errors
// are logged and reported as a generic internal error.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == "" {
		log.Printf("[HTTP] internal error: %v", err)
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL", Message: "internal server error"})
		return
	}
	msg := err.Error()
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		msg = e.Message
	}
	JSON(w, StatusFor(kind), ErrorResponse{Error: string(kind), Message: msg})
}

// ErrorKind writes an error response without an underlying error value
func ErrorKind(w http.ResponseWriter, kind apperr.Kind, message string) {
	JSON(w, StatusFor(kind), ErrorResponse{Error: string(kind), Message: message})
}
