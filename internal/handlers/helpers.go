package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/middleware"
	"dorm-backend/internal/policy"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into v, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.InvalidInput, "request body is empty")
		}
		return apperr.Wrap(apperr.InvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}

// actorFrom returns the caller placed in the context by AuthMiddleware. A
// request that skipped authentication gets an actor no action allows.
func actorFrom(r *http.Request) policy.Actor {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func writeBinary(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

