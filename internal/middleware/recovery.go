package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"dorm-backend/pkg/utils"
)

func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC RECOVERED: %v\n%s", err, debug.Stack())
				utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse{
					Error:   "INTERNAL",
					Message: "internal server error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
