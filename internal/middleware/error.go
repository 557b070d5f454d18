package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"

	"campus-eats/internal/models"
)

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    any    `json:"data"`
}

func writeError(w http.ResponseWriter, status int, code models.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorEnvelope{
		Code:    status,
		Message: message,
		Error:   string(code),
	}); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// ErrorHandlingMiddleware turns panics into a 500 envelope
func ErrorHandlingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Printf("PANIC [%s]: %v\n%s", GetRequestID(r.Context()), err, debug.Stack())
				writeError(w, http.StatusInternalServerError, models.CodeUnknown, "Internal Server Error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, models.CodeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
}

// MethodNotAllowedHandler handles 405 errors
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, models.CodeUnknown, "Method Not Allowed")
	})
}
