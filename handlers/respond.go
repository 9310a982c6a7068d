package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/grlcodee/credify.ai/services"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HANDLER] ⚠ Could not encode response: %v", err)
	}
}

// respondWithError maps the service error taxonomy to HTTP statuses. Server
// side failures are logged in full and reported to the caller generically.
func respondWithError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	if status >= 500 {
		log.Printf("[HANDLER] ❌ %v", err)
	}
	respondWithJSON(w, status, map[string]string{"error": msg})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrPaused):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, services.ErrEmptyContent), errors.Is(err, services.ErrInvalidInput):
		var se *services.Error
		if errors.As(err, &se) && se.Err != nil {
			return http.StatusBadRequest, se.Err.Error()
		}
		return http.StatusBadRequest, "invalid request"
	default:
		return http.StatusInternalServerError, "analysis failed, please try again later"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// images arrive base64 encoded inside the JSON body
const maxBodyBytes = 20 << 20

// CORS allows browser extensions and the dashboard to call the API.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
