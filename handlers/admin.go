package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/grlcodee/credify.ai/database"
	"github.com/grlcodee/credify.ai/logger"
	"github.com/grlcodee/credify.ai/services"
)

type AdminHandler struct {
	token    string
	analyzer *services.AnalyzerService
	db       *database.DB
}

// NewAdminHandler guards every admin route with token. An empty token
// disables the admin surface.
func NewAdminHandler(token string, analyzer *services.AnalyzerService, db *database.DB) *AdminHandler {
	return &AdminHandler{token: token, analyzer: analyzer, db: db}
}

func (h *AdminHandler) authorized(token string) bool {
	return h.token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) == 1
}

func (h *AdminHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.analyzer.IsPaused.Store(true)
	log.Println("[ADMIN] ⏸ Analysis paused by administrator")
	h.GetStatus(w, r)
}

func (h *AdminHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.analyzer.IsPaused.Store(false)
	log.Println("[ADMIN] ▶ Analysis resumed by administrator")
	h.GetStatus(w, r)
}

func (h *AdminHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"is_paused": h.analyzer.IsPaused.Load()})
}

// AuthMiddleware checks the X-Admin-Token header.
func (h *AdminHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authorized(r.Header.Get("X-Admin-Token")) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database not available"})
		return
	}
	stats, err := h.db.Stats(r.Context())
	if err != nil {
		log.Printf("[ADMIN] ❌ Stats: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "db error"})
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamLogs pushes every log line to the admin dashboard over a websocket.
// Browsers cannot set headers on websocket requests, so the token comes from
// the query string.
func (h *AdminHandler) StreamLogs(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r.URL.Query().Get("token")) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ADMIN] WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	logs := logger.Instance.Subscribe()
	defer logger.Instance.Unsubscribe(logs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-logs:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
