package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/grlcodee/credify.ai/database"
	"github.com/grlcodee/credify.ai/models"
	"github.com/grlcodee/credify.ai/services"
)

type AlertsHandler struct {
	processor *services.AlertProcessor
	store     database.AlertStore
	news      *services.NewsFeed
}

func NewAlertsHandler(processor *services.AlertProcessor, store database.AlertStore, news *services.NewsFeed) *AlertsHandler {
	return &AlertsHandler{processor: processor, store: store, news: news}
}

// ProcessAlerts runs one alert cycle on demand.
func (h *AlertsHandler) ProcessAlerts(w http.ResponseWriter, r *http.Request) {
	res, err := h.processor.ProcessCycle(r.Context())
	if err != nil {
		log.Printf("[ALERTS] ❌ Cycle failed: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "alert processing failed",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *AlertsHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.store.List(r.Context())
	if err != nil {
		log.Printf("[ALERTS] ⚠ List failed: %v", err)
		alerts = []models.Alert{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"alerts":    alerts,
		"timestamp": time.Now().UnixMilli(),
	})
}

// CreateAlert stores a client supplied alert. The id and timestamp are
// always assigned by the server.
func (h *AlertsHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var alert models.Alert
	if err := decodeJSON(w, r, &alert); err != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	alert.ID, alert.Timestamp = "", 0
	saved, err := h.store.Append(r.Context(), alert)
	if err != nil {
		log.Printf("[ALERTS] ❌ Append failed: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "could not store alert",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "alert": saved})
}

func (h *AlertsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	items, err := h.processor.Trending(r.Context())
	if err != nil {
		log.Printf("[ALERTS] ❌ Trending failed: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "could not load trending items",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"items":     items,
		"timestamp": time.Now().UnixMilli(),
	})
}

// NewsFeed lists current headlines with a quick credibility estimate.
func (h *AlertsHandler) NewsFeed(w http.ResponseWriter, r *http.Request) {
	items, err := h.news.Items(r.Context())
	if err != nil {
		log.Printf("[NEWSFEED] ❌ %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch news feed"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"items":     items,
		"timestamp": time.Now().UnixMilli(),
	})
}
