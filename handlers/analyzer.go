package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/grlcodee/credify.ai/models"
	"github.com/grlcodee/credify.ai/services"
)

type AnalyzerHandler struct {
	service *services.AnalyzerService
	limits  *services.RateLimitTracker
}

func NewAnalyzerHandler(service *services.AnalyzerService, limits *services.RateLimitTracker) *AnalyzerHandler {
	return &AnalyzerHandler{service: service, limits: limits}
}

func toInput(req models.AnalysisRequest) models.AnalysisInput {
	in := models.AnalysisInput{Content: req.Content, Language: req.Language}
	if req.ImageBase64 != "" || req.MimeType != "" {
		in.Image = &models.ImagePayload{Base64: req.ImageBase64, MimeType: req.MimeType}
	}
	return in
}

// Analyze returns the final verdict as JSON.
func (h *AnalyzerHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	log.Printf("[HANDLER] 📥 %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	var req models.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	out, err := h.service.Analyze(r.Context(), toInput(req), nil)
	if err != nil {
		respondWithError(w, err)
		return
	}

	log.Printf("[HANDLER] ✅ Done in %v", time.Since(startTime).Round(time.Millisecond))
	respondWithJSON(w, http.StatusOK, out)
}

// AnalyzeStream reports progress as server-sent events and finishes with a
// result or error event.
func (h *AnalyzerHandler) AnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendEvent := func(eventType, data string) {
		fmt.Fprintf(w, "event: %s\n", eventType)
		for _, line := range strings.Split(data, "\n") {
			fmt.Fprintf(w, "data: %s\n", line)
		}
		fmt.Fprint(w, "\n")
		flusher.Flush()
	}

	sendEvent("start", "🚀 Starting analysis...")
	out, err := h.service.Analyze(r.Context(), toInput(req), func(msg string) {
		sendEvent("progress", msg)
	})
	if err != nil {
		_, msg := errorStatus(err)
		sendEvent("error", "❌ "+msg)
		return
	}

	resultJSON, _ := json.Marshal(out)
	sendEvent("result", string(resultJSON))
	sendEvent("done", "✅ Analysis complete")
}

func (h *AnalyzerHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Limits reports the last throttle state of each reasoning backend.
func (h *AnalyzerHandler) Limits(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.limits.Snapshot())
}
