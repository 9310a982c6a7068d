package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grlcodee/credify.ai/database"
)

const topDomainsLimit = 20

// DomainHandler serves reputation aggregated from analysed article URLs.
// db may be nil when no SQL store is configured.
type DomainHandler struct {
	db *database.DB
}

func NewDomainHandler(db *database.DB) *DomainHandler { return &DomainHandler{db: db} }

// GetDomain: GET /api/domain/{domain}
func (h *DomainHandler) GetDomain(w http.ResponseWriter, r *http.Request) {
	domain := database.NormalizeDomain("https://" + mux.Vars(r)["domain"])
	if domain == "" || h.db == nil {
		respondWithJSON(w, http.StatusNotFound, map[string]string{"error": "domain not found"})
		return
	}

	stats, err := h.db.Domain(r.Context(), domain)
	if errors.Is(err, sql.ErrNoRows) {
		respondWithJSON(w, http.StatusNotFound, map[string]string{"error": "domain not found"})
		return
	}
	if err != nil {
		log.Printf("[DOMAIN] ❌ Lookup %s: %v", domain, err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "db error"})
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// GetTopDomains: GET /api/domains/top
func (h *DomainHandler) GetTopDomains(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondWithJSON(w, http.StatusOK, []database.DomainStats{})
		return
	}
	list, err := h.db.TopDomains(r.Context(), topDomainsLimit)
	if err != nil {
		log.Printf("[DOMAIN] ❌ Top domains: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "db error"})
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}
