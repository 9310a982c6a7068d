package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Analyzer *AnalyzerHandler
	Alerts   *AlertsHandler
	OCR      *OCRHandler
	Domain   *DomainHandler
	Admin    *AdminHandler
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(CORS))
	// CORS answers preflight before routing can reject the method
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", h.Analyzer.Analyze).Methods(http.MethodPost)
	api.HandleFunc("/analyze/stream", h.Analyzer.AnalyzeStream).Methods(http.MethodPost)
	api.HandleFunc("/health", h.Analyzer.Health).Methods(http.MethodGet)
	api.HandleFunc("/limits", h.Analyzer.Limits).Methods(http.MethodGet)

	api.HandleFunc("/process-alerts", h.Alerts.ProcessAlerts).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/alerts", h.Alerts.ListAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts", h.Alerts.CreateAlert).Methods(http.MethodPost)
	api.HandleFunc("/trending", h.Alerts.Trending).Methods(http.MethodGet)
	api.HandleFunc("/news-feed", h.Alerts.NewsFeed).Methods(http.MethodGet)

	api.HandleFunc("/ocr", h.OCR.Extract).Methods(http.MethodPost)

	api.HandleFunc("/domain/{domain}", h.Domain.GetDomain).Methods(http.MethodGet)
	api.HandleFunc("/domains/top", h.Domain.GetTopDomains).Methods(http.MethodGet)

	// the log stream authenticates itself via ?token=
	api.HandleFunc("/admin/logs", h.Admin.StreamLogs)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.Admin.AuthMiddleware)
	admin.HandleFunc("/stats", h.Admin.GetStats).Methods(http.MethodGet)
	admin.HandleFunc("/status", h.Admin.GetStatus).Methods(http.MethodGet)
	admin.HandleFunc("/pause", h.Admin.Pause).Methods(http.MethodPost)
	admin.HandleFunc("/resume", h.Admin.Resume).Methods(http.MethodPost)

	return r
}
