package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hanlinyan-dev/option-pricing/internal/logger"
)

// NewRouter registers the API routes. metrics may be nil.
func NewRouter(h *PricingHandler, metrics http.Handler, metricsPath string) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware, logMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/price", h.PriceHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/price/both", h.PriceBothHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/batches", h.BatchesHandler).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet, http.MethodOptions)

	if metrics != nil {
		r.Handle(metricsPath, metrics).Methods(http.MethodGet)
	}
	return r
}

// corsMiddleware sets CORS headers for browser compatibility and answers
// preflight requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug.Printf("🌐 %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
