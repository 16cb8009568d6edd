package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hanlinyan-dev/option-pricing/internal/logger"
	"github.com/hanlinyan-dev/option-pricing/internal/models"
	"github.com/hanlinyan-dev/option-pricing/internal/pricing"
	"github.com/hanlinyan-dev/option-pricing/internal/version"
	"github.com/hanlinyan-dev/option-pricing/montecarlo"
)

// maxBodyBytes caps pricing request bodies
const maxBodyBytes = 1 << 20

// PricingHandler serves the pricing API
type PricingHandler struct {
	service *pricing.Service
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(service *pricing.Service) *PricingHandler {
	return &PricingHandler{service: service}
}

// PriceHandler prices a single call or put
func (h *PricingHandler) PriceHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Price(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResults(w, start, []models.PricingResult{result})
}

// PriceBothHandler prices call and put on one set of paths
func (h *PricingHandler) PriceBothHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	results, err := h.service.PriceBoth(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResults(w, start, results)
}

// BatchesHandler runs the configured batches. Optional query parameters
// steps and paths override the simulation defaults.
func (h *PricingHandler) BatchesHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	steps, err := queryInt(r, "steps")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Field: "steps"})
		return
	}
	paths, err := queryInt(r, "paths")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Field: "paths"})
		return
	}

	results, err := h.service.RunBatches(r.Context(), steps, paths)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeResults(w, start, results)
}

// HealthHandler reports version and engine settings
func (h *PricingHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	engine := h.service.Engine()
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:        "ok",
		Version:       version.String(),
		ExecutionMode: string(engine.Mode()),
		Workers:       engine.Workers(),
		ChunkSize:     engine.ChunkSize(),
	})
}

func (h *PricingHandler) writeResults(w http.ResponseWriter, start time.Time, results []models.PricingResult) {
	engine := h.service.Engine()
	writeJSON(w, http.StatusOK, models.PricingResponse{
		Success: true,
		Data:    results,
		Meta: models.ResponseMetadata{
			Timestamp:      time.Now().Format(time.RFC3339),
			ProcessingTime: time.Since(start).Seconds(),
			ExecutionMode:  string(engine.Mode()),
			Workers:        engine.Workers(),
			ResultCount:    len(results),
		},
	})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (models.PricingRequest, bool) {
	var req models.PricingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return req, false
	}
	return req, true
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

// writeError maps engine errors to HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	resp := models.ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var cfgErr *montecarlo.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusBadRequest
		resp.Field = cfgErr.Field
	case errors.Is(err, montecarlo.ErrDegenerateSample):
		status = http.StatusBadRequest
		resp.Field = "paths"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		logger.Error.Printf("❌ Pricing failed: %v", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn.Printf("⚠️ Failed to encode response: %v", err)
	}
}
