package models

import (
	"github.com/shopspring/decimal"
)

// FieldValue represents a field with both raw data and formatted display
type FieldValue struct {
	Raw     interface{} `json:"raw"`     // For sorting: 2.1333712
	Display string      `json:"display"` // For UI: "2.1334"
	Type    string      `json:"type"`    // For CSS: "price"
}

// Display precision per field type
const (
	PricePlaces = 4
	ErrorPlaces = 6
)

// PricingRequest represents a request to price a European option by simulation
type PricingRequest struct {
	S0         float64 `json:"S0"`
	K          float64 `json:"K"`
	T          float64 `json:"T"`
	R          float64 `json:"r"`
	Sig        float64 `json:"sig"`
	Beta       float64 `json:"beta,omitempty"`        // 0 or 1 = lognormal
	OptionType string  `json:"option_type,omitempty"` // "call" or "put", default call
	Steps      int     `json:"steps,omitempty"`       // default from config
	Paths      int     `json:"paths,omitempty"`       // default from config
	Seed       *uint64 `json:"seed,omitempty"`        // default from config
	Compare    bool    `json:"compare,omitempty"`     // attach the closed-form price
}

// PricingResult is the outcome of one simulated batch
type PricingResult struct {
	BatchID           string                `json:"batch_id"`
	Name              string                `json:"name,omitempty"`
	OptionType        string                `json:"option_type"`
	Price             float64               `json:"price"`
	StandardDeviation float64               `json:"standard_deviation"`
	StandardError     float64               `json:"standard_error"`
	OriginHits        int64                 `json:"origin_hits"`
	Paths             int                   `json:"paths"`
	Steps             int                   `json:"steps"`
	Seed              uint64                `json:"seed"`
	ExecutionMode     string                `json:"execution_mode"`
	DurationMs        float64               `json:"duration_ms"`
	AnalyticPrice     *float64              `json:"analytic_price,omitempty"`
	AnalyticDelta     *float64              `json:"analytic_delta,omitempty"`
	AnalyticGamma     *float64              `json:"analytic_gamma,omitempty"`
	ParityGap         *float64              `json:"parity_gap,omitempty"` // price minus the parity price implied by the other leg
	Display           map[string]FieldValue `json:"display"`
}

// PricingResponse represents the complete API response
type PricingResponse struct {
	Success bool             `json:"success"`
	Data    []PricingResult  `json:"data"`
	Meta    ResponseMetadata `json:"meta"`
}

type ResponseMetadata struct {
	Timestamp      string  `json:"timestamp"`
	ProcessingTime float64 `json:"processing_time"`
	ExecutionMode  string  `json:"execution_mode"`
	Workers        int     `json:"workers"`
	ResultCount    int     `json:"result_count"`
}

// ErrorResponse is written for rejected requests
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

// HealthResponse reports engine status
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	ExecutionMode string `json:"execution_mode"`
	Workers       int    `json:"workers"`
	ChunkSize     int    `json:"chunk_size"`
}

// NewFieldValue rounds v half away from zero for display
func NewFieldValue(v float64, places int32, fieldType string) FieldValue {
	return FieldValue{
		Raw:     v,
		Display: decimal.NewFromFloat(v).Round(places).StringFixed(places),
		Type:    fieldType,
	}
}

// Round returns v rounded to places decimal digits, half away from zero
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Format fills the Display map from the raw fields
func (r *PricingResult) Format() {
	r.Display = map[string]FieldValue{
		"price":              NewFieldValue(r.Price, PricePlaces, "price"),
		"standard_deviation": NewFieldValue(r.StandardDeviation, PricePlaces, "price"),
		"standard_error":     NewFieldValue(r.StandardError, ErrorPlaces, "error"),
		"origin_hits":        {Raw: r.OriginHits, Display: decimal.NewFromInt(r.OriginHits).String(), Type: "integer"},
	}
	optional := []struct {
		key    string
		v      *float64
		places int32
		typ    string
	}{
		{"analytic_price", r.AnalyticPrice, PricePlaces, "price"},
		{"analytic_delta", r.AnalyticDelta, PricePlaces, "greek"},
		{"analytic_gamma", r.AnalyticGamma, ErrorPlaces, "greek"},
		{"parity_gap", r.ParityGap, PricePlaces, "price"},
	}
	for _, f := range optional {
		if f.v != nil {
			r.Display[f.key] = NewFieldValue(*f.v, f.places, f.typ)
		}
	}
}
