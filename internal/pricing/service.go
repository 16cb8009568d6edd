// Package pricing turns API and CLI requests into engine batches and
// records what was priced.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanlinyan-dev/option-pricing/internal/analytic"
	"github.com/hanlinyan-dev/option-pricing/internal/audit"
	"github.com/hanlinyan-dev/option-pricing/internal/config"
	"github.com/hanlinyan-dev/option-pricing/internal/logger"
	"github.com/hanlinyan-dev/option-pricing/internal/metrics"
	"github.com/hanlinyan-dev/option-pricing/internal/models"
	"github.com/hanlinyan-dev/option-pricing/montecarlo"
)

// BothLabel is the metrics type label of a batch that priced call and put
// on one path set
const BothLabel = "both"

// Audit entry kinds
const (
	KindPrice     = "price"
	KindPriceBoth = "price_both"
	KindBatch     = "batch"
)

// Service prices options with a shared engine
type Service struct {
	engine  *montecarlo.Engine
	cfg     *config.Config
	metrics *metrics.Metrics
	auditor audit.Auditor
	newID   func() string
}

// NewService creates a pricing service. m may be nil; a nil auditor
// disables the audit trail.
func NewService(engine *montecarlo.Engine, cfg *config.Config, m *metrics.Metrics, a audit.Auditor) *Service {
	if a == nil {
		a = audit.Nop{}
	}
	return &Service{
		engine:  engine,
		cfg:     cfg,
		metrics: m,
		auditor: a,
		newID:   uuid.NewString,
	}
}

// NewEngine builds the engine described by the engine section
func NewEngine(cfg config.EngineConfig) (*montecarlo.Engine, error) {
	mode, err := montecarlo.ParseExecutionMode(cfg.ExecutionMode)
	if err != nil {
		return nil, err
	}
	return montecarlo.NewEngine(montecarlo.Options{
		Mode:      mode,
		Workers:   cfg.Workers,
		ChunkSize: cfg.ChunkSize,
		Generator: cfg.Generator,
		ExactMesh: cfg.ExactMesh,
	})
}

// Engine returns the underlying engine
func (s *Service) Engine() *montecarlo.Engine {
	return s.engine
}

// Request converts an API request to an engine request, filling steps,
// paths and seed from the configuration when unset.
func (s *Service) Request(req models.PricingRequest) (montecarlo.Request, error) {
	optType := montecarlo.Call
	if req.OptionType != "" {
		var err error
		if optType, err = montecarlo.ParseOptionType(req.OptionType); err != nil {
			return montecarlo.Request{}, err
		}
	}

	out := montecarlo.Request{
		S0:    req.S0,
		K:     req.K,
		T:     req.T,
		R:     req.R,
		Sig:   req.Sig,
		Beta:  req.Beta,
		Type:  optType,
		Steps: req.Steps,
		Paths: req.Paths,
		Seed:  s.cfg.Engine.Seed,
	}
	if out.Steps == 0 {
		out.Steps = s.cfg.Simulation.Steps
	}
	if out.Paths == 0 {
		out.Paths = s.cfg.Simulation.Paths
	}
	if req.Seed != nil {
		out.Seed = *req.Seed
	}
	if err := s.checkLimits(out.Steps, out.Paths); err != nil {
		return montecarlo.Request{}, err
	}
	return out, nil
}

// checkLimits rejects batches above the configured caps. A zero cap is
// unlimited.
func (s *Service) checkLimits(steps, paths int) error {
	sim := s.cfg.Simulation
	if sim.MaxSteps > 0 && steps > sim.MaxSteps {
		return &montecarlo.ConfigurationError{Field: "steps", Reason: fmt.Sprintf("must be <= %d, got %d", sim.MaxSteps, steps)}
	}
	if sim.MaxPaths > 0 && paths > sim.MaxPaths {
		return &montecarlo.ConfigurationError{Field: "paths", Reason: fmt.Sprintf("must be <= %d, got %d", sim.MaxPaths, paths)}
	}
	return nil
}

// Price simulates one option
func (s *Service) Price(ctx context.Context, req models.PricingRequest) (models.PricingResult, error) {
	mreq, err := s.Request(req)
	if err != nil {
		s.reject(err)
		return models.PricingResult{}, err
	}

	start := time.Now()
	res, err := s.engine.Price(ctx, mreq)
	if err != nil {
		s.reject(err)
		return models.PricingResult{}, err
	}
	elapsed := time.Since(start)
	s.metrics.ObserveBatch(res.Type.String(), string(s.engine.Mode()), res.Paths, res.OriginHits, elapsed)

	out := s.result(s.newID(), "", mreq, res, elapsed, req.Compare)
	s.record(KindPrice, out)
	return out, nil
}

// PriceBoth simulates one set of paths and prices the call and the put on it
func (s *Service) PriceBoth(ctx context.Context, req models.PricingRequest) ([]models.PricingResult, error) {
	mreq, err := s.Request(req)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	return s.priceBoth(ctx, KindPriceBoth, "", mreq, req.Compare)
}

// RunBatches prices call and put for every configured batch. Zero steps or
// paths fall back to the simulation section.
func (s *Service) RunBatches(ctx context.Context, steps, paths int) ([]models.PricingResult, error) {
	if steps == 0 {
		steps = s.cfg.Simulation.Steps
	}
	if paths == 0 {
		paths = s.cfg.Simulation.Paths
	}
	if err := s.checkLimits(steps, paths); err != nil {
		s.reject(err)
		return nil, err
	}

	results := make([]models.PricingResult, 0, 2*len(s.cfg.Batches))
	for _, b := range s.cfg.Batches {
		mreq := montecarlo.Request{
			S0:    b.Spot,
			K:     b.Strike,
			T:     b.Expiry,
			R:     b.Rate,
			Sig:   b.Volatility,
			Beta:  b.Beta,
			Steps: steps,
			Paths: paths,
			Seed:  s.cfg.Engine.Seed,
		}
		logger.Info.Printf("📦 %s: T=%v K=%v sig=%v r=%v S0=%v | N=%d NSim=%d",
			b.Name, b.Expiry, b.Strike, b.Volatility, b.Rate, b.Spot, steps, paths)

		pair, err := s.priceBoth(ctx, KindBatch, b.Name, mreq, true)
		if err != nil {
			return results, err
		}
		results = append(results, pair...)
	}
	return results, nil
}

func (s *Service) priceBoth(ctx context.Context, kind, name string, mreq montecarlo.Request, compare bool) ([]models.PricingResult, error) {
	start := time.Now()
	call, put, err := s.engine.PriceBoth(ctx, mreq)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	elapsed := time.Since(start)
	// one path set, observed once
	s.metrics.ObserveBatch(BothLabel, string(s.engine.Mode()), call.Paths, call.OriginHits, elapsed)

	id := s.newID()
	callReq, putReq := mreq, mreq
	callReq.Type, putReq.Type = montecarlo.Call, montecarlo.Put
	out := []models.PricingResult{
		s.result(id, name, callReq, call, elapsed, compare),
		s.result(id, name, putReq, put, elapsed, compare),
	}

	in := analytic.StockInputs(mreq.S0, mreq.K, mreq.T, mreq.R, mreq.Sig)
	callGap := call.Price - analytic.CallFromPut(put.Price, in)
	putGap := put.Price - analytic.PutFromCall(call.Price, in)
	out[0].ParityGap, out[1].ParityGap = &callGap, &putGap
	for i := range out {
		out[i].Format()
	}
	for _, r := range out {
		s.record(kind, r)
	}
	return out, nil
}

func (s *Service) result(id, name string, req montecarlo.Request, res montecarlo.SimulationResult, elapsed time.Duration, compare bool) models.PricingResult {
	mode := string(s.engine.Mode())
	out := models.PricingResult{
		BatchID:           id,
		Name:              name,
		OptionType:        res.Type.String(),
		Price:             res.Price,
		StandardDeviation: res.StandardDeviation,
		StandardError:     res.StandardError,
		OriginHits:        res.OriginHits,
		Paths:             res.Paths,
		Steps:             res.Steps,
		Seed:              req.Seed,
		ExecutionMode:     mode,
		DurationMs:        models.Round(float64(elapsed.Microseconds())/1000, 3),
	}
	if compare {
		if cf, ok := ClosedForm(req); ok {
			out.AnalyticPrice = &cf.Price
			out.AnalyticDelta = &cf.Delta
			out.AnalyticGamma = cf.Gamma
		}
	}
	out.Format()

	logger.Info.Printf("💰 %s %s: price=%.4f sd=%.4f se=%.6f hits=%d (%v)",
		name, out.OptionType, out.Price, out.StandardDeviation, out.StandardError, out.OriginHits, elapsed)
	return out
}

// Analytic is the Black-Scholes value of a request. Gamma is nil where it
// is unbounded (zero volatility at the forward strike).
type Analytic struct {
	Price float64
	Delta float64
	Gamma *float64
}

// ClosedForm returns the Black-Scholes price and greeks of req. They only
// exist for the lognormal case (beta 0 or 1).
func ClosedForm(req montecarlo.Request) (Analytic, bool) {
	if req.Beta != 0 && req.Beta != montecarlo.DefaultBeta {
		return Analytic{}, false
	}
	isCall := req.Type == montecarlo.Call
	in := analytic.StockInputs(req.S0, req.K, req.T, req.R, req.Sig)

	price, err := analytic.Price(isCall, in)
	if err != nil {
		return Analytic{}, false
	}
	delta, err := analytic.Delta(isCall, in)
	if err != nil {
		return Analytic{}, false
	}
	out := Analytic{Price: price, Delta: delta}
	if gamma, err := analytic.Gamma(in); err == nil {
		out.Gamma = &gamma
	}
	return out, true
}

func (s *Service) record(kind string, r models.PricingResult) {
	if err := s.auditor.Record(kind, r); err != nil {
		logger.Warn.Printf("⚠️ AUDIT: %v", err)
	}
}

func (s *Service) reject(err error) {
	if reason := RejectReason(err); reason != "" {
		s.metrics.ObserveRejected(reason)
		logger.Warn.Printf("🚫 Rejected pricing request: %v", err)
	}
}

// RejectReason classifies engine errors raised before simulation. It is
// empty for errors that are not rejections (cancellation).
func RejectReason(err error) string {
	switch {
	case errors.Is(err, montecarlo.ErrConfiguration):
		return "configuration"
	case errors.Is(err, montecarlo.ErrDegenerateSample):
		return "degenerate_sample"
	default:
		return ""
	}
}
