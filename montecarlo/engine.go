package montecarlo

import (
	"context"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hanlinyan-dev/option-pricing/internal/logger"
)

// ExecutionMode defines how path chunks are scheduled
type ExecutionMode string

const (
	ExecutionModeAuto     ExecutionMode = "auto"
	ExecutionModeCPU      ExecutionMode = "cpu"
	ExecutionModeParallel ExecutionMode = "parallel"
)

// ParseExecutionMode maps a configuration string to an ExecutionMode.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch mode := ExecutionMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ExecutionModeAuto, nil
	case ExecutionModeAuto, ExecutionModeCPU, ExecutionModeParallel:
		return mode, nil
	default:
		return "", configErr("execution_mode", "must be auto, cpu or parallel, got %q", s)
	}
}

// DefaultChunkSize is the number of paths that share one random stream.
const DefaultChunkSize = 1000

// Options configures an Engine. Zero values pick the defaults.
type Options struct {
	Mode      ExecutionMode
	Workers   int           // goroutines in parallel mode (default GOMAXPROCS)
	ChunkSize int           // paths per random stream (default 1000)
	Generator string        // generator name, used when Factory is nil
	Factory   SourceFactory // overrides Generator
	ExactMesh bool          // use start+i·h grid points instead of repeated addition
}

// Engine runs pricing batches. It holds no per-batch state and is safe for
// concurrent use.
type Engine struct {
	mode      ExecutionMode
	workers   int
	chunkSize int
	factory   SourceFactory
	exactMesh bool
}

// NewEngine validates opts and builds an Engine.
func NewEngine(opts Options) (*Engine, error) {
	mode, err := ParseExecutionMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 0 {
		return nil, configErr("workers", "must be >= 0, got %d", workers)
	}
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	chunkSize := opts.ChunkSize
	if chunkSize < 0 {
		return nil, configErr("chunk_size", "must be >= 0, got %d", chunkSize)
	}
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	factory := opts.Factory
	if factory == nil {
		if factory, err = FactoryByName(opts.Generator); err != nil {
			return nil, err
		}
	}

	return &Engine{
		mode:      mode,
		workers:   workers,
		chunkSize: chunkSize,
		factory:   factory,
		exactMesh: opts.ExactMesh,
	}, nil
}

// Mode returns the mode the engine actually runs in; auto resolves to
// parallel when more than one worker is available.
func (e *Engine) Mode() ExecutionMode {
	if e.mode == ExecutionModeAuto {
		if e.workers > 1 {
			return ExecutionModeParallel
		}
		return ExecutionModeCPU
	}
	return e.mode
}

// Workers returns the worker limit used in parallel mode.
func (e *Engine) Workers() int { return e.workers }

// ChunkSize returns the number of paths per random stream.
func (e *Engine) ChunkSize() int { return e.chunkSize }

// Request is the full parameter set of one pricing batch.
type Request struct {
	S0    float64
	K     float64
	T     float64
	R     float64
	Sig   float64
	Beta  float64 // 0 means 1 (lognormal)
	Type  OptionType
	Steps int // time intervals (N)
	Paths int // simulated paths (NSim)
	Seed  uint64
}

// Spec builds the validated ModelSpec of the request.
func (r Request) Spec() (ModelSpec, error) {
	return NewModelSpec(r.R, r.Sig, r.K, r.T, r.Beta, r.Type)
}

// Validate rejects every bad parameter before any path is simulated.
// Configuration problems take precedence over a degenerate path count.
func (r Request) Validate() error {
	if !isFinite(r.S0) || r.S0 <= 0 {
		return configErr("S0", "must be > 0, got %v", r.S0)
	}
	if _, err := r.Spec(); err != nil {
		return err
	}
	if r.Steps <= 0 {
		return configErr("steps", "must be > 0, got %d", r.Steps)
	}
	if r.Paths <= 0 {
		return configErr("paths", "must be > 0, got %d", r.Paths)
	}
	if r.Paths < 2 {
		return &DegenerateSampleError{Samples: r.Paths}
	}
	return nil
}

// SimulationResult is the immutable outcome of one batch.
type SimulationResult struct {
	Type              OptionType
	Price             float64
	StandardDeviation float64
	StandardError     float64
	OriginHits        int64
	Paths             int
	Steps             int
}

// Price simulates req.Paths paths and prices the option named by req.Type.
func (e *Engine) Price(ctx context.Context, req Request) (SimulationResult, error) {
	spec, grid, err := e.prepare(req)
	if err != nil {
		return SimulationResult{}, err
	}

	out, err := e.simulate(ctx, req, spec, grid)
	if err != nil {
		return SimulationResult{}, err
	}

	acc := out.call
	if spec.Type == Put {
		acc = out.put
	}
	return buildResult(spec, req, acc, out.hits)
}

// PriceBoth prices the call and the put on one shared set of paths.
// req.Type is ignored.
func (e *Engine) PriceBoth(ctx context.Context, req Request) (call, put SimulationResult, err error) {
	req.Type = Call
	spec, grid, err := e.prepare(req)
	if err != nil {
		return SimulationResult{}, SimulationResult{}, err
	}

	out, err := e.simulate(ctx, req, spec, grid)
	if err != nil {
		return SimulationResult{}, SimulationResult{}, err
	}

	if call, err = buildResult(spec, req, out.call, out.hits); err != nil {
		return SimulationResult{}, SimulationResult{}, err
	}
	if put, err = buildResult(spec.WithType(Put), req, out.put, out.hits); err != nil {
		return SimulationResult{}, SimulationResult{}, err
	}
	return call, put, nil
}

func (e *Engine) prepare(req Request) (ModelSpec, TimeGrid, error) {
	if err := req.Validate(); err != nil {
		return ModelSpec{}, nil, err
	}
	spec, err := req.Spec()
	if err != nil {
		return ModelSpec{}, nil, err
	}

	mesh := Mesh
	if e.exactMesh {
		mesh = MeshExact
	}
	grid, err := mesh(0, spec.T, req.Steps)
	if err != nil {
		return ModelSpec{}, nil, err
	}
	return spec, grid, nil
}

// chunkTotals are the payoff sums and origin hits of one or more chunks.
type chunkTotals struct {
	call Accumulator
	put  Accumulator
	hits int64
}

// simulate reduces every path to call and put payoff sums. Path i belongs to
// chunk i/chunkSize and draws from that chunk's stream only; chunk totals are
// merged in chunk order, so the output does not depend on scheduling.
func (e *Engine) simulate(ctx context.Context, req Request, spec ModelSpec, grid TimeGrid) (chunkTotals, error) {
	start := time.Now()
	chunks := (req.Paths + e.chunkSize - 1) / e.chunkSize
	totals := make([]chunkTotals, chunks)
	callSpec, putSpec := spec.WithType(Call), spec.WithType(Put)

	run := func(ctx context.Context, c int) error {
		lo := c * e.chunkSize
		hi := min(lo+e.chunkSize, req.Paths)
		src := e.factory(SplitSeed(req.Seed, uint64(c)))

		terminals := make([]float64, hi-lo)
		var h int64
		for i := range terminals {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := SimulatePath(spec, req.S0, grid, src)
			terminals[i] = out.Terminal
			h += int64(out.BoundaryHits)
		}

		t := &totals[c]
		t.call.AddAll(Payoffs(terminals, callSpec))
		t.put.AddAll(Payoffs(terminals, putSpec))
		t.hits = h
		return nil
	}

	mode := e.Mode()
	if mode == ExecutionModeParallel && chunks > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for c := 0; c < chunks; c++ {
			if gctx.Err() != nil {
				break
			}
			c := c
			g.Go(func() error {
				return run(gctx, c)
			})
		}
		if err := g.Wait(); err != nil {
			return chunkTotals{}, err
		}
		if err := ctx.Err(); err != nil {
			return chunkTotals{}, err
		}
	} else {
		for c := 0; c < chunks; c++ {
			if err := run(ctx, c); err != nil {
				return chunkTotals{}, err
			}
		}
	}

	var all chunkTotals
	for _, t := range totals {
		all.call.Merge(t.call)
		all.put.Merge(t.put)
		all.hits += t.hits
	}

	logger.Debug.Printf("🎲 MC %d paths x %d steps | %d chunks | mode=%s workers=%d | %v",
		req.Paths, req.Steps, chunks, mode, e.workers, time.Since(start))
	if all.hits > 0 {
		logger.Verbose.Printf("⚠️  MC boundary: %d non-positive steps (sig=%.4f, T=%.4f)", all.hits, spec.Sig, spec.T)
	}

	return all, nil
}

func buildResult(spec ModelSpec, req Request, acc Accumulator, hits int64) (SimulationResult, error) {
	sum, err := acc.Summary(spec.R, spec.T)
	if err != nil {
		return SimulationResult{}, err
	}
	return SimulationResult{
		Type:              spec.Type,
		Price:             sum.Price,
		StandardDeviation: sum.StandardDeviation,
		StandardError:     sum.StandardError,
		OriginHits:        hits,
		Paths:             req.Paths,
		Steps:             req.Steps,
	}, nil
}
