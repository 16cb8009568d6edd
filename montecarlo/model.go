package montecarlo

import (
	"fmt"
	"math"
	"strings"
)

// OptionType selects the payoff direction.
type OptionType int

const (
	Call OptionType = 1
	Put  OptionType = -1
)

// String returns "call" or "put".
func (o OptionType) String() string {
	switch o {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("OptionType(%d)", int(o))
	}
}

// Sign is +1 for calls and -1 for puts.
func (o OptionType) Sign() float64 {
	return float64(o)
}

// ParseOptionType accepts call/put in any case, plus the single letters c/p.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return 0, configErr("option_type", "must be call or put, got %q", s)
	}
}

// DefaultBeta is the CEV elasticity of the lognormal case.
const DefaultBeta = 1.0

// ModelSpec holds the parameters of one batch. It is a value type and is
// never mutated once built, so it can be shared by every worker.
type ModelSpec struct {
	R    float64 // risk-free rate
	Sig  float64 // volatility
	K    float64 // strike
	T    float64 // maturity in years
	Beta float64 // CEV elasticity
	Type OptionType
}

// NewModelSpec validates the parameters and returns the spec. A zero beta
// means the lognormal case.
func NewModelSpec(r, sig, k, t, beta float64, optType OptionType) (ModelSpec, error) {
	if beta == 0 {
		beta = DefaultBeta
	}
	spec := ModelSpec{R: r, Sig: sig, K: k, T: t, Beta: beta, Type: optType}
	if err := spec.Validate(); err != nil {
		return ModelSpec{}, err
	}
	return spec, nil
}

// Validate checks the spec preconditions.
func (m ModelSpec) Validate() error {
	if !isFinite(m.R) {
		return configErr("r", "must be finite, got %v", m.R)
	}
	// sig = 0 is the deterministic limit and stays valid
	if !isFinite(m.Sig) || m.Sig < 0 {
		return configErr("sig", "must be >= 0, got %v", m.Sig)
	}
	if !isFinite(m.K) || m.K <= 0 {
		return configErr("K", "must be > 0, got %v", m.K)
	}
	if !isFinite(m.T) || m.T <= 0 {
		return configErr("T", "must be > 0, got %v", m.T)
	}
	if !isFinite(m.Beta) || m.Beta <= 0 || m.Beta > 1 {
		return configErr("beta", "must be in (0, 1], got %v", m.Beta)
	}
	if m.Type != Call && m.Type != Put {
		return configErr("option_type", "must be call or put, got %d", int(m.Type))
	}
	return nil
}

// Drift is r·X.
func (m ModelSpec) Drift(t, x float64) float64 {
	return m.R * x
}

// Diffusion is sig·X^beta. Below the origin a non-lognormal model has no
// real power, so the diffusion switches off there.
func (m ModelSpec) Diffusion(t, x float64) float64 {
	if m.Beta == 1 {
		return m.Sig * x
	}
	if x <= 0 {
		return 0
	}
	return m.Sig * math.Pow(x, m.Beta)
}

// DiffusionDerivative is 0.5·sig·beta·X^(2beta-1), the correction term a
// Milstein step would need. The Euler scheme does not use it.
func (m ModelSpec) DiffusionDerivative(t, x float64) float64 {
	return 0.5 * m.Sig * m.Beta * math.Pow(x, 2*m.Beta-1)
}

// DiscountFactor is exp(-r·T).
func (m ModelSpec) DiscountFactor() float64 {
	return math.Exp(-m.R * m.T)
}

// WithType returns a copy of the spec with a different payoff direction.
func (m ModelSpec) WithType(optType OptionType) ModelSpec {
	m.Type = optType
	return m
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
