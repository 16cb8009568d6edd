package montecarlo

import "math"

// Payoff is the undiscounted payoff of spec's option at the terminal value:
// max(S-K, 0) for a call, max(K-S, 0) for a put. Non-positive terminal
// values from boundary excursions are accepted as-is.
func Payoff(terminal float64, spec ModelSpec) float64 {
	return math.Max(spec.Type.Sign()*(terminal-spec.K), 0)
}

// Payoffs maps every terminal value to its payoff.
func Payoffs(terminals []float64, spec ModelSpec) []float64 {
	out := make([]float64, len(terminals))
	for i, s := range terminals {
		out[i] = Payoff(s, spec)
	}
	return out
}
