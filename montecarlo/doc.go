// Package montecarlo prices European options by simulating the underlying
// under a CEV-family SDE with the explicit Euler scheme.
//
// The pieces mirror a single pricing batch:
//   - RandomSource supplies standard normal draws (one private source per work chunk)
//   - ModelSpec holds the immutable option/model parameters and the drift/diffusion terms
//   - Mesh builds the time grid over [0, T]
//   - SimulatePath walks one path across the grid and counts non-positive excursions
//   - Payoff maps a terminal value to a call or put payoff
//   - Summarize / Accumulator reduce payoffs to price, standard deviation and standard error
//
// Engine ties them together and fans paths out over a bounded worker pool.
package montecarlo
