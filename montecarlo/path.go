package montecarlo

import "math"

// PathOutcome is what one simulated path leaves behind.
type PathOutcome struct {
	Terminal     float64
	BoundaryHits int
}

// SimulatePath advances one path from s0 across grid with the explicit
// Euler update
//
//	V <- V + k·drift(t, V) + sqrt(k)·diffusion(t, V)·dW
//
// drawing exactly grid.Steps() variates from src. A value at or below zero
// is counted as a boundary hit and the path keeps going with it; the scheme
// does not absorb at the origin.
func SimulatePath(spec ModelSpec, s0 float64, grid TimeGrid, src RandomSource) PathOutcome {
	v := s0
	hits := 0

	for i := 1; i < len(grid); i++ {
		t := grid[i-1]
		k := grid[i] - t
		dW := src.Next()

		v = v + k*spec.Drift(t, v) + math.Sqrt(k)*spec.Diffusion(t, v)*dW

		if v <= 0 {
			hits++
		}
	}

	return PathOutcome{Terminal: v, BoundaryHits: hits}
}
