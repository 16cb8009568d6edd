package montecarlo

import (
	"math"
	"testing"
)

// scriptedSource replays a fixed list of draws and counts how many were taken.
type scriptedSource struct {
	draws []float64
	taken int
}

func (s *scriptedSource) Next() float64 {
	x := s.draws[s.taken%len(s.draws)]
	s.taken++
	return x
}

func mustMesh(t *testing.T, end float64, n int) TimeGrid {
	t.Helper()
	grid, err := Mesh(0, end, n)
	if err != nil {
		t.Fatalf("Mesh: %v", err)
	}
	return grid
}

func TestSimulatePathEulerStep(t *testing.T) {
	spec := ModelSpec{R: 0, Sig: 0.2, K: 100, T: 1, Beta: 1, Type: Call}
	src := &scriptedSource{draws: []float64{1, -1}}

	out := SimulatePath(spec, 100, mustMesh(t, 1, 2), src)

	// 100·(1+a)(1-a) with a = 0.2·sqrt(0.5)
	if math.Abs(out.Terminal-98) > 1e-9 {
		t.Errorf("Terminal = %v, want 98", out.Terminal)
	}
	if out.BoundaryHits != 0 {
		t.Errorf("BoundaryHits = %d, want 0", out.BoundaryHits)
	}
	if src.taken != 2 {
		t.Errorf("draws taken = %d, want 2", src.taken)
	}
}

func TestSimulatePathConsumesOneDrawPerStep(t *testing.T) {
	spec := ModelSpec{R: 0.05, Sig: 0.2, K: 100, T: 1, Beta: 1, Type: Call}

	for _, n := range []int{1, 7, 100, 365} {
		src := &scriptedSource{draws: []float64{0.3, -0.1, 1.2}}
		SimulatePath(spec, 100, mustMesh(t, 1, n), src)
		if src.taken != n {
			t.Errorf("steps=%d: draws taken = %d", n, src.taken)
		}
	}
}

func TestSimulatePathKeepsGoingBelowZero(t *testing.T) {
	spec := ModelSpec{R: 0, Sig: 1, K: 1, T: 2, Beta: 1, Type: Put}
	src := &scriptedSource{draws: []float64{-2, 0.5}}

	out := SimulatePath(spec, 1, mustMesh(t, 2, 2), src)

	// step 1: 1 + 1·1·(-2) = -1, step 2: -1 + 1·(-1)·0.5 = -1.5
	if out.Terminal != -1.5 {
		t.Errorf("Terminal = %v, want -1.5", out.Terminal)
	}
	if out.BoundaryHits != 2 {
		t.Errorf("BoundaryHits = %d, want 2", out.BoundaryHits)
	}
	if got := Payoff(out.Terminal, spec); got != 2.5 {
		t.Errorf("put payoff = %v, want 2.5", got)
	}
}

func TestSimulatePathZeroVolIsDeterministic(t *testing.T) {
	spec := ModelSpec{R: 0.1, Sig: 0, K: 100, T: 1, Beta: 1, Type: Call}
	grid := mustMesh(t, 1, 4)

	out := SimulatePath(spec, 100, grid, NewNormalSource(3))

	want := 100.0
	for i := 1; i < len(grid); i++ {
		want = want + (grid[i]-grid[i-1])*(0.1*want)
	}
	if out.Terminal != want {
		t.Errorf("Terminal = %v, want %v", out.Terminal, want)
	}
	if out.BoundaryHits != 0 {
		t.Errorf("BoundaryHits = %d, want 0", out.BoundaryHits)
	}
}
