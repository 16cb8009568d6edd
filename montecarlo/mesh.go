package montecarlo

// TimeGrid is an increasing sequence of time points; consecutive pairs are
// the Euler steps.
type TimeGrid []float64

// Steps is the number of intervals in the grid.
func (g TimeGrid) Steps() int {
	if len(g) == 0 {
		return 0
	}
	return len(g) - 1
}

// Start is the first time point.
func (g TimeGrid) Start() float64 { return g[0] }

// End is the last time point.
func (g TimeGrid) End() float64 { return g[len(g)-1] }

// Mesh splits [start, end] into n intervals of width (end-start)/n. Points
// are produced by repeatedly adding the step, so the last point carries the
// accumulated rounding of n additions rather than being exactly end.
func Mesh(start, end float64, n int) (TimeGrid, error) {
	h, err := meshStep(start, end, n)
	if err != nil {
		return nil, err
	}

	grid := make(TimeGrid, n+1)
	grid[0] = start
	t := start
	for i := 1; i <= n; i++ {
		t += h
		grid[i] = t
	}
	return grid, nil
}

// MeshExact builds the same grid as Mesh with each point computed as
// start + i·h, and the final point pinned to end.
func MeshExact(start, end float64, n int) (TimeGrid, error) {
	h, err := meshStep(start, end, n)
	if err != nil {
		return nil, err
	}

	grid := make(TimeGrid, n+1)
	for i := 0; i < n; i++ {
		grid[i] = start + float64(i)*h
	}
	grid[n] = end
	return grid, nil
}

func meshStep(start, end float64, n int) (float64, error) {
	if n <= 0 {
		return 0, configErr("steps", "must be > 0, got %d", n)
	}
	if !isFinite(start) || !isFinite(end) || end <= start {
		return 0, configErr("interval", "must satisfy start < end, got [%v, %v]", start, end)
	}
	return (end - start) / float64(n), nil
}
