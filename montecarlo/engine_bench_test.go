package montecarlo

import (
	"context"
	"testing"
)

func BenchmarkPriceModes(b *testing.B) {
	req := Request{S0: 100, K: 100, T: 1, R: 0, Sig: 0.2, Type: Call, Steps: 100, Paths: 20000, Seed: 1}

	for _, mode := range []ExecutionMode{ExecutionModeCPU, ExecutionModeParallel, ExecutionModeAuto} {
		b.Run(string(mode), func(b *testing.B) {
			e, err := NewEngine(Options{Mode: mode})
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.Price(context.Background(), req); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(req.Paths*req.Steps)*float64(b.N)/b.Elapsed().Seconds(), "steps/s")
		})
	}
}

func BenchmarkSimulatePath(b *testing.B) {
	spec, _ := NewModelSpec(0.08, 0.3, 65, 0.25, 1, Call)
	grid, _ := Mesh(0, spec.T, 100)
	src := NewNormalSource(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SimulatePath(spec, 60, grid, src)
	}
}
