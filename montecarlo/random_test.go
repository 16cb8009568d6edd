package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func drawMoments(src RandomSource, n int) (mean, variance float64) {
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		x := src.Next()
		sum += x
		sumSq += x * x
	}
	mean = sum / float64(n)
	variance = sumSq/float64(n) - mean*mean
	return mean, variance
}

func TestGeneratorsAreStandardNormal(t *testing.T) {
	tests := []struct {
		name string
		src  RandomSource
	}{
		{"gonum", NewNormalSource(7)},
		{"boxmuller", NewBoxMullerSource(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, variance := drawMoments(tt.src, 200000)
			if math.Abs(mean) > 0.02 {
				t.Errorf("mean = %v, want ~0", mean)
			}
			if math.Abs(variance-1) > 0.03 {
				t.Errorf("variance = %v, want ~1", variance)
			}
		})
	}
}

func TestGeneratorsAreReproducible(t *testing.T) {
	for _, name := range []string{GeneratorGonum, GeneratorBoxMuller} {
		t.Run(name, func(t *testing.T) {
			factory, err := FactoryByName(name)
			if err != nil {
				t.Fatalf("FactoryByName(%q): %v", name, err)
			}

			a, b := factory(42), factory(42)
			for i := 0; i < 1000; i++ {
				if x, y := a.Next(), b.Next(); x != y {
					t.Fatalf("draw %d differs: %v != %v", i, x, y)
				}
			}
		})
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, b := NewNormalSource(1), NewNormalSource(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("%d of 100 draws identical across seeds", same)
	}
}

func TestFactoryByNameUnknown(t *testing.T) {
	_, err := FactoryByName("mersenne")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "generator" {
		t.Errorf("err = %#v, want ConfigurationError on generator", err)
	}
}

func TestSplitSeedStreamsAreDistinct(t *testing.T) {
	seen := make(map[uint64]uint64)
	for stream := uint64(0); stream < 10000; stream++ {
		s := SplitSeed(12345, stream)
		if prev, ok := seen[s]; ok {
			t.Fatalf("streams %d and %d share seed %d", prev, stream, s)
		}
		seen[s] = stream
	}

	if SplitSeed(1, 0) == SplitSeed(2, 0) {
		t.Error("different master seeds produced the same stream seed")
	}
	if SplitSeed(9, 3) != SplitSeed(9, 3) {
		t.Error("SplitSeed is not a pure function")
	}
}
