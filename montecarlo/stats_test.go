package montecarlo

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func relClose(a, b, tol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func samplePayoffs(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Max(rng.NormFloat64()*20, 0)
	}
	return out
}

func TestSummarizeHandComputed(t *testing.T) {
	sum, err := Summarize([]float64{1, 2, 3, 4}, 0, 1)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	// mean 2.5, sample variance 5/3
	if sum.Price != 2.5 {
		t.Errorf("Price = %v, want 2.5", sum.Price)
	}
	if want := math.Sqrt(5.0 / 3.0); math.Abs(sum.StandardDeviation-want) > 1e-12 {
		t.Errorf("StandardDeviation = %v, want %v", sum.StandardDeviation, want)
	}
	if want := math.Sqrt(5.0/3.0) / 2; math.Abs(sum.StandardError-want) > 1e-12 {
		t.Errorf("StandardError = %v, want %v", sum.StandardError, want)
	}
	if sum.Samples != 4 {
		t.Errorf("Samples = %d, want 4", sum.Samples)
	}
}

func TestSummarizeMatchesGonum(t *testing.T) {
	payoffs := samplePayoffs(5000, 11)
	r, T := 0.08, 0.25
	df := math.Exp(-r * T)

	sum, err := Summarize(payoffs, r, T)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	mean, sd := stat.MeanStdDev(payoffs, nil)
	if !relClose(sum.Price, mean*df, 1e-12) {
		t.Errorf("Price = %v, want %v", sum.Price, mean*df)
	}
	if !relClose(sum.StandardDeviation, sd*df, 1e-9) {
		t.Errorf("StandardDeviation = %v, want %v", sum.StandardDeviation, sd*df)
	}
	if !relClose(sum.StandardError, sd*df/math.Sqrt(5000), 1e-9) {
		t.Errorf("StandardError = %v, want %v", sum.StandardError, sd*df/math.Sqrt(5000))
	}
}

func TestSummarizeOrderInvariant(t *testing.T) {
	payoffs := samplePayoffs(10000, 5)
	base, err := Summarize(payoffs, 0.05, 1)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]float64(nil), payoffs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := Summarize(shuffled, 0.05, 1)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if !relClose(got.Price, base.Price, 1e-12) ||
			!relClose(got.StandardDeviation, base.StandardDeviation, 1e-9) ||
			!relClose(got.StandardError, base.StandardError, 1e-9) {
			t.Errorf("trial %d: %+v differs from %+v", trial, got, base)
		}
	}
}

func TestAccumulatorMergeMatchesSummarize(t *testing.T) {
	payoffs := samplePayoffs(3001, 21)
	want, _ := Summarize(payoffs, 0.02, 2)

	// fold three uneven partitions in reverse order
	var parts [3]Accumulator
	for i, p := range payoffs {
		parts[i%3].Add(p)
	}
	var total Accumulator
	for i := len(parts) - 1; i >= 0; i-- {
		total.Merge(parts[i])
	}

	if total.Count() != len(payoffs) {
		t.Fatalf("Count = %d, want %d", total.Count(), len(payoffs))
	}
	got, err := total.Summary(0.02, 2)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !relClose(got.Price, want.Price, 1e-12) || !relClose(got.StandardError, want.StandardError, 1e-9) {
		t.Errorf("merged %+v, want %+v", got, want)
	}
}

func TestSummarizeConstantStream(t *testing.T) {
	payoffs := make([]float64, 1000)
	for i := range payoffs {
		payoffs[i] = 0.1
	}

	sum, err := Summarize(payoffs, 0, 1)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if math.IsNaN(sum.StandardDeviation) || sum.StandardDeviation > 1e-7 {
		t.Errorf("StandardDeviation = %v, want ~0", sum.StandardDeviation)
	}
}

func TestSummarizeDegenerate(t *testing.T) {
	for _, payoffs := range [][]float64{nil, {}, {4.2}} {
		_, err := Summarize(payoffs, 0.05, 1)
		if !errors.Is(err, ErrDegenerateSample) {
			t.Errorf("len %d: err = %v, want ErrDegenerateSample", len(payoffs), err)
		}
	}

	var acc Accumulator
	acc.Add(1)
	var degErr *DegenerateSampleError
	if _, err := acc.Summary(0, 1); !errors.As(err, &degErr) || degErr.Samples != 1 {
		t.Errorf("Accumulator.Summary err = %v, want DegenerateSampleError{1}", err)
	}
}

func TestAccumulatorAddAllMatchesAdd(t *testing.T) {
	payoffs := samplePayoffs(999, 5)

	var one, block Accumulator
	for _, p := range payoffs {
		one.Add(p)
	}
	block.AddAll(payoffs[:400])
	block.AddAll(payoffs[400:])

	if block.Count() != one.Count() {
		t.Fatalf("Count = %d, want %d", block.Count(), one.Count())
	}
	a, _ := one.Summary(0.03, 0.5)
	b, err := block.Summary(0.03, 0.5)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !relClose(a.Price, b.Price, 1e-12) || !relClose(a.StandardDeviation, b.StandardDeviation, 1e-9) {
		t.Errorf("AddAll %+v, Add %+v", b, a)
	}
}
