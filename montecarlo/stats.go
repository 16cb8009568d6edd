package montecarlo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Summary is the discounted price estimate of a payoff stream and its
// sampling error.
type Summary struct {
	Price             float64
	StandardDeviation float64
	StandardError     float64
	Samples           int
}

// Summarize reduces undiscounted payoffs to
//
//	price = exp(-rT) · Σp / M
//	sd    = exp(-rT) · sqrt((Σp² - (Σp)²/M) / (M-1))
//	se    = sd / sqrt(M)
//
// Discounting is applied once, to the aggregates.
func Summarize(payoffs []float64, r, t float64) (Summary, error) {
	var a Accumulator
	a.AddAll(payoffs)
	return a.Summary(r, t)
}

// Accumulator keeps the running sums Summarize needs. The engine fills one
// per chunk and merges them in chunk order, so the totals do not depend on
// scheduling.
type Accumulator struct {
	n     int
	sum   float64
	sumSq float64
}

// Add folds one undiscounted payoff into the accumulator.
func (a *Accumulator) Add(p float64) {
	a.n++
	a.sum += p
	a.sumSq += p * p
}

// AddAll folds a block of undiscounted payoffs into the accumulator.
func (a *Accumulator) AddAll(payoffs []float64) {
	a.n += len(payoffs)
	a.sum += floats.Sum(payoffs)
	a.sumSq += floats.Dot(payoffs, payoffs)
}

// Merge folds another accumulator into a.
func (a *Accumulator) Merge(other Accumulator) {
	a.n += other.n
	a.sum += other.sum
	a.sumSq += other.sumSq
}

// Count is the number of payoffs folded in so far.
func (a *Accumulator) Count() int { return a.n }

// Summary discounts the accumulated sums at rate r over maturity t.
func (a *Accumulator) Summary(r, t float64) (Summary, error) {
	if a.n < 2 {
		return Summary{}, &DegenerateSampleError{Samples: a.n}
	}
	return summary(a.n, a.sum, a.sumSq, r, t), nil
}

func summary(m int, sum, sumSq, r, t float64) Summary {
	df := math.Exp(-r * t)
	fm := float64(m)

	// rounding can push a zero-variance stream slightly negative
	variance := (sumSq - sum*sum/fm) / (fm - 1)
	if variance < 0 {
		variance = 0
	}

	sd := math.Sqrt(variance) * df
	return Summary{
		Price:             sum / fm * df,
		StandardDeviation: sd,
		StandardError:     sd / math.Sqrt(fm),
		Samples:           m,
	}
}
