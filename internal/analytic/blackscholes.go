// Package analytic holds closed-form European option formulas used to
// check simulated prices.
package analytic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidInput is returned for parameters the formulas are undefined on.
var ErrInvalidInput = errors.New("invalid black-scholes input")

// Inputs are the Black-Scholes parameters. B is the cost of carry; for a
// non-dividend stock it equals R.
type Inputs struct {
	S   float64 // spot
	K   float64 // strike
	T   float64 // maturity (years)
	R   float64 // risk-free rate
	Sig float64 // volatility
	B   float64 // cost of carry
}

// StockInputs builds Inputs with B = R.
func StockInputs(s, k, t, r, sig float64) Inputs {
	return Inputs{S: s, K: k, T: t, R: r, Sig: sig, B: r}
}

func (in Inputs) validate() error {
	switch {
	case in.S <= 0:
		return fmt.Errorf("%w: S must be > 0, got %v", ErrInvalidInput, in.S)
	case in.K <= 0:
		return fmt.Errorf("%w: K must be > 0, got %v", ErrInvalidInput, in.K)
	case in.T <= 0:
		return fmt.Errorf("%w: T must be > 0, got %v", ErrInvalidInput, in.T)
	case in.Sig < 0:
		return fmt.Errorf("%w: sig must be >= 0, got %v", ErrInvalidInput, in.Sig)
	}
	return nil
}

func (in Inputs) d1d2() (float64, float64) {
	tmp := in.Sig * math.Sqrt(in.T)
	d1 := (math.Log(in.S/in.K) + (in.B+0.5*in.Sig*in.Sig)*in.T) / tmp
	return d1, d1 - tmp
}

// CallPrice is the generalised Black-Scholes call price.
func CallPrice(in Inputs) (float64, error) {
	if err := in.validate(); err != nil {
		return math.NaN(), err
	}
	if in.Sig == 0 {
		fwd := in.S * math.Exp((in.B-in.R)*in.T)
		return math.Max(fwd-in.K*math.Exp(-in.R*in.T), 0), nil
	}
	d1, d2 := in.d1d2()
	return in.S*math.Exp((in.B-in.R)*in.T)*distuv.UnitNormal.CDF(d1) -
		in.K*math.Exp(-in.R*in.T)*distuv.UnitNormal.CDF(d2), nil
}

// PutPrice is the generalised Black-Scholes put price.
func PutPrice(in Inputs) (float64, error) {
	if err := in.validate(); err != nil {
		return math.NaN(), err
	}
	if in.Sig == 0 {
		fwd := in.S * math.Exp((in.B-in.R)*in.T)
		return math.Max(in.K*math.Exp(-in.R*in.T)-fwd, 0), nil
	}
	d1, d2 := in.d1d2()
	return in.K*math.Exp(-in.R*in.T)*distuv.UnitNormal.CDF(-d2) -
		in.S*math.Exp((in.B-in.R)*in.T)*distuv.UnitNormal.CDF(-d1), nil
}

// Price dispatches on isCall.
func Price(isCall bool, in Inputs) (float64, error) {
	if isCall {
		return CallPrice(in)
	}
	return PutPrice(in)
}

// Delta is dV/dS. With zero volatility it is the carry factor times the
// in-the-money indicator, one half exactly at the forward strike.
func Delta(isCall bool, in Inputs) (float64, error) {
	if err := in.validate(); err != nil {
		return math.NaN(), err
	}
	carry := math.Exp((in.B - in.R) * in.T)

	var n float64
	if in.Sig == 0 {
		switch fwd := in.S * math.Exp(in.B*in.T); {
		case fwd > in.K:
			n = 1
		case fwd == in.K:
			n = 0.5
		}
	} else {
		d1, _ := in.d1d2()
		n = distuv.UnitNormal.CDF(d1)
	}

	if isCall {
		return carry * n, nil
	}
	return carry * (n - 1), nil
}

// Gamma is d²V/dS², identical for calls and puts. With zero volatility it
// is 0 away from the forward strike and undefined at it.
func Gamma(in Inputs) (float64, error) {
	if err := in.validate(); err != nil {
		return math.NaN(), err
	}
	if in.Sig == 0 {
		if in.S*math.Exp(in.B*in.T) == in.K {
			return math.NaN(), fmt.Errorf("%w: gamma is unbounded at the forward strike with zero volatility", ErrInvalidInput)
		}
		return 0, nil
	}
	d1, _ := in.d1d2()
	return distuv.UnitNormal.Prob(d1) * math.Exp((in.B-in.R)*in.T) / (in.S * in.Sig * math.Sqrt(in.T)), nil
}

// PutFromCall applies put-call parity: P = C + K·exp(-rT) - S.
func PutFromCall(c float64, in Inputs) float64 {
	return c + in.K*math.Exp(-in.R*in.T) - in.S
}

// CallFromPut applies put-call parity: C = P + S - K·exp(-rT).
func CallFromPut(p float64, in Inputs) float64 {
	return p + in.S - in.K*math.Exp(-in.R*in.T)
}
