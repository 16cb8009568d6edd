package montecarlo

import (
	"math"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomSource produces standard normal variates, each independent of the
// previous ones. Implementations are not safe for concurrent use; the engine
// gives every work chunk its own source.
type RandomSource interface {
	Next() float64
}

// SourceFactory builds a fresh RandomSource from a seed.
type SourceFactory func(seed uint64) RandomSource

// Generator names accepted by FactoryByName.
const (
	GeneratorGonum     = "gonum"
	GeneratorBoxMuller = "boxmuller"
)

// NormalSource draws from gonum's normal distribution over a PCG source.
type NormalSource struct {
	dist distuv.Normal
}

// NewNormalSource returns a NormalSource seeded with seed.
func NewNormalSource(seed uint64) *NormalSource {
	return &NormalSource{
		dist: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)},
	}
}

// Next returns one N(0,1) draw.
func (s *NormalSource) Next() float64 {
	return s.dist.Rand()
}

// BoxMullerSource turns pairs of uniforms into pairs of normals and hands
// them out one at a time.
type BoxMullerSource struct {
	rng     *rand.Rand
	spare   float64
	hasNext bool
}

// NewBoxMullerSource returns a BoxMullerSource seeded with seed.
func NewBoxMullerSource(seed uint64) *BoxMullerSource {
	return &BoxMullerSource{rng: rand.New(rand.NewSource(seed))}
}

// Next returns one N(0,1) draw.
func (s *BoxMullerSource) Next() float64 {
	if s.hasNext {
		s.hasNext = false
		return s.spare
	}

	// 1-Float64() is in (0, 1], keeps the log finite
	u1 := 1 - s.rng.Float64()
	u2 := s.rng.Float64()

	radius := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2

	s.spare = radius * math.Sin(theta)
	s.hasNext = true
	return radius * math.Cos(theta)
}

// FactoryByName resolves a generator name from configuration.
func FactoryByName(name string) (SourceFactory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", GeneratorGonum:
		return func(seed uint64) RandomSource { return NewNormalSource(seed) }, nil
	case GeneratorBoxMuller:
		return func(seed uint64) RandomSource { return NewBoxMullerSource(seed) }, nil
	default:
		return nil, configErr("generator", "unknown generator %q", name)
	}
}

// SplitSeed derives the seed of an independent stream from a master seed
// using the SplitMix64 finaliser.
func SplitSeed(master, stream uint64) uint64 {
	z := master + (stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
