// Package rng implements the Mersenne Twister (MT19937) generator that backs
// the random fill and sampling operations, together with the parametrized
// distributions drawn from it.
//
// The generator keeps the classic 624-word state plus the position of the
// next word to temper (offset) and the count of words left before the state
// is regenerated (left). That record is what State and SetState exchange.
package rng

import (
	"time"

	"k8s.io/klog/v2"
)

const (
	// StateWords is the number of 32-bit words in the twister state.
	StateWords = 624

	mtM        = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	temperingB = 0x9d2c5680
	temperingC = 0xefc60000
	wordMask   = 0xffffffff
)

// Config configures a Generator.
type Config struct {
	// Seed for reproducibility. -1 = seed from the clock.
	Seed int64
}

// DefaultConfig returns a clock-seeded configuration.
func DefaultConfig() Config {
	return Config{Seed: -1}
}

// Generator is a Mersenne Twister generator.
// It is not safe for concurrent use.
type Generator struct {
	state       [StateWords]uint64
	next        int
	left        int
	initialSeed uint64
}

// New creates a generator seeded with seed.
func New(seed uint64) *Generator {
	g := &Generator{}
	g.Seed(seed)
	return g
}

// NewFromConfig creates a generator from cfg.
func NewFromConfig(cfg Config) *Generator {
	if cfg.Seed >= 0 {
		return New(uint64(cfg.Seed))
	}
	seed := uint64(time.Now().UnixNano()) //nolint:gosec // clock seed, not a security boundary
	klog.V(2).Infof("rng: seeding from clock with %d", seed)
	return New(seed)
}

// Seed reinitializes the state from seed. Only the low 32 bits are used.
func (g *Generator) Seed(seed uint64) {
	g.initialSeed = seed
	g.state[0] = seed & wordMask
	for j := 1; j < StateWords; j++ {
		prev := g.state[j-1]
		g.state[j] = (1812433253*(prev^(prev>>30)) + uint64(j)) & wordMask
	}
	g.left = 1
	g.next = 0
}

// InitialSeed returns the seed the generator was last seeded with.
func (g *Generator) InitialSeed() uint64 {
	return g.initialSeed
}

func twist(u, v uint64) uint64 {
	y := ((u & upperMask) | (v & lowerMask)) >> 1
	if v&1 != 0 {
		y ^= matrixA
	}
	return y
}

// regenerate produces the next block of 624 words.
func (g *Generator) regenerate() {
	s := &g.state
	g.left = StateWords
	g.next = 0

	kk := 0
	for ; kk < StateWords-mtM; kk++ {
		s[kk] = s[kk+mtM] ^ twist(s[kk], s[kk+1])
	}
	for ; kk < StateWords-1; kk++ {
		s[kk] = s[kk+mtM-StateWords] ^ twist(s[kk], s[kk+1])
	}
	s[kk] = s[kk+mtM-StateWords] ^ twist(s[kk], s[0])
}

// Random returns the next tempered 32-bit word.
func (g *Generator) Random() uint64 {
	g.left--
	if g.left == 0 {
		g.regenerate()
	}
	y := g.state[g.next]
	g.next++

	// Tempering
	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18

	return y & wordMask
}

// float64 returns a value in [0, 1) with 32 bits of resolution.
func (g *Generator) float64() float64 {
	return float64(g.Random()) * (1.0 / 4294967296.0)
}
