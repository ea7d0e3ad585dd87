// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package random fills tensors with random values and draws multinomial
// samples, using an explicit generator passed to every call.
//
// Components:
//   - Generator: Mersenne Twister source with uniform, normal, exponential,
//     Cauchy, log-normal, geometric and Bernoulli draws
//   - Fill*: element-wise fills over any strided tensor
//   - Multinomial: row-wise categorical sampling with or without replacement
//   - GetRNGState / SetRNGState: generator state as a 626-element int64 tensor
//   - SaveRNGState / LoadRNGState: the same state persisted to a .rts file
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/randtensor/random"
//	    "github.com/born-ml/randtensor/tensor"
//	)
//
//	gen := random.NewGenerator(42)
//	probs, _ := tensor.FromSlice([]float64{1, 1, 1, 1}, tensor.Shape{4})
//	idx, err := random.Multinomial(gen, probs, 4, false)  // a permutation of 0..3
package random

import (
	"github.com/born-ml/randtensor/internal/random"
	"github.com/born-ml/randtensor/internal/rng"
	"github.com/born-ml/randtensor/tensor"
)

// Generator

// Source is the generator consumed by every operation in this package.
type Source = random.Source

// Generator is the Mersenne Twister implementation of Source.
// It is not safe for concurrent use.
type Generator = rng.Generator

// State is a full generator snapshot: 624 words, offset and remaining count.
type State = rng.State

// Config configures a Generator.
//
// Parameters:
//   - Seed: Random seed for reproducibility (-1 = seed from the clock)
type Config = rng.Config

// DefaultConfig returns a clock-seeded configuration.
func DefaultConfig() Config {
	return rng.DefaultConfig()
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return rng.New(seed)
}

// NewGeneratorFromConfig creates a generator from cfg.
func NewGeneratorFromConfig(cfg Config) *Generator {
	return rng.NewFromConfig(cfg)
}

// Errors

var (
	// ErrInvalidArgument reports a bad sample count, kind, rank, shape or
	// distribution parameter.
	ErrInvalidArgument = random.ErrInvalidArgument

	// ErrInvalidDistribution reports a probability row whose sum is not positive.
	ErrInvalidDistribution = random.ErrInvalidDistribution

	// ErrInvalidState reports a generator state that cannot be loaded.
	ErrInvalidState = rng.ErrInvalidState
)

// Fills

// FillRandom fills t with raw draws reduced to the range of its kind.
func FillRandom(src Source, t *tensor.RawTensor) error {
	return random.FillRandom(src, t)
}

// FillGeometric fills t with geometric draws, 0 < p < 1.
func FillGeometric(src Source, t *tensor.RawTensor, p float64) error {
	return random.FillGeometric(src, t, p)
}

// FillBernoulli fills t with 0/1 draws, 0 <= p <= 1.
func FillBernoulli(src Source, t *tensor.RawTensor, p float64) error {
	return random.FillBernoulli(src, t, p)
}

// FillUniform fills a float tensor with values uniform in [a, b).
func FillUniform(src Source, t *tensor.RawTensor, a, b float64) error {
	return random.FillUniform(src, t, a, b)
}

// FillNormal fills a float tensor with normal draws, stdv > 0.
func FillNormal(src Source, t *tensor.RawTensor, mean, stdv float64) error {
	return random.FillNormal(src, t, mean, stdv)
}

// FillExponential fills a float tensor with exponential draws, lambda > 0.
func FillExponential(src Source, t *tensor.RawTensor, lambda float64) error {
	return random.FillExponential(src, t, lambda)
}

// FillCauchy fills a float tensor with Cauchy draws.
func FillCauchy(src Source, t *tensor.RawTensor, median, sigma float64) error {
	return random.FillCauchy(src, t, median, sigma)
}

// FillLogNormal fills a float tensor with log-normal draws of the given
// mean and standard deviation, both > 0.
func FillLogNormal(src Source, t *tensor.RawTensor, mean, stdv float64) error {
	return random.FillLogNormal(src, t, mean, stdv)
}

// Sampling

// Multinomial draws nSample category indices from every row of probDist.
//
// Example:
//
//	probs, _ := tensor.FromSlice([]float64{0, 1, 0}, tensor.Shape{3})
//	idx, _ := random.Multinomial(gen, probs, 1, false)  // always [1]
func Multinomial(src Source, probDist *tensor.RawTensor, nSample int, withReplacement bool) (*tensor.RawTensor, error) {
	return random.Multinomial(src, probDist, nSample, withReplacement)
}

// MultinomialInto is Multinomial writing into a caller-owned Int64 tensor.
func MultinomialInto(src Source, out, probDist *tensor.RawTensor, nSample int, withReplacement bool) error {
	return random.MultinomialInto(src, out, probDist, nSample, withReplacement)
}

// State

// StateSize is the element count of a serialized generator state.
const StateSize = random.StateSize

// GetRNGState returns the generator state as a new Int64 tensor.
func GetRNGState(src Source) (*tensor.RawTensor, error) {
	return random.GetRNGState(src)
}

// WriteRNGState stores the generator state into an Int64 tensor of StateSize elements.
func WriteRNGState(src Source, t *tensor.RawTensor) error {
	return random.WriteRNGState(src, t)
}

// SetRNGState replaces the generator state with the one serialized in t.
func SetRNGState(src Source, t *tensor.RawTensor) error {
	return random.SetRNGState(src, t)
}

// SaveRNGState writes the generator state to a .rts file at path.
func SaveRNGState(path string, src Source) error {
	return random.SaveRNGState(path, src)
}

// LoadRNGState restores the generator state from a file written by SaveRNGState.
func LoadRNGState(path string, src Source) error {
	return random.LoadRNGState(path, src)
}
