// Package random fills strided tensors with random values, draws
// multinomial samples from row-wise probability tensors, and moves the
// generator state in and out of tensors.
//
// Every operation takes its Source explicitly; nothing here holds global
// generator state. A Source is not safe for concurrent use, so callers that
// share one across goroutines must serialize access themselves.
package random

import "github.com/born-ml/randtensor/internal/rng"

// Source is the generator consumed by the fill, sampling and state
// operations. *rng.Generator implements it.
type Source interface {
	// Random returns a raw unsigned draw.
	Random() uint64

	Uniform(a, b float64) float64
	Normal(mean, stdv float64) float64
	Exponential(lambda float64) float64
	Cauchy(median, sigma float64) float64
	LogNormal(mean, stdv float64) float64
	Geometric(p float64) int64
	Bernoulli(p float64) bool

	State() rng.State
	SetState(s rng.State) error
}

var _ Source = (*rng.Generator)(nil)
