package rng

import "math"

// Parameters are not validated here; callers check the ranges documented on
// each method before drawing.

// Uniform returns a value uniformly distributed in [a, b).
func (g *Generator) Uniform(a, b float64) float64 {
	return g.float64()*(b-a) + a
}

// Normal returns a normally distributed value (Box-Muller). Requires stdv > 0.
func (g *Generator) Normal(mean, stdv float64) float64 {
	u1 := g.float64()
	u2 := g.float64()
	return math.Sqrt(-2*math.Log(1-u2))*math.Cos(2*math.Pi*u1)*stdv + mean
}

// Exponential returns an exponentially distributed value. Requires lambda > 0.
func (g *Generator) Exponential(lambda float64) float64 {
	return -1 / lambda * math.Log(1-g.float64())
}

// Cauchy returns a Cauchy distributed value.
func (g *Generator) Cauchy(median, sigma float64) float64 {
	return median + sigma*math.Tan(math.Pi*(g.float64()-0.5))
}

// LogNormal returns a value whose distribution has the given mean and
// standard deviation (not the mean and deviation of its logarithm).
// Requires mean > 0 and stdv > 0.
func (g *Generator) LogNormal(mean, stdv float64) float64 {
	zm := mean * mean
	zs := stdv * stdv
	return math.Exp(g.Normal(math.Log(zm/math.Sqrt(zs+zm)), math.Sqrt(math.Log(zs/zm+1))))
}

// Geometric returns the number of Bernoulli(1-p) trials up to the first
// success. Requires 0 < p < 1.
func (g *Generator) Geometric(p float64) int64 {
	return int64(math.Log(1-g.float64())/math.Log(p)) + 1
}

// Bernoulli returns true with probability p. Requires 0 <= p <= 1.
func (g *Generator) Bernoulli(p float64) bool {
	return g.float64() <= p
}
