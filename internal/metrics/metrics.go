// Package metrics exposes prometheus counters for the random fill and
// sampling operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ElementsFilled counts tensor elements written by the fill operations.
	ElementsFilled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randtensor_fill_elements_total",
		Help: "Total number of tensor elements written by random fills",
	}, []string{"distribution", "dtype"})

	// SamplesDrawn counts category indices produced by the multinomial sampler.
	SamplesDrawn = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randtensor_multinomial_samples_total",
		Help: "Total number of category indices drawn",
	}, []string{"replacement"})

	// Failures counts rejected calls.
	Failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randtensor_failures_total",
		Help: "Total number of rejected fill, sampling and state calls",
	}, []string{"operation", "reason"})
)

// Replacement returns the label value for a sampling policy.
func Replacement(withReplacement bool) string {
	if withReplacement {
		return "with"
	}
	return "without"
}
