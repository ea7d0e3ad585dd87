package random

import (
	"github.com/pkg/errors"

	"github.com/born-ml/randtensor/internal/metrics"
)

// Common errors.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidDistribution = errors.New("invalid multinomial distribution (sum of probabilities <= 0)")
)

// reject counts a failed call and wraps sentinel with call details.
func reject(op string, sentinel error, format string, args ...any) error {
	reason := "invalid_argument"
	if sentinel == ErrInvalidDistribution {
		reason = "invalid_distribution"
	}
	metrics.Failures.WithLabelValues(op, reason).Inc()
	return errors.Wrapf(sentinel, format, args...)
}
