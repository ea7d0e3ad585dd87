package tensor

import "github.com/pkg/errors"

// Common errors.
var (
	ErrOutOfBounds  = errors.New("view addresses fall outside storage")
	ErrInvalidView  = errors.New("invalid tensor view")
	ErrDataMismatch = errors.New("data length does not match shape")
)
