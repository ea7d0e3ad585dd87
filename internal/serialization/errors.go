package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("rts: data checksum mismatch")
	ErrInvalidMagic       = errors.New("rts: not a tensor file")
	ErrUnsupportedVersion = errors.New("rts: unsupported format version")
	ErrHeaderTooLarge     = errors.New("rts: header too large")
	ErrTensorNotFound     = errors.New("rts: tensor not found")
)

// ValidationKind names the tensor-table rule a file broke.
type ValidationKind string

// Tensor-table rules checked when writing and reading.
const (
	KindTooManyTensors ValidationKind = "too_many_tensors"
	KindDataTooLarge   ValidationKind = "data_too_large"
	KindNegativeRange  ValidationKind = "negative_range"
	KindOutOfBounds    ValidationKind = "out_of_bounds"
	KindOverlap        ValidationKind = "overlap"
	KindInvalidName    ValidationKind = "invalid_name"
	KindDuplicateName  ValidationKind = "duplicate_name"
	KindInvalidDType   ValidationKind = "invalid_dtype"
	KindInvalidShape   ValidationKind = "invalid_shape"
	KindSizeMismatch   ValidationKind = "size_mismatch"
)

// ValidationError reports a malformed tensor table entry.
type ValidationError struct {
	Kind    ValidationKind
	Tensor  string // Entry at fault, if any
	Other   string // Second entry for overlaps
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Other != "":
		return fmt.Sprintf("rts: %s between %q and %q: %s", e.Kind, e.Tensor, e.Other, e.Details)
	case e.Tensor != "":
		return fmt.Sprintf("rts: %s in %q: %s", e.Kind, e.Tensor, e.Details)
	default:
		return fmt.Sprintf("rts: %s: %s", e.Kind, e.Details)
	}
}

func invalid(kind ValidationKind, name, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Tensor: name, Details: fmt.Sprintf(format, args...)}
}
