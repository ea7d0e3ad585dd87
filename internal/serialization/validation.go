package serialization

import (
	"sort"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 1 << 20 // 1MB
	MaxDataSize      = 1 << 30 // 1GB
	MaxTensorCount   = 1024
	MaxTensorNameLen = 256
)

// ValidateTensorOffsets checks that every byte range lies inside a data
// section of dataSize bytes and that no two ranges overlap.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return invalid(KindTooManyTensors, "", "got %d, max %d", len(tensors), MaxTensorCount)
	}

	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return invalid(KindNegativeRange, t.Name, "offset=%d, size=%d", t.Offset, t.Size)
		}
		// Offset+Size may overflow; compare against the remaining space instead.
		if t.Size > dataSize || t.Offset > dataSize-t.Size {
			return invalid(KindOutOfBounds, t.Name, "offset=%d, size=%d with %d data bytes",
				t.Offset, t.Size, dataSize)
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.Offset+prev.Size > t.Offset {
				return &ValidationError{
					Kind:    KindOverlap,
					Tensor:  prev.Name,
					Other:   t.Name,
					Details: "byte ranges overlap",
				}
			}
		}
	}
	return nil
}

// ValidateTensorName rejects empty, overlong and path-like names.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return invalid(KindInvalidName, "", "empty tensor name")
	case len(name) > MaxTensorNameLen:
		return invalid(KindInvalidName, name[:32]+"...", "length %d exceeds %d", len(name), MaxTensorNameLen)
	case strings.ContainsAny(name, "/\\\x00"):
		return invalid(KindInvalidName, name, "contains a path separator or NUL")
	}
	return nil
}

// byteSize returns the packed size of shape with elemSize-byte elements,
// or false when a dimension is not positive or the size exceeds MaxDataSize.
func byteSize(shape []int, elemSize int) (int64, bool) {
	n := int64(elemSize)
	for _, d := range shape {
		if d <= 0 || n > MaxDataSize/int64(d) {
			return 0, false
		}
		n *= int64(d)
	}
	return n, n <= MaxDataSize
}
