// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/randtensor/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: uint8, int8, int16, int32, int64, float32, float64.
type DType = tensor.DType

// DataType represents the element kind of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Uint8   DataType = tensor.Uint8
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// ParseShape parses a comma-separated list of dimensions such as "2,3".
func ParseShape(text string) (Shape, error) {
	return tensor.ParseShape(text)
}

// ParseDataType parses an element kind name such as "float32".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// Errors returned by view construction.
var (
	ErrOutOfBounds  = tensor.ErrOutOfBounds
	ErrInvalidView  = tensor.ErrInvalidView
	ErrDataMismatch = tensor.ErrDataMismatch
)
