// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/randtensor/internal/tensor"
)

// RawTensor is a strided view over a shared Storage.
//
// RawTensor provides:
//   - Shape, stride and offset information via Shape(), Strides(), Offset()
//   - Affine addressing via Address() and ForEach()
//   - Views via Transpose(), Narrow(), Select(), View()
//   - Reference counting via Clone() and Release()
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	tensor.SetAt[float32](raw, 1.5, 1, 2)
//	row, _ := raw.Select(0, 1)  // Shares storage with raw
type RawTensor = tensor.RawTensor

// Storage is the flat reference-counted buffer behind one or more views.
type Storage = tensor.Storage

// NewRaw creates a zeroed contiguous row-major tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// NewStorage allocates a zeroed buffer of length elements.
func NewStorage(dtype DataType, length int) *Storage {
	return tensor.NewStorage(dtype, length)
}

// NewView creates a view over storage with an explicit offset and strides.
// Returns ErrOutOfBounds if any element would fall outside storage.
func NewView(storage *Storage, offset int, shape Shape, stride []int) (*RawTensor, error) {
	return tensor.NewView(storage, offset, shape, stride)
}

// FromSlice creates a contiguous tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromBytes creates a contiguous tensor from packed row-major element bytes.
func FromBytes(data []byte, shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.FromBytes(data, shape, dtype)
}

// At reads the element at idx.
func At[T DType](r *RawTensor, idx ...int) T {
	return tensor.At[T](r, idx...)
}

// SetAt writes v to the element at idx.
func SetAt[T DType](r *RawTensor, v T, idx ...int) {
	tensor.SetAt(r, v, idx...)
}

// Values copies the logical elements of r out in row-major order.
func Values[T DType](r *RawTensor) []T {
	return tensor.Values[T](r)
}
