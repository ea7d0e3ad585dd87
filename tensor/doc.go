// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the strided tensor views filled and sampled by the
// random package.
//
// # Overview
//
// A RawTensor is a view over a shared, reference-counted Storage: a shape,
// one stride per dimension and a storage offset. The element at multi-index
// (i0, ..., ik) lives at offset + Σ ij*stride[j]. Views may be transposed,
// narrowed, reversed or overlapping; every reachable address is checked
// against the storage when the view is built.
//
// # Basic Usage
//
//	import "github.com/born-ml/randtensor/tensor"
//
//	func main() {
//	    probs, _ := tensor.FromSlice([]float64{0.2, 0.3, 0.5, 1, 1, 0}, tensor.Shape{2, 3})
//	    cols := probs.Transpose(0, 1)  // Shares storage with probs
//	    defer cols.Release()
//
//	    v := tensor.At[float64](cols, 2, 0)  // 0.5
//	}
//
// # Supported Data Types
//
//   - uint8
//   - int8, int16, int32, int64
//   - float32, float64
//
// # Memory Management
//
// Every view holds one reference on its Storage. Clone, Transpose, Narrow,
// Select and View take a new reference; Release drops it. The buffer is
// freed with its last reference.
package tensor
