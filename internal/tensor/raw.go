package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// RawTensor is a strided view over a shared Storage.
//
// The element at multi-index (i0, ..., ik) lives at storage address
// offset + Σ ij*stride[j]. Strides may be zero, negative, transposed or
// overlapping; NewView guarantees every reachable address is inside the
// storage.
type RawTensor struct {
	storage *Storage // Shared reference-counted buffer
	shape   Shape    // Tensor dimensions
	stride  []int    // Per-dimension element strides
	offset  int      // Storage offset of element (0, ..., 0)
}

// NewRaw creates a contiguous row-major RawTensor with the given shape and type.
// Memory is allocated and zeroed.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidView, err.Error())
	}

	return &RawTensor{
		storage: NewStorage(dtype, shape.NumElements()),
		shape:   shape.Clone(),
		stride:  shape.ComputeStrides(),
		offset:  0,
	}, nil
}

// FromSlice creates a contiguous tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, errors.Wrapf(ErrDataMismatch, "shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, TypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(Data[T](raw.storage), data)
	return raw, nil
}

// FromBytes creates a contiguous tensor from packed row-major element bytes
// in host byte order, as produced by Bytes.
func FromBytes(data []byte, shape Shape, dtype DataType) (*RawTensor, error) {
	if want := shape.NumElements() * dtype.Size(); len(data) != want {
		return nil, errors.Wrapf(ErrDataMismatch, "%s%v requires %d bytes, but got %d",
			dtype, shape, want, len(data))
	}

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	copy(raw.storage.data, data)
	return raw, nil
}

// NewView creates a view over storage with an explicit offset and strides.
// The view takes a reference on storage; call Release when done with it.
func NewView(storage *Storage, offset int, shape Shape, stride []int) (*RawTensor, error) {
	if len(stride) != len(shape) {
		return nil, errors.Wrapf(ErrInvalidView, "%d strides for %d dimensions", len(stride), len(shape))
	}
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidView, err.Error())
	}

	lo, hi := offset, offset
	for d, size := range shape {
		span := (size - 1) * stride[d]
		if span < 0 {
			lo += span
		} else {
			hi += span
		}
	}
	if lo < 0 || hi >= storage.Len() {
		return nil, errors.Wrapf(ErrOutOfBounds, "addresses [%d, %d] with storage length %d",
			lo, hi, storage.Len())
	}

	storage.Retain()
	return &RawTensor{
		storage: storage,
		shape:   shape.Clone(),
		stride:  append([]int(nil), stride...),
		offset:  offset,
	}, nil
}

// View creates another view over the same storage.
func (r *RawTensor) View(offset int, shape Shape, stride []int) (*RawTensor, error) {
	return NewView(r.storage, offset, shape, stride)
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's element strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the storage offset of the first element.
func (r *RawTensor) Offset() int {
	return r.offset
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.storage.dtype
}

// Storage returns the shared backing buffer.
func (r *RawTensor) Storage() *Storage {
	return r.storage
}

// Dim returns the number of dimensions.
func (r *RawTensor) Dim() int {
	return len(r.shape)
}

// Size returns the extent of dimension d.
func (r *RawTensor) Size(d int) int {
	return r.shape[d]
}

// NumElements returns the total number of logical elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// IsContiguous reports whether the view is laid out row-major without gaps.
func (r *RawTensor) IsContiguous() bool {
	expected := 1
	for d := len(r.shape) - 1; d >= 0; d-- {
		if r.shape[d] != 1 && r.stride[d] != expected {
			return false
		}
		expected *= r.shape[d]
	}
	return true
}

// Address returns the storage address of the element at idx.
// Panics if idx has the wrong rank or an index is out of range.
func (r *RawTensor) Address(idx ...int) int {
	if len(idx) != len(r.shape) {
		panic(fmt.Sprintf("index has %d dimensions, tensor has %d", len(idx), len(r.shape)))
	}
	addr := r.offset
	for d, i := range idx {
		if i < 0 || i >= r.shape[d] {
			panic(fmt.Sprintf("index %d out of range for dimension %d of size %d", i, d, r.shape[d]))
		}
		addr += i * r.stride[d]
	}
	return addr
}

// ForEach calls fn with the storage address of every logical element,
// in row-major order. Each logical element is visited exactly once, also
// when several of them alias the same address.
func (r *RawTensor) ForEach(fn func(addr int)) {
	n := r.NumElements()
	idx := make([]int, len(r.shape))
	addr := r.offset
	for k := 0; k < n; k++ {
		fn(addr)
		for d := len(r.shape) - 1; d >= 0; d-- {
			idx[d]++
			addr += r.stride[d]
			if idx[d] < r.shape[d] {
				break
			}
			addr -= idx[d] * r.stride[d]
			idx[d] = 0
		}
	}
}

// At reads the element at idx.
func At[T DType](r *RawTensor, idx ...int) T {
	return Data[T](r.storage)[r.Address(idx...)]
}

// SetAt writes v to the element at idx.
func SetAt[T DType](r *RawTensor, v T, idx ...int) {
	Data[T](r.storage)[r.Address(idx...)] = v
}

// Values copies the logical elements out in row-major order.
func Values[T DType](r *RawTensor) []T {
	data := Data[T](r.storage)
	out := make([]T, 0, r.NumElements())
	r.ForEach(func(addr int) {
		out = append(out, data[addr])
	})
	return out
}

// Float64s copies the logical elements out in row-major order, converted
// to float64 whatever the element kind.
func (r *RawTensor) Float64s() []float64 {
	switch r.DType() {
	case Uint8:
		return widen(Values[uint8](r))
	case Int8:
		return widen(Values[int8](r))
	case Int16:
		return widen(Values[int16](r))
	case Int32:
		return widen(Values[int32](r))
	case Int64:
		return widen(Values[int64](r))
	case Float32:
		return widen(Values[float32](r))
	case Float64:
		return Values[float64](r)
	default:
		panic(fmt.Sprintf("unsupported dtype %s", r.DType()))
	}
}

func widen[T DType](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// Bytes returns the logical elements packed in row-major order, in host byte
// order. The result is a copy even for contiguous tensors.
func (r *RawTensor) Bytes() []byte {
	if r.storage.Released() {
		panic("storage has been released")
	}
	size := r.DType().Size()
	out := make([]byte, 0, r.NumElements()*size)
	r.ForEach(func(addr int) {
		out = append(out, r.storage.data[addr*size:(addr+1)*size]...)
	})
	return out
}

// Transpose returns a view with dimensions d0 and d1 swapped.
func (r *RawTensor) Transpose(d0, d1 int) *RawTensor {
	shape := r.shape.Clone()
	stride := append([]int(nil), r.stride...)
	shape[d0], shape[d1] = shape[d1], shape[d0]
	stride[d0], stride[d1] = stride[d1], stride[d0]

	r.storage.Retain()
	return &RawTensor{storage: r.storage, shape: shape, stride: stride, offset: r.offset}
}

// Narrow returns a view restricted to [start, start+length) along dim.
func (r *RawTensor) Narrow(dim, start, length int) (*RawTensor, error) {
	if dim < 0 || dim >= len(r.shape) {
		return nil, errors.Wrapf(ErrInvalidView, "dimension %d out of range for rank %d", dim, len(r.shape))
	}
	if start < 0 || length <= 0 || start+length > r.shape[dim] {
		return nil, errors.Wrapf(ErrInvalidView, "range [%d, %d) out of bounds for size %d",
			start, start+length, r.shape[dim])
	}

	shape := r.shape.Clone()
	shape[dim] = length
	return NewView(r.storage, r.offset+start*r.stride[dim], shape, r.stride)
}

// Select returns the slice at index along dim, with that dimension removed.
func (r *RawTensor) Select(dim, index int) (*RawTensor, error) {
	if dim < 0 || dim >= len(r.shape) {
		return nil, errors.Wrapf(ErrInvalidView, "dimension %d out of range for rank %d", dim, len(r.shape))
	}
	if index < 0 || index >= r.shape[dim] {
		return nil, errors.Wrapf(ErrInvalidView, "index %d out of bounds for size %d", index, r.shape[dim])
	}

	shape := make(Shape, 0, len(r.shape)-1)
	stride := make([]int, 0, len(r.shape)-1)
	for d := range r.shape {
		if d != dim {
			shape = append(shape, r.shape[d])
			stride = append(stride, r.stride[d])
		}
	}
	return NewView(r.storage, r.offset+index*r.stride[dim], shape, stride)
}

// Clone creates a view sharing the buffer (increments the reference count).
func (r *RawTensor) Clone() *RawTensor {
	r.storage.Retain()
	return &RawTensor{
		storage: r.storage,
		shape:   r.shape.Clone(),
		stride:  append([]int(nil), r.stride...),
		offset:  r.offset,
	}
}

// Release drops this view's reference on the shared buffer.
func (r *RawTensor) Release() {
	r.storage.Release()
}

// IsUnique returns true if this view is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.storage.IsUnique()
}

// String returns a short description of the view.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor(%s, shape=%v, stride=%v, offset=%d)", r.DType(), r.shape, r.stride, r.offset)
}
