package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Storage is a reference-counted flat buffer of elements of one kind.
// Every RawTensor view built on a Storage holds one reference; the memory is
// dropped when the last view releases it.
type Storage struct {
	data     []byte
	dtype    DataType
	length   int
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// NewStorage allocates a zeroed buffer of length elements with refCount = 1.
func NewStorage(dtype DataType, length int) *Storage {
	s := &Storage{
		data:   make([]byte, length*dtype.Size()),
		dtype:  dtype,
		length: length,
	}
	s.refCount.Store(1)
	return s
}

// Len returns the number of elements in the buffer.
func (s *Storage) Len() int {
	return s.length
}

// DType returns the element kind of the buffer.
func (s *Storage) DType() DataType {
	return s.dtype
}

// Retain increments the reference count (for every new view).
func (s *Storage) Retain() {
	s.refCount.Add(1)
}

// Release decrements the reference count and deallocates if it reaches 0.
func (s *Storage) Release() {
	if s.refCount.Add(-1) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.data = nil
	}
}

// RefCount returns the current number of references.
func (s *Storage) RefCount() int {
	return int(s.refCount.Load())
}

// IsUnique returns true if this buffer has only one reference.
func (s *Storage) IsUnique() bool {
	return s.refCount.Load() == 1
}

// Released reports whether the buffer has been deallocated.
func (s *Storage) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data == nil
}

// Data interprets the whole buffer as []T.
// Panics if T does not match the buffer's kind or the buffer was released.
func Data[T DType](s *Storage) []T {
	if want := TypeOf[T](); want != s.dtype {
		panic(fmt.Sprintf("storage dtype is %s, not %s", s.dtype, want))
	}
	if s.data == nil {
		panic("storage has been released")
	}
	if s.length == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounded by length
	return unsafe.Slice((*T)(unsafe.Pointer(&s.data[0])), s.length)
}
