// Package serialization provides the .rts file format for saving and loading
// named tensors, such as a serialized generator state.
//
//	Format Structure:
//	  [0x00: 4 bytes  Magic "RTNS"]
//	  [0x04: 4 bytes  Version (uint32 LE)]
//	  [0x08: 4 bytes  Flags (uint32 LE)]
//	  [0x0C: 4 bytes  Reserved]
//	  [0x10: 8 bytes  Header size (uint64 LE)]
//	  [0x18: 8 bytes  Data size (uint64 LE)]
//	  [0x20: 32 bytes SHA-256 of the data section]
//	  [0x40: Header JSON]
//	  [Tensor data: packed row-major elements, 64-byte aligned]
//
// Element bytes are written in host byte order.
//
// Example usage:
//
//	state, _ := random.GetRNGState(gen)
//	err := serialization.WriteFile("gen.rts", map[string]*tensor.RawTensor{"rng_state": state}, nil)
//
//	tensors, header, err := serialization.ReadFile("gen.rts")
package serialization
