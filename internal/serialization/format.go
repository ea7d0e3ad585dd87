package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "RTNS"
	FormatVersion   = 1
	HeaderAlignment = 64   // Tensor data starts on a 64-byte boundary
	FixedHeaderSize = 64   // Bytes before the JSON header
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // Checksum position in the fixed header
)

// Flags for the .rts format.
const (
	FlagHasMetadata uint32 = 1 << 0
)

// Header represents the JSON header in a .rts file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	Version       string            `json:"version"` // Version of randtensor that wrote the file
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata"`
}

// TensorMeta describes a tensor in the .rts file.
type TensorMeta struct {
	Name   string `json:"name"`   // e.g. "rng_state"
	DType  string `json:"dtype"`  // e.g. "int64"
	Shape  []int  `json:"shape"`  // Logical shape
	Offset int64  `json:"offset"` // Bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}

func alignedDataOffset(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	return pos + (HeaderAlignment-pos%HeaderAlignment)%HeaderAlignment
}
