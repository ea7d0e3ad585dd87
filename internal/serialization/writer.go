package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/randtensor/internal/tensor"
)

const writerVersion = "0.1.0"

// Write encodes tensors in .rts format. Tensors are stored in name order,
// packed row-major regardless of their layout.
func Write(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > MaxTensorCount {
		return invalid(KindTooManyTensors, "", "got %d, max %d", len(names), MaxTensorCount)
	}

	header := Header{
		FormatVersion: FormatVersion,
		Version:       writerVersion,
		CreatedAt:     time.Now().UTC(),
		Tensors:       make([]TensorMeta, 0, len(names)),
		Metadata:      metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	var data bytes.Buffer
	for _, name := range names {
		raw := tensors[name]
		packed := raw.Bytes()
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  raw.DType().String(),
			Shape:  []int(raw.Shape()),
			Offset: int64(data.Len()),
			Size:   int64(len(packed)),
		})
		data.Write(packed)
	}

	if err := writeSections(w, header, data.Bytes()); err != nil {
		return err
	}
	klog.V(2).Infof("serialization: wrote %d tensors (%d data bytes)", len(names), data.Len())
	return nil
}

// writeSections lays out the fixed header, the JSON header, the alignment
// padding and the data section. header.Tensors must describe data.
func writeSections(w io.Writer, header Header, data []byte) error {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}
	if len(data) > MaxDataSize {
		return invalid(KindDataTooLarge, "", "%d data bytes, max %d", len(data), MaxDataSize)
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	checksum := dataChecksum(data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	padding := alignedDataOffset(int64(len(headerJSON))) - int64(FixedHeaderSize+len(headerJSON))

	for _, chunk := range [][]byte{fixed, headerJSON, make([]byte, padding), data} {
		if _, err := w.Write(chunk); err != nil {
			return errors.Wrap(err, "failed to write tensor file")
		}
	}
	return nil
}

// WriteFile writes tensors to path in .rts format, replacing any existing file.
func WriteFile(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	//nolint:gosec // G304: caller-supplied path
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := Write(file, tensors, metadata); err != nil {
		_ = file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "failed to close file")
}
