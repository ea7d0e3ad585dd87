package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/randtensor/internal/tensor"
)

// Read decodes a .rts stream, verifying its checksum and tensor table.
// The caller owns the returned tensors and should Release them.
func Read(r io.Reader) (map[string]*tensor.RawTensor, Header, error) {
	var header Header

	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, header, errors.Wrap(err, "failed to read fixed header")
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, header, errors.Wrapf(ErrInvalidMagic, "got %q", fixed[0:4])
	}
	if v := binary.LittleEndian.Uint32(fixed[4:8]); v != FormatVersion {
		return nil, header, errors.Wrapf(ErrUnsupportedVersion, "version %d", v)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, header, ErrHeaderTooLarge
	}
	if dataSize > MaxDataSize {
		return nil, header, invalid(KindDataTooLarge, "", "%d data bytes, max %d", dataSize, MaxDataSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, header, errors.Wrap(err, "failed to read header JSON")
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, header, errors.Wrap(err, "failed to parse header JSON")
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	padding := alignedDataOffset(int64(headerSize)) - int64(FixedHeaderSize) - int64(headerSize)
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, header, errors.Wrap(err, "failed to skip padding")
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, header, errors.Wrap(err, "failed to read tensor data")
	}
	if err := verifyData(data, stored); err != nil {
		return nil, header, err
	}
	//nolint:gosec // G115: dataSize is bounded by MaxDataSize
	if err := ValidateTensorOffsets(header.Tensors, int64(dataSize)); err != nil {
		return nil, header, err
	}

	tensors := make(map[string]*tensor.RawTensor, len(header.Tensors))
	release := func() {
		for _, t := range tensors {
			t.Release()
		}
	}
	for _, meta := range header.Tensors {
		raw, err := decodeTensor(meta, data)
		if err != nil {
			release()
			return nil, header, err
		}
		if _, dup := tensors[meta.Name]; dup {
			raw.Release()
			release()
			return nil, header, invalid(KindDuplicateName, meta.Name, "tensor listed twice")
		}
		tensors[meta.Name] = raw
	}

	klog.V(2).Infof("serialization: read %d tensors (%d data bytes)", len(tensors), dataSize)
	return tensors, header, nil
}

func decodeTensor(meta TensorMeta, data []byte) (*tensor.RawTensor, error) {
	if err := ValidateTensorName(meta.Name); err != nil {
		return nil, err
	}
	dtype, err := tensor.ParseDataType(meta.DType)
	if err != nil {
		return nil, invalid(KindInvalidDType, meta.Name, "%v", err)
	}
	size, ok := byteSize(meta.Shape, dtype.Size())
	if !ok {
		return nil, invalid(KindInvalidShape, meta.Name, "shape %v is empty-sized or too large", meta.Shape)
	}
	if size != meta.Size {
		return nil, invalid(KindSizeMismatch, meta.Name, "%s%v needs %d bytes, table says %d",
			dtype, meta.Shape, size, meta.Size)
	}

	// ValidateTensorOffsets has bounded the range by len(data).
	raw, err := tensor.FromBytes(data[meta.Offset:meta.Offset+meta.Size], tensor.Shape(meta.Shape), dtype)
	if err != nil {
		return nil, errors.Wrapf(err, "tensor %q", meta.Name)
	}
	return raw, nil
}

// ReadFile reads a .rts file from path.
func ReadFile(path string) (map[string]*tensor.RawTensor, Header, error) {
	//nolint:gosec // G304: caller-supplied path
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, errors.Wrap(err, "failed to open file")
	}
	defer func() { _ = file.Close() }()
	return Read(bufio.NewReader(file))
}

// ReadTensor reads the single tensor called name from path.
func ReadTensor(path, name string) (*tensor.RawTensor, error) {
	tensors, _, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, ok := tensors[name]
	for other, t := range tensors {
		if other != name {
			t.Release()
		}
	}
	if !ok {
		return nil, errors.Wrapf(ErrTensorNotFound, "%q in %s", name, path)
	}
	return raw, nil
}
