package serialization

import (
	"crypto/sha256"

	"github.com/pkg/errors"
)

// dataChecksum is the digest stored at ChecksumOffset for a data section.
func dataChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// verifyData checks a data section against the digest read from the header.
func verifyData(data []byte, stored [ChecksumSize]byte) error {
	if got := dataChecksum(data); got != stored {
		return errors.Wrapf(ErrChecksumMismatch, "header %x..., data %x...", stored[:4], got[:4])
	}
	return nil
}
