package pxfile

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/luxgrid/pxld/pkg/codec"
)

// ComputeChecksum streams bytes [27, size) of src through a CRC-32 (IEEE).
// The range starts at the checksum-type byte and runs to end of file; the
// stored checksum field at [23, 27) sits before it and is never covered, so
// the computation can run before or after the field is patched in.
func ComputeChecksum(src io.ReaderAt, size int64) (uint32, error) {
	if size < codec.ChecksumRangeStart {
		return 0, &codec.FormatError{
			Kind:   codec.KindTruncatedFile,
			Offset: size,
			Msg:    fmt.Sprintf("file of %d bytes is shorter than the checksummed region start", size),
		}
	}

	section := io.NewSectionReader(src, codec.ChecksumRangeStart, size-codec.ChecksumRangeStart)
	crc := crc32.NewIEEE()
	if _, err := io.Copy(crc, section); err != nil {
		return 0, fmt.Errorf("checksum pass: %w", err)
	}
	return crc.Sum32(), nil
}

// VerifyChecksum compares the header's stored checksum against the file
// contents. With checksum_type 0 there is nothing to check and verification
// succeeds. A mismatch is fatal for the whole file: frame boundaries cannot
// be trusted, so no index may be built and no frame decoded.
func VerifyChecksum(src io.ReaderAt, size int64, header codec.FileHeader) error {
	if header.ChecksumType == codec.ChecksumNone {
		return nil
	}

	sum, err := ComputeChecksum(src, size)
	if err != nil {
		return err
	}
	if sum != header.Checksum {
		return &codec.FormatError{
			Kind:   codec.KindChecksumMismatch,
			Offset: codec.ChecksumFieldOffset,
			Msg:    fmt.Sprintf("stored %#08x, computed %#08x", header.Checksum, sum),
		}
	}
	return nil
}
