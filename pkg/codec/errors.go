package codec

import "fmt"

// ErrorKind classifies a violation of the PXLD v3 container format.
type ErrorKind int

const (
	KindBadMagic ErrorKind = iota
	KindUnsupportedVersion
	KindStructuralMismatch
	KindChecksumMismatch
	KindTruncatedFile
	KindSizeMismatch
	KindOutOfRange
	KindIndexCorruption
	KindSlaveRangeOverflow
	KindUnknownSlave
	KindDuplicateSlaveID
	KindMisalignedSlaveData
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadMagic:
		return "bad magic"
	case KindUnsupportedVersion:
		return "unsupported version"
	case KindStructuralMismatch:
		return "structural mismatch"
	case KindChecksumMismatch:
		return "checksum mismatch"
	case KindTruncatedFile:
		return "truncated file"
	case KindSizeMismatch:
		return "size mismatch"
	case KindOutOfRange:
		return "out of range"
	case KindIndexCorruption:
		return "index corruption"
	case KindSlaveRangeOverflow:
		return "slave range overflow"
	case KindUnknownSlave:
		return "unknown slave"
	case KindDuplicateSlaveID:
		return "duplicate slave id"
	case KindMisalignedSlaveData:
		return "misaligned slave data"
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// FormatError reports where and how a file violates the container format.
// Nothing is silently corrected: every violation surfaces as one of these so
// malformed pixel data never reaches hardware.
type FormatError struct {
	Kind   ErrorKind
	Offset int64 // byte offset of the violation, -1 when not applicable
	Msg    string
}

func (e *FormatError) Error() string {
	s := "pxld: " + e.Kind.String()
	if e.Offset >= 0 {
		s += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// Is matches on Kind so errors.Is(err, ErrChecksumMismatch) works against the
// package sentinels regardless of offset and message.
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrBadMagic            = &FormatError{Kind: KindBadMagic, Offset: -1}
	ErrUnsupportedVersion  = &FormatError{Kind: KindUnsupportedVersion, Offset: -1}
	ErrStructuralMismatch  = &FormatError{Kind: KindStructuralMismatch, Offset: -1}
	ErrChecksumMismatch    = &FormatError{Kind: KindChecksumMismatch, Offset: -1}
	ErrTruncatedFile       = &FormatError{Kind: KindTruncatedFile, Offset: -1}
	ErrSizeMismatch        = &FormatError{Kind: KindSizeMismatch, Offset: -1}
	ErrOutOfRange          = &FormatError{Kind: KindOutOfRange, Offset: -1}
	ErrIndexCorruption     = &FormatError{Kind: KindIndexCorruption, Offset: -1}
	ErrSlaveRangeOverflow  = &FormatError{Kind: KindSlaveRangeOverflow, Offset: -1}
	ErrUnknownSlave        = &FormatError{Kind: KindUnknownSlave, Offset: -1}
	ErrDuplicateSlaveID    = &FormatError{Kind: KindDuplicateSlaveID, Offset: -1}
	ErrMisalignedSlaveData = &FormatError{Kind: KindMisalignedSlaveData, Offset: -1}
)

func formatErr(kind ErrorKind, offset int64, format string, args ...any) *FormatError {
	return &FormatError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
