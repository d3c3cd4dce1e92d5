package section

import (
	"fmt"

	"github.com/arloliu/parc/endian"
	"github.com/arloliu/parc/errs"
)

// Header is the fixed 0x30-byte region at the start of every archive.
//
// The size and count fields describe the sections that follow and are used
// for validation; traversal itself follows the relative offsets inside the
// structural records.
type Header struct {
	// Version is the structural format version; must equal
	// StructuralVersion.
	Version uint32 // byte offset 4-7
	// Flags carries the endianness and encoding bits; the low bit must be
	// set.
	Flags uint32 // byte offset 8-11
	// FileSize is the total size of the archive in bytes.
	FileSize uint32 // byte offset 12-15
	// PioVersion is the document version. Informational only.
	PioVersion uint32 // byte offset 16-19
	// PioOffset is the byte offset from the end of the header to the root
	// list record, i.e. the aligned length of the type string.
	PioOffset uint32 // byte offset 20-23
	// NumLists is the total number of list records, including the
	// synthetic root.
	NumLists uint32 // byte offset 24-27
	// NumObjects is the total number of object records.
	NumObjects uint32 // byte offset 28-31
	// NumParams is the total number of parameter records.
	NumParams uint32 // byte offset 32-35
	// DataSize is the byte size of the non-string value data area.
	DataSize uint32 // byte offset 36-39
	// StringSize is the byte size of the string value area that follows
	// the data area.
	StringSize uint32 // byte offset 40-43
	// UnknownSize is a trailing size field of unidentified purpose; the
	// engine's own tools write 1.
	UnknownSize uint32 // byte offset 44-47
}

// ParseHeader parses and validates the header region, magic included.
//
// Returns:
//   - Header: the parsed header
//   - error: ErrTruncated, ErrBadMagic, ErrBadVersion or ErrBadFlags
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", errs.ErrTruncated, HeaderSize, len(data))
	}

	if string(data[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: got % x", errs.ErrBadMagic, data[0:4])
	}

	engine := endian.GetLittleEndianEngine()

	h := Header{
		Version:     engine.Uint32(data[4:8]),
		Flags:       engine.Uint32(data[8:12]),
		FileSize:    engine.Uint32(data[12:16]),
		PioVersion:  engine.Uint32(data[16:20]),
		PioOffset:   engine.Uint32(data[20:24]),
		NumLists:    engine.Uint32(data[24:28]),
		NumObjects:  engine.Uint32(data[28:32]),
		NumParams:   engine.Uint32(data[32:36]),
		DataSize:    engine.Uint32(data[36:40]),
		StringSize:  engine.Uint32(data[40:44]),
		UnknownSize: engine.Uint32(data[44:48]),
	}

	if h.Version != StructuralVersion {
		return Header{}, fmt.Errorf("%w: version %d, want %d", errs.ErrBadVersion, h.Version, StructuralVersion)
	}

	if h.Flags&FlagLittleEndian == 0 {
		return Header{}, fmt.Errorf("%w: flags 0x%x missing little-endian bit", errs.ErrBadFlags, h.Flags)
	}

	return h, nil
}

// Bytes serializes the header, magic included, into a fresh HeaderSize
// byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], Magic)
	engine.PutUint32(b[4:8], h.Version)
	engine.PutUint32(b[8:12], h.Flags)
	engine.PutUint32(b[12:16], h.FileSize)
	engine.PutUint32(b[16:20], h.PioVersion)
	engine.PutUint32(b[20:24], h.PioOffset)
	engine.PutUint32(b[24:28], h.NumLists)
	engine.PutUint32(b[28:32], h.NumObjects)
	engine.PutUint32(b[32:36], h.NumParams)
	engine.PutUint32(b[36:40], h.DataSize)
	engine.PutUint32(b[40:44], h.StringSize)
	engine.PutUint32(b[44:48], h.UnknownSize)

	return b
}
