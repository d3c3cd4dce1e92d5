// Package section defines the fixed binary shapes of a parameter archive:
// the file header and the list, object and parameter structural records.
//
// All multi-byte fields are little-endian. Offsets inside records are
// expressed in 4-byte words and are relative to the record's own starting
// address, so parsers must track absolute positions while they traverse.
package section

const (
	// Magic is the 4-byte file magic.
	Magic = "AAMP"

	// HeaderSize is the fixed size of the header region, including the
	// magic bytes.
	HeaderSize = 0x30

	// StructuralVersion is the only structural version this codec accepts.
	StructuralVersion = 2

	// FlagLittleEndian is the header flag bit that must be set; it marks
	// the archive as little-endian.
	FlagLittleEndian = 0x1
	// FlagUTF8 marks string data as UTF-8. The canonical encoder always
	// sets it, matching archives produced by the engine's own tools.
	FlagUTF8 = 0x2

	// WordSize is the offset granularity: all relative offsets are stored
	// in 4-byte words.
	WordSize = 4

	// ListRecordSize is the byte size of one list record.
	ListRecordSize = 12
	// ObjectRecordSize is the byte size of one object record.
	ObjectRecordSize = 8
	// ParamRecordSize is the byte size of one parameter record.
	ParamRecordSize = 8

	// MaxOffset16 is the largest word offset a list or object record can
	// carry.
	MaxOffset16 = 1<<16 - 1
	// MaxOffset24 is the largest word offset a parameter record can carry
	// in its 3-byte data-offset field.
	MaxOffset24 = 1<<24 - 1

	// MaxChildren is the largest child count a record's 16-bit count
	// fields can express.
	MaxChildren = 1<<16 - 1
)
