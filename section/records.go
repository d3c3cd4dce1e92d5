package section

import (
	"fmt"

	"github.com/arloliu/parc/endian"
	"github.com/arloliu/parc/errs"
	"github.com/arloliu/parc/format"
)

// ListRecord is the 12-byte structural record of a list node. Both offsets
// are in words, relative to the record's own starting address.
type ListRecord struct {
	Key           uint32 // name hash
	ListsOffset   uint16 // word offset to the child-list record array
	NumLists      uint16
	ObjectsOffset uint16 // word offset to the child-object record array
	NumObjects    uint16
}

// ParseListRecord parses the list record at absolute position pos.
func ParseListRecord(data []byte, pos int) (ListRecord, error) {
	if pos < 0 || pos+ListRecordSize > len(data) {
		return ListRecord{}, fmt.Errorf("%w: list record at 0x%x", errs.ErrTruncated, pos)
	}

	engine := endian.GetLittleEndianEngine()
	b := data[pos : pos+ListRecordSize]

	return ListRecord{
		Key:           engine.Uint32(b[0:4]),
		ListsOffset:   engine.Uint16(b[4:6]),
		NumLists:      engine.Uint16(b[6:8]),
		ObjectsOffset: engine.Uint16(b[8:10]),
		NumObjects:    engine.Uint16(b[10:12]),
	}, nil
}

// AppendTo appends the serialized record to buf.
func (r ListRecord) AppendTo(buf []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	buf = engine.AppendUint32(buf, r.Key)
	buf = engine.AppendUint16(buf, r.ListsOffset)
	buf = engine.AppendUint16(buf, r.NumLists)
	buf = engine.AppendUint16(buf, r.ObjectsOffset)
	buf = engine.AppendUint16(buf, r.NumObjects)

	return buf
}

// ObjectRecord is the 8-byte structural record of an object node.
type ObjectRecord struct {
	Key          uint32 // name hash
	ParamsOffset uint16 // word offset to the parameter record array
	NumParams    uint16
}

// ParseObjectRecord parses the object record at absolute position pos.
func ParseObjectRecord(data []byte, pos int) (ObjectRecord, error) {
	if pos < 0 || pos+ObjectRecordSize > len(data) {
		return ObjectRecord{}, fmt.Errorf("%w: object record at 0x%x", errs.ErrTruncated, pos)
	}

	engine := endian.GetLittleEndianEngine()
	b := data[pos : pos+ObjectRecordSize]

	return ObjectRecord{
		Key:          engine.Uint32(b[0:4]),
		ParamsOffset: engine.Uint16(b[4:6]),
		NumParams:    engine.Uint16(b[6:8]),
	}, nil
}

// AppendTo appends the serialized record to buf.
func (r ObjectRecord) AppendTo(buf []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	buf = engine.AppendUint32(buf, r.Key)
	buf = engine.AppendUint16(buf, r.ParamsOffset)
	buf = engine.AppendUint16(buf, r.NumParams)

	return buf
}

// ParamRecord is the 8-byte structural record of a leaf parameter. The
// data offset is a 3-byte little-endian word offset relative to the
// record's own starting address, followed by the 1-byte type discriminant.
type ParamRecord struct {
	Key        uint32 // name hash
	DataOffset uint32 // word offset to the value, 24 bits on the wire
	Type       format.Type
}

// ParseParamRecord parses the parameter record at absolute position pos.
// The discriminant is validated here: an unrecognized value is a format
// error.
func ParseParamRecord(data []byte, pos int) (ParamRecord, error) {
	if pos < 0 || pos+ParamRecordSize > len(data) {
		return ParamRecord{}, fmt.Errorf("%w: parameter record at 0x%x", errs.ErrTruncated, pos)
	}

	engine := endian.GetLittleEndianEngine()
	b := data[pos : pos+ParamRecordSize]

	r := ParamRecord{
		Key:        engine.Uint32(b[0:4]),
		DataOffset: uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16,
		Type:       format.Type(b[7]),
	}

	if !r.Type.Valid() {
		return ParamRecord{}, fmt.Errorf("%w: %d for key 0x%08x at 0x%x", errs.ErrUnknownType, uint8(r.Type), r.Key, pos)
	}

	return r, nil
}

// AppendTo appends the serialized record to buf.
func (r ParamRecord) AppendTo(buf []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	buf = engine.AppendUint32(buf, r.Key)
	buf = append(buf, byte(r.DataOffset), byte(r.DataOffset>>8), byte(r.DataOffset>>16))
	buf = append(buf, byte(r.Type))

	return buf
}

// PatchDataOffset rewrites the 3-byte data-offset field of the parameter
// record at position pos inside buf.
func PatchDataOffset(buf []byte, pos int, wordOffset uint32) error {
	if wordOffset > MaxOffset24 {
		return fmt.Errorf("%w: word offset 0x%x exceeds 24 bits", errs.ErrOffsetOverflow, wordOffset)
	}

	buf[pos+4] = byte(wordOffset)
	buf[pos+5] = byte(wordOffset >> 8)
	buf[pos+6] = byte(wordOffset >> 16)

	return nil
}
