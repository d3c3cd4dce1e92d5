package archive

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/parc/endian"
	"github.com/arloliu/parc/errs"
	"github.com/arloliu/parc/format"
	"github.com/arloliu/parc/internal/pool"
	"github.com/arloliu/parc/pio"
	"github.com/arloliu/parc/section"
)

// Encoder serializes a document tree into the canonical binary layout.
//
// The layout is produced in two phases. Phase 1 walks the tree depth-first
// and emits a skeleton record for every node into one of three
// independently growing section buffers (lists, objects, parameters),
// backpatching each parent's relative offset fields once the positions of
// its children are known. Phase 2 walks the collected parameter slots and
// writes their values into the trailing data area: non-string values
// first, then all string values, which is what yields the header's
// separate data-section and string-section sizes.
//
// Record offsets are backpatched by byte position inside the section
// buffers; no seeking on the output is needed. The produced layout is
// canonical: decoding it yields a tree content-equal to the input, but
// byte-for-byte identity with a foreign original is not guaranteed.
type Encoder struct {
	engine endian.EndianEngine

	listBuf  *pool.ByteBuffer
	objBuf   *pool.ByteBuffer
	paramBuf *pool.ByteBuffer
	dataBuf  *pool.ByteBuffer

	listsSize  int
	objsSize   int
	paramsSize int

	slots []paramSlot
}

// paramSlot remembers where a parameter's record was emitted so its
// 3-byte data offset can be backpatched in phase 2.
type paramSlot struct {
	pos   int // byte position of the record inside the parameter section
	param pio.Parameter
}

// Encode serializes doc into a new byte slice.
func Encode(doc *pio.ParameterIO) ([]byte, error) {
	e := &Encoder{
		engine:   endian.GetLittleEndianEngine(),
		listBuf:  pool.GetSectionBuffer(),
		objBuf:   pool.GetSectionBuffer(),
		paramBuf: pool.GetSectionBuffer(),
		dataBuf:  pool.GetSectionBuffer(),
	}
	defer e.release()

	return e.encode(doc)
}

// EncodeTo serializes doc and writes the result to w.
func EncodeTo(doc *pio.ParameterIO, w io.Writer) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func (e *Encoder) release() {
	pool.PutSectionBuffer(e.listBuf)
	pool.PutSectionBuffer(e.objBuf)
	pool.PutSectionBuffer(e.paramBuf)
	pool.PutSectionBuffer(e.dataBuf)
}

func (e *Encoder) encode(doc *pio.ParameterIO) ([]byte, error) {
	totalLists := countLists(&doc.Root) + 1 // +1 for the synthetic root
	totalObjs := countObjects(&doc.Root)
	totalParams := countParams(&doc.Root)

	e.listsSize = totalLists * section.ListRecordSize
	e.objsSize = totalObjs * section.ObjectRecordSize
	e.paramsSize = totalParams * section.ParamRecordSize

	// Phase 1: skeleton records. A synthetic root list wraps the
	// document's top-level contents; its child arrays start right after
	// its own record.
	rootObjsOffset := e.listsSize / section.WordSize
	if rootObjsOffset > section.MaxOffset16 {
		return nil, fmt.Errorf("%w: list section spans 0x%x words", errs.ErrOffsetOverflow, rootObjsOffset)
	}

	if err := checkChildCounts(&doc.Root); err != nil {
		return nil, err
	}

	rootRec := section.ListRecord{
		Key:           pio.RootKey,
		ListsOffset:   section.ListRecordSize / section.WordSize,
		NumLists:      uint16(doc.Root.Lists.Len()),
		ObjectsOffset: uint16(rootObjsOffset),
		NumObjects:    uint16(doc.Root.Objects.Len()),
	}

	e.listBuf.B = rootRec.AppendTo(e.listBuf.B)
	if err := e.writeListContents(0, &doc.Root); err != nil {
		return nil, err
	}

	// Phase 2: values. Non-string values populate the data area first;
	// strings are appended afterwards into the same growing area.
	for i := range e.slots {
		if e.slots[i].param.Type().IsString() {
			continue
		}
		if err := e.writeValue(&e.slots[i]); err != nil {
			return nil, err
		}
	}

	dataSize := e.dataBuf.Len()

	for i := range e.slots {
		if !e.slots[i].param.Type().IsString() {
			continue
		}
		if err := e.writeStringValue(&e.slots[i]); err != nil {
			return nil, err
		}
	}

	stringSize := e.dataBuf.Len() - dataSize

	typeBytes := append([]byte(doc.Type), 0)
	for len(typeBytes)%section.WordSize != 0 {
		typeBytes = append(typeBytes, 0)
	}

	header := section.Header{
		Version:    section.StructuralVersion,
		Flags:      section.FlagLittleEndian | section.FlagUTF8,
		FileSize:   uint32(section.HeaderSize + len(typeBytes) + e.listsSize + e.objsSize + e.paramsSize + e.dataBuf.Len()),
		PioVersion: doc.Version,
		PioOffset:  uint32(len(typeBytes)),
		NumLists:   uint32(totalLists),
		NumObjects: uint32(totalObjs),
		NumParams:  uint32(totalParams),
		DataSize:   uint32(dataSize),
		StringSize: uint32(stringSize),
		// Trailing size field of unidentified purpose; the engine's own
		// tools write 1.
		UnknownSize: 1,
	}

	out := make([]byte, 0, int(header.FileSize)+1)
	out = append(out, header.Bytes()...)
	out = append(out, typeBytes...)
	out = append(out, e.listBuf.B...)
	out = append(out, e.objBuf.B...)
	out = append(out, e.paramBuf.B...)
	out = append(out, e.dataBuf.B...)
	out = append(out, 0)

	return out, nil
}

// writeListContents emits the object and child-list records of the list
// whose own record sits at listPos inside the list section, backpatching
// that record's offset fields.
func (e *Encoder) writeListContents(listPos int, list *pio.List) error {
	childStart := e.listBuf.Len()

	if list.Objects.Len() > 0 {
		// This list's objects begin at the current end of the object
		// section, which follows the complete list section in the file.
		off := (e.objBuf.Len() + e.listsSize - listPos) / section.WordSize
		if err := e.patchListOffset(listPos+8, off); err != nil {
			return err
		}

		for i := 0; i < list.Objects.Len(); i++ {
			key, obj := list.Objects.At(i)

			// Word distance from this object record to its parameter
			// array: the rest of the object section plus the current
			// growth of the parameter section.
			paramsOff := ((e.objsSize - e.objBuf.Len()) + e.paramBuf.Len()) / section.WordSize
			if paramsOff > section.MaxOffset16 {
				return fmt.Errorf("%w: object 0x%08x parameter array at 0x%x words", errs.ErrOffsetOverflow, key, paramsOff)
			}

			rec := section.ObjectRecord{
				Key:          key,
				ParamsOffset: uint16(paramsOff),
				NumParams:    uint16(obj.Params.Len()),
			}
			e.objBuf.B = rec.AppendTo(e.objBuf.B)

			for j := 0; j < obj.Params.Len(); j++ {
				pkey, param := obj.Params.At(j)
				e.slots = append(e.slots, paramSlot{pos: e.paramBuf.Len(), param: param})

				prec := section.ParamRecord{Key: pkey, DataOffset: 0, Type: param.Type()}
				e.paramBuf.B = prec.AppendTo(e.paramBuf.B)
			}
		}
	}

	if list.Lists.Len() > 0 {
		off := (childStart - listPos) / section.WordSize
		if err := e.patchListOffset(listPos+4, off); err != nil {
			return err
		}

		// Emit all sibling records first so their positions are fixed,
		// then recurse; the offsets of a sibling's own children are
		// patched during its recursion.
		childPos := make([]int, list.Lists.Len())
		for i := 0; i < list.Lists.Len(); i++ {
			key, child := list.Lists.At(i)
			childPos[i] = e.listBuf.Len()

			rec := section.ListRecord{
				Key:        key,
				NumLists:   uint16(child.Lists.Len()),
				NumObjects: uint16(child.Objects.Len()),
			}
			e.listBuf.B = rec.AppendTo(e.listBuf.B)
		}

		for i := 0; i < list.Lists.Len(); i++ {
			child := list.Lists.ValueAt(i)
			if err := e.writeListContents(childPos[i], child); err != nil {
				return err
			}
		}
	}

	return nil
}

// patchListOffset rewrites a 16-bit word-offset field of a list record
// already emitted into the list section.
func (e *Encoder) patchListOffset(fieldPos, wordOffset int) error {
	if wordOffset > section.MaxOffset16 {
		return fmt.Errorf("%w: word offset 0x%x exceeds 16 bits", errs.ErrOffsetOverflow, wordOffset)
	}

	e.engine.PutUint16(e.listBuf.B[fieldPos:], uint16(wordOffset))

	return nil
}

// writeValue writes a non-string value into the data area and backpatches
// the parameter record's data offset. Buffer values are preceded by their
// element count and the patched offset skips past that extra word.
func (e *Encoder) writeValue(slot *paramSlot) error {
	param := &slot.param

	pad := 0
	if param.Type().IsBuffer() {
		pad = section.WordSize
	}

	byteOff := e.dataBuf.Len() + pad + (e.paramsSize - slot.pos)
	if err := section.PatchDataOffset(e.paramBuf.B, slot.pos, uint32(byteOff/section.WordSize)); err != nil {
		return err
	}

	switch param.Type() {
	case format.TypeBool:
		v := uint32(0)
		if param.Bool() {
			v = 1
		}
		e.appendU32(v)

	case format.TypeF32:
		e.appendF32(param.F32())

	case format.TypeInt:
		e.appendU32(uint32(param.Int()))

	case format.TypeU32:
		e.appendU32(param.U32())

	case format.TypeVec2, format.TypeVec3, format.TypeVec4, format.TypeColor, format.TypeQuat:
		for _, f := range param.Vec() {
			e.appendF32(f)
		}

	case format.TypeCurve1, format.TypeCurve2, format.TypeCurve3, format.TypeCurve4:
		for _, c := range param.Curves() {
			e.appendU32(c.A)
			e.appendU32(c.B)
			for _, f := range c.Floats {
				e.appendF32(f)
			}
		}

	case format.TypeBufferInt:
		buf := param.IntBuffer()
		if err := e.appendBufferCount(len(buf)); err != nil {
			return err
		}
		for _, v := range buf {
			e.appendU32(uint32(v))
		}

	case format.TypeBufferF32:
		buf := param.F32Buffer()
		if err := e.appendBufferCount(len(buf)); err != nil {
			return err
		}
		for _, v := range buf {
			e.appendF32(v)
		}

	case format.TypeBufferU32:
		buf := param.U32Buffer()
		if err := e.appendBufferCount(len(buf)); err != nil {
			return err
		}
		for _, v := range buf {
			e.appendU32(v)
		}

	case format.TypeBufferBinary:
		buf := param.Binary()
		if err := e.appendBufferCount(len(buf)); err != nil {
			return err
		}
		e.dataBuf.B = append(e.dataBuf.B, buf...)

	default:
		return fmt.Errorf("%w: %s in data pass", errs.ErrMalformedRecord, param.Type())
	}

	e.dataBuf.AlignTo(section.WordSize)

	return nil
}

// writeStringValue appends one null-terminated string value to the string
// area and backpatches the parameter record's data offset.
func (e *Encoder) writeStringValue(slot *paramSlot) error {
	byteOff := e.dataBuf.Len() + (e.paramsSize - slot.pos)
	if err := section.PatchDataOffset(e.paramBuf.B, slot.pos, uint32(byteOff/section.WordSize)); err != nil {
		return err
	}

	e.dataBuf.B = append(e.dataBuf.B, slot.param.Str()...)
	e.dataBuf.B = append(e.dataBuf.B, 0)
	e.dataBuf.AlignTo(section.WordSize)

	return nil
}

func (e *Encoder) appendU32(v uint32) {
	e.dataBuf.B = e.engine.AppendUint32(e.dataBuf.B, v)
}

func (e *Encoder) appendF32(v float32) {
	e.dataBuf.B = e.engine.AppendUint32(e.dataBuf.B, math.Float32bits(v))
}

func (e *Encoder) appendBufferCount(n int) error {
	if int64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: buffer of %d elements", errs.ErrValueTooLarge, n)
	}

	e.appendU32(uint32(n))

	return nil
}

func countLists(list *pio.List) int {
	total := list.Lists.Len()
	for i := 0; i < list.Lists.Len(); i++ {
		total += countLists(list.Lists.ValueAt(i))
	}

	return total
}

func countObjects(list *pio.List) int {
	total := list.Objects.Len()
	for i := 0; i < list.Lists.Len(); i++ {
		total += countObjects(list.Lists.ValueAt(i))
	}

	return total
}

func countParams(list *pio.List) int {
	total := 0
	for i := 0; i < list.Objects.Len(); i++ {
		total += list.Objects.ValueAt(i).Params.Len()
	}
	for i := 0; i < list.Lists.Len(); i++ {
		total += countParams(list.Lists.ValueAt(i))
	}

	return total
}

// checkChildCounts verifies every mapping in the tree fits the 16-bit
// count fields of the structural records.
func checkChildCounts(list *pio.List) error {
	if list.Lists.Len() > section.MaxChildren || list.Objects.Len() > section.MaxChildren {
		return fmt.Errorf("%w: %d lists, %d objects", errs.ErrTooManyChildren, list.Lists.Len(), list.Objects.Len())
	}

	for i := 0; i < list.Objects.Len(); i++ {
		if list.Objects.ValueAt(i).Params.Len() > section.MaxChildren {
			return fmt.Errorf("%w: %d parameters", errs.ErrTooManyChildren, list.Objects.ValueAt(i).Params.Len())
		}
	}

	for i := 0; i < list.Lists.Len(); i++ {
		if err := checkChildCounts(list.Lists.ValueAt(i)); err != nil {
			return err
		}
	}

	return nil
}
