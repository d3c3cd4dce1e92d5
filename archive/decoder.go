// Package archive implements the binary codec of parameter archives: a
// decoder from the offset-based binary form to the pio document model, and
// an encoder producing the canonical binary layout.
package archive

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/parc/endian"
	"github.com/arloliu/parc/errs"
	"github.com/arloliu/parc/format"
	"github.com/arloliu/parc/names"
	"github.com/arloliu/parc/pio"
	"github.com/arloliu/parc/section"
)

// curveRecordSize is the wire size of one curve record:
// two uint32 plus 30 float32.
const curveRecordSize = 8 + pio.CurveFloats*4

// maxListDepth bounds list nesting, so a crafted record whose child
// offset cycles back to an ancestor fails instead of recursing without
// bound.
const maxListDepth = 512

// Decoder decodes one binary archive into a document tree.
//
// Decoding needs random access: record offsets point backwards and
// forwards across sections, so the whole input is held in memory. Every
// string value decoded is added to the name table, since its hash is then
// known with certainty; this is the primary source of exact-name recovery.
//
// A Decoder is single-use and not safe for concurrent use; the shared
// name table is.
type Decoder struct {
	data   []byte
	engine endian.EndianEngine
	table  *names.Table
}

// NewDecoder creates a decoder over data. A nil table selects the shared
// stock table.
func NewDecoder(data []byte, table *names.Table) *Decoder {
	if table == nil {
		table = names.Default()
	}

	return &Decoder{
		data:   data,
		engine: endian.GetLittleEndianEngine(),
		table:  table,
	}
}

// Decode decodes data into a document tree. On any error no partial tree
// is returned.
func Decode(data []byte, table *names.Table) (*pio.ParameterIO, error) {
	return NewDecoder(data, table).Decode()
}

// DecodeFrom buffers the full contents of r and decodes them. The format
// cannot be decoded as a forward-only stream, so the reader is drained
// first.
func DecodeFrom(r io.Reader, table *names.Table) (*pio.ParameterIO, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}

	return Decode(data, table)
}

// Decode runs the decode. It may be called once.
func (d *Decoder) Decode() (*pio.ParameterIO, error) {
	header, err := section.ParseHeader(d.data)
	if err != nil {
		return nil, err
	}

	if int64(header.FileSize) > int64(len(d.data)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d", errs.ErrTruncated, header.FileSize, len(d.data))
	}

	pioType, err := d.readString(section.HeaderSize)
	if err != nil {
		return nil, err
	}

	rootPos := section.HeaderSize + int(header.PioOffset)
	rootRec, err := section.ParseListRecord(d.data, rootPos)
	if err != nil {
		return nil, err
	}

	root, err := d.decodeList(rootRec, rootPos, 0)
	if err != nil {
		return nil, err
	}

	return &pio.ParameterIO{
		Version: header.PioVersion,
		Type:    pioType,
		Root:    root,
	}, nil
}

func (d *Decoder) decodeList(rec section.ListRecord, pos int, depth int) (pio.List, error) {
	if depth > maxListDepth {
		return pio.List{}, fmt.Errorf("%w: list nesting exceeds %d at 0x%x", errs.ErrMalformedRecord, maxListDepth, pos)
	}

	var list pio.List

	for i := 0; i < int(rec.NumLists); i++ {
		childPos := pos + int(rec.ListsOffset)*section.WordSize + i*section.ListRecordSize

		childRec, err := section.ParseListRecord(d.data, childPos)
		if err != nil {
			return pio.List{}, err
		}

		child, err := d.decodeList(childRec, childPos, depth+1)
		if err != nil {
			return pio.List{}, err
		}

		list.Lists.Set(childRec.Key, child)
	}

	for i := 0; i < int(rec.NumObjects); i++ {
		objPos := pos + int(rec.ObjectsOffset)*section.WordSize + i*section.ObjectRecordSize

		objRec, err := section.ParseObjectRecord(d.data, objPos)
		if err != nil {
			return pio.List{}, err
		}

		obj, err := d.decodeObject(objRec, objPos)
		if err != nil {
			return pio.List{}, err
		}

		list.Objects.Set(objRec.Key, obj)
	}

	return list, nil
}

func (d *Decoder) decodeObject(rec section.ObjectRecord, pos int) (pio.Object, error) {
	var obj pio.Object

	for i := 0; i < int(rec.NumParams); i++ {
		paramPos := pos + int(rec.ParamsOffset)*section.WordSize + i*section.ParamRecordSize

		paramRec, err := section.ParseParamRecord(d.data, paramPos)
		if err != nil {
			return pio.Object{}, err
		}

		param, err := d.decodeParam(paramRec, paramPos)
		if err != nil {
			return pio.Object{}, err
		}

		obj.Params.Set(paramRec.Key, param)
	}

	return obj, nil
}

func (d *Decoder) decodeParam(rec section.ParamRecord, pos int) (pio.Parameter, error) {
	valPos := pos + int(rec.DataOffset)*section.WordSize

	switch rec.Type {
	case format.TypeBool:
		v, err := d.u32At(valPos)
		if err != nil {
			return pio.Parameter{}, err
		}

		return pio.NewBool(v != 0), nil

	case format.TypeF32:
		v, err := d.f32At(valPos)
		if err != nil {
			return pio.Parameter{}, err
		}

		return pio.NewF32(v), nil

	case format.TypeInt:
		v, err := d.u32At(valPos)
		if err != nil {
			return pio.Parameter{}, err
		}

		return pio.NewInt(int32(v)), nil

	case format.TypeU32:
		v, err := d.u32At(valPos)
		if err != nil {
			return pio.Parameter{}, err
		}

		return pio.NewU32(v), nil

	case format.TypeVec2, format.TypeVec3, format.TypeVec4, format.TypeColor, format.TypeQuat:
		return d.decodeVec(rec.Type, valPos)

	case format.TypeString32, format.TypeString64, format.TypeString256, format.TypeStringRef:
		s, err := d.readString(valPos)
		if err != nil {
			return pio.Parameter{}, err
		}
		d.table.Add(s)

		return pio.NewString(rec.Type, s), nil

	case format.TypeCurve1, format.TypeCurve2, format.TypeCurve3, format.TypeCurve4:
		return d.decodeCurves(int(rec.Type-format.TypeCurve1)+1, valPos)

	case format.TypeBufferInt, format.TypeBufferF32, format.TypeBufferU32, format.TypeBufferBinary:
		return d.decodeBuffer(rec.Type, valPos)

	default:
		return pio.Parameter{}, fmt.Errorf("%w: %d", errs.ErrUnknownType, uint8(rec.Type))
	}
}

func (d *Decoder) decodeVec(typ format.Type, pos int) (pio.Parameter, error) {
	n := 4
	if typ == format.TypeVec2 {
		n = 2
	} else if typ == format.TypeVec3 {
		n = 3
	}

	var v [4]float32
	for i := 0; i < n; i++ {
		f, err := d.f32At(pos + i*4)
		if err != nil {
			return pio.Parameter{}, err
		}
		v[i] = f
	}

	switch typ {
	case format.TypeVec2:
		return pio.NewVec2(v[0], v[1]), nil
	case format.TypeVec3:
		return pio.NewVec3(v[0], v[1], v[2]), nil
	case format.TypeVec4:
		return pio.NewVec4(v[0], v[1], v[2], v[3]), nil
	case format.TypeColor:
		return pio.NewColor(v[0], v[1], v[2], v[3]), nil
	default:
		return pio.NewQuat(v[0], v[1], v[2], v[3]), nil
	}
}

func (d *Decoder) decodeCurves(count, pos int) (pio.Parameter, error) {
	curves := make([]pio.Curve, count)
	for i := range curves {
		base := pos + i*curveRecordSize

		a, err := d.u32At(base)
		if err != nil {
			return pio.Parameter{}, err
		}

		b, err := d.u32At(base + 4)
		if err != nil {
			return pio.Parameter{}, err
		}

		curves[i].A = a
		curves[i].B = b
		for j := 0; j < pio.CurveFloats; j++ {
			f, err := d.f32At(base + 8 + j*4)
			if err != nil {
				return pio.Parameter{}, err
			}
			curves[i].Floats[j] = f
		}
	}

	param, ok := pio.NewCurves(curves)
	if !ok {
		return pio.Parameter{}, fmt.Errorf("%w: %d curve records", errs.ErrMalformedRecord, count)
	}

	return param, nil
}

// decodeBuffer decodes one of the four length-prefixed buffer kinds. The
// record's offset points at the first element; the 32-bit element count
// sits in the 4 bytes before it.
func (d *Decoder) decodeBuffer(typ format.Type, pos int) (pio.Parameter, error) {
	count, err := d.u32At(pos - 4)
	if err != nil {
		return pio.Parameter{}, err
	}

	elemSize := 4
	if typ == format.TypeBufferBinary {
		elemSize = 1
	}

	end := int64(pos) + int64(count)*int64(elemSize)
	if end > int64(len(d.data)) {
		return pio.Parameter{}, fmt.Errorf("%w: buffer of %d elements at 0x%x", errs.ErrTruncated, count, pos)
	}

	switch typ {
	case format.TypeBufferInt:
		buf := make([]int32, count)
		for i := range buf {
			buf[i] = int32(d.engine.Uint32(d.data[pos+i*4:]))
		}

		return pio.NewBufferInt(buf), nil

	case format.TypeBufferF32:
		buf := make([]float32, count)
		for i := range buf {
			buf[i] = math.Float32frombits(d.engine.Uint32(d.data[pos+i*4:]))
		}

		return pio.NewBufferF32(buf), nil

	case format.TypeBufferU32:
		buf := make([]uint32, count)
		for i := range buf {
			buf[i] = d.engine.Uint32(d.data[pos+i*4:])
		}

		return pio.NewBufferU32(buf), nil

	default:
		buf := make([]byte, count)
		copy(buf, d.data[pos:end])

		return pio.NewBufferBinary(buf), nil
	}
}

func (d *Decoder) u32At(pos int) (uint32, error) {
	if pos < 0 || pos+4 > len(d.data) {
		return 0, fmt.Errorf("%w: u32 at 0x%x", errs.ErrTruncated, pos)
	}

	return d.engine.Uint32(d.data[pos:]), nil
}

func (d *Decoder) f32At(pos int) (float32, error) {
	v, err := d.u32At(pos)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// readString reads the null-terminated string starting at pos.
func (d *Decoder) readString(pos int) (string, error) {
	if pos < 0 || pos >= len(d.data) {
		return "", fmt.Errorf("%w: string at 0x%x", errs.ErrTruncated, pos)
	}

	for end := pos; end < len(d.data); end++ {
		if d.data[end] == 0 {
			return string(d.data[pos:end]), nil
		}
	}

	return "", fmt.Errorf("%w: string at 0x%x", errs.ErrStringNotTerminated, pos)
}
