package pio

import (
	"math"

	"github.com/arloliu/parc/format"
)

// CurveFloats is the number of float values carried by one curve record.
const CurveFloats = 30

// Curve is a single curve record: two unsigned integers followed by a
// fixed block of 30 floats. Curve1 through Curve4 parameters hold one to
// four of these.
type Curve struct {
	A      uint32
	B      uint32
	Floats [CurveFloats]float32
}

// Parameter is a single typed leaf value, one of the 21 variants of the
// parameter archive format.
//
// A Parameter is a tagged union: the discriminant selects which payload
// field is meaningful. Construct values with the New* functions and read
// them back through the typed accessors; an accessor called on the wrong
// variant returns the zero value.
type Parameter struct {
	typ format.Type

	b   bool
	f   float32
	i   int32
	u   uint32
	vec [4]float32

	str    string
	curves []Curve
	ints   []int32
	f32s   []float32
	u32s   []uint32
	raw    []byte
}

// Type returns the variant discriminant.
func (p Parameter) Type() format.Type {
	return p.typ
}

// NewBool creates a Bool parameter.
func NewBool(v bool) Parameter {
	return Parameter{typ: format.TypeBool, b: v}
}

// NewF32 creates an F32 parameter.
func NewF32(v float32) Parameter {
	return Parameter{typ: format.TypeF32, f: v}
}

// NewInt creates an Int parameter.
func NewInt(v int32) Parameter {
	return Parameter{typ: format.TypeInt, i: v}
}

// NewU32 creates a U32 parameter.
func NewU32(v uint32) Parameter {
	return Parameter{typ: format.TypeU32, u: v}
}

// NewVec2 creates a Vec2 parameter.
func NewVec2(x, y float32) Parameter {
	return Parameter{typ: format.TypeVec2, vec: [4]float32{x, y}}
}

// NewVec3 creates a Vec3 parameter.
func NewVec3(x, y, z float32) Parameter {
	return Parameter{typ: format.TypeVec3, vec: [4]float32{x, y, z}}
}

// NewVec4 creates a Vec4 parameter.
func NewVec4(x, y, z, w float32) Parameter {
	return Parameter{typ: format.TypeVec4, vec: [4]float32{x, y, z, w}}
}

// NewColor creates a Color parameter from RGBA components.
func NewColor(r, g, b, a float32) Parameter {
	return Parameter{typ: format.TypeColor, vec: [4]float32{r, g, b, a}}
}

// NewQuat creates a Quat parameter.
func NewQuat(a, b, c, d float32) Parameter {
	return Parameter{typ: format.TypeQuat, vec: [4]float32{a, b, c, d}}
}

// NewString creates a string parameter of the given string kind. The kind
// selects the serialization length class only; the in-memory value is an
// ordinary Go string either way. Passing a non-string kind returns a
// StringRef parameter.
func NewString(kind format.Type, s string) Parameter {
	if !kind.IsString() {
		kind = format.TypeStringRef
	}

	return Parameter{typ: kind, str: s}
}

// NewStringRef creates an unbounded reference-string parameter.
func NewStringRef(s string) Parameter {
	return Parameter{typ: format.TypeStringRef, str: s}
}

// NewCurves creates a Curve1..Curve4 parameter from 1-4 curve records.
// The variant is selected by len(curves); ok is false for any other count.
func NewCurves(curves []Curve) (Parameter, bool) {
	if len(curves) < 1 || len(curves) > 4 {
		return Parameter{}, false
	}

	typ := format.TypeCurve1 + format.Type(len(curves)-1)
	cp := make([]Curve, len(curves))
	copy(cp, curves)

	return Parameter{typ: typ, curves: cp}, true
}

// NewBufferInt creates a BufferInt parameter.
func NewBufferInt(v []int32) Parameter {
	return Parameter{typ: format.TypeBufferInt, ints: v}
}

// NewBufferF32 creates a BufferF32 parameter.
func NewBufferF32(v []float32) Parameter {
	return Parameter{typ: format.TypeBufferF32, f32s: v}
}

// NewBufferU32 creates a BufferU32 parameter.
func NewBufferU32(v []uint32) Parameter {
	return Parameter{typ: format.TypeBufferU32, u32s: v}
}

// NewBufferBinary creates a BufferBinary parameter.
func NewBufferBinary(v []byte) Parameter {
	return Parameter{typ: format.TypeBufferBinary, raw: v}
}

// Bool returns the Bool payload.
func (p Parameter) Bool() bool { return p.b }

// F32 returns the F32 payload.
func (p Parameter) F32() float32 { return p.f }

// Int returns the Int payload.
func (p Parameter) Int() int32 { return p.i }

// U32 returns the U32 payload.
func (p Parameter) U32() uint32 { return p.u }

// Vec returns the float components of a Vec2/Vec3/Vec4/Color/Quat
// parameter. The slice length matches the variant (2, 3 or 4); it is nil
// for other variants.
func (p Parameter) Vec() []float32 {
	switch p.typ {
	case format.TypeVec2:
		return p.vec[:2]
	case format.TypeVec3:
		return p.vec[:3]
	case format.TypeVec4, format.TypeColor, format.TypeQuat:
		return p.vec[:4]
	default:
		return nil
	}
}

// Str returns the payload of any of the four string kinds.
func (p Parameter) Str() string { return p.str }

// Curves returns the curve records of a Curve1..Curve4 parameter.
func (p Parameter) Curves() []Curve { return p.curves }

// IntBuffer returns the BufferInt payload.
func (p Parameter) IntBuffer() []int32 { return p.ints }

// F32Buffer returns the BufferF32 payload.
func (p Parameter) F32Buffer() []float32 { return p.f32s }

// U32Buffer returns the BufferU32 payload.
func (p Parameter) U32Buffer() []uint32 { return p.u32s }

// Binary returns the BufferBinary payload.
func (p Parameter) Binary() []byte { return p.raw }

// Equal reports whether two parameters have the same variant and payload.
// Float comparisons are bitwise so that NaN payloads survive round-trip
// equality checks.
func (p Parameter) Equal(other Parameter) bool {
	if p.typ != other.typ {
		return false
	}

	switch p.typ {
	case format.TypeBool:
		return p.b == other.b
	case format.TypeF32:
		return sameF32(p.f, other.f)
	case format.TypeInt:
		return p.i == other.i
	case format.TypeU32:
		return p.u == other.u
	case format.TypeVec2, format.TypeVec3, format.TypeVec4, format.TypeColor, format.TypeQuat:
		for i := range p.vec {
			if !sameF32(p.vec[i], other.vec[i]) {
				return false
			}
		}

		return true
	case format.TypeString32, format.TypeString64, format.TypeString256, format.TypeStringRef:
		return p.str == other.str
	case format.TypeCurve1, format.TypeCurve2, format.TypeCurve3, format.TypeCurve4:
		if len(p.curves) != len(other.curves) {
			return false
		}
		for i := range p.curves {
			if !p.curves[i].equal(other.curves[i]) {
				return false
			}
		}

		return true
	case format.TypeBufferInt:
		return sliceEqual(p.ints, other.ints, func(a, b int32) bool { return a == b })
	case format.TypeBufferF32:
		return sliceEqual(p.f32s, other.f32s, sameF32)
	case format.TypeBufferU32:
		return sliceEqual(p.u32s, other.u32s, func(a, b uint32) bool { return a == b })
	case format.TypeBufferBinary:
		return sliceEqual(p.raw, other.raw, func(a, b byte) bool { return a == b })
	default:
		return false
	}
}

func (c Curve) equal(other Curve) bool {
	if c.A != other.A || c.B != other.B {
		return false
	}
	for i := range c.Floats {
		if !sameF32(c.Floats[i], other.Floats[i]) {
			return false
		}
	}

	return true
}

func sameF32(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

func sliceEqual[T any](a, b []T, eq func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}

	return true
}
