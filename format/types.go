// Package format defines the wire-level enumerations of the parameter
// archive format: the parameter type discriminants stored in the binary
// form and the container compression algorithms.
package format

type (
	Type            uint8
	CompressionType uint8
)

// Parameter type discriminants as stored in the binary form. The numeric
// values and their order are fixed by the format and must not change.
const (
	TypeBool         Type = 0  // TypeBool represents a boolean value.
	TypeF32          Type = 1  // TypeF32 represents a 32-bit float value.
	TypeInt          Type = 2  // TypeInt represents a signed 32-bit integer value.
	TypeVec2         Type = 3  // TypeVec2 represents a 2-component float vector.
	TypeVec3         Type = 4  // TypeVec3 represents a 3-component float vector.
	TypeVec4         Type = 5  // TypeVec4 represents a 4-component float vector.
	TypeColor        Type = 6  // TypeColor represents an RGBA float color.
	TypeString32     Type = 7  // TypeString32 represents a string with a 32-byte length class.
	TypeString64     Type = 8  // TypeString64 represents a string with a 64-byte length class.
	TypeCurve1       Type = 9  // TypeCurve1 represents one curve record.
	TypeCurve2       Type = 10 // TypeCurve2 represents two curve records.
	TypeCurve3       Type = 11 // TypeCurve3 represents three curve records.
	TypeCurve4       Type = 12 // TypeCurve4 represents four curve records.
	TypeBufferInt    Type = 13 // TypeBufferInt represents a dynamic int32 buffer.
	TypeBufferF32    Type = 14 // TypeBufferF32 represents a dynamic float32 buffer.
	TypeString256    Type = 15 // TypeString256 represents a string with a 256-byte length class.
	TypeQuat         Type = 16 // TypeQuat represents a quaternion of four floats.
	TypeU32          Type = 17 // TypeU32 represents an unsigned 32-bit integer value.
	TypeBufferU32    Type = 18 // TypeBufferU32 represents a dynamic uint32 buffer.
	TypeBufferBinary Type = 19 // TypeBufferBinary represents a dynamic raw byte buffer.
	TypeStringRef    Type = 20 // TypeStringRef represents an unbounded reference string.

	// NumTypes is the number of valid discriminants; any byte >= NumTypes
	// in a parameter record is a format error.
	NumTypes = 21
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// IsString reports whether the discriminant is one of the four string
// kinds. String values are laid out in the trailing string area of the
// binary form, after all other parameter data.
func (t Type) IsString() bool {
	switch t {
	case TypeString32, TypeString64, TypeString256, TypeStringRef:
		return true
	default:
		return false
	}
}

// IsBuffer reports whether the discriminant is one of the four
// length-prefixed buffer kinds.
func (t Type) IsBuffer() bool {
	switch t {
	case TypeBufferInt, TypeBufferF32, TypeBufferU32, TypeBufferBinary:
		return true
	default:
		return false
	}
}

// Valid reports whether the discriminant is within the defined range.
func (t Type) Valid() bool {
	return t < NumTypes
}

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "Bool"
	case TypeF32:
		return "F32"
	case TypeInt:
		return "Int"
	case TypeVec2:
		return "Vec2"
	case TypeVec3:
		return "Vec3"
	case TypeVec4:
		return "Vec4"
	case TypeColor:
		return "Color"
	case TypeString32:
		return "String32"
	case TypeString64:
		return "String64"
	case TypeCurve1:
		return "Curve1"
	case TypeCurve2:
		return "Curve2"
	case TypeCurve3:
		return "Curve3"
	case TypeCurve4:
		return "Curve4"
	case TypeBufferInt:
		return "BufferInt"
	case TypeBufferF32:
		return "BufferF32"
	case TypeString256:
		return "String256"
	case TypeQuat:
		return "Quat"
	case TypeU32:
		return "U32"
	case TypeBufferU32:
		return "BufferU32"
	case TypeBufferBinary:
		return "BufferBinary"
	case TypeStringRef:
		return "StringRef"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
