package pio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parc/format"
)

func TestParameterConstructorsSelectVariant(t *testing.T) {
	tests := []struct {
		name  string
		param Parameter
		typ   format.Type
	}{
		{"bool", NewBool(true), format.TypeBool},
		{"f32", NewF32(1.5), format.TypeF32},
		{"int", NewInt(-7), format.TypeInt},
		{"u32", NewU32(0xDEADBEEF), format.TypeU32},
		{"vec2", NewVec2(1, 2), format.TypeVec2},
		{"vec3", NewVec3(1, 2, 3), format.TypeVec3},
		{"vec4", NewVec4(1, 2, 3, 4), format.TypeVec4},
		{"color", NewColor(0.1, 0.2, 0.3, 1), format.TypeColor},
		{"quat", NewQuat(0, 0, 0, 1), format.TypeQuat},
		{"str32", NewString(format.TypeString32, "a"), format.TypeString32},
		{"str64", NewString(format.TypeString64, "b"), format.TypeString64},
		{"str256", NewString(format.TypeString256, "c"), format.TypeString256},
		{"strref", NewStringRef("d"), format.TypeStringRef},
		{"buffer int", NewBufferInt([]int32{1}), format.TypeBufferInt},
		{"buffer f32", NewBufferF32([]float32{1}), format.TypeBufferF32},
		{"buffer u32", NewBufferU32([]uint32{1}), format.TypeBufferU32},
		{"buffer binary", NewBufferBinary([]byte{1}), format.TypeBufferBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.typ, tt.param.Type())
		})
	}
}

func TestNewStringRejectsNonStringKind(t *testing.T) {
	p := NewString(format.TypeInt, "x")
	require.Equal(t, format.TypeStringRef, p.Type())
	require.Equal(t, "x", p.Str())
}

func TestNewCurvesSelectsVariantByCount(t *testing.T) {
	for n := 1; n <= 4; n++ {
		p, ok := NewCurves(make([]Curve, n))
		require.True(t, ok)
		require.Equal(t, format.TypeCurve1+format.Type(n-1), p.Type())
		require.Len(t, p.Curves(), n)
	}

	_, ok := NewCurves(nil)
	require.False(t, ok)

	_, ok = NewCurves(make([]Curve, 5))
	require.False(t, ok)
}

func TestNewCurvesCopiesInput(t *testing.T) {
	src := []Curve{{A: 1}}
	p, ok := NewCurves(src)
	require.True(t, ok)

	src[0].A = 99
	require.Equal(t, uint32(1), p.Curves()[0].A)
}

func TestVecLengthMatchesVariant(t *testing.T) {
	require.Len(t, NewVec2(1, 2).Vec(), 2)
	require.Len(t, NewVec3(1, 2, 3).Vec(), 3)
	require.Len(t, NewVec4(1, 2, 3, 4).Vec(), 4)
	require.Len(t, NewColor(1, 2, 3, 4).Vec(), 4)
	require.Len(t, NewQuat(1, 2, 3, 4).Vec(), 4)
	require.Nil(t, NewBool(true).Vec())
}

func TestParameterEqual(t *testing.T) {
	nan := float32(math.NaN())

	tests := []struct {
		name string
		a, b Parameter
		want bool
	}{
		{"same bool", NewBool(true), NewBool(true), true},
		{"different bool", NewBool(true), NewBool(false), false},
		{"different variant", NewInt(1), NewU32(1), false},
		{"same f32", NewF32(1.25), NewF32(1.25), true},
		{"nan equals itself bitwise", NewF32(nan), NewF32(nan), true},
		{"zero differs from negative zero", NewF32(0), NewF32(float32(math.Copysign(0, -1))), false},
		{"same vec", NewVec3(1, 2, 3), NewVec3(1, 2, 3), true},
		{"different vec", NewVec3(1, 2, 3), NewVec3(1, 2, 4), false},
		{"string kind matters", NewString(format.TypeString32, "x"), NewString(format.TypeString64, "x"), false},
		{"same buffer", NewBufferU32([]uint32{1, 2}), NewBufferU32([]uint32{1, 2}), true},
		{"buffer length differs", NewBufferU32([]uint32{1}), NewBufferU32([]uint32{1, 2}), false},
		{"nil buffer equals empty", NewBufferInt(nil), NewBufferInt([]int32{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.a.Equal(tt.b))
			require.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestDocumentEqual(t *testing.T) {
	build := func() *ParameterIO {
		var obj Object
		obj.SetParam("IsActive", NewBool(true))
		obj.SetParam("Scale", NewF32(2))

		var inner List
		inner.SetObject("Config", obj)

		doc := &ParameterIO{Version: 0, Type: "xml"}
		doc.Root.SetList("Outer", inner)

		return doc
	}

	a, b := build(), build()
	require.True(t, a.Equal(b))

	inner, _ := b.Root.List("Outer")
	obj, _ := inner.Object("Config")
	obj.SetParam("Scale", NewF32(3))
	inner.SetObject("Config", obj)
	b.Root.SetList("Outer", inner)
	require.False(t, a.Equal(b))

	b = build()
	b.Type = "yml"
	require.False(t, a.Equal(b))
}

func TestRootKeyIsHashOfParamRoot(t *testing.T) {
	var l List
	l.SetList("param_root", List{})
	require.Equal(t, RootKey, l.Lists.KeyAt(0))
}
