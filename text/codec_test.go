package text

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parc/errs"
	"github.com/arloliu/parc/format"
	"github.com/arloliu/parc/internal/hash"
	"github.com/arloliu/parc/names"
	"github.com/arloliu/parc/pio"
)

func roundTrip(t *testing.T, doc *pio.ParameterIO) *pio.ParameterIO {
	t.Helper()

	table := names.NewTable(true)
	src, err := Encode(doc, table)
	require.NoError(t, err)

	back, err := Decode(src, names.NewTable(true))
	require.NoError(t, err)

	return back
}

func TestTextRoundTripScalars(t *testing.T) {
	var obj pio.Object
	obj.SetParam("Enabled", pio.NewBool(true))
	obj.SetParam("Disabled", pio.NewBool(false))
	obj.SetParam("Scale", pio.NewF32(1.5))
	obj.SetParam("Whole", pio.NewF32(2))
	obj.SetParam("Tiny", pio.NewF32(1e-10))
	obj.SetParam("Count", pio.NewInt(-12))
	obj.SetParam("Mask", pio.NewU32(0xDEADBEEF))
	obj.SetParam("Name", pio.NewString(format.TypeString32, "short"))
	obj.SetParam("Path", pio.NewString(format.TypeString64, "Actor/Pack/Enemy.bactorpack"))
	obj.SetParam("Note", pio.NewString(format.TypeString256, "longer annotation"))
	obj.SetParam("Ref", pio.NewStringRef("Reference"))
	obj.SetParam("Empty", pio.NewStringRef(""))
	obj.SetParam("Tricky", pio.NewStringRef("123"))
	obj.SetParam("Boolish", pio.NewStringRef("true"))

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.SetObject("Config", obj)

	back := roundTrip(t, doc)
	require.True(t, doc.Equal(back))
}

func TestTextRoundTripVectorsAndBuffers(t *testing.T) {
	curve := pio.Curve{A: 7, B: 9}
	for i := range curve.Floats {
		curve.Floats[i] = float32(i) * 0.25
	}
	curves2, ok := pio.NewCurves([]pio.Curve{curve, curve})
	require.True(t, ok)

	var obj pio.Object
	obj.SetParam("Offset2", pio.NewVec2(1, -2))
	obj.SetParam("Position", pio.NewVec3(0.5, 1.25, -0.25))
	obj.SetParam("Extent", pio.NewVec4(1, 2, 3, 4))
	obj.SetParam("Tint", pio.NewColor(0.25, 0.5, 0.75, 1))
	obj.SetParam("Rotation", pio.NewQuat(0, 0, 0, 1))
	obj.SetParam("Ramp", curves2)
	obj.SetParam("Ints", pio.NewBufferInt([]int32{-1, 0, 1}))
	obj.SetParam("Floats", pio.NewBufferF32([]float32{0.1, 0.2}))
	obj.SetParam("Words", pio.NewBufferU32([]uint32{0xFFFFFFFF, 0}))
	obj.SetParam("Raw", pio.NewBufferBinary([]byte{0, 1, 255}))
	obj.SetParam("NoInts", pio.NewBufferInt(nil))

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.SetObject("Shapes", obj)

	back := roundTrip(t, doc)
	require.True(t, doc.Equal(back))
}

func TestTextRoundTripNonFiniteFloats(t *testing.T) {
	var obj pio.Object
	obj.SetParam("PosInf", pio.NewF32(float32(math.Inf(1))))
	obj.SetParam("NegInf", pio.NewF32(float32(math.Inf(-1))))
	obj.SetParam("NotANumber", pio.NewF32(float32(math.NaN())))

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.SetObject("Edge", obj)

	back := roundTrip(t, doc)

	o, ok := back.Object("Edge")
	require.True(t, ok)

	p, _ := o.Param("PosInf")
	require.True(t, math.IsInf(float64(p.F32()), 1))
	p, _ = o.Param("NegInf")
	require.True(t, math.IsInf(float64(p.F32()), -1))
	p, _ = o.Param("NotANumber")
	require.True(t, math.IsNaN(float64(p.F32())))
}

func TestTextRoundTripNestedLists(t *testing.T) {
	var leaf pio.Object
	leaf.SetParam("Value", pio.NewInt(1))

	var inner pio.List
	inner.SetObject("Leaf", leaf)

	var outer pio.List
	outer.SetList("Inner", inner)

	doc := &pio.ParameterIO{Version: 4, Type: "yml"}
	doc.Root.SetList("Outer", outer)
	doc.Root.SetList("EmptySibling", pio.List{})

	back := roundTrip(t, doc)
	require.True(t, doc.Equal(back))
}

func TestTextEncodeShape(t *testing.T) {
	var obj pio.Object
	obj.SetParam("Mask", pio.NewU32(0x1F))
	obj.SetParam("Name", pio.NewString(format.TypeString32, "x"))

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.SetObject("Config", obj)

	src, err := Encode(doc, names.NewTable(true))
	require.NoError(t, err)
	text := string(src)

	require.Contains(t, text, "!io")
	require.Contains(t, text, "version: 0")
	require.Contains(t, text, "type: xml")
	require.Contains(t, text, "param_root: !list")
	require.Contains(t, text, "objects:")
	require.Contains(t, text, "lists: {}")
	require.Contains(t, text, "!obj")
	require.Contains(t, text, "!u 0x1F")
	require.Contains(t, text, `!str32 "x"`)
}

func TestTextUnresolvedKeyRendersAsHash(t *testing.T) {
	var obj pio.Object
	obj.Params.Set(0xCAFEF00D, pio.NewBool(true))

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.Objects.Set(0xDEADBEEF, obj)

	// An empty table can neither resolve nor guess either key.
	table := names.NewTable(false)
	src, err := Encode(doc, table)
	require.NoError(t, err)

	text := string(src)
	require.Contains(t, text, "3735928559:") // 0xDEADBEEF
	require.Contains(t, text, "3405705229:") // 0xCAFEF00D

	back, err := Decode(src, names.NewTable(false))
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestTextAllDigitNameIsQuoted(t *testing.T) {
	table := names.NewTable(false)
	table.Add("12345")

	var obj pio.Object
	obj.Params.Set(hash.ID("12345"), pio.NewBool(true))

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.SetObject("Holder", obj)
	table.Add("Holder")

	src, err := Encode(doc, table)
	require.NoError(t, err)
	require.Contains(t, string(src), `"12345":`)

	back, err := Decode(src, names.NewTable(false))
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestTextGuessedKeySurvivesRoundTrip(t *testing.T) {
	// "LinkTargets2" is absent from the stock dictionary but guessable
	// from its parent "LinkTargets" and its sibling index.
	var obj2 pio.Object
	obj2.SetParam("IsActive", pio.NewBool(true))

	var parent pio.List
	parent.Objects.Set(hash.ID("LinkTargets0"), pio.Object{})
	parent.Objects.Set(hash.ID("LinkTargets1"), pio.Object{})
	parent.Objects.Set(hash.ID("LinkTargets2"), obj2)

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.SetList("LinkTargets", parent)

	src, err := Encode(doc, names.NewTable(true))
	require.NoError(t, err)
	require.Contains(t, string(src), "LinkTargets2")

	back, err := Decode(src, names.NewTable(true))
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestTextParamKeyGuessedFromObjectName(t *testing.T) {
	// "LinkTargets0" is absent from the stock dictionary but guessable
	// from the enclosing object "LinkTargets" and its sibling index.
	var obj pio.Object
	obj.Params.Set(hash.ID("LinkTargets0"), pio.NewBool(true))

	doc := &pio.ParameterIO{Version: 0, Type: "xml"}
	doc.Root.SetObject("LinkTargets", obj)

	src, err := Encode(doc, names.NewTable(true))
	require.NoError(t, err)
	require.Contains(t, string(src), "LinkTargets0: true")
	require.NotContains(t, string(src), strconv.FormatUint(uint64(hash.ID("LinkTargets0")), 10))

	back, err := Decode(src, names.NewTable(true))
	require.NoError(t, err)
	require.True(t, doc.Equal(back))
}

func TestTextDecodeBoolSpellings(t *testing.T) {
	// The resolver tags TRUE and False as !!bool too; every spelling of
	// truth must decode as true.
	src := []byte(strings.TrimSpace(`
!io
version: 0
type: xml
param_root: !list
  objects:
    Flags: !obj
      A: TRUE
      B: True
      C: true
      D: FALSE
      E: False
  lists: {}
`))

	doc, err := Decode(src, names.NewTable(true))
	require.NoError(t, err)

	obj, ok := doc.Root.Object("Flags")
	require.True(t, ok)

	for name, want := range map[string]bool{"A": true, "B": true, "C": true, "D": false, "E": false} {
		p, ok := obj.Param(name)
		require.True(t, ok, name)
		require.Equal(t, format.TypeBool, p.Type(), name)
		require.Equal(t, want, p.Bool(), name)
	}
}

func TestTextDecodeFeedsNameTable(t *testing.T) {
	src := []byte(strings.TrimSpace(`
!io
version: 0
type: xml
param_root: !list
    objects:
        FreshObjectName: !obj
            FreshParamName: !str32 "FreshStringValue"
    lists: {}
`))

	table := names.NewTable(false)
	_, err := Decode(src, table)
	require.NoError(t, err)

	for _, name := range []string{"FreshObjectName", "FreshParamName", "FreshStringValue"} {
		got, ok := table.Lookup(hash.ID(name))
		require.True(t, ok, name)
		require.Equal(t, name, got)
	}
}

func TestTextDecodeUntaggedScalars(t *testing.T) {
	src := []byte(`
!io
version: 0
type: xml
param_root: !list
    objects:
        Obj: !obj
            AnInt: 42
            AFloat: 1.5
            ABool: true
            AString: hello
    lists: {}
`)

	doc, err := Decode(src, names.NewTable(true))
	require.NoError(t, err)

	obj, ok := doc.Object("Obj")
	require.True(t, ok)

	p, _ := obj.Param("AnInt")
	require.Equal(t, format.TypeInt, p.Type())
	require.Equal(t, int32(42), p.Int())

	p, _ = obj.Param("AFloat")
	require.Equal(t, format.TypeF32, p.Type())
	require.Equal(t, float32(1.5), p.F32())

	p, _ = obj.Param("ABool")
	require.Equal(t, format.TypeBool, p.Type())
	require.True(t, p.Bool())

	p, _ = obj.Param("AString")
	require.Equal(t, format.TypeStringRef, p.Type())
	require.Equal(t, "hello", p.Str())
}

func TestTextDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			"missing io tag",
			"version: 0\ntype: xml\nparam_root: !list\n    objects: {}\n    lists: {}\n",
			errs.ErrTextSyntax,
		},
		{
			"wrong header key",
			"!io\nversion: 0\nkind: xml\nparam_root: !list\n    objects: {}\n    lists: {}\n",
			errs.ErrTextSyntax,
		},
		{
			"list missing lists map",
			"!io\nversion: 0\ntype: xml\nparam_root: !list\n    objects: {}\n",
			errs.ErrTextSyntax,
		},
		{
			"unknown value tag",
			"!io\nversion: 0\ntype: xml\nparam_root: !list\n    objects:\n        O: !obj\n            P: !mystery 1\n    lists: {}\n",
			errs.ErrUnknownTag,
		},
		{
			"vec3 wrong arity",
			"!io\nversion: 0\ntype: xml\nparam_root: !list\n    objects:\n        O: !obj\n            P: !vec3 [1.0, 2.0]\n    lists: {}\n",
			errs.ErrBadSequenceLen,
		},
		{
			"curve length not a window multiple",
			"!io\nversion: 0\ntype: xml\nparam_root: !list\n    objects:\n        O: !obj\n            P: !curve [1, 2, 3.0]\n    lists: {}\n",
			errs.ErrBadSequenceLen,
		},
		{
			"bad u scalar",
			"!io\nversion: 0\ntype: xml\nparam_root: !list\n    objects:\n        O: !obj\n            P: !u nope\n    lists: {}\n",
			errs.ErrBadScalar,
		},
		{
			"untagged sequence",
			"!io\nversion: 0\ntype: xml\nparam_root: !list\n    objects:\n        O: !obj\n            P: [1, 2]\n    lists: {}\n",
			errs.ErrTextSyntax,
		},
		{
			"not yaml at all",
			"{{{{",
			errs.ErrTextSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src), names.NewTable(true))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTextDecodeErrorCarriesPosition(t *testing.T) {
	src := "!io\nversion: 0\ntype: xml\nparam_root: !list\n    objects:\n        O: !obj\n            P: !u nope\n    lists: {}\n"

	_, err := Decode([]byte(src), names.NewTable(true))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 7")
}

func TestFormatF32(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{1.5, "1.5"},
		{2, "2.0"},
		{-0.25, "-0.25"},
		{1e20, "1e+20"},
		{float32(math.Inf(1)), ".inf"},
		{float32(math.Inf(-1)), "-.inf"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, formatF32(tt.in))
	}

	require.Equal(t, ".nan", formatF32(float32(math.NaN())))
}
