package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeDiscriminantValues(t *testing.T) {
	// The numeric values are fixed by the wire format.
	require.Equal(t, Type(0), TypeBool)
	require.Equal(t, Type(7), TypeString32)
	require.Equal(t, Type(9), TypeCurve1)
	require.Equal(t, Type(15), TypeString256)
	require.Equal(t, Type(16), TypeQuat)
	require.Equal(t, Type(17), TypeU32)
	require.Equal(t, Type(20), TypeStringRef)
	require.Equal(t, 21, NumTypes)
}

func TestTypeClassPredicates(t *testing.T) {
	strings := []Type{TypeString32, TypeString64, TypeString256, TypeStringRef}
	buffers := []Type{TypeBufferInt, TypeBufferF32, TypeBufferU32, TypeBufferBinary}

	for typ := Type(0); typ < NumTypes; typ++ {
		require.True(t, typ.Valid(), typ.String())

		wantString := false
		for _, s := range strings {
			wantString = wantString || typ == s
		}
		require.Equal(t, wantString, typ.IsString(), typ.String())

		wantBuffer := false
		for _, b := range buffers {
			wantBuffer = wantBuffer || typ == b
		}
		require.Equal(t, wantBuffer, typ.IsBuffer(), typ.String())
	}

	require.False(t, Type(NumTypes).Valid())
	require.False(t, Type(255).Valid())
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "Bool", TypeBool.String())
	require.Equal(t, "StringRef", TypeStringRef.String())
	require.Equal(t, "Unknown", Type(99).String())

	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "Unknown", CompressionType(0xFF).String())
}
