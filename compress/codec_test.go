package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parc/format"
)

func testPayload() []byte {
	// Repetitive enough that every real codec shrinks it.
	return bytes.Repeat([]byte("AAMP parameter archive payload "), 64)
}

func TestCodecRoundTrip(t *testing.T) {
	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	payload := testPayload()

	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestRealCodecsShrinkRepetitiveData(t *testing.T) {
	payload := testPayload()

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(payload))
		})
	}
}

func TestCreateCodecRejectsUnknownType(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(0xFF), "container")
	require.Error(t, err)

	_, err = GetCodec(format.CompressionType(0xFF))
	require.Error(t, err)
}

func TestNoOpCodecPassesDataThrough(t *testing.T) {
	codec := NewNoOpCompressor()

	payload := []byte{1, 2, 3}
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Equal(t, payload, compressed)

	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func TestZstdDecompressRejectsGarbage(t *testing.T) {
	codec := NewZstdCompressor()

	_, err := codec.Decompress([]byte("definitely not a zstd frame"))
	require.Error(t, err)
}

func TestEmptyInput(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		restored, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, restored)
	}
}
