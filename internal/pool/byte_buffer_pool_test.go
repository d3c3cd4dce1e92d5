package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	n, err := bb.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, bb.WriteByte('d'))

	require.Equal(t, 4, bb.Len())
	require.Equal(t, []byte("abcd"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 16)
}

func TestByteBufferAlignTo(t *testing.T) {
	bb := NewByteBuffer(16)

	_, _ = bb.Write([]byte{1, 2, 3})
	bb.AlignTo(4)
	require.Equal(t, []byte{1, 2, 3, 0}, bb.Bytes())

	// Already aligned: no change.
	bb.AlignTo(4)
	require.Equal(t, 4, bb.Len())

	bb.AlignTo(8)
	require.Equal(t, 8, bb.Len())
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", out.String())
}

func TestPoolRecyclesBuffers(t *testing.T) {
	p := NewByteBufferPool(8, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.Write([]byte("junk"))
	p.Put(bb)

	got := p.Get()
	require.Equal(t, 0, got.Len())
}

func TestPoolDropsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := &ByteBuffer{B: make([]byte, 0, 128)}
	p.Put(bb) // above threshold, must not be retained

	got := p.Get()
	require.LessOrEqual(t, got.Cap(), 16)
}

func TestSectionBufferHelpers(t *testing.T) {
	bb := GetSectionBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	_, _ = bb.Write([]byte{1})
	PutSectionBuffer(bb)
	PutSectionBuffer(nil) // must be a no-op
}
