package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parc/errs"
)

func validHeader() Header {
	return Header{
		Version:     StructuralVersion,
		Flags:       FlagLittleEndian | FlagUTF8,
		FileSize:    0x100,
		PioVersion:  0,
		PioOffset:   4,
		NumLists:    1,
		NumObjects:  2,
		NumParams:   3,
		DataSize:    16,
		StringSize:  8,
		UnknownSize: 1,
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := validHeader()

	b := h.Bytes()
	require.Len(t, b, HeaderSize)
	require.Equal(t, []byte(Magic), b[0:4])

	parsed, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestParseHeaderTruncated(t *testing.T) {
	b := validHeader().Bytes()

	_, err := ParseHeader(b[:HeaderSize-1])
	require.ErrorIs(t, err, errs.ErrTruncated)

	_, err = ParseHeader(nil)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestParseHeaderBadMagic(t *testing.T) {
	b := validHeader().Bytes()
	copy(b, "YAML")

	_, err := ParseHeader(b)
	require.ErrorIs(t, err, errs.ErrBadMagic)
}

func TestParseHeaderBadVersion(t *testing.T) {
	h := validHeader()
	h.Version = 3

	_, err := ParseHeader(h.Bytes())
	require.ErrorIs(t, err, errs.ErrBadVersion)
}

func TestParseHeaderBadFlags(t *testing.T) {
	h := validHeader()
	h.Flags = FlagUTF8 // little-endian bit cleared

	_, err := ParseHeader(h.Bytes())
	require.ErrorIs(t, err, errs.ErrBadFlags)
}

func TestHeaderFieldOffsets(t *testing.T) {
	h := validHeader()
	h.FileSize = 0x11223344

	b := h.Bytes()

	// FileSize sits at bytes 12-15, little-endian.
	require.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, b[12:16])
	// UnknownSize sits at bytes 44-47.
	require.Equal(t, []byte{1, 0, 0, 0}, b[44:48])
}
