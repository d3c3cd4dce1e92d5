package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parc/errs"
	"github.com/arloliu/parc/format"
)

func TestListRecordParseAndAppend(t *testing.T) {
	rec := ListRecord{
		Key:           0xA4F6CB6C,
		ListsOffset:   3,
		NumLists:      2,
		ObjectsOffset: 9,
		NumObjects:    4,
	}

	buf := rec.AppendTo(nil)
	require.Len(t, buf, ListRecordSize)

	parsed, err := ParseListRecord(buf, 0)
	require.NoError(t, err)
	require.Equal(t, rec, parsed)

	// At a non-zero position with leading padding.
	padded := append(make([]byte, 8), buf...)
	parsed, err = ParseListRecord(padded, 8)
	require.NoError(t, err)
	require.Equal(t, rec, parsed)
}

func TestParseListRecordOutOfBounds(t *testing.T) {
	buf := ListRecord{}.AppendTo(nil)

	_, err := ParseListRecord(buf, 4)
	require.ErrorIs(t, err, errs.ErrTruncated)

	_, err = ParseListRecord(buf, -1)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestObjectRecordParseAndAppend(t *testing.T) {
	rec := ObjectRecord{Key: 0x12345678, ParamsOffset: 2, NumParams: 7}

	buf := rec.AppendTo(nil)
	require.Len(t, buf, ObjectRecordSize)

	parsed, err := ParseObjectRecord(buf, 0)
	require.NoError(t, err)
	require.Equal(t, rec, parsed)
}

func TestParamRecordParseAndAppend(t *testing.T) {
	rec := ParamRecord{Key: 0xCAFEF00D, DataOffset: 0x123456, Type: format.TypeF32}

	buf := rec.AppendTo(nil)
	require.Len(t, buf, ParamRecordSize)

	// 24-bit little-endian data offset in bytes 4-6, discriminant in byte 7.
	require.Equal(t, []byte{0x56, 0x34, 0x12}, buf[4:7])
	require.Equal(t, byte(format.TypeF32), buf[7])

	parsed, err := ParseParamRecord(buf, 0)
	require.NoError(t, err)
	require.Equal(t, rec, parsed)
}

func TestParseParamRecordRejectsUnknownType(t *testing.T) {
	rec := ParamRecord{Key: 1, DataOffset: 2, Type: format.TypeBool}
	buf := rec.AppendTo(nil)
	buf[7] = 21 // one past the last valid discriminant

	_, err := ParseParamRecord(buf, 0)
	require.ErrorIs(t, err, errs.ErrUnknownType)
}

func TestPatchDataOffset(t *testing.T) {
	rec := ParamRecord{Key: 1, DataOffset: 0, Type: format.TypeInt}
	buf := rec.AppendTo(nil)

	require.NoError(t, PatchDataOffset(buf, 0, 0xABCDEF))

	parsed, err := ParseParamRecord(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xABCDEF), parsed.DataOffset)

	require.ErrorIs(t, PatchDataOffset(buf, 0, MaxOffset24+1), errs.ErrOffsetOverflow)
}
