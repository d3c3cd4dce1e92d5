package hash

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDKnownDigests(t *testing.T) {
	require.Equal(t, uint32(0), ID(""))

	// Standard CRC-32 (IEEE) check value.
	require.Equal(t, uint32(0xCBF43926), ID("123456789"))

	// The well-known root key of the archive format.
	require.Equal(t, uint32(0xA4F6CB6C), ID("param_root"))
}

func TestIDMatchesStdlib(t *testing.T) {
	for _, s := range []string{"IsActive", "LinkTargets", "AI_0", "param_root"} {
		require.Equal(t, crc32.ChecksumIEEE([]byte(s)), ID(s))
	}
}
