// Package hash provides the 32-bit name hash used as the sole persisted
// key of the parameter archive format.
//
// The digest is CRC-32 with the IEEE polynomial. Every component that
// matches names against keys must use this exact function; a different
// polynomial would make name recovery silently fail.
package hash

import "hash/crc32"

// ID computes the CRC-32 (IEEE) digest of the given name.
func ID(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(name))
}
