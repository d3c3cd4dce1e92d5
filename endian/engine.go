// Package endian provides byte order utilities for binary encoding and decoding.
//
// It combines the ByteOrder and AppendByteOrder interfaces from the standard
// encoding/binary package into a single EndianEngine interface so that codecs
// can both read fixed-width integers in place and append them to growing
// buffers without extra allocation.
//
// The parameter archive format is strictly little-endian, so almost every
// caller uses GetLittleEndianEngine(). The big-endian engine exists for
// tooling that inspects foreign byte orders.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// The interface is satisfied by binary.LittleEndian and binary.BigEndian;
// returned engines are immutable, stateless and safe for concurrent use.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. This is the byte
// order of the parameter archive wire format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
