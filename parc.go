// Package parc reads and writes binary parameter archives: hierarchical
// configuration trees of nested lists, objects and typed parameters, keyed
// by 32-bit CRC name hashes and serialized little-endian.
//
// # Core Features
//
//   - Binary codec with byte-exact round trips for canonical archives
//   - Hash-based keys (CRC-32) with a name table and heuristic name
//     recovery for human-readable output
//   - Lossless tag-typed text form built on YAML syntax
//   - Optional whole-archive compression (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Decoding an archive and reading a value:
//
//	import "github.com/arloliu/parc"
//
//	doc, _ := parc.FromBinary(data, nil)
//	if obj, ok := doc.Object("Config"); ok {
//	    if p, ok := obj.Param("IsActive"); ok {
//	        fmt.Println(p.Bool())
//	    }
//	}
//
// Converting between the binary and text forms:
//
//	text, _ := parc.ToText(doc, nil)
//	doc2, _ := parc.FromText(text, nil)
//	data2, _ := parc.ToBinary(doc2)
//
// Passing a nil *names.Table selects the shared stock table; build one
// with names.NewTable to control name resolution per call.
//
// # Package Structure
//
// This package provides convenient top-level wrappers. For fine-grained
// control use the underlying packages directly: pio for the document
// model, archive for the binary codec, text for the text codec, names
// for hash-to-name resolution, and compress for container codecs.
package parc

import (
	"github.com/arloliu/parc/archive"
	"github.com/arloliu/parc/compress"
	"github.com/arloliu/parc/format"
	"github.com/arloliu/parc/internal/hash"
	"github.com/arloliu/parc/names"
	"github.com/arloliu/parc/pio"
	"github.com/arloliu/parc/text"
)

// Key returns the 32-bit hash of a parameter or node name, the form under
// which all keys are stored in an archive.
func Key(name string) uint32 {
	return hash.ID(name)
}

// FromBinary decodes a binary archive into a document tree.
//
// Every string the archive contains is recorded in the table, so names
// recovered here improve later text output. A nil table selects the
// shared stock table.
//
// Parameters:
//   - data: Complete binary archive image
//   - table: Name table to resolve and collect names with (nil for the default)
//
// Returns:
//   - *pio.ParameterIO: The decoded document.
//   - error: A format error if the image is malformed or truncated.
func FromBinary(data []byte, table *names.Table) (*pio.ParameterIO, error) {
	return archive.Decode(data, table)
}

// ToBinary encodes a document tree into the canonical binary form.
// Encoding the result of FromBinary reproduces a canonical input
// byte for byte.
func ToBinary(doc *pio.ParameterIO) ([]byte, error) {
	return archive.Encode(doc)
}

// FromText parses the text form of an archive into a document tree.
// A nil table selects the shared stock table.
func FromText(src []byte, table *names.Table) (*pio.ParameterIO, error) {
	return text.Decode(src, table)
}

// ToText renders a document tree in the tag-typed text form. Keys whose
// names the table cannot resolve or guess appear as raw decimal hashes.
// A nil table selects the shared stock table.
func ToText(doc *pio.ParameterIO, table *names.Table) ([]byte, error) {
	return text.Encode(doc, table)
}

// FromCompressedBinary decompresses a compressed archive container with
// the given codec and decodes the result.
//
// The container does not record its own algorithm; the caller chooses it.
// CompressionNone reads a plain binary archive.
func FromCompressedBinary(data []byte, compressionType format.CompressionType, table *names.Table) (*pio.ParameterIO, error) {
	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, err
	}

	return archive.Decode(raw, table)
}

// ToCompressedBinary encodes a document tree and compresses the binary
// image with the given codec. CompressionNone writes a plain binary
// archive.
func ToCompressedBinary(doc *pio.ParameterIO, compressionType format.CompressionType) ([]byte, error) {
	raw, err := archive.Encode(doc)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	return codec.Compress(raw)
}
