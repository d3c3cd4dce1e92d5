// Package errs defines the sentinel errors shared across the parc codecs.
//
// Errors fall into four families: format errors raised by the binary
// decoder (bad magic, version, flags, malformed records), truncation
// errors (short reads), text syntax errors raised by the text decoder,
// and encoding invariant errors raised by the binary encoder when a tree
// exceeds a structural limit of the format.
//
// Callers match with errors.Is; the codecs wrap these sentinels with
// positional context via fmt.Errorf("%w: ...").
package errs

import "errors"

// Binary format errors.
var (
	ErrBadMagic            = errors.New("invalid archive magic")
	ErrBadVersion          = errors.New("unsupported archive version")
	ErrBadFlags            = errors.New("invalid archive flags")
	ErrUnknownType         = errors.New("unknown parameter type discriminant")
	ErrMalformedRecord     = errors.New("malformed structural record")
	ErrStringNotTerminated = errors.New("unterminated string value")
)

// Truncation errors.
var (
	ErrTruncated = errors.New("truncated input")
)

// Text format errors.
var (
	ErrTextSyntax     = errors.New("text syntax error")
	ErrUnknownTag     = errors.New("unknown type tag")
	ErrBadSequenceLen = errors.New("invalid sequence length")
	ErrBadScalar      = errors.New("malformed scalar value")
)

// Encoding invariant errors.
var (
	ErrTooManyChildren = errors.New("child count exceeds format limit")
	ErrOffsetOverflow  = errors.New("relative offset exceeds format limit")
	ErrValueTooLarge   = errors.New("value exceeds format limit")
)
