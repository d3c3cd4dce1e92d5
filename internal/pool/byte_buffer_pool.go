// Package pool provides pooled byte buffers for the binary encoder's
// transient section buffers.
package pool

import (
	"io"
	"sync"
)

const (
	// SectionBufferDefaultSize is the initial capacity of a pooled buffer.
	// Most parameter archives are a few KiB per section.
	SectionBufferDefaultSize = 1024 * 4 // 4KiB
	// SectionBufferMaxThreshold is the largest buffer the pool retains;
	// bigger buffers are dropped to avoid memory bloat.
	SectionBufferMaxThreshold = 1024 * 256 // 256KiB
)

// ByteBuffer is a growable byte slice with helpers for building binary
// sections. The underlying slice B is exported so encoders can backpatch
// previously written offset fields in place.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteByte appends a single byte to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// AlignTo pads the buffer with zero bytes until its length is a multiple
// of n.
func (bb *ByteBuffer) AlignTo(n int) {
	for bb.Len()%n != 0 {
		bb.B = append(bb.B, 0)
	}
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally. Buffers above the configured threshold are
// not retained so that one oversized archive does not pin memory forever.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var sectionDefaultPool = NewByteBufferPool(SectionBufferDefaultSize, SectionBufferMaxThreshold)

// GetSectionBuffer retrieves a ByteBuffer from the default section pool.
func GetSectionBuffer() *ByteBuffer {
	return sectionDefaultPool.Get()
}

// PutSectionBuffer returns a ByteBuffer to the default section pool.
func PutSectionBuffer(bb *ByteBuffer) {
	sectionDefaultPool.Put(bb)
}
