// Package wire provides bounds-checked big-endian reads over captured bytes.
//
// Every accessor validates the requested range against the bytes actually
// captured and returns core.ErrTruncated instead of ever reading outside the
// buffer. Declared protocol lengths are validated by the callers; this
// package only guards the capture boundary.
package wire

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

// Buffer is a read-only view over a captured byte range.
// The zero value is an empty buffer.
type Buffer struct {
	data []byte
}

// NewBuffer wraps captured bytes. The slice is never written.
func NewBuffer(data []byte) Buffer {
	return Buffer{data: data}
}

// Len returns the number of captured bytes.
func (b Buffer) Len() int {
	return len(b.data)
}

// Has reports whether n bytes starting at off are captured.
func (b Buffer) Has(off, n int) bool {
	return off >= 0 && n >= 0 && off+n <= len(b.data)
}

// Bytes returns the n captured bytes starting at off.
func (b Buffer) Bytes(off, n int) ([]byte, error) {
	if !b.Has(off, n) {
		return nil, core.ErrTruncated
	}
	return b.data[off : off+n], nil
}

// U8 reads one byte at off.
func (b Buffer) U8(off int) (uint8, error) {
	if !b.Has(off, 1) {
		return 0, core.ErrTruncated
	}
	return b.data[off], nil
}

// U16 reads a big-endian 16-bit value at off.
func (b Buffer) U16(off int) (uint16, error) {
	if !b.Has(off, 2) {
		return 0, core.ErrTruncated
	}
	return binary.BigEndian.Uint16(b.data[off : off+2]), nil
}

// U24 reads a big-endian 24-bit value at off.
func (b Buffer) U24(off int) (uint32, error) {
	if !b.Has(off, 3) {
		return 0, core.ErrTruncated
	}
	d := b.data[off : off+3]
	return uint32(d[0])<<16 | uint32(d[1])<<8 | uint32(d[2]), nil
}

// U32 reads a big-endian 32-bit value at off.
func (b Buffer) U32(off int) (uint32, error) {
	if !b.Has(off, 4) {
		return 0, core.ErrTruncated
	}
	return binary.BigEndian.Uint32(b.data[off : off+4]), nil
}

// U48 reads a big-endian 48-bit value at off.
func (b Buffer) U48(off int) (uint64, error) {
	if !b.Has(off, 6) {
		return 0, core.ErrTruncated
	}
	d := b.data[off : off+6]
	return uint64(d[0])<<40 | uint64(d[1])<<32 | uint64(d[2])<<24 |
		uint64(d[3])<<16 | uint64(d[4])<<8 | uint64(d[5]), nil
}
