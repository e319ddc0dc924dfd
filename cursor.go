// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Cursor reads little-endian values sequentially from an in-memory buffer.
// A read that cannot be satisfied returns a *DecodeError and leaves the
// cursor where it was.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of b.
// The cursor does not copy b; the caller must not modify it while reading.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// take returns the next n bytes without copying and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, errAt(KindUnexpectedEOF, c.off, "")
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadF64 reads a little-endian IEEE-754 double. NaN and infinities pass
// through unchanged.
func (c *Cursor) ReadF64() (float64, error) {
	u, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// ReadBool reads one byte; any nonzero value is true.
func (c *Cursor) ReadBool() (bool, error) {
	b, err := c.ReadU8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadBytes reads exactly n bytes and returns a copy of them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadOptimU16 reads a space-optimised uint16: a single byte, or 0xFF
// followed by the full little-endian value.
func (c *Cursor) ReadOptimU16() (uint16, error) {
	start := c.off
	b, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	if b != optimEscape {
		return uint16(b), nil
	}
	v, err := c.ReadU16()
	if err != nil {
		c.off = start
		return 0, err
	}
	return v, nil
}

// ReadOptimU32 reads a space-optimised uint32: a single byte, or 0xFF
// followed by the full little-endian value.
func (c *Cursor) ReadOptimU32() (uint32, error) {
	start := c.off
	b, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	if b != optimEscape {
		return uint32(b), nil
	}
	v, err := c.ReadU32()
	if err != nil {
		c.off = start
		return 0, err
	}
	return v, nil
}

// ReadPropertyString reads a property tree string: an "empty" flag byte
// followed, when the flag is zero, by a space-optimised length and UTF-8
// bytes. present is false when the flag is set; no further bytes are
// consumed in that case.
func (c *Cursor) ReadPropertyString() (s string, present bool, err error) {
	start := c.off
	empty, err := c.ReadBool()
	if err != nil {
		return "", false, err
	}
	if empty {
		return "", false, nil
	}
	s, err = c.ReadSaveString()
	if err != nil {
		c.off = start
		return "", false, err
	}
	return s, true, nil
}

// ReadSaveString reads a space-optimised length followed by that many UTF-8
// bytes. Save headers store strings this way, without the empty flag.
func (c *Cursor) ReadSaveString() (string, error) {
	start := c.off
	n, err := c.ReadOptimU32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(c.Remaining()) {
		err := errAt(KindUnexpectedEOF, c.off, "string length exceeds remaining data")
		c.off = start
		return "", err
	}
	textOff := c.off
	b, _ := c.take(int(n))
	if !utf8.Valid(b) {
		c.off = start
		return "", errAt(KindInvalidUTF8, textOff, "")
	}
	return string(b), nil
}
