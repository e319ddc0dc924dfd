// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// encoder appends little-endian values to a byte slice. It is the mirror
// image of Cursor.
type encoder struct {
	buf []byte
}

func (e *encoder) writeU8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *encoder) writeU16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *encoder) writeU32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) writeF64(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

func (e *encoder) writeBool(v bool) {
	if v {
		e.writeU8(1)
	} else {
		e.writeU8(0)
	}
}

func (e *encoder) writeBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// writeOptimU16 writes values below 255 as one byte, otherwise 0xFF and
// the full value.
func (e *encoder) writeOptimU16(v uint16) {
	if v < optimEscape {
		e.writeU8(uint8(v))
		return
	}
	e.writeU8(optimEscape)
	e.writeU16(v)
}

// writeOptimU32 writes values below 255 as one byte, otherwise 0xFF and
// the full value.
func (e *encoder) writeOptimU32(v uint32) {
	if v < optimEscape {
		e.writeU8(uint8(v))
		return
	}
	e.writeU8(optimEscape)
	e.writeU32(v)
}

// writeSaveString writes a space-optimised length and the string bytes.
func (e *encoder) writeSaveString(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("encode string %q: invalid UTF-8", s)
	}
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("encode string: length %d exceeds uint32", len(s))
	}
	e.writeOptimU32(uint32(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

// writePropertyString writes the empty flag, then the string when present.
func (e *encoder) writePropertyString(s string, present bool) error {
	if !present {
		e.writeBool(true)
		return nil
	}
	e.writeBool(false)
	return e.writeSaveString(s)
}
