// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

// builder assembles test inputs byte by byte.
type builder struct {
	b []byte
}

func (w *builder) u8(v ...uint8) *builder {
	w.b = append(w.b, v...)
	return w
}

func (w *builder) u16(v uint16) *builder {
	w.b = binary.LittleEndian.AppendUint16(w.b, v)
	return w
}

func (w *builder) u32(v uint32) *builder {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
	return w
}

func (w *builder) f64(v float64) *builder {
	w.b = binary.LittleEndian.AppendUint64(w.b, math.Float64bits(v))
	return w
}

// sstr writes a save header string: short length form only.
func (w *builder) sstr(s string) *builder {
	w.u8(uint8(len(s)))
	w.b = append(w.b, s...)
	return w
}

// pstr writes a present property tree string: flag 0, short length.
func (w *builder) pstr(s string) *builder {
	w.u8(0)
	return w.sstr(s)
}

func (w *builder) version(major, minor, patch, build uint16) *builder {
	return w.u16(major).u16(minor).u16(patch).u16(build).u8(0)
}

func wantKind(t *testing.T, err error, kind ErrorKind, offset int) *DecodeError {
	t.Helper()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if de.Kind != kind {
		t.Fatalf("error kind = %v, want %v (%v)", de.Kind, kind, err)
	}
	if offset >= 0 && de.Offset != offset {
		t.Fatalf("error offset = %d, want %d (%v)", de.Offset, offset, err)
	}
	return de
}

func TestCursorFixedWidth(t *testing.T) {
	data := new(builder).
		u8(0xAB).
		u16(0x1234).
		u32(0xDEADBEEF).
		u8(0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08).
		f64(-2.25).
		b

	c := NewCursor(data)

	if v, err := c.ReadU8(); err != nil || v != 0xAB {
		t.Fatalf("ReadU8 = 0x%X, %v", v, err)
	}
	if v, err := c.ReadU16(); err != nil || v != 0x1234 {
		t.Fatalf("ReadU16 = 0x%X, %v", v, err)
	}
	if v, err := c.ReadU32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadU32 = 0x%X, %v", v, err)
	}
	if v, err := c.ReadU64(); err != nil || v != 0x0807060504030201 {
		t.Fatalf("ReadU64 = 0x%X, %v", v, err)
	}
	if v, err := c.ReadF64(); err != nil || v != -2.25 {
		t.Fatalf("ReadF64 = %v, %v", v, err)
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", c.Remaining())
	}
	if c.Offset() != len(data) {
		t.Errorf("offset = %d, want %d", c.Offset(), len(data))
	}
}

func TestCursorEOFIsAtomic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(c *Cursor) error
	}{
		{"u8", nil, func(c *Cursor) error { _, err := c.ReadU8(); return err }},
		{"u16", []byte{1}, func(c *Cursor) error { _, err := c.ReadU16(); return err }},
		{"u32", []byte{1, 2, 3}, func(c *Cursor) error { _, err := c.ReadU32(); return err }},
		{"u64", []byte{1, 2, 3, 4, 5, 6, 7}, func(c *Cursor) error { _, err := c.ReadU64(); return err }},
		{"f64", []byte{1, 2, 3, 4}, func(c *Cursor) error { _, err := c.ReadF64(); return err }},
		{"bool", nil, func(c *Cursor) error { _, err := c.ReadBool(); return err }},
		{"bytes", []byte{1, 2}, func(c *Cursor) error { _, err := c.ReadBytes(3); return err }},
		{"optim u16 escape", []byte{0xFF, 0x01}, func(c *Cursor) error { _, err := c.ReadOptimU16(); return err }},
		{"optim u32 escape", []byte{0xFF, 0x01, 0x02}, func(c *Cursor) error { _, err := c.ReadOptimU32(); return err }},
		{"property string body", []byte{0x00, 0x05, 'a', 'b'}, func(c *Cursor) error { _, _, err := c.ReadPropertyString(); return err }},
		{"save string body", []byte{0x03, 'a'}, func(c *Cursor) error { _, err := c.ReadSaveString(); return err }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Prefix one byte that is consumed first so the failing read
			// starts at a nonzero offset.
			data := append([]byte{0x7F}, test.data...)
			c := NewCursor(data)
			if _, err := c.ReadU8(); err != nil {
				t.Fatalf("read prefix: %v", err)
			}

			err := test.read(c)
			if !errors.Is(err, ErrUnexpectedEOF) {
				t.Fatalf("error = %v, want ErrUnexpectedEOF", err)
			}
			if c.Offset() != 1 {
				t.Errorf("offset after failed read = %d, want 1", c.Offset())
			}
		})
	}
}

func TestCursorBoolIsPermissive(t *testing.T) {
	c := NewCursor([]byte{0x00, 0x01, 0x02, 0xFF})
	want := []bool{false, true, true, true}
	for i, w := range want {
		got, err := c.ReadBool()
		if err != nil {
			t.Fatalf("ReadBool %d: %v", i, err)
		}
		if got != w {
			t.Errorf("ReadBool %d = %v, want %v", i, got, w)
		}
	}
}

func TestCursorReadBytesCopies(t *testing.T) {
	data := []byte{1, 2, 3}
	c := NewCursor(data)
	b, err := c.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	b[0] = 9
	if data[0] != 1 {
		t.Errorf("ReadBytes returned a view of the input")
	}
}

func TestCursorOptimIntegers(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		want  uint32
		bytes int
		wide  bool // read as u32
	}{
		{"u16 short", []byte{0x2A}, 42, 1, false},
		{"u16 254", []byte{0xFE}, 254, 1, false},
		{"u16 escaped", []byte{0xFF, 0x34, 0x12}, 0x1234, 3, false},
		{"u16 escaped 255", []byte{0xFF, 0xFF, 0x00}, 255, 3, false},
		{"u32 short", []byte{0x07}, 7, 1, true},
		{"u32 escaped", []byte{0xFF, 0x78, 0x56, 0x34, 0x12}, 0x12345678, 5, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := NewCursor(test.data)
			var got uint32
			var err error
			if test.wide {
				got, err = c.ReadOptimU32()
			} else {
				var v uint16
				v, err = c.ReadOptimU16()
				got = uint32(v)
			}
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got != test.want {
				t.Errorf("value = %d, want %d", got, test.want)
			}
			if c.Offset() != test.bytes {
				t.Errorf("consumed %d bytes, want %d", c.Offset(), test.bytes)
			}
		})
	}
}

func TestReadPropertyString(t *testing.T) {
	long := strings.Repeat("x", 300)
	exact255 := strings.Repeat("y", 255)

	tests := []struct {
		name     string
		data     []byte
		want     string
		present  bool
		consumed int
	}{
		{
			name:     "ab",
			data:     []byte{0x00, 0x02, 0x61, 0x62},
			want:     "ab",
			present:  true,
			consumed: 4,
		},
		{
			name:     "empty flag ignores following bytes",
			data:     []byte{0x01, 0x02, 0x61, 0x62},
			want:     "",
			present:  false,
			consumed: 1,
		},
		{
			name:     "nonzero empty flag",
			data:     []byte{0x07},
			present:  false,
			consumed: 1,
		},
		{
			name:     "present but empty",
			data:     []byte{0x00, 0x00},
			want:     "",
			present:  true,
			consumed: 2,
		},
		{
			name:     "254 bytes uses short length",
			data:     new(builder).u8(0x00, 254).u8([]byte(strings.Repeat("z", 254))...).b,
			want:     strings.Repeat("z", 254),
			present:  true,
			consumed: 2 + 254,
		},
		{
			name:     "255 bytes uses escape",
			data:     new(builder).u8(0x00, 0xFF).u32(255).u8([]byte(exact255)...).b,
			want:     exact255,
			present:  true,
			consumed: 6 + 255,
		},
		{
			name:     "300 bytes uses escape",
			data:     new(builder).u8(0x00, 0xFF).u32(300).u8([]byte(long)...).b,
			want:     long,
			present:  true,
			consumed: 6 + 300,
		},
		{
			name:     "escaped length below 255",
			data:     new(builder).u8(0x00, 0xFF).u32(2).u8('a', 'b').b,
			want:     "ab",
			present:  true,
			consumed: 8,
		},
		{
			name:     "multibyte UTF-8",
			data:     new(builder).pstr("héllo").b,
			want:     "héllo",
			present:  true,
			consumed: 2 + len("héllo"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := NewCursor(test.data)
			got, present, err := c.ReadPropertyString()
			if err != nil {
				t.Fatalf("ReadPropertyString: %v", err)
			}
			if got != test.want || present != test.present {
				t.Errorf("got (%q, %v), want (%q, %v)", got, present, test.want, test.present)
			}
			if c.Offset() != test.consumed {
				t.Errorf("consumed %d bytes, want %d", c.Offset(), test.consumed)
			}
		})
	}
}

func TestReadStringInvalidUTF8(t *testing.T) {
	data := []byte{0x09, 0x00, 0x03, 'a', 0xC3, 0x28}
	c := NewCursor(data)
	if _, err := c.ReadU8(); err != nil {
		t.Fatalf("read prefix: %v", err)
	}

	_, _, err := c.ReadPropertyString()
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("error = %v, want ErrInvalidUTF8", err)
	}
	wantKind(t, err, KindInvalidUTF8, 3)
	if c.Offset() != 1 {
		t.Errorf("offset after failed read = %d, want 1", c.Offset())
	}
}

func TestReadSaveStringLengthBeyondData(t *testing.T) {
	data := new(builder).u8(0xFF).u32(1 << 30).u8('a').b
	c := NewCursor(data)
	_, err := c.ReadSaveString()
	wantKind(t, err, KindUnexpectedEOF, 5)
	if c.Offset() != 0 {
		t.Errorf("offset after failed read = %d, want 0", c.Offset())
	}
}

func TestWriterStringForms(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		present bool
		prefix  []byte
	}{
		{"absent", "", false, []byte{0x01}},
		{"present empty", "", true, []byte{0x00, 0x00}},
		{"short", "ab", true, []byte{0x00, 0x02}},
		{"254", strings.Repeat("a", 254), true, []byte{0x00, 0xFE}},
		{"255", strings.Repeat("a", 255), true, []byte{0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00}},
		{"1000", strings.Repeat("a", 1000), true, []byte{0x00, 0xFF, 0xE8, 0x03, 0x00, 0x00}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := &encoder{}
			if err := e.writePropertyString(test.s, test.present); err != nil {
				t.Fatalf("writePropertyString: %v", err)
			}
			if len(e.buf) != len(test.prefix)+len(test.s) {
				t.Fatalf("encoded %d bytes, want %d", len(e.buf), len(test.prefix)+len(test.s))
			}
			if string(e.buf[:len(test.prefix)]) != string(test.prefix) {
				t.Errorf("prefix = % X, want % X", e.buf[:len(test.prefix)], test.prefix)
			}

			got, present, err := NewCursor(e.buf).ReadPropertyString()
			if err != nil {
				t.Fatalf("read back: %v", err)
			}
			if got != test.s || present != test.present {
				t.Errorf("read back (%q, %v), want (%q, %v)", got, present, test.s, test.present)
			}
		})
	}
}

func TestWriterRejectsInvalidUTF8(t *testing.T) {
	e := &encoder{}
	if err := e.writeSaveString("a\xffb"); err == nil {
		t.Errorf("expected error for invalid UTF-8")
	}
}
