// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import "fmt"

// decodeProperty reads one node and, for containers, its children.
// depth is the number of enclosing Lists and Dictionaries.
func decodeProperty(c *Cursor, cfg *config, depth int) (*Property, error) {
	start := c.off
	p, err := decodePropertyAt(c, cfg, depth)
	if err != nil {
		c.off = start
		return nil, err
	}
	return p, nil
}

func decodePropertyAt(c *Cursor, cfg *config, depth int) (*Property, error) {
	tagOff := c.off
	tag, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	typ := PropertyType(tag)
	if !typ.valid() {
		return nil, &DecodeError{Kind: KindUnknownTypeTag, Offset: tagOff, Tag: tag}
	}

	flag, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	p := &Property{typ: typ, flag: flag}

	switch typ {
	case TypeNone:
	case TypeBool:
		if p.boolVal, err = c.ReadBool(); err != nil {
			return nil, err
		}
	case TypeNumber:
		if p.numVal, err = c.ReadF64(); err != nil {
			return nil, err
		}
	case TypeString:
		if p.strVal, p.strSet, err = c.ReadPropertyString(); err != nil {
			return nil, err
		}
	case TypeList, TypeDictionary:
		if depth >= cfg.maxDepth {
			return nil, errAt(KindMaxDepthExceeded, tagOff, fmt.Sprintf("limit %d", cfg.maxDepth))
		}
		count, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		// Every child takes at least three bytes (key flag, tag, flag), so a
		// count the remaining data cannot hold is truncated input.
		if uint64(count)*3 > uint64(c.Remaining()) {
			return nil, errAt(KindUnexpectedEOF, c.off, fmt.Sprintf("%s of %d entries", typ, count))
		}
		p.entries = make([]DictEntry, 0, count)
		for i := uint32(0); i < count; i++ {
			key, present, err := c.ReadPropertyString()
			if err != nil {
				return nil, err
			}
			value, err := decodeProperty(c, cfg, depth+1)
			if err != nil {
				return nil, err
			}
			p.entries = append(p.entries, DictEntry{Key: key, Value: value, keySet: present})
		}
	}
	return p, nil
}

// encodeProperty writes p and its children.
func encodeProperty(e *encoder, p *Property) error {
	if p == nil {
		p = None()
	}
	e.writeU8(uint8(p.typ))
	e.writeU8(p.flag)

	switch p.typ {
	case TypeNone:
	case TypeBool:
		e.writeBool(p.boolVal)
	case TypeNumber:
		e.writeF64(p.numVal)
	case TypeString:
		return e.writePropertyString(p.strVal, p.strSet)
	case TypeList, TypeDictionary:
		e.writeU32(uint32(len(p.entries)))
		for i, entry := range p.entries {
			if err := e.writePropertyString(entry.Key, entry.keySet || entry.Key != ""); err != nil {
				return fmt.Errorf("encode %s key %d: %w", p.typ, i, err)
			}
			if err := encodeProperty(e, entry.Value); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("encode property: unknown type %d", uint8(p.typ))
	}
	return nil
}

// MarshalBinary encodes p as a bare property tree node, without a version
// header.
func (p *Property) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(nil)
}

// AppendBinary appends the encoding of p to b.
func (p *Property) AppendBinary(b []byte) ([]byte, error) {
	e := &encoder{buf: b}
	if err := encodeProperty(e, p); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// UnmarshalProperty decodes a bare property tree node, without a version
// header. Trailing bytes are rejected unless WithTrailingData(true) is given.
func UnmarshalProperty(data []byte, opts ...Option) (*Property, error) {
	cfg := newConfig(false, opts)
	c := NewCursor(data)
	p, err := decodeProperty(c, cfg, 0)
	if err != nil {
		return nil, err
	}
	if err := cfg.finish(c); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadProperty decodes one property tree node at the cursor's position,
// leaving the cursor just past it.
func ReadProperty(c *Cursor, opts ...Option) (*Property, error) {
	return decodeProperty(c, newConfig(true, opts), 0)
}
