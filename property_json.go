// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// MarshalJSON encodes p as JSON. Dictionaries become objects with their key
// order preserved, Lists become arrays, None and absent strings become null.
// Flag bytes and list keys are not represented.
func (p *Property) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, p *Property) error {
	switch p.Type() {
	case TypeNone:
		buf.WriteString("null")
	case TypeBool:
		buf.WriteString(strconv.FormatBool(p.boolVal))
	case TypeNumber:
		if math.IsNaN(p.numVal) || math.IsInf(p.numVal, 0) {
			return fmt.Errorf("encode json: unsupported number %v", p.numVal)
		}
		buf.WriteString(strconv.FormatFloat(p.numVal, 'g', -1, 64))
	case TypeString:
		if !p.strSet {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(p.strVal)
		if err != nil {
			return err
		}
		buf.Write(b)
	case TypeList:
		buf.WriteByte('[')
		for i, e := range p.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case TypeDictionary:
		buf.WriteByte('{')
		for i, e := range p.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(e.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := writeJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// UnmarshalJSON replaces p with the tree described by the JSON document.
// Object key order is preserved; every number becomes a Number node.
func (p *Property) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return fmt.Errorf("decode json property: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode json property: trailing data")
	}
	*p = *v
	return nil
}

func readJSON(dec *json.Decoder) (*Property, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return None(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, err
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			list := List()
			for dec.More() {
				item, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				list.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		case '{':
			dict := Dictionary()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				dict.entries = append(dict.entries, Entry(key, value))
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return dict, nil
		}
	}
	return nil, fmt.Errorf("unexpected json token %v", tok)
}
