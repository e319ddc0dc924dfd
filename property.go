// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"fmt"
	"math"
)

// PropertyType is the type tag of a property tree node.
type PropertyType uint8

const (
	TypeNone       PropertyType = 0
	TypeBool       PropertyType = 1
	TypeNumber     PropertyType = 2
	TypeString     PropertyType = 3
	TypeList       PropertyType = 4
	TypeDictionary PropertyType = 5
)

// String returns the type name.
func (t PropertyType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeDictionary:
		return "dictionary"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

func (t PropertyType) valid() bool {
	return t <= TypeDictionary
}

// Property is a node of a property tree.
//
// The zero value is a None node. Lists and Dictionaries own their children;
// the tree never contains cycles.
type Property struct {
	typ  PropertyType
	flag byte // opaque per-node byte, written back unchanged

	boolVal bool
	numVal  float64
	strVal  string
	strSet  bool // false for an absent string

	// List items and Dictionary entries share one ordered slice. List items
	// keep their wire key, which is normally absent.
	entries []DictEntry
}

// DictEntry is one key/value pair of a Dictionary, or one List item.
type DictEntry struct {
	Key   string
	Value *Property

	// keySet is false when the key was written as absent. Dictionary keys
	// built with Entry are present; List items default to absent.
	keySet bool
}

// None returns a None node.
func None() *Property {
	return &Property{typ: TypeNone}
}

// Bool returns a Bool node.
func Bool(v bool) *Property {
	return &Property{typ: TypeBool, boolVal: v}
}

// Number returns a Number node.
func Number(v float64) *Property {
	return &Property{typ: TypeNumber, numVal: v}
}

// String returns a String node holding s. An empty s is a present, empty
// string; use NullString for an absent one.
func String(s string) *Property {
	return &Property{typ: TypeString, strVal: s, strSet: true}
}

// NullString returns a String node whose value is absent.
func NullString() *Property {
	return &Property{typ: TypeString}
}

// List returns a List node with the given items.
func List(items ...*Property) *Property {
	p := &Property{typ: TypeList, entries: make([]DictEntry, 0, len(items))}
	for _, it := range items {
		p.Append(it)
	}
	return p
}

// Dictionary returns a Dictionary node with the given entries in order.
func Dictionary(entries ...DictEntry) *Property {
	p := &Property{typ: TypeDictionary, entries: make([]DictEntry, 0, len(entries))}
	for _, e := range entries {
		if e.Key != "" {
			e.keySet = true
		}
		p.entries = append(p.entries, e)
	}
	return p
}

// Entry creates a Dictionary entry.
func Entry(key string, value *Property) DictEntry {
	return DictEntry{Key: key, Value: value, keySet: true}
}

// Type returns the node type. A nil node reports TypeNone.
func (p *Property) Type() PropertyType {
	if p == nil {
		return TypeNone
	}
	return p.typ
}

// IsNone reports whether p is nil or a None node.
func (p *Property) IsNone() bool {
	return p.Type() == TypeNone
}

// Flag returns the opaque byte stored after the type tag.
func (p *Property) Flag() byte {
	if p == nil {
		return 0
	}
	return p.flag
}

// SetFlag sets the opaque byte written after the type tag.
func (p *Property) SetFlag(b byte) {
	p.flag = b
}

func (p *Property) typeError(want PropertyType) error {
	return fmt.Errorf("property is %s, not %s", p.Type(), want)
}

// AsBool returns the value of a Bool node.
func (p *Property) AsBool() (bool, error) {
	if p.Type() != TypeBool {
		return false, p.typeError(TypeBool)
	}
	return p.boolVal, nil
}

// AsNumber returns the value of a Number node.
func (p *Property) AsNumber() (float64, error) {
	if p.Type() != TypeNumber {
		return 0, p.typeError(TypeNumber)
	}
	return p.numVal, nil
}

// AsString returns the value of a String node. present is false when the
// string was stored as absent.
func (p *Property) AsString() (s string, present bool, err error) {
	if p.Type() != TypeString {
		return "", false, p.typeError(TypeString)
	}
	return p.strVal, p.strSet, nil
}

// AsList returns the items of a List node.
func (p *Property) AsList() ([]*Property, error) {
	if p.Type() != TypeList {
		return nil, p.typeError(TypeList)
	}
	items := make([]*Property, len(p.entries))
	for i, e := range p.entries {
		items[i] = e.Value
	}
	return items, nil
}

// AsDictionary returns the entries of a Dictionary node in order. The
// returned slice is a copy; the values are shared.
func (p *Property) AsDictionary() ([]DictEntry, error) {
	if p.Type() != TypeDictionary {
		return nil, p.typeError(TypeDictionary)
	}
	out := make([]DictEntry, len(p.entries))
	copy(out, p.entries)
	return out, nil
}

// Len returns the number of children of a List or Dictionary, otherwise 0.
func (p *Property) Len() int {
	switch p.Type() {
	case TypeList, TypeDictionary:
		return len(p.entries)
	}
	return 0
}

// Get returns the value for key in a Dictionary, or nil. When a key occurs
// more than once the last occurrence wins.
func (p *Property) Get(key string) *Property {
	if p.Type() != TypeDictionary {
		return nil
	}
	for i := len(p.entries) - 1; i >= 0; i-- {
		if p.entries[i].Key == key {
			return p.entries[i].Value
		}
	}
	return nil
}

// Index returns item i of a List.
func (p *Property) Index(i int) (*Property, error) {
	if p.Type() != TypeList {
		return nil, p.typeError(TypeList)
	}
	if i < 0 || i >= len(p.entries) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", i, len(p.entries))
	}
	return p.entries[i].Value, nil
}

// Set replaces the value of the last entry named key, or appends a new entry.
// It panics if p is not a Dictionary.
func (p *Property) Set(key string, value *Property) {
	if p.Type() != TypeDictionary {
		panic("factorio: Set on " + p.Type().String() + " property")
	}
	for i := len(p.entries) - 1; i >= 0; i-- {
		if p.entries[i].Key == key {
			p.entries[i].Value = value
			return
		}
	}
	p.entries = append(p.entries, Entry(key, value))
}

// Delete removes every entry named key from a Dictionary and reports whether
// any was found.
func (p *Property) Delete(key string) bool {
	if p.Type() != TypeDictionary {
		return false
	}
	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	found := len(kept) != len(p.entries)
	p.entries = kept
	return found
}

// Append adds an item to a List. It panics if p is not a List.
func (p *Property) Append(value *Property) {
	if p.Type() != TypeList {
		panic("factorio: Append on " + p.Type().String() + " property")
	}
	p.entries = append(p.entries, DictEntry{Value: value})
}

// Equal reports whether two trees have the same structure and values,
// including the opaque flag bytes and absent strings. Numbers compare by
// bit pattern so NaN equals itself.
func (p *Property) Equal(o *Property) bool {
	if p.Type() != o.Type() || p.Flag() != o.Flag() {
		return false
	}
	if p == nil || o == nil {
		return true
	}
	switch p.typ {
	case TypeBool:
		return p.boolVal == o.boolVal
	case TypeNumber:
		return math.Float64bits(p.numVal) == math.Float64bits(o.numVal)
	case TypeString:
		return p.strSet == o.strSet && p.strVal == o.strVal
	case TypeList, TypeDictionary:
		if len(p.entries) != len(o.entries) {
			return false
		}
		for i := range p.entries {
			a, b := p.entries[i], o.entries[i]
			if a.Key != b.Key || a.keySet != b.keySet || !a.Value.Equal(b.Value) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of p.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	c := *p
	if p.entries != nil {
		c.entries = make([]DictEntry, len(p.entries))
		for i, e := range p.entries {
			e.Value = e.Value.Clone()
			c.entries[i] = e
		}
	}
	return &c
}

// String returns a short human-readable form of p.
func (p *Property) String() string {
	switch p.Type() {
	case TypeBool:
		return fmt.Sprint(p.boolVal)
	case TypeNumber:
		return fmt.Sprint(p.numVal)
	case TypeString:
		if !p.strSet {
			return "<absent>"
		}
		return fmt.Sprintf("%q", p.strVal)
	case TypeList:
		return fmt.Sprintf("list[%d]", len(p.entries))
	case TypeDictionary:
		return fmt.Sprintf("dictionary[%d]", len(p.entries))
	}
	return "none"
}
