// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"fmt"
)

// Section names one of the three top-level dictionaries of mod-settings.dat.
type Section string

const (
	SectionStartup        Section = "startup"
	SectionRuntimeGlobal  Section = "runtime-global"
	SectionRuntimePerUser Section = "runtime-per-user"
)

// Sections lists the settings sections in file order.
var Sections = []Section{SectionStartup, SectionRuntimeGlobal, SectionRuntimePerUser}

// settingValueKey is the key holding a setting's value inside its
// per-setting dictionary.
const settingValueKey = "value"

// DecodePropertyTree decodes a version header followed by a single property
// tree node, the layout of mod-settings.dat. Trailing bytes are rejected
// unless WithTrailingData(true) is given.
func DecodePropertyTree(data []byte, opts ...Option) (VersionHeader, *Property, error) {
	cfg := newConfig(false, opts)
	c := NewCursor(data)

	header, err := readVersionHeader(c)
	if err != nil {
		return VersionHeader{}, nil, err
	}
	cfg.logger.Debug("decoded version header", "version", header.Version.String(), "flag", header.Flag)

	root, err := decodeProperty(c, cfg, 0)
	if err != nil {
		return VersionHeader{}, nil, err
	}
	if err := cfg.finish(c); err != nil {
		return VersionHeader{}, nil, err
	}
	return header, root, nil
}

// EncodePropertyTree is the inverse of DecodePropertyTree.
func EncodePropertyTree(header VersionHeader, root *Property) ([]byte, error) {
	e := &encoder{buf: make([]byte, 0, 256)}
	writeVersionHeader(e, header)
	if err := encodeProperty(e, root); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// ModSettings is the decoded content of mod-settings.dat.
type ModSettings struct {
	Version        Version   `json:"version"`
	Startup        *Property `json:"startup"`
	RuntimeGlobal  *Property `json:"runtime-global"`
	RuntimePerUser *Property `json:"runtime-per-user"`

	// Extra holds any other root entries, in file order.
	Extra []DictEntry `json:"-"`
}

// NewModSettings returns settings with three empty sections.
func NewModSettings(v Version) *ModSettings {
	return &ModSettings{
		Version:        v,
		Startup:        Dictionary(),
		RuntimeGlobal:  Dictionary(),
		RuntimePerUser: Dictionary(),
	}
}

// ParseModSettings decodes mod-settings.dat. The header flag must be zero and
// the root must be a Dictionary holding the three settings sections.
func ParseModSettings(data []byte, opts ...Option) (*ModSettings, error) {
	header, root, err := DecodePropertyTree(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode mod settings: %w", err)
	}
	if header.Flag != 0 {
		return nil, errAt(KindMalformed, versionHeaderSize-1, "version header flag is set")
	}
	if root.Type() != TypeDictionary {
		return nil, errAt(KindMalformed, versionHeaderSize, "root is "+root.Type().String()+", not dictionary")
	}

	ms := &ModSettings{Version: header.Version}
	for _, entry := range root.entries {
		switch Section(entry.Key) {
		case SectionStartup:
			ms.Startup = entry.Value
		case SectionRuntimeGlobal:
			ms.RuntimeGlobal = entry.Value
		case SectionRuntimePerUser:
			ms.RuntimePerUser = entry.Value
		default:
			ms.Extra = append(ms.Extra, entry)
		}
	}
	for _, s := range Sections {
		if ms.Section(s) == nil {
			return nil, errAt(KindMalformed, versionHeaderSize, fmt.Sprintf("settings section %q missing", s))
		}
	}
	return ms, nil
}

// Root returns the top-level dictionary as it is written to disk.
func (ms *ModSettings) Root() *Property {
	root := Dictionary(
		Entry(string(SectionStartup), ms.Startup),
		Entry(string(SectionRuntimeGlobal), ms.RuntimeGlobal),
		Entry(string(SectionRuntimePerUser), ms.RuntimePerUser),
	)
	root.entries = append(root.entries, ms.Extra...)
	return root
}

// MarshalBinary encodes the settings in mod-settings.dat layout.
func (ms *ModSettings) MarshalBinary() ([]byte, error) {
	return EncodePropertyTree(VersionHeader{Version: ms.Version}, ms.Root())
}

// Section returns the dictionary for s, or nil.
func (ms *ModSettings) Section(s Section) *Property {
	switch s {
	case SectionStartup:
		return ms.Startup
	case SectionRuntimeGlobal:
		return ms.RuntimeGlobal
	case SectionRuntimePerUser:
		return ms.RuntimePerUser
	}
	return nil
}

// Setting is one mod setting.
type Setting struct {
	Section Section
	Name    string
	Value   *Property
}

// Setting returns the value of the named setting in section s.
func (ms *ModSettings) Setting(s Section, name string) (*Property, bool) {
	sec := ms.Section(s)
	if sec.Type() != TypeDictionary {
		return nil, false
	}
	v := sec.Get(name).Get(settingValueKey)
	return v, v != nil
}

// SetSetting stores value as the named setting in section s, creating the
// per-setting dictionary if needed.
func (ms *ModSettings) SetSetting(s Section, name string, value *Property) error {
	sec := ms.Section(s)
	if sec == nil {
		return fmt.Errorf("set setting %s: unknown section %q", name, s)
	}
	if sec.Type() != TypeDictionary {
		return fmt.Errorf("set setting %s: section %s is %s", name, s, sec.Type())
	}
	holder := sec.Get(name)
	if holder.Type() != TypeDictionary {
		holder = Dictionary()
		sec.Set(name, holder)
	}
	holder.Set(settingValueKey, value)
	return nil
}

// Settings returns every setting in file order: section by section, and in
// each section in the order the settings were stored. Entries that do not
// have the name -> {value = ...} shape are skipped.
func (ms *ModSettings) Settings() []Setting {
	var out []Setting
	for _, s := range Sections {
		sec := ms.Section(s)
		if sec.Type() != TypeDictionary {
			continue
		}
		for _, entry := range sec.entries {
			v := entry.Value.Get(settingValueKey)
			if v == nil {
				continue
			}
			out = append(out, Setting{Section: s, Name: entry.Key, Value: v})
		}
	}
	return out
}
