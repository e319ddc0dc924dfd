// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Wire format constants
const (
	// Space-optimised integers use this byte to announce a full-width value.
	optimEscape = 0xFF

	// Size of the version quad plus the flag byte that follows it.
	versionHeaderSize = 9

	// Default limit on List/Dictionary nesting.
	defaultMaxDepth = 512
)

// Version is the game version quad stored at the start of both file kinds.
type Version struct {
	Major uint16
	Minor uint16
	Patch uint16
	Build uint16
}

// V returns the version major.minor.patch with build 0.
func V(major, minor, patch uint16) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// String returns the dotted form, e.g. "1.1.110.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

// Uint64 packs the version as major<<48 | minor<<32 | patch<<16 | build.
func (v Version) Uint64() uint64 {
	return uint64(v.Major)<<48 | uint64(v.Minor)<<32 | uint64(v.Patch)<<16 | uint64(v.Build)
}

// VersionFromUint64 is the inverse of Version.Uint64.
func VersionFromUint64(u uint64) Version {
	return Version{
		Major: uint16(u >> 48),
		Minor: uint16(u >> 32),
		Patch: uint16(u >> 16),
		Build: uint16(u),
	}
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after o. All four components take part.
func (v Version) Compare(o Version) int {
	return cmp.Compare(v.Uint64(), o.Uint64())
}

// AtLeast reports whether v is major.minor.patch or newer, ignoring build.
func (v Version) AtLeast(major, minor, patch uint16) bool {
	v.Build = 0
	return v.Compare(V(major, minor, patch)) >= 0
}

// ParseVersion parses "a.b.c" or "a.b.c.d".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 && len(parts) != 4 {
		return Version{}, fmt.Errorf("parse version %q: want 3 or 4 components", s)
	}
	var n [4]uint16
	for i, p := range parts {
		u, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("parse version %q: %w", s, err)
		}
		n[i] = uint16(u)
	}
	return Version{Major: n[0], Minor: n[1], Patch: n[2], Build: n[3]}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// VersionHeader is the version quad followed by a single flag byte. The
// flag is zero in every known file.
type VersionHeader struct {
	Version Version `json:"version"`
	Flag    byte    `json:"flag"`
}

// readVersionHeader reads the 9-byte preamble.
func readVersionHeader(c *Cursor) (VersionHeader, error) {
	start := c.off
	var h VersionHeader
	var err error
	fields := []*uint16{&h.Version.Major, &h.Version.Minor, &h.Version.Patch, &h.Version.Build}
	for _, f := range fields {
		if *f, err = c.ReadU16(); err != nil {
			c.off = start
			return VersionHeader{}, err
		}
	}
	if h.Flag, err = c.ReadU8(); err != nil {
		c.off = start
		return VersionHeader{}, err
	}
	return h, nil
}

// writeVersionHeader writes the 9-byte preamble.
func writeVersionHeader(e *encoder, h VersionHeader) {
	e.writeU16(h.Version.Major)
	e.writeU16(h.Version.Minor)
	e.writeU16(h.Version.Patch)
	e.writeU16(h.Version.Build)
	e.writeU8(h.Flag)
}

// Version48 is the three-component version used inside save headers, each
// component stored as a space-optimised uint16.
type Version48 struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// String returns the dotted form, e.g. "1.1.110".
func (v Version48) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version48) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version48) UnmarshalText(b []byte) error {
	parsed, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	if parsed.Build != 0 {
		return fmt.Errorf("parse version %q: want 3 components", b)
	}
	*v = Version48{Major: parsed.Major, Minor: parsed.Minor, Patch: parsed.Patch}
	return nil
}

func readVersion48(c *Cursor) (Version48, error) {
	start := c.off
	var v Version48
	var err error
	for _, f := range []*uint16{&v.Major, &v.Minor, &v.Patch} {
		if *f, err = c.ReadOptimU16(); err != nil {
			c.off = start
			return Version48{}, err
		}
	}
	return v, nil
}

func writeVersion48(e *encoder, v Version48) {
	e.writeOptimU16(v.Major)
	e.writeOptimU16(v.Minor)
	e.writeOptimU16(v.Patch)
}

// BuildNumber is the build of the game a save was loaded from. Saves from
// 2.0 onwards store it as a uint32, older saves as a uint16.
type BuildNumber struct {
	Value uint32 `json:"value"`
	Wide  bool   `json:"wide"`
}

// String returns the build number in decimal.
func (b BuildNumber) String() string {
	return strconv.FormatUint(uint64(b.Value), 10)
}
