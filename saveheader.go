// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"fmt"
	"math"
)

// Save header layout bounds. Versions outside [minSaveVersion, maxSaveVersion)
// have no known layout.
var (
	minSaveVersion = V(0, 18, 0)
	maxSaveVersion = V(3, 0, 0)

	// Space Age widened the loaded-from build to 32 bits and added four
	// bytes after allowed commands.
	spaceAgeVersion = V(2, 0, 0)
)

// reservedSize is the number of unidentified bytes 2.0 saves carry after
// the allowed-commands byte.
const reservedSize = 4

// SaveHeader is the decoded content of level-init.dat.
type SaveHeader struct {
	Version VersionHeader `json:"version"`

	// Campaign is e.g. "freeplay" or "transport-belt-madness".
	Campaign string `json:"campaign"`
	// Name is the campaign level.
	Name string `json:"name"`
	// BaseMod is normally "base".
	BaseMod    string `json:"base_mod"`
	Difficulty uint8  `json:"difficulty"`
	Finished   bool   `json:"finished"`
	PlayerWon  bool   `json:"player_won"`
	// NextLevel is the subsequent campaign level, if any.
	NextLevel                 string `json:"next_level"`
	CanContinue               bool   `json:"can_continue"`
	FinishedButContinuing     bool   `json:"finished_but_continuing"`
	SavingReplay              bool   `json:"saving_replay"`
	AllowNonAdminDebugOptions bool   `json:"allow_non_admin_debug_options"`
	// LoadedFrom is the version of the game the save was last loaded by.
	LoadedFrom      Version48   `json:"loaded_from"`
	LoadedFromBuild BuildNumber `json:"loaded_from_build"`
	AllowedCommands bool        `json:"allowed_commands"`
	// Reserved holds the four 2.0+ bytes after AllowedCommands. Nil for
	// older saves.
	Reserved []byte `json:"reserved,omitempty"`

	Mods []SaveHeaderMod `json:"mods"`
}

// SaveHeaderMod is a mod attached to a save.
type SaveHeaderMod struct {
	Name    string    `json:"name"`
	Version Version48 `json:"version"`
	CRC     uint32    `json:"crc"`
}

// String returns "name version".
func (m SaveHeaderMod) String() string {
	return m.Name + " " + m.Version.String()
}

// saveField is one row of the save header layout. The field is present when
// the file's version is in [since, until); a zero until means no upper bound.
type saveField struct {
	name  string
	since Version
	until Version
	read  func(c *Cursor, h *SaveHeader) error
	write func(e *encoder, h *SaveHeader) error
}

func (f saveField) presentIn(v Version) bool {
	if v.Compare(f.since) < 0 {
		return false
	}
	return f.until == (Version{}) || v.Compare(f.until) < 0
}

func stringField(name string, get func(h *SaveHeader) *string) saveField {
	return saveField{
		name:  name,
		since: minSaveVersion,
		read: func(c *Cursor, h *SaveHeader) (err error) {
			*get(h), err = c.ReadSaveString()
			return err
		},
		write: func(e *encoder, h *SaveHeader) error {
			return e.writeSaveString(*get(h))
		},
	}
}

func boolField(name string, get func(h *SaveHeader) *bool) saveField {
	return saveField{
		name:  name,
		since: minSaveVersion,
		read: func(c *Cursor, h *SaveHeader) (err error) {
			*get(h), err = c.ReadBool()
			return err
		},
		write: func(e *encoder, h *SaveHeader) error {
			e.writeBool(*get(h))
			return nil
		},
	}
}

// saveHeaderLayout lists the save header fields in wire order.
var saveHeaderLayout = []saveField{
	stringField("campaign", func(h *SaveHeader) *string { return &h.Campaign }),
	stringField("name", func(h *SaveHeader) *string { return &h.Name }),
	stringField("base_mod", func(h *SaveHeader) *string { return &h.BaseMod }),
	{
		name:  "difficulty",
		since: minSaveVersion,
		read: func(c *Cursor, h *SaveHeader) (err error) {
			h.Difficulty, err = c.ReadU8()
			return err
		},
		write: func(e *encoder, h *SaveHeader) error {
			e.writeU8(h.Difficulty)
			return nil
		},
	},
	boolField("finished", func(h *SaveHeader) *bool { return &h.Finished }),
	boolField("player_won", func(h *SaveHeader) *bool { return &h.PlayerWon }),
	stringField("next_level", func(h *SaveHeader) *string { return &h.NextLevel }),
	boolField("can_continue", func(h *SaveHeader) *bool { return &h.CanContinue }),
	boolField("finished_but_continuing", func(h *SaveHeader) *bool { return &h.FinishedButContinuing }),
	boolField("saving_replay", func(h *SaveHeader) *bool { return &h.SavingReplay }),
	boolField("allow_non_admin_debug_options", func(h *SaveHeader) *bool { return &h.AllowNonAdminDebugOptions }),
	{
		name:  "loaded_from",
		since: minSaveVersion,
		read: func(c *Cursor, h *SaveHeader) (err error) {
			h.LoadedFrom, err = readVersion48(c)
			return err
		},
		write: func(e *encoder, h *SaveHeader) error {
			writeVersion48(e, h.LoadedFrom)
			return nil
		},
	},
	{
		name:  "loaded_from_build",
		since: minSaveVersion,
		until: spaceAgeVersion,
		read: func(c *Cursor, h *SaveHeader) error {
			b, err := c.ReadU16()
			h.LoadedFromBuild = BuildNumber{Value: uint32(b)}
			return err
		},
		write: func(e *encoder, h *SaveHeader) error {
			if h.LoadedFromBuild.Value > math.MaxUint16 {
				return fmt.Errorf("build %d does not fit the 16-bit field of pre-2.0 saves", h.LoadedFromBuild.Value)
			}
			e.writeU16(uint16(h.LoadedFromBuild.Value))
			return nil
		},
	},
	{
		name:  "loaded_from_build",
		since: spaceAgeVersion,
		read: func(c *Cursor, h *SaveHeader) error {
			b, err := c.ReadU32()
			h.LoadedFromBuild = BuildNumber{Value: b, Wide: true}
			return err
		},
		write: func(e *encoder, h *SaveHeader) error {
			e.writeU32(h.LoadedFromBuild.Value)
			return nil
		},
	},
	boolField("allowed_commands", func(h *SaveHeader) *bool { return &h.AllowedCommands }),
	{
		name:  "reserved",
		since: spaceAgeVersion,
		read: func(c *Cursor, h *SaveHeader) (err error) {
			h.Reserved, err = c.ReadBytes(reservedSize)
			return err
		},
		write: func(e *encoder, h *SaveHeader) error {
			if h.Reserved == nil {
				e.writeBytes(make([]byte, reservedSize))
				return nil
			}
			if len(h.Reserved) != reservedSize {
				return fmt.Errorf("reserved is %d bytes, want %d", len(h.Reserved), reservedSize)
			}
			e.writeBytes(h.Reserved)
			return nil
		},
	},
	{
		name:  "mods",
		since: minSaveVersion,
		read:  readSaveMods,
		write: writeSaveMods,
	},
}

func readSaveMods(c *Cursor, h *SaveHeader) error {
	count, err := c.ReadOptimU32()
	if err != nil {
		return err
	}
	// A mod entry takes at least 1 (name) + 3 (version) + 4 (CRC) bytes.
	if uint64(count)*8 > uint64(c.Remaining()) {
		return errAt(KindUnexpectedEOF, c.off, fmt.Sprintf("%d mods", count))
	}
	h.Mods = make([]SaveHeaderMod, 0, count)
	for i := uint32(0); i < count; i++ {
		var m SaveHeaderMod
		if m.Name, err = c.ReadSaveString(); err != nil {
			return err
		}
		if m.Version, err = readVersion48(c); err != nil {
			return err
		}
		if m.CRC, err = c.ReadU32(); err != nil {
			return err
		}
		h.Mods = append(h.Mods, m)
	}
	return nil
}

func writeSaveMods(e *encoder, h *SaveHeader) error {
	e.writeOptimU32(uint32(len(h.Mods)))
	for _, m := range h.Mods {
		if err := e.writeSaveString(m.Name); err != nil {
			return fmt.Errorf("mod %s: %w", m.Name, err)
		}
		writeVersion48(e, m.Version)
		e.writeU32(m.CRC)
	}
	return nil
}

// checkSaveVersion fails with ErrUnsupportedVersion when v has no known
// layout.
func checkSaveVersion(v Version) error {
	if v.Compare(minSaveVersion) < 0 || v.Compare(maxSaveVersion) >= 0 {
		return &DecodeError{Kind: KindUnsupportedVersion, Offset: 0, Version: v}
	}
	return nil
}

// SaveHeaderFields returns the names of the fields a save header of version
// v contains, in wire order.
func SaveHeaderFields(v Version) ([]string, error) {
	if err := checkSaveVersion(v); err != nil {
		return nil, err
	}
	var names []string
	for _, f := range saveHeaderLayout {
		if f.presentIn(v) {
			names = append(names, f.name)
		}
	}
	return names, nil
}

// ParseSaveHeader decodes level-init.dat. Bytes after the header are ignored
// unless WithTrailingData(false) is given.
func ParseSaveHeader(data []byte, opts ...Option) (*SaveHeader, error) {
	cfg := newConfig(true, opts)
	c := NewCursor(data)

	header, err := readVersionHeader(c)
	if err != nil {
		return nil, fmt.Errorf("read version header: %w", err)
	}
	if err := checkSaveVersion(header.Version); err != nil {
		return nil, err
	}
	cfg.logger.Debug("decoded version header", "version", header.Version.String(), "flag", header.Flag)

	h := &SaveHeader{Version: header}
	for _, f := range saveHeaderLayout {
		if !f.presentIn(header.Version) {
			continue
		}
		off := c.Offset()
		if err := f.read(c, h); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		cfg.logger.Debug("decoded save header field", "field", f.name, "offset", off)
	}

	if err := cfg.finish(c); err != nil {
		return nil, err
	}
	return h, nil
}

// MarshalBinary encodes h in level-init.dat layout for h.Version.
func (h *SaveHeader) MarshalBinary() ([]byte, error) {
	if err := checkSaveVersion(h.Version.Version); err != nil {
		return nil, err
	}
	e := &encoder{buf: make([]byte, 0, 128)}
	writeVersionHeader(e, h.Version)
	for _, f := range saveHeaderLayout {
		if !f.presentIn(h.Version.Version) {
			continue
		}
		if err := f.write(e, h); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.name, err)
		}
	}
	return e.buf, nil
}
