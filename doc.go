// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

/*
Package factorio provides pure Go decoding and encoding of Factorio's binary
settings and save header files.

Two file kinds are supported:

  - mod-settings.dat, a version header followed by a property tree: a
    recursive, self-describing encoding of None, Bool, Number, String, List
    and Dictionary values.
  - level-init.dat, the save header found inside a save archive: a version
    header followed by a flat sequence of fields whose presence depends on
    the version.

# Features

  - Pure Go, no CGO or external dependencies
  - Decode and encode both file kinds, byte for byte
  - Typed access to mod settings sections and individual settings
  - Layered lookup across several mod-settings files
  - Save header layouts for Factorio 0.18 through 2.x (Space Age)
  - Errors carry the byte offset at which decoding failed

# Basic Usage

Reading mod settings:

	data, err := os.ReadFile("mod-settings.dat")
	if err != nil {
		log.Fatal(err)
	}

	settings, err := factorio.ParseModSettings(data)
	if err != nil {
		log.Fatal(err)
	}

	if v, ok := settings.Setting(factorio.SectionStartup, "my-setting"); ok {
		fmt.Println(v)
	}

Changing a setting and writing it back:

	settings.SetSetting(factorio.SectionRuntimeGlobal, "my-setting", factorio.Number(5))
	out, err := settings.MarshalBinary()

Reading a save header (the caller extracts level-init.dat from the save's
zip archive):

	header, err := factorio.ParseSaveHeader(levelInit)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range header.Mods {
		fmt.Println(m)
	}

# Strings

Property tree strings carry an "empty" flag byte in front of the length. A
set flag is decoded as an absent string, which is kept distinct from a
present, empty one so that files re-encode unchanged. Save header strings
have no such flag.

# Trailing Data

Property trees and mod settings must end exactly where the top-level value
ends; extra bytes fail with [ErrTrailingData]. Save headers are followed by
further data in level-init.dat, so trailing bytes are ignored there. Both
defaults can be changed with [WithTrailingData].

# Limitations

  - No file or zip archive access; callers supply the bytes
  - No validation of setting names or values against installed mods
  - Save header versions before 0.18 and from 3.0 on fail with
    [ErrUnsupportedVersion]
*/
package factorio
