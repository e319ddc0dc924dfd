// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import "testing"

func chainLayers(t *testing.T) (*ModSettings, *ModSettings) {
	t.Helper()

	base := NewModSettings(V(1, 1, 100))
	for _, s := range []struct {
		section Section
		name    string
		value   *Property
	}{
		{SectionStartup, "ore-richness", Number(1)},
		{SectionStartup, "enable-trains", Bool(true)},
		{SectionRuntimeGlobal, "pollution", Number(0.5)},
	} {
		if err := base.SetSetting(s.section, s.name, s.value); err != nil {
			t.Fatalf("set %s: %v", s.name, err)
		}
	}

	user := NewModSettings(V(1, 1, 110))
	if err := user.SetSetting(SectionStartup, "ore-richness", Number(3)); err != nil {
		t.Fatalf("set ore-richness: %v", err)
	}
	if err := user.SetSetting(SectionRuntimePerUser, "show-alerts", Bool(false)); err != nil {
		t.Fatalf("set show-alerts: %v", err)
	}
	return base, user
}

func TestSettingsChainLookup(t *testing.T) {
	base, user := chainLayers(t)

	chain, err := NewSettingsChain(base, user)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}
	if chain.Len() != 2 {
		t.Errorf("len = %d, want 2", chain.Len())
	}

	tests := []struct {
		name    string
		found   bool
		section Section
		number  float64
	}{
		{"ore-richness", true, SectionStartup, 3},
		{"pollution", true, SectionRuntimeGlobal, 0.5},
		{"missing", false, "", 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, ok := chain.Lookup(test.name)
			if ok != test.found {
				t.Fatalf("found = %v, want %v", ok, test.found)
			}
			if !ok {
				return
			}
			if s.Section != test.section {
				t.Errorf("section = %q, want %q", s.Section, test.section)
			}
			if n, _ := s.Value.AsNumber(); n != test.number {
				t.Errorf("value = %v, want %v", n, test.number)
			}
		})
	}

	if s, ok := chain.Lookup("show-alerts"); !ok || s.Section != SectionRuntimePerUser {
		t.Errorf("show-alerts = %+v, %v", s, ok)
	}
}

func TestSettingsChainNames(t *testing.T) {
	base, user := chainLayers(t)
	chain, err := NewSettingsChain(base, user)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}

	want := []string{"ore-richness", "enable-trains", "pollution", "show-alerts"}
	got := chain.Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSettingsChainLookupAfterLayerChange(t *testing.T) {
	base, user := chainLayers(t)
	chain, err := NewSettingsChain(base, user)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}

	// Remove the override after the index was built.
	user.Startup.Delete("ore-richness")

	s, ok := chain.Lookup("ore-richness")
	if !ok {
		t.Fatalf("ore-richness not found after override removal")
	}
	if n, _ := s.Value.AsNumber(); n != 1 {
		t.Errorf("value = %v, want base value 1", n)
	}
}

func TestSettingsChainMerge(t *testing.T) {
	base, user := chainLayers(t)
	chain, err := NewSettingsChain(base, user)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}

	merged := chain.Merge()
	if merged.Version != V(1, 1, 110) {
		t.Errorf("merged version = %v, want highest-priority layer's", merged.Version)
	}
	if len(merged.Settings()) != 4 {
		t.Errorf("merged has %d settings, want 4", len(merged.Settings()))
	}
	v, ok := merged.Setting(SectionStartup, "ore-richness")
	if !ok {
		t.Fatalf("ore-richness missing from merge")
	}
	if n, _ := v.AsNumber(); n != 3 {
		t.Errorf("ore-richness = %v, want 3", n)
	}

	// Merged values are copies.
	v.SetFlag(7)
	orig, _ := user.Setting(SectionStartup, "ore-richness")
	if orig.Flag() != 0 {
		t.Errorf("merge shares nodes with its layers")
	}

	if _, err := merged.MarshalBinary(); err != nil {
		t.Errorf("marshal merged: %v", err)
	}
}

func TestSettingsChainRejectsNilLayer(t *testing.T) {
	if _, err := NewSettingsChain(NewModSettings(V(1, 0, 0)), nil); err == nil {
		t.Errorf("expected error for nil layer")
	}
}
