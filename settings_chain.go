// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import "fmt"

// SettingsChain layers several mod-settings files, e.g. a modpack's defaults
// under a player's own file. Later layers take priority over earlier ones.
//
// A chain is built once and then only read; Lookup may be called from
// several goroutines.
type SettingsChain struct {
	layers  []*ModSettings
	index   map[string]chainRef // setting name -> highest-priority holder
	ordered []string            // setting names in first-seen order
}

type chainRef struct {
	layer   int
	section Section
}

// NewSettingsChain builds a chain in order of increasing priority. Nil layers
// are rejected.
func NewSettingsChain(layers ...*ModSettings) (*SettingsChain, error) {
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("settings chain: layer %d is nil", i)
		}
	}
	chain := &SettingsChain{layers: layers}
	chain.rebuildIndex()
	return chain, nil
}

// rebuildIndex walks layers from highest priority down so the first holder
// seen for a name is the one that wins.
func (sc *SettingsChain) rebuildIndex() {
	sc.index = make(map[string]chainRef)
	sc.ordered = sc.ordered[:0]

	for i := len(sc.layers) - 1; i >= 0; i-- {
		for _, s := range sc.layers[i].Settings() {
			if _, exists := sc.index[s.Name]; !exists {
				sc.index[s.Name] = chainRef{layer: i, section: s.Section}
			}
		}
	}

	seen := make(map[string]struct{}, len(sc.index))
	for _, l := range sc.layers {
		for _, s := range l.Settings() {
			if _, ok := seen[s.Name]; ok {
				continue
			}
			seen[s.Name] = struct{}{}
			sc.ordered = append(sc.ordered, s.Name)
		}
	}
}

// Len returns the number of layers.
func (sc *SettingsChain) Len() int {
	return len(sc.layers)
}

// Lookup returns the highest-priority value of the named setting.
func (sc *SettingsChain) Lookup(name string) (Setting, bool) {
	ref, ok := sc.index[name]
	if !ok {
		return Setting{}, false
	}
	v, ok := sc.layers[ref.layer].Setting(ref.section, name)
	if !ok {
		return sc.lookupLinear(name)
	}
	return Setting{Section: ref.section, Name: name, Value: v}, true
}

// lookupLinear is the fallback when a layer was modified after the chain
// was built.
func (sc *SettingsChain) lookupLinear(name string) (Setting, bool) {
	for i := len(sc.layers) - 1; i >= 0; i-- {
		for _, s := range Sections {
			if v, ok := sc.layers[i].Setting(s, name); ok {
				return Setting{Section: s, Name: name, Value: v}, true
			}
		}
	}
	return Setting{}, false
}

// Names returns every setting name in the chain, in the order each was first
// seen walking layers from lowest to highest priority.
func (sc *SettingsChain) Names() []string {
	out := make([]string, len(sc.ordered))
	copy(out, sc.ordered)
	return out
}

// Merge flattens the chain into a single ModSettings. Its version is the one
// of the highest-priority layer; values are deep copies.
func (sc *SettingsChain) Merge() *ModSettings {
	var v Version
	if n := len(sc.layers); n > 0 {
		v = sc.layers[n-1].Version
	}
	merged := NewModSettings(v)
	for _, name := range sc.ordered {
		s, ok := sc.Lookup(name)
		if !ok {
			continue
		}
		// Section is always one of Sections, so SetSetting cannot fail.
		_ = merged.SetSetting(s.Section, s.Name, s.Value.Clone())
	}
	return merged
}
