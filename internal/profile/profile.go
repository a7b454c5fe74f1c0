// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	_ "embed"
	"slices"
	"sync"

	"github.com/NiklasRosenstein/tire/internal/document"
)

// DefaultName names the embedded profile.
const DefaultName = "default"

// ToolKey is the only top-level key a profile may define.
const ToolKey = "tool"

// KnownTools lists the [tool.*] sections a profile may configure.
var KnownTools = []string{"mypy", "ruff"}

//go:embed profiles/default.toml
var defaultProfile []byte

var parseDefault = sync.OnceValues(func() (document.Document, error) {
	return document.Parse(DefaultName, defaultProfile)
})

// Profile is a loaded profile document.
type Profile struct {
	// Name is "default", the URL the profile was fetched from, or a file://
	// URL for profiles read from disk.
	Name string
	Root document.Document
}

// IsKnownTool reports whether tool is in KnownTools.
func IsKnownTool(tool string) bool {
	return slices.Contains(KnownTools, tool)
}

// Default returns a fresh copy of the embedded default profile.
func Default() (*Profile, error) {
	doc, err := parseDefault()
	if err != nil {
		return nil, err
	}
	return &Profile{Name: DefaultName, Root: doc.Clone()}, nil
}

// LoadString parses TOML text into an unvalidated profile.
func LoadString(name string, text []byte) (*Profile, error) {
	doc, err := document.Parse(name, text)
	if err != nil {
		return nil, err
	}
	return &Profile{Name: name, Root: doc}, nil
}

// Merge layers the project document over the profile. The project wins on
// every conflict; the profile is left untouched.
func (p *Profile) Merge(project document.Document) document.Document {
	return document.Merge(p.Root, project)
}

// Tools returns the configured [tool.*] section names in sorted order.
func (p *Profile) Tools() []string {
	tools, ok := p.Root.Table(ToolKey)
	if !ok {
		return nil
	}
	return tools.Keys()
}
