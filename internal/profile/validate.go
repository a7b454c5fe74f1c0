// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NiklasRosenstein/tire/internal/document"
	"github.com/NiklasRosenstein/tire/internal/log"
)

// Policy decides what Validate does with disallowed content.
type Policy int

const (
	// Strict rejects the profile and leaves it unchanged.
	Strict Policy = iota
	// Lenient strips disallowed keys and logs a warning for each removal.
	Lenient
)

func (p Policy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}

// Mode is the user-facing validation setting.
type Mode string

const (
	// ModeAuto is lenient for the embedded default and strict for everything
	// loaded from elsewhere.
	ModeAuto    Mode = "auto"
	ModeStrict  Mode = "strict"
	ModeLenient Mode = "lenient"
)

// Modes lists the accepted Mode values.
var Modes = []string{string(ModeAuto), string(ModeStrict), string(ModeLenient)}

// ParseMode converts a flag value into a Mode. The empty string is auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeStrict:
		return ModeStrict, nil
	case ModeLenient:
		return ModeLenient, nil
	}
	return "", fmt.Errorf("invalid validation mode %q: must be one of %v", s, Modes)
}

// PolicyFor resolves the mode for a profile source.
func (m Mode) PolicyFor(source string) Policy {
	switch m {
	case ModeStrict:
		return Strict
	case ModeLenient:
		return Lenient
	}
	if IsDefaultSource(source) {
		return Lenient
	}
	return Strict
}

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("profile validation failed")

// Violation identifies which rule a profile broke.
type Violation int

const (
	DisallowedTopLevelKeys Violation = iota + 1
	DisallowedToolKeys
	MissingOrInvalidToolKey
)

func (v Violation) String() string {
	switch v {
	case DisallowedTopLevelKeys:
		return "DisallowedTopLevelKeys"
	case DisallowedToolKeys:
		return "DisallowedToolKeys"
	case MissingOrInvalidToolKey:
		return "MissingOrInvalidToolKey"
	}
	return fmt.Sprintf("Violation(%d)", int(v))
}

// ValidationError describes a strict validation failure.
type ValidationError struct {
	Profile   string
	Violation Violation
	Keys      []string
}

func (e *ValidationError) Error() string {
	switch e.Violation {
	case DisallowedTopLevelKeys:
		return fmt.Sprintf("profile %s: unexpected top-level keys (only [%s] is allowed): %s",
			e.Profile, ToolKey, strings.Join(e.Keys, ", "))
	case DisallowedToolKeys:
		return fmt.Sprintf("profile %s: unexpected [%s.*] keys (allowed: %s): %s",
			e.Profile, ToolKey, strings.Join(KnownTools, ", "), strings.Join(e.Keys, ", "))
	default:
		return fmt.Sprintf("profile %s: the %q key is missing or not a table", e.Profile, ToolKey)
	}
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the profile against the allow-list. Under Strict the first
// violation is returned and the profile is not modified. Under Lenient every
// violation is logged and the offending keys are removed, so the profile only
// holds allow-listed content afterwards; the return value is always nil.
func (p *Profile) Validate(policy Policy) error {
	if p.Root == nil {
		p.Root = document.Document{}
	}

	if extra := p.unexpectedTopLevelKeys(); len(extra) > 0 {
		if policy == Strict {
			return &ValidationError{Profile: p.Name, Violation: DisallowedTopLevelKeys, Keys: extra}
		}
		log.Warnf("unexpected top-level keys found in profile %s: %s", p.Name, strings.Join(extra, ", "))
		for _, k := range extra {
			delete(p.Root, k)
		}
	}

	raw, present := p.Root[ToolKey]
	tools, isTable := document.AsTable(raw)
	if !present || !isTable {
		if policy == Strict {
			return &ValidationError{Profile: p.Name, Violation: MissingOrInvalidToolKey}
		}
		if present {
			log.Warnf("the %s key in profile %s is not a table", ToolKey, p.Name)
		} else {
			log.Warnf("profile %s has no [%s] table", p.Name, ToolKey)
		}
		delete(p.Root, ToolKey)
		return nil
	}

	var unknown []string
	for _, k := range tools.Keys() {
		if !IsKnownTool(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		if policy == Strict {
			return &ValidationError{Profile: p.Name, Violation: DisallowedToolKeys, Keys: unknown}
		}
		log.Warnf("unexpected [%s.*] keys found in profile %s: %s", ToolKey, p.Name, strings.Join(unknown, ", "))
		for _, k := range unknown {
			delete(tools, k)
		}
	}

	return nil
}

func (p *Profile) unexpectedTopLevelKeys() []string {
	var keys []string
	for _, k := range p.Root.Keys() {
		if k != ToolKey {
			keys = append(keys, k)
		}
	}
	return keys
}
