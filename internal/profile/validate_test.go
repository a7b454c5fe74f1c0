// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package profile

import (
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, text string) *Profile {
	t.Helper()
	p, err := LoadString("test", []byte(text))
	require.NoError(t, err)
	return p
}

// captureLogs routes log entries into memory for the duration of the test.
func captureLogs(t *testing.T) *memory.Handler {
	t.Helper()
	h := memory.New()
	prev := log.Log
	log.Log = &log.Logger{Handler: h, Level: log.DebugLevel}
	t.Cleanup(func() { log.Log = prev })
	return h
}

func warnings(h *memory.Handler) []string {
	var msgs []string
	for _, e := range h.Entries {
		if e.Level == log.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		violation     Violation
		keys          []string
		lenientTools  []string
		lenientHasKey bool
		warning       []string
	}{
		{
			name:          "unknown tool",
			text:          "[tool.mypy]\nstrict = true\n\n[tool.flake8]\nmax-line-length = 100\n",
			violation:     DisallowedToolKeys,
			keys:          []string{"flake8"},
			lenientTools:  []string{"mypy"},
			lenientHasKey: true,
			warning:       []string{"[tool.*]", "flake8"},
		},
		{
			name:          "extra top-level key",
			text:          "[project]\nname = \"x\"\n\n[tool.ruff]\nline-length = 100\n",
			violation:     DisallowedTopLevelKeys,
			keys:          []string{"project"},
			lenientTools:  []string{"ruff"},
			lenientHasKey: true,
			warning:       []string{"top-level", "project"},
		},
		{
			name:      "tool is not a table",
			text:      "tool = 3\n",
			violation: MissingOrInvalidToolKey,
			warning:   []string{"tool", "not a table"},
		},
		{
			name:      "tool is missing",
			text:      "",
			violation: MissingOrInvalidToolKey,
			warning:   []string{"no [tool] table"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/strict", func(t *testing.T) {
			p := mustLoad(t, tt.text)
			before := p.Root.Clone()

			err := p.Validate(Strict)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.violation, verr.Violation)
			assert.Equal(t, tt.keys, verr.Keys)
			assert.Equal(t, "test", verr.Profile)
			assert.Equal(t, before, p.Root)
		})

		t.Run(tt.name+"/lenient", func(t *testing.T) {
			p := mustLoad(t, tt.text)
			logs := captureLogs(t)

			require.NoError(t, p.Validate(Lenient))

			warned := warnings(logs)
			require.Len(t, warned, 1)
			for _, part := range tt.warning {
				assert.Contains(t, warned[0], part)
			}

			assert.Equal(t, tt.lenientTools, p.Tools())
			_, ok := p.Root[ToolKey]
			assert.Equal(t, tt.lenientHasKey, ok)
			for _, k := range p.Root.Keys() {
				assert.Equal(t, ToolKey, k)
			}
			if tt.lenientHasKey {
				require.NoError(t, p.Validate(Strict))
			}
		})
	}
}

func TestValidate_StrictDoesNotWarn(t *testing.T) {
	logs := captureLogs(t)
	p := mustLoad(t, "[tool.flake8]\nx = 1\n")
	require.Error(t, p.Validate(Strict))
	assert.Empty(t, warnings(logs))
}

func TestValidate_LenientWarnsPerViolation(t *testing.T) {
	logs := captureLogs(t)
	p := mustLoad(t, "extra = 1\n\n[tool.flake8]\nx = 1\n\n[tool.black]\ny = 2\n")
	require.NoError(t, p.Validate(Lenient))

	warned := warnings(logs)
	require.Len(t, warned, 2)
	assert.Contains(t, warned[0], "extra")
	assert.Contains(t, warned[1], "black, flake8")
}

func TestValidate_StrictReportsTopLevelFirst(t *testing.T) {
	p := mustLoad(t, "extra = 1\n\n[tool.flake8]\nx = 1\n")
	err := p.Validate(Strict)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, DisallowedTopLevelKeys, verr.Violation)
}

func TestValidate_EmptyToolTableIsValid(t *testing.T) {
	p := mustLoad(t, "[tool]\n")
	require.NoError(t, p.Validate(Strict))
	assert.Empty(t, p.Tools())
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Profile: "p", Violation: DisallowedToolKeys, Keys: []string{"flake8", "black"}}
	assert.Contains(t, err.Error(), "flake8, black")
	assert.Contains(t, err.Error(), "mypy, ruff")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"STRICT", ModeStrict, false},
		{"lenient", ModeLenient, false},
		{"loose", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		mode   Mode
		source string
		want   Policy
	}{
		{ModeAuto, "", Lenient},
		{ModeAuto, DefaultName, Lenient},
		{ModeAuto, "https://example.com/p.toml", Strict},
		{ModeAuto, "/tmp/p.toml", Strict},
		{ModeStrict, DefaultName, Strict},
		{ModeLenient, "https://example.com/p.toml", Lenient},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.PolicyFor(tt.source))
		})
	}
	assert.Equal(t, "lenient", Lenient.String())
	assert.Equal(t, "strict", Strict.String())
}
