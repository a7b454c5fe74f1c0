// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCacheDir points TIRE_CACHE_DIR at a fresh temp dir with caching on.
func withCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TIRE_CACHE_DIR", dir)
	t.Setenv("TIRE_CACHE", "")
	return dir
}

// TestDir_WithTIRE_CACHE_DIR verifies Dir() respects TIRE_CACHE_DIR.
func TestDir_WithTIRE_CACHE_DIR(t *testing.T) {
	customDir := withCacheDir(t)

	result, ok := Dir()

	assert.True(t, ok)
	assert.Equal(t, customDir, result)
}

// TestDir_WithoutTIRE_CACHE_DIR verifies Dir() falls back to
// os.UserCacheDir/tire when the env var is not set.
func TestDir_WithoutTIRE_CACHE_DIR(t *testing.T) {
	t.Setenv("TIRE_CACHE_DIR", "")

	result, ok := Dir()

	if ok {
		assert.True(t, filepath.IsAbs(result))
		assert.Equal(t, "tire", filepath.Base(result))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"1", "1", true},
		{"true", "true", true},
		{"yes", "yes", true},
		{"empty string", "", true},
		{"0", "0", false},
		{"false", "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TIRE_CACHE", tt.value)
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

func TestEntryPath(t *testing.T) {
	dir := withCacheDir(t)
	key := "https://example.com/profile.toml"

	p, exists := EntryPath([]string{"profiles"}, key)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(dir, "profiles", encodeKey(key)), p)

	require.NoError(t, Write([]string{"profiles"}, key, []byte("x")))
	_, exists = EntryPath([]string{"profiles"}, key)
	assert.True(t, exists)
}

func TestReadWrite(t *testing.T) {
	withCacheDir(t)
	key := "s3://bucket/profile.toml"
	data := []byte("[tool.ruff]\nline-length = 100\n")

	_, ok := Read([]string{"profiles"}, key)
	assert.False(t, ok)

	require.NoError(t, Write([]string{"profiles"}, key, data))

	entry, ok := Read([]string{"profiles"}, key)
	require.True(t, ok)
	assert.Equal(t, key, entry.Key)
	assert.Equal(t, data, entry.Data)
	assert.Equal(t, int64(len(data)), entry.Size)
	assert.Equal(t, encodeKey(key), entry.EncodedKey)

	info, err := os.Stat(entry.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestReadWrite_CachingDisabled(t *testing.T) {
	dir := withCacheDir(t)
	t.Setenv("TIRE_CACHE", "0")

	require.NoError(t, Write([]string{"profiles"}, "k", []byte("v")))
	_, ok := Read([]string{"profiles"}, "k")
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPurge(t *testing.T) {
	withCacheDir(t)
	require.NoError(t, Write([]string{"profiles"}, "old", []byte("o")))
	require.NoError(t, Write([]string{"profiles", "nested"}, "new", []byte("n")))

	oldPath, _ := EntryPath([]string{"profiles"}, "old")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	// Zero hours disables purging.
	require.NoError(t, Purge(0))
	_, exists := EntryPath([]string{"profiles"}, "old")
	assert.True(t, exists)

	require.NoError(t, Purge(24))
	_, exists = EntryPath([]string{"profiles"}, "old")
	assert.False(t, exists)
	_, exists = EntryPath([]string{"profiles", "nested"}, "new")
	assert.True(t, exists)
}

func TestPurge_MissingBase(t *testing.T) {
	t.Setenv("TIRE_CACHE_DIR", filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, Purge(1))
	assert.NoError(t, Clear())
}

func TestClearAndList(t *testing.T) {
	withCacheDir(t)
	require.NoError(t, Write([]string{"profiles"}, "a", []byte("aaa")))
	require.NoError(t, Write([]string{"profiles"}, "b", []byte("b")))

	aPath, _ := EntryPath([]string{"profiles"}, "a")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(aPath, past, past))

	entries, err := List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join("profiles", encodeKey("b")), entries[0].EncodedKey)
	assert.Equal(t, int64(3), entries[1].Size)

	require.NoError(t, Clear())
	entries, err = List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEncodeKey(t *testing.T) {
	a := encodeKey("https://example.com/a.toml")
	assert.Equal(t, a, encodeKey("https://example.com/a.toml"))
	assert.NotEqual(t, a, encodeKey("https://example.com/b.toml"))
	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]+$", a)
}
