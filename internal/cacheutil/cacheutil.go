// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/NiklasRosenstein/tire/internal/log"
)

// Entry represents a cached artifact on disk.
// Key is the clear-text key when known; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
	Size       int64
	ModTime    time.Time
}

// Dir resolves the base cache directory.
// Precedence:
//  1. TIRE_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/tire
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("TIRE_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "tire"), true
	}
	return "", false
}

// Enabled returns true unless TIRE_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("TIRE_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EntryPath returns the absolute path where a cache entry would live given
// subdirectory components and the clear-text key. It also returns true if a
// file currently exists at that path.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append([]string{base}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	return walk(func(path string, info fs.FileInfo) {
		if time.Since(info.ModTime()) > maxAge {
			remove(path)
		}
	})
}

// Clear removes every cached file regardless of age.
func Clear() error {
	return walk(func(path string, _ fs.FileInfo) {
		remove(path)
	})
}

// List returns metadata for every cached file, most recent first. Data is not
// loaded and Key is empty because only the hashed name is stored on disk.
func List() ([]Entry, error) {
	base, ok := Dir()
	if !ok {
		return nil, nil
	}

	var entries []Entry
	err := walk(func(path string, info fs.FileInfo) {
		rel, err := filepath.Rel(base, path)
		if err != nil {
			rel = path
		}
		entries = append(entries, Entry{
			EncodedKey: rel,
			Path:       path,
			Size:       info.Size(),
			ModTime:    info.ModTime(),
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Read attempts to read a cached entry.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}, true
}

// Write stores data for the given key beneath subdirs. Creates directories as needed.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil // treat as disabled.
	}
	base, ok := Dir()
	if !ok {
		return nil // treat as disabled.
	}
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// walk visits every regular file below the cache base. A missing base is not
// an error.
func walk(fn func(path string, info fs.FileInfo)) error {
	base, ok := Dir()
	if !ok {
		return nil
	}

	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		// Entries can disappear underneath us when two runs share a cache.
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() {
			return nil
		}
		fn(path, info)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk cache: %w", err)
	}
	return nil
}

func remove(path string) {
	if err := os.Remove(path); err == nil {
		log.Debugf("removed cache file %s", path)
	} else {
		log.WithError(err).Warnf("failed to remove cache file %s", path)
	}
}

// sha256 returns a 32-byte digest.
func encodeKey(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
