// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package project locates the project configuration file for a working
// directory.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/NiklasRosenstein/tire/internal/log"
)

// FileName is the project configuration file searched for.
const FileName = "pyproject.toml"

// Find walks from start up to the filesystem root and returns the path of the
// first FileName found, closest ancestor first and start itself included. ok
// is false when no ancestor has one; that is not an error.
func Find(start string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			log.Debugf("project file found: path=%s", candidate)
			return candidate, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("failed to inspect %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			log.Debugf("no %s above %s", FileName, start)
			return "", false, nil
		}
		dir = parent
	}
}

// Root returns the project root for a working directory: the directory of the
// located project file, or workingDir itself when there is none.
func Root(workingDir string) (string, error) {
	path, ok, err := Find(workingDir)
	if err != nil {
		return "", err
	}
	if ok {
		return filepath.Dir(path), nil
	}
	return filepath.Abs(workingDir)
}
