// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
)

// ParseWorkingDir resolves a --cwd value to an absolute directory. An empty
// value means the process working directory. It returns an error if the fs
// entry does not exist or is not a directory.
func ParseWorkingDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}

	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return filepath.Clean(dir), nil
}
