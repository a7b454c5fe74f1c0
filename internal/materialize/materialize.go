// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package materialize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NiklasRosenstein/tire/internal/document"
	"github.com/NiklasRosenstein/tire/internal/log"
	"github.com/NiklasRosenstein/tire/internal/profile"
	"github.com/NiklasRosenstein/tire/internal/project"
	"github.com/NiklasRosenstein/tire/internal/util"
)

// Destination selects where the effective configuration is written.
type Destination string

const (
	// Ephemeral writes into a fresh temp dir that Close removes.
	Ephemeral Destination = "ephemeral"
	// Fixed writes to <project root>/.tire/pyproject.toml and leaves it there.
	Fixed Destination = "fixed"
)

// Destinations lists the accepted Destination values.
var Destinations = []string{string(Ephemeral), string(Fixed)}

// FixedDir is the directory below the project root used by Fixed.
const FixedDir = ".tire"

// ParseDestination converts a flag value into a Destination. The empty string
// is Ephemeral.
func ParseDestination(s string) (Destination, error) {
	switch Destination(strings.ToLower(s)) {
	case "", Ephemeral:
		return Ephemeral, nil
	case Fixed:
		return Fixed, nil
	}
	return "", fmt.Errorf("invalid destination %q: must be one of %v", s, Destinations)
}

// Materializer produces Artifacts from a profile source and a project.
type Materializer struct {
	Loader      *profile.Loader
	Source      string
	Validation  profile.Mode
	Destination Destination
	// Timeout bounds profile loading when positive.
	Timeout time.Duration
}

// Artifact is an effective configuration written to disk.
type Artifact struct {
	// Path is the written pyproject.toml.
	Path string
	// ProjectRoot is the directory holding ProjectFile, or the working
	// directory when no project file was found.
	ProjectRoot string
	// ProjectFile is empty when no pyproject.toml was found.
	ProjectFile string
	Profile     *profile.Profile
	Project     document.Document
	Document    document.Document

	tempDir string
}

// Close removes the temp dir of an ephemeral artifact. It is a no-op for
// fixed artifacts and safe to call more than once.
func (a *Artifact) Close() error {
	if a == nil || a.tempDir == "" {
		return nil
	}
	dir := a.tempDir
	a.tempDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	log.Debugf("removed %s", dir)
	return nil
}

// Ephemeral reports whether Close will remove the artifact.
func (a *Artifact) Ephemeral() bool {
	return a.tempDir != ""
}

// Resolve loads and validates the profile and merges the project over it
// without writing anything.
func (m *Materializer) Resolve(ctx context.Context, workingDir string) (*Artifact, error) {
	wd, err := util.ParseWorkingDir(workingDir)
	if err != nil {
		return nil, err
	}

	projectFile, found, err := project.Find(wd)
	if err != nil {
		return nil, err
	}

	loader := m.Loader
	if loader == nil {
		loader = profile.NewLoader()
	}
	loadCtx := ctx
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	p, err := loader.Load(loadCtx, m.Source)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(m.Validation.PolicyFor(m.Source)); err != nil {
		return nil, err
	}

	a := &Artifact{ProjectRoot: wd, Profile: p, Project: document.Document{}}
	if found {
		log.Debugf("using project file %s", projectFile)
		a.ProjectFile = projectFile
		a.ProjectRoot = filepath.Dir(projectFile)
		if a.Project, err = document.ReadFile(projectFile); err != nil {
			return nil, err
		}
	} else {
		log.Debugf("no %s found above %s", project.FileName, wd)
	}

	a.Document = p.Merge(a.Project)
	return a, nil
}

// Materialize resolves the effective configuration and writes it to the
// configured destination. The caller must Close the returned Artifact.
func (m *Materializer) Materialize(ctx context.Context, workingDir string) (_ *Artifact, err error) {
	a, err := m.Resolve(ctx, workingDir)
	if err != nil {
		return nil, err
	}

	data, err := a.Document.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize effective configuration: %w", err)
	}

	destination := m.Destination
	if destination == "" {
		destination = Ephemeral
	}

	var dir string
	switch destination {
	case Fixed:
		dir = filepath.Join(a.ProjectRoot, FixedDir)
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	case Ephemeral:
		if dir, err = os.MkdirTemp("", "tire-"); err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		a.tempDir = dir
		defer func() {
			if err != nil {
				_ = a.Close()
			}
		}()
	default:
		return nil, fmt.Errorf("invalid destination %q: must be one of %v", destination, Destinations)
	}

	a.Path = filepath.Join(dir, project.FileName)
	if err := os.WriteFile(a.Path, data, 0o644); err != nil { //nolint:gosec,mnd
		return nil, fmt.Errorf("failed to write effective configuration: %w", err)
	}
	log.Debugf("wrote %s (%s)", a.Path, destination)

	return a, nil
}

// With materializes, runs fn with the artifact and closes it afterwards,
// whatever fn returns.
func (m *Materializer) With(ctx context.Context, workingDir string, fn func(*Artifact) error) (err error) {
	a, err := m.Materialize(ctx, workingDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(a)
}
