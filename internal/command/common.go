// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/config"
	"github.com/NiklasRosenstein/tire/internal/materialize"
	"github.com/NiklasRosenstein/tire/internal/meta"
	"github.com/NiklasRosenstein/tire/internal/profile"
	"github.com/NiklasRosenstein/tire/internal/util"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// WorkingDir resolves --cwd, falling back to the directory tire was started
// in.
func WorkingDir(cmd *cli.Command) (string, error) {
	dir := cmd.String("cwd")
	if dir == "" {
		dir = GetMeta(cmd).StartingDir
	}
	wd, err := util.ParseWorkingDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory (%s): %w", dir, err)
	}
	return wd, nil
}

// NewLoader builds a profile loader from --refresh, --cache-ttl and the
// cache.clean config key.
func NewLoader(cmd *cli.Command) *profile.Loader {
	clean, _ := config.GetInt("cache.clean", 0)
	return profile.NewLoader(
		profile.WithRefresh(cmd.Bool("refresh")),
		profile.WithCacheClean(clean),
		profile.WithCacheTTL(cmd.Duration("cache-ttl")),
	)
}

// NewMaterializer builds a Materializer from the profile flags. A non-empty
// destination overrides --destination.
func NewMaterializer(cmd *cli.Command, destination materialize.Destination) (*materialize.Materializer, error) {
	mode, err := profile.ParseMode(cmd.String("validation"))
	if err != nil {
		return nil, err
	}

	if destination == "" {
		if destination, err = materialize.ParseDestination(cmd.String("destination")); err != nil {
			return nil, err
		}
	}

	return &materialize.Materializer{
		Loader:      NewLoader(cmd),
		Source:      cmd.String("profile"),
		Validation:  mode,
		Destination: destination,
		Timeout:     cmd.Duration("timeout"),
	}, nil
}

// stdout returns the writer commands print results to.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// stderr returns the writer commands print diagnostics to.
func stderr(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		return root.ErrWriter
	}
	return os.Stderr
}
