// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/meta"
)

// CommandBuilder is a helper that constructs a cli.Command using a consistent
// pattern. The builder wires metadata, appends the profile flags when the
// command materializes a configuration, and sets up validators. Config file
// sources for the profile flags are namespaced by the top-level command
// recorded in Meta.Config.Namespace.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	// Profile adds the flags selecting and placing the profile.
	Profile bool
	// SkipFlagParsing passes every argument through to the action.
	SkipFlagParsing bool
	Action          func(context.Context, *cli.Command) error
	Commands        []*cli.Command
	Meta            meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := cb.Flags
	if cb.Profile {
		flags = append(flags, NewProfileFlags(cb.Meta.Config.Namespace, cb.Meta.Config.Source)...)
	}

	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags:           flags,
		SkipFlagParsing: cb.SkipFlagParsing,
		Commands:        cb.Commands,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: cb.Action,
	}
}
