// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/config"
	"github.com/NiklasRosenstein/tire/internal/meta"
)

// InitApp builds the tire command tree for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// The arg[1] immediately following the binary (arg[0]) is the tire
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is not an error; every setting has a default.
	cfg, _ := config.Load(ns) //nolint
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		WorkingDir:  sd,
	}

	app := &cli.Command{
		Name:  "tire",
		Usage: "Python project tooling with shared configuration profiles",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "tire version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		addCommandBuilder(meta),
		cacheCommandBuilder(meta),
		checkCommandBuilder(meta),
		configCommandBuilder(meta),
		fmtCommandBuilder(meta),
		lintCommandBuilder(meta),
		profileCommandBuilder(meta),
		runCommandBuilder(meta),
		testCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	sortFlags(app.Commands)

	return app, nil
}

func sortFlags(cmds []*cli.Command) {
	for _, cmd := range cmds {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
		sortFlags(cmd.Commands)
	}
}
