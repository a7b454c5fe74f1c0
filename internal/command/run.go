// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"slices"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/meta"
	"github.com/NiklasRosenstein/tire/internal/tool"
)

// runCommandAction calls a script, module function or package through uv.
// Flag parsing is skipped so options reach uv and the target untouched.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	log.Debugf("run args: %v", args)

	argv, err := tool.Run(args)
	if err != nil {
		return err
	}
	return newPassthroughRunner(cmd).Run(ctx, argv)
}

func runCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:  "run",
		Usage: "call a Python script, module, function or package",
		UsageText: `tire run [uv options] <target> [args...]

   Options before the first positional argument are passed to uv, everything
   after it to the target.

   tire run path/to/file.py
   tire run module:func
   tire run -m module
   tire run @pkg
   tire run --with pkg pkg-cmd`,
		SkipFlagParsing: true,
		Action:          runCommandAction,
		Meta:            meta,
	}).Build()
}

// addCommandAction is an alias for uv add.
func addCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	auto := slices.Contains(args, "--auto")
	args = slices.DeleteFunc(args, func(a string) bool { return a == "--auto" })

	argv, err := tool.Add(args, auto)
	if err != nil {
		return err
	}
	return newPassthroughRunner(cmd).Run(ctx, argv)
}

func addCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:            "add",
		Usage:           "add dependencies to the project (uv add)",
		UsageText:       "tire add [--auto] [uv add options] <packages...>",
		SkipFlagParsing: true,
		Action:          addCommandAction,
		Meta:            meta,
	}).Build()
}

func newPassthroughRunner(cmd *cli.Command) *tool.Runner {
	runner := tool.NewRunner(GetMeta(cmd).StartingDir)
	runner.Stdout = stdout(cmd)
	runner.Stderr = stderr(cmd)
	return runner
}
