// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/materialize"
	"github.com/NiklasRosenstein/tire/internal/meta"
	"github.com/NiklasRosenstein/tire/internal/tool"
)

// checkCommandAction type checks the project with mypy, or with a dmypy
// daemon when --daemon is set. The daemon needs a stable configuration path,
// so it always uses the fixed destination.
func checkCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := NewToolActionRunner("check", func(c *cli.Command, a *materialize.Artifact) ([][]string, error) {
		if c.Bool("daemon") {
			return [][]string{tool.DaemonCheck(a.Path, c.Args().Slice())}, nil
		}
		return [][]string{tool.Check(a.Path, c.Args().Slice())}, nil
	})
	if cmd.Bool("daemon") {
		runner.Destination = materialize.Fixed
	}
	return runner.Run(ctx, cmd)
}

func checkCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "check",
		Usage:     "type check the project with mypy",
		UsageText: "tire check [--daemon] [files...]",
		Profile:   true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "daemon",
				Aliases: []string{"d"},
				Usage:   "run through dmypy and keep the daemon alive between runs",
			},
			NewDryRunFlag(),
		},
		Action: checkCommandAction,
		Meta:   meta,
	}).Build()
}

// fmtCommandAction formats the project with ruff and sorts imports.
func fmtCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewToolActionRunner("fmt", func(c *cli.Command, a *materialize.Artifact) ([][]string, error) {
		return tool.Format(a.Path, c.Bool("check"), c.Args().Slice()), nil
	}).Run(ctx, cmd)
}

func fmtCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "fmt",
		Usage:     "format the project with ruff",
		UsageText: "tire fmt [--check] [files...]",
		Profile:   true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "report files that would change without rewriting them",
			},
			NewDryRunFlag(),
		},
		Action: fmtCommandAction,
		Meta:   meta,
	}).Build()
}

// lintCommandAction lints the project with ruff.
func lintCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewToolActionRunner("lint", func(c *cli.Command, a *materialize.Artifact) ([][]string, error) {
		argv, err := tool.Lint(a.Path, c.Bool("fix"), c.Bool("unsafe-fixes"), c.Args().Slice())
		if err != nil {
			return nil, err
		}
		return [][]string{argv}, nil
	}).Run(ctx, cmd)
}

func lintCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "lint",
		Usage:     "lint the project with ruff",
		UsageText: "tire lint [--fix [--unsafe-fixes]] [files...]",
		Profile:   true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "apply fixes",
			},
			&cli.BoolFlag{
				Name:  "unsafe-fixes",
				Usage: "also apply unsafe fixes (requires --fix)",
			},
			NewDryRunFlag(),
		},
		Action: lintCommandAction,
		Meta:   meta,
	}).Build()
}

// testCommandAction runs the test suite with pytest and pytest-xdist.
func testCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := NewToolActionRunner("test", func(c *cli.Command, a *materialize.Artifact) ([][]string, error) {
		opts := tool.TestOptions{
			Parallel: c.Int("parallel"),
			Filter:   c.String("filter"),
		}
		return [][]string{tool.Test(a.Path, opts, c.Args().Slice())}, nil
	})
	if cmd.Bool("allow-no-tests") {
		runner.AllowedExitCodes = []int{tool.NoTestsCollected}
	}
	return runner.Run(ctx, cmd)
}

func testCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "test",
		Usage:     "run the test suite with pytest",
		UsageText: "tire test [-n N] [-k EXPR] [--allow-no-tests] [files...]",
		Profile:   true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"n"},
				Usage:   "number of xdist workers (0 = auto)",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"k"},
				Usage:   "only run tests matching the expression",
			},
			&cli.BoolFlag{
				Name:  "allow-no-tests",
				Usage: "succeed when no tests were collected",
			},
			NewDryRunFlag(),
		},
		Action: testCommandAction,
		Meta:   meta,
	}).Build()
}
