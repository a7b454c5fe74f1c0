// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/materialize"
	"github.com/NiklasRosenstein/tire/internal/tool"
)

// ToolActionRunner encapsulates the common action pattern for the commands
// that wrap a Python tool: resolve the working directory, materialize the
// effective configuration, build the command lines (ArgvFn), run them, and
// release the configuration again.
type ToolActionRunner struct {
	CommandName string
	// Destination overrides --destination when set.
	Destination materialize.Destination
	ArgvFn      func(*cli.Command, *materialize.Artifact) ([][]string, error)
	// AllowedExitCodes are treated as success.
	AllowedExitCodes []int
}

// Run executes the tool action with the provided context and command.
func (tar *ToolActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %s: args=%v", tar.CommandName, m.Args)

	wd, err := WorkingDir(cmd)
	if err != nil {
		return err
	}

	mat, err := NewMaterializer(cmd, tar.Destination)
	if err != nil {
		return err
	}

	runner := tool.NewRunner(wd)
	runner.Stdout = stdout(cmd)
	runner.Stderr = stderr(cmd)
	runner.DryRun = cmd.Bool("dry-run")

	return mat.With(ctx, wd, func(a *materialize.Artifact) error {
		log.Debugf("%s: effective configuration at %s", tar.CommandName, a.Path)

		argvs, err := tar.ArgvFn(cmd, a)
		if err != nil {
			return err
		}
		return runner.RunAll(ctx, argvs, tar.AllowedExitCodes...)
	})
}

// NewToolActionRunner creates a ToolActionRunner with the provided
// configuration.
func NewToolActionRunner(
	commandName string,
	argvFn func(*cli.Command, *materialize.Artifact) ([][]string, error),
) *ToolActionRunner {
	return &ToolActionRunner{
		CommandName: commandName,
		ArgvFn:      argvFn,
	}
}
