// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/differ"
	"github.com/NiklasRosenstein/tire/internal/materialize"
	"github.com/NiklasRosenstein/tire/internal/meta"
	"github.com/NiklasRosenstein/tire/internal/output"
)

// resolve merges the profile and the project without writing anything.
func resolve(ctx context.Context, cmd *cli.Command) (*materialize.Artifact, error) {
	wd, err := WorkingDir(cmd)
	if err != nil {
		return nil, err
	}
	mat, err := NewMaterializer(cmd, "")
	if err != nil {
		return nil, err
	}
	return mat.Resolve(ctx, wd)
}

// configShowCommandAction prints the effective configuration.
func configShowCommandAction(ctx context.Context, cmd *cli.Command) error {
	a, err := resolve(ctx, cmd)
	if err != nil {
		return err
	}
	return output.Render(stdout(cmd), a.Document, cmd.String("output"))
}

// configPathCommandAction writes the effective configuration to its fixed
// location and prints the path.
func configPathCommandAction(ctx context.Context, cmd *cli.Command) error {
	wd, err := WorkingDir(cmd)
	if err != nil {
		return err
	}
	mat, err := NewMaterializer(cmd, materialize.Fixed)
	if err != nil {
		return err
	}
	a, err := mat.Materialize(ctx, wd)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(cmd), a.Path)
	return nil
}

// configGetCommandAction prints the value at a gjson path of the effective
// configuration, e.g. tool.ruff.line-length.
func configGetCommandAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("missing path: usage: tire config get <path>")
	}

	a, err := resolve(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := output.Query(a.Document, path)
	if err != nil {
		return err
	}
	if !result.Exists() {
		return fmt.Errorf("no value at %s", path)
	}
	fmt.Fprintln(stdout(cmd), result.String())
	return nil
}

// configDiffCommandAction shows what the profile adds to the project.
func configDiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	a, err := resolve(ctx, cmd)
	if err != nil {
		return err
	}
	if a.ProjectFile == "" {
		log.Warnf("no pyproject.toml found, diffing against an empty project")
	}

	w := stdout(cmd)
	coloring := cmd.Bool("color")
	if f, ok := w.(*os.File); ok && !cmd.IsSet("color") {
		coloring = differ.IsTerminal(f)
	}

	var filter []string
	for key := range strings.SplitSeq(cmd.String("diff_filter"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			filter = append(filter, key)
		}
	}

	_, err = differ.Diff(w, a.Project, a.Document, differ.Options{
		Coloring: coloring,
		Filter:   filter,
	})
	return err
}

func configCommandBuilder(meta meta.Meta) *cli.Command {
	show := (&CommandBuilder{
		Name:      "show",
		Usage:     "print the effective configuration",
		UsageText: "tire config show [-o toml|json|yaml]",
		Profile:   true,
		Flags:     []cli.Flag{NewOutputFlag()},
		Action:    configShowCommandAction,
		Meta:      meta,
	}).Build()

	path := (&CommandBuilder{
		Name:      "path",
		Usage:     "write the effective configuration to .tire/pyproject.toml and print its path",
		UsageText: "tire config path",
		Profile:   true,
		Action:    configPathCommandAction,
		Meta:      meta,
	}).Build()

	get := (&CommandBuilder{
		Name:      "get",
		Usage:     "print one value of the effective configuration",
		UsageText: "tire config get <path>   (e.g. tool.ruff.line-length, tool.ruff.lint.select[0])",
		Profile:   true,
		Action:    configGetCommandAction,
		Meta:      meta,
	}).Build()

	diff := (&CommandBuilder{
		Name:      "diff",
		Usage:     "show what the profile adds to pyproject.toml",
		UsageText: "tire config diff [--color] [--diff_filter keys]",
		Profile:   true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "color the diff (default: when writing to a terminal)",
			},
			&cli.StringFlag{
				Name:  "diff_filter",
				Usage: "comma-separated top-level keys to leave out of the diff",
			},
		},
		Action: configDiffCommandAction,
		Meta:   meta,
	}).Build()

	return (&CommandBuilder{
		Name:     "config",
		Usage:    "inspect the effective configuration",
		Commands: []*cli.Command{show, path, get, diff},
		Meta:     meta,
	}).Build()
}
