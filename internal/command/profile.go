// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/meta"
	"github.com/NiklasRosenstein/tire/internal/output"
	"github.com/NiklasRosenstein/tire/internal/profile"
)

// loadProfile loads the --profile source within --timeout.
func loadProfile(ctx context.Context, cmd *cli.Command) (*profile.Profile, error) {
	if timeout := cmd.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return NewLoader(cmd).Load(ctx, cmd.String("profile"))
}

// profileShowCommandAction prints the profile after validation.
func profileShowCommandAction(ctx context.Context, cmd *cli.Command) error {
	mode, err := profile.ParseMode(cmd.String("validation"))
	if err != nil {
		return err
	}

	p, err := loadProfile(ctx, cmd)
	if err != nil {
		return err
	}
	if err := p.Validate(mode.PolicyFor(cmd.String("profile"))); err != nil {
		return err
	}
	return output.Render(stdout(cmd), p.Root, cmd.String("output"))
}

// profileValidateCommandAction checks the profile strictly, whatever
// --validation says.
func profileValidateCommandAction(ctx context.Context, cmd *cli.Command) error {
	p, err := loadProfile(ctx, cmd)
	if err != nil {
		return err
	}
	if err := p.Validate(profile.Strict); err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "%s: ok (tools: %v)\n", p.Name, p.Tools())
	return nil
}

func profileCommandBuilder(meta meta.Meta) *cli.Command {
	show := (&CommandBuilder{
		Name:      "show",
		Usage:     "print the validated profile",
		UsageText: "tire profile show [-p source] [-o toml|json|yaml]",
		Profile:   true,
		Flags:     []cli.Flag{NewOutputFlag()},
		Action:    profileShowCommandAction,
		Meta:      meta,
	}).Build()

	validate := (&CommandBuilder{
		Name:      "validate",
		Usage:     "check a profile against the tool allow-list",
		UsageText: "tire profile validate [-p source]",
		Profile:   true,
		Action:    profileValidateCommandAction,
		Meta:      meta,
	}).Build()

	return (&CommandBuilder{
		Name:     "profile",
		Usage:    "inspect profiles",
		Commands: []*cli.Command{show, validate},
		Meta:     meta,
	}).Build()
}
