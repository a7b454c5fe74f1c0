// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/materialize"
	"github.com/NiklasRosenstein/tire/internal/output"
	"github.com/NiklasRosenstein/tire/internal/profile"
	"github.com/NiklasRosenstein/tire/internal/tool"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks flag combinations that individual validators
// cannot see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if hasFlag(c, "unsafe-fixes") && c.Bool("unsafe-fixes") && !c.Bool("fix") {
		return tool.ErrUnsafeWithoutFix
	}
	if hasFlag(c, "parallel") && c.Int("parallel") < 0 {
		return fmt.Errorf("--parallel must not be negative")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, output.Formats)
}

func DestinationValidator(value any) error {
	return oneOf(value, materialize.Destinations)
}

func ValidationValidator(value any) error {
	return oneOf(value, profile.Modes)
}

func oneOf(value any, valid []string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

func hasFlag(c *cli.Command, name string) bool {
	for _, f := range c.Flags {
		if slices.Contains(f.Names(), name) {
			return true
		}
	}
	return false
}
