// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/materialize"
	"github.com/NiklasRosenstein/tire/internal/profile"
)

// DefaultTimeout bounds profile loading unless --timeout says otherwise.
const DefaultTimeout = 30 * time.Second

// NewProfileFlags returns the flags shared by every command that materializes
// a configuration. ns is the command's config namespace and cfgFile the
// loaded tire.yaml; when cfgFile is empty no config file sources are added.
func NewProfileFlags(ns string, cfgFile string) (flags []cli.Flag) {
	profileFlag := &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "profile to merge under pyproject.toml (default, an http(s):// or s3:// URL, or a file)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TIRE_PROFILE"),
		),
		Value: profile.DefaultName,
	}

	destinationFlag := &cli.StringFlag{
		Name:  "destination",
		Usage: "where the effective configuration is written (ephemeral, fixed)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TIRE_DESTINATION"),
		),
		Value: string(materialize.Ephemeral),
		Validator: func(value string) error {
			return FlagValidators(value, DestinationValidator)
		},
	}

	validationFlag := &cli.StringFlag{
		Name:  "validation",
		Usage: "profile validation mode (auto, strict, lenient)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TIRE_VALIDATION"),
		),
		Value: string(profile.ModeAuto),
		Validator: func(value string) error {
			return FlagValidators(value, ValidationValidator)
		},
	}

	if cfgFile != "" {
		profileFlag = NameSpacedValueChainFlagFromConfigFile(ns, cfgFile, profileFlag)
		destinationFlag = NameSpacedValueChainFlagFromConfigFile(ns, cfgFile, destinationFlag)
		validationFlag = NameSpacedValueChainFlagFromConfigFile(ns, cfgFile, validationFlag)
	}

	timeoutFlag := &cli.DurationFlag{
		Name:    "timeout",
		Usage:   "time allowed for fetching a remote profile",
		Value:   DefaultTimeout,
		Sources: cli.NewValueSourceChain(),
	}
	if cfgFile != "" {
		timeoutFlag.Sources.Chain = append(timeoutFlag.Sources.Chain,
			yaml.YAML(ns+".timeout", altsrc.StringSourcer(cfgFile)),
			yaml.YAML("timeout", altsrc.StringSourcer(cfgFile)),
		)
	}

	cacheTTLFlag := &cli.DurationFlag{
		Name:    "cache-ttl",
		Usage:   "how long a cached remote profile is used before fetching it again (0 disables the disk cache)",
		Value:   profile.DefaultCacheTTL,
		Sources: cli.NewValueSourceChain(cli.EnvVar("TIRE_CACHE_TTL")),
	}
	if cfgFile != "" {
		cacheTTLFlag.Sources.Chain = append(cacheTTLFlag.Sources.Chain,
			yaml.YAML("cache.ttl", altsrc.StringSourcer(cfgFile)),
		)
	}

	flags = []cli.Flag{
		profileFlag,
		destinationFlag,
		validationFlag,
		timeoutFlag,
		cacheTTLFlag,
		&cli.StringFlag{
			Name:    "cwd",
			Aliases: []string{"C"},
			Usage:   "directory to locate the project from",
		},
		&cli.BoolFlag{
			Name:  "refresh",
			Usage: "fetch remote profiles even if cached",
			Value: false,
		},
	}

	return
}

// NewOutputFlag returns the --output flag for document rendering commands.
func NewOutputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (toml, json, yaml)",
		Value:   "toml",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
}

// NewTableFlags returns the flags controlling tabular output.
func NewTableFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "padding between columns",
			Value: 2, //nolint:mnd
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}
}

// NewDryRunFlag returns the flag that prints tool command lines instead of
// running them.
func NewDryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "print the tool command line without running it",
		HideDefault: true,
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	if ns != "" {
		src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
