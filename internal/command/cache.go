// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/cacheutil"
	"github.com/NiklasRosenstein/tire/internal/config"
	"github.com/NiklasRosenstein/tire/internal/meta"
	"github.com/NiklasRosenstein/tire/internal/output"
)

// cacheListColumns are the columns of `tire cache list`.
var cacheListColumns = []string{"key", "size", "modified"}

// cacheListCommandAction lists cached profiles, newest first unless --sort
// says otherwise.
func cacheListCommandAction(_ context.Context, cmd *cli.Command) error {
	dir, ok := cacheutil.Dir()
	if !ok {
		return fmt.Errorf("no cache directory available")
	}

	entries, err := cacheutil.List()
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]interface{}{
			"key":      e.EncodedKey,
			"size":     e.Size,
			"modified": e.ModTime,
		})
	}

	if spec := cmd.String("sort"); spec != "" {
		output.SortDataset(rows, spec)
	}

	// Humanize after sorting so sizes and times compare numerically.
	for _, row := range rows {
		row["size"] = humanize.Bytes(uint64(row["size"].(int64))) //nolint:gosec
		row["modified"] = humanize.Time(row["modified"].(time.Time))
	}

	cmd.Metadata["header"] = dir
	if len(rows) > 0 {
		cmd.Metadata["footer"] = fmt.Sprintf("%d entries", len(rows))
	}
	output.TableWriter(rows, cacheListColumns, cmd, stdout(cmd))
	return nil
}

// cachePurgeCommandAction removes cached profiles older than --older-than
// hours, or all of them with --all.
func cachePurgeCommandAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		return cacheutil.Clear()
	}

	hours := cmd.Int("older-than")
	if !cmd.IsSet("older-than") {
		hours, _ = config.GetInt("cache.clean", hours)
	}
	if hours <= 0 {
		return fmt.Errorf("--older-than must be positive (or use --all)")
	}
	return cacheutil.Purge(hours)
}

func cacheCommandBuilder(meta meta.Meta) *cli.Command {
	list := (&CommandBuilder{
		Name:      "list",
		Usage:     "list cached profiles",
		UsageText: "tire cache list [--sort -modified] [--titles] [--color]",
		Flags:     NewTableFlags(),
		Action:    cacheListCommandAction,
		Meta:      meta,
	}).Build()

	purge := (&CommandBuilder{
		Name:      "purge",
		Usage:     "remove cached profiles",
		UsageText: "tire cache purge [--older-than hours | --all]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "remove every cached profile",
			},
			&cli.IntFlag{
				Name:  "older-than",
				Usage: "remove entries older than this many hours (default: cache.clean from tire.yaml)",
				Value: 24, //nolint:mnd
			},
		},
		Action: cachePurgeCommandAction,
		Meta:   meta,
	}).Build()

	return (&CommandBuilder{
		Name:     "cache",
		Usage:    "inspect and clean the profile cache",
		Commands: []*cli.Command{list, purge},
		Meta:     meta,
	}).Build()
}
