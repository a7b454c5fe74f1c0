// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/NiklasRosenstein/tire/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the directory tire was started in and the
// resolved working directory (--cwd) used to locate the project.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
	WorkingDir  string
}
