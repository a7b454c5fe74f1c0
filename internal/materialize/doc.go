// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package materialize turns a profile and the project's pyproject.toml into
// an effective configuration file on disk that external tools can be pointed
// at. Files are written either to a fixed location inside the project or to
// a temporary directory that is removed when the Artifact is closed.
package materialize
