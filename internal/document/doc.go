// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package document implements the structured document model used for
// profiles and pyproject.toml files: a TOML table parsed into nested Go maps,
// together with serialization, lookup, and the recursive merge that layers a
// project document over a profile.
package document
